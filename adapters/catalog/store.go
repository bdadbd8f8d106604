// Package catalog - File-backed catalog store
package catalog

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"plancost/core/types"
	"plancost/internal/errors"
	"plancost/internal/logging"
)

// Store persists one line-delimited record file plus one metadata
// sidecar per catalog key. An empty catalog is a valid, cacheable
// outcome and is persisted like any other.
type Store struct {
	dir     string
	fetcher PageFetcher
	log     *zap.Logger
	mu      sync.Mutex
}

// NewStore creates a store rooted at dir, filling misses via fetcher
func NewStore(dir string, fetcher PageFetcher) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(errors.TypeConfig, "creating catalog directory", err)
	}
	return &Store{
		dir:     dir,
		fetcher: fetcher,
		log:     logging.With(zap.String("component", "catalog")),
	}, nil
}

func (s *Store) recordsPath(key types.CatalogKey) string {
	return filepath.Join(s.dir, key.Encode()+".ndjson")
}

func (s *Store) metaPath(key types.CatalogKey) string {
	return filepath.Join(s.dir, key.Encode()+".meta.json")
}

// Ensure returns the catalog for key, loading the persisted set when one
// exists and forceRefresh is false, otherwise fetching and persisting a
// fresh one. Fetch failures are downgraded to meta warnings; callers
// always get a set back, possibly empty or partial.
func (s *Store) Ensure(ctx context.Context, key types.CatalogKey, forceRefresh bool) (*types.CatalogSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !forceRefresh {
		if set, err := s.load(key); err == nil {
			return set, nil
		}
	}

	set := s.fetchAll(ctx, key)
	if err := s.persist(set); err != nil {
		return nil, errors.Wrap(errors.TypeInternal, "persisting catalog", err)
	}

	s.log.Info("catalog refreshed",
		zap.String("key", key.String()),
		zap.Int("records", set.Meta.RecordCount),
		zap.Int("warnings", len(set.Meta.Warnings)))
	return set, nil
}

// Load returns the persisted catalog for key without fetching
func (s *Store) Load(key types.CatalogKey) (*types.CatalogSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(key)
}

// List returns metadata for every persisted catalog, sorted by key,
// without triggering any fetch
func (s *Store) List() ([]types.CatalogMeta, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.Wrap(errors.TypeInternal, "reading catalog directory", err)
	}

	var metas []types.CatalogMeta
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".meta.json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			continue
		}
		var meta types.CatalogMeta
		if err := json.Unmarshal(data, &meta); err != nil {
			s.log.Warn("skipping unreadable catalog meta", zap.String("file", entry.Name()), zap.Error(err))
			continue
		}
		metas = append(metas, meta)
	}

	sort.Slice(metas, func(i, j int) bool {
		return metas[i].Key.String() < metas[j].Key.String()
	})
	return metas, nil
}

// fetchAll accumulates every page for a key. Errors end the loop and are
// recorded as warnings so the partial set still persists.
func (s *Store) fetchAll(ctx context.Context, key types.CatalogKey) *types.CatalogSet {
	set := &types.CatalogSet{
		Meta: types.CatalogMeta{
			Key:       key,
			FetchedAt: time.Now().UTC(),
		},
	}

	pageToken := ""
	for {
		page, err := s.fetcher.FetchPage(ctx, key, pageToken)
		if err != nil {
			warning := fmt.Sprintf("fetch failed after %d records: %v", len(set.Records), err)
			set.Meta.Warnings = append(set.Meta.Warnings, warning)
			s.log.Warn("catalog fetch degraded", zap.String("key", key.String()), zap.Error(err))
			break
		}
		set.Records = append(set.Records, page.Records...)
		if page.NextPage == "" {
			break
		}
		pageToken = page.NextPage
	}

	set.Meta.RecordCount = len(set.Records)
	if set.Meta.RecordCount == 0 && len(set.Meta.Warnings) == 0 {
		set.Meta.Warnings = append(set.Meta.Warnings, "vendor returned zero records")
	}
	return set
}

// persist writes the record file line by line plus the meta sidecar
func (s *Store) persist(set *types.CatalogSet) error {
	f, err := os.Create(s.recordsPath(set.Meta.Key))
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	for _, rec := range set.Records {
		line, err := json.Marshal(rec)
		if err != nil {
			f.Close()
			return err
		}
		w.Write(line)
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	meta, err := json.MarshalIndent(set.Meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.metaPath(set.Meta.Key), meta, 0644)
}

// load reads a persisted set; both files must be present
func (s *Store) load(key types.CatalogKey) (*types.CatalogSet, error) {
	metaData, err := os.ReadFile(s.metaPath(key))
	if err != nil {
		return nil, err
	}
	var meta types.CatalogMeta
	if err := json.Unmarshal(metaData, &meta); err != nil {
		return nil, err
	}

	f, err := os.Open(s.recordsPath(key))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	set := &types.CatalogSet{Meta: meta}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec types.PriceRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, err
		}
		set.Records = append(set.Records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return set, nil
}

// floatToDecimal converts an API float price to decimal via its string
// form to avoid binary float artifacts
func floatToDecimal(v float64) decimal.Decimal {
	d, err := decimal.NewFromString(fmt.Sprintf("%g", v))
	if err != nil {
		return decimal.NewFromFloat(v)
	}
	return d
}
