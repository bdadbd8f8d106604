package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"plancost/core/types"
)

type fakeFetcher struct {
	pages map[string][]Page
	calls int
	err   error
}

func (f *fakeFetcher) FetchPage(ctx context.Context, key types.CatalogKey, pageToken string) (Page, error) {
	f.calls++
	if f.err != nil {
		return Page{}, f.err
	}
	pages := f.pages[key.String()]
	idx := 0
	if pageToken != "" {
		fmt.Sscanf(pageToken, "page-%d", &idx)
	}
	if idx >= len(pages) {
		return Page{}, nil
	}
	return pages[idx], nil
}

func testKey() types.CatalogKey {
	return types.CatalogKey{Service: "Virtual Machines", Region: "westeurope", Currency: types.CurrencyEUR}
}

func testRecord(meter, price string) types.PriceRecord {
	return types.PriceRecord{
		ServiceName:        "Virtual Machines",
		ServiceFamily:      "Compute",
		ProductName:        "Virtual Machines Dsv5 Series",
		SkuName:            "D4s v5",
		MeterName:          meter,
		ArmRegionName:      "westeurope",
		UnitOfMeasure:      "1 Hour",
		UnitPrice:          decimal.RequireFromString(price),
		CurrencyCode:       "EUR",
		PriceType:          types.PriceTypeConsumption,
		EffectiveStartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestEnsureFetchesAndPersists(t *testing.T) {
	key := testKey()
	fetcher := &fakeFetcher{pages: map[string][]Page{
		key.String(): {
			{Records: []types.PriceRecord{testRecord("D4s v5", "0.10")}, NextPage: "page-1"},
			{Records: []types.PriceRecord{testRecord("D8s v5", "0.20")}},
		},
	}}

	dir := t.TempDir()
	store, err := NewStore(dir, fetcher)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	set, err := store.Ensure(context.Background(), key, false)
	if err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	if len(set.Records) != 2 {
		t.Fatalf("expected 2 records across pages, got %d", len(set.Records))
	}
	if set.Meta.RecordCount != 2 {
		t.Errorf("meta record count = %d, want 2", set.Meta.RecordCount)
	}
	if fetcher.calls != 2 {
		t.Errorf("expected 2 page fetches, got %d", fetcher.calls)
	}

	if _, err := os.Stat(filepath.Join(dir, key.Encode()+".ndjson")); err != nil {
		t.Errorf("record file not persisted: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, key.Encode()+".meta.json")); err != nil {
		t.Errorf("meta sidecar not persisted: %v", err)
	}
}

func TestEnsureIdempotent(t *testing.T) {
	key := testKey()
	fetcher := &fakeFetcher{pages: map[string][]Page{
		key.String(): {{Records: []types.PriceRecord{testRecord("D4s v5", "0.10")}}},
	}}

	dir := t.TempDir()
	store, _ := NewStore(dir, fetcher)

	first, err := store.Ensure(context.Background(), key, false)
	if err != nil {
		t.Fatalf("first Ensure failed: %v", err)
	}
	callsAfterFirst := fetcher.calls

	second, err := store.Ensure(context.Background(), key, false)
	if err != nil {
		t.Fatalf("second Ensure failed: %v", err)
	}
	if fetcher.calls != callsAfterFirst {
		t.Errorf("second Ensure must not fetch, calls went %d -> %d", callsAfterFirst, fetcher.calls)
	}

	firstJSON, _ := json.Marshal(first.Records)
	secondJSON, _ := json.Marshal(second.Records)
	if string(firstJSON) != string(secondJSON) {
		t.Errorf("ensure not idempotent:\n%s\n%s", firstJSON, secondJSON)
	}
}

func TestEnsureForceRefresh(t *testing.T) {
	key := testKey()
	fetcher := &fakeFetcher{pages: map[string][]Page{
		key.String(): {{Records: []types.PriceRecord{testRecord("D4s v5", "0.10")}}},
	}}

	store, _ := NewStore(t.TempDir(), fetcher)
	ctx := context.Background()

	store.Ensure(ctx, key, false)
	callsAfterFirst := fetcher.calls
	store.Ensure(ctx, key, true)
	if fetcher.calls <= callsAfterFirst {
		t.Error("forced refresh must re-fetch")
	}
}

func TestEnsureEmptyCatalogIsValid(t *testing.T) {
	key := testKey()
	fetcher := &fakeFetcher{pages: map[string][]Page{}}

	store, _ := NewStore(t.TempDir(), fetcher)
	set, err := store.Ensure(context.Background(), key, false)
	if err != nil {
		t.Fatalf("empty catalog must not error: %v", err)
	}
	if len(set.Records) != 0 {
		t.Errorf("expected 0 records, got %d", len(set.Records))
	}
	if len(set.Meta.Warnings) == 0 {
		t.Error("expected a zero-records warning in meta")
	}

	// A persisted empty set must load without fetching again.
	callsAfterFirst := fetcher.calls
	if _, err := store.Ensure(context.Background(), key, false); err != nil {
		t.Fatalf("reloading empty catalog failed: %v", err)
	}
	if fetcher.calls != callsAfterFirst {
		t.Error("persisted empty catalog must be reused, not re-fetched")
	}
}

func TestEnsureFetchErrorDowngraded(t *testing.T) {
	key := testKey()
	fetcher := &fakeFetcher{err: fmt.Errorf("connection refused")}

	store, _ := NewStore(t.TempDir(), fetcher)
	set, err := store.Ensure(context.Background(), key, false)
	if err != nil {
		t.Fatalf("fetch failure must be downgraded, got error: %v", err)
	}
	if len(set.Meta.Warnings) == 0 {
		t.Error("expected the fetch failure recorded as a warning")
	}
	if len(set.Records) != 0 {
		t.Errorf("expected empty set, got %d records", len(set.Records))
	}
}

func TestList(t *testing.T) {
	keyA := types.CatalogKey{Service: "Storage", Region: "westeurope", Currency: types.CurrencyEUR}
	keyB := testKey()
	fetcher := &fakeFetcher{pages: map[string][]Page{
		keyB.String(): {{Records: []types.PriceRecord{testRecord("D4s v5", "0.10")}}},
	}}

	store, _ := NewStore(t.TempDir(), fetcher)
	ctx := context.Background()
	store.Ensure(ctx, keyA, false)
	store.Ensure(ctx, keyB, false)

	metas, err := store.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(metas) != 2 {
		t.Fatalf("expected 2 catalogs, got %d", len(metas))
	}
	if metas[0].Key.String() > metas[1].Key.String() {
		t.Error("List output not sorted by key")
	}
}

func TestKeyEncodeFilesystemSafe(t *testing.T) {
	key := types.CatalogKey{Service: "Azure Database for PostgreSQL", Region: "uae-north", Currency: types.CurrencyUSD}
	enc := key.Encode()
	for _, r := range enc {
		ok := r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-' || r == '_'
		if !ok {
			t.Errorf("unsafe rune %q in encoded key %q", r, enc)
		}
	}
}
