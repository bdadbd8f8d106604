// Package cmd - Plan enrichment command
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"plancost/adapters/cache"
	"plancost/adapters/catalog"
	planfile "plancost/adapters/plan"
	"plancost/adapters/report"
	"plancost/adapters/trace"
	"plancost/core/enrich"
	"plancost/core/types"
	"plancost/internal/config"
	"plancost/internal/logging"
)

var (
	enrichRefresh    bool
	enrichNoCache    bool
	enrichResetCache bool
	enrichTrace      bool
	enrichFormat     string
)

var enrichCmd = &cobra.Command{
	Use:   "enrich <plan-file>",
	Short: "Price every resource in a plan file",
	Long: `Enrich a plan (JSON, YAML, or HCL) into priced line items.

Each resource is matched against the locally cached vendor catalog,
scored, and converted to monthly and yearly cost. Resources that cannot
be priced confidently degrade to estimated or unpriced line items; the
run always completes.`,
	Args: cobra.ExactArgs(1),
	RunE: runEnrich,
}

func init() {
	enrichCmd.Flags().BoolVar(&enrichRefresh, "refresh", false, "force-refresh catalogs touched by this run")
	enrichCmd.Flags().BoolVar(&enrichNoCache, "no-cache", false, "bypass the price cache and re-score every resource")
	enrichCmd.Flags().BoolVar(&enrichResetCache, "reset-cache", false, "clear the price cache before the run")
	enrichCmd.Flags().BoolVar(&enrichTrace, "trace", false, "append per-resource scoring snapshots to the trace log")
	enrichCmd.Flags().StringVarP(&enrichFormat, "format", "f", "table", "output format (table, json)")
}

func runEnrich(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	p, err := planfile.Load(args[0])
	if err != nil {
		return err
	}

	formatter, err := report.New(enrichFormat)
	if err != nil {
		return err
	}

	store, err := catalog.NewStore(cfg.Catalog.Dir, catalog.NewRetailFetcher(cfg.Catalog.Endpoint))
	if err != nil {
		return err
	}

	priceCache := cache.Open(cfg.Cache.Path)
	if enrichResetCache {
		priceCache.Reset()
	}
	defer priceCache.Flush()

	var tracer enrich.Tracer = enrich.NopTracer{}
	if enrichTrace || cfg.Trace.Enabled {
		ft, err := trace.NewFileTracer(cfg.Trace.Path)
		if err != nil {
			logging.Sugar.Warnw("trace disabled", "error", err)
		} else {
			tracer = ft
			defer ft.Close()
		}
	}

	orch := enrich.New(store, priceCache, tracer, enrich.Options{
		ForceRefresh:    enrichRefresh,
		BypassCache:     enrichNoCache || !cfg.Cache.Enabled,
		ConfidenceFloor: cfg.Pricing.ConfidenceFloor,
		DefaultCurrency: types.Currency(cfg.Pricing.DefaultCurrency),
	})

	enriched, err := orch.EnrichPlan(context.Background(), p)
	if err != nil {
		return err
	}

	if err := formatter.Render(os.Stdout, enriched); err != nil {
		return fmt.Errorf("rendering output: %w", err)
	}
	return nil
}
