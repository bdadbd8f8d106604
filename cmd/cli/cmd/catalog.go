// Package cmd - Catalog store commands
package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"plancost/adapters/catalog"
	"plancost/core/normalize"
	"plancost/core/types"
	"plancost/internal/config"
)

var (
	catalogRegion   string
	catalogCurrency string
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect and refresh the local price catalog",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List persisted catalogs without fetching",
	RunE:  runCatalogList,
}

var catalogFetchCmd = &cobra.Command{
	Use:   "fetch <category>",
	Short: "Force-refresh the catalog for a resource category",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogFetch,
}

func init() {
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogFetchCmd)

	catalogFetchCmd.Flags().StringVarP(&catalogRegion, "region", "r", "", "vendor region name [required]")
	catalogFetchCmd.Flags().StringVarP(&catalogCurrency, "currency", "c", "", "currency code (default from config)")
	catalogFetchCmd.MarkFlagRequired("region")
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	store, err := catalog.NewStore(cfg.Catalog.Dir, catalog.NewRetailFetcher(cfg.Catalog.Endpoint))
	if err != nil {
		return err
	}

	metas, err := store.List()
	if err != nil {
		return err
	}
	if len(metas) == 0 {
		fmt.Println("No catalogs persisted yet.")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SERVICE\tREGION\tCURRENCY\tRECORDS\tFETCHED\tWARNINGS")
	for _, m := range metas {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%d\n",
			m.Key.Service, m.Key.Region, m.Key.Currency,
			m.RecordCount, m.FetchedAt.Format("2006-01-02 15:04"), len(m.Warnings))
	}
	return tw.Flush()
}

func runCatalogFetch(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	service, _, err := normalize.Normalize(args[0], "")
	if err != nil {
		return err
	}

	currency := catalogCurrency
	if currency == "" {
		currency = cfg.Pricing.DefaultCurrency
	}

	store, err := catalog.NewStore(cfg.Catalog.Dir, catalog.NewRetailFetcher(cfg.Catalog.Endpoint))
	if err != nil {
		return err
	}

	key := types.CatalogKey{Service: service, Region: catalogRegion, Currency: types.Currency(currency)}
	set, err := store.Ensure(context.Background(), key, true)
	if err != nil {
		return err
	}

	fmt.Printf("Fetched %d records for %s\n", set.Meta.RecordCount, key)
	for _, w := range set.Meta.Warnings {
		fmt.Printf("  warning: %s\n", w)
	}
	return nil
}
