// Package cmd - Price cache commands
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"plancost/adapters/cache"
	"plancost/internal/config"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the durable price cache",
}

var cacheResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear all memoized price selections",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		c := cache.Open(cfg.Cache.Path)
		n := c.Size()
		c.Reset()
		c.Flush()
		fmt.Printf("Cleared %d cache entries.\n", n)
		return nil
	},
}

var cacheInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show cache size and warnings",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		c := cache.Open(cfg.Cache.Path)
		fmt.Printf("Entries: %d\n", c.Size())
		for _, w := range c.Warnings() {
			fmt.Printf("  warning: %s\n", w)
		}
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheResetCmd)
	cacheCmd.AddCommand(cacheInfoCmd)
}
