// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/sdg-engine/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain the memoization cache",
}

// --- stats subcommand ---

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show entry counts per namespace and status",
	RunE:  runCacheStats,
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	cfg := loadConfig().Cache
	if cfg.Backend != "sqlite" {
		return fmt.Errorf("stats requires the sqlite backend (configured: %s)", cfg.Backend)
	}

	store, err := cache.NewSQLite(cfg.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	rows, err := store.Stats(context.Background())
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("Cache is empty.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-16s  %-10s  %s\n", "Namespace", "Status", "Count")
	total := 0
	for _, row := range rows {
		fmt.Fprintf(os.Stdout, "%-16s  %-10s  %d\n", row.Namespace, row.Status, row.Count)
		total += row.Count
	}
	fmt.Fprintf(os.Stdout, "\n%d entries total\n", total)
	return nil
}

// --- invalidate subcommand ---

var cacheInvalidateCmd = &cobra.Command{
	Use:   "invalidate [work-ids...]",
	Short: "Delete cached abstract resolutions for specific works",
	Long: `Invalidate removes the cached abstract entries for the given OpenAlex work
IDs so the next enrich run re-resolves them through the provider chain. Use
--key to delete an arbitrary cache key instead, including classification
entries.`,
	RunE: runCacheInvalidate,
}

func runCacheInvalidate(cmd *cobra.Command, args []string) error {
	rawKey, _ := cmd.Flags().GetString("key")
	if len(args) == 0 && rawKey == "" {
		return fmt.Errorf("provide one or more work IDs, or --key")
	}

	ctx := context.Background()
	store, err := buildStore(ctx, loadConfig().Cache)
	if err != nil {
		return err
	}
	defer store.Close()

	keys := make([]string, 0, len(args)+1)
	for _, workID := range args {
		keys = append(keys, cache.AbstractKey(workID))
	}
	if rawKey != "" {
		keys = append(keys, rawKey)
	}

	deleted := 0
	for _, key := range keys {
		ok, err := store.Exists(ctx, key)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Printf("%s: no entry\n", key)
			continue
		}
		if err := store.Delete(ctx, key); err != nil {
			return err
		}
		fmt.Printf("%s: deleted\n", key)
		deleted++
	}
	fmt.Printf("\n%d entries deleted\n", deleted)
	return nil
}

func init() {
	cacheInvalidateCmd.Flags().String("key", "", "delete a raw cache key instead of a work ID")

	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheInvalidateCmd)

	rootCmd.AddCommand(cacheCmd)
}
