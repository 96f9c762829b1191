// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/sdg-engine/internal/openalex"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [ror-id]",
	Short: "Fetch an institution's works from OpenAlex",
	Long: `Fetch pages through the OpenAlex works of the institution identified by
its ROR ID and writes them as a YAML works file for the enrich command.
Native abstracts present in OpenAlex are reconstructed from the inverted
index and included in the records.`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringP("output", "o", "works/works.yaml", "output works file")
	fetchCmd.Flags().Int("per-page", 0, "page size for cursor pagination (default 200)")
	fetchCmd.Flags().Int("max-works", 0, "cap on total works fetched (0 = no cap)")
	fetchCmd.Flags().String("mailto", "", "contact email for OpenAlex polite pool")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg := loadConfig().Fetch
	if perPage, _ := cmd.Flags().GetInt("per-page"); perPage > 0 {
		cfg.PerPage = perPage
	}
	if maxWorks, _ := cmd.Flags().GetInt("max-works"); maxWorks > 0 {
		cfg.MaxWorks = maxWorks
	}
	if mailto, _ := cmd.Flags().GetString("mailto"); mailto != "" {
		cfg.Mailto = mailto
	}
	output, _ := cmd.Flags().GetString("output")

	client := newHTTPClient(cfg.HTTPConfig)
	records, err := openalex.FetchInstitutionWorks(context.Background(), client, args[0], cfg, os.Stdout)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	data, err := yaml.Marshal(records)
	if err != nil {
		return fmt.Errorf("encoding works: %w", err)
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("writing works file: %w", err)
	}

	fmt.Printf("Fetched %d works to %s\n", len(records), output)
	return nil
}
