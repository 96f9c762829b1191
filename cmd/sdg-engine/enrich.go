// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/sdg-engine/internal/classify"
	"github.com/pdiddy/sdg-engine/internal/metrics"
	"github.com/pdiddy/sdg-engine/internal/pipeline"
	"github.com/pdiddy/sdg-engine/internal/provider"
	"github.com/pdiddy/sdg-engine/internal/resolve"
	"github.com/pdiddy/sdg-engine/pkg/types"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Resolve abstracts and classify works against the SDGs",
	Long: `Enrich reads a works file, resolves an abstract for each record (native
field, then cache, then the provider fallback chain), classifies the text with
the Aurora SDG classifier, and writes the enriched records. Records whose
abstract cannot be resolved fall back to the title for classification.

All resolutions and classifications are memoized in the cache, so rerunning
enrich over the same corpus only contacts external services for new works.`,
	RunE: runEnrich,
}

func init() {
	enrichCmd.Flags().String("works", "works/works.yaml", "input works file")
	enrichCmd.Flags().StringP("output", "o", "works/enriched.yaml", "output file for enriched records")
	enrichCmd.Flags().String("format", "yaml", "output format: yaml or json")
	enrichCmd.Flags().String("model", "", "classifier model ID (default from config)")
	enrichCmd.Flags().Int("workers", 0, "concurrent record workers (default from config)")
	enrichCmd.Flags().Bool("metrics", false, "print cache and provider counters after the run")

	rootCmd.AddCommand(enrichCmd)
}

func runEnrich(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if model, _ := cmd.Flags().GetString("model"); model != "" {
		cfg.Classify.Model = model
	}
	if workers, _ := cmd.Flags().GetInt("workers"); workers > 0 {
		cfg.Workers = workers
	}
	worksFile, _ := cmd.Flags().GetString("works")
	output, _ := cmd.Flags().GetString("output")
	format, _ := cmd.Flags().GetString("format")
	showMetrics, _ := cmd.Flags().GetBool("metrics")

	records, err := readWorks(worksFile)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no records in %s", worksFile)
	}

	ctx := context.Background()
	store, err := buildStore(ctx, cfg.Cache)
	if err != nil {
		return err
	}
	defer store.Close()

	var m *metrics.Metrics
	var registry *prometheus.Registry
	if showMetrics {
		registry = prometheus.NewRegistry()
		m = metrics.New("sdg_engine", registry)
	}

	client := newHTTPClient(cfg.Resolver.HTTPConfig)
	chain, err := provider.Build(cfg.Resolver, client)
	if err != nil {
		return err
	}

	p := &pipeline.Pipeline{
		Resolver: resolve.New(store, chain, m, os.Stdout),
		Cache:    classify.NewCache(store, cfg.Classify.Models, m),
		Classifier: &classify.AuroraClassifier{
			Client:    newHTTPClient(cfg.Classify.HTTPConfig),
			BaseURL:   cfg.Classify.BaseURL,
			UserAgent: cfg.Classify.UserAgent,
		},
		ModelID: cfg.Classify.Model,
		Workers: cfg.Workers,
		Log:     os.Stdout,
	}

	result, err := p.Run(ctx, records)
	if err != nil {
		return err
	}

	if err := writeEnriched(output, format, result.Records); err != nil {
		return err
	}
	fmt.Printf("Enriched %d works to %s\n", len(result.Records), output)

	if showMetrics {
		printCounters(registry)
	}
	if len(result.Failures) > 0 {
		return fmt.Errorf("%d work(s) could not be classified", len(result.Failures))
	}
	return nil
}

func readWorks(path string) ([]types.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading works file: %w", err)
	}
	var records []types.Record
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing works file: %w", err)
	}
	return records, nil
}

func writeEnriched(path, format string, records []pipeline.EnrichedRecord) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	var data []byte
	var err error
	switch format {
	case "yaml", "":
		data, err = yaml.Marshal(records)
	case "json":
		data, err = json.MarshalIndent(records, "", "  ")
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return fmt.Errorf("encoding enriched records: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// printCounters dumps the run's counters to stderr, one line per series.
func printCounters(registry *prometheus.Registry) {
	families, err := registry.Gather()
	if err != nil {
		return
	}
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			labels := ""
			for _, l := range metric.GetLabel() {
				labels += fmt.Sprintf(" %s=%s", l.GetName(), l.GetValue())
			}
			fmt.Fprintf(os.Stderr, "%s%s %v\n", mf.GetName(), labels, metric.GetCounter().GetValue())
		}
	}
}
