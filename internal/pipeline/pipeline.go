// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline drives batch enrichment: for each record it resolves
// an abstract, falls back to the title when none exists, and classifies
// the text against the SDGs. Records are processed concurrently with a
// bounded worker count while output order follows input order.
package pipeline

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/sdg-engine/internal/classify"
	"github.com/pdiddy/sdg-engine/internal/resolve"
	"github.com/pdiddy/sdg-engine/pkg/types"
)

// Text sources for the classified text.
const (
	TextFromAbstract = "abstract"
	TextFromTitle    = "title"
)

// EnrichedRecord is a record with its resolved text and SDG scores.
// Scores is nil when classification was skipped or unavailable.
type EnrichedRecord struct {
	types.Record   `yaml:",inline"`
	Text           string          `yaml:"text" json:"text"`
	TextSource     string          `yaml:"text_source" json:"text_source"`
	AbstractSource string          `yaml:"abstract_source" json:"abstract_source"`
	Scores         types.SDGScores `yaml:"sdg_scores,omitempty" json:"sdg_scores,omitempty"`
}

// Failure records a per-record classification problem that did not stop
// the batch.
type Failure struct {
	OpenAlexID string
	Err        error
}

// Result is the outcome of a batch run.
type Result struct {
	Records  []EnrichedRecord
	Failures []Failure
}

// Pipeline wires the resolver and classification cache together.
type Pipeline struct {
	Resolver   *resolve.Resolver
	Cache      *classify.Cache
	Classifier classify.Classifier
	ModelID    string
	// Workers bounds concurrent record processing. Values below one are
	// treated as one.
	Workers int
	Log     io.Writer
}

// Run enriches all records. Store failures abort the batch; classifier
// failures are collected per record, and the record is still emitted
// without scores. Results preserve input order.
func (p *Pipeline) Run(ctx context.Context, records []types.Record) (*Result, error) {
	log := p.Log
	if log == nil {
		log = io.Discard
	}
	workers := p.Workers
	if workers < 1 {
		workers = 1
	}

	enriched := make([]EnrichedRecord, len(records))
	failures := make([]Failure, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, rec := range records {
		i, rec := i, rec
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			out, ferr, err := p.enrich(gctx, rec, log)
			if err != nil {
				return err
			}
			enriched[i] = out
			failures[i] = ferr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &Result{Records: enriched}
	for _, f := range failures {
		if f.Err != nil {
			result.Failures = append(result.Failures, f)
		}
	}
	return result, nil
}

func (p *Pipeline) enrich(ctx context.Context, rec types.Record, log io.Writer) (EnrichedRecord, Failure, error) {
	resolved, err := p.Resolver.Resolve(ctx, rec)
	if err != nil {
		return EnrichedRecord{}, Failure{}, fmt.Errorf("resolving %s: %w", rec.OpenAlexID, err)
	}

	out := EnrichedRecord{Record: rec, AbstractSource: resolved.Source}
	if resolved.Found() {
		out.Record.Abstract = resolved.Text
		out.Text = resolved.Text
		out.TextSource = TextFromAbstract
	} else {
		// Title fallback. Titles are too short to stand in for the
		// abstract, so the record's abstract field stays empty.
		out.Text = rec.Title
		out.TextSource = TextFromTitle
	}

	if out.Text == "" {
		return out, Failure{}, nil
	}

	scores, err := p.Cache.Classify(ctx, out.Text, p.ModelID, p.Classifier)
	if err != nil {
		fmt.Fprintf(log, "warning: classification unavailable for %s: %v\n", rec.OpenAlexID, err)
		return out, Failure{OpenAlexID: rec.OpenAlexID, Err: err}, nil
	}
	out.Scores = scores
	return out, Failure{}, nil
}
