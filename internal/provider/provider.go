// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package provider wraps the external abstract sources behind a uniform
// lookup contract. Each provider implements Lookup per the Strategy
// pattern, so adding or reordering providers is a configuration change.
package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/pdiddy/sdg-engine/pkg/types"
)

// ErrNotFound reports a confirmed negative: the provider definitively has
// no abstract for the record. A provider that needs a DOI and receives a
// record without one also returns ErrNotFound — absence of a required key
// is not a fetch failure.
var ErrNotFound = errors.New("abstract not found")

// TransientError reports a retryable failure (rate limit, network error,
// server error). Transient errors are never cached, so the next run
// retries the provider.
type TransientError struct {
	Provider string
	Err      error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s: transient failure: %v", e.Provider, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// Provider looks up an abstract for a record from one external source.
// Lookup returns the abstract text, ErrNotFound for a confirmed negative,
// or a *TransientError for retryable conditions.
type Provider interface {
	Name() string
	Lookup(ctx context.Context, rec types.Record) (string, error)
}

// Provider names accepted in the fallback-chain configuration.
const (
	NameOpenAlex        = "openalex"
	NameSemanticScholar = "semantic_scholar"
	NameGoogleScholar   = "google_scholar"
)

// Build constructs the fallback chain from the configured provider names,
// preserving order. Unknown names are an error so a misconfigured chain
// fails fast instead of silently skipping a provider.
func Build(cfg types.ResolverConfig, client *http.Client) ([]Provider, error) {
	var chain []Provider
	for _, name := range cfg.Chain {
		switch name {
		case NameOpenAlex:
			chain = append(chain, &OpenAlex{
				Client:    client,
				Email:     cfg.OpenAlexEmail,
				UserAgent: cfg.UserAgent,
			})
		case NameSemanticScholar:
			chain = append(chain, &SemanticScholar{
				Client:    client,
				APIKey:    cfg.SemanticScholarAPIKey,
				UserAgent: cfg.UserAgent,
			})
		case NameGoogleScholar:
			chain = append(chain, &GoogleScholar{
				Client:    client,
				UserAgent: cfg.UserAgent,
			})
		default:
			return nil, fmt.Errorf("unknown provider %q in fallback chain", name)
		}
	}
	return chain, nil
}
