// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolve implements tiered abstract resolution. A record's
// abstract is taken from the record itself when present, from the
// persistent cache when previously resolved, and otherwise from an
// ordered chain of providers, with the outcome memoized so each work
// costs at most one chain traversal across all runs.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"io"

	"golang.org/x/sync/singleflight"

	"github.com/pdiddy/sdg-engine/internal/cache"
	"github.com/pdiddy/sdg-engine/internal/metrics"
	"github.com/pdiddy/sdg-engine/internal/provider"
	"github.com/pdiddy/sdg-engine/pkg/types"
)

// Abstract sources, recorded alongside every resolution.
const (
	// SourceNative marks abstracts that arrived with the record.
	SourceNative = "native"
	// SourceCache marks abstracts served from a previous run.
	SourceCache = "cache"
	// SourceNone marks records with no abstract available.
	SourceNone = "none"
)

// ResolvedAbstract is the outcome of a resolution. Source is the
// provider name for chain hits, or one of the Source constants.
type ResolvedAbstract struct {
	Text   string
	Source string
}

// Found reports whether an abstract was obtained.
func (r ResolvedAbstract) Found() bool { return r.Text != "" }

// Resolver resolves abstracts through the native/cache/provider tiers.
// Concurrent resolutions of the same work are collapsed into a single
// chain traversal.
type Resolver struct {
	store   cache.Store
	chain   []provider.Provider
	metrics *metrics.Metrics
	log     io.Writer
	group   singleflight.Group
}

// New constructs a Resolver over the given store and provider chain.
// Progress and provider warnings are written to w.
func New(store cache.Store, chain []provider.Provider, m *metrics.Metrics, w io.Writer) *Resolver {
	if w == nil {
		w = io.Discard
	}
	return &Resolver{store: store, chain: chain, metrics: m, log: w}
}

// Resolve returns the abstract for rec, consulting the native field,
// the cache, and the provider chain in that order. A chain traversal
// where every provider confirms absence is memoized as a terminal
// negative; traversals interrupted by transient failures are not
// cached, so the work is retried on the next run.
func (r *Resolver) Resolve(ctx context.Context, rec types.Record) (ResolvedAbstract, error) {
	key := cache.AbstractKey(rec.OpenAlexID)
	v, err, _ := r.group.Do(key, func() (any, error) {
		return r.resolve(ctx, key, rec)
	})
	if err != nil {
		return ResolvedAbstract{Source: SourceNone}, err
	}
	return v.(ResolvedAbstract), nil
}

func (r *Resolver) resolve(ctx context.Context, key string, rec types.Record) (ResolvedAbstract, error) {
	if rec.Abstract != "" {
		entry := cache.Entry{
			Key:     key,
			Status:  cache.StatusFound,
			Payload: rec.Abstract,
			Source:  SourceNative,
		}
		if err := r.store.Put(ctx, entry); err != nil {
			return ResolvedAbstract{}, fmt.Errorf("caching native abstract for %s: %w", rec.OpenAlexID, err)
		}
		return ResolvedAbstract{Text: rec.Abstract, Source: SourceNative}, nil
	}

	entry, err := r.store.Get(ctx, key)
	switch {
	case err == nil:
		switch entry.Status {
		case cache.StatusFound:
			r.metrics.CacheHit("abstract")
			return ResolvedAbstract{Text: entry.Payload, Source: SourceCache}, nil
		case cache.StatusNotFound:
			r.metrics.CacheHit("abstract")
			return ResolvedAbstract{Source: SourceNone}, nil
		}
		// StatusError entries are operator-written markers for works that
		// need re-resolution; fall through to the chain.
	case errors.Is(err, cache.ErrNoEntry):
		r.metrics.CacheMiss("abstract")
	default:
		return ResolvedAbstract{}, fmt.Errorf("reading cache for %s: %w", rec.OpenAlexID, err)
	}

	return r.walkChain(ctx, key, rec)
}

// walkChain tries each provider in order and returns the first
// abstract found.
func (r *Resolver) walkChain(ctx context.Context, key string, rec types.Record) (ResolvedAbstract, error) {
	transient := false
	for _, p := range r.chain {
		text, err := p.Lookup(ctx, rec)
		switch {
		case err == nil:
			r.metrics.ProviderLookup(p.Name(), "found")
			entry := cache.Entry{
				Key:     key,
				Status:  cache.StatusFound,
				Payload: text,
				Source:  p.Name(),
			}
			if err := r.store.Put(ctx, entry); err != nil {
				return ResolvedAbstract{}, fmt.Errorf("caching abstract for %s: %w", rec.OpenAlexID, err)
			}
			return ResolvedAbstract{Text: text, Source: p.Name()}, nil
		case errors.Is(err, provider.ErrNotFound):
			// A single provider's miss is not memoized: a reordered or
			// extended chain should be able to retry this work.
			r.metrics.ProviderLookup(p.Name(), "not_found")
		default:
			// Transient or unexpected. Either way the traversal is
			// inconclusive and must not poison the cache.
			transient = true
			r.metrics.ProviderLookup(p.Name(), "error")
			fmt.Fprintf(r.log, "warning: %s lookup for %s failed: %v\n", p.Name(), rec.OpenAlexID, err)
			if ctx.Err() != nil {
				return ResolvedAbstract{}, ctx.Err()
			}
		}
	}

	if transient {
		return ResolvedAbstract{Source: SourceNone}, nil
	}

	// Every provider confirmed absence. Memoize the negative so the
	// chain is never traversed for this work again.
	entry := cache.Entry{Key: key, Status: cache.StatusNotFound, Source: SourceNone}
	if err := r.store.Put(ctx, entry); err != nil {
		return ResolvedAbstract{}, fmt.Errorf("caching negative for %s: %w", rec.OpenAlexID, err)
	}
	return ResolvedAbstract{Source: SourceNone}, nil
}
