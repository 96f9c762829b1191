// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache persists resolution and classification outcomes in a
// durable key-value store so repeated runs never repeat an external call.
//
// Keys are identity-addressed for abstracts (one resolution per work) and
// content-addressed for classifications (identical text under the same
// model shares one entry regardless of which record it came from).
package cache

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Status records what kind of outcome an Entry memoizes.
type Status string

const (
	// StatusFound marks a successful resolution or classification.
	StatusFound Status = "found"

	// StatusNotFound marks a confirmed negative: the full provider chain
	// was exhausted with every provider definitively reporting no data.
	// Terminal; later runs return it without re-querying.
	StatusNotFound Status = "not_found"

	// StatusError marks an entry written by operator tooling to force a
	// refresh. The resolver never writes this status (transient failures
	// are never cached) but treats it as a miss on read.
	StatusError Status = "error"

	// StatusSkipped marks text below a model's minimum input length,
	// skipped without calling the classifier.
	StatusSkipped Status = "skipped"
)

// Entry is the value stored under a cache key.
type Entry struct {
	Key    string `json:"key"`
	Status Status `json:"status"`

	// Payload is the abstract text or the JSON-encoded score vector.
	Payload string `json:"payload,omitempty"`

	// Source is the provider of origin for abstracts ("native" when the
	// upstream feed already carried the text) or the model ID for
	// classifications.
	Source string `json:"source,omitempty"`

	RetrievedAt time.Time `json:"retrieved_at"`
}

// ErrNoEntry is returned by Get when the key has never been written.
var ErrNoEntry = errors.New("cache: no entry")

// Store is the durable memoization substrate shared by the resolver and
// the classification cache. Put is idempotent (last-write-wins) and must
// be durably flushed before returning, so callers can treat a successful
// Put as crash-safe. Implementations are safe for concurrent in-process
// use; no cross-process locking is provided.
type Store interface {
	// Get returns the entry under key, or ErrNoEntry when absent.
	Get(ctx context.Context, key string) (*Entry, error)

	// Put stores the entry under its key, replacing any previous value.
	Put(ctx context.Context, e Entry) error

	// Exists reports whether any entry is stored under key.
	Exists(ctx context.Context, key string) (bool, error)

	// Delete removes the entry under key. Deleting an absent key is not
	// an error.
	Delete(ctx context.Context, key string) error

	Close() error
}

// AbstractKey returns the identity-addressed key for a work's abstract.
func AbstractKey(workID string) string {
	return "abstract:" + strings.TrimSpace(workID)
}

// ClassificationKey returns the content-addressed key for a (model,
// normalized text) pair.
func ClassificationKey(modelID, normalized string) string {
	sum := sha256.Sum256([]byte(normalized))
	return fmt.Sprintf("classification:%s:%x", strings.TrimSpace(modelID), sum)
}

// Namespace returns the portion of key before the first colon
// ("abstract" or "classification").
func Namespace(key string) string {
	if i := strings.IndexByte(key, ':'); i >= 0 {
		return key[:i]
	}
	return key
}
