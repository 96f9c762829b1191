// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify maps abstract text to SDG goal scores, memoizing
// model outputs by content so identical text is never classified twice
// under the same model.
package classify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/sdg-engine/internal/cache"
	"github.com/pdiddy/sdg-engine/internal/metrics"
	"github.com/pdiddy/sdg-engine/pkg/types"
)

// Classifier scores a text against the 17 SDGs with the named model.
type Classifier interface {
	Classify(ctx context.Context, text, modelID string) (types.SDGScores, error)
}

// Normalize collapses all whitespace runs to single spaces and trims.
// Cache keys are computed over the normalized form, so formatting
// differences between sources of the same abstract do not defeat
// memoization.
func Normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Cache memoizes classification results keyed by model and content.
// Texts shorter than a model's minimum length are recorded as skipped
// and never sent to the classifier.
type Cache struct {
	store   cache.Store
	models  map[string]types.Model
	metrics *metrics.Metrics
}

// NewCache constructs a classification cache over store. The models
// slice supplies per-model minimum text lengths; unknown models get no
// minimum.
func NewCache(store cache.Store, models []types.Model, m *metrics.Metrics) *Cache {
	byID := make(map[string]types.Model, len(models))
	for _, model := range models {
		byID[model.ID] = model
	}
	return &Cache{store: store, models: byID, metrics: m}
}

// Classify returns SDG scores for text under modelID, consulting the
// cache first and falling back to clf. A nil score map with a nil
// error means the text was below the model's minimum length. Classifier
// failures are returned without being cached.
func (c *Cache) Classify(ctx context.Context, text, modelID string, clf Classifier) (types.SDGScores, error) {
	normalized := Normalize(text)
	key := cache.ClassificationKey(modelID, normalized)

	entry, err := c.store.Get(ctx, key)
	if err == nil {
		switch entry.Status {
		case cache.StatusFound:
			c.metrics.CacheHit("classification")
			var scores types.SDGScores
			if err := json.Unmarshal([]byte(entry.Payload), &scores); err != nil {
				return nil, fmt.Errorf("decoding cached scores for model %s: %w", modelID, err)
			}
			return scores, nil
		case cache.StatusSkipped:
			c.metrics.CacheHit("classification")
			return nil, nil
		}
		// StatusError entries mark results an operator wants recomputed.
	} else if !errors.Is(err, cache.ErrNoEntry) {
		return nil, fmt.Errorf("reading classification cache: %w", err)
	}
	c.metrics.CacheMiss("classification")

	if model, ok := c.models[modelID]; ok && model.MinLength > 0 && len(normalized) < model.MinLength {
		entry := cache.Entry{Key: key, Status: cache.StatusSkipped, Source: modelID}
		if err := c.store.Put(ctx, entry); err != nil {
			return nil, fmt.Errorf("caching skip marker: %w", err)
		}
		c.metrics.ClassifierCall(modelID, "skipped")
		return nil, nil
	}

	scores, err := clf.Classify(ctx, normalized, modelID)
	if err != nil {
		c.metrics.ClassifierCall(modelID, "error")
		return nil, fmt.Errorf("classifying with model %s: %w", modelID, err)
	}
	c.metrics.ClassifierCall(modelID, "ok")

	payload, err := json.Marshal(scores)
	if err != nil {
		return nil, fmt.Errorf("encoding scores: %w", err)
	}
	put := cache.Entry{Key: key, Status: cache.StatusFound, Payload: string(payload), Source: modelID}
	if err := c.store.Put(ctx, put); err != nil {
		return nil, fmt.Errorf("caching scores: %w", err)
	}
	return scores, nil
}
