// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Record holds one publication as supplied by the OpenAlex works feed.
// Identity is the OpenAlex work ID. Every field except Abstract is
// immutable; Abstract starts empty and transitions at most once to a
// resolved value (it is never cleared except by explicit cache
// invalidation).
type Record struct {
	// OpenAlexID is the bare work ID (e.g. "W2741809807").
	OpenAlexID string `json:"openalex_id" yaml:"openalex_id"`

	// DOI is the bare DOI without the https://doi.org/ prefix, if known.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// Title is the work title.
	Title string `json:"title" yaml:"title"`

	// Abstract is the work abstract, when the feed carried one.
	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`

	// Date is the publication date.
	Date time.Time `json:"date" yaml:"date"`

	// Type is the OpenAlex work type (e.g. "article", "book-chapter").
	Type string `json:"type,omitempty" yaml:"type,omitempty"`
}
