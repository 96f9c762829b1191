// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package openalex fetches publication records from the OpenAlex API and
// converts them to the engine's record type.
package openalex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/pdiddy/sdg-engine/internal/httputil"
	"github.com/pdiddy/sdg-engine/pkg/types"
)

// worksAPIBase is the OpenAlex Works endpoint. Declared as a var so tests
// can substitute an httptest server.
var worksAPIBase = "https://api.openalex.org/works"

const worksSelect = "id,doi,title,publication_date,publication_year,type,abstract_inverted_index"

// Work captures the fields we need from an OpenAlex work record.
type Work struct {
	ID                    string           `json:"id"`
	DOI                   string           `json:"doi"`
	Title                 string           `json:"title"`
	PublicationDate       string           `json:"publication_date"`
	PublicationYear       int              `json:"publication_year"`
	Type                  string           `json:"type"`
	AbstractInvertedIndex map[string][]int `json:"abstract_inverted_index"`
}

type worksResponse struct {
	Meta struct {
		Count      int    `json:"count"`
		NextCursor string `json:"next_cursor"`
	} `json:"meta"`
	Results []Work `json:"results"`
}

// Record converts the work to the engine's record type, stripping the
// OpenAlex and DOI URL prefixes to bare identifiers.
func (w Work) Record() types.Record {
	rec := types.Record{
		OpenAlexID: strings.TrimPrefix(w.ID, "https://openalex.org/"),
		DOI:        strings.TrimPrefix(w.DOI, "https://doi.org/"),
		Title:      w.Title,
		Abstract:   ReconstructAbstract(w.AbstractInvertedIndex),
		Type:       w.Type,
	}
	if w.PublicationDate != "" {
		if t, err := time.Parse("2006-01-02", w.PublicationDate); err == nil {
			rec.Date = t
		}
	} else if w.PublicationYear > 0 {
		rec.Date = time.Date(w.PublicationYear, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	return rec
}

// ReconstructAbstract converts OpenAlex's abstract_inverted_index back to
// plain text. The inverted index maps each word to a list of positions
// where that word appears.
func ReconstructAbstract(invertedIndex map[string][]int) string {
	if len(invertedIndex) == 0 {
		return ""
	}

	// Build position→word map.
	type posWord struct {
		pos  int
		word string
	}
	var pairs []posWord
	for word, positions := range invertedIndex {
		for _, pos := range positions {
			pairs = append(pairs, posWord{pos: pos, word: word})
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].pos < pairs[j].pos
	})

	words := make([]string, len(pairs))
	for i, p := range pairs {
		words[i] = p.word
	}
	return strings.Join(words, " ")
}

// FetchInstitutionWorks pages through the works of an institution (by ROR
// identifier) using cursor pagination and returns them as records. Page
// progress is reported to w; cancellation is checked between pages.
func FetchInstitutionWorks(ctx context.Context, client *http.Client, ror string, cfg types.FetchConfig, w io.Writer) ([]types.Record, error) {
	ror = strings.TrimPrefix(strings.TrimSpace(ror), "https://ror.org/")
	if ror == "" {
		return nil, fmt.Errorf("institution ROR identifier is required")
	}

	perPage := cfg.PerPage
	if perPage <= 0 || perPage > 200 {
		perPage = 200
	}

	var records []types.Record
	cursor := "*"
	page := 0

	for cursor != "" {
		select {
		case <-ctx.Done():
			return records, ctx.Err()
		default:
		}

		params := url.Values{
			"filter":   {"institutions.ror:" + ror},
			"select":   {worksSelect},
			"per-page": {fmt.Sprintf("%d", perPage)},
			"cursor":   {cursor},
		}
		if cfg.Mailto != "" {
			params.Set("mailto", cfg.Mailto)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, worksAPIBase+"?"+params.Encode(), nil)
		if err != nil {
			return records, fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("User-Agent", cfg.UserAgent)

		resp, err := httputil.DoWithRetry(ctx, client, req, 0)
		if err != nil {
			return records, fmt.Errorf("OpenAlex API request: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return records, fmt.Errorf("OpenAlex API returned HTTP %d", resp.StatusCode)
		}

		var wr worksResponse
		err = json.NewDecoder(resp.Body).Decode(&wr)
		resp.Body.Close()
		if err != nil {
			return records, fmt.Errorf("parsing OpenAlex response: %w", err)
		}

		page++
		fmt.Fprintf(w, "fetched page %d (%d works)\n", page, len(wr.Results))

		for _, work := range wr.Results {
			records = append(records, work.Record())
			if cfg.MaxWorks > 0 && len(records) >= cfg.MaxWorks {
				return records, nil
			}
		}

		if len(wr.Results) == 0 {
			break
		}
		cursor = wr.Meta.NextCursor
	}

	return records, nil
}
