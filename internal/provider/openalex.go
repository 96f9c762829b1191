// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/sdg-engine/internal/httputil"
	"github.com/pdiddy/sdg-engine/internal/openalex"
	"github.com/pdiddy/sdg-engine/pkg/types"
)

// openAlexAPIBase is the OpenAlex single-work endpoint. Declared as a var
// so tests can substitute an httptest server.
var openAlexAPIBase = "https://api.openalex.org/works/"

// OpenAlex re-fetches the work record by ID and reconstructs the abstract
// from the inverted index. Useful when the original batch fetch used a
// field selection without abstracts, or the work was updated upstream.
type OpenAlex struct {
	Client *http.Client
	// Email is sent as mailto parameter for polite pool access.
	Email     string
	UserAgent string
}

// Name returns the provider identifier.
func (p *OpenAlex) Name() string { return NameOpenAlex }

type openAlexWork struct {
	AbstractInvertedIndex map[string][]int `json:"abstract_inverted_index"`
}

// Lookup fetches the work by its OpenAlex ID and returns the
// reconstructed abstract.
func (p *OpenAlex) Lookup(ctx context.Context, rec types.Record) (string, error) {
	workID := strings.TrimPrefix(strings.TrimSpace(rec.OpenAlexID), "https://openalex.org/")
	if workID == "" {
		return "", ErrNotFound
	}

	params := url.Values{"select": {"abstract_inverted_index"}}
	if p.Email != "" {
		params.Set("mailto", p.Email)
	}
	reqURL := openAlexAPIBase + url.PathEscape(workID) + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", p.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, p.Client, req, 0)
	if err != nil {
		return "", &TransientError{Provider: p.Name(), Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return "", &TransientError{Provider: p.Name(), Err: fmt.Errorf("HTTP %d", resp.StatusCode)}
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("OpenAlex API returned HTTP %d", resp.StatusCode)
	}

	var work openAlexWork
	if err := json.NewDecoder(resp.Body).Decode(&work); err != nil {
		return "", &TransientError{Provider: p.Name(), Err: fmt.Errorf("parsing response: %w", err)}
	}

	abstract := openalex.ReconstructAbstract(work.AbstractInvertedIndex)
	if abstract == "" {
		return "", ErrNotFound
	}
	return abstract, nil
}
