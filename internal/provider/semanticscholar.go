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
	"github.com/pdiddy/sdg-engine/pkg/types"
)

// semanticAPIBase is the Semantic Scholar paper lookup endpoint. Declared
// as a var so tests can substitute an httptest server.
var semanticAPIBase = "https://api.semanticscholar.org/graph/v1/paper/"

// SemanticScholar looks up abstracts by DOI via the Semantic Scholar
// Graph API.
type SemanticScholar struct {
	Client    *http.Client
	APIKey    string
	UserAgent string
}

// Name returns the provider identifier.
func (p *SemanticScholar) Name() string { return NameSemanticScholar }

type semanticPaper struct {
	PaperID  string `json:"paperId"`
	Abstract string `json:"abstract"`
}

// Lookup fetches the paper by DOI and returns its abstract. Records
// without a DOI are a confirmed negative, not an error.
func (p *SemanticScholar) Lookup(ctx context.Context, rec types.Record) (string, error) {
	doi := strings.TrimPrefix(strings.TrimSpace(rec.DOI), "https://doi.org/")
	if doi == "" {
		return "", ErrNotFound
	}

	reqURL := semanticAPIBase + "DOI:" + url.PathEscape(doi) + "?fields=abstract"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", p.UserAgent)
	if p.APIKey != "" {
		req.Header.Set("x-api-key", p.APIKey)
	}

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
		return "", fmt.Errorf("Semantic Scholar API returned HTTP %d", resp.StatusCode)
	}

	var paper semanticPaper
	if err := json.NewDecoder(resp.Body).Decode(&paper); err != nil {
		return "", &TransientError{Provider: p.Name(), Err: fmt.Errorf("parsing response: %w", err)}
	}

	abstract := strings.TrimSpace(paper.Abstract)
	if abstract == "" {
		return "", ErrNotFound
	}
	return abstract, nil
}
