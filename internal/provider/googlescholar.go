// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/pdiddy/sdg-engine/pkg/types"
)

// scholarSearchBase is the Google Scholar results page. Declared as a var
// so tests can substitute an httptest server.
var scholarSearchBase = "https://scholar.google.com/scholar"

// maxScholarBody caps how much of the results page is read.
const maxScholarBody = 512 << 10

// snippetPattern extracts the first result snippet, which carries the
// abstract text on the results page.
var snippetPattern = regexp.MustCompile(`(?s)<div class="gs_rs[^"]*">(.*?)</div>`)

// tagPattern strips markup from the snippet.
var tagPattern = regexp.MustCompile(`<[^>]+>`)

// GoogleScholar searches by exact title and takes the first result
// snippet as the abstract. Scholar is scrape-based and aggressively rate
// limited; CAPTCHA interstitials are treated as transient so they are
// retried on a later run instead of being cached.
type GoogleScholar struct {
	Client    *http.Client
	UserAgent string
}

// Name returns the provider identifier.
func (p *GoogleScholar) Name() string { return NameGoogleScholar }

// Lookup searches Scholar for the record title and returns the first
// result snippet. Records without a title are a confirmed negative.
func (p *GoogleScholar) Lookup(ctx context.Context, rec types.Record) (string, error) {
	title := strings.TrimSpace(rec.Title)
	if title == "" {
		return "", ErrNotFound
	}

	params := url.Values{
		"q":  {`"` + title + `"`},
		"hl": {"en"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, scholarSearchBase+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", p.UserAgent)

	// No retry helper here: hammering Scholar after a 429 only earns a
	// longer block.
	resp, err := p.Client.Do(req)
	if err != nil {
		return "", &TransientError{Provider: p.Name(), Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests ||
		resp.StatusCode == http.StatusForbidden ||
		resp.StatusCode >= 500:
		return "", &TransientError{Provider: p.Name(), Err: fmt.Errorf("HTTP %d", resp.StatusCode)}
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("Google Scholar returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxScholarBody))
	if err != nil {
		return "", &TransientError{Provider: p.Name(), Err: fmt.Errorf("reading response: %w", err)}
	}

	page := string(body)
	if strings.Contains(page, "gs_captcha") || strings.Contains(page, "id=\"captcha\"") {
		return "", &TransientError{Provider: p.Name(), Err: fmt.Errorf("CAPTCHA interstitial")}
	}

	m := snippetPattern.FindStringSubmatch(page)
	if m == nil {
		return "", ErrNotFound
	}

	snippet := html.UnescapeString(tagPattern.ReplaceAllString(m[1], " "))
	snippet = strings.Join(strings.Fields(snippet), " ")
	snippet = strings.TrimSpace(strings.TrimSuffix(snippet, "…"))
	if snippet == "" {
		return "", ErrNotFound
	}
	return snippet, nil
}
