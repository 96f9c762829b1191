// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/sdg-engine/pkg/types"
)

func overrideScholarBase(url string) func() {
	old := scholarSearchBase
	scholarSearchBase = url + "/scholar"
	return func() { scholarSearchBase = old }
}

const scholarResultsPage = `<html><body>
<div class="gs_r gs_or gs_scl">
  <div class="gs_ri">
    <h3 class="gs_rt"><a href="#">Coral reefs under climate change</a></h3>
    <div class="gs_rs">Coral reefs are <b>declining</b> worldwide as oceans warm &amp; acidify &hellip;</div>
  </div>
</div>
</body></html>`

func TestGoogleScholarExtractsSnippet(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, `"Coral reefs under climate change"`, r.URL.Query().Get("q"))
		assert.Equal(t, "en", r.URL.Query().Get("hl"))
		fmt.Fprint(w, scholarResultsPage)
	}))
	defer ts.Close()
	defer overrideScholarBase(ts.URL)()

	p := &GoogleScholar{Client: ts.Client(), UserAgent: "sdg-engine-test"}
	text, err := p.Lookup(context.Background(), types.Record{
		OpenAlexID: "W1",
		Title:      "Coral reefs under climate change",
	})
	require.NoError(t, err)
	assert.Equal(t, "Coral reefs are declining worldwide as oceans warm & acidify", text)
}

func TestGoogleScholarMissingTitle(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for a record without a title")
	}))
	defer ts.Close()
	defer overrideScholarBase(ts.URL)()

	p := &GoogleScholar{Client: ts.Client()}
	_, err := p.Lookup(context.Background(), types.Record{OpenAlexID: "W1"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGoogleScholarNoSnippetIsNotFound(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><body><div id="gs_res_ccl_mid"></div></body></html>`)
	}))
	defer ts.Close()
	defer overrideScholarBase(ts.URL)()

	p := &GoogleScholar{Client: ts.Client()}
	_, err := p.Lookup(context.Background(), types.Record{OpenAlexID: "W1", Title: "obscure title"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGoogleScholarCaptchaIsTransient(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><body><div id="gs_captcha_ccl">prove you are human</div></body></html>`)
	}))
	defer ts.Close()
	defer overrideScholarBase(ts.URL)()

	p := &GoogleScholar{Client: ts.Client()}
	_, err := p.Lookup(context.Background(), types.Record{OpenAlexID: "W1", Title: "some title"})

	var te *TransientError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, NameGoogleScholar, te.Provider)
}

func TestGoogleScholarRateLimitIsTransient(t *testing.T) {
	for _, code := range []int{http.StatusTooManyRequests, http.StatusForbidden, http.StatusServiceUnavailable} {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(code)
		}))
		defer ts.Close()
		restore := overrideScholarBase(ts.URL)

		p := &GoogleScholar{Client: ts.Client()}
		_, err := p.Lookup(context.Background(), types.Record{OpenAlexID: "W1", Title: "some title"})
		restore()

		var te *TransientError
		assert.ErrorAs(t, err, &te, "HTTP %d should be transient", code)
	}
}
