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

func overrideOpenAlexBase(url string) func() {
	old := openAlexAPIBase
	openAlexAPIBase = url + "/works/"
	return func() { openAlexAPIBase = old }
}

func TestOpenAlexReconstructsAbstract(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/works/W123", r.URL.Path)
		assert.Equal(t, "polite@example.org", r.URL.Query().Get("mailto"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"abstract_inverted_index": {"Hello": [0], "world": [1]}}`)
	}))
	defer ts.Close()
	defer overrideOpenAlexBase(ts.URL)()

	p := &OpenAlex{Client: ts.Client(), Email: "polite@example.org"}
	text, err := p.Lookup(context.Background(), types.Record{OpenAlexID: "W123"})
	require.NoError(t, err)
	assert.Equal(t, "Hello world", text)
}

func TestOpenAlexNoAbstractIsNotFound(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"abstract_inverted_index": null}`)
	}))
	defer ts.Close()
	defer overrideOpenAlexBase(ts.URL)()

	p := &OpenAlex{Client: ts.Client()}
	_, err := p.Lookup(context.Background(), types.Record{OpenAlexID: "W123"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOpenAlexUnknownWorkIsNotFound(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer ts.Close()
	defer overrideOpenAlexBase(ts.URL)()

	p := &OpenAlex{Client: ts.Client()}
	_, err := p.Lookup(context.Background(), types.Record{OpenAlexID: "W404"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOpenAlexRateLimitIsTransient(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()
	defer overrideOpenAlexBase(ts.URL)()

	p := &OpenAlex{Client: ts.Client()}
	_, err := p.Lookup(context.Background(), types.Record{OpenAlexID: "W123"})

	var te *TransientError
	assert.ErrorAs(t, err, &te)
}

func TestOpenAlexStripsIDPrefix(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/works/W99", r.URL.Path)
		fmt.Fprint(w, `{"abstract_inverted_index": {"x": [0]}}`)
	}))
	defer ts.Close()
	defer overrideOpenAlexBase(ts.URL)()

	p := &OpenAlex{Client: ts.Client()}
	_, err := p.Lookup(context.Background(), types.Record{OpenAlexID: "https://openalex.org/W99"})
	require.NoError(t, err)
}

func TestBuildChain(t *testing.T) {
	cfg := types.ResolverConfig{
		Chain: []string{NameOpenAlex, NameSemanticScholar, NameGoogleScholar},
	}
	chain, err := Build(cfg, http.DefaultClient)
	require.NoError(t, err)
	require.Len(t, chain, 3)
	assert.Equal(t, NameOpenAlex, chain[0].Name())
	assert.Equal(t, NameSemanticScholar, chain[1].Name())
	assert.Equal(t, NameGoogleScholar, chain[2].Name())
}

func TestBuildRejectsUnknownProvider(t *testing.T) {
	cfg := types.ResolverConfig{Chain: []string{"crossref"}}
	_, err := Build(cfg, http.DefaultClient)
	assert.ErrorContains(t, err, "crossref")
}

func TestBuildEmptyChain(t *testing.T) {
	chain, err := Build(types.ResolverConfig{}, http.DefaultClient)
	require.NoError(t, err)
	assert.Empty(t, chain)
}
