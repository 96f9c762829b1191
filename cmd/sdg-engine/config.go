// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/sdg-engine/internal/cache"
	"github.com/pdiddy/sdg-engine/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "sdg-engine/0.1"
	defaultCachePath = "cache/sdg-engine.db"
	defaultModel     = "aurora-sdg-multi"
	defaultPerPage   = 200
	defaultWorkers   = 4
)

// defaultChain is the provider priority order used when the config file
// does not set one. OpenAlex is cheapest, Scholar scraping is last.
var defaultChain = []string{"openalex", "semantic_scholar", "google_scholar"}

// loadConfig assembles the pipeline configuration from the viper config
// file, environment, and loaded secrets. Per-command flags override on
// top of this.
func loadConfig() types.PipelineConfig {
	cfg := types.PipelineConfig{
		Cache: types.CacheConfig{
			Backend:   viper.GetString("cache.backend"),
			Path:      viper.GetString("cache.path"),
			RedisAddr: viper.GetString("cache.redis_addr"),
			RedisDB:   viper.GetInt("cache.redis_db"),
		},
		Resolver: types.ResolverConfig{
			Chain:                 viper.GetStringSlice("resolver.chain"),
			SemanticScholarAPIKey: loadedSecrets.Get("semantic-scholar-api-key", viper.GetString("resolver.semantic_scholar_api_key")),
			OpenAlexEmail:         loadedSecrets.Get("openalex-email", viper.GetString("resolver.openalex_email")),
		},
		Classify: types.ClassifyConfig{
			BaseURL: viper.GetString("classify.base_url"),
			Model:   viper.GetString("classify.model"),
		},
		Fetch: types.FetchConfig{
			PerPage:  viper.GetInt("fetch.per_page"),
			MaxWorks: viper.GetInt("fetch.max_works"),
			Mailto:   viper.GetString("fetch.mailto"),
		},
		Workers: viper.GetInt("workers"),
	}

	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = "sqlite"
	}
	if cfg.Cache.Path == "" {
		cfg.Cache.Path = defaultCachePath
	}
	if len(cfg.Resolver.Chain) == 0 {
		cfg.Resolver.Chain = defaultChain
	}
	if cfg.Classify.Model == "" {
		cfg.Classify.Model = defaultModel
	}
	if cfg.Fetch.PerPage == 0 {
		cfg.Fetch.PerPage = defaultPerPage
	}
	if cfg.Fetch.Mailto == "" {
		cfg.Fetch.Mailto = cfg.Resolver.OpenAlexEmail
	}
	if cfg.Workers == 0 {
		cfg.Workers = defaultWorkers
	}

	httpCfg := types.HTTPConfig{Timeout: defaultTimeout, UserAgent: defaultUserAgent}
	if d := viper.GetDuration("http.timeout"); d > 0 {
		httpCfg.Timeout = d
	}
	cfg.Resolver.HTTPConfig = httpCfg
	cfg.Classify.HTTPConfig = httpCfg
	cfg.Fetch.HTTPConfig = httpCfg

	// Model catalog: minimum lengths below which classification is
	// skipped. Configurable per model via classify.models.
	if err := viper.UnmarshalKey("classify.models", &cfg.Classify.Models); err != nil || len(cfg.Classify.Models) == 0 {
		cfg.Classify.Models = []types.Model{{ID: cfg.Classify.Model, MinLength: 20}}
	}

	return cfg
}

// buildStore opens the persistent cache selected by cfg.
func buildStore(ctx context.Context, cfg types.CacheConfig) (cache.Store, error) {
	switch cfg.Backend {
	case "sqlite", "":
		return cache.NewSQLite(cfg.Path)
	case "redis":
		return cache.NewRedis(ctx, cfg.RedisAddr, cfg.RedisDB)
	default:
		return nil, fmt.Errorf("unknown cache backend %q: use sqlite or redis", cfg.Backend)
	}
}

func newHTTPClient(cfg types.HTTPConfig) *http.Client {
	return &http.Client{Timeout: cfg.Timeout}
}
