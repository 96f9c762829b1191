package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make
// network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "sdg-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// CacheConfig selects and configures the persistent memoization store.
type CacheConfig struct {
	// Backend selects the store implementation: "sqlite" (default) or
	// "redis".
	Backend string `json:"backend" yaml:"backend"`

	// Path is the SQLite database file (default "cache/sdg-engine.db").
	Path string `json:"path" yaml:"path"`

	// RedisAddr is the Redis server address (host:port) when Backend is
	// "redis".
	RedisAddr string `json:"redis_addr,omitempty" yaml:"redis_addr,omitempty"`

	// RedisDB is the Redis database number.
	RedisDB int `json:"redis_db,omitempty" yaml:"redis_db,omitempty"`
}

// ResolverConfig holds settings for abstract resolution.
type ResolverConfig struct {
	HTTPConfig `yaml:",inline"`

	// Chain lists the enabled fallback providers in priority order, e.g.
	// [openalex, semantic_scholar, google_scholar]. Omitting a provider
	// disables it. First success wins; later providers are never
	// consulted once one succeeds.
	Chain []string `json:"chain" yaml:"chain"`

	// SemanticScholarAPIKey is an optional API key for higher rate limits.
	SemanticScholarAPIKey string `json:"semantic_scholar_api_key,omitempty" yaml:"semantic_scholar_api_key,omitempty"`

	// OpenAlexEmail is sent as the mailto parameter for polite pool access.
	OpenAlexEmail string `json:"openalex_email,omitempty" yaml:"openalex_email,omitempty"`
}

// ClassifyConfig holds settings for SDG classification.
type ClassifyConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL overrides the Aurora classifier endpoint. Empty uses the
	// public API.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// Model is the default model ID used by the enrich command.
	Model string `json:"model" yaml:"model"`

	// Models is the model catalog with per-model minimum-length
	// thresholds.
	Models []Model `json:"models" yaml:"models"`
}

// FetchConfig holds settings for the upstream OpenAlex works fetch.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// PerPage is the page size for cursor pagination (default 200, the
	// OpenAlex maximum).
	PerPage int `json:"per_page" yaml:"per_page"`

	// MaxWorks caps the total number of works fetched (0 = no cap).
	MaxWorks int `json:"max_works" yaml:"max_works"`

	// Mailto is sent for polite pool access.
	Mailto string `json:"mailto,omitempty" yaml:"mailto,omitempty"`
}

// PipelineConfig groups all component configurations.
type PipelineConfig struct {
	Cache    CacheConfig    `json:"cache" yaml:"cache"`
	Resolver ResolverConfig `json:"resolver" yaml:"resolver"`
	Classify ClassifyConfig `json:"classify" yaml:"classify"`
	Fetch    FetchConfig    `json:"fetch" yaml:"fetch"`

	// Workers bounds parallel fan-out across records during enrichment.
	// 0 or 1 processes records one at a time.
	Workers int `json:"workers" yaml:"workers"`
}
