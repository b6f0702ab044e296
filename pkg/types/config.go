// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the default HTTP request timeout. Extractors with a
	// source-specific timeout override it per request.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent, when set, disables User-Agent rotation and is sent verbatim.
	UserAgent string `json:"user_agent,omitempty" yaml:"user_agent,omitempty" mapstructure:"user_agent"`

	// Proxy is an optional proxy URL (e.g. "http://127.0.0.1:7890").
	Proxy string `json:"proxy,omitempty" yaml:"proxy,omitempty" mapstructure:"proxy"`
}

// ScholarConfig holds settings for the Scholar search crawl.
type ScholarConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the search results endpoint.
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// Pages is the number of result pages to crawl (10 results per page).
	Pages int `json:"pages" yaml:"pages" mapstructure:"pages"`

	// RequestDelay is the pause after every processed result (default 2s).
	RequestDelay time.Duration `json:"request_delay" yaml:"request_delay" mapstructure:"request_delay"`

	// ScienceDirectInterval is the minimum spacing between two requests to
	// ScienceDirect (default 10s).
	ScienceDirectInterval time.Duration `json:"sciencedirect_interval" yaml:"sciencedirect_interval" mapstructure:"sciencedirect_interval"`

	// ExcludeSources lists source identifiers whose results are skipped.
	ExcludeSources []string `json:"exclude_sources" yaml:"exclude_sources" mapstructure:"exclude_sources"`
}

// RelevancePolicy names a keyword relevance policy.
type RelevancePolicy string

const (
	PolicyAllGroups RelevancePolicy = "all-groups"
	PolicyWeighted  RelevancePolicy = "weighted"
)

// VenueCrawlConfig holds settings for the venue crawl.
type VenueCrawlConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// StartYear and EndYear bound the crawl, both inclusive.
	StartYear int `json:"start_year" yaml:"start_year" mapstructure:"start_year"`
	EndYear   int `json:"end_year" yaml:"end_year" mapstructure:"end_year"`

	// Workers bounds the number of (venue, year) jobs running at once.
	// Zero means runtime.NumCPU().
	Workers int `json:"workers" yaml:"workers" mapstructure:"workers"`

	// RequestDelay is the pause after every paper request within one job (default 300ms).
	RequestDelay time.Duration `json:"request_delay" yaml:"request_delay" mapstructure:"request_delay"`

	// HostInterval spaces requests to one host across all jobs (default 100ms).
	HostInterval time.Duration `json:"host_interval" yaml:"host_interval" mapstructure:"host_interval"`

	// Policy selects the keyword relevance policy.
	Policy RelevancePolicy `json:"policy" yaml:"policy" mapstructure:"policy"`

	// RespectRobots skips index pages disallowed by robots.txt.
	RespectRobots bool `json:"respect_robots" yaml:"respect_robots" mapstructure:"respect_robots"`

	// VenuesFile and KeywordsFile point at YAML overrides of the built-in
	// venue and keyword configuration.
	VenuesFile   string `json:"venues_file,omitempty" yaml:"venues_file,omitempty" mapstructure:"venues_file"`
	KeywordsFile string `json:"keywords_file,omitempty" yaml:"keywords_file,omitempty" mapstructure:"keywords_file"`
}

// StoreConfig holds settings for persisting records.
type StoreConfig struct {
	// ResultsDir is the directory for exported result files.
	ResultsDir string `json:"results_dir" yaml:"results_dir" mapstructure:"results_dir"`

	// DBPath is the SQLite database path. Empty disables the database sink.
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty" mapstructure:"db_path"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Scholar ScholarConfig    `json:"scholar" yaml:"scholar" mapstructure:"scholar"`
	Venues  VenueCrawlConfig `json:"venues" yaml:"venues" mapstructure:"venues"`
	Store   StoreConfig      `json:"store" yaml:"store" mapstructure:"store"`
}
