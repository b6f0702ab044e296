// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/HamBa-m/sci-scraper/internal/httputil"
	"github.com/HamBa-m/sci-scraper/internal/politeness"
	"github.com/HamBa-m/sci-scraper/internal/scholar"
	"github.com/HamBa-m/sci-scraper/internal/source"
	"github.com/HamBa-m/sci-scraper/internal/venue"
	"github.com/HamBa-m/sci-scraper/pkg/types"
)

const (
	defaultStartYear = 2018
	defaultEndYear   = 2024
)

func setDefaults() {
	viper.SetDefault("scholar.timeout", httputil.DefaultTimeout)
	viper.SetDefault("scholar.base_url", scholar.DefaultBaseURL)
	viper.SetDefault("scholar.pages", 1)
	viper.SetDefault("scholar.request_delay", scholar.DefaultDelay)
	viper.SetDefault("scholar.sciencedirect_interval", politeness.DefaultMinInterval)
	viper.SetDefault("scholar.exclude_sources", []string{source.ArXiv})

	viper.SetDefault("venues.timeout", httputil.DefaultTimeout)
	viper.SetDefault("venues.start_year", defaultStartYear)
	viper.SetDefault("venues.end_year", defaultEndYear)
	viper.SetDefault("venues.request_delay", venue.DefaultRequestDelay)
	viper.SetDefault("venues.host_interval", venue.DefaultHostInterval)
	viper.SetDefault("venues.policy", string(types.PolicyWeighted))

	viper.SetDefault("store.results_dir", "results")
}

// loadConfig decodes the merged file, environment and default settings.
func loadConfig() (types.PipelineConfig, error) {
	var cfg types.PipelineConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding configuration: %w", err)
	}
	return cfg, nil
}

func addHTTPFlags(fs *pflag.FlagSet) {
	fs.Duration("timeout", httputil.DefaultTimeout, "HTTP request timeout")
	fs.String("user-agent", "", "fixed User-Agent (default: rotate browser agents)")
	fs.String("proxy", "", "proxy URL for all requests")
}

func addScholarFlags(fs *pflag.FlagSet) {
	fs.String("query", "", "search query")
	fs.Int("pages", 1, "number of result pages to crawl")
	fs.StringSlice("exclude", nil, "source identifiers to skip (default: arXiv)")
	fs.Duration("scholar-delay", scholar.DefaultDelay, "pause between Scholar results")
}

func addVenueFlags(fs *pflag.FlagSet) {
	fs.String("venues", "", "venue configuration YAML (default: built-in venues)")
	fs.StringSlice("only", nil, "crawl only these venues")
	fs.String("keywords", "", "keyword concept sets YAML (default: built-in concepts)")
	fs.String("policy", string(types.PolicyWeighted), "relevance policy: weighted or all-groups")
	fs.Int("start", defaultStartYear, "first year to crawl")
	fs.Int("end", defaultEndYear, "last year to crawl")
	fs.Int("workers", 0, "concurrent (venue, year) jobs (default: number of CPUs)")
	fs.Duration("venue-delay", venue.DefaultRequestDelay, "pause after each paper request within a job")
	fs.Duration("host-interval", venue.DefaultHostInterval, "minimum spacing of requests to one host across jobs")
	fs.Bool("respect-robots", false, "skip proceedings pages disallowed by robots.txt")
}

func addOutputFlags(fs *pflag.FlagSet) {
	fs.String("out", "", "output file (.yaml, .json or .csv)")
	fs.String("db", "", "record the run in this SQLite database")
}

// applyHTTPFlags overrides cfg with the flags set on the command line.
func applyHTTPFlags(cmd *cobra.Command, cfg *types.HTTPConfig) {
	overrideDuration(cmd, "timeout", &cfg.Timeout)
	overrideString(cmd, "user-agent", &cfg.UserAgent)
	overrideString(cmd, "proxy", &cfg.Proxy)
}

func applyScholarFlags(cmd *cobra.Command, cfg *types.ScholarConfig) {
	applyHTTPFlags(cmd, &cfg.HTTPConfig)
	overrideInt(cmd, "pages", &cfg.Pages)
	overrideStrings(cmd, "exclude", &cfg.ExcludeSources)
	overrideDuration(cmd, "scholar-delay", &cfg.RequestDelay)
}

func applyVenueFlags(cmd *cobra.Command, cfg *types.VenueCrawlConfig) {
	applyHTTPFlags(cmd, &cfg.HTTPConfig)
	overrideString(cmd, "venues", &cfg.VenuesFile)
	overrideString(cmd, "keywords", &cfg.KeywordsFile)
	var policy string
	if overrideString(cmd, "policy", &policy) {
		cfg.Policy = types.RelevancePolicy(policy)
	}
	overrideInt(cmd, "start", &cfg.StartYear)
	overrideInt(cmd, "end", &cfg.EndYear)
	overrideInt(cmd, "workers", &cfg.Workers)
	overrideDuration(cmd, "venue-delay", &cfg.RequestDelay)
	overrideDuration(cmd, "host-interval", &cfg.HostInterval)
	overrideBool(cmd, "respect-robots", &cfg.RespectRobots)
}

func applyStoreFlags(cmd *cobra.Command, cfg *types.StoreConfig) {
	overrideString(cmd, "db", &cfg.DBPath)
}

func overrideString(cmd *cobra.Command, name string, dst *string) bool {
	if !cmd.Flags().Changed(name) {
		return false
	}
	*dst, _ = cmd.Flags().GetString(name)
	return true
}

func overrideStrings(cmd *cobra.Command, name string, dst *[]string) {
	if cmd.Flags().Changed(name) {
		*dst, _ = cmd.Flags().GetStringSlice(name)
	}
}

func overrideInt(cmd *cobra.Command, name string, dst *int) {
	if cmd.Flags().Changed(name) {
		*dst, _ = cmd.Flags().GetInt(name)
	}
}

func overrideBool(cmd *cobra.Command, name string, dst *bool) {
	if cmd.Flags().Changed(name) {
		*dst, _ = cmd.Flags().GetBool(name)
	}
}

func overrideDuration(cmd *cobra.Command, name string, dst *time.Duration) {
	if cmd.Flags().Changed(name) {
		*dst, _ = cmd.Flags().GetDuration(name)
	}
}
