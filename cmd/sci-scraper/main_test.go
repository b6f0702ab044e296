// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HamBa-m/sci-scraper/internal/store"
	"github.com/HamBa-m/sci-scraper/pkg/types"
)

func TestLoadConfig_Defaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	setDefaults()

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Scholar.Pages)
	assert.Equal(t, 2*time.Second, cfg.Scholar.RequestDelay)
	assert.Equal(t, []string{"arXiv"}, cfg.Scholar.ExcludeSources)
	assert.Equal(t, 15*time.Second, cfg.Scholar.Timeout)
	assert.Equal(t, defaultStartYear, cfg.Venues.StartYear)
	assert.Equal(t, defaultEndYear, cfg.Venues.EndYear)
	assert.Equal(t, 300*time.Millisecond, cfg.Venues.RequestDelay)
	assert.Equal(t, types.PolicyWeighted, cfg.Venues.Policy)
	assert.Equal(t, "results", cfg.Store.ResultsDir)
}

func TestLoadConfig_File(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	setDefaults()

	path := filepath.Join(t.TempDir(), "sci-scraper.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
scholar:
  pages: 3
  request_delay: 5s
  user_agent: bot/1.0
venues:
  workers: 4
  policy: all-groups
store:
  db_path: runs.db
`), 0o644))
	viper.SetConfigFile(path)
	require.NoError(t, viper.ReadInConfig())

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Scholar.Pages)
	assert.Equal(t, 5*time.Second, cfg.Scholar.RequestDelay)
	assert.Equal(t, "bot/1.0", cfg.Scholar.UserAgent)
	assert.Equal(t, 4, cfg.Venues.Workers)
	assert.Equal(t, types.PolicyAllGroups, cfg.Venues.Policy)
	assert.Equal(t, "runs.db", cfg.Store.DBPath)
}

func TestApplyVenueFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	addVenueFlags(cmd.Flags())
	addHTTPFlags(cmd.Flags())
	require.NoError(t, cmd.Flags().Parse([]string{"--start", "2020", "--policy", "all-groups", "--workers", "2", "--proxy", "http://127.0.0.1:7890"}))

	cfg := types.VenueCrawlConfig{StartYear: 2018, EndYear: 2024, Policy: types.PolicyWeighted, RequestDelay: time.Second}
	applyVenueFlags(cmd, &cfg)

	assert.Equal(t, 2020, cfg.StartYear)
	assert.Equal(t, 2024, cfg.EndYear)
	assert.Equal(t, types.PolicyAllGroups, cfg.Policy)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, time.Second, cfg.RequestDelay, "unset flags keep the configured value")
	assert.Equal(t, "http://127.0.0.1:7890", cfg.Proxy)
}

func TestWriteResults(t *testing.T) {
	dir := t.TempDir()
	rec := types.PaperRecord{Title: "Robust MARL", URL: "https://x", Source: "ICML"}
	rec.SetAbstract("text")

	var buf bytes.Buffer
	require.NoError(t, writeResults(&buf, types.StoreConfig{ResultsDir: dir}, "venues", "", []types.PaperRecord{rec}))
	assert.Contains(t, buf.String(), "Wrote 1 papers")
	assert.Contains(t, buf.String(), "Success rate:          100.0%")

	got, err := store.Load(filepath.Join(dir, "venues_papers.yaml"))
	require.NoError(t, err)
	assert.Equal(t, []types.PaperRecord{rec}, got)
}

func TestPrintConcepts(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printConcepts(&buf, types.VenueCrawlConfig{}))
	out := buf.String()
	assert.Contains(t, out, "Policy: weighted")
	assert.Contains(t, out, "adversarial")
	assert.Contains(t, out, "game_theory")

	path := filepath.Join(t.TempDir(), "keywords.yaml")
	require.NoError(t, os.WriteFile(path, []byte("adversarial: [hostile, evasion]\n"), 0o644))
	buf.Reset()
	require.NoError(t, printConcepts(&buf, types.VenueCrawlConfig{KeywordsFile: path, Policy: types.PolicyAllGroups}))
	assert.Contains(t, buf.String(), "Policy: all-groups")
	assert.Contains(t, buf.String(), "hostile, evasion")

	assert.Error(t, printConcepts(&buf, types.VenueCrawlConfig{Policy: "loose"}))
}
