// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/HamBa-m/sci-scraper/internal/abstract"
	"github.com/HamBa-m/sci-scraper/internal/httputil"
	"github.com/HamBa-m/sci-scraper/internal/merge"
	"github.com/HamBa-m/sci-scraper/internal/politeness"
	"github.com/HamBa-m/sci-scraper/internal/relevance"
	"github.com/HamBa-m/sci-scraper/internal/scholar"
	"github.com/HamBa-m/sci-scraper/internal/store"
	"github.com/HamBa-m/sci-scraper/internal/venue"
	"github.com/HamBa-m/sci-scraper/pkg/types"
)

// openSink returns the sink records are persisted to as they arrive. With
// no database configured records are only kept in memory.
func openSink(ctx context.Context, cfg types.StoreConfig, mode string) (store.Sink, func() error, error) {
	if cfg.DBPath == "" {
		return &store.MemorySink{}, func() error { return nil }, nil
	}
	db, err := store.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	run, err := db.NewRun(ctx, mode)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	logger.WithFields(logrus.Fields{"db": cfg.DBPath, "run": run.ID()}).Info("recording run")
	return run, db.Close, nil
}

// runScholar crawls Scholar and appends each record to sink as soon as it
// is built.
func runScholar(ctx context.Context, cfg types.ScholarConfig, q scholar.Query, sink store.Sink) (scholar.Output, error) {
	if q.Text == "" {
		return scholar.Output{}, fmt.Errorf("query is empty: provide --query")
	}
	client, err := httputil.NewClient(cfg.Timeout, cfg.Proxy)
	if err != nil {
		return scholar.Output{}, err
	}
	registry := abstract.NewRegistry(abstract.Options{
		Client:        client,
		Agents:        httputil.NewRotator(cfg.UserAgent),
		Log:           logger,
		ScienceDirect: politeness.MinInterval{Interval: cfg.ScienceDirectInterval},
	})
	logger.WithField("sources", registry.Sources()).Debug("abstract extractors registered")
	crawler := scholar.NewCrawler(cfg, client, registry, logger)

	progress := func(current, total int, rec *types.PaperRecord) {
		logger.WithFields(logrus.Fields{
			"page":     fmt.Sprintf("%d/%d", current, total),
			"source":   rec.Source,
			"abstract": rec.HasAbstract(),
		}).Info(rec.Title)
		if err := sink.Append(ctx, merge.Normalize(*rec)); err != nil {
			logger.WithError(err).Warn("persisting record failed")
		}
	}
	return crawler.Crawl(ctx, q, progress)
}

// runVenues crawls the selected venues and appends each finished job's
// records to sink.
func runVenues(ctx context.Context, cfg types.VenueCrawlConfig, only []string, sink store.Sink) (venue.Output, error) {
	if cfg.StartYear > cfg.EndYear {
		return venue.Output{}, fmt.Errorf("start year %d is after end year %d", cfg.StartYear, cfg.EndYear)
	}
	all, err := venue.LoadVenues(cfg.VenuesFile)
	if err != nil {
		return venue.Output{}, err
	}
	venues, err := venue.SelectVenues(all, only)
	if err != nil {
		return venue.Output{}, err
	}
	concepts, err := relevance.LoadConcepts(cfg.KeywordsFile)
	if err != nil {
		return venue.Output{}, err
	}
	policy, err := relevance.NewPolicy(cfg.Policy, concepts)
	if err != nil {
		return venue.Output{}, err
	}

	o := venue.NewOrchestrator(cfg, policy, logger)
	o.OnJob = func(j venue.Job, recs []types.PaperRecord, _ error) {
		if err := sink.Append(ctx, recs...); err != nil {
			logger.WithError(err).WithField("job", j.String()).Warn("persisting records failed")
		}
	}
	return o.Run(ctx, venues, cfg.StartYear, cfg.EndYear), nil
}

// writeResults exports recs to path and prints the summary to w. An empty
// path selects <results_dir>/<mode>_papers.yaml.
func writeResults(w io.Writer, cfg types.StoreConfig, mode, path string, recs []types.PaperRecord) error {
	if path == "" {
		path = filepath.Join(cfg.ResultsDir, mode+"_papers.yaml")
	}
	if err := store.Export(path, recs); err != nil {
		return err
	}
	fmt.Fprintf(w, "Wrote %d papers to %s\n\n", len(recs), path)
	return store.FormatStats(w, store.Stats(recs))
}
