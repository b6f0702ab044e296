// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package venue crawls conference proceedings. For each configured venue
// and year it fetches the proceedings index, extracts the paper
// references, scrapes the details of each paper, and keeps the papers
// that pass the keyword relevance policy. Jobs for different (venue, year)
// pairs run concurrently on a bounded worker pool.
package venue

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/HamBa-m/sci-scraper/internal/abstract"
	"github.com/HamBa-m/sci-scraper/internal/httputil"
	"github.com/HamBa-m/sci-scraper/pkg/types"
)

// pageTimeout bounds index and detail page requests.
const pageTimeout = 10 * time.Second

// PaperRef is one paper listed on a proceedings index.
type PaperRef struct {
	Title string
	URL   string

	// Year is set by index sources that report it per paper.
	Year int
}

// Scraper knows the layout of one venue's index and paper pages.
type Scraper interface {
	ExtractPaperLinks(ctx context.Context, doc *goquery.Document, indexURL string) ([]PaperRef, error)
	ExtractPaperDetails(ctx context.Context, ref PaperRef, year int) (*types.PaperRecord, error)
}

// IndexFetcher is implemented by scrapers that list papers through an API
// instead of an HTML index page.
type IndexFetcher interface {
	FetchIndex(ctx context.Context, indexURL string, year int) ([]PaperRef, error)
}

// Session is the HTTP state owned by one (venue, year) job.
type Session struct {
	Client *http.Client
	Agents *httputil.Rotator
	Log    logrus.FieldLogger

	// PDF extracts abstracts from paper PDFs.
	PDF abstract.Extractor
}

func (s *Session) header() http.Header {
	return httputil.BrowserHeaders(s.Agents.Next())
}

// Document fetches an HTML page.
func (s *Session) Document(ctx context.Context, rawURL string) (*goquery.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, pageTimeout)
	defer cancel()
	return httputil.FetchDocument(ctx, s.Client, rawURL, s.header())
}

// NewScraper returns the scraper for cfg.Layout.
func NewScraper(cfg types.VenueConfig, s *Session) (Scraper, error) {
	switch cfg.Layout {
	case types.LayoutAAMAS:
		return &aamasScraper{cfg: cfg, s: s}, nil
	case types.LayoutIJCAI:
		return &ijcaiScraper{cfg: cfg, s: s}, nil
	case types.LayoutPMLR:
		return &pmlrScraper{cfg: cfg, s: s}, nil
	case types.LayoutICLR:
		return newICLRScraper(cfg, s), nil
	}
	return nil, fmt.Errorf("%s: %w %q", cfg.Name, ErrUnknownLayout, cfg.Layout)
}

// resolve returns ref resolved against base, or ref unchanged when either
// cannot be parsed.
func resolve(base, ref string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}

// wrapperSelector returns the selector for paper entries of class, or def
// when no class is configured.
func wrapperSelector(class, def string) string {
	if class == "" {
		return def
	}
	return "div." + class
}
