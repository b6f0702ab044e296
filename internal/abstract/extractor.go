// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package abstract retrieves paper abstracts from publisher pages. Each
// supported publisher has one Extractor that fetches the paper page and
// walks an ordered chain of fallback methods; the Registry maps source
// identifiers to extractors. Extraction failures are logged and reported
// as NotFound, never returned as errors.
package abstract

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/HamBa-m/sci-scraper/internal/httputil"
	"github.com/HamBa-m/sci-scraper/internal/logging"
	"github.com/HamBa-m/sci-scraper/internal/politeness"
	"github.com/HamBa-m/sci-scraper/internal/source"
	"github.com/HamBa-m/sci-scraper/pkg/types"
)

// Result statuses.
const (
	NotFound                = types.AbstractNotFound
	Found                   = types.AbstractFound
	ExtendedAbstractSkipped = types.AbstractExtendedSkipped
)

// ExtendedAbstractNote is the text carried by an ExtendedAbstractSkipped result.
const ExtendedAbstractNote = "Extended Abstract found. Skipping extraction."

// Result is the outcome of one extraction.
type Result struct {
	Status types.AbstractStatus
	Text   string
}

// Abstract returns the abstract text, or nil unless the status is Found.
func (r Result) Abstract() *string {
	if r.Status != Found || r.Text == "" {
		return nil
	}
	text := r.Text
	return &text
}

// Apply copies the result onto rec.
func (r Result) Apply(rec *types.PaperRecord) {
	rec.Abstract = r.Abstract()
	rec.AbstractStatus = r.Status
	if r.Status == "" {
		rec.AbstractStatus = NotFound
	}
}

func found(text string) Result {
	if text == "" {
		return Result{Status: NotFound}
	}
	return Result{Status: Found, Text: text}
}

var notFound = Result{Status: NotFound}

// Extractor turns a paper URL into an abstract.
type Extractor interface {
	Name() string
	Extract(ctx context.Context, url string) Result
}

// CursorExtractor is implemented by extractors for publishers that demand
// a minimum interval between requests. The caller passes the time of its
// previous request to that publisher and keeps the returned time for the
// next call. The returned time is updated even when extraction fails.
type CursorExtractor interface {
	Extractor
	ExtractWithCursor(ctx context.Context, url string, last time.Time) (Result, time.Time)
}

// Options configures the extractors built by NewRegistry.
type Options struct {
	Client *http.Client
	Agents *httputil.Rotator
	Log    logrus.FieldLogger

	// ScienceDirect spaces requests to ScienceDirect. A zero Interval
	// selects politeness.DefaultMinInterval.
	ScienceDirect politeness.MinInterval
}

// Registry maps source identifiers to extractors. It is built once and
// shared by every crawl; lookups are read-only after construction.
type Registry struct {
	extractors map[string]Extractor
	log        logrus.FieldLogger
}

// NewRegistry returns a registry with an extractor for every supported
// publisher.
func NewRegistry(opts Options) *Registry {
	f := newFetcher(opts)
	sd := opts.ScienceDirect
	if sd.Interval <= 0 {
		sd.Interval = politeness.DefaultMinInterval
	}

	r := NewEmptyRegistry(opts.Log)
	r.Register(source.ArXiv, newArxiv(f))
	r.Register(source.IEEE, newIEEE(f))
	r.Register(source.Springer, newSpringer(f))
	r.Register(source.MLR, newMLR(f))
	r.Register(source.ACM, newACM(f))
	r.Register(source.NeurIPS, newNeurIPS(f))
	r.Register(source.MDPI, newMDPI(f))
	r.Register(source.ScienceDirect, newScienceDirect(f, sd))
	r.Register(source.AAAI, newAAAI(f))
	r.Register(source.JAIR, newJAIR(f))
	r.Register(source.JMLR, newJMLR(f))
	r.Register(source.IJCAI, newIJCAI(f))
	return r
}

// NewEmptyRegistry returns a registry with no extractors.
func NewEmptyRegistry(log logrus.FieldLogger) *Registry {
	return &Registry{
		extractors: make(map[string]Extractor),
		log:        logging.OrDiscard(log),
	}
}

// Register installs e for the source identifier id, replacing any
// previous extractor.
func (r *Registry) Register(id string, e Extractor) {
	r.extractors[id] = e
}

// Lookup returns the extractor for id.
func (r *Registry) Lookup(id string) (Extractor, bool) {
	e, ok := r.extractors[id]
	return e, ok
}

// Sources returns the registered identifiers in sorted order.
func (r *Registry) Sources() []string {
	ids := make([]string, 0, len(r.extractors))
	for id := range r.extractors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Extract dispatches url to the extractor registered for src. A source
// without an extractor yields NotFound. When cursor is non-nil and the
// extractor enforces a minimum interval, the cursor is read and updated.
func (r *Registry) Extract(ctx context.Context, src, url string, cursor *time.Time) Result {
	e, ok := r.Lookup(src)
	if !ok {
		r.log.WithFields(logrus.Fields{"source": src, "url": url}).Debug("no extractor registered")
		return notFound
	}
	if ce, ok := e.(CursorExtractor); ok && cursor != nil {
		res, last := ce.ExtractWithCursor(ctx, url, *cursor)
		*cursor = last
		return res
	}
	return e.Extract(ctx, url)
}
