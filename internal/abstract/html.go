// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package abstract

import (
	"context"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/HamBa-m/sci-scraper/internal/httputil"
	"github.com/HamBa-m/sci-scraper/internal/logging"
)

// fetcher holds the HTTP state shared by all extractors of a registry.
type fetcher struct {
	client *http.Client
	agents *httputil.Rotator
	log    logrus.FieldLogger
}

func newFetcher(opts Options) fetcher {
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: httputil.DefaultTimeout}
	}
	agents := opts.Agents
	if agents == nil {
		agents = httputil.NewRotator("")
	}
	return fetcher{client: client, agents: agents, log: logging.OrDiscard(opts.Log)}
}

// header returns browser headers with the next User-Agent and any extra
// values layered on top.
func (f fetcher) header(extra http.Header) http.Header {
	h := httputil.BrowserHeaders(f.agents.Next())
	for k, vs := range extra {
		h[k] = vs
	}
	return h
}

func (f fetcher) document(ctx context.Context, url string, timeout time.Duration, extra http.Header) (*goquery.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return httputil.FetchDocument(ctx, f.client, url, f.header(extra))
}

// htmlExtractor fetches an HTML page and runs a fallback chain over it.
type htmlExtractor struct {
	fetcher

	name    string
	timeout time.Duration

	// prepare maps the input URL to the URL to fetch plus extra request
	// headers. An error skips the request.
	prepare func(url string) (string, http.Header, error)

	method method
}

func (e *htmlExtractor) Name() string { return e.name }

func (e *htmlExtractor) Extract(ctx context.Context, url string) Result {
	log := e.log.WithFields(logrus.Fields{"source": e.name, "url": url})

	target, extra := url, http.Header(nil)
	if e.prepare != nil {
		var err error
		target, extra, err = e.prepare(url)
		if err != nil {
			log.WithError(err).Warn("skipping abstract extraction")
			return notFound
		}
	}

	doc, err := e.document(ctx, target, e.timeout, extra)
	if err != nil {
		log.WithError(err).Warn("fetching abstract page failed")
		return notFound
	}

	text := cleanText(e.method(doc))
	if text == "" {
		log.Debug("no abstract on page")
		return notFound
	}
	return found(text)
}
