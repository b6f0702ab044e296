// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scholar crawls Google Scholar result pages and fills each result
// with an abstract from the publisher page.
package scholar

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/HamBa-m/sci-scraper/internal/abstract"
	"github.com/HamBa-m/sci-scraper/internal/httputil"
	"github.com/HamBa-m/sci-scraper/internal/logging"
	"github.com/HamBa-m/sci-scraper/internal/politeness"
	"github.com/HamBa-m/sci-scraper/internal/source"
	"github.com/HamBa-m/sci-scraper/pkg/types"
)

// DefaultBaseURL is the Scholar search endpoint.
const DefaultBaseURL = "https://scholar.google.com/scholar"

// DefaultDelay is the pause between processed results.
const DefaultDelay = 2 * time.Second

const resultsPerPage = 10

var (
	yearRe     = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	typeTagRe  = regexp.MustCompile(`^(\[[A-Z]+\]\s*)+`)
	typeTagSel = "span.gs_ctc, span.gs_ctg, span.gs_ctg2, span.gs_ct1, span.gs_ct2"
)

// Abstracts looks up the abstract for a paper URL of a given source.
// *abstract.Registry implements it.
type Abstracts interface {
	Extract(ctx context.Context, src, url string, cursor *time.Time) abstract.Result
}

// Query is one Scholar search.
type Query struct {
	Text  string
	Pages int
}

// ProgressFunc is called after each result is processed. current is the
// 1-based page being processed and never decreases; rec is the record
// just built.
type ProgressFunc func(current, total int, rec *types.PaperRecord)

// PageError records a result page that could not be fetched.
type PageError struct {
	Page int
	Err  error
}

func (e PageError) Error() string {
	return fmt.Sprintf("page %d: %v", e.Page, e.Err)
}

// Output holds the records of a crawl in discovery order.
type Output struct {
	Records    []types.PaperRecord
	PageErrors []PageError
}

// Crawler walks Scholar result pages sequentially.
type Crawler struct {
	Client    *http.Client
	Abstracts Abstracts

	// Delay is slept after every processed result, and after a result
	// page that failed or produced no records. Nil means no delay.
	Delay *politeness.Delay

	// Exclude lists source identifiers whose results are dropped.
	Exclude map[string]bool

	BaseURL string
	Agents  *httputil.Rotator
	Log     logrus.FieldLogger
}

// NewCrawler returns a crawler configured from cfg.
func NewCrawler(cfg types.ScholarConfig, client *http.Client, abstracts Abstracts, log logrus.FieldLogger) *Crawler {
	exclude := make(map[string]bool, len(cfg.ExcludeSources))
	for _, s := range cfg.ExcludeSources {
		exclude[s] = true
	}
	return &Crawler{
		Client:    client,
		Abstracts: abstracts,
		Delay:     politeness.NewDelay(cfg.RequestDelay),
		Exclude:   exclude,
		BaseURL:   cfg.BaseURL,
		Agents:    httputil.NewRotator(cfg.UserAgent),
		Log:       log,
	}
}

// Crawl fetches q.Pages result pages and returns one record per result.
// A page that fails to load contributes no records and is reported in
// Output.PageErrors. Cancelling ctx stops the crawl; the records gathered
// so far are returned with ctx.Err().
func (c *Crawler) Crawl(ctx context.Context, q Query, progress ProgressFunc) (Output, error) {
	log := logging.OrDiscard(c.Log).WithField("query", q.Text)
	var out Output

	// The ScienceDirect cursor lives for one crawl.
	var cursor time.Time

	for page := 0; page < q.Pages; page++ {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		pageLog := log.WithField("page", page+1)

		doc, err := c.fetchPage(ctx, q.Text, page)
		if err != nil {
			if ctx.Err() != nil {
				return out, ctx.Err()
			}
			pageLog.WithError(err).Warn("fetching result page failed")
			out.PageErrors = append(out.PageErrors, PageError{Page: page + 1, Err: err})
			if err := c.Delay.Wait(ctx); err != nil {
				return out, err
			}
			continue
		}

		results := doc.Find("div.gs_ri")
		pageLog.WithField("results", results.Length()).Info("processing result page")

		processed := 0
		for i := range results.Nodes {
			stub := parseResult(results.Eq(i))
			if c.Exclude[stub.Source] {
				pageLog.WithFields(logrus.Fields{"source": stub.Source, "url": stub.URL}).Debug("skipping excluded source")
				continue
			}

			rec := c.buildRecord(ctx, stub, &cursor)
			out.Records = append(out.Records, rec)
			if progress != nil {
				progress(page+1, q.Pages, &rec)
			}

			processed++
			if err := c.Delay.Wait(ctx); err != nil {
				return out, err
			}
		}
		if processed == 0 {
			if err := c.Delay.Wait(ctx); err != nil {
				return out, err
			}
		}
	}
	return out, nil
}

func (c *Crawler) fetchPage(ctx context.Context, query string, page int) (*goquery.Document, error) {
	base := c.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	params := url.Values{}
	params.Set("q", query)
	params.Set("start", strconv.Itoa(page*resultsPerPage))
	params.Set("hl", "en")

	client := c.Client
	if client == nil {
		client = &http.Client{Timeout: httputil.DefaultTimeout}
	}
	return httputil.FetchDocument(ctx, client, base+"?"+params.Encode(), httputil.BrowserHeaders(c.Agents.Next()))
}

func (c *Crawler) buildRecord(ctx context.Context, stub types.PaperRecord, cursor *time.Time) types.PaperRecord {
	rec := stub
	rec.AbstractStatus = abstract.NotFound
	if rec.URL != types.NoLink && c.Abstracts != nil {
		c.Abstracts.Extract(ctx, rec.Source, rec.URL, cursor).Apply(&rec)
	}
	return rec
}

// parseResult reads the stub metadata of one result block.
func parseResult(s *goquery.Selection) types.PaperRecord {
	rec := types.PaperRecord{
		Title:    types.NoTitle,
		URL:      types.NoLink,
		Citation: types.NoCitation,
	}

	heading := s.Find("h3.gs_rt").First()
	if heading.Length() > 0 {
		if href, ok := heading.Find("a[href]").First().Attr("href"); ok && href != "" {
			rec.URL = href
		}
		h := heading.Clone()
		h.Find(typeTagSel).Remove()
		title := typeTagRe.ReplaceAllString(strings.Join(strings.Fields(h.Text()), " "), "")
		if title != "" {
			rec.Title = types.CleanTitle(title)
		}
	}

	if cite := s.Find("div.gs_a").First(); cite.Length() > 0 {
		rec.Citation = strings.Join(strings.Fields(cite.Text()), " ")
		rec.Year = ParseYear(rec.Citation)
	}

	rec.Source = source.Detect(rec.URL)
	return rec
}

// ParseYear returns the first four-digit year starting with 19 or 20 in
// text, or nil.
func ParseYear(text string) *int {
	m := yearRe.FindString(text)
	if m == "" {
		return nil
	}
	y, err := strconv.Atoi(m)
	if err != nil {
		return nil
	}
	return &y
}
