// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package venue

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
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
	"github.com/HamBa-m/sci-scraper/pkg/types"
)

// dblpAPIBase is the DBLP publication search endpoint. Tests point it at
// a local server.
var dblpAPIBase = "https://dblp.uni-trier.de/search/publ/api"

// ICLRBaseDelay is the first backoff of the ICLR retry policy and the
// pause between DBLP result pages.
var ICLRBaseDelay = 500 * time.Millisecond

const (
	dblpBatchSize = 1000
	dblpKeywords  = "Robust|Adversarial|Attack|Defense|Multi|agent|MARL|Game|Theory|Reinforcement|Learning"

	// iclrMaxAttempts bounds requests per URL, retries included.
	iclrMaxAttempts = 3

	defaultICLRAbstract = `meta[name="citation_abstract"]`
)

var iclrYearRe = regexp.MustCompile(`iclr(\d{4})`)

// iclrScraper lists ICLR papers through the DBLP search API and reads each
// abstract from the paper's OpenReview page.
type iclrScraper struct {
	cfg   types.VenueConfig
	s     *Session
	retry httputil.Retry
	pause time.Duration
}

func newICLRScraper(cfg types.VenueConfig, s *Session) *iclrScraper {
	return &iclrScraper{
		cfg: cfg,
		s:   s,
		retry: httputil.Retry{
			MaxRetries: iclrMaxAttempts - 1,
			BaseDelay:  ICLRBaseDelay,
			Log:        s.Log,
		},
		pause: ICLRBaseDelay,
	}
}

// dblpQuery builds the keyword query restricted to the ICLR table of
// contents of year.
func dblpQuery(year int) string {
	return fmt.Sprintf("%s toc:db/conf/iclr/iclr%d.bht:", dblpKeywords, year)
}

// FetchIndex pages through the DBLP search results for the year encoded in
// indexURL, falling back to year.
func (p *iclrScraper) FetchIndex(ctx context.Context, indexURL string, year int) ([]PaperRef, error) {
	if m := iclrYearRe.FindStringSubmatch(indexURL); m != nil {
		if y, err := strconv.Atoi(m[1]); err == nil {
			year = y
		}
	}
	log := logging.OrDiscard(p.s.Log).WithFields(logrus.Fields{"venue": p.cfg.Display(), "year": year})

	var refs []PaperRef
	total := -1
	for offset := 0; ; {
		params := url.Values{}
		params.Set("q", dblpQuery(year))
		params.Set("h", strconv.Itoa(dblpBatchSize))
		params.Set("f", strconv.Itoa(offset))
		params.Set("format", "json")

		hits, hitTotal, err := p.fetchHits(ctx, dblpAPIBase+"?"+params.Encode())
		if err != nil {
			if len(refs) == 0 || errors.Is(err, httputil.ErrRateLimited) || ctx.Err() != nil {
				return refs, fmt.Errorf("querying DBLP: %w", err)
			}
			log.WithError(err).Warn("DBLP page failed, keeping partial results")
			break
		}
		if total < 0 {
			total = hitTotal
			log.WithField("total", total).Info("DBLP results")
		}
		if len(hits) == 0 {
			break
		}

		for _, h := range hits {
			link := h.Info.EE.first()
			if link == "" {
				continue
			}
			refs = append(refs, PaperRef{
				Title: types.CleanTitle(h.Info.Title),
				URL:   link,
				Year:  int(h.Info.Year),
			})
		}
		offset += len(hits)
		if offset >= total {
			break
		}
		if err := politeness.Sleep(ctx, p.pause); err != nil {
			return refs, err
		}
	}
	return refs, nil
}

func (p *iclrScraper) fetchHits(ctx context.Context, apiURL string) ([]dblpHit, int, error) {
	ctx, cancel := context.WithTimeout(ctx, pageTimeout*iclrMaxAttempts)
	defer cancel()

	header := p.s.header()
	header.Set("Accept", "application/json")
	resp, err := p.retry.Get(ctx, p.s.Client, apiURL, header)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	var body dblpResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, 0, fmt.Errorf("decoding DBLP response: %w", err)
	}
	return body.Result.Hits.Hit, int(body.Result.Hits.Total), nil
}

// ExtractPaperLinks reads a DBLP table-of-contents page. It is used when
// the index is fetched as HTML rather than through the search API.
func (p *iclrScraper) ExtractPaperLinks(_ context.Context, doc *goquery.Document, _ string) ([]PaperRef, error) {
	var refs []PaperRef
	doc.Find("li.entry").Each(func(_ int, entry *goquery.Selection) {
		href, ok := entry.Find("nav.publ div.head a[href]").First().Attr("href")
		if !ok {
			return
		}
		refs = append(refs, PaperRef{
			Title: types.CleanTitle(entry.Find("span.title").First().Text()),
			URL:   href,
		})
	})
	return refs, nil
}

// ExtractPaperDetails reads the abstract from the paper's OpenReview page,
// retrying on HTTP 429. The selector defaults to the citation_abstract meta
// tag; a matched meta tag yields its content attribute, any other element
// its text.
func (p *iclrScraper) ExtractPaperDetails(ctx context.Context, ref PaperRef, year int) (*types.PaperRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, pageTimeout*iclrMaxAttempts)
	defer cancel()

	resp, err := p.retry.Get(ctx, p.s.Client, ref.URL, p.s.header())
	if err != nil {
		return nil, fmt.Errorf("fetching OpenReview page: %w", err)
	}
	doc, err := httputil.ReadDocument(resp)
	if err != nil {
		return nil, err
	}

	rec := &types.PaperRecord{
		Title:  types.CleanTitle(ref.Title),
		URL:    ref.URL,
		Source: p.cfg.Display(),
		Year:   types.Ptr(year),
	}
	if rec.Title == "" {
		rec.Title = types.TitleUnknown
	}
	sel := p.cfg.AbstractPageSelector
	if sel == "" {
		sel = defaultICLRAbstract
	}
	node := doc.Find(sel).First()
	if content, ok := node.Attr("content"); ok {
		rec.SetAbstract(strings.TrimSpace(content))
	} else {
		rec.SetAbstract(abstract.NodeText(node))
	}
	return rec, nil
}

type dblpResponse struct {
	Result struct {
		Hits struct {
			Total flexInt  `json:"@total"`
			Hit   dblpHits `json:"hit"`
		} `json:"hits"`
	} `json:"result"`
}

type dblpHit struct {
	Info struct {
		Title string      `json:"title"`
		EE    flexStrings `json:"ee"`
		Year  flexInt     `json:"year"`
	} `json:"info"`
}

// dblpHits decodes "hit" as either a single object or an array.
type dblpHits []dblpHit

func (h *dblpHits) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var one dblpHit
		if err := json.Unmarshal(data, &one); err != nil {
			return err
		}
		*h = dblpHits{one}
		return nil
	}
	var many []dblpHit
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*h = many
	return nil
}

// flexInt decodes a JSON number or a numeric string.
type flexInt int

func (n *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("parsing %q as integer: %w", s, err)
	}
	*n = flexInt(v)
	return nil
}

// flexStrings decodes a JSON string or an array of strings.
type flexStrings []string

func (s *flexStrings) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var many []string
		if err := json.Unmarshal(data, &many); err != nil {
			return err
		}
		*s = many
		return nil
	}
	var one string
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	*s = flexStrings{one}
	return nil
}

func (s flexStrings) first() string {
	for _, v := range s {
		if v != "" {
			return v
		}
	}
	return ""
}
