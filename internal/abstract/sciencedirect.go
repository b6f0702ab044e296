// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package abstract

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/HamBa-m/sci-scraper/internal/politeness"
	"github.com/HamBa-m/sci-scraper/internal/source"
)

var preloadedStateRe = regexp.MustCompile(`window\.__PRELOADED_STATE__\s*=\s*`)

// scienceDirect spaces its requests by a minimum interval. Callers that
// thread their own cursor use ExtractWithCursor; Extract falls back to a
// cursor kept by the extractor.
type scienceDirect struct {
	html     *htmlExtractor
	interval politeness.MinInterval

	mu   sync.Mutex
	last time.Time
}

func newScienceDirect(f fetcher, interval politeness.MinInterval) Extractor {
	return &scienceDirect{
		html: &htmlExtractor{
			fetcher: f,
			name:    source.ScienceDirect,
			timeout: fastTimeout,
			prepare: withHeader(googleReferer),
			method: firstOf(
				bySelectors("div.Abstracts", "div.abstract", "section.Abstract", "div.abstract-content", "div.abstract-sec"),
				preloadedState,
			),
		},
		interval: interval,
	}
}

func (s *scienceDirect) Name() string { return source.ScienceDirect }

func (s *scienceDirect) ExtractWithCursor(ctx context.Context, url string, last time.Time) (Result, time.Time) {
	now, err := s.interval.WaitIfNeeded(ctx, last)
	if err != nil {
		s.html.log.WithError(err).WithField("url", url).Warn("interrupted while waiting for ScienceDirect interval")
		return notFound, last
	}
	return s.html.Extract(ctx, url), now
}

func (s *scienceDirect) Extract(ctx context.Context, url string) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, last := s.ExtractWithCursor(ctx, url, s.last)
	s.last = last
	return res
}

// preloadedState walks the application state that ScienceDirect embeds as
// window.__PRELOADED_STATE__ and returns the first abstract section.
func preloadedState(doc *goquery.Document) string {
	var out string
	doc.Find("script").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		body := sel.Text()
		loc := preloadedStateRe.FindStringIndex(body)
		if loc == nil {
			return true
		}

		var state struct {
			Abstracts struct {
				Content []abstractNode `json:"content"`
			} `json:"abstracts"`
		}
		dec := json.NewDecoder(strings.NewReader(body[loc[1]:]))
		if err := dec.Decode(&state); err != nil {
			return true
		}
		for _, c := range state.Abstracts.Content {
			if c.Name != "abstract" {
				continue
			}
			for _, sec := range c.Children {
				if sec.Name == "abstract-sec" && strings.TrimSpace(sec.Text) != "" {
					out = sec.Text
					return false
				}
			}
		}
		return true
	})
	return out
}

type abstractNode struct {
	Name     string         `json:"#name"`
	Text     string         `json:"_"`
	Children []abstractNode `json:"$$"`
}
