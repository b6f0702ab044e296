// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package venue

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/HamBa-m/sci-scraper/internal/abstract"
	"github.com/HamBa-m/sci-scraper/pkg/types"
)

var (
	absLinkRe  = regexp.MustCompile(`(?i)abs`)
	pmlrYearRe = regexp.MustCompile(`,\s*(\d{4})\.`)
)

// pmlrScraper handles the Proceedings of Machine Learning Research
// archive used by AISTATS and ICML, keyed by volume number.
type pmlrScraper struct {
	cfg types.VenueConfig
	s   *Session
}

func (p *pmlrScraper) ExtractPaperLinks(_ context.Context, doc *goquery.Document, indexURL string) ([]PaperRef, error) {
	base := p.cfg.BaseURL
	if base == "" {
		base = indexURL
	}
	var refs []PaperRef
	doc.Find(wrapperSelector(p.cfg.PaperWrapperClass, "div.paper")).Each(func(_ int, paper *goquery.Selection) {
		paper.Find("a").EachWithBreak(func(_ int, link *goquery.Selection) bool {
			href, ok := link.Attr("href")
			if !ok || !absLinkRe.MatchString(link.Text()) {
				return true
			}
			refs = append(refs, PaperRef{
				Title: strings.Join(strings.Fields(paper.Find("p.title").First().Text()), " "),
				URL:   resolve(base, href),
			})
			return false
		})
	})
	return refs, nil
}

func (p *pmlrScraper) ExtractPaperDetails(ctx context.Context, ref PaperRef, _ int) (*types.PaperRecord, error) {
	doc, err := p.s.Document(ctx, ref.URL)
	if err != nil {
		return nil, fmt.Errorf("fetching paper page: %w", err)
	}

	rec := &types.PaperRecord{
		Title:  types.TitleUnknown,
		URL:    ref.URL,
		Source: p.cfg.Display(),
	}
	if title := strings.Join(strings.Fields(doc.Find("h1").First().Text()), " "); title != "" {
		rec.Title = types.CleanTitle(title)
	}

	sel := p.cfg.AbstractPageSelector
	if sel == "" {
		sel = "div#abstract"
	}
	rec.SetAbstract(abstract.NodeText(doc.Find(sel).First()))

	if m := pmlrYearRe.FindStringSubmatch(doc.Find("div#info").First().Text()); m != nil {
		if y, err := strconv.Atoi(m[1]); err == nil {
			rec.Year = &y
		}
	}
	return rec, nil
}
