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

const defaultIJCAIAbstract = "div.col-md-12"

var (
	ijcaiYearRe   = regexp.MustCompile(`/proceedings/(\d{4})/`)
	detailsLinkRe = regexp.MustCompile(`(?i)details`)
)

// ijcaiScraper follows the "Details" link of each paper on the IJCAI
// proceedings page.
type ijcaiScraper struct {
	cfg types.VenueConfig
	s   *Session
}

func (p *ijcaiScraper) ExtractPaperLinks(_ context.Context, doc *goquery.Document, indexURL string) ([]PaperRef, error) {
	base := p.cfg.BaseURL
	if base == "" {
		base = indexURL
	}
	var refs []PaperRef
	doc.Find(wrapperSelector(p.cfg.PaperWrapperClass, "div.paper_wrapper")).Each(func(_ int, paper *goquery.Selection) {
		paper.Find("div.details a").EachWithBreak(func(_ int, link *goquery.Selection) bool {
			href, ok := link.Attr("href")
			if !ok || !detailsLinkRe.MatchString(link.Text()) {
				return true
			}
			refs = append(refs, PaperRef{
				Title: strings.Join(strings.Fields(paper.Find("div.title").First().Text()), " "),
				URL:   resolve(base, href),
			})
			return false
		})
	})
	return refs, nil
}

func (p *ijcaiScraper) ExtractPaperDetails(ctx context.Context, ref PaperRef, _ int) (*types.PaperRecord, error) {
	doc, err := p.s.Document(ctx, ref.URL)
	if err != nil {
		return nil, fmt.Errorf("fetching paper page: %w", err)
	}

	rec := &types.PaperRecord{
		Title:  types.TitleUnknown,
		URL:    ref.URL,
		Source: p.cfg.Display(),
	}
	if title, ok := doc.Find(`meta[name="citation_title"]`).First().Attr("content"); ok && strings.TrimSpace(title) != "" {
		rec.Title = types.CleanTitle(title)
	}

	sel := p.cfg.AbstractPageSelector
	if sel == "" {
		sel = defaultIJCAIAbstract
	}
	rec.SetAbstract(abstract.NodeText(doc.Find(sel).First()))

	if m := ijcaiYearRe.FindStringSubmatch(ref.URL); m != nil {
		if y, err := strconv.Atoi(m[1]); err == nil {
			rec.Year = &y
		}
	}
	return rec, nil
}
