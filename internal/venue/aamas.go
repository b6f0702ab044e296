// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package venue

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/HamBa-m/sci-scraper/internal/abstract"
	"github.com/HamBa-m/sci-scraper/pkg/types"
)

// aamasScraper reads the AAMAS contents table, where each row links
// straight to paper PDFs. Abstracts come from the first PDF page.
type aamasScraper struct {
	cfg types.VenueConfig
	s   *Session
}

func (a *aamasScraper) ExtractPaperLinks(_ context.Context, doc *goquery.Document, indexURL string) ([]PaperRef, error) {
	var refs []PaperRef
	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		if strings.TrimSpace(row.Text()) == "" {
			return
		}
		row.Find(`a[href$=".pdf"]`).Each(func(_ int, link *goquery.Selection) {
			href, _ := link.Attr("href")
			refs = append(refs, PaperRef{
				Title: strings.Join(strings.Fields(link.Text()), " "),
				URL:   resolve(indexURL, href),
			})
		})
	})
	return refs, nil
}

func (a *aamasScraper) ExtractPaperDetails(ctx context.Context, ref PaperRef, year int) (*types.PaperRecord, error) {
	rec := &types.PaperRecord{
		Title:  types.CleanTitle(ref.Title),
		URL:    ref.URL,
		Source: a.cfg.Display(),
		Year:   types.Ptr(year),
	}
	if rec.Title == "" {
		rec.Title = types.TitleUnknown
	}

	pdf := a.s.PDF
	if pdf == nil {
		pdf = abstract.NewPDFAbstract(abstract.Options{Client: a.s.Client, Agents: a.s.Agents, Log: a.s.Log})
	}
	pdf.Extract(ctx, ref.URL).Apply(rec)
	return rec, nil
}
