// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package abstract

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
	"github.com/sirupsen/logrus"

	"github.com/HamBa-m/sci-scraper/internal/httputil"
)

const pdfTimeout = 30 * time.Second

var (
	extendedAbstractRe = regexp.MustCompile(`(?i)\bExtended Abstract\b`)
	pdfAbstractRe      = regexp.MustCompile(`(?is)\bABSTRACT\b\s*(.*?)\b(?:Introduction|1\s+INTRODUCTION|Keywords)\b`)
)

// PDFAbstract extracts abstracts from the first page of a paper PDF.
type PDFAbstract struct {
	fetcher
}

// NewPDFAbstract returns a PDF extractor using the HTTP settings in opts.
func NewPDFAbstract(opts Options) *PDFAbstract {
	return &PDFAbstract{fetcher: newFetcher(opts)}
}

func (p *PDFAbstract) Name() string { return "PDF" }

// Extract downloads the PDF at url and parses its first page.
func (p *PDFAbstract) Extract(ctx context.Context, url string) Result {
	log := p.log.WithFields(logrus.Fields{"source": "PDF", "url": url})

	ctx, cancel := context.WithTimeout(ctx, pdfTimeout)
	defer cancel()

	header := p.header(nil)
	header.Set("Accept", "application/pdf,*/*;q=0.8")
	data, err := httputil.FetchBytes(ctx, p.client, url, header)
	if err != nil {
		log.WithError(err).Warn("downloading PDF failed")
		return notFound
	}

	text, err := firstPageText(data)
	if err != nil {
		log.WithError(err).Warn("reading PDF failed")
		return notFound
	}

	res := ParseFirstPage(text)
	if res.Status == NotFound {
		log.Debug("no abstract marker on first page")
	}
	return res
}

// ParseFirstPage finds the abstract in the text of a paper's first page.
// Pages announcing an "Extended Abstract" are skipped.
func ParseFirstPage(text string) Result {
	if extendedAbstractRe.MatchString(text) {
		return Result{Status: ExtendedAbstractSkipped, Text: ExtendedAbstractNote}
	}
	m := pdfAbstractRe.FindStringSubmatch(text)
	if m == nil {
		return notFound
	}
	return found(strings.Join(strings.Fields(m[1]), " "))
}

// firstPageText returns the text of page 1, one line per row.
func firstPageText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening PDF: %w", err)
	}
	if reader.NumPage() < 1 {
		return "", fmt.Errorf("PDF has no pages")
	}
	page := reader.Page(1)
	if page.V.IsNull() {
		return "", fmt.Errorf("PDF first page is empty")
	}

	rows, err := page.GetTextByRow()
	if err != nil {
		return "", fmt.Errorf("reading first page: %w", err)
	}
	var b strings.Builder
	for _, row := range rows {
		words := make([]string, 0, len(row.Content))
		for _, word := range row.Content {
			words = append(words, word.S)
		}
		b.WriteString(strings.Join(words, " "))
		b.WriteString("\n")
	}
	return b.String(), nil
}
