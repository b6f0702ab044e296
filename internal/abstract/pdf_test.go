// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package abstract

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// onePagePDF builds a single-page PDF with one text row per line, top to
// bottom, in Helvetica.
func onePagePDF(lines ...string) []byte {
	var content strings.Builder
	content.WriteString("BT /F1 12 Tf\n")
	for i, l := range lines {
		fmt.Fprintf(&content, "1 0 0 1 72 %d Tm (%s) Tj\n", 720-20*i, l)
	}
	content.WriteString("ET")

	objs := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", content.Len(), content.String()),
	}

	var b bytes.Buffer
	b.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, o := range objs {
		offsets[i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", i+1, o)
	}
	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n0000000000 65535 f \n", len(objs)+1)
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)
	return b.Bytes()
}

func TestParseFirstPage(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		status string
		want   string
	}{
		{
			name:   "introduction marker",
			text:   "Robust MARL\nAlice, Bob\nABSTRACT\nWe study attacks\non cooperative agents.\n1 INTRODUCTION\nAgents...",
			status: string(Found),
			want:   "We study attacks on cooperative agents.",
		},
		{
			name:   "keywords marker",
			text:   "Title\nAbstract We defend  agents.\nKeywords: MARL, games",
			status: string(Found),
			want:   "We defend agents.",
		},
		{
			name:   "extended abstract skipped",
			text:   "Extended Abstract\nTitle\nABSTRACT\nShort paper.\nIntroduction",
			status: string(ExtendedAbstractSkipped),
			want:   ExtendedAbstractNote,
		},
		{
			name:   "no marker",
			text:   "Title\nSome body text without markers.",
			status: string(NotFound),
			want:   "",
		},
		{
			name:   "abstract without terminator",
			text:   "ABSTRACT\nText that never ends",
			status: string(NotFound),
			want:   "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ParseFirstPage(tt.text)
			assert.Equal(t, tt.status, string(res.Status))
			assert.Equal(t, tt.want, res.Text)
		})
	}
}

func TestFirstPageText(t *testing.T) {
	text, err := firstPageText(onePagePDF(
		"Robust MARL",
		"ABSTRACT",
		"We study adversarial attacks in MARL settings.",
		"1 INTRODUCTION",
	))
	require.NoError(t, err)
	assert.Equal(t, "Robust MARL\nABSTRACT\nWe study adversarial attacks in MARL settings.\n1 INTRODUCTION\n", text)

	res := ParseFirstPage(text)
	assert.Equal(t, Found, res.Status)
	assert.Equal(t, "We study adversarial attacks in MARL settings.", res.Text)
}

func TestPDFAbstract_ServedPDF(t *testing.T) {
	pages := map[string][]byte{
		"/full.pdf":     onePagePDF("Robust MARL", "ABSTRACT", "We study adversarial attacks in MARL settings.", "Keywords: games"),
		"/extended.pdf": onePagePDF("Extended Abstract", "ABSTRACT", "Short form.", "1 INTRODUCTION"),
	}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write(pages[r.URL.Path])
	}))
	defer ts.Close()

	p := NewPDFAbstract(Options{Client: ts.Client()})
	res := p.Extract(context.Background(), ts.URL+"/full.pdf")
	assert.Equal(t, Found, res.Status)
	assert.Equal(t, "We study adversarial attacks in MARL settings.", res.Text)

	res = p.Extract(context.Background(), ts.URL+"/extended.pdf")
	assert.Equal(t, ExtendedAbstractSkipped, res.Status)
	assert.Nil(t, res.Abstract())
}

func TestPDFAbstract_InvalidPDF(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("not a pdf at all"))
	}))
	defer ts.Close()

	p := NewPDFAbstract(Options{Client: ts.Client()})
	res := p.Extract(context.Background(), ts.URL+"/paper.pdf")
	assert.Equal(t, NotFound, res.Status)
	assert.Nil(t, res.Abstract())
}

func TestPDFAbstract_DownloadFailure(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	p := NewPDFAbstract(Options{Client: ts.Client()})
	assert.Equal(t, NotFound, p.Extract(context.Background(), ts.URL+"/x.pdf").Status)
	assert.Equal(t, "PDF", p.Name())
}
