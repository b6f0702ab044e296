// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package abstract

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HamBa-m/sci-scraper/internal/politeness"
	"github.com/HamBa-m/sci-scraper/internal/source"
	"github.com/HamBa-m/sci-scraper/pkg/types"
)

// servePages serves fixed HTML bodies keyed by request path and counts
// requests.
func servePages(t *testing.T, pages map[string]string) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		body, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return ts, &hits
}

func testRegistry(ts *httptest.Server) *Registry {
	return NewRegistry(Options{
		Client: ts.Client(),
		ScienceDirect: politeness.MinInterval{
			Interval: time.Second,
			Sleep:    func(context.Context, time.Duration) error { return nil },
		},
	})
}

func TestRegistry_Sources(t *testing.T) {
	r := NewRegistry(Options{})
	assert.Equal(t, []string{
		source.AAAI, source.ACM, source.IEEE, source.IJCAI, source.JAIR, source.JMLR,
		source.MDPI, source.MLR, source.NeurIPS, source.ScienceDirect, source.Springer, source.ArXiv,
	}, r.Sources())

	_, ok := r.Lookup(source.ScienceDirect)
	assert.True(t, ok)
	_, ok = r.Lookup("example.org")
	assert.False(t, ok)
}

func TestRegistry_UnknownSource(t *testing.T) {
	r := NewRegistry(Options{})
	res := r.Extract(context.Background(), "example.org", "https://example.org/x", nil)
	assert.Equal(t, NotFound, res.Status)
	assert.Nil(t, res.Abstract())
}

func TestExtract_MetaFallback(t *testing.T) {
	ts, _ := servePages(t, map[string]string{
		"/meta": `<html><head>
			<meta name="citation_abstract" content="We study adversarial attacks on cooperative MARL.">
			</head><body><div class="other">nothing here</div></body></html>`,
		"/none": `<html><head><title>Paper</title></head><body><p>No abstract.</p></body></html>`,
	})
	r := testRegistry(ts)
	ctx := context.Background()

	for _, src := range []string{source.IJCAI, source.ACM} {
		t.Run(src, func(t *testing.T) {
			res := r.Extract(ctx, src, ts.URL+"/meta", nil)
			assert.Equal(t, Found, res.Status)
			assert.Equal(t, "We study adversarial attacks on cooperative MARL.", res.Text)

			res = r.Extract(ctx, src, ts.URL+"/none", nil)
			assert.Equal(t, NotFound, res.Status)
			assert.Nil(t, res.Abstract())
		})
	}
}

func TestExtract_HTTPErrorIsNotFound(t *testing.T) {
	ts, _ := servePages(t, map[string]string{})
	r := testRegistry(ts)

	res := r.Extract(context.Background(), source.Springer, ts.URL+"/missing", nil)
	assert.Equal(t, NotFound, res.Status)
}

func TestExtract_Springer(t *testing.T) {
	ts, _ := servePages(t, map[string]string{
		"/article": `<div id="Abs1-content"><p>Springer abstract text.</p></div>
			<meta name="description" content="ignored">`,
	})
	res := testRegistry(ts).Extract(context.Background(), source.Springer, ts.URL+"/article", nil)
	assert.Equal(t, "Springer abstract text.", res.Text)
}

func TestExtract_Arxiv(t *testing.T) {
	ts, _ := servePages(t, map[string]string{
		"/abs/2301.00001": `<blockquote class="abstract mathjax">
			<span class="descriptor">Abstract:</span> Robust policies for Markov games.</blockquote>`,
	})
	res := testRegistry(ts).Extract(context.Background(), source.ArXiv, ts.URL+"/abs/2301.00001", nil)
	assert.Equal(t, "Robust policies for Markov games.", res.Text)
}

func TestExtract_MLRContentParagraph(t *testing.T) {
	ts, _ := servePages(t, map[string]string{
		"/v139/a.html": `<div id="content"><p>Authors</p><p>Abstract: Learning in games.</p></div>`,
	})
	res := testRegistry(ts).Extract(context.Background(), source.MLR, ts.URL+"/v139/a.html", nil)
	assert.Equal(t, "Abstract: Learning in games.", res.Text)
}

func TestExtract_NeurIPSLengthFloor(t *testing.T) {
	ts, _ := servePages(t, map[string]string{
		"/paper": `<div class="abstract">Too short.</div>
			<script type="application/ld+json">{"description":"also short"}</script>
			<h4>Abstract</h4><p>` + longText + `</p>`,
	})
	res := testRegistry(ts).Extract(context.Background(), source.NeurIPS, ts.URL+"/paper", nil)
	assert.Equal(t, Found, res.Status)
	assert.Equal(t, strings.TrimSpace(longText), res.Text)
}

func TestExtract_MDPIParagraphs(t *testing.T) {
	ts, _ := servePages(t, map[string]string{
		"/2076-3417/1/1": `<div class="art-abstract"><p>First sentence.</p><p>Second sentence.</p></div>`,
	})
	res := testRegistry(ts).Extract(context.Background(), source.MDPI, ts.URL+"/2076-3417/1/1", nil)
	assert.Equal(t, "First sentence. Second sentence.", res.Text)
}

func TestExtract_AAAI(t *testing.T) {
	ts, _ := servePages(t, map[string]string{
		"/index.php/AAAI/article/view/1": `<section class="item abstract">
			<h2 class="label">Abstract</h2>Agents in adversarial games.</section>`,
	})
	res := testRegistry(ts).Extract(context.Background(), source.AAAI, ts.URL+"/index.php/AAAI/article/view/1", nil)
	assert.Equal(t, "Agents in adversarial games.", res.Text)
}

func TestExtract_JournalFallbacks(t *testing.T) {
	long := strings.TrimSpace(longText)
	tests := []struct {
		name   string
		src    string
		page   string
		status types.AbstractStatus
		want   string
	}{
		{
			name:   "jair article abstract",
			src:    source.JAIR,
			page:   `<div class="article-abstract">Abstract   Robust coordination under attack.</div>`,
			status: Found,
			want:   "Robust coordination under attack.",
		},
		{
			name: "jair short meta skipped for heading",
			src:  source.JAIR,
			page: `<meta name="description" content="Too short.">
				<h2>Abstract</h2><p>` + longText + `</p>`,
			status: Found,
			want:   long,
		},
		{
			name:   "jmlr abstract paragraph",
			src:    source.JMLR,
			page:   `<p class="abstract">Abstract
				Learning equilibria in stochastic games.</p>`,
			status: Found,
			want:   "Learning equilibria in stochastic games.",
		},
		{
			name:   "jmlr abstract div",
			src:    source.JMLR,
			page:   `<div id="abstract">Zero-sum games with adversaries.</div>`,
			status: Found,
			want:   "Zero-sum games with adversaries.",
		},
		{
			name: "jmlr heading before meta",
			src:  source.JMLR,
			page: `<meta name="citation_abstract" content="` + strings.Repeat("Meta text comes second. ", 6) + `">
				<h3>Abstract</h3><div>` + longText + `</div>`,
			status: Found,
			want:   long,
		},
		{
			name:   "jmlr nothing long enough",
			src:    source.JMLR,
			page:   `<meta name="description" content="Short."><h3>Abstract</h3><div>Short.</div>`,
			status: NotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, _ := servePages(t, map[string]string{"/paper": `<html><body>` + tt.page + `</body></html>`})
			res := testRegistry(ts).Extract(context.Background(), tt.src, ts.URL+"/paper", nil)
			assert.Equal(t, tt.status, res.Status)
			assert.Equal(t, tt.want, res.Text)
		})
	}
}

func TestExtract_IEEE(t *testing.T) {
	var referer string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		referer = r.Header.Get("Referer")
		w.Write([]byte(`<meta property="og:description" content="IEEE abstract text.">`))
	}))
	defer ts.Close()

	res := testRegistry(ts).Extract(context.Background(), source.IEEE, ts.URL+"/document/9123456/", nil)
	assert.Equal(t, "IEEE abstract text.", res.Text)
	assert.Equal(t, "https://ieeexplore.ieee.org/document/9123456", referer)
}

func TestExtract_IEEEMetadataScript(t *testing.T) {
	ts, _ := servePages(t, map[string]string{
		"/document/42": `<script>
xplGlobal.document.metadata={"title":"T","abstract":"From metadata."};
</script>`,
	})
	res := testRegistry(ts).Extract(context.Background(), source.IEEE, ts.URL+"/document/42", nil)
	assert.Equal(t, "From metadata.", res.Text)
}

func TestExtract_IEEENoArticleNumber(t *testing.T) {
	ts, hits := servePages(t, map[string]string{})
	res := testRegistry(ts).Extract(context.Background(), source.IEEE, ts.URL+"/abstract/xyz", nil)
	assert.Equal(t, NotFound, res.Status)
	assert.Equal(t, int32(0), atomic.LoadInt32(hits))
}

func TestIEEEArticleNumber(t *testing.T) {
	n, ok := ieeeArticleNumber("https://ieeexplore.ieee.org/document/8675309")
	assert.True(t, ok)
	assert.Equal(t, "8675309", n)

	n, ok = ieeeArticleNumber("https://ieeexplore.ieee.org/stamp/stamp.jsp?tp=&arnumber=555")
	assert.True(t, ok)
	assert.Equal(t, "555", n)

	_, ok = ieeeArticleNumber("https://ieeexplore.ieee.org/abstract/")
	assert.False(t, ok)
}

func TestScienceDirect_PreloadedState(t *testing.T) {
	ts, _ := servePages(t, map[string]string{
		"/pii/S1": `<script>window.__PRELOADED_STATE__ = {"abstracts":{"content":[
			{"#name":"abstract","$$":[{"#name":"section-title","_":"Abstract"},{"#name":"abstract-sec","_":"State abstract."}]}
		]}};</script>`,
	})
	res := testRegistry(ts).Extract(context.Background(), source.ScienceDirect, ts.URL+"/pii/S1", nil)
	assert.Equal(t, "State abstract.", res.Text)
}

func TestScienceDirect_CursorThreaded(t *testing.T) {
	ts, _ := servePages(t, map[string]string{
		"/pii/S2": `<div class="Abstracts"><h2>Abstract</h2><p>Selector abstract.</p></div>`,
	})

	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var slept []time.Duration
	r := NewRegistry(Options{
		Client: ts.Client(),
		ScienceDirect: politeness.MinInterval{
			Interval: 10 * time.Second,
			Now:      func() time.Time { return clock },
			Sleep: func(_ context.Context, d time.Duration) error {
				slept = append(slept, d)
				clock = clock.Add(d)
				return nil
			},
		},
	})

	cursor := clock.Add(-4 * time.Second)
	res := r.Extract(context.Background(), source.ScienceDirect, ts.URL+"/pii/S2", &cursor)
	assert.Equal(t, "Abstract Selector abstract.", res.Text)
	assert.Equal(t, []time.Duration{6 * time.Second}, slept)
	assert.Equal(t, clock, cursor)

	// A failed request still advances the cursor.
	clock = clock.Add(20 * time.Second)
	res = r.Extract(context.Background(), source.ScienceDirect, ts.URL+"/missing", &cursor)
	assert.Equal(t, NotFound, res.Status)
	assert.Equal(t, clock, cursor)
	assert.Len(t, slept, 1)
}

func TestResult_Apply(t *testing.T) {
	var rec types.PaperRecord
	Result{Status: Found, Text: "text"}.Apply(&rec)
	require.NotNil(t, rec.Abstract)
	assert.Equal(t, "text", *rec.Abstract)
	assert.Equal(t, types.AbstractFound, rec.AbstractStatus)

	Result{Status: ExtendedAbstractSkipped, Text: ExtendedAbstractNote}.Apply(&rec)
	assert.Nil(t, rec.Abstract)
	assert.Equal(t, types.AbstractExtendedSkipped, rec.AbstractStatus)

	Result{}.Apply(&rec)
	assert.Equal(t, types.AbstractNotFound, rec.AbstractStatus)
}
