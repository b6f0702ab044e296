// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package abstract

import (
	"net/http"
	"strings"
	"time"

	"github.com/HamBa-m/sci-scraper/internal/source"
)

// shortTextFloor is the minimum length accepted from loose fallbacks that
// tend to pick up navigation snippets instead of abstracts.
const shortTextFloor = 100

const (
	fastTimeout    = 5 * time.Second
	defaultTimeout = 10 * time.Second
	slowTimeout    = 15 * time.Second
)

var googleReferer = http.Header{"Referer": {"https://www.google.com/"}}

func withHeader(extra http.Header) func(string) (string, http.Header, error) {
	return func(url string) (string, http.Header, error) {
		return url, extra, nil
	}
}

func newArxiv(f fetcher) Extractor {
	return &htmlExtractor{
		fetcher: f,
		name:    source.ArXiv,
		timeout: defaultTimeout,
		prepare: func(url string) (string, http.Header, error) {
			return strings.Replace(url, "export.arxiv.org", "arxiv.org", 1), nil, nil
		},
		method: firstOf(
			trimmed("Abstract:", bySelector("blockquote.abstract", 0)),
			byMeta("citation_abstract", "og:description"),
		),
	}
}

func newSpringer(f fetcher) Extractor {
	return &htmlExtractor{
		fetcher: f,
		name:    source.Springer,
		timeout: fastTimeout,
		method: firstOf(
			bySelector("div#Abs1-content", 0),
			byMeta("description"),
			bySelector("div.c-article-section__content", 0),
		),
	}
}

func newMLR(f fetcher) Extractor {
	return &htmlExtractor{
		fetcher: f,
		name:    source.MLR,
		timeout: fastTimeout,
		method: firstOf(
			bySelector("div.abstract, section.abstract, div#abstract", 0),
			byMeta("description"),
			byParagraphPrefix("div#content", "abstract"),
		),
	}
}

func newACM(f fetcher) Extractor {
	return &htmlExtractor{
		fetcher: f,
		name:    source.ACM,
		timeout: slowTimeout,
		prepare: withHeader(http.Header{
			"Referer":       {"https://www.google.com/"},
			"Cache-Control": {"no-cache"},
			"Pragma":        {"no-cache"},
			"Dnt":           {"1"},
		}),
		method: firstOf(
			byJoinedParagraphs("div.article__abstract p, div.abstractSection p, div.abstract p"),
			byClassContains("abstract", shortTextFloor),
			byJSONLD("description"),
			byMeta("description", "citation_abstract"),
		),
	}
}

func newNeurIPS(f fetcher) Extractor {
	return &htmlExtractor{
		fetcher: f,
		name:    source.NeurIPS,
		timeout: slowTimeout,
		method: firstOf(
			bySelector("div.abstract, p.abstract, section#abstract, div.paper-abstract, div#abstract-content", shortTextFloor),
			minLength(shortTextFloor, byJSONLD("description")),
			byHeading(shortTextFloor),
		),
	}
}

func newMDPI(f fetcher) Extractor {
	return &htmlExtractor{
		fetcher: f,
		name:    source.MDPI,
		timeout: slowTimeout,
		prepare: withHeader(googleReferer),
		method: firstOf(
			byJoinedParagraphs("div.art-abstract p"),
			bySelector("div.art-abstract", 0),
			minLength(shortTextFloor, byMeta("citation_abstract")),
			minLength(shortTextFloor, byJSONLD("abstract")),
		),
	}
}

// ojsMethod is the chain for Open Journal Systems article pages.
func ojsMethod(sels ...string) method {
	return firstOf(
		trimmed("Abstract", bySelectors(sels...)),
		minLength(shortTextFloor, byMeta("citation_abstract", "DC.Description", "description")),
		byHeading(shortTextFloor),
	)
}

func newAAAI(f fetcher) Extractor {
	return &htmlExtractor{
		fetcher: f,
		name:    source.AAAI,
		timeout: defaultTimeout,
		method:  ojsMethod("section.item.abstract", "div.item.abstract"),
	}
}

func newJAIR(f fetcher) Extractor {
	return &htmlExtractor{
		fetcher: f,
		name:    source.JAIR,
		timeout: defaultTimeout,
		method:  ojsMethod("section.item.abstract", "div.article-abstract", "div.item.abstract"),
	}
}

func newJMLR(f fetcher) Extractor {
	return &htmlExtractor{
		fetcher: f,
		name:    source.JMLR,
		timeout: defaultTimeout,
		method: firstOf(
			trimmed("Abstract", bySelectors("p.abstract", "div#abstract")),
			byHeading(shortTextFloor),
			minLength(shortTextFloor, byMeta("citation_abstract", "description")),
		),
	}
}

func newIJCAI(f fetcher) Extractor {
	return &htmlExtractor{
		fetcher: f,
		name:    source.IJCAI,
		timeout: defaultTimeout,
		method: firstOf(
			bySelector("div.row div.col-md-12", shortTextFloor),
			byMeta("citation_abstract"),
			byHeading(shortTextFloor),
		),
	}
}
