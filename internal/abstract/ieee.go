// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package abstract

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/HamBa-m/sci-scraper/internal/source"
)

var (
	ieeeDocumentRe = regexp.MustCompile(`/document/(\d+)`)
	ieeeArnumberRe = regexp.MustCompile(`arnumber=(\d+)`)
	ieeeMetadataRe = regexp.MustCompile(`(?s)xplGlobal\.document\.metadata\s*=\s*(\{.*?\});\s*\n`)
)

// ieeeArticleNumber extracts the numeric article id from an IEEE Xplore URL.
func ieeeArticleNumber(url string) (string, bool) {
	if m := ieeeDocumentRe.FindStringSubmatch(url); m != nil {
		return m[1], true
	}
	if m := ieeeArnumberRe.FindStringSubmatch(url); m != nil {
		return m[1], true
	}
	return "", false
}

func newIEEE(f fetcher) Extractor {
	return &htmlExtractor{
		fetcher: f,
		name:    source.IEEE,
		timeout: defaultTimeout,
		prepare: func(url string) (string, http.Header, error) {
			number, ok := ieeeArticleNumber(url)
			if !ok {
				return "", nil, fmt.Errorf("no article number in %s", url)
			}
			return url, http.Header{
				"Accept":          {"application/json, text/plain, */*"},
				"Accept-Language": {"en-US,en;q=0.9"},
				"Origin":          {"https://ieeexplore.ieee.org"},
				"Referer":         {"https://ieeexplore.ieee.org/document/" + number},
			}, nil
		},
		method: firstOf(
			byMeta("og:description"),
			ieeeMetadata,
		),
	}
}

// ieeeMetadata reads the abstract out of the document metadata object that
// IEEE Xplore embeds in an inline script.
func ieeeMetadata(doc *goquery.Document) string {
	var out string
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		body := s.Text()
		if !strings.Contains(body, "xplGlobal.document.metadata") {
			return true
		}
		m := ieeeMetadataRe.FindStringSubmatch(body + "\n")
		if m == nil {
			return true
		}
		var meta struct {
			Abstract string `json:"abstract"`
		}
		if err := json.Unmarshal([]byte(m[1]), &meta); err != nil {
			return true
		}
		out = meta.Abstract
		return out == ""
	})
	return out
}
