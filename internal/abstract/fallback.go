// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package abstract

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// method is one step of a fallback chain. It returns the empty string when
// it finds nothing.
type method func(doc *goquery.Document) string

// firstOf runs methods in order and returns the first non-empty result.
func firstOf(methods ...method) method {
	return func(doc *goquery.Document) string {
		for _, m := range methods {
			if text := collapse(m(doc)); text != "" {
				return text
			}
		}
		return ""
	}
}

// minLength drops results of m shorter than n runes.
func minLength(n int, m method) method {
	return func(doc *goquery.Document) string {
		text := collapse(m(doc))
		if runeLen(text) < n {
			return ""
		}
		return text
	}
}

// bySelector returns the text of the first element matching sel whose text
// has at least minLen runes.
func bySelector(sel string, minLen int) method {
	return func(doc *goquery.Document) string {
		var out string
		doc.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			text := NodeText(s)
			if text != "" && runeLen(text) >= minLen {
				out = text
				return false
			}
			return true
		})
		return out
	}
}

// bySelectors tries each selector in turn and returns the text of the
// first one present in the page.
func bySelectors(sels ...string) method {
	return func(doc *goquery.Document) string {
		for _, sel := range sels {
			if s := doc.Find(sel).First(); s.Length() > 0 {
				if text := NodeText(s); text != "" {
					return text
				}
			}
		}
		return ""
	}
}

// byJoinedParagraphs joins the text of every element matching sel.
func byJoinedParagraphs(sel string) method {
	return func(doc *goquery.Document) string {
		var parts []string
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			if text := NodeText(s); text != "" {
				parts = append(parts, text)
			}
		})
		return strings.Join(parts, " ")
	}
}

// byMeta returns the content of the first meta tag whose name or property
// is one of names, in the order given.
func byMeta(names ...string) method {
	return func(doc *goquery.Document) string {
		for _, name := range names {
			for _, attr := range []string{"name", "property"} {
				content, ok := doc.Find(`meta[` + attr + `="` + name + `"]`).First().Attr("content")
				if ok && strings.TrimSpace(content) != "" {
					return content
				}
			}
		}
		return ""
	}
}

// byJSONLD returns the first string value under one of keys in the page's
// JSON-LD blocks. Malformed blocks are skipped.
func byJSONLD(keys ...string) method {
	return func(doc *goquery.Document) string {
		var out string
		doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			var data any
			if err := json.Unmarshal([]byte(s.Text()), &data); err != nil {
				return true
			}
			out = jsonLDValue(data, keys)
			return out == ""
		})
		return out
	}
}

func jsonLDValue(data any, keys []string) string {
	switch v := data.(type) {
	case map[string]any:
		for _, k := range keys {
			if s, ok := v[k].(string); ok && strings.TrimSpace(s) != "" {
				return s
			}
		}
		if graph, ok := v["@graph"].([]any); ok {
			return jsonLDValue(graph, keys)
		}
	case []any:
		for _, item := range v {
			if s := jsonLDValue(item, keys); s != "" {
				return s
			}
		}
	}
	return ""
}

// byHeading finds h1-h4 headings mentioning "abstract" and returns the
// text of the first p or div that follows each one in document order,
// provided it has at least minLen runes.
func byHeading(minLen int) method {
	return func(doc *goquery.Document) string {
		var out string
		pending := false
		doc.Find("h1, h2, h3, h4, p, div").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			switch goquery.NodeName(s) {
			case "h1", "h2", "h3", "h4":
				pending = strings.Contains(strings.ToLower(s.Text()), "abstract")
				return true
			}
			if !pending {
				return true
			}
			pending = false
			if text := NodeText(s); runeLen(text) >= minLen {
				out = text
				return false
			}
			return true
		})
		return out
	}
}

// byClassContains returns the first div or p whose class attribute
// contains substr (case-insensitively) and whose text has more than
// minLen runes.
func byClassContains(substr string, minLen int) method {
	substr = strings.ToLower(substr)
	return func(doc *goquery.Document) string {
		var out string
		doc.Find("div[class], p[class]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			class, _ := s.Attr("class")
			if !strings.Contains(strings.ToLower(class), substr) {
				return true
			}
			if text := NodeText(s); runeLen(text) > minLen {
				out = text
				return false
			}
			return true
		})
		return out
	}
}

// byParagraphPrefix returns the first paragraph inside container whose
// opening characters mention prefix.
func byParagraphPrefix(container, prefix string) method {
	return func(doc *goquery.Document) string {
		var out string
		doc.Find(container).First().Find("p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			text := NodeText(s)
			head := []rune(strings.ToLower(text))
			if len(head) > 20 {
				head = head[:20]
			}
			if strings.Contains(string(head), prefix) {
				out = text
				return false
			}
			return true
		})
		return out
	}
}

// trimPrefixFold removes a leading label such as "Abstract:" from text.
func trimPrefixFold(text, prefix string) string {
	text = strings.TrimSpace(text)
	if len(text) >= len(prefix) && strings.EqualFold(text[:len(prefix)], prefix) {
		return strings.TrimSpace(text[len(prefix):])
	}
	return text
}

// trimmed wraps m and removes prefix from its result.
func trimmed(prefix string, m method) method {
	return func(doc *goquery.Document) string {
		return trimPrefixFold(m(doc), prefix)
	}
}
