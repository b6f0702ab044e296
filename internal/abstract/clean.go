// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package abstract

import (
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	xhtml "golang.org/x/net/html"
)

var (
	strictPolicy = bluemonday.StrictPolicy()
	spaces       = regexp.MustCompile(`\s+`)
)

// cleanText strips any markup left in s, decodes entities, and collapses
// whitespace. Meta tags and JSON-LD blocks often carry HTML fragments.
func cleanText(s string) string {
	if s == "" {
		return ""
	}
	if strings.ContainsAny(s, "<&") {
		s = html.UnescapeString(strictPolicy.Sanitize(s))
	}
	return collapse(s)
}

func collapse(s string) string {
	return strings.TrimSpace(spaces.ReplaceAllString(s, " "))
}

// NodeText returns the text of every node in sel with text nodes joined by
// single spaces. Script and style contents are skipped.
func NodeText(sel *goquery.Selection) string {
	var parts []string
	var walk func(*xhtml.Node)
	walk = func(n *xhtml.Node) {
		switch n.Type {
		case xhtml.TextNode:
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
			return
		case xhtml.ElementNode:
			if n.Data == "script" || n.Data == "style" {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return collapse(strings.Join(parts, " "))
}

func runeLen(s string) int {
	return len([]rune(s))
}
