// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the records and configuration shared by the
// sci-scraper crawl pipeline: paper records, venue descriptions, keyword
// concept sets, and per-stage settings.
package types

import (
	"regexp"
	"strings"
)

// Placeholder values used when a field cannot be parsed from a page.
const (
	NoTitle      = "No title"
	NoLink       = "No link"
	NoCitation   = "No citation"
	TitleUnknown = "N/A"
)

// AbstractStatus records how the abstract of a record was obtained.
type AbstractStatus string

const (
	AbstractFound    AbstractStatus = "found"
	AbstractNotFound AbstractStatus = "not_found"

	// AbstractExtendedSkipped marks short-form papers whose first page
	// announces an "Extended Abstract"; no extraction is attempted.
	AbstractExtendedSkipped AbstractStatus = "extended_abstract_skipped"
)

// PaperRecord is the canonical unit of output of both crawlers.
//
// Title and URL are always set, possibly to a placeholder. Abstract is nil
// exactly when no extraction strategy succeeded. Year, when set, is a
// four-digit year taken from citation text or a URL path.
type PaperRecord struct {
	Title    string  `json:"title" yaml:"title"`
	URL      string  `json:"url" yaml:"url"`
	Abstract *string `json:"abstract" yaml:"abstract"`
	Source   string  `json:"source" yaml:"source"`
	Year     *int    `json:"year,omitempty" yaml:"year,omitempty"`

	// Citation is the raw citation blurb shown by the search engine.
	// Only the Scholar pipeline fills it.
	Citation string `json:"citation,omitempty" yaml:"citation,omitempty"`

	AbstractStatus AbstractStatus `json:"abstract_status,omitempty" yaml:"abstract_status,omitempty"`

	// Classifications holds labels added by an external classifier. The
	// crawl pipeline never reads them.
	Classifications map[string]string `json:"classifications,omitempty" yaml:"classifications,omitempty"`
}

// HasAbstract reports whether an abstract was extracted.
func (r PaperRecord) HasAbstract() bool {
	return r.Abstract != nil
}

// AbstractText returns the abstract or the empty string.
func (r PaperRecord) AbstractText() string {
	if r.Abstract == nil {
		return ""
	}
	return *r.Abstract
}

// SetAbstract stores text as the abstract and marks it found. Empty text
// clears the abstract.
func (r *PaperRecord) SetAbstract(text string) {
	if text == "" {
		r.Abstract = nil
		r.AbstractStatus = AbstractNotFound
		return
	}
	r.Abstract = &text
	r.AbstractStatus = AbstractFound
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

var (
	carriageEntity = regexp.MustCompile(`_x000D_`)
	whitespace     = regexp.MustCompile(`\s+`)
)

// CleanTitle removes spreadsheet carriage-return entities and collapses
// whitespace.
func CleanTitle(title string) string {
	title = carriageEntity.ReplaceAllString(title, "")
	title = whitespace.ReplaceAllString(title, " ")
	return strings.TrimSpace(title)
}
