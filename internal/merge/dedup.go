// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package merge combines record streams from the crawlers and removes
// duplicates by identity key.
package merge

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/HamBa-m/sci-scraper/pkg/types"
)

// Key computes the identity key of a record.
type Key func(types.PaperRecord) string

// TitleKey identifies records by title alone. Scholar records carry no
// reliable year, so cross-pipeline merges use this key.
func TitleKey(r types.PaperRecord) string {
	return types.CleanTitle(r.Title)
}

// TitleYearSourceKey identifies records by (title, year, source).
func TitleYearSourceKey(r types.PaperRecord) string {
	year := ""
	if r.Year != nil {
		year = strconv.Itoa(*r.Year)
	}
	return types.CleanTitle(r.Title) + "\x00" + year + "\x00" + r.Source
}

// FuzzyTitleKey identifies records by a normalized title: lower-cased,
// punctuation removed, and whitespace collapsed.
func FuzzyTitleKey(r types.PaperRecord) string {
	return normalizeTitle(r.Title)
}

func normalizeTitle(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Dedup keeps the first record seen for each key and returns the kept
// records in their original order with the number removed.
func Dedup(records []types.PaperRecord, key Key) ([]types.PaperRecord, int) {
	seen := make(map[string]bool, len(records))
	kept := make([]types.PaperRecord, 0, len(records))
	for _, r := range records {
		k := key(r)
		if seen[k] {
			continue
		}
		seen[k] = true
		kept = append(kept, r)
	}
	return kept, len(records) - len(kept)
}

// Merge concatenates streams in priority order, normalizes each record, and
// removes duplicates so that the earliest stream wins.
func Merge(key Key, streams ...[]types.PaperRecord) ([]types.PaperRecord, int) {
	var all []types.PaperRecord
	for _, s := range streams {
		for _, r := range s {
			all = append(all, Normalize(r))
		}
	}
	return Dedup(all, key)
}

// Normalize cleans the title and fills the placeholder fields so records
// from every pipeline share one shape.
func Normalize(r types.PaperRecord) types.PaperRecord {
	r.Title = types.CleanTitle(r.Title)
	if r.Title == "" {
		r.Title = types.TitleUnknown
	}
	if r.URL == "" {
		r.URL = types.NoLink
	}
	if r.Abstract != nil && strings.TrimSpace(*r.Abstract) == "" {
		r.Abstract = nil
	}
	if r.AbstractStatus == "" {
		if r.Abstract != nil {
			r.AbstractStatus = types.AbstractFound
		} else {
			r.AbstractStatus = types.AbstractNotFound
		}
	}
	return r
}
