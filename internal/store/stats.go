// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/HamBa-m/sci-scraper/pkg/types"
)

// SourceStats counts records of one source.
type SourceStats struct {
	Source       string
	WithAbstract int
	Total        int
}

// Rate returns the share of records with an abstract, in percent.
func (s SourceStats) Rate() float64 {
	return percent(s.WithAbstract, s.Total)
}

// Summary holds abstract coverage over a record set.
type Summary struct {
	Total        int
	WithAbstract int
	Skipped      int

	// Sources is sorted by Total descending, then by name.
	Sources []SourceStats
}

// Rate returns the overall share of records with an abstract, in percent.
func (s Summary) Rate() float64 {
	return percent(s.WithAbstract, s.Total)
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

// Stats summarizes recs.
func Stats(recs []types.PaperRecord) Summary {
	var sum Summary
	bySource := make(map[string]*SourceStats)
	for _, r := range recs {
		sum.Total++
		ss, ok := bySource[r.Source]
		if !ok {
			ss = &SourceStats{Source: r.Source}
			bySource[r.Source] = ss
		}
		ss.Total++
		if r.HasAbstract() {
			sum.WithAbstract++
			ss.WithAbstract++
		}
		if r.AbstractStatus == types.AbstractExtendedSkipped {
			sum.Skipped++
		}
	}

	for _, ss := range bySource {
		sum.Sources = append(sum.Sources, *ss)
	}
	sort.Slice(sum.Sources, func(i, j int) bool {
		a, b := sum.Sources[i], sum.Sources[j]
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		return a.Source < b.Source
	})
	return sum
}

// FormatStats writes a human-readable report of s.
func FormatStats(w io.Writer, s Summary) error {
	fmt.Fprintf(w, "Total papers:          %d\n", s.Total)
	fmt.Fprintf(w, "Papers with abstracts: %d\n", s.WithAbstract)
	if s.Skipped > 0 {
		fmt.Fprintf(w, "Extended abstracts:    %d\n", s.Skipped)
	}
	fmt.Fprintf(w, "Success rate:          %.1f%%\n", s.Rate())
	if len(s.Sources) == 0 {
		return nil
	}

	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SOURCE\tWITH ABSTRACT\tTOTAL\tRATE")
	for _, ss := range s.Sources {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.1f%%\n", ss.Source, ss.WithAbstract, ss.Total, ss.Rate())
	}
	return tw.Flush()
}
