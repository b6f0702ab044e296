// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/HamBa-m/sci-scraper/internal/scholar"
)

var scholarCmd = &cobra.Command{
	Use:   "scholar",
	Short: "Crawl Google Scholar results and fetch their abstracts",
	Long: `Scholar walks the result pages of a Google Scholar search. For each result it
detects the publisher from the link and fetches the abstract with the matching
extractor. Records are persisted as they are found when --db is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		applyScholarFlags(cmd, &cfg.Scholar)
		applyStoreFlags(cmd, &cfg.Store)
		query, _ := cmd.Flags().GetString("query")

		sink, closeSink, err := openSink(cmd.Context(), cfg.Store, "scholar")
		if err != nil {
			return err
		}
		defer closeSink()

		out, err := runScholar(cmd.Context(), cfg.Scholar, scholar.Query{Text: query, Pages: cfg.Scholar.Pages}, sink)
		if err != nil && len(out.Records) == 0 {
			return err
		}
		for _, pe := range out.PageErrors {
			fmt.Fprintf(os.Stderr, "warning: %v\n", pe)
		}

		path, _ := cmd.Flags().GetString("out")
		if werr := writeResults(os.Stdout, cfg.Store, "scholar", path, out.Records); werr != nil {
			return werr
		}
		return err
	},
}

func init() {
	addScholarFlags(scholarCmd.Flags())
	addHTTPFlags(scholarCmd.Flags())
	addOutputFlags(scholarCmd.Flags())

	rootCmd.AddCommand(scholarCmd)
}
