// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/HamBa-m/sci-scraper/internal/merge"
	"github.com/HamBa-m/sci-scraper/internal/scholar"
	"github.com/HamBa-m/sci-scraper/internal/store"
	"github.com/HamBa-m/sci-scraper/internal/venue"
)

var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Run the Scholar and venue crawls together and merge the results",
	Long: `All runs the Scholar crawl and the venue crawl concurrently. When both have
finished the records are merged by title, keeping the Scholar record when a
paper was found by both.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		applyScholarFlags(cmd, &cfg.Scholar)
		applyVenueFlags(cmd, &cfg.Venues)
		applyStoreFlags(cmd, &cfg.Store)
		query, _ := cmd.Flags().GetString("query")
		only, _ := cmd.Flags().GetStringSlice("only")
		path, _ := cmd.Flags().GetString("out")

		sink, closeSink, err := openSink(cmd.Context(), cfg.Store, "all")
		if err != nil {
			return err
		}
		defer closeSink()

		var (
			scholarOut scholar.Output
			venueOut   venue.Output
		)
		g, ctx := errgroup.WithContext(cmd.Context())
		g.Go(func() error {
			var err error
			scholarOut, err = runScholar(ctx, cfg.Scholar, scholar.Query{Text: query, Pages: cfg.Scholar.Pages}, sink)
			return err
		})
		g.Go(func() error {
			var err error
			venueOut, err = runVenues(ctx, cfg.Venues, only, sink)
			return err
		})
		if err := g.Wait(); err != nil {
			// Without a database the partial records only live in memory.
			if mem, ok := sink.(*store.MemorySink); ok && mem.Len() > 0 {
				logger.WithError(err).Warn("crawl interrupted, writing partial results")
				if werr := writeResults(os.Stdout, cfg.Store, "all", path, mem.Records()); werr != nil {
					return werr
				}
			}
			return err
		}

		for _, pe := range scholarOut.PageErrors {
			fmt.Fprintf(os.Stderr, "warning: scholar %v\n", pe)
		}
		for _, je := range venueOut.JobErrors {
			fmt.Fprintf(os.Stderr, "warning: job %v\n", je)
		}

		merged, removed := merge.Merge(merge.TitleKey, scholarOut.Records, venueOut.Records)
		logger.WithField("duplicates", removed).Info("merged results")

		return writeResults(os.Stdout, cfg.Store, "all", path, merged)
	},
}

func init() {
	addScholarFlags(allCmd.Flags())
	addVenueFlags(allCmd.Flags())
	addHTTPFlags(allCmd.Flags())
	addOutputFlags(allCmd.Flags())

	rootCmd.AddCommand(allCmd)
}
