// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var venuesCmd = &cobra.Command{
	Use:   "venues",
	Short: "Crawl conference proceedings for relevant papers",
	Long: `Venues crawls the proceedings of each configured conference for every year
in the range. Each (venue, year) pair runs as an independent job on a bounded
worker pool; a failing job is reported and never stops the others. Papers are
kept when their title and abstract match the keyword relevance policy.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		applyVenueFlags(cmd, &cfg.Venues)
		applyStoreFlags(cmd, &cfg.Store)
		only, _ := cmd.Flags().GetStringSlice("only")

		sink, closeSink, err := openSink(cmd.Context(), cfg.Store, "venues")
		if err != nil {
			return err
		}
		defer closeSink()

		out, err := runVenues(cmd.Context(), cfg.Venues, only, sink)
		if err != nil {
			return err
		}
		for _, je := range out.JobErrors {
			fmt.Fprintf(os.Stderr, "warning: job %v\n", je)
		}
		for _, j := range out.Skipped {
			fmt.Fprintf(os.Stderr, "skipped: %s\n", j)
		}

		path, _ := cmd.Flags().GetString("out")
		return writeResults(os.Stdout, cfg.Store, "venues", path, out.Records)
	},
}

func init() {
	addVenueFlags(venuesCmd.Flags())
	addHTTPFlags(venuesCmd.Flags())
	addOutputFlags(venuesCmd.Flags())

	rootCmd.AddCommand(venuesCmd)
}
