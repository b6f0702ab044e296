// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/HamBa-m/sci-scraper/internal/relevance"
	"github.com/HamBa-m/sci-scraper/pkg/types"
)

var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "Show the keyword concept sets and relevance policy of a venue crawl",
	Long: `Keywords prints the concept sets the venue crawl matches titles and abstracts
against, after applying the --keywords file, together with the selected policy.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		applyVenueFlags(cmd, &cfg.Venues)
		return printConcepts(os.Stdout, cfg.Venues)
	},
}

// printConcepts writes the policy and the concept sets of cfg to w. An
// unknown policy is an error.
func printConcepts(w io.Writer, cfg types.VenueCrawlConfig) error {
	concepts, err := relevance.LoadConcepts(cfg.KeywordsFile)
	if err != nil {
		return err
	}
	if _, err := relevance.NewPolicy(cfg.Policy, concepts); err != nil {
		return err
	}
	policy := cfg.Policy
	if policy == "" {
		policy = types.PolicyWeighted
	}

	fmt.Fprintf(w, "Policy: %s\n\n", policy)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CONCEPT\tTOKENS")
	for _, set := range concepts.Sets() {
		fmt.Fprintf(tw, "%s\t%s\n", set.Name, strings.Join(set.Tokens, ", "))
	}
	return tw.Flush()
}

func init() {
	keywordsCmd.Flags().String("keywords", "", "keyword concept sets YAML (default: built-in concepts)")
	keywordsCmd.Flags().String("policy", string(types.PolicyWeighted), "relevance policy: weighted or all-groups")

	rootCmd.AddCommand(keywordsCmd)
}
