// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/HamBa-m/sci-scraper/internal/merge"
	"github.com/HamBa-m/sci-scraper/internal/store"
	"github.com/HamBa-m/sci-scraper/pkg/types"
)

// mergeKeys maps --key values to identity keys.
var mergeKeys = map[string]merge.Key{
	"title":             merge.TitleKey,
	"title-year-source": merge.TitleYearSourceKey,
	"fuzzy-title":       merge.FuzzyTitleKey,
}

var mergeCmd = &cobra.Command{
	Use:   "merge FILE...",
	Short: "Merge exported result files and drop duplicates",
	Long: `Merge reads YAML or JSON exports in the order given and keeps the first record
of each paper. Earlier files take priority.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		keyName, _ := cmd.Flags().GetString("key")
		key, ok := mergeKeys[keyName]
		if !ok {
			return fmt.Errorf("unknown merge key %q", keyName)
		}
		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			return fmt.Errorf("--out is required")
		}

		streams := make([][]types.PaperRecord, 0, len(args))
		for _, path := range args {
			recs, err := store.Load(path)
			if err != nil {
				return err
			}
			for i := range recs {
				recs[i] = merge.Normalize(recs[i])
			}
			streams = append(streams, recs)
		}

		merged, removed := merge.Merge(key, streams...)
		if err := store.Export(out, merged); err != nil {
			return err
		}
		fmt.Printf("Merged %d files: %d papers, %d duplicates removed, written to %s\n", len(args), len(merged), removed, out)
		return nil
	},
}

func init() {
	mergeCmd.Flags().String("key", "title", "identity key: title, title-year-source or fuzzy-title")
	mergeCmd.Flags().String("out", "", "output file (.yaml, .json or .csv)")

	rootCmd.AddCommand(mergeCmd)
}
