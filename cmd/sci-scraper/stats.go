// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/HamBa-m/sci-scraper/internal/store"
	"github.com/HamBa-m/sci-scraper/pkg/types"
)

var statsCmd = &cobra.Command{
	Use:   "stats [FILE]",
	Short: "Print abstract coverage statistics",
	Long: `Stats reports how many papers have an abstract, overall and per source. It
reads an exported YAML or JSON file, or a run recorded in the database given by
--db. With --db and no --run it lists the recorded runs.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, _ := cmd.Flags().GetString("db")
		runID, _ := cmd.Flags().GetString("run")

		var recs []types.PaperRecord
		switch {
		case len(args) == 1:
			loaded, err := store.Load(args[0])
			if err != nil {
				return err
			}
			recs = loaded
		case dbPath != "":
			db, err := store.OpenSQLite(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			if runID == "" {
				runs, err := db.Runs(cmd.Context())
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "RUN\tMODE\tSTARTED\tPAPERS")
				for _, r := range runs {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", r.ID, r.Mode, r.StartedAt.Format("2006-01-02 15:04:05"), r.Papers)
				}
				return tw.Flush()
			}
			loaded, err := db.Records(cmd.Context(), runID)
			if err != nil {
				return err
			}
			recs = loaded
		default:
			return fmt.Errorf("provide a results file or --db")
		}

		return store.FormatStats(os.Stdout, store.Stats(recs))
	},
}

func init() {
	statsCmd.Flags().String("db", "", "SQLite database of recorded runs")
	statsCmd.Flags().String("run", "", "run identifier within --db")

	rootCmd.AddCommand(statsCmd)
}
