// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the sci-scraper CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/HamBa-m/sci-scraper/internal/logging"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is configured from the persistent flags before any command runs.
var logger logrus.FieldLogger = logging.Discard()

// rootCmd is the base command for the sci-scraper CLI.
var rootCmd = &cobra.Command{
	Use:   "sci-scraper",
	Short: "Harvest paper titles and abstracts from Scholar and conference proceedings",
	Long: `sci-scraper collects academic paper metadata. The scholar command walks
Google Scholar result pages and fetches each abstract from the publisher page;
the venues command crawls conference proceedings year by year and keeps the
papers that match the keyword relevance policy. Results are written as YAML,
JSON or CSV and can be recorded in a SQLite database.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetString("log-level")
		asJSON, _ := cmd.Flags().GetBool("log-json")
		l, err := logging.New(os.Stderr, level, asJSON)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./sci-scraper.yaml or ~/.config/sci-scraper/sci-scraper.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Bool("log-json", false, "log as JSON")
}

func initConfig() {
	setDefaults()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("sci-scraper")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "sci-scraper"))
		}
	}

	viper.SetEnvPrefix("SCI_SCRAPER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
