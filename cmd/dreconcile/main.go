// Package main provides the CLI entry point for dreconcile.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ukaji3/dreconcile-go/internal/config"
	dlog "github.com/ukaji3/dreconcile-go/internal/log"
	"github.com/ukaji3/dreconcile-go/pkg/dreconcile"
)

var (
	configPath string
	sheetName  string
	outputPath string
	pretty     bool

	cfg    *config.Config
	logger *zap.Logger
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dreconcile",
		Short: "Reconcile ledger exports into monthly income statements",
		Long: `dreconcile reads a ledger exported as xlsx, classifies every entry into
the income-statement taxonomy and compares absolute and signed monthly totals.`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (default: $DRE_CONFIG_FILE)")
	rootCmd.PersistentFlags().StringVar(&sheetName, "sheet", "", "Worksheet name (default: first sheet)")
	rootCmd.PersistentFlags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	rootCmd.PersistentFlags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")

	rootCmd.AddCommand(newAnalyzeCmd(), newSheetsCmd(), newExportCmd(), newStoreCmd(), newImportsCmd())
	return rootCmd
}

// setup loads .env, the configuration and the logger before any subcommand.
func setup(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return err
	}

	lc := dlog.DefaultConfig()
	if cfg.Logging.Level != "" {
		lc.Level = cfg.Logging.Level
	}
	if cfg.Logging.Format != "" {
		lc.Format = cfg.Logging.Format
	}
	logger, err = dlog.New(lc)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	return nil
}

func options(pipeline dreconcile.Pipeline) dreconcile.Options {
	return dreconcile.Options{
		Sheet:    sheetName,
		Rules:    cfg.Rules(),
		Pipeline: pipeline,
		Logger:   logger,
	}
}

// writeOutput writes data to --output, or to stdout when unset.
func writeOutput(data []byte) error {
	if outputPath != "" {
		if err := os.WriteFile(outputPath, data, 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	_, err := os.Stdout.Write(data)
	return err
}
