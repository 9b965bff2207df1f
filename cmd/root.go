package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/selam-analytics/fidata/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "fidata",
	Short: "Financial-inclusion data validation and enrichment",
	Long:  "Validates candidate financial-inclusion records against the dataset schema and pillar rules, commits accepted batches, and maintains the append-only enrichment log.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
