package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/selam-analytics/fidata/internal/validate"
)

var (
	validateInput string
	validateSheet string
	validateJSON  bool
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a candidate record batch without committing it",
	RunE: func(_ *cobra.Command, _ []string) error {
		records, _, err := loadBatch(validateInput, validateSheet)
		if err != nil {
			return eris.Wrap(err, "load batch")
		}

		rs, err := loadRules()
		if err != nil {
			return err
		}

		report, err := validate.New(rs).ValidateAll(records)
		if err != nil {
			return err
		}

		if validateJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return eris.Wrap(err, "encode report")
			}
		} else {
			fmt.Print(report.Render())
		}

		if !report.AllValid {
			// Distinguish dirty data from operational failure for shell callers.
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVar(&validateInput, "input", "", "path to XLSX or CSV batch (required)")
	validateCmd.Flags().StringVar(&validateSheet, "sheet", "", "worksheet name (XLSX only, default first sheet)")
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "emit the report as JSON")
	_ = validateCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(validateCmd)
}
