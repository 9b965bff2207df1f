package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/selam-analytics/fidata/internal/enrich"
	"github.com/selam-analytics/fidata/internal/loader"
	"github.com/selam-analytics/fidata/internal/validate"
)

var (
	importWorkbook  string
	importReference string
	importBy        string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Load the curated unified workbook into the store",
	Long:  "Validates the full unified workbook (records plus impact links) and commits it through the enrichment workflow, so the initial load leaves the same audit trail as any later batch.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		workbook := importWorkbook
		if workbook == "" {
			workbook = cfg.Data.Workbook
		}
		reference := importReference
		if reference == "" {
			reference = cfg.Data.Reference
		}

		ds, err := loader.LoadWorkbooks(ctx, workbook, reference)
		if err != nil {
			return err
		}
		if len(ds.Reference) > 0 {
			zap.L().Info("reference codes loaded", zap.Int("codes", len(ds.Reference)))
		}

		rs, err := loadRules()
		if err != nil {
			return err
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		analyst := importBy
		if analyst == "" {
			analyst = cfg.Enrich.DefaultAnalyst
		}

		enricher := enrich.New(st, validate.New(rs))
		result, err := enricher.Enrich(ctx, enrich.Batch{Records: ds.Records, Links: ds.Links},
			analyst, "initial dataset load")
		if err != nil {
			return err
		}

		fmt.Print(result.Report.Render())
		if !result.Committed {
			fmt.Printf("\nWorkbook rejected; %d log entries recorded\n", result.LogEntries)
			return eris.New("import: workbook failed validation")
		}

		fmt.Printf("\nImported %d records and %d impact links\n", result.RecordsAdded, result.LinksAdded)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importWorkbook, "workbook", "", "unified data workbook (default from config)")
	importCmd.Flags().StringVar(&importReference, "reference", "", "reference codes workbook (default from config)")
	importCmd.Flags().StringVar(&importBy, "by", "", "analyst recorded in the enrichment log")
	rootCmd.AddCommand(importCmd)
}
