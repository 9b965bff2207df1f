package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/selam-analytics/fidata/internal/model"
	"github.com/selam-analytics/fidata/internal/store"
)

var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Summarize the committed dataset by record type and pillar",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		records, err := st.ListRecords(ctx, store.RecordFilter{})
		if err != nil {
			return err
		}
		links, err := st.ListImpactLinks(ctx)
		if err != nil {
			return err
		}

		byType := map[model.RecordType]int{}
		for _, rec := range records {
			byType[rec.RecordType]++
		}
		fmt.Printf("Records: %d (%d observations, %d events, %d targets), %d impact links\n",
			len(records),
			byType[model.RecordTypeObservation],
			byType[model.RecordTypeEvent],
			byType[model.RecordTypeTarget],
			len(links))

		if byType[model.RecordTypeObservation] == 0 {
			return nil
		}

		analyzer, err := newAnalyzer(ctx, st)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "\nPILLAR\tOBSERVATIONS\tINDICATORS\tYEARS\tRANGE")
		for _, s := range analyzer.ComparePillars() {
			fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d-%d\n",
				s.Pillar, s.Observations, s.Indicators, s.YearsCovered, s.FirstYear, s.LastYear)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(datasetCmd)
}
