package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/selam-analytics/fidata/internal/rules"
)

var (
	logLimit int
	logGuide bool
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show recent enrichment-log entries or the enrichment guide",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if logGuide {
			rs, err := loadRules()
			if err != nil {
				return err
			}
			printEnrichmentGuide(rs)
			return nil
		}

		ctx := cmd.Context()
		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		entries, err := st.ListLog(ctx, logLimit)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("enrichment log is empty")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TIMESTAMP\tRECORD\tACTION\tSTATUS\tBY\tNOTES")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				e.Timestamp.Format("2006-01-02 15:04:05"),
				e.RecordID, e.Action, e.ValidationStatus, e.EnrichedBy, e.Notes)
		}
		return w.Flush()
	},
}

// printEnrichmentGuide renders the contribution rules an analyst needs
// before submitting a batch: required columns, pillar rules, and
// record-type semantics.
func printEnrichmentGuide(rs *rules.Set) {
	rule := strings.Repeat("=", 80)

	fmt.Println(rule)
	fmt.Println("DATA ENRICHMENT LOG STRUCTURE")
	fmt.Println(rule)
	fmt.Println("\nRequired Columns for New Records:")
	for _, col := range []string{
		"record_id", "record_type", "indicator", "indicator_code",
		"value_type", "observation_date", "source_name", "confidence",
	} {
		fmt.Printf("  - %s\n", col)
	}

	fmt.Println("\n" + rule)
	fmt.Println("PILLAR RULES")
	fmt.Println(rule)
	for _, pillar := range rs.Pillars() {
		r, _ := rs.Lookup(pillar)
		fmt.Printf("\n%s: %s\n", pillar, r.Description)
		fmt.Printf("  Valid value types: %v\n", r.ValueTypes)
		n := len(r.Indicators)
		if n > 3 {
			n = 3
		}
		fmt.Printf("  Example indicators: %v\n", r.Indicators[:n])
	}

	fmt.Println("\n" + rule)
	fmt.Println("RECORD TYPE SEMANTICS")
	fmt.Println(rule)
	fmt.Println("\nOBSERVATION:")
	fmt.Println("  - MUST have: pillar, value (numeric or text), gender, location")
	fmt.Println("  - MUST NOT have: category")
	fmt.Println("  - Represents actual data points and measurements")
	fmt.Println("\nEVENT:")
	fmt.Println("  - MUST have: category, observation_date, value_text")
	fmt.Println("  - MUST NOT have: pillar, value_numeric")
	fmt.Println("  - Represents discrete occurrences (launches, policy changes)")
	fmt.Println("\nTARGET:")
	fmt.Println("  - MUST have: pillar, value_numeric, future observation_date")
	fmt.Println("  - Represents policy goals or forecasts")
	fmt.Println(rule)
}

func init() {
	logCmd.Flags().IntVar(&logLimit, "limit", 20, "maximum entries to show, newest first")
	logCmd.Flags().BoolVar(&logGuide, "guide", false, "print the enrichment guide instead of log entries")
	rootCmd.AddCommand(logCmd)
}
