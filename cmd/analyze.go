package main

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/selam-analytics/fidata/internal/analysis"
	"github.com/selam-analytics/fidata/internal/model"
	"github.com/selam-analytics/fidata/internal/store"
)

var (
	analyzeIndicator string
	analyzeGrowth    bool
	analyzeTrends    bool
	analyzeGender    bool
	analyzeEvents    bool
	analyzeThreshold float64
	analyzeLagMonths int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run analyses over the committed dataset",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		analyzer, err := newAnalyzer(ctx, st)
		if err != nil {
			return err
		}

		needsIndicator := analyzeGrowth || analyzeTrends || analyzeEvents
		if needsIndicator && analyzeIndicator == "" {
			return eris.New("analyze: --indicator is required for growth, trend and event analyses")
		}

		ran := false

		if analyzeGrowth {
			ran = true
			printGrowth(analyzer.GrowthRates(analyzeIndicator))
		}
		if analyzeTrends {
			ran = true
			printTrends(analyzer.TrendChanges(analyzeIndicator, analyzeThreshold))
		}
		if analyzeGender {
			ran = true
			printGenderGap(analyzer.GenderGap())
		}
		if analyzeEvents {
			ran = true
			printCorrelations(analyzer.EventCorrelations(analyzeIndicator, analyzeLagMonths))
		}

		if !ran {
			printPillars(analyzer.ComparePillars())
			fmt.Println("\nKey insights:")
			for _, line := range analyzer.KeyInsights() {
				fmt.Printf("  - %s\n", line)
			}
		}
		return nil
	},
}

// newAnalyzer loads the committed dataset and builds an Analyzer over
// it. Events and impact links may be empty; observations may not.
func newAnalyzer(ctx context.Context, st store.Store) (*analysis.Analyzer, error) {
	observations, err := st.ListRecords(ctx, store.RecordFilter{RecordType: model.RecordTypeObservation})
	if err != nil {
		return nil, err
	}
	events, err := st.ListRecords(ctx, store.RecordFilter{RecordType: model.RecordTypeEvent})
	if err != nil {
		return nil, err
	}
	links, err := st.ListImpactLinks(ctx)
	if err != nil {
		return nil, err
	}
	return analysis.New(observations, events, links)
}

func printGrowth(points []analysis.GrowthPoint) {
	if len(points) == 0 {
		fmt.Println("no growth data for indicator")
		return
	}
	fmt.Printf("Growth for %s:\n", analyzeIndicator)
	for _, p := range points {
		if p.GrowthPP == nil {
			fmt.Printf("  %d: %.2f (baseline)\n", p.Year, p.Value)
			continue
		}
		if p.GrowthRate != nil {
			fmt.Printf("  %d: %.2f (%+.1f pp, %+.1f%%)\n", p.Year, p.Value, *p.GrowthPP, *p.GrowthRate)
		} else {
			fmt.Printf("  %d: %.2f (%+.1f pp)\n", p.Year, p.Value, *p.GrowthPP)
		}
	}
}

func printTrends(changes []analysis.TrendChange) {
	if len(changes) == 0 {
		fmt.Println("no trend changes detected")
		return
	}
	for _, c := range changes {
		fmt.Printf("  %d: %s (%.1f pp -> %.1f pp)\n", c.Year, c.Type, c.PreviousGrowth, c.CurrentGrowth)
	}
}

func printGenderGap(points []analysis.GapPoint) {
	if len(points) == 0 {
		fmt.Println("no gender gap indicators in dataset")
		return
	}
	fmt.Println("Gender gap series:")
	for _, p := range points {
		fmt.Printf("  %d %s (%s): %.2f\n", p.Year, p.Indicator, p.IndicatorCode, p.Value)
	}
}

func printCorrelations(correlations []analysis.Correlation) {
	if len(correlations) == 0 {
		fmt.Println("no event correlations found")
		return
	}
	fmt.Printf("Events preceding %s observations:\n", analyzeIndicator)
	for _, c := range correlations {
		fmt.Printf("  %s (%s) -> observation %s, lag %.1f months\n",
			c.Event, c.EventDate.Format("2006-01-02"),
			c.ObservationDate.Format("2006-01-02"), c.LagMonths)
	}
}

func printPillars(stats []analysis.PillarStats) {
	fmt.Println("Pillar coverage:")
	for _, s := range stats {
		fmt.Printf("  %s: %d observations, %d indicators, %d years (%d-%d)\n",
			s.Pillar, s.Observations, s.Indicators, s.YearsCovered, s.FirstYear, s.LastYear)
	}
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeIndicator, "indicator", "", "indicator code to analyze")
	analyzeCmd.Flags().BoolVar(&analyzeGrowth, "growth", false, "year-over-year growth for the indicator")
	analyzeCmd.Flags().BoolVar(&analyzeTrends, "trends", false, "detect growth slowdowns for the indicator")
	analyzeCmd.Flags().BoolVar(&analyzeGender, "gender", false, "gender gap series")
	analyzeCmd.Flags().BoolVar(&analyzeEvents, "events", false, "events preceding the indicator's observations")
	analyzeCmd.Flags().Float64Var(&analyzeThreshold, "threshold", 2.0, "slowdown threshold in percentage points")
	analyzeCmd.Flags().IntVar(&analyzeLagMonths, "lag-months", 12, "event correlation window in months")
	rootCmd.AddCommand(analyzeCmd)
}
