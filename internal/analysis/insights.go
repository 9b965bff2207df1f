package analysis

import (
	"fmt"

	"github.com/selam-analytics/fidata/internal/model"
)

// recencyYear splits "recent" from historical data in the insight
// summary. The dataset's collection push started here.
const recencyYear = 2024

// KeyInsights generates a short plain-language summary of the dataset:
// temporal coverage, recency, pillar concentration, confidence mix, and
// event coverage.
func (a *Analyzer) KeyInsights() []string {
	var insights []string

	minYear, maxYear := 0, 0
	recent := 0
	for _, rec := range a.observations {
		y := rec.Year()
		if y == 0 {
			continue
		}
		if minYear == 0 || y < minYear {
			minYear = y
		}
		if y > maxYear {
			maxYear = y
		}
		if y >= recencyYear {
			recent++
		}
	}
	if minYear != 0 {
		insights = append(insights, fmt.Sprintf(
			"Dataset spans %d years (%d-%d)", maxYear-minYear+1, minYear, maxYear))
		insights = append(insights, fmt.Sprintf(
			"%.1f%% of observations are from %d onwards",
			float64(recent)/float64(len(a.observations))*100, recencyYear))
	}

	if stats := a.ComparePillars(); len(stats) > 0 {
		top := stats[0]
		for _, s := range stats[1:] {
			if s.Observations > top.Observations {
				top = s
			}
		}
		insights = append(insights, fmt.Sprintf(
			"%s pillar has the most data (%d observations)", top.Pillar, top.Observations))
	}

	highConf := 0
	for _, rec := range a.observations {
		if rec.Confidence == model.ConfidenceHigh {
			highConf++
		}
	}
	insights = append(insights, fmt.Sprintf(
		"%.1f%% of observations have high confidence",
		float64(highConf)/float64(len(a.observations))*100))

	if len(a.events) > 0 {
		categories := map[string]bool{}
		for _, e := range a.events {
			if e.Category != "" {
				categories[e.Category] = true
			}
		}
		insights = append(insights, fmt.Sprintf(
			"%d events documented across %d categories", len(a.events), len(categories)))
	}

	return insights
}
