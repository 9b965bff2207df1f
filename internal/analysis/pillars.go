package analysis

import (
	"sort"

	"github.com/selam-analytics/fidata/internal/model"
)

// PillarStats summarizes one pillar's coverage in the dataset.
type PillarStats struct {
	Pillar       model.Pillar `json:"pillar"`
	Observations int          `json:"observations"`
	Indicators   int          `json:"indicators"`
	YearsCovered int          `json:"years_covered"`
	FirstYear    int          `json:"first_year"`
	LastYear     int          `json:"last_year"`
}

// ComparePillars summarizes observation coverage per pillar, sorted by
// pillar name for stable output.
func (a *Analyzer) ComparePillars() []PillarStats {
	type acc struct {
		count      int
		indicators map[string]bool
		years      map[int]bool
	}
	byPillar := map[model.Pillar]*acc{}

	for _, rec := range a.observations {
		if !rec.HasPillar() {
			continue
		}
		p := byPillar[rec.Pillar]
		if p == nil {
			p = &acc{indicators: map[string]bool{}, years: map[int]bool{}}
			byPillar[rec.Pillar] = p
		}
		p.count++
		if rec.IndicatorCode != "" {
			p.indicators[rec.IndicatorCode] = true
		}
		if y := rec.Year(); y != 0 {
			p.years[y] = true
		}
	}

	stats := make([]PillarStats, 0, len(byPillar))
	for pillar, p := range byPillar {
		s := PillarStats{
			Pillar:       pillar,
			Observations: p.count,
			Indicators:   len(p.indicators),
			YearsCovered: len(p.years),
		}
		for y := range p.years {
			if s.FirstYear == 0 || y < s.FirstYear {
				s.FirstYear = y
			}
			if y > s.LastYear {
				s.LastYear = y
			}
		}
		stats = append(stats, s)
	}

	sort.Slice(stats, func(i, j int) bool { return stats[i].Pillar < stats[j].Pillar })
	return stats
}
