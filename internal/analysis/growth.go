package analysis

import (
	"go.uber.org/zap"
)

// GrowthPoint is one year of an indicator series with its year-over-year
// change. GrowthRate and GrowthPP are nil on the first point.
type GrowthPoint struct {
	Year       int      `json:"year"`
	Value      float64  `json:"value"`
	GrowthRate *float64 `json:"growth_rate,omitempty"` // percent change
	GrowthPP   *float64 `json:"growth_pp,omitempty"`   // percentage-point delta
}

// TrendChange marks a year where growth slowed below the threshold
// after exceeding it the year before.
type TrendChange struct {
	Year           int     `json:"year"`
	Type           string  `json:"type"`
	PreviousGrowth float64 `json:"previous_growth"`
	CurrentGrowth  float64 `json:"current_growth"`
}

// GrowthRates computes year-over-year growth for an indicator. Series
// with fewer than two numeric points yield nil with a warning; that is
// an empty answer, not an error.
func (a *Analyzer) GrowthRates(indicatorCode string) []GrowthPoint {
	if indicatorCode == "" {
		zap.L().Warn("empty indicator code for growth analysis")
		return nil
	}

	series := a.byIndicator(indicatorCode)
	if len(series) < 2 {
		zap.L().Warn("insufficient data for growth analysis",
			zap.String("indicator_code", indicatorCode),
			zap.Int("points", len(series)),
		)
		return nil
	}

	points := make([]GrowthPoint, 0, len(series))
	for i, rec := range series {
		p := GrowthPoint{Year: rec.Year(), Value: *rec.ValueNumeric}
		if i > 0 {
			prev := *series[i-1].ValueNumeric
			pp := p.Value - prev
			p.GrowthPP = &pp
			if prev != 0 {
				rate := pp / prev * 100
				p.GrowthRate = &rate
			}
		}
		points = append(points, p)
	}
	return points
}

// TrendChanges finds slowdowns: years where the percentage-point change
// drops below threshold after the previous year met or exceeded it.
func (a *Analyzer) TrendChanges(indicatorCode string, threshold float64) []TrendChange {
	growth := a.GrowthRates(indicatorCode)
	if len(growth) == 0 {
		return nil
	}

	var changes []TrendChange
	for i := 1; i < len(growth); i++ {
		cur, prev := growth[i], growth[i-1]
		if cur.GrowthPP == nil || prev.GrowthPP == nil {
			continue
		}
		if abs(*cur.GrowthPP) < threshold && abs(*prev.GrowthPP) >= threshold {
			changes = append(changes, TrendChange{
				Year:           cur.Year,
				Type:           "slowdown",
				PreviousGrowth: *prev.GrowthPP,
				CurrentGrowth:  *cur.GrowthPP,
			})
		}
	}

	zap.L().Info("trend change scan complete",
		zap.String("indicator_code", indicatorCode),
		zap.Int("changes", len(changes)),
	)
	return changes
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
