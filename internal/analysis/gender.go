package analysis

import (
	"strings"

	"go.uber.org/zap"

	"github.com/selam-analytics/fidata/internal/model"
)

// GapPoint is one gender-gap measurement.
type GapPoint struct {
	Year          int     `json:"year"`
	IndicatorCode string  `json:"indicator_code"`
	Indicator     string  `json:"indicator"`
	Value         float64 `json:"value"`
}

// GenderGap extracts the gap-series from the GENDER pillar: indicators
// whose code contains "GAP", ordered by year. Empty when the dataset
// carries no gender data.
func (a *Analyzer) GenderGap() []GapPoint {
	var series []model.Record
	for _, rec := range a.observations {
		if rec.Pillar != model.PillarGender {
			continue
		}
		if !strings.Contains(rec.IndicatorCode, "GAP") {
			continue
		}
		if rec.ValueNumeric == nil || !rec.HasDate() {
			continue
		}
		series = append(series, rec)
	}

	if len(series) == 0 {
		zap.L().Warn("no gender gap indicators found")
		return nil
	}
	sortByDate(series)

	points := make([]GapPoint, 0, len(series))
	for _, rec := range series {
		points = append(points, GapPoint{
			Year:          rec.Year(),
			IndicatorCode: rec.IndicatorCode,
			Indicator:     rec.Indicator,
			Value:         *rec.ValueNumeric,
		})
	}
	return points
}
