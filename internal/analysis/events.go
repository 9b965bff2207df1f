package analysis

import (
	"math"
	"time"

	"go.uber.org/zap"
)

// Correlation pairs an observation with an event that preceded it
// within the lag window.
type Correlation struct {
	Event           string    `json:"event"`
	EventDate       time.Time `json:"event_date"`
	ObservationDate time.Time `json:"observation_date"`
	LagMonths       float64   `json:"lag_months"`
	Value           *float64  `json:"value,omitempty"`
}

// EventCorrelations finds events that occurred within lagMonths before
// each observation of an indicator. This is candidate generation for an
// analyst, not causal inference.
func (a *Analyzer) EventCorrelations(indicatorCode string, lagMonths int) []Correlation {
	if len(a.events) == 0 {
		zap.L().Warn("no events available for correlation analysis")
		return nil
	}

	series := a.byIndicator(indicatorCode)
	if len(series) == 0 {
		zap.L().Warn("no observations for indicator",
			zap.String("indicator_code", indicatorCode))
		return nil
	}

	var correlations []Correlation
	for _, obs := range series {
		windowStart := obs.ObservationDate.AddDate(0, -lagMonths, 0)

		for _, event := range a.events {
			if !event.HasDate() {
				continue
			}
			if event.ObservationDate.Before(windowStart) || event.ObservationDate.After(obs.ObservationDate) {
				continue
			}

			lagDays := obs.ObservationDate.Sub(event.ObservationDate).Hours() / 24
			correlations = append(correlations, Correlation{
				Event:           event.Indicator,
				EventDate:       event.ObservationDate,
				ObservationDate: obs.ObservationDate,
				LagMonths:       math.Round(lagDays/30*10) / 10,
				Value:           obs.ValueNumeric,
			})
		}
	}

	zap.L().Info("event correlation scan complete",
		zap.String("indicator_code", indicatorCode),
		zap.Int("correlations", len(correlations)),
	)
	return correlations
}
