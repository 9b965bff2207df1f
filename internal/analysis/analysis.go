// Package analysis computes trend, pillar, gender-gap, and
// event-correlation summaries over loaded observations. Everything runs
// in memory; batch sizes are dozens of rows, not thousands.
package analysis

import (
	"sort"

	"github.com/rotisserie/eris"

	"github.com/selam-analytics/fidata/internal/model"
)

// ErrNoObservations is returned when an analyzer is constructed over an
// empty observation set.
var ErrNoObservations = eris.New("analysis: observations cannot be empty")

// Analyzer answers questions about one loaded dataset snapshot.
type Analyzer struct {
	observations []model.Record
	events       []model.Record
	links        []model.ImpactLink
}

// New creates an Analyzer. Records that are not observations or events
// respectively are filtered out, so callers can pass the full dataset
// twice without pre-splitting.
func New(observations, events []model.Record, links []model.ImpactLink) (*Analyzer, error) {
	obs := filterType(observations, model.RecordTypeObservation)
	if len(obs) == 0 {
		return nil, ErrNoObservations
	}
	return &Analyzer{
		observations: obs,
		events:       filterType(events, model.RecordTypeEvent),
		links:        links,
	}, nil
}

func filterType(records []model.Record, rt model.RecordType) []model.Record {
	var out []model.Record
	for _, r := range records {
		if r.RecordType == rt {
			out = append(out, r)
		}
	}
	return out
}

// byIndicator returns the observations for one indicator code that
// carry a numeric value, ordered by year.
func (a *Analyzer) byIndicator(code string) []model.Record {
	var out []model.Record
	for _, r := range a.observations {
		if r.IndicatorCode == code && r.ValueNumeric != nil && r.HasDate() {
			out = append(out, r)
		}
	}
	sortByDate(out)
	return out
}

func sortByDate(records []model.Record) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].ObservationDate.Before(records[j].ObservationDate)
	})
}
