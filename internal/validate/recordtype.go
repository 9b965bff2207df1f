package validate

import (
	"fmt"
	"time"

	"github.com/selam-analytics/fidata/internal/model"
)

// ValidateRecordTypes checks the structural constraints specific to
// each record kind. asOf is captured once per run by ValidateAll so the
// target future-date rule is stable across the whole batch.
//
//	observation: pillar, exactly one of value_numeric/value_text,
//	             gender, location; never category
//	event:       category (from the known set), observation_date,
//	             value_text; never pillar or value_numeric
//	target:      pillar, value_numeric, observation_date strictly
//	             after asOf; never category
//
// Violations are batched by (type, field) for report compactness.
func (v *Validator) ValidateRecordTypes(asOf time.Time, records []model.Record) (bool, []string) {
	groups := newViolationGroups()

	for _, rec := range records {
		switch rec.RecordType {
		case model.RecordTypeObservation:
			if !rec.HasPillar() {
				groups.add("observations missing pillar", rec.RecordID)
			}
			hasNumeric := rec.ValueNumeric != nil
			hasText := rec.ValueText != nil
			if !hasNumeric && !hasText {
				groups.add("observations missing value", rec.RecordID)
			}
			if hasNumeric && hasText {
				groups.add("observations with both numeric and text values", rec.RecordID)
			}
			if rec.Gender == "" {
				groups.add("observations missing gender", rec.RecordID)
			}
			if rec.Location == "" {
				groups.add("observations missing location", rec.RecordID)
			}
			if rec.Category != "" {
				groups.add("observations incorrectly have category", rec.RecordID)
			}

		case model.RecordTypeEvent:
			if rec.Category == "" {
				groups.add("events missing category", rec.RecordID)
			} else if !v.rules.AllowsEventCategory(rec.Category) {
				groups.add("events with unknown category", rec.RecordID)
			}
			if !rec.HasDate() {
				groups.add("events missing observation_date", rec.RecordID)
			}
			if rec.ValueText == nil {
				groups.add("events missing value_text", rec.RecordID)
			}
			if rec.HasPillar() {
				groups.add("events incorrectly have pillar", rec.RecordID)
			}
			if rec.ValueNumeric != nil {
				groups.add("events incorrectly have value_numeric", rec.RecordID)
			}

		case model.RecordTypeTarget:
			if !rec.HasPillar() {
				groups.add("targets missing pillar", rec.RecordID)
			}
			if rec.ValueNumeric == nil {
				groups.add("targets missing value_numeric", rec.RecordID)
			}
			if rec.Category != "" {
				groups.add("targets incorrectly have category", rec.RecordID)
			}
			if rec.HasDate() && !rec.ObservationDate.After(asOf) {
				groups.add("targets with non-future observation_date", rec.RecordID)
			}
		}
	}

	errs := groups.messages()
	return len(errs) == 0, errs
}

// violationGroups accumulates record IDs under (type, field) headings,
// preserving first-seen heading order.
type violationGroups struct {
	order []string
	ids   map[string][]string
}

func newViolationGroups() *violationGroups {
	return &violationGroups{ids: map[string][]string{}}
}

func (g *violationGroups) add(heading, recordID string) {
	if _, seen := g.ids[heading]; !seen {
		g.order = append(g.order, heading)
	}
	g.ids[heading] = append(g.ids[heading], recordID)
}

func (g *violationGroups) messages() []string {
	msgs := make([]string, 0, len(g.order))
	for _, heading := range g.order {
		ids := g.ids[heading]
		msgs = append(msgs, fmt.Sprintf("%d %s: %v", len(ids), heading, ids))
	}
	return msgs
}
