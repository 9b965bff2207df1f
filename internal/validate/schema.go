package validate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/selam-analytics/fidata/internal/model"
)

// Static valid-value tables. These are the global constraints every
// record must satisfy regardless of its pillar or kind.

var validRecordTypes = map[model.RecordType]bool{
	model.RecordTypeObservation: true,
	model.RecordTypeEvent:       true,
	model.RecordTypeTarget:      true,
}

var validPillars = map[model.Pillar]bool{
	model.PillarAccess:        true,
	model.PillarUsage:         true,
	model.PillarQuality:       true,
	model.PillarAffordability: true,
	model.PillarGender:        true,
}

var validValueTypes = map[model.ValueType]bool{
	model.ValueTypePercentage:  true,
	model.ValueTypeAbsolute:    true,
	model.ValueTypeCategorical: true,
	model.ValueTypeRatio:       true,
	model.ValueTypeCurrency:    true,
}

var validConfidenceLevels = map[model.Confidence]bool{
	model.ConfidenceHigh:   true,
	model.ConfidenceMedium: true,
	model.ConfidenceLow:    true,
}

// ValidateSchema checks the batch against the global column and value
// constraints. All violations are accumulated; the check never stops at
// the first error. The caller guarantees a non-empty batch (ValidateAll
// enforces this).
func (v *Validator) ValidateSchema(records []model.Record) (bool, []string) {
	var errs []string

	// Required fields, one aggregated message naming each offending
	// record exactly once.
	var missing []string
	for i, rec := range records {
		fields := missingRequiredFields(rec)
		if len(fields) == 0 {
			continue
		}
		id := rec.RecordID
		if id == "" {
			id = fmt.Sprintf("row %d", i+1)
		}
		missing = append(missing, fmt.Sprintf("%s (%s)", id, strings.Join(fields, ", ")))
	}
	if len(missing) > 0 {
		errs = append(errs, fmt.Sprintf("%d records missing required fields: %s",
			len(missing), strings.Join(missing, "; ")))
	}

	// Enum membership, aggregated as the set of invalid values seen.
	invalidTypes := map[string]bool{}
	invalidPillars := map[string]bool{}
	invalidVTypes := map[string]bool{}
	invalidConf := map[string]bool{}
	for _, rec := range records {
		if rec.RecordType != "" && !validRecordTypes[rec.RecordType] {
			invalidTypes[string(rec.RecordType)] = true
		}
		if rec.HasPillar() && !validPillars[rec.Pillar] {
			invalidPillars[string(rec.Pillar)] = true
		}
		if rec.ValueType != "" && !validValueTypes[rec.ValueType] {
			invalidVTypes[string(rec.ValueType)] = true
		}
		if rec.Confidence != "" && !validConfidenceLevels[rec.Confidence] {
			invalidConf[string(rec.Confidence)] = true
		}
	}
	if len(invalidTypes) > 0 {
		errs = append(errs, "invalid record_types: "+joinSet(invalidTypes))
	}
	if len(invalidPillars) > 0 {
		errs = append(errs, "invalid pillars: "+joinSet(invalidPillars))
	}
	if len(invalidVTypes) > 0 {
		errs = append(errs, "invalid value_types: "+joinSet(invalidVTypes))
	}
	if len(invalidConf) > 0 {
		errs = append(errs, "invalid confidence levels: "+joinSet(invalidConf))
	}

	return len(errs) == 0, errs
}

// missingRequiredFields lists the globally required fields absent from
// a record. A malformed observation_date arrives here as the zero time
// and is reported as missing rather than panicking downstream.
func missingRequiredFields(rec model.Record) []string {
	var fields []string
	if rec.RecordID == "" {
		fields = append(fields, "record_id")
	}
	if rec.RecordType == "" {
		fields = append(fields, "record_type")
	}
	if rec.Indicator == "" {
		fields = append(fields, "indicator")
	}
	if rec.IndicatorCode == "" {
		fields = append(fields, "indicator_code")
	}
	if rec.ValueType == "" {
		fields = append(fields, "value_type")
	}
	if !rec.HasDate() {
		fields = append(fields, "observation_date")
	}
	if rec.SourceName == "" {
		fields = append(fields, "source_name")
	}
	if rec.Confidence == "" {
		fields = append(fields, "confidence")
	}
	return fields
}

func joinSet(set map[string]bool) string {
	vals := make([]string, 0, len(set))
	for v := range set {
		vals = append(vals, v)
	}
	sort.Strings(vals)
	return "[" + strings.Join(vals, ", ") + "]"
}
