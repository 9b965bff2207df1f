package model

import "time"

// RecordType classifies a row of the unified dataset.
type RecordType string

const (
	RecordTypeObservation RecordType = "observation"
	RecordTypeEvent       RecordType = "event"
	RecordTypeTarget      RecordType = "target"
)

// Pillar is one of the five financial-inclusion dimensions used to
// classify observations and targets. Events carry no pillar.
type Pillar string

const (
	PillarAccess        Pillar = "ACCESS"
	PillarUsage         Pillar = "USAGE"
	PillarQuality       Pillar = "QUALITY"
	PillarAffordability Pillar = "AFFORDABILITY"
	PillarGender        Pillar = "GENDER"
)

// ValueType describes how a record's value is expressed.
type ValueType string

const (
	ValueTypePercentage  ValueType = "percentage"
	ValueTypeAbsolute    ValueType = "absolute"
	ValueTypeCategorical ValueType = "categorical"
	ValueTypeRatio       ValueType = "ratio"
	ValueTypeCurrency    ValueType = "currency"
)

// Confidence is a coarse quality tag on a record's provenance.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Gender disaggregation of an observation.
type Gender string

const (
	GenderAll    Gender = "all"
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Location disaggregation of an observation.
type Location string

const (
	LocationNational Location = "national"
	LocationUrban    Location = "urban"
	LocationRural    Location = "rural"
)

// Record is a single row of candidate financial-inclusion data.
// Optional fields use pointers or the zero value to mean "absent";
// cross-field constraints are enforced by the validate package.
type Record struct {
	RecordID        string     `json:"record_id"`
	RecordType      RecordType `json:"record_type"`
	Pillar          Pillar     `json:"pillar,omitempty"`
	Indicator       string     `json:"indicator"`
	IndicatorCode   string     `json:"indicator_code"`
	ValueType       ValueType  `json:"value_type"`
	ValueNumeric    *float64   `json:"value_numeric,omitempty"`
	ValueText       *string    `json:"value_text,omitempty"`
	Category        string     `json:"category,omitempty"`
	ObservationDate time.Time  `json:"observation_date"`
	Gender          Gender     `json:"gender,omitempty"`
	Location        Location   `json:"location,omitempty"`
	SourceName      string     `json:"source_name"`
	Confidence      Confidence `json:"confidence"`
}

// HasPillar reports whether the record carries a pillar.
func (r Record) HasPillar() bool { return r.Pillar != "" }

// HasDate reports whether the observation date parsed to a real date.
// Malformed dates are coerced to the zero time by the loader and show
// up here as absent.
func (r Record) HasDate() bool { return !r.ObservationDate.IsZero() }

// Year returns the calendar year of the observation date, or 0 when
// the date is absent.
func (r Record) Year() int {
	if !r.HasDate() {
		return 0
	}
	return r.ObservationDate.Year()
}

// Float64Ptr returns a pointer to v. Convenience for building records.
func Float64Ptr(v float64) *float64 { return &v }

// StringPtr returns a pointer to s.
func StringPtr(s string) *string { return &s }

// NewObservation builds an observation record with the fields every
// observation must carry. Disaggregation and value fields are set by
// the caller.
func NewObservation(id string, pillar Pillar, indicator, code string, vt ValueType, date time.Time) Record {
	return Record{
		RecordID:        id,
		RecordType:      RecordTypeObservation,
		Pillar:          pillar,
		Indicator:       indicator,
		IndicatorCode:   code,
		ValueType:       vt,
		ObservationDate: date,
	}
}

// NewEvent builds an event record. Events carry a category and a
// descriptive text value, never a pillar or a numeric value.
func NewEvent(id, category, indicator, code string, text string, date time.Time) Record {
	return Record{
		RecordID:        id,
		RecordType:      RecordTypeEvent,
		Category:        category,
		Indicator:       indicator,
		IndicatorCode:   code,
		ValueType:       ValueTypeCategorical,
		ValueText:       &text,
		ObservationDate: date,
	}
}

// NewTarget builds a target record. Targets carry a pillar, a numeric
// value, and a future observation date.
func NewTarget(id string, pillar Pillar, indicator, code string, vt ValueType, value float64, date time.Time) Record {
	return Record{
		RecordID:        id,
		RecordType:      RecordTypeTarget,
		Pillar:          pillar,
		Indicator:       indicator,
		IndicatorCode:   code,
		ValueType:       vt,
		ValueNumeric:    &value,
		ObservationDate: date,
	}
}
