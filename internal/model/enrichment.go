package model

import "time"

// Action describes what an enrichment-log entry records.
type Action string

const (
	ActionAdded     Action = "added"
	ActionUpdated   Action = "updated"
	ActionValidated Action = "validated"
)

// ValidationStatus is the outcome stored on an enrichment-log entry.
type ValidationStatus string

const (
	ValidationPassed ValidationStatus = "passed"
	ValidationFailed ValidationStatus = "failed"
)

// LogEntry is one row of the append-only enrichment log. Entries are
// written once per batch item and never mutated or deleted; the log is
// the audit trail for the life of the dataset.
type LogEntry struct {
	ID               string           `json:"id"`
	Timestamp        time.Time        `json:"timestamp"`
	RecordID         string           `json:"record_id"`
	RecordType       RecordType       `json:"record_type"`
	Action           Action           `json:"action"`
	Pillar           Pillar           `json:"pillar,omitempty"`
	Indicator        string           `json:"indicator"`
	IndicatorCode    string           `json:"indicator_code"`
	Value            string           `json:"value"`
	ObservationDate  time.Time        `json:"observation_date"`
	Source           string           `json:"source"`
	Confidence       Confidence       `json:"confidence"`
	EnrichedBy       string           `json:"enriched_by"`
	ValidationStatus ValidationStatus `json:"validation_status"`
	Notes            string           `json:"notes,omitempty"`
}
