// Package store persists the validated dataset and the append-only
// enrichment log. Two backends are provided: SQLite for single-analyst
// local use and Postgres for shared deployments.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/selam-analytics/fidata/internal/model"
)

// RecordFilter specifies criteria for listing dataset records.
type RecordFilter struct {
	RecordType    model.RecordType `json:"record_type,omitempty"`
	Pillar        model.Pillar     `json:"pillar,omitempty"`
	IndicatorCode string           `json:"indicator_code,omitempty"`
	Limit         int              `json:"limit,omitempty"`
}

// Store defines the persistence interface for the enrichment workflow.
// The enrichment log is append-only: the interface deliberately exposes
// no update or delete for log entries.
type Store interface {
	// Dataset
	InsertRecords(ctx context.Context, records []model.Record) (int64, error)
	ListRecords(ctx context.Context, filter RecordFilter) ([]model.Record, error)

	// Impact links
	InsertImpactLinks(ctx context.Context, links []model.ImpactLink) (int64, error)
	ListImpactLinks(ctx context.Context) ([]model.ImpactLink, error)

	// Enrichment log
	AppendLog(ctx context.Context, entries []model.LogEntry) error
	ListLog(ctx context.Context, limit int) ([]model.LogEntry, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Open creates a Store for the configured driver.
func Open(ctx context.Context, driver, sqlitePath, databaseURL string) (Store, error) {
	switch driver {
	case "sqlite", "":
		return NewSQLite(sqlitePath)
	case "postgres":
		return NewPostgres(ctx, databaseURL, nil)
	default:
		return nil, eris.Errorf("store: unknown driver %q", driver)
	}
}

// recordColumns is the column order shared by both backends for the
// records table.
var recordColumns = []string{
	"record_id", "record_type", "pillar", "indicator", "indicator_code",
	"value_type", "value_numeric", "value_text", "category",
	"observation_date", "gender", "location", "source_name", "confidence",
}

// logColumns is the enrichment_log column order shared by both backends.
var logColumns = []string{
	"id", "timestamp", "record_id", "record_type", "action", "pillar",
	"indicator", "indicator_code", "value", "observation_date", "source",
	"confidence", "enriched_by", "validation_status", "notes",
}

func recordRow(r model.Record) []any {
	return []any{
		r.RecordID, string(r.RecordType), nullString(string(r.Pillar)),
		r.Indicator, r.IndicatorCode, string(r.ValueType),
		r.ValueNumeric, r.ValueText, nullString(r.Category),
		r.ObservationDate.UTC(), nullString(string(r.Gender)),
		nullString(string(r.Location)), r.SourceName, string(r.Confidence),
	}
}

func logRow(e model.LogEntry) []any {
	return []any{
		e.ID, e.Timestamp.UTC(), e.RecordID, string(e.RecordType),
		string(e.Action), nullString(string(e.Pillar)), e.Indicator,
		e.IndicatorCode, e.Value, e.ObservationDate.UTC(), e.Source,
		string(e.Confidence), e.EnrichedBy, string(e.ValidationStatus),
		e.Notes,
	}
}

// nullString maps the empty string onto SQL NULL so "absent" round-trips.
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
