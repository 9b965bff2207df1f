// Package enrich commits validated batches to the dataset and writes
// the audit trail. Every batch item produces exactly one enrichment-log
// entry whether the batch was accepted or rejected.
package enrich

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/selam-analytics/fidata/internal/model"
	"github.com/selam-analytics/fidata/internal/store"
	"github.com/selam-analytics/fidata/internal/validate"
)

// Batch is one candidate addition to the dataset.
type Batch struct {
	Records []model.Record
	Links   []model.ImpactLink
}

// Result is the outcome of one enrichment run.
type Result struct {
	Report       *validate.Report `json:"report"`
	Committed    bool             `json:"committed"`
	RecordsAdded int64            `json:"records_added"`
	LinksAdded   int64            `json:"links_added"`
	LogEntries   int              `json:"log_entries"`
}

// Enricher validates a batch, commits it when valid, and appends the
// enrichment log. Log appends are serialized through a single-writer
// mutex; the validator itself needs no coordination.
type Enricher struct {
	store     store.Store
	validator *validate.Validator

	mu    sync.Mutex
	now   func() time.Time
	newID func() string
}

// New creates an Enricher.
func New(st store.Store, v *validate.Validator) *Enricher {
	return &Enricher{
		store:     st,
		validator: v,
		now:       time.Now,
		newID:     func() string { return uuid.New().String() },
	}
}

// Enrich runs validation and, when the whole batch is valid, commits
// records and impact links to the dataset. The enrichment log receives
// one entry per record either way: action "added" with status "passed"
// on commit, action "validated" with status "failed" on rejection.
// Rejection is not an error; the caller inspects Result.Committed and
// the report.
func (e *Enricher) Enrich(ctx context.Context, batch Batch, enrichedBy, notes string) (*Result, error) {
	report, err := e.validator.ValidateAll(batch.Records)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	result := &Result{Report: report}

	if report.AllValid {
		n, err := e.store.InsertRecords(ctx, batch.Records)
		if err != nil {
			return nil, eris.Wrap(err, "enrich: commit records")
		}
		result.RecordsAdded = n

		if len(batch.Links) > 0 {
			n, err := e.store.InsertImpactLinks(ctx, batch.Links)
			if err != nil {
				return nil, eris.Wrap(err, "enrich: commit impact links")
			}
			result.LinksAdded = n
		}
		result.Committed = true
	}

	entries := e.logEntries(batch.Records, report, enrichedBy, notes)
	if err := e.store.AppendLog(ctx, entries); err != nil {
		return nil, eris.Wrap(err, "enrich: append log")
	}
	result.LogEntries = len(entries)

	zap.L().Info("enrichment run complete",
		zap.Bool("committed", result.Committed),
		zap.Int64("records_added", result.RecordsAdded),
		zap.Int64("links_added", result.LinksAdded),
		zap.Int("log_entries", result.LogEntries),
		zap.String("enriched_by", enrichedBy),
	)

	return result, nil
}

func (e *Enricher) logEntries(records []model.Record, report *validate.Report, enrichedBy, notes string) []model.LogEntry {
	action := model.ActionAdded
	if !report.AllValid {
		action = model.ActionValidated
	}

	ts := e.now().UTC()
	entries := make([]model.LogEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, model.LogEntry{
			ID:               e.newID(),
			Timestamp:        ts,
			RecordID:         rec.RecordID,
			RecordType:       rec.RecordType,
			Action:           action,
			Pillar:           rec.Pillar,
			Indicator:        rec.Indicator,
			IndicatorCode:    rec.IndicatorCode,
			Value:            recordValue(rec),
			ObservationDate:  rec.ObservationDate,
			Source:           rec.SourceName,
			Confidence:       rec.Confidence,
			EnrichedBy:       enrichedBy,
			ValidationStatus: report.Status(),
			Notes:            notes,
		})
	}
	return entries
}

// recordValue renders the record's value for the log's single value
// column, matching the mixed numeric/text column of the source sheet.
func recordValue(rec model.Record) string {
	if rec.ValueNumeric != nil {
		return strconv.FormatFloat(*rec.ValueNumeric, 'f', -1, 64)
	}
	if rec.ValueText != nil {
		return *rec.ValueText
	}
	return ""
}
