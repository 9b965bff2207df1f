// Package validate checks batches of candidate records against the
// dataset schema, the pillar rule table, and per-kind structural
// constraints. Validation is a pure read path: it mutates neither the
// input batch nor any external state, so the same input always yields
// the same report.
package validate

import (
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/selam-analytics/fidata/internal/model"
	"github.com/selam-analytics/fidata/internal/rules"
)

// ErrEmptyBatch is returned when there is nothing to validate. It is a
// precondition failure, signaled distinctly from a validation failure
// so callers cannot mistake "didn't run" for "passed".
var ErrEmptyBatch = eris.New("validate: cannot validate empty record set")

// Validator runs the three checks against an immutable rule set. Safe
// for concurrent use; it holds no per-run state.
type Validator struct {
	rules *rules.Set
	now   func() time.Time
}

// Option configures a Validator.
type Option func(*Validator)

// WithClock overrides the wall clock used to pin the as-of timestamp.
// Tests use this to make the target future-date rule deterministic.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) { v.now = now }
}

// New creates a Validator over the given rule set.
func New(rs *rules.Set, opts ...Option) *Validator {
	v := &Validator{rules: rs, now: time.Now}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// ValidateAll runs the schema, pillar-rule, and record-type checks in
// that fixed order and aggregates the report. The order matters: the
// later checks assume well-formed fields. One as-of timestamp is
// captured here and threaded through, so a batch spanning a day
// boundary cannot flip a target between future and past mid-run.
func (v *Validator) ValidateAll(records []model.Record) (*Report, error) {
	if len(records) == 0 {
		return nil, ErrEmptyBatch
	}

	asOf := v.now().UTC()

	schemaOK, schemaErrs := v.ValidateSchema(records)
	pillarOK, pillarErrs := v.ValidatePillarRules(records)
	typesOK, typeErrs := v.ValidateRecordTypes(asOf, records)

	report := &Report{
		TotalRecords: len(records),
		AllValid:     schemaOK && pillarOK && typesOK,
		AsOf:         asOf,
		Schema:       CheckResult{Passed: schemaOK, Errors: schemaErrs},
		PillarRules:  CheckResult{Passed: pillarOK, Errors: pillarErrs},
		RecordTypes:  CheckResult{Passed: typesOK, Errors: typeErrs},
	}

	zap.L().Debug("validation run complete",
		zap.Int("records", report.TotalRecords),
		zap.Bool("all_valid", report.AllValid),
		zap.Int("schema_errors", len(schemaErrs)),
		zap.Int("pillar_errors", len(pillarErrs)),
		zap.Int("record_type_errors", len(typeErrs)),
	)

	return report, nil
}
