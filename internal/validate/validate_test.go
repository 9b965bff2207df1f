package validate

import (
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selam-analytics/fidata/internal/model"
	"github.com/selam-analytics/fidata/internal/rules"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func testValidator() *Validator {
	return New(rules.Default(), WithClock(func() time.Time { return testNow }))
}

func validObservation(id string) model.Record {
	rec := model.NewObservation(id, model.PillarAccess,
		"Account Ownership", "ACC_OWNERSHIP", model.ValueTypePercentage,
		time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC))
	rec.ValueNumeric = model.Float64Ptr(46.5)
	rec.Gender = model.GenderAll
	rec.Location = model.LocationNational
	rec.SourceName = "Global Findex 2024"
	rec.Confidence = model.ConfidenceHigh
	return rec
}

func validEvent(id string) model.Record {
	rec := model.NewEvent(id, "product_launch",
		"Telebirr Launch", "EVT_TELEBIRR", "Ethio Telecom launches Telebirr",
		time.Date(2021, 5, 11, 0, 0, 0, 0, time.UTC))
	rec.SourceName = "Ethio Telecom"
	rec.Confidence = model.ConfidenceHigh
	return rec
}

func validTarget(id string) model.Record {
	rec := model.NewTarget(id, model.PillarAccess,
		"Account Ownership Target", "ACC_OWNERSHIP_TARGET", model.ValueTypePercentage,
		70, time.Date(2027, 12, 31, 0, 0, 0, 0, time.UTC))
	rec.SourceName = "NFIS-II"
	rec.Confidence = model.ConfidenceMedium
	return rec
}

func TestValidateAllEmptyBatch(t *testing.T) {
	t.Parallel()

	report, err := testValidator().ValidateAll(nil)
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrEmptyBatch))
	assert.Nil(t, report)

	report, err = testValidator().ValidateAll([]model.Record{})
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrEmptyBatch))
	assert.Nil(t, report)
}

func TestValidateAllCleanBatch(t *testing.T) {
	t.Parallel()

	batch := []model.Record{validObservation("obs_001"), validEvent("evt_001"), validTarget("tgt_001")}
	report, err := testValidator().ValidateAll(batch)
	require.NoError(t, err)

	assert.True(t, report.AllValid)
	assert.Equal(t, 3, report.TotalRecords)
	assert.Equal(t, testNow, report.AsOf)
	assert.True(t, report.Schema.Passed)
	assert.True(t, report.PillarRules.Passed)
	assert.True(t, report.RecordTypes.Passed)
	assert.Empty(t, report.Schema.Errors)
	assert.Equal(t, model.ValidationPassed, report.Status())
}

func TestValidateAllIsIdempotent(t *testing.T) {
	t.Parallel()

	bad := validObservation("obs_001")
	bad.Confidence = "certain"
	batch := []model.Record{bad, validEvent("evt_001")}

	v := testValidator()
	first, err := v.ValidateAll(batch)
	require.NoError(t, err)
	second, err := v.ValidateAll(batch)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestValidateSchemaMissingFields(t *testing.T) {
	t.Parallel()

	rec := validObservation("obs_001")
	rec.SourceName = ""
	rec.Confidence = ""

	noID := validObservation("")
	noID.ObservationDate = time.Time{}

	ok, errs := testValidator().ValidateSchema([]model.Record{rec, noID})
	assert.False(t, ok)
	require.Len(t, errs, 1)
	assert.Equal(t,
		"2 records missing required fields: obs_001 (source_name, confidence); row 2 (record_id, observation_date)",
		errs[0])
}

func TestValidateSchemaInvalidEnums(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*model.Record)
		wantErr string
	}{
		{
			name:    "unknown record type",
			mutate:  func(r *model.Record) { r.RecordType = "forecast" },
			wantErr: "invalid record_types: [forecast]",
		},
		{
			name:    "unknown pillar",
			mutate:  func(r *model.Record) { r.Pillar = "RESILIENCE" },
			wantErr: "invalid pillars: [RESILIENCE]",
		},
		{
			name:    "unknown value type",
			mutate:  func(r *model.Record) { r.ValueType = "index" },
			wantErr: "invalid value_types: [index]",
		},
		{
			name:    "unknown confidence",
			mutate:  func(r *model.Record) { r.Confidence = "certain" },
			wantErr: "invalid confidence levels: [certain]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := validObservation("obs_001")
			tt.mutate(&rec)

			ok, errs := testValidator().ValidateSchema([]model.Record{rec})
			assert.False(t, ok)
			assert.Contains(t, errs, tt.wantErr)
		})
	}
}

func TestValidateSchemaAggregatesDuplicateEnumValues(t *testing.T) {
	t.Parallel()

	a := validObservation("obs_001")
	a.ValueType = "index"
	b := validObservation("obs_002")
	b.ValueType = "index"
	c := validObservation("obs_003")
	c.ValueType = "score"

	ok, errs := testValidator().ValidateSchema([]model.Record{a, b, c})
	assert.False(t, ok)
	assert.Contains(t, errs, "invalid value_types: [index, score]")
}

func TestValidatePillarRules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		records []model.Record
		wantOK  bool
		want    []string
	}{
		{
			name:    "whitelisted code passes",
			records: []model.Record{validObservation("obs_001")},
			wantOK:  true,
		},
		{
			name: "prefix family match passes",
			records: []model.Record{func() model.Record {
				rec := validObservation("obs_001")
				rec.IndicatorCode = "ACC_RURAL_OWNERSHIP"
				return rec
			}()},
			wantOK: true,
		},
		{
			name: "unexpected indicator code",
			records: []model.Record{func() model.Record {
				rec := validObservation("obs_001")
				rec.IndicatorCode = "LOAN_COUNT"
				return rec
			}()},
			wantOK: false,
			want:   []string{"Pillar ACCESS: unexpected indicator codes [LOAN_COUNT]"},
		},
		{
			name: "invalid value type for pillar",
			records: []model.Record{func() model.Record {
				rec := validObservation("obs_001")
				rec.ValueType = model.ValueTypeCurrency
				return rec
			}()},
			wantOK: false,
			want:   []string{"Pillar ACCESS: invalid value types [currency], expected [percentage ratio]"},
		},
		{
			name:    "records without pillar are skipped",
			records: []model.Record{validEvent("evt_001")},
			wantOK:  true,
		},
		{
			name: "pillar with no rule entry is unconstrained",
			records: []model.Record{func() model.Record {
				rec := validObservation("obs_001")
				rec.Pillar = model.PillarQuality
				rec.IndicatorCode = "ANYTHING_AT_ALL"
				rec.ValueType = model.ValueTypeAbsolute
				return rec
			}()},
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ok, errs := testValidator().ValidatePillarRules(tt.records)
			assert.Equal(t, tt.wantOK, ok)
			if tt.want != nil {
				assert.Equal(t, tt.want, errs)
			} else {
				assert.Empty(t, errs)
			}
		})
	}
}

func TestValidatePillarRulesGroupsByPillar(t *testing.T) {
	t.Parallel()

	a := validObservation("obs_001")
	a.IndicatorCode = "LOAN_COUNT"
	b := validObservation("obs_002")
	b.IndicatorCode = "LOAN_RATE"
	c := validObservation("obs_003")
	c.Pillar = model.PillarGender
	c.IndicatorCode = "GENDER_GAP"
	c.ValueType = model.ValueTypeAbsolute

	ok, errs := testValidator().ValidatePillarRules([]model.Record{a, b, c})
	assert.False(t, ok)
	assert.Equal(t, []string{
		"Pillar ACCESS: unexpected indicator codes [LOAN_COUNT, LOAN_RATE]",
		"Pillar GENDER: invalid value types [absolute], expected [percentage]",
	}, errs)
}

func TestValidateRecordTypes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		record model.Record
		wantOK bool
		want   []string
	}{
		{
			name:   "valid observation",
			record: validObservation("obs_001"),
			wantOK: true,
		},
		{
			name: "observation missing pillar and value",
			record: func() model.Record {
				rec := validObservation("obs_001")
				rec.Pillar = ""
				rec.ValueNumeric = nil
				return rec
			}(),
			wantOK: false,
			want: []string{
				"1 observations missing pillar: [obs_001]",
				"1 observations missing value: [obs_001]",
			},
		},
		{
			name: "observation with both values",
			record: func() model.Record {
				rec := validObservation("obs_001")
				rec.ValueText = model.StringPtr("about half")
				return rec
			}(),
			wantOK: false,
			want:   []string{"1 observations with both numeric and text values: [obs_001]"},
		},
		{
			name: "observation with category",
			record: func() model.Record {
				rec := validObservation("obs_001")
				rec.Category = "product_launch"
				return rec
			}(),
			wantOK: false,
			want:   []string{"1 observations incorrectly have category: [obs_001]"},
		},
		{
			name: "observation missing disaggregation",
			record: func() model.Record {
				rec := validObservation("obs_001")
				rec.Gender = ""
				rec.Location = ""
				return rec
			}(),
			wantOK: false,
			want: []string{
				"1 observations missing gender: [obs_001]",
				"1 observations missing location: [obs_001]",
			},
		},
		{
			name:   "valid event",
			record: validEvent("evt_001"),
			wantOK: true,
		},
		{
			name: "event with pillar and numeric value",
			record: func() model.Record {
				rec := validEvent("evt_001")
				rec.Pillar = model.PillarUsage
				rec.ValueNumeric = model.Float64Ptr(1)
				return rec
			}(),
			wantOK: false,
			want: []string{
				"1 events incorrectly have pillar: [evt_001]",
				"1 events incorrectly have value_numeric: [evt_001]",
			},
		},
		{
			name: "event with unknown category",
			record: func() model.Record {
				rec := validEvent("evt_001")
				rec.Category = "natural_disaster"
				return rec
			}(),
			wantOK: false,
			want:   []string{"1 events with unknown category: [evt_001]"},
		},
		{
			name: "event missing category and value_text",
			record: func() model.Record {
				rec := validEvent("evt_001")
				rec.Category = ""
				rec.ValueText = nil
				return rec
			}(),
			wantOK: false,
			want: []string{
				"1 events missing category: [evt_001]",
				"1 events missing value_text: [evt_001]",
			},
		},
		{
			name:   "valid target",
			record: validTarget("tgt_001"),
			wantOK: true,
		},
		{
			name: "target in the past",
			record: func() model.Record {
				rec := validTarget("tgt_001")
				rec.ObservationDate = time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
				return rec
			}(),
			wantOK: false,
			want:   []string{"1 targets with non-future observation_date: [tgt_001]"},
		},
		{
			name: "target dated exactly as-of",
			record: func() model.Record {
				rec := validTarget("tgt_001")
				rec.ObservationDate = testNow
				return rec
			}(),
			wantOK: false,
			want:   []string{"1 targets with non-future observation_date: [tgt_001]"},
		},
		{
			name: "target with category",
			record: func() model.Record {
				rec := validTarget("tgt_001")
				rec.Category = "policy_change"
				return rec
			}(),
			wantOK: false,
			want:   []string{"1 targets incorrectly have category: [tgt_001]"},
		},
		{
			name: "target missing pillar and value",
			record: func() model.Record {
				rec := validTarget("tgt_001")
				rec.Pillar = ""
				rec.ValueNumeric = nil
				return rec
			}(),
			wantOK: false,
			want: []string{
				"1 targets missing pillar: [tgt_001]",
				"1 targets missing value_numeric: [tgt_001]",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ok, errs := testValidator().ValidateRecordTypes(testNow, []model.Record{tt.record})
			assert.Equal(t, tt.wantOK, ok)
			if tt.want != nil {
				assert.Equal(t, tt.want, errs)
			} else {
				assert.Empty(t, errs)
			}
		})
	}
}

func TestValidateRecordTypesAggregatesIDs(t *testing.T) {
	t.Parallel()

	a := validObservation("obs_001")
	a.Gender = ""
	b := validObservation("obs_002")
	b.Gender = ""

	ok, errs := testValidator().ValidateRecordTypes(testNow, []model.Record{a, b})
	assert.False(t, ok)
	assert.Equal(t, []string{"2 observations missing gender: [obs_001 obs_002]"}, errs)
}

func TestValidateAllSingleAsOf(t *testing.T) {
	t.Parallel()

	// The clock advances between calls; the as-of pinned in the
	// report must be the value captured at the start of the run.
	calls := 0
	clock := func() time.Time {
		calls++
		return testNow.Add(time.Duration(calls) * time.Hour)
	}
	v := New(rules.Default(), WithClock(clock))

	report, err := v.ValidateAll([]model.Record{validTarget("tgt_001")})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, testNow.Add(time.Hour), report.AsOf)
}

func TestValidateAllMonotonicAggregation(t *testing.T) {
	t.Parallel()
	v := testValidator()

	base := []model.Record{validObservation("obs_001"), validEvent("evt_001")}
	report, err := v.ValidateAll(base)
	require.NoError(t, err)
	require.True(t, report.AllValid)

	// Adding a clean record keeps the batch valid.
	report, err = v.ValidateAll(append(base, validTarget("tgt_001")))
	require.NoError(t, err)
	assert.True(t, report.AllValid)

	// Adding one malformed record flips it and contributes exactly one
	// new error.
	bad := validObservation("obs_bad")
	bad.Gender = ""
	report, err = v.ValidateAll(append(base, bad))
	require.NoError(t, err)
	assert.False(t, report.AllValid)
	assert.Equal(t, []string{"1 observations missing gender: [obs_bad]"}, report.RecordTypes.Errors)
	assert.Empty(t, report.Schema.Errors)
	assert.Empty(t, report.PillarRules.Errors)
}

func TestReportRender(t *testing.T) {
	t.Parallel()

	rec := validObservation("obs_001")
	rec.Gender = ""
	report, err := testValidator().ValidateAll([]model.Record{rec})
	require.NoError(t, err)

	out := report.Render()
	assert.Contains(t, out, "DATA VALIDATION REPORT")
	assert.Contains(t, out, "[ok]   Schema validation passed")
	assert.Contains(t, out, "[FAIL] Record types validation failed:")
	assert.Contains(t, out, "1 observations missing gender: [obs_001]")
	assert.Contains(t, out, "VALIDATION FAILED - see errors above")

	clean, err := testValidator().ValidateAll([]model.Record{validObservation("obs_001")})
	require.NoError(t, err)
	assert.Contains(t, clean.Render(), "ALL VALIDATIONS PASSED")
}
