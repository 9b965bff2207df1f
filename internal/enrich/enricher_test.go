package enrich

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/selam-analytics/fidata/internal/model"
	"github.com/selam-analytics/fidata/internal/rules"
	"github.com/selam-analytics/fidata/internal/store"
	"github.com/selam-analytics/fidata/internal/validate"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestEnricher(t *testing.T) (*Enricher, store.Store) {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "enrich_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(context.Background()))

	v := validate.New(rules.Default(), validate.WithClock(func() time.Time { return testNow }))
	e := New(st, v)
	e.now = func() time.Time { return testNow }
	seq := 0
	e.newID = func() string { seq++; return fmt.Sprintf("id_%03d", seq) }
	return e, st
}

func goodObservation(id string) model.Record {
	rec := model.NewObservation(id, model.PillarAccess,
		"Account Ownership", "ACC_OWNERSHIP", model.ValueTypePercentage,
		time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC))
	rec.ValueNumeric = model.Float64Ptr(46.5)
	rec.Gender = model.GenderAll
	rec.Location = model.LocationNational
	rec.SourceName = "Global Findex"
	rec.Confidence = model.ConfidenceHigh
	return rec
}

func TestEnrichCommitsValidBatch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	e, st := newTestEnricher(t)

	batch := Batch{
		Records: []model.Record{goodObservation("obs_001"), goodObservation("obs_002")},
		Links: []model.ImpactLink{
			{ParentID: "obs_001", ChildID: "obs_002", ImpactDirection: "positive", LagMonths: 6},
		},
	}

	result, err := e.Enrich(ctx, batch, "analyst_1", "findex drop")
	require.NoError(t, err)

	assert.True(t, result.Committed)
	assert.True(t, result.Report.AllValid)
	assert.Equal(t, int64(2), result.RecordsAdded)
	assert.Equal(t, int64(1), result.LinksAdded)
	assert.Equal(t, 2, result.LogEntries)

	records, err := st.ListRecords(ctx, store.RecordFilter{})
	require.NoError(t, err)
	assert.Len(t, records, 2)

	links, err := st.ListImpactLinks(ctx)
	require.NoError(t, err)
	assert.Len(t, links, 1)

	entries, err := st.ListLog(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, entry := range entries {
		assert.Equal(t, model.ActionAdded, entry.Action)
		assert.Equal(t, model.ValidationPassed, entry.ValidationStatus)
		assert.Equal(t, "analyst_1", entry.EnrichedBy)
		assert.Equal(t, "findex drop", entry.Notes)
		assert.Equal(t, testNow, entry.Timestamp)
		assert.Equal(t, "46.5", entry.Value)
	}
}

func TestEnrichRejectsInvalidBatchButLogs(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	e, st := newTestEnricher(t)

	bad := goodObservation("obs_002")
	bad.IndicatorCode = "LOAN_COUNT"

	result, err := e.Enrich(ctx, Batch{
		Records: []model.Record{goodObservation("obs_001"), bad},
	}, "analyst_2", "")
	require.NoError(t, err)

	assert.False(t, result.Committed)
	assert.False(t, result.Report.AllValid)
	assert.Zero(t, result.RecordsAdded)
	assert.Equal(t, 2, result.LogEntries)

	// Nothing committed to the dataset, including the valid record.
	records, err := st.ListRecords(ctx, store.RecordFilter{})
	require.NoError(t, err)
	assert.Empty(t, records)

	// The log still records the attempt, one entry per record.
	entries, err := st.ListLog(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, entry := range entries {
		assert.Equal(t, model.ActionValidated, entry.Action)
		assert.Equal(t, model.ValidationFailed, entry.ValidationStatus)
		assert.Equal(t, "analyst_2", entry.EnrichedBy)
	}
}

func TestEnrichEmptyBatch(t *testing.T) {
	t.Parallel()
	e, _ := newTestEnricher(t)

	result, err := e.Enrich(context.Background(), Batch{}, "analyst_1", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, validate.ErrEmptyBatch)
	assert.Nil(t, result)
}

func TestEnrichLogAccumulatesAcrossRuns(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	e, st := newTestEnricher(t)

	_, err := e.Enrich(ctx, Batch{Records: []model.Record{goodObservation("obs_001")}}, "analyst_1", "")
	require.NoError(t, err)

	bad := goodObservation("obs_002")
	bad.ValueType = model.ValueTypeCurrency
	_, err = e.Enrich(ctx, Batch{Records: []model.Record{bad}}, "analyst_1", "")
	require.NoError(t, err)

	entries, err := st.ListLog(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
