package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordHelpers(t *testing.T) {
	t.Parallel()

	var rec Record
	assert.False(t, rec.HasPillar())
	assert.False(t, rec.HasDate())
	assert.Zero(t, rec.Year())

	rec.Pillar = PillarAccess
	rec.ObservationDate = time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	assert.True(t, rec.HasPillar())
	assert.True(t, rec.HasDate())
	assert.Equal(t, 2024, rec.Year())
}

func TestConstructors(t *testing.T) {
	t.Parallel()

	date := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	obs := NewObservation("obs_001", PillarAccess, "Account Ownership", "ACC_OWNERSHIP", ValueTypePercentage, date)
	assert.Equal(t, RecordTypeObservation, obs.RecordType)
	assert.Equal(t, PillarAccess, obs.Pillar)
	assert.Nil(t, obs.ValueNumeric)

	evt := NewEvent("evt_001", "product_launch", "Telebirr Launch", "EVT_TELEBIRR", "Telebirr goes live", date)
	assert.Equal(t, RecordTypeEvent, evt.RecordType)
	assert.False(t, evt.HasPillar())
	assert.Equal(t, ValueTypeCategorical, evt.ValueType)
	require.NotNil(t, evt.ValueText)
	assert.Equal(t, "Telebirr goes live", *evt.ValueText)

	tgt := NewTarget("tgt_001", PillarAccess, "Ownership Target", "ACC_OWNERSHIP_TARGET", ValueTypePercentage, 70, date)
	assert.Equal(t, RecordTypeTarget, tgt.RecordType)
	require.NotNil(t, tgt.ValueNumeric)
	assert.InDelta(t, 70, *tgt.ValueNumeric, 0.001)
}
