package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selam-analytics/fidata/internal/model"
)

func TestDefaultRules(t *testing.T) {
	t.Parallel()
	set := Default()

	assert.Equal(t, []model.Pillar{
		model.PillarAccess, model.PillarAffordability,
		model.PillarGender, model.PillarUsage,
	}, set.Pillars())

	// QUALITY deliberately has no entry.
	_, ok := set.Lookup(model.PillarQuality)
	assert.False(t, ok)

	access, ok := set.Lookup(model.PillarAccess)
	require.True(t, ok)
	assert.True(t, access.AllowsValueType(model.ValueTypePercentage))
	assert.True(t, access.AllowsValueType(model.ValueTypeRatio))
	assert.False(t, access.AllowsValueType(model.ValueTypeCurrency))

	assert.Equal(t, []string{
		"infrastructure", "market_entry", "policy_change",
		"product_launch", "regulatory_update", "technology_adoption",
	}, set.EventCategories())
	assert.True(t, set.AllowsEventCategory("product_launch"))
	assert.False(t, set.AllowsEventCategory("natural_disaster"))
}

func TestAllowsIndicator(t *testing.T) {
	t.Parallel()
	access, ok := Default().Lookup(model.PillarAccess)
	require.True(t, ok)

	tests := []struct {
		code string
		want bool
	}{
		{"ACC_OWNERSHIP", true},       // exact
		{"ACC_RURAL_OWNERSHIP", true}, // ACC prefix family
		{"MOBILE_MONEY_GROWTH", true}, // MOBILE prefix family
		{"BANK_AGENT_DENSITY", true},  // BANK prefix family
		{"LOAN_COUNT", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, access.AllowsIndicator(tt.code))
		})
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
pillars:
  ACCESS:
    indicators: [SIM_PENETRATION]
    value_types: [percentage]
    description: Custom access rules
event_categories: [pilot_program]
`), 0o644))

	set, err := LoadFile(path)
	require.NoError(t, err)

	access, ok := set.Lookup(model.PillarAccess)
	require.True(t, ok)
	assert.Equal(t, []string{"SIM_PENETRATION"}, access.Indicators)
	assert.Equal(t, "Custom access rules", access.Description)

	// The file replaces the pillar table wholesale.
	_, ok = set.Lookup(model.PillarUsage)
	assert.False(t, ok)

	assert.True(t, set.AllowsEventCategory("pilot_program"))
	assert.False(t, set.AllowsEventCategory("product_launch"))
}

func TestLoadFileOmittedSectionsKeepDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("event_categories: [pilot_program]\n"), 0o644))

	set, err := LoadFile(path)
	require.NoError(t, err)

	// Pillar table untouched, categories replaced.
	_, ok := set.Lookup(model.PillarUsage)
	assert.True(t, ok)
	assert.Equal(t, []string{"pilot_program"}, set.EventCategories())
}

func TestLoadFileErrors(t *testing.T) {
	t.Parallel()

	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pillars: ["), 0o644))
	_, err = LoadFile(path)
	assert.Error(t, err)
}
