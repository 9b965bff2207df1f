// Package rules holds the static pillar rule table: for each pillar,
// the indicator codes it accepts and the value types those indicators
// may carry. The table is built once at startup and treated as
// read-only by every validator call.
package rules

import (
	"sort"
	"strings"

	"github.com/selam-analytics/fidata/internal/model"
)

// PillarRule constrains the records of one pillar.
type PillarRule struct {
	// Indicators is the whitelist of standardized indicator codes.
	// A code is also accepted when it shares the leading underscore
	// segment of any whitelisted code (e.g. ACC_COST matches the
	// ACC prefix of ACC_OWNERSHIP).
	Indicators []string
	// ValueTypes lists the value types records of this pillar may use.
	ValueTypes []model.ValueType
	// Description is a human-readable summary for the analyst guide.
	Description string
}

// AllowsIndicator reports whether code is whitelisted for this pillar,
// either exactly or by leading-segment prefix.
func (r PillarRule) AllowsIndicator(code string) bool {
	if code == "" {
		return false
	}
	for _, ind := range r.Indicators {
		if code == ind {
			return true
		}
		prefix, _, _ := strings.Cut(ind, "_")
		if strings.HasPrefix(code, prefix) {
			return true
		}
	}
	return false
}

// AllowsValueType reports whether vt is permitted for this pillar.
func (r PillarRule) AllowsValueType(vt model.ValueType) bool {
	for _, v := range r.ValueTypes {
		if v == vt {
			return true
		}
	}
	return false
}

// Set is an immutable pillar → rule mapping. Pillars without an entry
// (QUALITY in the default table) are unconstrained by the rule engine.
type Set struct {
	rules map[model.Pillar]PillarRule

	// EventCategories whitelists the category values an event may use.
	eventCategories map[string]bool
}

// Lookup returns the rule for a pillar and whether one exists.
func (s *Set) Lookup(p model.Pillar) (PillarRule, bool) {
	r, ok := s.rules[p]
	return r, ok
}

// Pillars returns the pillars that have a rule entry, sorted for
// deterministic report ordering.
func (s *Set) Pillars() []model.Pillar {
	out := make([]model.Pillar, 0, len(s.rules))
	for p := range s.rules {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// AllowsEventCategory reports whether category is a known event category.
func (s *Set) AllowsEventCategory(category string) bool {
	return s.eventCategories[category]
}

// EventCategories returns the whitelist, sorted.
func (s *Set) EventCategories() []string {
	out := make([]string, 0, len(s.eventCategories))
	for c := range s.eventCategories {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Default returns the built-in rule table for the Ethiopia
// financial-inclusion dataset.
func Default() *Set {
	return &Set{
		rules: map[model.Pillar]PillarRule{
			model.PillarAccess: {
				Indicators:  []string{"ACC_OWNERSHIP", "MOBILE_MONEY_ACC", "BANK_BRANCH_DENSITY"},
				ValueTypes:  []model.ValueType{model.ValueTypePercentage, model.ValueTypeRatio},
				Description: "Account ownership and access to financial services",
			},
			model.PillarUsage: {
				Indicators:  []string{"USG_P2P_COUNT", "USG_ATM_COUNT", "USG_TELEBIRR_VALUE", "USG_MPESA_USERS"},
				ValueTypes:  []model.ValueType{model.ValueTypeAbsolute, model.ValueTypeCurrency, model.ValueTypePercentage},
				Description: "Usage patterns and transaction volumes",
			},
			model.PillarGender: {
				Indicators:  []string{"GENDER_GAP", "FEMALE_ACC_RATE", "MALE_ACC_RATE"},
				ValueTypes:  []model.ValueType{model.ValueTypePercentage},
				Description: "Gender-disaggregated metrics",
			},
			model.PillarAffordability: {
				Indicators:  []string{"ACC_COST", "TRANSACTION_FEE"},
				ValueTypes:  []model.ValueType{model.ValueTypeCurrency, model.ValueTypePercentage},
				Description: "Cost and affordability metrics",
			},
		},
		eventCategories: map[string]bool{
			"product_launch":      true,
			"policy_change":       true,
			"regulatory_update":   true,
			"infrastructure":      true,
			"market_entry":        true,
			"technology_adoption": true,
		},
	}
}
