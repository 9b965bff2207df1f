package validate

import (
	"fmt"

	"github.com/selam-analytics/fidata/internal/model"
)

// ValidatePillarRules checks every record that carries a pillar against
// that pillar's rule entry. Records without a pillar (events) are
// skipped entirely; requiring a pillar is the record-type checker's
// concern. Violations are grouped per pillar so a reviewer can fix one
// pillar at a time instead of reading per-record noise.
func (v *Validator) ValidatePillarRules(records []model.Record) (bool, []string) {
	type violation struct {
		indicators map[string]bool
		valueTypes map[string]bool
	}
	byPillar := map[model.Pillar]*violation{}

	for _, rec := range records {
		if !rec.HasPillar() {
			continue
		}
		rule, ok := v.rules.Lookup(rec.Pillar)
		if !ok {
			// No rule entry for this pillar: unconstrained.
			continue
		}

		viol := byPillar[rec.Pillar]
		if viol == nil {
			viol = &violation{indicators: map[string]bool{}, valueTypes: map[string]bool{}}
			byPillar[rec.Pillar] = viol
		}

		if rec.IndicatorCode != "" && !rule.AllowsIndicator(rec.IndicatorCode) {
			viol.indicators[rec.IndicatorCode] = true
		}
		if rec.ValueType != "" && !rule.AllowsValueType(rec.ValueType) {
			viol.valueTypes[string(rec.ValueType)] = true
		}
	}

	var errs []string
	for _, pillar := range v.rules.Pillars() {
		viol := byPillar[pillar]
		if viol == nil {
			continue
		}
		rule, _ := v.rules.Lookup(pillar)
		if len(viol.indicators) > 0 {
			errs = append(errs, fmt.Sprintf("Pillar %s: unexpected indicator codes %s",
				pillar, joinSet(viol.indicators)))
		}
		if len(viol.valueTypes) > 0 {
			errs = append(errs, fmt.Sprintf("Pillar %s: invalid value types %s, expected %v",
				pillar, joinSet(viol.valueTypes), rule.ValueTypes))
		}
	}

	return len(errs) == 0, errs
}
