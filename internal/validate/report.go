package validate

import (
	"fmt"
	"strings"
	"time"

	"github.com/selam-analytics/fidata/internal/model"
)

// CheckResult is the outcome of a single validation check.
type CheckResult struct {
	Passed bool     `json:"passed"`
	Errors []string `json:"errors"`
}

// Report aggregates one validation run over a batch. It is a transient
// value owned by the caller; validators keep no state between runs.
type Report struct {
	TotalRecords int         `json:"total_records"`
	AllValid     bool        `json:"all_valid"`
	AsOf         time.Time   `json:"as_of"`
	Schema       CheckResult `json:"schema_validation"`
	PillarRules  CheckResult `json:"pillar_validation"`
	RecordTypes  CheckResult `json:"record_type_validation"`
}

// Status maps the report outcome onto the enrichment-log status value.
func (r *Report) Status() model.ValidationStatus {
	if r.AllValid {
		return model.ValidationPassed
	}
	return model.ValidationFailed
}

// Render formats the report for the console.
func (r *Report) Render() string {
	var b strings.Builder
	rule := strings.Repeat("=", 72)

	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "DATA VALIDATION REPORT")
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "Records validated: %d (as of %s)\n\n", r.TotalRecords, r.AsOf.Format(time.RFC3339))

	renderCheck(&b, "Schema", r.Schema)
	renderCheck(&b, "Pillar rules", r.PillarRules)
	renderCheck(&b, "Record types", r.RecordTypes)

	fmt.Fprintln(&b, rule)
	if r.AllValid {
		fmt.Fprintln(&b, "ALL VALIDATIONS PASSED")
	} else {
		fmt.Fprintln(&b, "VALIDATION FAILED - see errors above")
	}
	fmt.Fprintln(&b, rule)
	return b.String()
}

func renderCheck(b *strings.Builder, name string, c CheckResult) {
	if c.Passed {
		fmt.Fprintf(b, "[ok]   %s validation passed\n", name)
		return
	}
	fmt.Fprintf(b, "[FAIL] %s validation failed:\n", name)
	for _, e := range c.Errors {
		fmt.Fprintf(b, "       - %s\n", e)
	}
}
