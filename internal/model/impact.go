package model

// ImpactLink is a modeled causal relationship between an event and an
// indicator, loaded from the second workbook sheet. The validator does
// not inspect links; they feed the event-correlation analysis.
type ImpactLink struct {
	ParentID        string  `json:"parent_id"`
	ChildID         string  `json:"child_id"`
	ImpactDirection string  `json:"impact_direction"`
	LagMonths       int     `json:"lag_months"`
	Strength        *string `json:"strength,omitempty"`
	Notes           string  `json:"notes,omitempty"`
}
