package loader

import (
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/selam-analytics/fidata/internal/model"
)

// dateLayouts are tried in order when coercing a cell to a date. Cells
// that match none of them become the zero time; the schema validator
// reports those as missing observation_date rather than failing the
// load.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
	"2006/01/02",
	"Jan 2, 2006",
}

// ParseRecords maps header-addressed rows onto records. The mapping is
// lenient by design: unknown columns are ignored and unparseable cells
// become unset fields, keeping the parse total over any sheet so the
// validator owns all data-quality reporting.
func ParseRecords(header []string, rows [][]string) []model.Record {
	idx := headerIndex(header)

	records := make([]model.Record, 0, len(rows))
	for _, row := range rows {
		if emptyRow(row) {
			continue
		}
		cell := func(name string) string {
			i, ok := idx[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		rec := model.Record{
			RecordID:        cell("record_id"),
			RecordType:      model.RecordType(strings.ToLower(cell("record_type"))),
			Pillar:          model.Pillar(strings.ToUpper(cell("pillar"))),
			Indicator:       cell("indicator"),
			IndicatorCode:   cell("indicator_code"),
			ValueType:       model.ValueType(strings.ToLower(cell("value_type"))),
			Category:        cell("category"),
			ObservationDate: parseDate(cell("observation_date")),
			Gender:          model.Gender(strings.ToLower(cell("gender"))),
			Location:        model.Location(strings.ToLower(cell("location"))),
			SourceName:      cell("source_name"),
			Confidence:      model.Confidence(strings.ToLower(cell("confidence"))),
		}

		if v, ok := parseFloat(cell("value_numeric")); ok {
			rec.ValueNumeric = &v
		}
		if t := cell("value_text"); t != "" {
			rec.ValueText = &t
		}

		records = append(records, rec)
	}
	return records
}

// ParseImpactLinks maps the impact-link sheet onto links. Rows missing
// either endpoint are dropped with a warning.
func ParseImpactLinks(header []string, rows [][]string) []model.ImpactLink {
	idx := headerIndex(header)

	links := make([]model.ImpactLink, 0, len(rows))
	for _, row := range rows {
		if emptyRow(row) {
			continue
		}
		cell := func(name string) string {
			i, ok := idx[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		link := model.ImpactLink{
			ParentID:        cell("parent_id"),
			ChildID:         cell("child_id"),
			ImpactDirection: strings.ToLower(cell("impact_direction")),
			Notes:           cell("notes"),
		}
		if link.ParentID == "" || link.ChildID == "" {
			zap.L().Warn("impact link missing endpoint, dropped",
				zap.String("parent_id", link.ParentID),
				zap.String("child_id", link.ChildID),
			)
			continue
		}
		if lag, err := strconv.Atoi(cell("lag_months")); err == nil {
			link.LagMonths = lag
		}
		if s := cell("strength"); s != "" {
			link.Strength = &s
		}

		links = append(links, link)
	}
	return links
}

func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return idx
}

func emptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func parseFloat(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	zap.L().Warn("unparseable observation_date", zap.String("value", s))
	return time.Time{}
}
