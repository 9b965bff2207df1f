// Package loader reads the unified financial-inclusion workbook into
// candidate record batches. Parsing is deliberately forgiving; all
// data-quality judgment belongs to the validate package.
package loader

import (
	"context"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/selam-analytics/fidata/internal/model"
)

// ReferenceCode is one row of the optional reference-codes workbook.
type ReferenceCode struct {
	Code        string `json:"code"`
	Label       string `json:"label"`
	Pillar      string `json:"pillar,omitempty"`
	Description string `json:"description,omitempty"`
}

// Dataset holds everything loaded from disk for one run.
type Dataset struct {
	Records   []model.Record
	Links     []model.ImpactLink
	Reference []ReferenceCode
}

// LoadWorkbooks loads the unified data workbook (records on the first
// sheet, impact links on the second) and, when present, the
// reference-codes workbook. The two files are read concurrently. A
// missing or unreadable reference file is a warning, not an error,
// matching how the dataset is curated in practice.
func LoadWorkbooks(ctx context.Context, dataPath, referencePath string) (*Dataset, error) {
	if _, err := os.Stat(dataPath); err != nil {
		return nil, eris.Wrapf(err, "loader: main data file not found: %s", dataPath)
	}

	n, err := SheetCount(dataPath)
	if err != nil {
		return nil, err
	}
	if n < 2 {
		return nil, eris.Errorf("loader: expected at least 2 sheets in %s, found %d", dataPath, n)
	}

	ds := &Dataset{}
	g, _ := errgroup.WithContext(ctx)

	g.Go(func() error {
		dataRows, err := ReadXLSX(dataPath, XLSXOptions{SheetIndex: 0})
		if err != nil {
			return err
		}
		if len(dataRows) > 0 {
			ds.Records = ParseRecords(dataRows[0], dataRows[1:])
		}

		linkRows, err := ReadXLSX(dataPath, XLSXOptions{SheetIndex: 1})
		if err != nil {
			return err
		}
		if len(linkRows) > 0 {
			ds.Links = ParseImpactLinks(linkRows[0], linkRows[1:])
		}
		return nil
	})

	g.Go(func() error {
		if referencePath == "" {
			return nil
		}
		refRows, err := ReadXLSX(referencePath, XLSXOptions{SheetIndex: 0})
		if err != nil {
			zap.L().Warn("could not load reference codes, continuing without",
				zap.String("path", referencePath),
				zap.Error(err),
			)
			return nil
		}
		if len(refRows) > 0 {
			ds.Reference = parseReferenceCodes(refRows[0], refRows[1:])
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	zap.L().Info("workbooks loaded",
		zap.Int("records", len(ds.Records)),
		zap.Int("impact_links", len(ds.Links)),
		zap.Int("reference_codes", len(ds.Reference)),
	)

	return ds, nil
}

// LoadBatchXLSX loads a candidate batch from a workbook: records on the
// first sheet (or the named sheet) and, when a second sheet exists,
// impact links on it. Unlike LoadWorkbooks this accepts single-sheet
// files, since a batch submission often carries no links.
func LoadBatchXLSX(path, sheetName string) ([]model.Record, []model.ImpactLink, error) {
	dataRows, err := ReadXLSX(path, XLSXOptions{SheetName: sheetName})
	if err != nil {
		return nil, nil, err
	}
	var records []model.Record
	if len(dataRows) > 0 {
		records = ParseRecords(dataRows[0], dataRows[1:])
	}

	var links []model.ImpactLink
	if n, err := SheetCount(path); err == nil && n >= 2 && sheetName == "" {
		linkRows, err := ReadXLSX(path, XLSXOptions{SheetIndex: 1})
		if err != nil {
			return nil, nil, err
		}
		if len(linkRows) > 0 {
			links = ParseImpactLinks(linkRows[0], linkRows[1:])
		}
	}

	return records, links, nil
}

// LoadCSV loads a candidate record batch from a CSV file whose header
// uses the unified sheet's column names.
func LoadCSV(path string) ([]model.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "loader: open %s", path)
	}
	defer f.Close()

	rows, err := ReadCSV(f, CSVOptions{TrimSpace: true})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return ParseRecords(rows[0], rows[1:]), nil
}

func parseReferenceCodes(header []string, rows [][]string) []ReferenceCode {
	idx := headerIndex(header)

	codes := make([]ReferenceCode, 0, len(rows))
	for _, row := range rows {
		if emptyRow(row) {
			continue
		}
		cell := func(name string) string {
			i, ok := idx[name]
			if !ok || i >= len(row) {
				return ""
			}
			return row[i]
		}
		codes = append(codes, ReferenceCode{
			Code:        cell("code"),
			Label:       cell("label"),
			Pillar:      cell("pillar"),
			Description: cell("description"),
		})
	}
	return codes
}
