package main

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/selam-analytics/fidata/internal/loader"
	"github.com/selam-analytics/fidata/internal/model"
	"github.com/selam-analytics/fidata/internal/rules"
	"github.com/selam-analytics/fidata/internal/store"
)

// openStore creates the configured store backend. The local SQLite
// store is migrated on open; Postgres deployments migrate explicitly
// via the migrate command.
func openStore(ctx context.Context) (store.Store, error) {
	st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.Path, cfg.Store.DatabaseURL)
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}
	if cfg.Store.Driver != "postgres" {
		if err := st.Migrate(ctx); err != nil {
			st.Close()
			return nil, err
		}
	}
	return st, nil
}

// loadRules returns the pillar rule set, honoring a configured override
// file.
func loadRules() (*rules.Set, error) {
	if cfg.Rules.Path == "" {
		return rules.Default(), nil
	}
	return rules.LoadFile(cfg.Rules.Path)
}

// loadBatch reads a candidate batch from an XLSX workbook or a CSV file
// depending on the input extension. sheet selects a named worksheet and
// is ignored for CSV input.
func loadBatch(path, sheet string) ([]model.Record, []model.ImpactLink, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		records, err := loader.LoadCSV(path)
		return records, nil, err
	case ".xlsx":
		return loader.LoadBatchXLSX(path, sheet)
	default:
		return nil, nil, eris.Errorf("unsupported input format: %s", path)
	}
}
