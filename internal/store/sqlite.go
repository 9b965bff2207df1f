package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/selam-analytics/fidata/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures
// WAL mode. busy_timeout serializes concurrent log appends at the file
// level.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS records (
	record_id        TEXT PRIMARY KEY,
	record_type      TEXT NOT NULL,
	pillar           TEXT,
	indicator        TEXT NOT NULL,
	indicator_code   TEXT NOT NULL,
	value_type       TEXT NOT NULL,
	value_numeric    REAL,
	value_text       TEXT,
	category         TEXT,
	observation_date DATETIME NOT NULL,
	gender           TEXT,
	location         TEXT,
	source_name      TEXT NOT NULL,
	confidence       TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS impact_links (
	parent_id        TEXT NOT NULL,
	child_id         TEXT NOT NULL,
	impact_direction TEXT NOT NULL,
	lag_months       INTEGER NOT NULL,
	strength         TEXT,
	notes            TEXT,
	PRIMARY KEY (parent_id, child_id)
);

CREATE TABLE IF NOT EXISTS enrichment_log (
	id                TEXT PRIMARY KEY,
	timestamp         DATETIME NOT NULL,
	record_id         TEXT NOT NULL,
	record_type       TEXT NOT NULL,
	action            TEXT NOT NULL,
	pillar            TEXT,
	indicator         TEXT NOT NULL,
	indicator_code    TEXT NOT NULL,
	value             TEXT NOT NULL,
	observation_date  DATETIME NOT NULL,
	source            TEXT NOT NULL,
	confidence        TEXT NOT NULL,
	enriched_by       TEXT NOT NULL,
	validation_status TEXT NOT NULL,
	notes             TEXT
);

CREATE INDEX IF NOT EXISTS idx_records_type ON records(record_type);
CREATE INDEX IF NOT EXISTS idx_records_pillar ON records(pillar);
CREATE INDEX IF NOT EXISTS idx_records_indicator_code ON records(indicator_code);
CREATE INDEX IF NOT EXISTS idx_enrichment_log_timestamp ON enrichment_log(timestamp);
CREATE INDEX IF NOT EXISTS idx_enrichment_log_record_id ON enrichment_log(record_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) InsertRecords(ctx context.Context, records []model.Record) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin insert records")
	}
	defer tx.Rollback()

	query := `INSERT INTO records (` + strings.Join(recordColumns, ", ") + `)
		VALUES (` + placeholders(len(recordColumns)) + `)`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare insert record")
	}
	defer stmt.Close()

	var n int64
	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx, recordRow(rec)...); err != nil {
			return 0, eris.Wrapf(err, "sqlite: insert record %s", rec.RecordID)
		}
		n++
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit insert records")
	}
	return n, nil
}

func (s *SQLiteStore) ListRecords(ctx context.Context, filter RecordFilter) ([]model.Record, error) {
	query := `SELECT ` + strings.Join(recordColumns, ", ") + ` FROM records WHERE 1=1`
	var args []any

	if filter.RecordType != "" {
		query += ` AND record_type = ?`
		args = append(args, string(filter.RecordType))
	}
	if filter.Pillar != "" {
		query += ` AND pillar = ?`
		args = append(args, string(filter.Pillar))
	}
	if filter.IndicatorCode != "" {
		query += ` AND indicator_code = ?`
		args = append(args, filter.IndicatorCode)
	}
	query += ` ORDER BY observation_date`

	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list records")
	}
	defer rows.Close()

	var records []model.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, eris.Wrap(rows.Err(), "sqlite: list records iterate")
}

func (s *SQLiteStore) InsertImpactLinks(ctx context.Context, links []model.ImpactLink) (int64, error) {
	if len(links) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin insert links")
	}
	defer tx.Rollback()

	var n int64
	for _, l := range links {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO impact_links (parent_id, child_id, impact_direction, lag_months, strength, notes)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			l.ParentID, l.ChildID, l.ImpactDirection, l.LagMonths, l.Strength, nullString(l.Notes),
		)
		if err != nil {
			return 0, eris.Wrapf(err, "sqlite: insert link %s->%s", l.ParentID, l.ChildID)
		}
		n++
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit insert links")
	}
	return n, nil
}

func (s *SQLiteStore) ListImpactLinks(ctx context.Context) ([]model.ImpactLink, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT parent_id, child_id, impact_direction, lag_months, strength, notes
		 FROM impact_links ORDER BY parent_id, child_id`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list impact links")
	}
	defer rows.Close()

	var links []model.ImpactLink
	for rows.Next() {
		var l model.ImpactLink
		var strength, notes sql.NullString
		if err := rows.Scan(&l.ParentID, &l.ChildID, &l.ImpactDirection, &l.LagMonths, &strength, &notes); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan impact link")
		}
		if strength.Valid {
			l.Strength = &strength.String
		}
		l.Notes = notes.String
		links = append(links, l)
	}
	return links, rows.Err()
}

func (s *SQLiteStore) AppendLog(ctx context.Context, entries []model.LogEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin append log")
	}
	defer tx.Rollback()

	query := `INSERT INTO enrichment_log (` + strings.Join(logColumns, ", ") + `)
		VALUES (` + placeholders(len(logColumns)) + `)`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare append log")
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, logRow(e)...); err != nil {
			return eris.Wrapf(err, "sqlite: append log entry for %s", e.RecordID)
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit append log")
}

func (s *SQLiteStore) ListLog(ctx context.Context, limit int) ([]model.LogEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+strings.Join(logColumns, ", ")+` FROM enrichment_log
		 ORDER BY timestamp DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list log")
	}
	defer rows.Close()

	var entries []model.LogEntry
	for rows.Next() {
		e, err := scanLogEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, eris.Wrap(rows.Err(), "sqlite: list log iterate")
}

// helpers

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

type scannable interface {
	Scan(dest ...any) error
}

func scanRecord(row scannable) (model.Record, error) {
	var rec model.Record
	var pillar, valueText, category, gender, location sql.NullString
	var valueNumeric sql.NullFloat64
	var obsDate time.Time

	err := row.Scan(
		&rec.RecordID, &rec.RecordType, &pillar, &rec.Indicator,
		&rec.IndicatorCode, &rec.ValueType, &valueNumeric, &valueText,
		&category, &obsDate, &gender, &location, &rec.SourceName,
		&rec.Confidence,
	)
	if err != nil {
		return rec, eris.Wrap(err, "store: scan record")
	}

	rec.Pillar = model.Pillar(pillar.String)
	rec.Category = category.String
	rec.Gender = model.Gender(gender.String)
	rec.Location = model.Location(location.String)
	rec.ObservationDate = obsDate
	if valueNumeric.Valid {
		rec.ValueNumeric = &valueNumeric.Float64
	}
	if valueText.Valid {
		rec.ValueText = &valueText.String
	}
	return rec, nil
}

func scanLogEntry(row scannable) (model.LogEntry, error) {
	var e model.LogEntry
	var pillar, notes sql.NullString

	err := row.Scan(
		&e.ID, &e.Timestamp, &e.RecordID, &e.RecordType, &e.Action,
		&pillar, &e.Indicator, &e.IndicatorCode, &e.Value,
		&e.ObservationDate, &e.Source, &e.Confidence, &e.EnrichedBy,
		&e.ValidationStatus, &notes,
	)
	if err != nil {
		return e, eris.Wrap(err, "store: scan log entry")
	}

	e.Pillar = model.Pillar(pillar.String)
	e.Notes = notes.String
	return e, nil
}
