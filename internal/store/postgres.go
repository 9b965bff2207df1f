package store

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/selam-analytics/fidata/internal/db"
	"github.com/selam-analytics/fidata/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool db.Pool
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS records (
	record_id        TEXT PRIMARY KEY,
	record_type      TEXT NOT NULL,
	pillar           TEXT,
	indicator        TEXT NOT NULL,
	indicator_code   TEXT NOT NULL,
	value_type       TEXT NOT NULL,
	value_numeric    DOUBLE PRECISION,
	value_text       TEXT,
	category         TEXT,
	observation_date TIMESTAMPTZ NOT NULL,
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
	timestamp         TIMESTAMPTZ NOT NULL,
	record_id         TEXT NOT NULL,
	record_type       TEXT NOT NULL,
	action            TEXT NOT NULL,
	pillar            TEXT,
	indicator         TEXT NOT NULL,
	indicator_code    TEXT NOT NULL,
	value             TEXT NOT NULL,
	observation_date  TIMESTAMPTZ NOT NULL,
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

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) InsertRecords(ctx context.Context, records []model.Record) (int64, error) {
	rows := make([][]any, 0, len(records))
	for _, rec := range records {
		rows = append(rows, recordRow(rec))
	}
	n, err := db.CopyFrom(ctx, s.pool, "records", recordColumns, rows)
	return n, eris.Wrap(err, "postgres: insert records")
}

func (s *PostgresStore) ListRecords(ctx context.Context, filter RecordFilter) ([]model.Record, error) {
	query := `SELECT ` + strings.Join(recordColumns, ", ") + ` FROM records WHERE 1=1`
	var args []any

	if filter.RecordType != "" {
		args = append(args, string(filter.RecordType))
		query += ` AND record_type = $` + itoa(len(args))
	}
	if filter.Pillar != "" {
		args = append(args, string(filter.Pillar))
		query += ` AND pillar = $` + itoa(len(args))
	}
	if filter.IndicatorCode != "" {
		args = append(args, filter.IndicatorCode)
		query += ` AND indicator_code = $` + itoa(len(args))
	}
	query += ` ORDER BY observation_date`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += ` LIMIT $` + itoa(len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list records")
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
	return records, eris.Wrap(rows.Err(), "postgres: list records iterate")
}

func (s *PostgresStore) InsertImpactLinks(ctx context.Context, links []model.ImpactLink) (int64, error) {
	rows := make([][]any, 0, len(links))
	for _, l := range links {
		rows = append(rows, []any{l.ParentID, l.ChildID, l.ImpactDirection, l.LagMonths, l.Strength, nullString(l.Notes)})
	}
	n, err := db.CopyFrom(ctx, s.pool, "impact_links",
		[]string{"parent_id", "child_id", "impact_direction", "lag_months", "strength", "notes"}, rows)
	return n, eris.Wrap(err, "postgres: insert impact links")
}

func (s *PostgresStore) ListImpactLinks(ctx context.Context) ([]model.ImpactLink, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT parent_id, child_id, impact_direction, lag_months, strength, notes
		 FROM impact_links ORDER BY parent_id, child_id`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list impact links")
	}
	defer rows.Close()

	var links []model.ImpactLink
	for rows.Next() {
		var l model.ImpactLink
		var strength, notes *string
		if err := rows.Scan(&l.ParentID, &l.ChildID, &l.ImpactDirection, &l.LagMonths, &strength, &notes); err != nil {
			return nil, eris.Wrap(err, "postgres: scan impact link")
		}
		l.Strength = strength
		if notes != nil {
			l.Notes = *notes
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

func (s *PostgresStore) AppendLog(ctx context.Context, entries []model.LogEntry) error {
	rows := make([][]any, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, logRow(e))
	}
	_, err := db.CopyFrom(ctx, s.pool, "enrichment_log", logColumns, rows)
	return eris.Wrap(err, "postgres: append log")
}

func (s *PostgresStore) ListLog(ctx context.Context, limit int) ([]model.LogEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx,
		`SELECT `+strings.Join(logColumns, ", ")+` FROM enrichment_log
		 ORDER BY timestamp DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list log")
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
	return entries, eris.Wrap(rows.Err(), "postgres: list log iterate")
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
