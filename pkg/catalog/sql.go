package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx"
	_ "modernc.org/sqlite"             // registers "sqlite"

	"github.com/matzehuels/canopy/pkg/botanical"
	"github.com/matzehuels/canopy/pkg/errors"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS plants (
	slug           TEXT PRIMARY KEY,
	botanical_name TEXT NOT NULL,
	common_name    TEXT NOT NULL DEFAULT '',
	leaf_habit     TEXT NOT NULL,
	scale_box_cm   REAL NOT NULL,
	data           TEXT NOT NULL,
	updated_at     TIMESTAMP NOT NULL
)`

const postgresSchema = `
create table if not exists plants (
	slug           text primary key,
	botanical_name text not null,
	common_name    text not null default '',
	leaf_habit     text not null,
	scale_box_cm   double precision not null,
	data           jsonb not null,
	updated_at     timestamptz not null
)`

// SQLSource stores entries in a plants table. The full entry is kept as
// JSON; the listing columns are denormalized beside it.
type SQLSource struct {
	db       *sql.DB
	postgres bool
}

// OpenSQLite opens (creating if needed) the SQLite catalog at path.
func OpenSQLite(ctx context.Context, path string) (*SQLSource, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// modernc serializes writers; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	return newSQLSource(ctx, db, false)
}

// OpenPostgres connects to the PostgreSQL catalog at dsn.
func OpenPostgres(ctx context.Context, dsn string) (*SQLSource, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(time.Hour)
	return newSQLSource(ctx, db, true)
}

func newSQLSource(ctx context.Context, db *sql.DB, postgres bool) (*SQLSource, error) {
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("catalog ping: %w", err)
	}
	schema := sqliteSchema
	if postgres {
		schema = postgresSchema
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("catalog schema: %w", err)
	}
	return &SQLSource{db: db, postgres: postgres}, nil
}

// rebind rewrites ? placeholders as $n for PostgreSQL.
func (s *SQLSource) rebind(q string) string {
	if !s.postgres {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Lookup loads one entry by slug.
func (s *SQLSource) Lookup(ctx context.Context, name string) (*Entry, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT data FROM plants WHERE slug = ?`), Key(name)).Scan(&data)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, notFound(name)
	}
	if err != nil {
		return nil, err
	}
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode catalog entry %q", name)
	}
	return &e, nil
}

// List returns summaries ordered by botanical name.
func (s *SQLSource) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT botanical_name, common_name, leaf_habit, scale_box_cm FROM plants ORDER BY botanical_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var sm Summary
		var habit string
		if err := rows.Scan(&sm.BotanicalName, &sm.CommonName, &habit, &sm.ScaleBoxCM); err != nil {
			return nil, err
		}
		sm.LeafHabit = botanical.LeafHabit(habit)
		out = append(out, sm)
	}
	return out, rows.Err()
}

// Put inserts or replaces e.
func (s *SQLSource) Put(ctx context.Context, e *Entry) error {
	if err := errors.ValidateBotanicalName(e.BotanicalName); err != nil {
		return err
	}
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	q := `INSERT INTO plants (slug, botanical_name, common_name, leaf_habit, scale_box_cm, data, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (slug) DO UPDATE SET
	botanical_name = excluded.botanical_name,
	common_name = excluded.common_name,
	leaf_habit = excluded.leaf_habit,
	scale_box_cm = excluded.scale_box_cm,
	data = excluded.data,
	updated_at = excluded.updated_at`
	if s.postgres {
		q = strings.Replace(q, "?, ?, ?)", "?, ?::jsonb, ?)", 1)
	}
	_, err = s.db.ExecContext(ctx, s.rebind(q),
		Key(e.BotanicalName), e.BotanicalName, e.CommonName, string(e.Params.LeafHabit),
		e.Params.ScaleBoxCM, string(data), time.Now().UTC())
	return err
}

// Close closes the database.
func (s *SQLSource) Close() error { return s.db.Close() }

var (
	_ Source = (*SQLSource)(nil)
	_ Writer = (*SQLSource)(nil)
)
