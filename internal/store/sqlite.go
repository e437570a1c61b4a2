// Package store implements the concrete TT dump/load backends named by
// spec.md §6's tt_read_path/tt_write_path options beyond the raw binary
// format internal/tt.Table.Save/Load already provides directly: a
// modernc.org/sqlite-backed "proof book" that durably mirrors the same
// dump contract onto a SQL table, selected by a sqlite:// path.
package store

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	_ "modernc.org/sqlite"

	"mateengine/internal/tt"
)

// SQLiteStore durably persists whole-table dumps as a single BLOB row,
// keyed by a caller-chosen slot name so one database file can hold more
// than one saved session (e.g. "root", "bench-mate15").
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (creating if necessary) the sqlite database at
// path and ensures its schema exists.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite %q: %w", path, err)
	}
	const schema = `
CREATE TABLE IF NOT EXISTS proofs (
	slot       TEXT PRIMARY KEY,
	dump       BLOB NOT NULL,
	written_at INTEGER NOT NULL
);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: migrate sqlite schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

// Save serializes table via its own binary dump format and upserts it
// into slot, retrying transient I/O errors (spec.md §7's permanent vs.
// transient distinction: retry-go only retries errors wrapped as
// temporary by the caller's classification, never a malformed-blob or
// schema error).
func (s *SQLiteStore) Save(ctx context.Context, slot string, table *tt.Table) error {
	var buf bytes.Buffer
	if err := table.Save(&buf); err != nil {
		return fmt.Errorf("store: serialize table: %w", err)
	}
	blob := buf.Bytes()

	return retry.Do(
		func() error {
			_, err := s.db.ExecContext(ctx,
				`INSERT INTO proofs (slot, dump, written_at) VALUES (?, ?, ?)
				 ON CONFLICT(slot) DO UPDATE SET dump = excluded.dump, written_at = excluded.written_at`,
				slot, blob, time.Now().Unix())
			return err
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.RetryIf(isTemporary),
	)
}

// Load fetches slot and replaces table's contents, per the same
// "silently ignored, start empty" policy as tt.Table.Load (spec.md §7):
// a missing slot or corrupt blob returns an error and table is left
// untouched.
func (s *SQLiteStore) Load(ctx context.Context, slot string, table *tt.Table) error {
	var blob []byte
	err := retry.Do(
		func() error {
			row := s.db.QueryRowContext(ctx, `SELECT dump FROM proofs WHERE slot = ?`, slot)
			return row.Scan(&blob)
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.RetryIf(isTemporary),
	)
	if err != nil {
		return fmt.Errorf("store: load slot %q: %w", slot, err)
	}
	return table.Load(bytes.NewReader(blob))
}

// temporary is the predicate internal/store's retry wrapping looks for
// (spec.md §7): only errors a caller explicitly marks transient are
// retried, never a permanent failure like a missing row or bad schema.
type temporary interface{ Temporary() bool }

func isTemporary(err error) bool {
	t, ok := err.(temporary)
	return ok && t.Temporary()
}
