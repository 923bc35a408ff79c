// Package store persists per-book review state in a local SQLite database:
// rows the translator deleted from a merged table, words they marked as
// never-to-link, and a history of fetched remote documents. The state
// survives regeneration, so a re-run of the pipeline can re-apply the
// translator's decisions.
//
// Two SQLite drivers are supported: pure Go modernc.org/sqlite by default,
// and mattn/go-sqlite3 when built with -tags cgo_sqlite.
package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/scripturetools/twlforge/core/errors"
	"github.com/scripturetools/twlforge/core/tsv"
)

const schema = `
CREATE TABLE IF NOT EXISTS deleted_rows (
	id          TEXT PRIMARY KEY,
	book        TEXT NOT NULL,
	reference   TEXT NOT NULL,
	orig_words  TEXT NOT NULL,
	occurrence  TEXT NOT NULL,
	created_at  TEXT NOT NULL,
	UNIQUE (book, reference, orig_words, occurrence)
);
CREATE TABLE IF NOT EXISTS unlinked_words (
	id          TEXT PRIMARY KEY,
	book        TEXT NOT NULL,
	orig_words  TEXT NOT NULL,
	created_at  TEXT NOT NULL,
	UNIQUE (book, orig_words)
);
CREATE TABLE IF NOT EXISTS fetches (
	id          TEXT PRIMARY KEY,
	url         TEXT NOT NULL,
	blob_key    TEXT NOT NULL,
	fetched_at  TEXT NOT NULL
);
`

// DriverName returns the SQL driver name in use.
func DriverName() string {
	return driverName
}

// DriverPackage returns the import path of the active SQLite driver.
func DriverPackage() string {
	return driverPackage
}

// Store is a handle to the review-state database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the review-state database at path.
// Use ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "initializing review-state schema")
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// MarkRowDeleted records that the translator removed the row identified by
// key from a merged table of the given book. Marking the same row twice is
// a no-op. Returns the marker's record ID.
func (s *Store) MarkRowDeleted(ctx context.Context, book string, key tsv.MatchKey) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO deleted_rows (id, book, reference, orig_words, occurrence, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (book, reference, orig_words, occurrence) DO NOTHING`,
		id, book, key.Reference, key.OrigWords, key.Occurrence, now())
	if err != nil {
		return "", errors.Wrap(err, "marking row deleted")
	}
	return id, nil
}

// UnmarkRowDeleted removes a deletion marker.
func (s *Store) UnmarkRowDeleted(ctx context.Context, book string, key tsv.MatchKey) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM deleted_rows WHERE book = ? AND reference = ? AND orig_words = ? AND occurrence = ?`,
		book, key.Reference, key.OrigWords, key.Occurrence)
	return errors.Wrap(err, "unmarking row deleted")
}

// DeletedRows returns the match keys of every row deleted from the book.
func (s *Store) DeletedRows(ctx context.Context, book string) ([]tsv.MatchKey, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT reference, orig_words, occurrence FROM deleted_rows WHERE book = ?`, book)
	if err != nil {
		return nil, errors.Wrap(err, "listing deleted rows")
	}
	defer rows.Close()

	var keys []tsv.MatchKey
	for rows.Next() {
		var k tsv.MatchKey
		if err := rows.Scan(&k.Reference, &k.OrigWords, &k.Occurrence); err != nil {
			return nil, errors.Wrap(err, "scanning deleted row")
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// MarkWordUnlinked records that a source word should never produce a link
// for this book. Returns the marker's record ID.
func (s *Store) MarkWordUnlinked(ctx context.Context, book, origWords string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO unlinked_words (id, book, orig_words, created_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (book, orig_words) DO NOTHING`,
		id, book, origWords, now())
	if err != nil {
		return "", errors.Wrap(err, "marking word unlinked")
	}
	return id, nil
}

// UnlinkedWords returns every word marked as unlinked for the book.
func (s *Store) UnlinkedWords(ctx context.Context, book string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT orig_words FROM unlinked_words WHERE book = ?`, book)
	if err != nil {
		return nil, errors.Wrap(err, "listing unlinked words")
	}
	defer rows.Close()

	var words []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, errors.Wrap(err, "scanning unlinked word")
		}
		words = append(words, w)
	}
	return words, rows.Err()
}

// RecordFetch logs a fetched remote document and the cache blob holding it.
func (s *Store) RecordFetch(ctx context.Context, url, blobKey string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO fetches (id, url, blob_key, fetched_at) VALUES (?, ?, ?, ?)`,
		id, url, blobKey, now())
	if err != nil {
		return "", errors.Wrap(err, "recording fetch")
	}
	return id, nil
}

// ApplyMarkers filters a merged table down to the rows the translator has
// not deleted and whose words are not marked unlinked. The input table is
// not mutated.
func ApplyMarkers(t *tsv.Table, deleted []tsv.MatchKey, unlinked []string) *tsv.Table {
	deletedSet := make(map[tsv.MatchKey]bool, len(deleted))
	for _, k := range deleted {
		deletedSet[k] = true
	}
	unlinkedSet := make(map[string]bool, len(unlinked))
	for _, w := range unlinked {
		unlinkedSet[w] = true
	}

	rows := make([][]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		key := tsv.RowMatchKey(row)
		if deletedSet[key] || unlinkedSet[key.OrigWords] {
			continue
		}
		rows = append(rows, row)
	}
	return tsv.New(t.Headers, rows)
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
