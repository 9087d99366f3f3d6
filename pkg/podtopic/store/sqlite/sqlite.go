package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/podtopic/pkg/podtopic/internalerr"
	"github.com/cognicore/podtopic/pkg/podtopic/store"
)

// timeLayout sorts lexically in time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	// Enable foreign keys
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS bundles (
	id TEXT PRIMARY KEY,
	format INTEGER NOT NULL,
	created_at TEXT NOT NULL,
	stopwords TEXT NOT NULL,
	exclusions TEXT NOT NULL,
	stop_fingerprint TEXT NOT NULL,
	vocab_fingerprint TEXT NOT NULL,
	num_topics INTEGER NOT NULL,
	vocab_size INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS bundles_created ON bundles(created_at);

CREATE TABLE IF NOT EXISTS vocabulary (
	bundle_id TEXT NOT NULL,
	id INTEGER NOT NULL,
	token TEXT NOT NULL,
	PRIMARY KEY(bundle_id, id),
	FOREIGN KEY(bundle_id) REFERENCES bundles(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS models (
	bundle_id TEXT PRIMARY KEY,
	body BLOB NOT NULL,
	FOREIGN KEY(bundle_id) REFERENCES bundles(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS labels (
	bundle_id TEXT NOT NULL,
	topic INTEGER NOT NULL,
	label TEXT NOT NULL,
	PRIMARY KEY(bundle_id, topic),
	FOREIGN KEY(bundle_id) REFERENCES bundles(id) ON DELETE CASCADE
);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveBundle writes every part of b in one transaction.
func (s *sqliteStore) SaveBundle(ctx context.Context, b *store.Bundle) error {
	p, err := store.Disassemble(b)
	if err != nil {
		return err
	}
	stops, err := json.Marshal(p.Normalizer.Stopwords)
	if err != nil {
		return err
	}
	excl, err := json.Marshal(p.Normalizer.Exclusions)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM bundles WHERE id = ?`, p.ID).Scan(&exists)
	if err != nil {
		return err
	}
	if exists > 0 {
		return fmt.Errorf("bundle %s: %w", p.ID, internalerr.ErrDuplicate)
	}

	const stmt = `
INSERT INTO bundles (id, format, created_at, stopwords, exclusions, stop_fingerprint,
	vocab_fingerprint, num_topics, vocab_size)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);
`
	_, err = tx.ExecContext(ctx, stmt,
		p.ID,
		p.FormatVersion,
		p.CreatedAt.Format(timeLayout),
		string(stops),
		string(excl),
		p.Normalizer.Fingerprint,
		p.VocabFingerprint,
		len(p.Labels),
		len(p.Tokens),
	)
	if err != nil {
		return err
	}

	if err := insertVocabulary(ctx, tx, p.ID, p.Tokens); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO models (bundle_id, body) VALUES (?, ?)`, p.ID, p.Model); err != nil {
		return err
	}
	if err := insertLabels(ctx, tx, p.ID, p.Labels); err != nil {
		return err
	}

	return tx.Commit()
}

func insertVocabulary(ctx context.Context, tx *sql.Tx, bundleID string, tokens []string) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO vocabulary (bundle_id, id, token) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for id, tok := range tokens {
		if _, err := stmt.ExecContext(ctx, bundleID, id, tok); err != nil {
			return err
		}
	}
	return nil
}

func insertLabels(ctx context.Context, tx *sql.Tx, bundleID string, labels []string) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO labels (bundle_id, topic, label) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for topic, l := range labels {
		if _, err := stmt.ExecContext(ctx, bundleID, topic, l); err != nil {
			return err
		}
	}
	return nil
}

// LoadBundle reads a bundle inside one read transaction and assembles it.
func (s *sqliteStore) LoadBundle(ctx context.Context, id string) (*store.Bundle, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if id == "" {
		err := tx.QueryRowContext(ctx, `SELECT id FROM bundles ORDER BY created_at DESC, id DESC LIMIT 1`).Scan(&id)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.NotFound("")
		}
		if err != nil {
			return nil, err
		}
	}

	var (
		p              store.Parts
		created        string
		stops, exclude string
	)
	err = tx.QueryRowContext(ctx, `
SELECT id, format, created_at, stopwords, exclusions, stop_fingerprint, vocab_fingerprint
FROM bundles WHERE id = ?`, id).Scan(
		&p.ID, &p.FormatVersion, &created, &stops, &exclude, &p.Normalizer.Fingerprint, &p.VocabFingerprint,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.NotFound(id)
	}
	if err != nil {
		return nil, err
	}

	if p.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
		return nil, &internalerr.LoadError{Artifact: "bundle", Source: id, Err: err}
	}
	if err := json.Unmarshal([]byte(stops), &p.Normalizer.Stopwords); err != nil {
		return nil, &internalerr.LoadError{Artifact: "normalizer", Source: id, Err: err}
	}
	if err := json.Unmarshal([]byte(exclude), &p.Normalizer.Exclusions); err != nil {
		return nil, &internalerr.LoadError{Artifact: "normalizer", Source: id, Err: err}
	}

	if p.Tokens, err = loadOrdered(ctx, tx, `SELECT id, token FROM vocabulary WHERE bundle_id = ? ORDER BY id`, id); err != nil {
		return nil, &internalerr.LoadError{Artifact: "vocabulary", Source: id, Err: err}
	}
	if p.Labels, err = loadOrdered(ctx, tx, `SELECT topic, label FROM labels WHERE bundle_id = ? ORDER BY topic`, id); err != nil {
		return nil, &internalerr.LoadError{Artifact: "labels", Source: id, Err: err}
	}

	err = tx.QueryRowContext(ctx, `SELECT body FROM models WHERE bundle_id = ?`, id).Scan(&p.Model)
	if err != nil {
		return nil, &internalerr.LoadError{Artifact: "model", Source: id, Err: err}
	}

	return store.Assemble(p)
}

// loadOrdered reads (position, value) rows and checks that positions are
// dense and start at zero.
func loadOrdered(ctx context.Context, tx *sql.Tx, query, bundleID string) ([]string, error) {
	rows, err := tx.QueryContext(ctx, query, bundleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var (
			pos int
			val string
		)
		if err := rows.Scan(&pos, &val); err != nil {
			return nil, err
		}
		if pos != len(out) {
			return nil, fmt.Errorf("gap at position %d", len(out))
		}
		out = append(out, val)
	}
	return out, rows.Err()
}

// ListBundles returns bundle summaries, newest first.
func (s *sqliteStore) ListBundles(ctx context.Context) ([]store.Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, created_at, num_topics, vocab_size
FROM bundles
ORDER BY created_at DESC, id DESC;
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Summary
	for rows.Next() {
		var (
			sum     store.Summary
			created string
		)
		if err := rows.Scan(&sum.ID, &created, &sum.NumTopics, &sum.VocabSize); err != nil {
			return nil, err
		}
		if sum.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
			return nil, fmt.Errorf("bundle %s: %w", sum.ID, err)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}
