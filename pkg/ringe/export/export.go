// Package export stores token streams in a SQLite index so scans can be
// queried with SQL.
package export

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sambeau/ringe/pkg/ringe/errors"
	"github.com/sambeau/ringe/pkg/ringe/lexer"

	_ "modernc.org/sqlite"
)

// Index is a token index backed by a SQLite database.
type Index struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens or creates the index at path. ":memory:" gives a private
// in-memory index.
func Open(path string) (*Index, error) {
	connStr := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		connStr = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps ":memory:" a single database.
	db.SetMaxOpenConns(1)

	idx := &Index{db: db}
	if err := idx.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating token index schema: %w", err)
	}

	return idx, nil
}

func (idx *Index) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS tokens (
			file TEXT NOT NULL,
			seq INTEGER NOT NULL,
			kind TEXT NOT NULL,
			text TEXT NOT NULL,
			start_offset INTEGER NOT NULL,
			start_line INTEGER NOT NULL,
			start_col INTEGER NOT NULL,
			end_offset INTEGER NOT NULL,
			end_line INTEGER NOT NULL,
			end_col INTEGER NOT NULL,
			PRIMARY KEY (file, seq)
		);

		CREATE TABLE IF NOT EXISTS errors (
			file TEXT NOT NULL,
			code TEXT NOT NULL,
			message TEXT NOT NULL,
			"offset" INTEGER NOT NULL,
			line INTEGER NOT NULL,
			col INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_tokens_kind ON tokens(kind);
		CREATE INDEX IF NOT EXISTS idx_errors_file ON errors(file);
	`
	_, err := idx.db.Exec(schema)
	return err
}

// Write replaces everything stored for file with tokens and errs in a
// single transaction.
func (idx *Index) Write(ctx context.Context, file string, tokens []lexer.SpannedToken, errs []*errors.LexicalError) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	tx, err := idx.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tokens WHERE file = ?`, file); err != nil {
		return fmt.Errorf("failed to clear tokens for %s: %w", file, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM errors WHERE file = ?`, file); err != nil {
		return fmt.Errorf("failed to clear errors for %s: %w", file, err)
	}

	tokStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO tokens(file, seq, kind, text, start_offset, start_line, start_col, end_offset, end_line, end_col)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare token statement: %w", err)
	}
	defer tokStmt.Close()

	for i, tok := range tokens {
		_, err := tokStmt.ExecContext(ctx, file, i, tok.Token.Type.String(), tok.Token.Literal,
			tok.Start.Offset, tok.Start.Line, tok.Start.Column,
			tok.End.Offset, tok.End.Line, tok.End.Column)
		if err != nil {
			return fmt.Errorf("failed to insert token %d of %s: %w", i, file, err)
		}
	}

	errStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO errors(file, code, message, "offset", line, col)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare error statement: %w", err)
	}
	defer errStmt.Close()

	for _, e := range errs {
		if _, err := errStmt.ExecContext(ctx, file, e.Code, e.Message, e.Offset, e.Line, e.Column); err != nil {
			return fmt.Errorf("failed to insert error for %s: %w", file, err)
		}
	}

	return tx.Commit()
}

// Count returns the number of tokens stored for file.
func (idx *Index) Count(ctx context.Context, file string) (int, error) {
	return idx.count(ctx, `SELECT COUNT(*) FROM tokens WHERE file = ?`, file)
}

// ErrorCount returns the number of lexical errors stored for file.
func (idx *Index) ErrorCount(ctx context.Context, file string) (int, error) {
	return idx.count(ctx, `SELECT COUNT(*) FROM errors WHERE file = ?`, file)
}

func (idx *Index) count(ctx context.Context, query, file string) (int, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	var n int
	if err := idx.db.QueryRowContext(ctx, query, file).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count rows for %s: %w", file, err)
	}
	return n, nil
}

// Kinds returns how many tokens of each kind are stored for file.
func (idx *Index) Kinds(ctx context.Context, file string) (map[string]int, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	rows, err := idx.db.QueryContext(ctx, `
		SELECT kind, COUNT(*) FROM tokens WHERE file = ? GROUP BY kind
	`, file)
	if err != nil {
		return nil, fmt.Errorf("failed to query kinds for %s: %w", file, err)
	}
	defer rows.Close()

	kinds := make(map[string]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		kinds[kind] = n
	}
	return kinds, rows.Err()
}

// Close closes the database.
func (idx *Index) Close() error {
	return idx.db.Close()
}
