// Package storage keeps attendance documents as cell grids in SQLite.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"attendance/internal/sheets"

	_ "modernc.org/sqlite"
)

const (
	kindString = "string"
	kindNumber = "number"
)

// SQLiteRepository is a sheets.Document backed by a SQLite database. A
// document path is only a key; nothing is written to that path on disk.
type SQLiteRepository struct {
	db *sql.DB
}

var (
	_ sheets.Document       = (*SQLiteRepository)(nil)
	_ sheets.DocumentLister = (*SQLiteRepository)(nil)
)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// WriteDocument replaces every cell of the document at path in a single
// transaction.
func (r *SQLiteRepository) WriteDocument(ctx context.Context, path string, g *sheets.Grid) error {
	if g == nil {
		return fmt.Errorf("write %s: nil grid", path)
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM cells WHERE document_path = ?`, path); err != nil {
		return fmt.Errorf("delete cells: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO documents (path, title, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET title = excluded.title, updated_at = excluded.updated_at`,
		path, g.Title, time.Now().UTC()); err != nil {
		return fmt.Errorf("upsert document: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO cells (document_path, row_num, col_num, kind, text_value, number_value) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare cell insert: %w", err)
	}
	defer stmt.Close()

	var werr error
	n := 0
	g.Each(func(row, col int, c sheets.Cell) {
		if werr != nil {
			return
		}
		var (
			kind = kindString
			text sql.NullString
			num  sql.NullFloat64
		)
		if c.IsNumber() {
			kind = kindNumber
			num = sql.NullFloat64{Float64: c.Number, Valid: true}
		} else {
			text = sql.NullString{String: c.Text, Valid: true}
		}
		_, werr = stmt.ExecContext(ctx, path, row, col, kind, text, num)
		n++
	})
	if werr != nil {
		return fmt.Errorf("insert cell: %w", werr)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	slog.DebugContext(ctx, "Document saved to SQLite", "path", path, "title", g.Title, "cells", n)
	return nil
}

// ReadDocument rebuilds the grid stored under path.
func (r *SQLiteRepository) ReadDocument(ctx context.Context, path string) (*sheets.Grid, error) {
	var title string
	err := r.db.QueryRowContext(ctx, `SELECT title FROM documents WHERE path = ?`, path).Scan(&title)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("read %s: %w", path, sheets.ErrDocumentNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read document %s: %w", path, err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT row_num, col_num, kind, text_value, number_value FROM cells
		 WHERE document_path = ? ORDER BY row_num, col_num`, path)
	if err != nil {
		return nil, fmt.Errorf("query cells: %w", err)
	}
	defer rows.Close()

	g := sheets.NewGrid(title)
	for rows.Next() {
		var (
			row, col int
			kind     string
			text     sql.NullString
			num      sql.NullFloat64
		)
		if err := rows.Scan(&row, &col, &kind, &text, &num); err != nil {
			return nil, fmt.Errorf("scan cell: %w", err)
		}
		if kind == kindNumber {
			g.Set(row, col, sheets.Number(num.Float64))
		} else {
			g.Set(row, col, sheets.Text(text.String))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cells: %w", err)
	}
	return g, nil
}

// ListDocuments returns the stored document paths in lexical order.
func (r *SQLiteRepository) ListDocuments(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT path FROM documents ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
