package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/matst80/compare-finder/pkg/common/jsoncompat"
	_ "modernc.org/sqlite"
)

const createRecordsTable = `CREATE TABLE IF NOT EXISTS catalog_records (
	category TEXT NOT NULL,
	id TEXT NOT NULL,
	position INTEGER NOT NULL,
	data TEXT NOT NULL,
	PRIMARY KEY (category, id)
)`

// SQLiteStorage reads catalogs from the catalog_records table, one json
// document per record, ordered by position.
type SQLiteStorage struct {
	db *sql.DB
}

func OpenSQLiteStorage(ctx context.Context, path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// a single connection keeps ":memory:" databases shared between calls
	db.SetMaxOpenConns(1)
	s, err := NewSQLiteStorage(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func NewSQLiteStorage(ctx context.Context, db *sql.DB) (*SQLiteStorage, error) {
	if _, err := db.ExecContext(ctx, createRecordsTable); err != nil {
		return nil, fmt.Errorf("create catalog_records: %w", err)
	}
	return &SQLiteStorage{db: db}, nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func (s *SQLiteStorage) Fetch(ctx context.Context, category string) ([]map[string]any, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, data FROM catalog_records WHERE category = ? ORDER BY position, id`, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]map[string]any, 0)
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, err
		}
		item := map[string]any{}
		if err := jsoncompat.Unmarshal([]byte(data), &item); err != nil {
			return nil, fmt.Errorf("record %s/%s: %w", category, id, err)
		}
		if _, ok := item["id"]; !ok {
			item["id"] = id
		}
		records = append(records, item)
	}
	return records, rows.Err()
}

// Store replaces the records of a category in one transaction.
func (s *SQLiteStorage) Store(ctx context.Context, category string, records []map[string]any) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, `DELETE FROM catalog_records WHERE category = ?`, category); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO catalog_records (category, id, position, data) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, item := range records {
		data, err := jsoncompat.Marshal(item)
		if err != nil {
			return err
		}
		if _, err = stmt.ExecContext(ctx, category, fmt.Sprint(item["id"]), i, string(data)); err != nil {
			return fmt.Errorf("insert %s record %d: %w", category, i, err)
		}
	}
	return tx.Commit()
}
