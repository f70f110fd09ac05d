package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"warehouse/fiscal-recon/internal/logging"
	"warehouse/fiscal-recon/internal/models"
	"warehouse/fiscal-recon/internal/parsererror"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	collection    TEXT NOT NULL,
	unique_key    TEXT NOT NULL,
	creation_date TEXT NOT NULL,
	doc           TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_documents_collection_key
	ON documents (collection, unique_key);
`

const (
	defaultInsertBatchSize = 500
	defaultExportChunkSize = 1000
)

var _ DocumentStore = (*SQLiteStore)(nil)

// SQLiteStore implements DocumentStore on a single local database file.
type SQLiteStore struct {
	db              *sql.DB
	insertBatchSize int
	exportChunkSize int
}

// OpenSQLite opens or creates the database at the given path and ensures the
// schema exists. A batchSize of zero uses the default.
func OpenSQLite(dbPath string, batchSize int) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("execute schema: %w", err)
	}

	if batchSize <= 0 {
		batchSize = defaultInsertBatchSize
	}
	return &SQLiteStore{
		db:              db,
		insertBatchSize: batchSize,
		exportChunkSize: defaultExportChunkSize,
	}, nil
}

// SetExportChunkSize overrides how many documents are read per page when
// loading a collection.
func (s *SQLiteStore) SetExportChunkSize(size int) {
	if size > 0 {
		s.exportChunkSize = size
	}
}

// Insert appends records in batches inside a single transaction per batch.
func (s *SQLiteStore) Insert(collection string, records []models.FiscalLineRecord) (int, error) {
	stamp(records, time.Now())

	inserted := 0
	for start := 0; start < len(records); start += s.insertBatchSize {
		end := start + s.insertBatchSize
		if end > len(records) {
			end = len(records)
		}
		if err := s.insertBatch(collection, records[start:end]); err != nil {
			return inserted, err
		}
		inserted += end - start
	}

	log.Debug("Inserted records",
		logging.Field{Key: logging.FieldCollection, Value: collection},
		logging.Field{Key: logging.FieldCount, Value: inserted})
	return inserted, nil
}

func (s *SQLiteStore) insertBatch(collection string, records []models.FiscalLineRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return &parsererror.PersistenceError{Collection: collection, Operation: "insert", Err: err}
	}
	stmt, err := tx.Prepare(`INSERT INTO documents (collection, unique_key, creation_date, doc) VALUES (?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return &parsererror.PersistenceError{Collection: collection, Operation: "insert", Err: err}
	}
	defer func() {
		if err := stmt.Close(); err != nil {
			log.WithError(err).Warn("Failed to close statement")
		}
	}()

	for i := range records {
		doc, err := json.Marshal(&records[i])
		if err != nil {
			_ = tx.Rollback()
			return &parsererror.PersistenceError{Collection: collection, Operation: "marshal", Err: err}
		}
		creation := records[i].CreationDate.UTC().Format(time.RFC3339Nano)
		if _, err := stmt.Exec(collection, records[i].UniqueKey, creation, string(doc)); err != nil {
			_ = tx.Rollback()
			return &parsererror.PersistenceError{Collection: collection, Operation: "insert", Err: err}
		}
	}
	if err := tx.Commit(); err != nil {
		return &parsererror.PersistenceError{Collection: collection, Operation: "commit", Err: err}
	}
	return nil
}

// Replace swaps the collection content for the given records.
func (s *SQLiteStore) Replace(collection string, records []models.FiscalLineRecord) (int, error) {
	if _, err := s.db.Exec(`DELETE FROM documents WHERE collection = ?`, collection); err != nil {
		return 0, &parsererror.PersistenceError{Collection: collection, Operation: "delete", Err: err}
	}
	return s.Insert(collection, records)
}

// Records loads the whole collection ordered by creation date, then insert
// order, so duplicate resolution downstream is deterministic. Reads are paged
// so a large collection never materializes in one result set.
func (s *SQLiteStore) Records(collection string) ([]models.FiscalLineRecord, error) {
	var records []models.FiscalLineRecord
	for offset := 0; ; offset += s.exportChunkSize {
		page, err := s.recordsPage(collection, s.exportChunkSize, offset)
		if err != nil {
			return nil, err
		}
		records = append(records, page...)
		if len(page) < s.exportChunkSize {
			return records, nil
		}
	}
}

func (s *SQLiteStore) recordsPage(collection string, limit, offset int) ([]models.FiscalLineRecord, error) {
	rows, err := s.db.Query(
		`SELECT doc FROM documents WHERE collection = ? ORDER BY creation_date ASC, id ASC LIMIT ? OFFSET ?`,
		collection, limit, offset)
	if err != nil {
		return nil, &parsererror.PersistenceError{Collection: collection, Operation: "query", Err: err}
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.WithError(err).Warn("Failed to close rows")
		}
	}()

	var records []models.FiscalLineRecord
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, &parsererror.PersistenceError{Collection: collection, Operation: "scan", Err: err}
		}
		var record models.FiscalLineRecord
		if err := json.Unmarshal([]byte(doc), &record); err != nil {
			return nil, &parsererror.PersistenceError{Collection: collection, Operation: "unmarshal", Err: err}
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, &parsererror.PersistenceError{Collection: collection, Operation: "scan", Err: err}
	}
	return records, nil
}

// Find returns the records of a collection matching the filter.
func (s *SQLiteStore) Find(collection string, filter Filter) ([]models.FiscalLineRecord, error) {
	records, err := s.Records(collection)
	if err != nil {
		return nil, err
	}
	matched, err := filterRecords(records, filter)
	if err != nil {
		return nil, &parsererror.PersistenceError{Collection: collection, Operation: "filter", Err: err}
	}
	return matched, nil
}

// Count returns the collection size.
func (s *SQLiteStore) Count(collection string) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM documents WHERE collection = ?`, collection).Scan(&count)
	if err != nil {
		return 0, &parsererror.PersistenceError{Collection: collection, Operation: "count", Err: err}
	}
	return count, nil
}

// RemoveDuplicates keeps the oldest record per unique key and deletes the
// rest. Ties on creation date resolve to the earliest inserted row.
func (s *SQLiteStore) RemoveDuplicates(collection string) (int, error) {
	result, err := s.db.Exec(`
		DELETE FROM documents WHERE id IN (
			SELECT id FROM (
				SELECT id, ROW_NUMBER() OVER (
					PARTITION BY unique_key
					ORDER BY creation_date ASC, id ASC
				) AS rank
				FROM documents
				WHERE collection = ?
			) WHERE rank > 1
		)`, collection)
	if err != nil {
		return 0, &parsererror.PersistenceError{Collection: collection, Operation: "dedupe", Err: err}
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return 0, &parsererror.PersistenceError{Collection: collection, Operation: "dedupe", Err: err}
	}

	if removed > 0 {
		log.Info("Removed duplicate records",
			logging.Field{Key: logging.FieldCollection, Value: collection},
			logging.Field{Key: logging.FieldDuplicates, Value: removed})
	}
	return int(removed), nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
