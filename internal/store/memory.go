package store

import (
	"sync"
	"time"

	"warehouse/fiscal-recon/internal/dedupe"
	"warehouse/fiscal-recon/internal/models"
)

var _ DocumentStore = (*MemoryStore)(nil)

// MemoryStore is an in-memory DocumentStore used in tests and dry runs.
type MemoryStore struct {
	mu          sync.Mutex
	collections map[string][]models.FiscalLineRecord

	// Error flags for testing error conditions
	InsertError  error
	RecordsError error
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string][]models.FiscalLineRecord)}
}

// Insert appends records to the named collection.
func (m *MemoryStore) Insert(collection string, records []models.FiscalLineRecord) (int, error) {
	if m.InsertError != nil {
		return 0, m.InsertError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	stamp(records, time.Now())
	m.collections[collection] = append(m.collections[collection], records...)
	return len(records), nil
}

// Replace swaps the collection content for the given records.
func (m *MemoryStore) Replace(collection string, records []models.FiscalLineRecord) (int, error) {
	if m.InsertError != nil {
		return 0, m.InsertError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	stamp(records, time.Now())
	m.collections[collection] = append([]models.FiscalLineRecord(nil), records...)
	return len(records), nil
}

// Records returns a copy of the collection ordered by creation date.
func (m *MemoryStore) Records(collection string) ([]models.FiscalLineRecord, error) {
	if m.RecordsError != nil {
		return nil, m.RecordsError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	records := append([]models.FiscalLineRecord(nil), m.collections[collection]...)
	dedupe.SortByCreationAsc(records)
	return records, nil
}

// Find returns the records of a collection matching the filter.
func (m *MemoryStore) Find(collection string, filter Filter) ([]models.FiscalLineRecord, error) {
	records, err := m.Records(collection)
	if err != nil {
		return nil, err
	}
	return filterRecords(records, filter)
}

// Count returns the collection size.
func (m *MemoryStore) Count(collection string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.collections[collection]), nil
}

// RemoveDuplicates keeps the oldest record per unique key.
func (m *MemoryStore) RemoveDuplicates(collection string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	records := append([]models.FiscalLineRecord(nil), m.collections[collection]...)
	dedupe.SortByCreationAsc(records)
	kept := dedupe.Records(records)
	removed := len(records) - len(kept)
	m.collections[collection] = kept
	return removed, nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error {
	return nil
}
