// Package store persists parsed fiscal records between pipeline stages. Each
// parser family writes into its own collection; the reconciliation stage
// reads collections back and writes the joined result. Records are stored as
// JSON documents so parser field additions never require a schema migration.
package store

import (
	"time"

	"warehouse/fiscal-recon/internal/logging"
	"warehouse/fiscal-recon/internal/models"
)

var log = logging.GetLogger()

// SetLogger allows setting a custom logger for this package
func SetLogger(logger logging.Logger) {
	if logger != nil {
		log = logger
	}
}

// Collection names used by the pipeline stages.
const (
	CollectionNFe        = "xml"
	CollectionNFSe       = "nfspdf"
	CollectionPO         = "po"
	CollectionReconciled = "reconciled"
)

// DocumentStore is the persistence boundary of the pipeline. Implementations
// must keep insertion order stable so the oldest-record-wins duplicate policy
// is reproducible.
type DocumentStore interface {
	// Insert appends records to a collection, stamping a creation date on
	// records that do not carry one. Returns the number of stored records.
	Insert(collection string, records []models.FiscalLineRecord) (int, error)

	// Replace atomically swaps the collection content for the given records.
	Replace(collection string, records []models.FiscalLineRecord) (int, error)

	// Records returns all records of a collection ordered by creation date.
	Records(collection string) ([]models.FiscalLineRecord, error)

	// Find returns the records of a collection matching the filter, in
	// creation order. A zero filter behaves like Records.
	Find(collection string, filter Filter) ([]models.FiscalLineRecord, error)

	// Count returns the number of records in a collection.
	Count(collection string) (int, error)

	// RemoveDuplicates deletes all but the oldest record per unique key and
	// returns how many were removed.
	RemoveDuplicates(collection string) (int, error)

	// Close releases the underlying resources.
	Close() error
}

// stamp fills missing creation dates so duplicate resolution stays ordered.
func stamp(records []models.FiscalLineRecord, now time.Time) {
	for i := range records {
		if records[i].CreationDate.IsZero() {
			records[i].CreationDate = now
		}
	}
}
