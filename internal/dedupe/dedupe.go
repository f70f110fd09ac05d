// Package dedupe removes records sharing a derived key, keeping the first
// occurrence in input order. Callers wanting "oldest wins" semantics sort by
// creation time ascending before deduplicating; the store-facing paths use
// SortByCreationAsc so both ingest and cleanup agree on that policy.
package dedupe

import (
	"sort"

	"warehouse/fiscal-recon/internal/models"
)

// ByKey returns the records whose key has not been seen before, preserving
// input order. Stable and deterministic for a fixed input order; applying it
// twice yields the same result as applying it once.
func ByKey[T any](records []T, keyFn func(T) string) []T {
	if len(records) == 0 {
		return records
	}

	seen := make(map[string]struct{}, len(records))
	kept := make([]T, 0, len(records))
	for _, record := range records {
		key := keyFn(record)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, record)
	}
	return kept
}

// RemovedCount reports how many records ByKey would drop.
func RemovedCount[T any](records []T, keyFn func(T) string) int {
	return len(records) - len(ByKey(records, keyFn))
}

// SortByCreationAsc orders records by creation time ascending so that a
// subsequent ByKey keeps the oldest record per key. Records without a
// creation time sort first and keep their relative order.
func SortByCreationAsc(records []models.FiscalLineRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreationDate.Before(records[j].CreationDate)
	})
}

// Records deduplicates fiscal line records on their unique key.
func Records(records []models.FiscalLineRecord) []models.FiscalLineRecord {
	return ByKey(records, func(r models.FiscalLineRecord) string { return r.UniqueKey })
}
