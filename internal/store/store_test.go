package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warehouse/fiscal-recon/internal/models"
)

func testStores(t *testing.T) map[string]DocumentStore {
	t.Helper()

	sqlite, err := OpenSQLite(filepath.Join(t.TempDir(), "fiscal.db"), 2)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close() })

	return map[string]DocumentStore{
		"sqlite": sqlite,
		"memory": NewMemoryStore(),
	}
}

func record(key string, created time.Time, vendor string) models.FiscalLineRecord {
	return models.FiscalLineRecord{
		Kind:           models.KindPO,
		DocumentNumber: "4501000001",
		UniqueKey:      key,
		VendorName:     vendor,
		CreationDate:   created,
	}
}

func TestInsertAndRecords(t *testing.T) {
	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			inserted, err := s.Insert(CollectionPO, []models.FiscalLineRecord{
				record("a", base.Add(time.Hour), "SECOND"),
				record("b", base, "FIRST"),
				record("c", base.Add(2*time.Hour), "THIRD"),
			})
			require.NoError(t, err)
			assert.Equal(t, 3, inserted)

			records, err := s.Records(CollectionPO)
			require.NoError(t, err)
			require.Len(t, records, 3)

			// ordered by creation date
			assert.Equal(t, "FIRST", records[0].VendorName)
			assert.Equal(t, "THIRD", records[2].VendorName)

			count, err := s.Count(CollectionPO)
			require.NoError(t, err)
			assert.Equal(t, 3, count)
		})
	}
}

func TestInsertStampsCreationDate(t *testing.T) {
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Insert(CollectionNFe, []models.FiscalLineRecord{
				{UniqueKey: "x", DocumentNumber: "100"},
			})
			require.NoError(t, err)

			records, err := s.Records(CollectionNFe)
			require.NoError(t, err)
			require.Len(t, records, 1)
			assert.False(t, records[0].CreationDate.IsZero())
		})
	}
}

func TestReplaceSwapsContent(t *testing.T) {
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Insert(CollectionNFSe, []models.FiscalLineRecord{
				record("old", time.Now(), "OLD"),
			})
			require.NoError(t, err)

			inserted, err := s.Replace(CollectionNFSe, []models.FiscalLineRecord{
				record("new-1", time.Now(), "NEW"),
				record("new-2", time.Now(), "NEW"),
			})
			require.NoError(t, err)
			assert.Equal(t, 2, inserted)

			count, err := s.Count(CollectionNFSe)
			require.NoError(t, err)
			assert.Equal(t, 2, count)
		})
	}
}

func TestRemoveDuplicatesOldestWins(t *testing.T) {
	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Insert(CollectionPO, []models.FiscalLineRecord{
				record("dup", base.Add(time.Hour), "NEWER"),
				record("dup", base, "OLDEST"),
				record("dup", base.Add(2*time.Hour), "NEWEST"),
				record("other", base, "UNTOUCHED"),
			})
			require.NoError(t, err)

			removed, err := s.RemoveDuplicates(CollectionPO)
			require.NoError(t, err)
			assert.Equal(t, 2, removed)

			records, err := s.Records(CollectionPO)
			require.NoError(t, err)
			require.Len(t, records, 2)

			byKey := make(map[string]string)
			for _, r := range records {
				byKey[r.UniqueKey] = r.VendorName
			}
			assert.Equal(t, "OLDEST", byKey["dup"])
			assert.Equal(t, "UNTOUCHED", byKey["other"])
		})
	}
}

func TestRemoveDuplicatesIdempotent(t *testing.T) {
	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Insert(CollectionPO, []models.FiscalLineRecord{
				record("dup", base, "A"),
				record("dup", base.Add(time.Hour), "B"),
			})
			require.NoError(t, err)

			removed, err := s.RemoveDuplicates(CollectionPO)
			require.NoError(t, err)
			assert.Equal(t, 1, removed)

			removed, err = s.RemoveDuplicates(CollectionPO)
			require.NoError(t, err)
			assert.Equal(t, 0, removed)
		})
	}
}

func TestCollectionsAreIsolated(t *testing.T) {
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Insert(CollectionNFe, []models.FiscalLineRecord{record("a", time.Now(), "")})
			require.NoError(t, err)

			count, err := s.Count(CollectionPO)
			require.NoError(t, err)
			assert.Equal(t, 0, count)
		})
	}
}
