package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warehouse/fiscal-recon/internal/models"
)

func filterFixture() []models.FiscalLineRecord {
	return []models.FiscalLineRecord{
		{
			Kind:           models.KindNFe,
			DocumentNumber: "100",
			Description:    "MANGUEIRA HIDRÁULICA 1/2",
			CFOP:           "5915",
			Issuer:         models.Party{Name: "ANDRITZ BRASIL LTDA"},
			UniqueKey:      "100-1",
		},
		{
			Kind:           models.KindNFe,
			DocumentNumber: "101",
			Description:    "PARAFUSO M8",
			CFOP:           "5102",
			Issuer:         models.Party{Name: "FORNECEDOR ABC"},
			UniqueKey:      "101-1",
		},
		{
			Kind:           models.KindNFe,
			DocumentNumber: "102",
			Description:    "MANGUEIRA DE JARDIM",
			CFOP:           "6102",
			Issuer:         models.Party{Name: "FORNECEDOR ABC"},
			UniqueKey:      "102-1",
		},
	}
}

func TestFindEquality(t *testing.T) {
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Insert(CollectionNFe, filterFixture())
			require.NoError(t, err)

			records, err := s.Find(CollectionNFe, Filter{
				Equals: map[string]string{"document_number": "101"},
			})
			require.NoError(t, err)
			require.Len(t, records, 1)
			assert.Equal(t, "PARAFUSO M8", records[0].Description)
		})
	}
}

func TestFindInMembership(t *testing.T) {
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Insert(CollectionNFe, filterFixture())
			require.NoError(t, err)

			records, err := s.Find(CollectionNFe, Filter{
				In: map[string][]string{"cfop": {"5915", "6102"}},
			})
			require.NoError(t, err)
			assert.Len(t, records, 2)
		})
	}
}

func TestFindFragmentsAnyOrderAccentInsensitive(t *testing.T) {
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Insert(CollectionNFe, filterFixture())
			require.NoError(t, err)

			records, err := s.Find(CollectionNFe, Filter{
				Fragments: map[string]string{"description": "hidraulica mangueira"},
			})
			require.NoError(t, err)
			require.Len(t, records, 1)
			assert.Equal(t, "100", records[0].DocumentNumber)
		})
	}
}

func TestFindNestedFieldAndZeroFilter(t *testing.T) {
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Insert(CollectionNFe, filterFixture())
			require.NoError(t, err)

			records, err := s.Find(CollectionNFe, Filter{
				Equals: map[string]string{"issuer.name": "FORNECEDOR ABC"},
			})
			require.NoError(t, err)
			assert.Len(t, records, 2)

			all, err := s.Find(CollectionNFe, Filter{})
			require.NoError(t, err)
			assert.Len(t, all, 3)
		})
	}
}

func TestFindNoMatch(t *testing.T) {
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Insert(CollectionNFe, filterFixture())
			require.NoError(t, err)

			records, err := s.Find(CollectionNFe, Filter{
				Equals: map[string]string{"document_number": "999"},
			})
			require.NoError(t, err)
			assert.Empty(t, records)
		})
	}
}

func TestRecordsPagedReads(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "fiscal.db"), 10)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	s.SetExportChunkSize(2)

	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	var records []models.FiscalLineRecord
	for i := 0; i < 5; i++ {
		records = append(records, models.FiscalLineRecord{
			DocumentNumber: "100",
			LineIndex:      i + 1,
			UniqueKey:      "k",
			CreationDate:   base.Add(time.Duration(i) * time.Minute),
		})
	}
	_, err = s.Insert(CollectionNFe, records)
	require.NoError(t, err)

	loaded, err := s.Records(CollectionNFe)
	require.NoError(t, err)
	require.Len(t, loaded, 5)
	for i, record := range loaded {
		assert.Equal(t, i+1, record.LineIndex)
	}
}
