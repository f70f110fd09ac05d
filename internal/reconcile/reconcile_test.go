package reconcile

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warehouse/fiscal-recon/internal/models"
)

func invoiceLine(key, doc, po, description string) models.FiscalLineRecord {
	return models.FiscalLineRecord{
		Kind:           models.KindNFe,
		DocumentNumber: doc,
		UniqueKey:      key,
		ReferencePO:    po,
		Description:    description,
	}
}

func TestJoinEnrichesFromPO(t *testing.T) {
	invoices := []models.FiscalLineRecord{
		invoiceLine("100-1-parafuso", "100", "4501000001", "PARAFUSO M8"),
	}
	poRecords := []models.FiscalLineRecord{
		{
			Kind:                 models.KindPO,
			DocumentNumber:       "4501000001",
			UniqueKey:            "4501000001-10",
			CostCenter:           "CC100",
			WBSElement:           "C-BR-654321-001-2024-002",
			ProjectLabel:         "Projeto Caldeira",
			ReferenceProjectCode: "654321",
			GroupTotalValue:      decimal.RequireFromString("190"),
			GroupTotalWithTaxes:  decimal.RequireFromString("240"),
			GroupTotalQuantity:   decimal.RequireFromString("5"),
		},
	}

	joined := NewJoiner().Join(invoices, poRecords, nil)
	require.Len(t, joined, 1)

	row := joined[0]
	assert.Equal(t, "654321", row.POProjectCode)
	assert.Equal(t, "CC100", row.POCostCenter)
	assert.Equal(t, "C-BR-654321-001-2024-002", row.POWBSElement)
	assert.Equal(t, "Projeto Caldeira", row.POProjectLabel)
	assert.True(t, decimal.RequireFromString("190").Equal(row.POTotalNet))
	assert.True(t, decimal.RequireFromString("240").Equal(row.POTotalWithTaxes))
	assert.True(t, decimal.RequireFromString("5").Equal(row.POTotalQuantity))
}

func TestJoinRecoversProjectLabelWithoutPOMatch(t *testing.T) {
	invoices := []models.FiscalLineRecord{
		{
			UniqueKey:            "200-1-valvula",
			DocumentNumber:       "200",
			ReferencePO:          "4509999999", // no such PO
			ReferenceProjectCode: "654321",
			Description:          "VALVULA",
		},
	}
	poRecords := []models.FiscalLineRecord{
		{
			DocumentNumber:       "4501000001",
			ReferenceProjectCode: "654321",
			ProjectLabel:         "Projeto Caldeira",
		},
	}

	joined := NewJoiner().Join(invoices, poRecords, nil)
	require.Len(t, joined, 1)

	assert.Equal(t, "", joined[0].POCostCenter)
	assert.Equal(t, "Projeto Caldeira", joined[0].POProjectLabel)
}

func TestJoinAttachesCategories(t *testing.T) {
	invoices := []models.FiscalLineRecord{
		invoiceLine("100-1", "100", "", "PARAFUSO SEXTAVADO M8 AÇO"),
		invoiceLine("100-2", "100", "", "MANGUEIRA HIDRAULICA"),
	}
	categories := []models.CategoryRecord{
		{Tag: "parafuso", Group: "Fixadores", Subgroup: "Parafusos", ImageURL: "https://img/parafuso.png"},
		{Tag: "mangueira hidraulica", Group: "Hidráulica"},
	}

	joined := NewJoiner().Join(invoices, nil, categories)
	require.Len(t, joined, 2)

	assert.Equal(t, "Fixadores", joined[0].CategoryGroup)
	assert.Equal(t, "Parafusos", joined[0].CategorySubgroup)
	assert.Equal(t, "https://img/parafuso.png", joined[0].ImageURL)
	assert.Equal(t, "Hidráulica", joined[1].CategoryGroup)
	assert.Equal(t, "", joined[1].CategorySubgroup)
}

func TestJoinCategoryFanOutIsDeduplicated(t *testing.T) {
	invoices := []models.FiscalLineRecord{
		invoiceLine("100-1", "100", "", "PARAFUSO M8"),
	}
	categories := []models.CategoryRecord{
		{Tag: "parafuso", Group: "Fixadores"},
		{Tag: "parafuso", Group: "Duplicada"},
	}

	joined := NewJoiner().Join(invoices, nil, categories)
	require.Len(t, joined, 1)
	assert.Equal(t, "Fixadores", joined[0].CategoryGroup)
}

func TestJoinEmptyInputsIsIdentity(t *testing.T) {
	invoices := []models.FiscalLineRecord{
		invoiceLine("100-1", "100", "4501000001", "PARAFUSO"),
	}

	joined := NewJoiner().Join(invoices, nil, nil)
	require.Len(t, joined, 1)

	row := joined[0]
	assert.Equal(t, "100-1", row.UniqueKey)
	assert.Equal(t, "", row.POProjectCode)
	assert.Equal(t, "", row.POCostCenter)
	assert.Equal(t, "", row.CategoryGroup)
	assert.Equal(t, "", row.ImageURL)
}

func TestJoinTotality(t *testing.T) {
	older := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := older.Add(24 * time.Hour)

	invoices := []models.FiscalLineRecord{
		{UniqueKey: "a", DocumentNumber: "1", CreationDate: newer, Description: "REPETIDO"},
		{UniqueKey: "a", DocumentNumber: "1", CreationDate: older, Description: "REPETIDO"},
		{UniqueKey: "b", DocumentNumber: "2", CreationDate: older},
		{UniqueKey: "c", DocumentNumber: "3", CreationDate: older},
	}

	joined := NewJoiner().Join(invoices, nil, nil)
	assert.Len(t, joined, 3)

	seen := make(map[string]bool)
	for _, row := range joined {
		seen[row.UniqueKey] = true
	}
	assert.Len(t, seen, 3)
}

func TestJoinKeepsOldestDuplicate(t *testing.T) {
	older := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	invoices := []models.FiscalLineRecord{
		{UniqueKey: "a", VendorName: "NOVO", CreationDate: older.Add(time.Hour)},
		{UniqueKey: "a", VendorName: "ANTIGO", CreationDate: older},
	}

	joined := NewJoiner().Join(invoices, nil, nil)
	require.Len(t, joined, 1)
	assert.Equal(t, "ANTIGO", joined[0].VendorName)
}
