package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"warehouse/fiscal-recon/internal/models"
)

func TestFilename(t *testing.T) {
	now := time.Date(2025, 3, 10, 14, 30, 5, 123*int(time.Millisecond), time.UTC)
	assert.Equal(t, "nfspdf_10032025143005123.xlsx", Filename("nfspdf", "xlsx", now))
	assert.Equal(t, "po_10032025143005123.csv", Filename("po", "csv", now))
}

func sampleReconciled() []models.ReconciledRecord {
	return []models.ReconciledRecord{
		{
			FiscalLineRecord: models.FiscalLineRecord{
				Kind:           models.KindNFe,
				DocumentNumber: "100",
				LineIndex:      1,
				Description:    "PARAFUSO M8",
				NCM:            "73181500",
				Quantity:       decimal.RequireFromString("10"),
				UnitPrice:      decimal.RequireFromString("2.5"),
				TotalPrice:     decimal.RequireFromString("25"),
				InvoiceTotal:   decimal.RequireFromString("35"),
				Issuer:         models.Party{Name: "ANDRITZ BRASIL LTDA", TaxID: "12345678000190"},
				IssueDate:      time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
				ReferencePO:    "4501000001",
				UniqueKey:      "100-1-parafuso-m8",
				Category:       "Remessa para Manutenção",
			},
			POProjectCode:  "654321",
			POCostCenter:   "CC100",
			POProjectLabel: "Projeto Caldeira",
			POTotalNet:     decimal.RequireFromString("190"),
			CategoryGroup:  "Fixadores",
		},
	}
}

func TestInvoiceRowsMapping(t *testing.T) {
	rows := InvoiceRows(sampleReconciled())
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "100", row.InvoiceNumber)
	assert.Equal(t, "1", row.LineIndex)
	assert.Equal(t, "PARAFUSO M8", row.MaterialName)
	assert.Equal(t, "10/03/2025", row.IssueDate)
	assert.Equal(t, "4501000001", row.PO)
	assert.Equal(t, "654321", row.ProjectCode)
	assert.Equal(t, "Projeto Caldeira", row.ShipProject)
	assert.Equal(t, "Fixadores", row.Group)
	assert.Equal(t, "190", row.POValueReceived)
}

func TestPORowsMapping(t *testing.T) {
	records := []models.FiscalLineRecord{
		{
			Kind:                models.KindPO,
			DocumentNumber:      "4501000001",
			LineIndex:           10,
			Description:         "CHAVE DE FENDA",
			Quantity:            decimal.RequireFromString("4"),
			UnitPrice:           decimal.RequireFromString("25"),
			TotalPrice:          decimal.RequireFromString("100"),
			GroupTotalValue:     decimal.RequireFromString("100"),
			GroupTotalWithTaxes: decimal.RequireFromString("120"),
			UniqueKey:           "4501000001-10",
		},
	}

	rows := PORows(records)
	require.Len(t, rows, 1)

	assert.Equal(t, "4501000001", rows[0].PurchasingDocument)
	assert.Equal(t, "10", rows[0].Item)
	assert.Equal(t, "25", rows[0].UnitValue)
	assert.Equal(t, "R$ 25,00", rows[0].UnitValueFormatted)
	assert.Equal(t, "R$ 120,00", rows[0].TotalWithTaxesFormatted)
}

func TestServiceInvoiceRowsMapping(t *testing.T) {
	records := []models.FiscalLineRecord{
		{
			Kind:           models.KindNFSe,
			DocumentNumber: "12345",
			Description:    "Manutenção industrial",
			TotalPrice:     decimal.RequireFromString("1234.56"),
			NetValue:       decimal.RequireFromString("1234.56"),
			Issuer:         models.Party{Name: "SERVICOS TECNICOS LTDA", TaxID: "12.345.678/0001-90"},
			ReferencePO:    "4501123456",
			UniqueKey:      "12345-12-345-678-0001-90",
			SourceFile:     "nota.pdf",
		},
	}

	rows := ServiceInvoiceRows(records)
	require.Len(t, rows, 1)

	assert.Equal(t, "12345", rows[0].InvoiceNumber)
	assert.Equal(t, "1234.56", rows[0].ServiceValue)
	assert.Equal(t, "4501123456", rows[0].PO)
	assert.Equal(t, "nota.pdf", rows[0].SourceFile)
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "xml.csv")
	require.NoError(t, WriteCSV(InvoiceRows(sampleReconciled()), path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "url_imagens,Nota Fiscal,Item Nf"))
	assert.Contains(t, lines[1], "PARAFUSO M8")
	assert.Contains(t, lines[1], "4501000001")
}

func TestWriteCSVNilRows(t *testing.T) {
	err := WriteCSV[InvoiceRow](nil, filepath.Join(t.TempDir(), "out.csv"))
	assert.Error(t, err)
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "xml.xlsx")
	require.NoError(t, WriteXLSX(InvoiceRows(sampleReconciled()), path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "url_imagens", rows[0][0])
	assert.Equal(t, "Nota Fiscal", rows[0][1])
	assert.Equal(t, "100", rows[1][1])
}
