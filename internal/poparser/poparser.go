// Package poparser ingests purchase-order extracts exported from the ERP as
// XLSX or CSV tables. Rows are keyed by purchase document and item number;
// rows whose document number is not numeric are discarded as report noise
// (subtotals, page headers). Derived unit values and per-document rollups are
// computed after deduplication.
package poparser

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"

	"warehouse/fiscal-recon/internal/aggregate"
	"warehouse/fiscal-recon/internal/currencyutils"
	"warehouse/fiscal-recon/internal/dateutils"
	"warehouse/fiscal-recon/internal/dedupe"
	"warehouse/fiscal-recon/internal/keys"
	"warehouse/fiscal-recon/internal/logging"
	"warehouse/fiscal-recon/internal/models"
	"warehouse/fiscal-recon/internal/parsererror"
	"warehouse/fiscal-recon/internal/refextract"
)

var log = logging.GetLogger()

// SetLogger allows setting a custom logger for this package
func SetLogger(logger logging.Logger) {
	if logger != nil {
		log = logger
	}
}

// Column headers as exported by the ERP report.
const (
	colPurchasingDocument  = "Purchasing Document"
	colItem                = "Item"
	colSupplier            = "Supplier"
	colVendorName          = "Vendor Name"
	colMaterial            = "Material"
	colMaterialDescription = "Material Description"
	colOrderQuantity       = "Order Quantity"
	colOrderUnit           = "Order Unit"
	colControlCode         = "Control Code (NCM)"
	colProjectCode         = "Project Code"
	colWBSElement          = "Andritz WBS Element"
	colCostCenter          = "Cost Center"
	colDocumentDate        = "Document Date"
	colCreatedBy           = "PO Created by"
	colRequisition         = "Purchase Requisition"
	colGrossPrice          = "Gross Price"
	colTaxConditionAmount  = "PBXX Condition Amount"
	colNetOrderValue       = "Net order value"
	colPurchasingGroup     = "Purchasing Group"
	colPlant               = "Plant"
)

// poRow mirrors one raw extract row. CSV tags carry the ERP header names.
type poRow struct {
	PurchasingDocument  string `csv:"Purchasing Document"`
	Item                string `csv:"Item"`
	Supplier            string `csv:"Supplier"`
	VendorName          string `csv:"Vendor Name"`
	Material            string `csv:"Material"`
	MaterialDescription string `csv:"Material Description"`
	OrderQuantity       string `csv:"Order Quantity"`
	OrderUnit           string `csv:"Order Unit"`
	ControlCode         string `csv:"Control Code (NCM)"`
	ProjectCode         string `csv:"Project Code"`
	WBSElement          string `csv:"Andritz WBS Element"`
	CostCenter          string `csv:"Cost Center"`
	DocumentDate        string `csv:"Document Date"`
	CreatedBy           string `csv:"PO Created by"`
	Requisition         string `csv:"Purchase Requisition"`
	GrossPrice          string `csv:"Gross Price"`
	TaxConditionAmount  string `csv:"PBXX Condition Amount"`
	NetOrderValue       string `csv:"Net order value"`
	PurchasingGroup     string `csv:"Purchasing Group"`
	Plant               string `csv:"Plant"`
}

// Parser converts purchase-order extracts into fiscal line records.
type Parser struct {
	delimiter rune
}

// New creates a Parser reading CSV extracts with the given delimiter.
// A zero delimiter defaults to comma.
func New(delimiter rune) *Parser {
	if delimiter == 0 {
		delimiter = ','
	}
	return &Parser{delimiter: delimiter}
}

// ParseFile dispatches on the file extension: .xlsx and .xlsm go through the
// spreadsheet reader, anything else is treated as delimited text.
func (p *Parser) ParseFile(path string) ([]models.FiscalLineRecord, error) {
	log.Info("Parsing PO extract", logging.Field{Key: logging.FieldFile, Value: path})

	var rows []poRow
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		rows, err = readXLSX(path)
	default:
		rows, err = p.readCSV(path)
	}
	if err != nil {
		return nil, err
	}

	records := p.Process(rows)
	for i := range records {
		records[i].SourceFile = path
	}

	log.Info("Parsed PO extract",
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(records)})
	return records, nil
}

// Process converts raw rows into records: non-numeric purchase documents are
// dropped, unit values derived, duplicates removed keeping the oldest row,
// and per-document totals attached to every surviving line.
func (p *Parser) Process(rows []poRow) []models.FiscalLineRecord {
	var records []models.FiscalLineRecord
	dropped := 0
	for i := range rows {
		record, ok := recordFromRow(&rows[i])
		if !ok {
			dropped++
			continue
		}
		records = append(records, record)
	}
	if dropped > 0 {
		log.Debug("Dropped rows without a numeric purchase document",
			logging.Field{Key: logging.FieldCount, Value: dropped})
	}

	dedupe.SortByCreationAsc(records)
	records = dedupe.Records(records)

	aggregate.Rollup(records,
		func(r *models.FiscalLineRecord) string { return r.DocumentNumber },
		aggregate.POFields()...)

	return records
}

func recordFromRow(row *poRow) (models.FiscalLineRecord, bool) {
	document := digitsOnly(row.PurchasingDocument)
	if document == "" {
		return models.FiscalLineRecord{}, false
	}
	item := digitsOnly(row.Item)

	record := models.FiscalLineRecord{
		Kind:           models.KindPO,
		DocumentNumber: document,
		MaterialCode:   digitsOnly(row.Material),
		Description:    strings.TrimSpace(row.MaterialDescription),
		NCM:            strings.TrimSpace(row.ControlCode),
		Unit:           strings.TrimSpace(row.OrderUnit),

		Supplier:        strings.TrimSpace(row.Supplier),
		VendorName:      strings.TrimSpace(row.VendorName),
		CostCenter:      strings.TrimSpace(row.CostCenter),
		WBSElement:      strings.TrimSpace(row.WBSElement),
		ProjectLabel:    strings.TrimSpace(row.ProjectCode),
		PurchasingGroup: strings.TrimSpace(row.PurchasingGroup),
		Plant:           strings.TrimSpace(row.Plant),
		Requisition:     strings.TrimSpace(row.Requisition),
		CreatedBy:       strings.TrimSpace(row.CreatedBy),
	}

	if n, err := strconv.Atoi(item); err == nil {
		record.LineIndex = n
	}

	record.Quantity = currencyutils.ParseBrazilianAmount(row.OrderQuantity)
	record.GrossPrice = currencyutils.ParseBrazilianAmount(row.GrossPrice)
	record.TaxConditionAmount = currencyutils.ParseBrazilianAmount(row.TaxConditionAmount)
	record.TotalPrice = currencyutils.ParseBrazilianAmount(row.NetOrderValue)

	// Unit value from the net line value; the extract's own price column is
	// per price-unit and not comparable across suppliers.
	if !record.Quantity.IsZero() {
		record.UnitPrice = record.TotalPrice.Div(record.Quantity)
	}
	record.LineValueWithTaxes = record.TaxConditionAmount.Mul(record.Quantity)

	if created, err := dateutils.ParseDateString(row.DocumentDate); err == nil {
		record.IssueDate = created
		record.CreationDate = created
	}

	record.ReferenceProjectCode = refextract.ProjectCode(record.WBSElement)
	record.UniqueKey = keys.PurchaseOrder(document, item)

	return record, true
}

// readXLSX reads the first sheet of a spreadsheet extract, mapping columns by
// header name so the report's column order does not matter.
func readXLSX(path string) ([]poRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &parsererror.InvalidFormatError{
			FilePath:       path,
			ExpectedFormat: "XLSX",
			Msg:            err.Error(),
		}
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Warn("Failed to close spreadsheet")
		}
	}()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, &parsererror.ValidationError{FilePath: path, Reason: "spreadsheet has no sheets"}
	}
	cells, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(cells) == 0 {
		return nil, nil
	}

	header := make(map[string]int, len(cells[0]))
	for i, name := range cells[0] {
		header[strings.TrimSpace(name)] = i
	}

	getCell := func(row []string, name string) string {
		index, ok := header[name]
		if !ok || index >= len(row) {
			return ""
		}
		return row[index]
	}

	rows := make([]poRow, 0, len(cells)-1)
	for _, row := range cells[1:] {
		rows = append(rows, poRow{
			PurchasingDocument:  getCell(row, colPurchasingDocument),
			Item:                getCell(row, colItem),
			Supplier:            getCell(row, colSupplier),
			VendorName:          getCell(row, colVendorName),
			Material:            getCell(row, colMaterial),
			MaterialDescription: getCell(row, colMaterialDescription),
			OrderQuantity:       getCell(row, colOrderQuantity),
			OrderUnit:           getCell(row, colOrderUnit),
			ControlCode:         getCell(row, colControlCode),
			ProjectCode:         getCell(row, colProjectCode),
			WBSElement:          getCell(row, colWBSElement),
			CostCenter:          getCell(row, colCostCenter),
			DocumentDate:        getCell(row, colDocumentDate),
			CreatedBy:           getCell(row, colCreatedBy),
			Requisition:         getCell(row, colRequisition),
			GrossPrice:          getCell(row, colGrossPrice),
			TaxConditionAmount:  getCell(row, colTaxConditionAmount),
			NetOrderValue:       getCell(row, colNetOrderValue),
			PurchasingGroup:     getCell(row, colPurchasingGroup),
			Plant:               getCell(row, colPlant),
		})
	}
	return rows, nil
}

// readCSV reads a delimited extract through gocsv so the same header names
// drive the column mapping.
func (p *Parser) readCSV(path string) ([]poRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open extract: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close file")
		}
	}()

	var rows []poRow
	reader := csv.NewReader(file)
	reader.Comma = p.delimiter
	reader.LazyQuotes = true
	if err := gocsv.UnmarshalCSV(reader, &rows); err != nil {
		return nil, &parsererror.InvalidFormatError{
			FilePath:       path,
			ExpectedFormat: "CSV",
			Msg:            err.Error(),
		}
	}
	return rows, nil
}

func digitsOnly(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return strings.TrimLeft(b.String(), "0")
}
