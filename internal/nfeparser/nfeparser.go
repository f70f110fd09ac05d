// Package nfeparser extracts fiscal line records from NF-e goods invoices
// (Brazilian electronic invoice XML). One record is produced per <det>
// line-item element; document-level fields are shared across all lines of the
// same invoice. Missing elements map to empty values, never to a parse
// failure, so documents with partial data still yield partial records.
package nfeparser

import (
	"strconv"
	"strings"

	"gopkg.in/xmlpath.v2"

	"warehouse/fiscal-recon/internal/aggregate"
	"warehouse/fiscal-recon/internal/categorizer"
	"warehouse/fiscal-recon/internal/currencyutils"
	"warehouse/fiscal-recon/internal/dateutils"
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

var detPath = xmlpath.MustCompile("//det")

// Parser converts NF-e XML documents into fiscal line records.
type Parser struct {
	categorizer *categorizer.Categorizer
}

// New creates a Parser. The categorizer may be nil, in which case records are
// left uncategorized.
func New(cat *categorizer.Categorizer) *Parser {
	return &Parser{categorizer: cat}
}

// ValidateFormat checks whether the file looks like an NF-e document.
func (p *Parser) ValidateFormat(xmlPath string) (bool, error) {
	root, err := loadXMLFile(xmlPath)
	if err != nil {
		return false, err
	}
	return xmlpath.MustCompile("//infNFe").Exists(root), nil
}

// ParseFile loads and parses one NF-e XML file.
func (p *Parser) ParseFile(xmlPath string) ([]models.FiscalLineRecord, error) {
	log.Info("Parsing NF-e file", logging.Field{Key: logging.FieldFile, Value: xmlPath})

	root, err := loadXMLFile(xmlPath)
	if err != nil {
		return nil, &parsererror.InvalidFormatError{
			FilePath:       xmlPath,
			ExpectedFormat: "NF-e XML",
			Msg:            err.Error(),
		}
	}

	records, err := p.Parse(root)
	if err != nil {
		return nil, err
	}
	for i := range records {
		records[i].SourceFile = xmlPath
	}

	log.Info("Parsed NF-e file",
		logging.Field{Key: logging.FieldFile, Value: xmlPath},
		logging.Field{Key: logging.FieldCount, Value: len(records)})
	return records, nil
}

// Parse extracts one record per <det> element from a parsed NF-e tree.
func (p *Parser) Parse(root *xmlpath.Node) ([]models.FiscalLineRecord, error) {
	if !xmlpath.MustCompile("//infNFe").Exists(root) {
		return nil, &parsererror.InvalidFormatError{
			ExpectedFormat: "NF-e XML",
			Msg:            "no infNFe element found",
		}
	}

	doc := p.documentFields(root)

	var records []models.FiscalLineRecord
	index := 0
	iter := detPath.Iter(root)
	for iter.Next() {
		index++
		det := iter.Node()
		record := doc
		record.LineIndex = lineNumber(det, index)
		record.MaterialCode = first(det, "prod/cProd")
		record.Description = first(det, "prod/xProd")
		record.NCM = first(det, "prod/NCM")
		record.CFOP = first(det, "prod/CFOP")
		record.Unit = first(det, "prod/uCom")
		record.Quantity = currencyutils.ParseBrazilianAmount(first(det, "prod/qCom"))
		record.UnitPrice = currencyutils.ParseBrazilianAmount(first(det, "prod/vUnCom"))
		record.TotalPrice = currencyutils.ParseBrazilianAmount(first(det, "prod/vProd"))

		// Purchase-order references hide in the line remark, the order
		// reference element and the document-level additional info.
		remark := joinNonEmpty(" ", first(det, "infAdProd"), first(det, "prod/xPed"), doc.Remarks)
		record.ReferencePO = refextract.FirstPOReference(remark)
		record.ReferenceProjectCode = refextract.ProjectCode(remark)

		record.UniqueKey = keys.LineItem(record.DocumentNumber, record.LineIndex, record.Description)
		if p.categorizer != nil {
			record.Category = p.categorizer.Categorize(&record)
		}

		records = append(records, record)
	}

	refextract.ResolveDocumentPO(records)
	aggregate.Rollup(records,
		func(r *models.FiscalLineRecord) string { return r.DocumentNumber },
		aggregate.InvoiceFields()...)

	return records, nil
}

// documentFields extracts the invoice-level fields shared by all lines.
func (p *Parser) documentFields(root *xmlpath.Node) models.FiscalLineRecord {
	record := models.FiscalLineRecord{Kind: models.KindNFe}

	record.DocumentNumber = first(root, "//infNFe/ide/nNF")
	record.AccessKey = strings.TrimPrefix(first(root, "//infNFe/@Id"), "NFe")
	record.InvoiceTotal = currencyutils.ParseBrazilianAmount(first(root, "//ICMSTot/vNF"))
	record.Remarks = first(root, "//infAdic/infCpl")

	if issued, err := dateutils.ParseDateString(first(root, "//infNFe/ide/dhEmi")); err == nil {
		record.IssueDate = issued
	}
	if due, err := dateutils.ParseDateString(first(root, "//cobr/dup/dVenc")); err == nil {
		record.DueDate = due
	}

	record.Issuer = models.Party{
		TaxID:   first(root, "//emit/CNPJ"),
		Name:    first(root, "//emit/xNome"),
		Address: partyAddress(root, "emit", "enderEmit"),
	}
	recipientTaxID := first(root, "//dest/CNPJ")
	if recipientTaxID == "" {
		recipientTaxID = first(root, "//dest/CPF")
	}
	record.Recipient = models.Party{
		TaxID:   recipientTaxID,
		Name:    first(root, "//dest/xNome"),
		Address: partyAddress(root, "dest", "enderDest"),
	}

	return record
}

func partyAddress(root *xmlpath.Node, party, addressElement string) string {
	prefix := "//" + party + "/" + addressElement + "/"
	return joinNonEmpty(", ",
		joinNonEmpty(" ", first(root, prefix+"xLgr"), first(root, prefix+"nro")),
		first(root, prefix+"xMun"),
		first(root, prefix+"UF"))
}

// lineNumber prefers the document's own nItem attribute, falling back to the
// positional index.
func lineNumber(det *xmlpath.Node, position int) int {
	if raw := first(det, "@nItem"); raw != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
			return n
		}
	}
	return position
}

func joinNonEmpty(sep string, parts ...string) string {
	var kept []string
	for _, part := range parts {
		if strings.TrimSpace(part) != "" {
			kept = append(kept, strings.TrimSpace(part))
		}
	}
	return strings.Join(kept, sep)
}
