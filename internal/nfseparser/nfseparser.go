// Package nfseparser extracts fiscal records from NFS-e service invoices
// (municipal PDF layouts). Each PDF yields exactly one record; field labels
// vary between city halls, so extraction runs ordered regex variants per
// field and keeps whatever matches. Purchase-order references are mined from
// the free-text service description.
package nfseparser

import (
	"github.com/shopspring/decimal"

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

// Parser converts NFS-e PDF documents into fiscal line records.
type Parser struct {
	extractor PDFExtractor
}

// New creates a Parser using the given extractor. A nil extractor falls back
// to the real PDF implementation.
func New(extractor PDFExtractor) *Parser {
	if extractor == nil {
		extractor = NewRealPDFExtractor()
	}
	return &Parser{extractor: extractor}
}

// ValidateFormat checks whether text can be extracted from the file at all.
func (p *Parser) ValidateFormat(pdfPath string) (bool, error) {
	if _, err := p.extractor.ExtractText(pdfPath); err != nil {
		log.WithError(err).Debug("PDF validation failed",
			logging.Field{Key: logging.FieldFile, Value: pdfPath})
		return false, nil
	}
	return true, nil
}

// ParseFile extracts one service invoice record from a PDF file.
func (p *Parser) ParseFile(pdfPath string) (models.FiscalLineRecord, error) {
	log.Info("Parsing NFS-e file", logging.Field{Key: logging.FieldFile, Value: pdfPath})

	text, err := p.extractor.ExtractText(pdfPath)
	if err != nil {
		return models.FiscalLineRecord{}, &parsererror.InvalidFormatError{
			FilePath:       pdfPath,
			ExpectedFormat: "NFS-e PDF",
			Msg:            err.Error(),
		}
	}
	if text == "" {
		return models.FiscalLineRecord{}, &parsererror.DataExtractionError{
			FilePath: pdfPath,
			Reason:   "no text could be extracted",
		}
	}

	record := p.ParseText(text)
	record.SourceFile = pdfPath

	log.Info("Parsed NFS-e file",
		logging.Field{Key: logging.FieldFile, Value: pdfPath},
		logging.Field{Key: logging.FieldDocument, Value: record.DocumentNumber})
	return record, nil
}

// ParseText runs the field extraction table over already-extracted PDF text
// and derives the record's references and unique key.
func (p *Parser) ParseText(text string) models.FiscalLineRecord {
	record := models.FiscalLineRecord{
		Kind:      models.KindNFSe,
		LineIndex: 1,
	}

	for _, fp := range fieldPatterns {
		if value := extractField(text, fp); value != "" {
			fp.assign(&record, value)
		}
	}

	// A service invoice is a single line: the service value is at once the
	// line total and the invoice total.
	record.Quantity = decimal.NewFromInt(1)
	record.UnitPrice = record.TotalPrice
	record.InvoiceTotal = record.TotalPrice

	record.ReferencePO = refextract.JoinPOReferences(record.Description)
	record.ReferenceProjectCode = refextract.ProjectCode(record.Description)
	record.UniqueKey = keys.ServiceInvoice(record.DocumentNumber, record.Issuer.TaxID)

	return record
}
