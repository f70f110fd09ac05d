// Package models defines the shared record shapes produced by the document
// parsers and consumed by the reconciliation pipeline.
package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// DocumentKind identifies which parser family produced a record.
type DocumentKind string

const (
	KindNFe  DocumentKind = "nfe"  // goods invoice, XML
	KindNFSe DocumentKind = "nfse" // service invoice, PDF
	KindPO   DocumentKind = "po"   // purchase order, tabular
)

// Party holds the identity fields of an invoice issuer, recipient, service
// provider or taker.
type Party struct {
	TaxID   string `json:"tax_id,omitempty"`
	Name    string `json:"name,omitempty"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
}

// FiscalLineRecord is the common output shape of all three parsers: one goods
// invoice line item, one service invoice, or one purchase-order line. Fields
// that a given family does not produce stay at their zero value; a missing
// field in a source document is an empty value, never a parse failure.
type FiscalLineRecord struct {
	Kind           DocumentKind `json:"kind"`
	DocumentNumber string       `json:"document_number"`
	AccessKey      string       `json:"access_key,omitempty"`
	LineIndex      int          `json:"line_index,omitempty"`

	MaterialCode string          `json:"material_code,omitempty"`
	Description  string          `json:"description,omitempty"`
	NCM          string          `json:"ncm,omitempty"`
	CFOP         string          `json:"cfop,omitempty"`
	Unit         string          `json:"unit,omitempty"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	TotalPrice   decimal.Decimal `json:"total_price"`
	InvoiceTotal decimal.Decimal `json:"invoice_total"`

	Issuer    Party `json:"issuer,omitempty"`
	Recipient Party `json:"recipient,omitempty"`

	IssueDate  time.Time `json:"issue_date,omitempty"`
	DueDate    time.Time `json:"due_date,omitempty"`
	Competence string    `json:"competence,omitempty"`

	Remarks string `json:"remarks,omitempty"`

	// Service invoice (NFS-e) specifics
	VerificationCode      string          `json:"verification_code,omitempty"`
	RPSNumber             string          `json:"rps_number,omitempty"`
	ReplacedInvoice       string          `json:"replaced_invoice,omitempty"`
	ServiceCode           string          `json:"service_code,omitempty"`
	ConstructionDetail    string          `json:"construction_detail,omitempty"`
	ConstructionSiteCode  string          `json:"construction_site_code,omitempty"`
	ConstructionARTCode   string          `json:"construction_art_code,omitempty"`
	FederalTaxNote        string          `json:"federal_tax_note,omitempty"`
	UnconditionalDiscount decimal.Decimal `json:"unconditional_discount"`
	ConditionalDiscount   decimal.Decimal `json:"conditional_discount"`
	FederalWithholding    decimal.Decimal `json:"federal_withholding"`
	ISSWithheld           decimal.Decimal `json:"iss_withheld"`
	NetValue              decimal.Decimal `json:"net_value"`
	TaxRegime             string          `json:"tax_regime,omitempty"`
	SimplesNacional       string          `json:"simples_nacional,omitempty"`
	CulturalIncentive     string          `json:"cultural_incentive,omitempty"`
	Notices               string          `json:"notices,omitempty"`

	// Purchase order (tabular) specifics
	Supplier           string          `json:"supplier,omitempty"`
	VendorName         string          `json:"vendor_name,omitempty"`
	CostCenter         string          `json:"cost_center,omitempty"`
	WBSElement         string          `json:"wbs_element,omitempty"`
	ProjectLabel       string          `json:"project_label,omitempty"`
	PurchasingGroup    string          `json:"purchasing_group,omitempty"`
	Plant              string          `json:"plant,omitempty"`
	Requisition        string          `json:"requisition,omitempty"`
	CreatedBy          string          `json:"created_by,omitempty"`
	GrossPrice         decimal.Decimal `json:"gross_price"`
	TaxConditionAmount decimal.Decimal `json:"tax_condition_amount"`
	LineValueWithTaxes decimal.Decimal `json:"line_value_with_taxes"`

	// Derived cross-references and keys
	ReferencePO          string `json:"reference_po,omitempty"`
	ReferenceProjectCode string `json:"reference_project_code,omitempty"`
	UniqueKey            string `json:"unique_key"`
	Category             string `json:"category,omitempty"`

	// Group rollups written back inline by the aggregator
	GroupTotalQuantity  decimal.Decimal `json:"group_total_quantity"`
	GroupTotalValue     decimal.Decimal `json:"group_total_value"`
	GroupTotalWithTaxes decimal.Decimal `json:"group_total_with_taxes"`

	SourceFile   string    `json:"source_file,omitempty"`
	CreationDate time.Time `json:"creation_date,omitempty"`
}

// Document converts the record to the map shape stored in the document store.
func (r *FiscalLineRecord) Document() (map[string]interface{}, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// RecordFromDocument rebuilds a FiscalLineRecord from a stored document map.
func RecordFromDocument(doc map[string]interface{}) (FiscalLineRecord, error) {
	var record FiscalLineRecord
	data, err := json.Marshal(doc)
	if err != nil {
		return record, err
	}
	err = json.Unmarshal(data, &record)
	return record, err
}

// ReconciledRecord is a FiscalLineRecord enriched with metadata matched from
// the purchase-order and category collections. Enrichment is optional: an
// unmatched record keeps empty enrichment fields and still survives the join.
type ReconciledRecord struct {
	FiscalLineRecord

	POProjectCode    string          `json:"po_project_code,omitempty"`
	POCostCenter     string          `json:"po_cost_center,omitempty"`
	POWBSElement     string          `json:"po_wbs_element,omitempty"`
	POProjectLabel   string          `json:"po_project_label,omitempty"`
	POTotalNet       decimal.Decimal `json:"po_total_net"`
	POTotalWithTaxes decimal.Decimal `json:"po_total_with_taxes"`
	POTotalQuantity  decimal.Decimal `json:"po_total_quantity"`

	CategoryGroup    string `json:"category_group,omitempty"`
	CategorySubgroup string `json:"category_subgroup,omitempty"`
	ImageURL         string `json:"image_url,omitempty"`
}

// CategoryRecord maps a normalized material-description tag to a business
// category and an optional image reference.
type CategoryRecord struct {
	Tag      string `json:"tag" yaml:"tag"`
	Group    string `json:"group" yaml:"group"`
	Subgroup string `json:"subgroup,omitempty" yaml:"subgroup,omitempty"`
	ImageURL string `json:"image_url,omitempty" yaml:"image_url,omitempty"`
}
