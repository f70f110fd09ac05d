package export

import (
	"strconv"

	"warehouse/fiscal-recon/internal/currencyutils"
	"warehouse/fiscal-recon/internal/dateutils"
	"warehouse/fiscal-recon/internal/models"
)

// InvoiceRow is the reconciled goods-invoice export shape. Column names
// follow the spreadsheet contract consumed by the warehouse team.
type InvoiceRow struct {
	ImageURL        string `csv:"url_imagens"`
	InvoiceNumber   string `csv:"Nota Fiscal"`
	LineIndex       string `csv:"Item Nf"`
	MaterialName    string `csv:"Nome Material"`
	NCM             string `csv:"Codigo NCM"`
	Quantity        string `csv:"Quantidade"`
	Unit            string `csv:"Unidade"`
	UnitValue       string `csv:"Valor Unitario Produto"`
	TotalValue      string `csv:"Valor Total Produto"`
	InvoiceTotal    string `csv:"Valor Total Nota Fiscal"`
	InvoiceItems    string `csv:"Total itens Nf"`
	IssueDate       string `csv:"data nf"`
	DueDate         string `csv:"Data Vencimento"`
	AccessKey       string `csv:"Chave NF-e"`
	IssuerName      string `csv:"Nome Emitente"`
	IssuerTaxID     string `csv:"CNPJ Emitente"`
	Category        string `csv:"CFOP Categoria"`
	PO              string `csv:"PO"`
	POItemsReceived string `csv:"Itens recebidos PO"`
	POValueReceived string `csv:"Valor Recebido PO"`
	ProjectCode     string `csv:"Codigo Projeto"`
	WBSElement      string `csv:"Projeto WBS Andritz"`
	CostCenter      string `csv:"Centro de Custo"`
	ShipProjectCode string `csv:"Codigo Projeto Envio"`
	ShipProject     string `csv:"Projeto Envio"`
	Group           string `csv:"grupo"`
	Subgroup        string `csv:"subgrupo"`
	UniqueKey       string `csv:"unique"`
}

// InvoiceRows flattens reconciled records for export.
func InvoiceRows(records []models.ReconciledRecord) []InvoiceRow {
	rows := make([]InvoiceRow, 0, len(records))
	for i := range records {
		r := &records[i]
		rows = append(rows, InvoiceRow{
			ImageURL:        r.ImageURL,
			InvoiceNumber:   r.DocumentNumber,
			LineIndex:       strconv.Itoa(r.LineIndex),
			MaterialName:    r.Description,
			NCM:             r.NCM,
			Quantity:        r.Quantity.String(),
			Unit:            r.Unit,
			UnitValue:       r.UnitPrice.String(),
			TotalValue:      r.TotalPrice.String(),
			InvoiceTotal:    r.InvoiceTotal.String(),
			InvoiceItems:    r.GroupTotalQuantity.String(),
			IssueDate:       dateutils.ToBrazilianFormat(r.IssueDate),
			DueDate:         dateutils.ToBrazilianFormat(r.DueDate),
			AccessKey:       r.AccessKey,
			IssuerName:      r.Issuer.Name,
			IssuerTaxID:     r.Issuer.TaxID,
			Category:        r.Category,
			PO:              r.ReferencePO,
			POItemsReceived: r.POTotalQuantity.String(),
			POValueReceived: r.POTotalNet.String(),
			ProjectCode:     r.POProjectCode,
			WBSElement:      r.POWBSElement,
			CostCenter:      r.POCostCenter,
			ShipProjectCode: r.ReferenceProjectCode,
			ShipProject:     r.POProjectLabel,
			Group:           r.CategoryGroup,
			Subgroup:        r.CategorySubgroup,
			UniqueKey:       r.UniqueKey,
		})
	}
	return rows
}

// ServiceInvoiceRow is the NFS-e export shape.
type ServiceInvoiceRow struct {
	InvoiceNumber         string `csv:"Numero NFS-e"`
	IssueDate             string `csv:"Data Emissão"`
	Competence            string `csv:"Competencia"`
	VerificationCode      string `csv:"Codigo de Verificacao"`
	RPSNumber             string `csv:"Numero RPS"`
	ReplacedInvoice       string `csv:"NF-e Substituida"`
	ProviderName          string `csv:"Razao Social Prestador"`
	ProviderTaxID         string `csv:"CNPJ Prestador"`
	ProviderPhone         string `csv:"Telefone Prestador"`
	ProviderEmail         string `csv:"Email Prestador"`
	TakerName             string `csv:"Razao Social Tomador"`
	TakerTaxID            string `csv:"CNPJ Tomador"`
	TakerAddress          string `csv:"Endereco Tomador"`
	ServiceDescription    string `csv:"Discriminacao do Servico"`
	ServiceCode           string `csv:"Codigo Servico"`
	ConstructionDetail    string `csv:"Detalhamento Especifico"`
	ConstructionSiteCode  string `csv:"Codigo da Obra"`
	ConstructionARTCode   string `csv:"Codigo ART"`
	FederalTaxNote        string `csv:"Tributos Federais"`
	ServiceValue          string `csv:"Valor do Servico"`
	UnconditionalDiscount string `csv:"Desconto Incondicionado"`
	ConditionalDiscount   string `csv:"Desconto Condicionado"`
	FederalWithholding    string `csv:"Retencao Federal"`
	ISSWithheld           string `csv:"ISSQN Retido"`
	NetValue              string `csv:"Valor Liquido"`
	TaxRegime             string `csv:"Regime Especial Tributacao"`
	SimplesNacional       string `csv:"Simples Nacional"`
	CulturalIncentive     string `csv:"Incentivador Cultural"`
	Notices               string `csv:"Avisos"`
	PO                    string `csv:"po"`
	ProjectCode           string `csv:"codigo_projeto"`
	UniqueKey             string `csv:"unique"`
	SourceFile            string `csv:"Nome do Arquivo"`
}

// ServiceInvoiceRows flattens service invoice records for export.
func ServiceInvoiceRows(records []models.FiscalLineRecord) []ServiceInvoiceRow {
	rows := make([]ServiceInvoiceRow, 0, len(records))
	for i := range records {
		r := &records[i]
		rows = append(rows, ServiceInvoiceRow{
			InvoiceNumber:         r.DocumentNumber,
			IssueDate:             dateutils.ToBrazilianFormat(r.IssueDate),
			Competence:            r.Competence,
			VerificationCode:      r.VerificationCode,
			RPSNumber:             r.RPSNumber,
			ReplacedInvoice:       r.ReplacedInvoice,
			ProviderName:          r.Issuer.Name,
			ProviderTaxID:         r.Issuer.TaxID,
			ProviderPhone:         r.Issuer.Phone,
			ProviderEmail:         r.Issuer.Email,
			TakerName:             r.Recipient.Name,
			TakerTaxID:            r.Recipient.TaxID,
			TakerAddress:          r.Recipient.Address,
			ServiceDescription:    r.Description,
			ServiceCode:           r.ServiceCode,
			ConstructionDetail:    r.ConstructionDetail,
			ConstructionSiteCode:  r.ConstructionSiteCode,
			ConstructionARTCode:   r.ConstructionARTCode,
			FederalTaxNote:        r.FederalTaxNote,
			ServiceValue:          r.TotalPrice.String(),
			UnconditionalDiscount: r.UnconditionalDiscount.String(),
			ConditionalDiscount:   r.ConditionalDiscount.String(),
			FederalWithholding:    r.FederalWithholding.String(),
			ISSWithheld:           r.ISSWithheld.String(),
			NetValue:              r.NetValue.String(),
			TaxRegime:             r.TaxRegime,
			SimplesNacional:       r.SimplesNacional,
			CulturalIncentive:     r.CulturalIncentive,
			Notices:               r.Notices,
			PO:                    r.ReferencePO,
			ProjectCode:           r.ReferenceProjectCode,
			UniqueKey:             r.UniqueKey,
			SourceFile:            r.SourceFile,
		})
	}
	return rows
}

// PORow is the purchase-order export shape, including the formatted currency
// companions the spreadsheet consumers expect.
type PORow struct {
	PurchasingDocument       string `csv:"Purchasing Document"`
	Item                     string `csv:"Item"`
	Supplier                 string `csv:"Supplier"`
	VendorName               string `csv:"Vendor Name"`
	Material                 string `csv:"Material"`
	MaterialDescription      string `csv:"Material Description"`
	OrderQuantity            string `csv:"Order Quantity"`
	TotalItems               string `csv:"total_itens_po"`
	OrderUnit                string `csv:"Order Unit"`
	ControlCode              string `csv:"Control Code (NCM)"`
	ProjectCode              string `csv:"Project Code"`
	WBSElement               string `csv:"Andritz WBS Element"`
	DerivedProjectCode       string `csv:"codigo_projeto"`
	CostCenter               string `csv:"Cost Center"`
	DocumentDate             string `csv:"Document Date"`
	CreatedBy                string `csv:"PO Created by"`
	Requisition              string `csv:"Purchase Requisition"`
	GrossPrice               string `csv:"Gross Price"`
	TaxConditionAmount       string `csv:"PBXX Condition Amount"`
	UnitValue                string `csv:"valor_unitario"`
	LineValueWithTaxes       string `csv:"valor_item_com_impostos"`
	NetOrderValue            string `csv:"Net order value"`
	TotalNet                 string `csv:"total_valor_po_liquido"`
	TotalWithTaxes           string `csv:"total_valor_po_com_impostos"`
	UnitValueFormatted       string `csv:"valor_unitario_formatted"`
	LineWithTaxesFormatted   string `csv:"valor_item_com_impostos_formatted"`
	NetOrderValueFormatted   string `csv:"Net order value_formatted"`
	TotalNetFormatted        string `csv:"total_valor_po_liquido_formatted"`
	TotalWithTaxesFormatted  string `csv:"total_valor_po_com_impostos_formatted"`
	PurchasingGroup          string `csv:"Purchasing Group"`
	Plant                    string `csv:"Plant"`
	UniqueKey                string `csv:"unique"`
}

// PORows flattens purchase-order records for export.
func PORows(records []models.FiscalLineRecord) []PORow {
	rows := make([]PORow, 0, len(records))
	for i := range records {
		r := &records[i]
		rows = append(rows, PORow{
			PurchasingDocument:      r.DocumentNumber,
			Item:                    strconv.Itoa(r.LineIndex),
			Supplier:                r.Supplier,
			VendorName:              r.VendorName,
			Material:                r.MaterialCode,
			MaterialDescription:     r.Description,
			OrderQuantity:           r.Quantity.String(),
			TotalItems:              r.GroupTotalQuantity.String(),
			OrderUnit:               r.Unit,
			ControlCode:             r.NCM,
			ProjectCode:             r.ProjectLabel,
			WBSElement:              r.WBSElement,
			DerivedProjectCode:      r.ReferenceProjectCode,
			CostCenter:              r.CostCenter,
			DocumentDate:            dateutils.ToBrazilianFormat(r.IssueDate),
			CreatedBy:               r.CreatedBy,
			Requisition:             r.Requisition,
			GrossPrice:              r.GrossPrice.String(),
			TaxConditionAmount:      r.TaxConditionAmount.String(),
			UnitValue:               r.UnitPrice.String(),
			LineValueWithTaxes:      r.LineValueWithTaxes.String(),
			NetOrderValue:           r.TotalPrice.String(),
			TotalNet:                r.GroupTotalValue.String(),
			TotalWithTaxes:          r.GroupTotalWithTaxes.String(),
			UnitValueFormatted:      currencyutils.FormatBRL(r.UnitPrice),
			LineWithTaxesFormatted:  currencyutils.FormatBRL(r.LineValueWithTaxes),
			NetOrderValueFormatted:  currencyutils.FormatBRL(r.TotalPrice),
			TotalNetFormatted:       currencyutils.FormatBRL(r.GroupTotalValue),
			TotalWithTaxesFormatted: currencyutils.FormatBRL(r.GroupTotalWithTaxes),
			PurchasingGroup:         r.PurchasingGroup,
			Plant:                   r.Plant,
			UniqueKey:               r.UniqueKey,
		})
	}
	return rows
}
