package nfseparser

import (
	"regexp"
	"strings"

	"warehouse/fiscal-recon/internal/currencyutils"
	"warehouse/fiscal-recon/internal/dateutils"
	"warehouse/fiscal-recon/internal/models"
)

// fieldPattern binds one logical invoice field to an ordered list of layout
// variants. Municipal NFS-e layouts differ per city hall, so each field
// carries the label spellings seen in the wild; the first variant that
// matches wins and its single capture group is the value.
type fieldPattern struct {
	name     string
	variants []*regexp.Regexp
	assign   func(record *models.FiscalLineRecord, value string)
}

func compileVariants(patterns ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		compiled = append(compiled, regexp.MustCompile(pattern))
	}
	return compiled
}

var fieldPatterns = []fieldPattern{
	{
		name: "document_number",
		variants: compileVariants(
			`(?i)NFS-e\s*:?\s*(\d+)`,
			`(?i)Número da\s*NFS-e\s*:?\s*(\d+)`,
			`(?i)Nº da Nota\s*:?\s*(\d+)`,
			`(?i)Número\s*:?\s*(\d+)`,
		),
		assign: func(r *models.FiscalLineRecord, v string) { r.DocumentNumber = v },
	},
	{
		name: "issue_date",
		variants: compileVariants(
			`(?i)Data e Hora da Emissão\s*:?\s*(\d{1,2}/\d{1,2}/\d{4}\s+\d{1,2}:\d{2})`,
			`(?i)Emissão da NFS-e\s*:?\s*(\d{1,2}/\d{1,2}/\d{4}\s+\d{1,2}:\d{2})`,
			`(?i)Data de Emissão\s*:?\s*(\d{1,2}/\d{1,2}/\d{4}\s+\d{1,2}:\d{2})`,
		),
		assign: func(r *models.FiscalLineRecord, v string) {
			if issued, err := dateutils.ParseDateString(v); err == nil {
				r.IssueDate = issued
			}
		},
	},
	{
		name: "competence",
		variants: compileVariants(
			`(?i)Competência\s*:?\s*([^\n]+)`,
			`(?i)Mês de Competência\s*:?\s*([^\n]+)`,
			`(?i)Período de Competência\s*:?\s*([^\n]+)`,
		),
		assign: func(r *models.FiscalLineRecord, v string) { r.Competence = v },
	},
	{
		name: "verification_code",
		variants: compileVariants(
			`(?i)Código de Verificação\s*:?\s*([^\n]+)`,
			`(?i)Código Verificador\s*:?\s*([^\n]+)`,
			`(?i)Código de Autenticidade\s*:?\s*([^\n]+)`,
		),
		assign: func(r *models.FiscalLineRecord, v string) { r.VerificationCode = v },
	},
	{
		name: "rps_number",
		variants: compileVariants(
			`(?i)Número do RPS\s*:?\s*(\d+)`,
			`(?i)RPS Nº\s*:?\s*(\d+)`,
		),
		assign: func(r *models.FiscalLineRecord, v string) { r.RPSNumber = v },
	},
	{
		name: "replaced_invoice",
		variants: compileVariants(
			`(?i)No\. da NFS-e substituída\s*:?\s*(\d+)`,
			`(?i)NFS-e substituída\s*:?\s*(\d+)`,
		),
		assign: func(r *models.FiscalLineRecord, v string) { r.ReplacedInvoice = v },
	},
	{
		name: "provider_name",
		variants: compileVariants(
			`(?i)Razão Social/Nome\s*:?\s*([^\n]+)`,
			`(?i)Nome/Razão Social\s*:?\s*([^\n]+)`,
			`(?i)Prestador de Serviço\s*:?\s*([^\n]+)`,
		),
		assign: func(r *models.FiscalLineRecord, v string) { r.Issuer.Name = v },
	},
	{
		name: "provider_tax_id",
		variants: compileVariants(
			`(?i)CNPJ/CPF\s*:?\s*([\d\.\-/]+)`,
			`(?i)CPF/CNPJ\s*:?\s*([\d\.\-/]+)`,
			`(?i)CNPJ\s*:?\s*([\d\.\-/]+)`,
		),
		assign: func(r *models.FiscalLineRecord, v string) { r.Issuer.TaxID = v },
	},
	{
		name: "provider_phone",
		variants: compileVariants(
			`(?i)Telefone\s*:?\s*([\d\(\)\s\-]+)`,
			`(?i)Fone\s*:?\s*([\d\(\)\s\-]+)`,
			`(?i)Tel\s*:?\s*([\d\(\)\s\-]+)`,
		),
		assign: func(r *models.FiscalLineRecord, v string) { r.Issuer.Phone = v },
	},
	{
		name: "provider_email",
		variants: compileVariants(
			`(?i)e-mail\s*:?\s*([\w\.\-]+@[\w\.\-]+)`,
			`(?i)Email\s*:?\s*([\w\.\-]+@[\w\.\-]+)`,
		),
		assign: func(r *models.FiscalLineRecord, v string) { r.Issuer.Email = v },
	},
	{
		name: "taker_name",
		variants: compileVariants(
			`(?is)Tomador de Serviço\s*Razão Social/Nome\s*:?\s*([^\n]+)`,
			`(?i)Nome/Razão Social do Tomador\s*:?\s*([^\n]+)`,
			`(?i)Tomador\s*:?\s*([^\n]+)`,
		),
		assign: func(r *models.FiscalLineRecord, v string) { r.Recipient.Name = v },
	},
	{
		name: "taker_tax_id",
		variants: compileVariants(
			`(?i)CNPJ/CPF do Tomador\s*:?\s*([\d\.\-/]+)`,
			`(?i)CPF/CNPJ do Tomador\s*:?\s*([\d\.\-/]+)`,
			`(?i)CNPJ Tomador\s*:?\s*([\d\.\-/]+)`,
		),
		assign: func(r *models.FiscalLineRecord, v string) { r.Recipient.TaxID = v },
	},
	{
		name: "taker_address",
		variants: compileVariants(
			`(?i)Endereço e CEP\s*:?\s*([^\n]+)`,
			`(?i)Endereço Tomador\s*:?\s*([^\n]+)`,
		),
		assign: func(r *models.FiscalLineRecord, v string) { r.Recipient.Address = v },
	},
	{
		name: "taker_phone",
		variants: compileVariants(
			`(?i)Telefone Tomador\s*:?\s*([\d\(\)\s\-]+)`,
			`(?i)Fone Tomador\s*:?\s*([\d\(\)\s\-]+)`,
		),
		assign: func(r *models.FiscalLineRecord, v string) { r.Recipient.Phone = v },
	},
	{
		name: "taker_email",
		variants: compileVariants(
			`(?i)e-mail Tomador\s*:?\s*([\w\.\-]+@[\w\.\-]+)`,
			`(?i)Email Tomador\s*:?\s*([\w\.\-]+@[\w\.\-]+)`,
		),
		assign: func(r *models.FiscalLineRecord, v string) { r.Recipient.Email = v },
	},
	{
		name: "service_description",
		variants: compileVariants(
			`(?is)Discriminação (?:do|dos) Serviços?\s*(.+?)(?:Código do Serviço|Detalhamento Específico|Tributos Federais|Valor do Serviço)`,
			`(?is)Descrição dos Serviços\s*(.+?)(?:Código|Valor|Tributos)`,
			`(?is)Descrição\s*(.+?)(?:Código|Valor|Tributos)`,
		),
		assign: func(r *models.FiscalLineRecord, v string) { r.Description = v },
	},
	{
		name: "service_code",
		variants: compileVariants(
			`(?i)Código do Serviço\s*/\s*Atividade\s*([^\n]+)`,
			`(?i)Código Serviço\s*:?\s*([^\n]+)`,
		),
		assign: func(r *models.FiscalLineRecord, v string) { r.ServiceCode = v },
	},
	{
		name: "construction_detail",
		variants: compileVariants(
			`(?i)Detalhamento Específico da Construção Civil\s*([^\n]+)`,
			`(?i)Detalhamento Específico\s*:?\s*([^\n]+)`,
		),
		assign: func(r *models.FiscalLineRecord, v string) { r.ConstructionDetail = v },
	},
	{
		name: "construction_site_code",
		variants: compileVariants(
			`(?i)Código da Obra\s*([^\n]+)`,
			`(?i)Código Obra\s*:?\s*([^\n]+)`,
		),
		assign: func(r *models.FiscalLineRecord, v string) { r.ConstructionSiteCode = v },
	},
	{
		name: "construction_art_code",
		variants: compileVariants(
			`(?i)Código ART\s*([^\n]+)`,
			`(?i)ART\s*:?\s*([^\n]+)`,
		),
		assign: func(r *models.FiscalLineRecord, v string) { r.ConstructionARTCode = v },
	},
	{
		name: "federal_tax_note",
		variants: compileVariants(
			`(?i)Tributos Federais\s*([^\n]+)`,
			`(?i)Tributos Fed\.\s*:?\s*([^\n]+)`,
		),
		assign: func(r *models.FiscalLineRecord, v string) { r.FederalTaxNote = v },
	},
	{
		name: "service_value",
		variants: compileVariants(
			`(?i)Valor (?:do|dos) Serviços?\s*R\$\s*([\d\.,]+)`,
			`(?i)Valor Total\s*R\$\s*([\d\.,]+)`,
			`(?i)Total da Nota\s*R\$\s*([\d\.,]+)`,
			`(?i)Valor do Serviço\s*[\r\n]+\s*([\d\.,]+)`,
			`(?i)Valor do Serviço\s*([\d\.,]+)`,
		),
		assign: func(r *models.FiscalLineRecord, v string) {
			r.TotalPrice = currencyutils.ParseBrazilianAmount(v)
		},
	},
	{
		name: "unconditional_discount",
		variants: compileVariants(
			`(?i)Desconto Incondicionado\s*R\$\s*([\d\.,]+)`,
			`(?i)Desc\. Incond\.\s*R\$\s*([\d\.,]+)`,
		),
		assign: func(r *models.FiscalLineRecord, v string) {
			r.UnconditionalDiscount = currencyutils.ParseBrazilianAmount(v)
		},
	},
	{
		name: "conditional_discount",
		variants: compileVariants(
			`(?i)Desconto Condicionado\s*R\$\s*([\d\.,]+)`,
			`(?i)Desc\. Cond\.\s*R\$\s*([\d\.,]+)`,
		),
		assign: func(r *models.FiscalLineRecord, v string) {
			r.ConditionalDiscount = currencyutils.ParseBrazilianAmount(v)
		},
	},
	{
		name: "federal_withholding",
		variants: compileVariants(
			`(?i)Retenções Federais\s*R\$\s*([\d\.,]+)`,
			`(?i)Ret\. Federais\s*R\$\s*([\d\.,]+)`,
		),
		assign: func(r *models.FiscalLineRecord, v string) {
			r.FederalWithholding = currencyutils.ParseBrazilianAmount(v)
		},
	},
	{
		name: "iss_withheld",
		variants: compileVariants(
			`(?i)ISSQN Retido\s*R\$\s*([\d\.,]+)`,
			`(?i)ISS Retido\s*R\$\s*([\d\.,]+)`,
		),
		assign: func(r *models.FiscalLineRecord, v string) {
			r.ISSWithheld = currencyutils.ParseBrazilianAmount(v)
		},
	},
	{
		name: "net_value",
		variants: compileVariants(
			`(?i)Valor Líquido\s*R\$\s*([\d\.,]+)`,
			`(?i)Líquido\s*R\$\s*([\d\.,]+)`,
		),
		assign: func(r *models.FiscalLineRecord, v string) {
			r.NetValue = currencyutils.ParseBrazilianAmount(v)
		},
	},
	{
		name: "tax_regime",
		variants: compileVariants(
			`(?i)Regime Especial Tributação\s*([^\n]+)`,
			`(?i)Regime Tributário\s*:?\s*([^\n]+)`,
		),
		assign: func(r *models.FiscalLineRecord, v string) { r.TaxRegime = v },
	},
	{
		name: "simples_nacional",
		variants: compileVariants(
			`(?i)Opção Simples Nacional\s*([^\n]+)`,
			`(?i)Simples Nacional\s*:?\s*([^\n]+)`,
		),
		assign: func(r *models.FiscalLineRecord, v string) { r.SimplesNacional = v },
	},
	{
		name: "cultural_incentive",
		variants: compileVariants(
			`(?i)Incentivador Cultural\s*([^\n]+)`,
			`(?i)Inc\. Cultural\s*:?\s*([^\n]+)`,
		),
		assign: func(r *models.FiscalLineRecord, v string) { r.CulturalIncentive = v },
	},
	{
		name: "notices",
		variants: compileVariants(
			`(?i)Avisos\s*([^\n]+)`,
			`(?i)Observações\s*:?\s*([^\n]+)`,
		),
		assign: func(r *models.FiscalLineRecord, v string) { r.Notices = v },
	},
}

// extractField tries each layout variant in order and returns the first
// trimmed capture, or "" when no variant matches.
func extractField(text string, fp fieldPattern) string {
	for _, variant := range fp.variants {
		match := variant.FindStringSubmatch(text)
		if len(match) > 1 {
			return strings.TrimSpace(match[1])
		}
	}
	return ""
}
