// Package categorizer classifies fiscal transactions into business categories
// using a decision table keyed on the CFOP code and the emitter/recipient
// identity. Categorize is a total function: every record gets exactly one
// label, unknown codes resolve to the catch-all bucket.
package categorizer

import (
	"strings"

	"warehouse/fiscal-recon/internal/logging"
	"warehouse/fiscal-recon/internal/models"
	"warehouse/fiscal-recon/internal/textnorm"
)

var log = logging.GetLogger()

// SetLogger allows setting a custom logger for this package
func SetLogger(logger logging.Logger) {
	if logger != nil {
		log = logger
	}
}

func logFields(pairs ...interface{}) []logging.Field {
	fields := make([]logging.Field, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		fields = append(fields, logging.Field{Key: pairs[i].(string), Value: pairs[i+1]})
	}
	return fields
}

// Category labels produced by the leading-digit fallbacks and the catch-all.
const (
	CategoryImport   = "Importação"
	CategoryExport   = "Exportação"
	CategoryInbound  = "Entrada"
	CategoryOutbound = "Saída"
	CategoryOther    = "Outros"
)

// Categorizer evaluates the CFOP decision table against fiscal records.
type Categorizer struct {
	rules        []compiledRule
	organization string
}

type compiledRule struct {
	label string
	codes map[string]struct{}
	party string
}

// New builds a Categorizer from a rule set.
func New(rules RuleSet) *Categorizer {
	compiled := make([]compiledRule, 0, len(rules.Rules))
	for _, rule := range rules.Rules {
		codes := make(map[string]struct{}, len(rule.Codes))
		for _, code := range rule.Codes {
			codes[strings.TrimSpace(code)] = struct{}{}
		}
		compiled = append(compiled, compiledRule{
			label: rule.Label,
			codes: codes,
			party: rule.Party,
		})
	}
	return &Categorizer{
		rules:        compiled,
		organization: textnorm.Normalize(rules.Organization),
	}
}

// NewDefault builds a Categorizer with the built-in rule table.
func NewDefault() *Categorizer {
	return New(DefaultRuleSet())
}

// Categorize returns the category label for a record. Rules are evaluated in
// table order against the exact CFOP code; when none matches, the code's
// leading digit decides import/export or generic inbound/outbound, and
// anything else falls into the catch-all bucket.
func (c *Categorizer) Categorize(record *models.FiscalLineRecord) string {
	cfop := strings.TrimSpace(record.CFOP)

	for _, rule := range c.rules {
		if _, ok := rule.codes[cfop]; !ok {
			continue
		}
		if !c.partyMatches(rule.party, record) {
			continue
		}
		return rule.label
	}

	if cfop == "" {
		return CategoryOther
	}
	switch cfop[0] {
	case '3':
		return CategoryImport
	case '7':
		return CategoryExport
	case '1', '2':
		return CategoryInbound
	case '5', '6':
		return CategoryOutbound
	}
	return CategoryOther
}

func (c *Categorizer) partyMatches(party string, record *models.FiscalLineRecord) bool {
	switch party {
	case "issuer":
		return strings.Contains(textnorm.Normalize(record.Issuer.Name), c.organization)
	case "recipient":
		return strings.Contains(textnorm.Normalize(record.Recipient.Name), c.organization)
	default:
		return true
	}
}

// Apply categorizes every record in place.
func (c *Categorizer) Apply(records []models.FiscalLineRecord) {
	for i := range records {
		records[i].Category = c.Categorize(&records[i])
	}
}
