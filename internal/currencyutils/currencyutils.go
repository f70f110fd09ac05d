// Package currencyutils parses and formats monetary values in the Brazilian
// convention: "." as thousands separator and "," as decimal separator.
package currencyutils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseBrazilianAmount converts a Brazilian-formatted number ("1.234,56") to
// a decimal. Plain dot-decimal input ("1234.56") is also accepted. Empty or
// unparsable input yields zero; amounts in fiscal documents are best-effort
// and a missing value must not fail the record.
func ParseBrazilianAmount(value string) decimal.Decimal {
	cleaned := strings.TrimSpace(value)
	cleaned = strings.TrimPrefix(cleaned, "R$")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return decimal.Zero
	}

	if strings.Contains(cleaned, ",") {
		// Brazilian format: dots are thousands separators
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return amount
}

// FormatBRL renders a decimal as Brazilian currency, e.g. "R$ 1.234,56".
func FormatBRL(amount decimal.Decimal) string {
	fixed := amount.StringFixed(2)

	negative := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	parts := strings.SplitN(fixed, ".", 2)
	integer, fraction := parts[0], parts[1]

	var groups []string
	for len(integer) > 3 {
		groups = append([]string{integer[len(integer)-3:]}, groups...)
		integer = integer[:len(integer)-3]
	}
	groups = append([]string{integer}, groups...)

	out := "R$ " + strings.Join(groups, ".") + "," + fraction
	if negative {
		out = "R$ -" + strings.Join(groups, ".") + "," + fraction
	}
	return out
}
