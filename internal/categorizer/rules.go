package categorizer

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Rule maps an enumerated list of CFOP codes to a category label. When Party
// is "issuer" or "recipient", the rule only applies if the configured
// organization name appears in that party's name.
type Rule struct {
	Label string   `yaml:"label"`
	Codes []string `yaml:"codes"`
	Party string   `yaml:"party,omitempty"`
}

// RuleSet is the complete decision table: the organization matched against
// document parties plus the ordered exact-match rules. Leading-digit
// fallbacks (import/export, generic inbound/outbound) are built in and not
// configurable.
type RuleSet struct {
	Organization string `yaml:"organization"`
	Rules        []Rule `yaml:"rules"`
}

// DefaultRuleSet returns the built-in CFOP decision table.
func DefaultRuleSet() RuleSet {
	return RuleSet{
		Organization: "ANDRITZ",
		Rules: []Rule{
			{Label: "Remessa para Manutenção", Codes: []string{"5915", "6915"}, Party: "issuer"},
			{Label: "Recebimento para Manutenção", Codes: []string{"5915", "6915", "1915", "2915"}, Party: "recipient"},
			{Label: "Retorno de Manutenção", Codes: []string{"5916", "6916", "1916", "2916"}},
			{Label: "Devolução", Codes: []string{
				"5201", "5202", "5410", "5411", "6201", "6202", "6410", "6411",
				"1201", "1202", "2201", "2202"}},
			{Label: "Industrialização", Codes: []string{
				"5901", "5902", "6901", "6902", "1901", "1902", "2901", "2902",
				"5124", "5125", "6124", "6125"}},
			{Label: "Venda Produção Própria", Codes: []string{"5101", "6101", "5105", "6105"}},
			{Label: "Venda Mercadoria de Terceiros", Codes: []string{"5102", "6102", "5106", "6106"}},
			{Label: "Transferência - Saída", Codes: []string{
				"5151", "5152", "6151", "6152", "1151", "1152", "2151", "2152"}, Party: "issuer"},
			{Label: "Transferência - Entrada", Codes: []string{
				"5151", "5152", "6151", "6152", "1151", "1152", "2151", "2152"}, Party: "recipient"},
			{Label: "Locação/Comodato", Codes: []string{
				"5908", "5909", "6908", "6909", "1908", "1909", "2908", "2909"}},
		},
	}
}

// FindRulesFile looks for a rule file in the standard locations.
func FindRulesFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
		filepath.Join("database", filename),
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}

	homeDir, err := os.UserHomeDir()
	if err == nil {
		configPath := filepath.Join(homeDir, ".config", "fiscal-recon", filename)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}
	}

	return "", os.ErrNotExist
}

// LoadRuleSet loads a rule table from YAML, falling back to the built-in
// table when the file is absent. Rules present in the file replace the
// default rules entirely; an empty organization keeps the default one.
func LoadRuleSet(filename string) (RuleSet, error) {
	defaults := DefaultRuleSet()
	if filename == "" {
		filename = "cfop_rules.yaml"
	}

	filePath, err := FindRulesFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			log.Debug("CFOP rules file not found, using built-in table",
				logFields("file", filename)...)
			return defaults, nil
		}
		return defaults, fmt.Errorf("error resolving CFOP rules file: %w", err)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return defaults, fmt.Errorf("error reading CFOP rules file: %w", err)
	}

	var loaded RuleSet
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return defaults, fmt.Errorf("error parsing CFOP rules file: %w", err)
	}

	if loaded.Organization == "" {
		loaded.Organization = defaults.Organization
	}
	if len(loaded.Rules) == 0 {
		loaded.Rules = defaults.Rules
	}
	return loaded, nil
}
