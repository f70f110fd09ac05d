package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "lowercases and strips accents",
			input:    "Manutenção de Válvulas",
			expected: "manutencao de valvulas",
		},
		{
			name:     "removes punctuation",
			input:    "PARAFUSO M8, aço-inox (caixa c/ 100)",
			expected: "parafuso m8 acoinox caixa c 100",
		},
		{
			name:     "collapses whitespace",
			input:    "  bomba   centrífuga \t 5cv ",
			expected: "bomba centrifuga 5cv",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Manutenção de Válvulas",
		"NFS-e: 12345 / Prestador",
		"ÀÁÂÃÄ çÇ ñÑ",
		"already normalized text",
		"",
	}
	for _, input := range inputs {
		once := Normalize(input)
		assert.Equal(t, once, Normalize(once), "input: %q", input)
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "accented phrase",
			input:    "Manutenção de Válvulas",
			expected: "manutencao-de-valvulas",
		},
		{
			name:     "collapses symbol runs",
			input:    "100 -- PARAFUSO // M8",
			expected: "100-parafuso-m8",
		},
		{
			name:     "trims hyphens",
			input:    "--nota fiscal--",
			expected: "nota-fiscal",
		},
		{
			name:     "document key material",
			input:    "12345-12.345.678/0001-90",
			expected: "12345-12-345-678-0001-90",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Slugify(tt.input))
		})
	}
}

func TestSlugifyCharacterSet(t *testing.T) {
	inputs := []string{
		"Manutenção", "a b c", "---", "ÀÉÎÕÜ", "nf 100/2", "   ",
	}
	for _, input := range inputs {
		slug := Slugify(input)
		assert.Regexp(t, `^$|^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`, slug, "input: %q", input)
	}
}

func TestFlexiblePattern(t *testing.T) {
	pattern := BuildFlexiblePattern("Bomba Centrífuga")

	assert.True(t, pattern.Match("BOMBA CENTRIFUGA 5CV WEG"))
	assert.True(t, pattern.Match("centrifuga industrial - bomba"))
	assert.False(t, pattern.Match("bomba submersa"))

	assert.Equal(t, []string{"bomba", "centrifuga"}, pattern.Fragments())
}

func TestFlexiblePatternEmptyMatchesEverything(t *testing.T) {
	pattern := BuildFlexiblePattern("  !!! ")
	assert.True(t, pattern.Match("anything at all"))
	assert.True(t, pattern.Match(""))
}
