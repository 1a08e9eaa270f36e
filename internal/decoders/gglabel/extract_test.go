package gglabel

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/labelscan/internal/core/domain"
)

func values(codes []domain.Code) []string {
	var out []string
	for _, c := range codes {
		out = append(out, c.Value)
	}
	return out
}

func TestExtractLabels(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"plain", "NIKE\nGG747\n", []string{"GG747"}},
		{"separator", "gg-752 and GG.753 and GG 754", []string{"GG752", "GG753", "GG754"}},
		{"bare G with four digits", "lot G2548", []string{"G2548"}},
		{"bare G with three digits ignored", "G254", nil},
		{"repeated label", "GG747 GG747 gg747", []string{"GG747"}},
		{"confusions not corrected", "OO747 66752", nil},
		{"no label", "SIZE 10 US", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codes := ExtractLabels(tt.text, Name)
			assert.Equal(t, tt.want, values(codes))
			for _, c := range codes {
				assert.Equal(t, domain.SymbologyGGLabel, c.Symbology)
				assert.Equal(t, Name, c.Source)
			}
		})
	}
}

func TestExtractLabelsCorrected(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"exact", "GG747", []string{"GG747"}},
		{"oo read for gg", "OO747", []string{"GG747"}},
		{"66 read for gg", "66752", []string{"GG752"}},
		{"mixed g and 6", "G6 753", []string{"GG753"}},
		{"mixed g and o", "Go754", []string{"GG754"}},
		{"bare g three digits", "G755", []string{"G755"}},
		{"known number after g", "G 756", []string{"GG756"}},
		{"known number without context", "size 757", nil},
		{"unknown number after g", "G 761", nil},
		{"first rule wins", "GG747 OO747 G 747", []string{"GG747"}},
		{"long digit run ignored", "6612345678901", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codes := ExtractLabelsCorrected(tt.text, ImprovedName)
			assert.Equal(t, tt.want, values(codes))
			for _, c := range codes {
				assert.Equal(t, domain.SymbologyGGLabel, c.Symbology)
			}
		})
	}
}
