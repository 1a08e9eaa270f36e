package gglabel

import (
	"regexp"
	"strings"

	"github.com/custodia-labs/labelscan/internal/core/domain"
)

// basicPattern matches GG followed by digits, or a bare G with exactly four digits.
var basicPattern = regexp.MustCompile(`(?i)\b(?:GG[-.\s]?(\d+)|G(\d{4}))\b`)

// correction is one OCR-confusion pattern and the canonical prefix it restores.
type correction struct {
	re     *regexp.Regexp
	prefix string
}

// corrections are tried in order; the first to emit a label owns it.
var corrections = []correction{
	{regexp.MustCompile(`(?i)\bGG[-.\s]?(\d{2,4})\b`), "GG"},
	{regexp.MustCompile(`(?i)\bG(\d{3,4})\b`), "G"},
	{regexp.MustCompile(`(?i)\bOO[-.\s]?(\d{2,4})\b`), "GG"},
	{regexp.MustCompile(`\b66[-.\s]?(\d{2,4})\b`), "GG"},
	{regexp.MustCompile(`(?i)\b[GO6]{2}[-.\s]?(\d{2,4})\b`), "GG"},
}

// knownNumbers are label numbers common enough to accept without the
// GG prefix, provided a G-like character precedes them.
var knownNumbers = regexp.MustCompile(`\b(747|75[2-9]|760)\b`)

// contextWindow is how many characters before a known number are searched.
const contextWindow = 3

// ExtractLabels returns the distinct GG labels in text using the basic rule.
func ExtractLabels(text, source string) []domain.Code {
	var labels labelSet
	for _, m := range basicPattern.FindAllStringSubmatch(text, -1) {
		switch {
		case m[1] != "":
			labels.add("GG"+m[1], source)
		case m[2] != "":
			labels.add("G"+m[2], source)
		}
	}
	return labels.codes
}

// ExtractLabelsCorrected additionally restores labels where OCR read GG as
// OO, 66 or a G/O/6 mix, and accepts known label numbers that follow a
// G-like character.
func ExtractLabelsCorrected(text, source string) []domain.Code {
	var labels labelSet
	for _, c := range corrections {
		for _, m := range c.re.FindAllStringSubmatch(text, -1) {
			labels.add(c.prefix+m[1], source)
		}
	}

	for _, loc := range knownNumbers.FindAllStringIndex(text, -1) {
		start := loc[0] - contextWindow
		if start < 0 {
			start = 0
		}
		if strings.ContainsAny(text[start:loc[0]], "GgOo6") {
			labels.add("GG"+text[loc[0]:loc[1]], source)
		}
	}
	return labels.codes
}

// labelSet collects codes in order of first appearance.
type labelSet struct {
	seen  map[string]struct{}
	codes []domain.Code
}

func (s *labelSet) add(label, source string) {
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	label = strings.ToUpper(label)
	if _, ok := s.seen[label]; ok {
		return
	}
	s.seen[label] = struct{}{}
	s.codes = append(s.codes, domain.Code{Symbology: domain.SymbologyGGLabel, Value: label, Source: source})
}
