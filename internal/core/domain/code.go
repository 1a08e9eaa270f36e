package domain

import "strings"

// Symbology tags used across decoders.
// Local scanners report the symbol family with these names so results from
// different readers compare equal.
const (
	SymbologyEAN13   = "EAN13"
	SymbologyEAN8    = "EAN8"
	SymbologyUPCA    = "UPCA"
	SymbologyUPCE    = "UPCE"
	SymbologyCode39  = "CODE39"
	SymbologyCode93  = "CODE93"
	SymbologyCode128 = "CODE128"
	SymbologyITF     = "ITF"
	SymbologyQR      = "QRCODE"
	SymbologyOCR     = "OCR"

	// SymbologyGGLabel tags printed GG inventory labels read via OCR.
	SymbologyGGLabel = "GG"
)

// Code is a single recognised code. It is an immutable value.
type Code struct {
	// Symbology identifies the code family (EAN13, QRCODE, CODE39, OCR, GG).
	Symbology string `json:"symbology"`

	// Value is the decoded payload. Never empty.
	Value string `json:"value"`

	// Source names the decoder that produced the code.
	// It is not part of the code's identity.
	Source string `json:"source"`
}

// Key identifies a code for deduplication: two codes are duplicates
// iff their symbology and value match.
type Key struct {
	Symbology string
	Value     string
}

// Key returns the deduplication identity of the code.
func (c Code) Key() Key {
	return Key{Symbology: c.Symbology, Value: c.Value}
}

// String returns "SYMBOLOGY:value".
func (c Code) String() string {
	return c.Symbology + ":" + c.Value
}

// IsQCode reports whether the code is a Q-code: a CODE39 value starting
// with "Q". Q-codes are label-like markers, not product barcodes.
func IsQCode(c Code) bool {
	return c.Symbology == SymbologyCode39 && strings.HasPrefix(c.Value, "Q")
}

// IsGGLabel reports whether the code is a printed GG inventory label.
func IsGGLabel(c Code) bool {
	return c.Symbology == SymbologyGGLabel
}

// ProvisionalFunc reports whether a code is provisional: found, but not
// definitive enough to skip slower decoders.
type ProvisionalFunc func(Code) bool

// ProvisionalRule declares a family of provisional results by symbology and
// value prefix. An empty prefix matches every value of the symbology.
type ProvisionalRule struct {
	Symbology string
	Prefix    string
}

// DefaultProvisionalRules holds the Q-code rule.
var DefaultProvisionalRules = []ProvisionalRule{
	{Symbology: SymbologyCode39, Prefix: "Q"},
}

// Matches reports whether the rule covers the code.
func (r ProvisionalRule) Matches(c Code) bool {
	return c.Symbology == r.Symbology && strings.HasPrefix(c.Value, r.Prefix)
}

// ProvisionalByRules builds a ProvisionalFunc from a rule table.
func ProvisionalByRules(rules []ProvisionalRule) ProvisionalFunc {
	return func(c Code) bool {
		for _, r := range rules {
			if r.Matches(c) {
				return true
			}
		}
		return false
	}
}

// Dedup returns codes in their original order with duplicate keys and
// empty values removed. The first occurrence of a key wins.
func Dedup(codes []Code) []Code {
	seen := make(map[Key]struct{}, len(codes))
	out := make([]Code, 0, len(codes))
	for _, c := range codes {
		if c.Value == "" {
			continue
		}
		if _, ok := seen[c.Key()]; ok {
			continue
		}
		seen[c.Key()] = struct{}{}
		out = append(out, c)
	}
	return out
}
