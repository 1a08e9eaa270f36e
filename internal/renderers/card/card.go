// Package card renders decoded codes for people: as Telegram-flavoured HTML
// for chat delivery and as a styled card for the terminal.
package card

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/labelscan/internal/core/domain"
)

// EmptyMessage is shown when a photo produced no codes.
const EmptyMessage = "no codes found"

// Kind classifies a code for display.
type Kind string

// Display kinds, in card order.
const (
	KindBarcode Kind = "Barcodes"
	KindGGLabel Kind = "GG labels"
	KindQCode   Kind = "Q-codes"
	KindOCR     Kind = "OCR digits"
)

var kindOrder = []Kind{KindBarcode, KindGGLabel, KindQCode, KindOCR}

// KindOf returns the display kind of a code.
func KindOf(c domain.Code) Kind {
	switch {
	case domain.IsGGLabel(c):
		return KindGGLabel
	case domain.IsQCode(c):
		return KindQCode
	case c.Symbology == domain.SymbologyOCR:
		return KindOCR
	default:
		return KindBarcode
	}
}

// Group is a run of codes of one kind.
type Group struct {
	Kind  Kind
	Codes []domain.Code
}

// GroupCodes groups codes by kind in card order, keeping input order
// within each group. Empty groups are omitted.
func GroupCodes(codes []domain.Code) []Group {
	byKind := make(map[Kind][]domain.Code)
	for _, c := range codes {
		k := KindOf(c)
		byKind[k] = append(byKind[k], c)
	}

	groups := make([]Group, 0, len(byKind))
	for _, k := range kindOrder {
		if cs := byKind[k]; len(cs) > 0 {
			groups = append(groups, Group{Kind: k, Codes: cs})
		}
	}
	return groups
}

// Telegram HTML allows only a small tag set; b, i and code are enough.
const htmlTemplate = `{{if not .Groups}}<i>{{.Empty}}</i>{{else}}<b>Found {{.Total}} code(s)</b>
{{range .Groups}}
<b>{{.Kind}}</b>
{{range .Codes}}• <code>{{.Value}}</code> <i>{{.Symbology}}</i>
{{end}}{{end}}{{end}}`

// Renderer renders code lists.
type Renderer struct {
	tpl    *template.Template
	styles *Styles
}

// New creates a renderer. A nil styles uses the default theme.
func New(styles *Styles) *Renderer {
	if styles == nil {
		styles = NewStyles(nil)
	}
	return &Renderer{
		tpl:    template.Must(template.New("card").Parse(htmlTemplate)),
		styles: styles,
	}
}

// HTML renders codes as Telegram HTML. Values are escaped.
func (r *Renderer) HTML(codes []domain.Code) (string, error) {
	data := struct {
		Groups []Group
		Total  int
		Empty  string
	}{
		Groups: GroupCodes(codes),
		Total:  len(codes),
		Empty:  EmptyMessage,
	}

	var buf bytes.Buffer
	if err := r.tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render card: %w", err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// Terminal renders codes as a bordered card.
func (r *Renderer) Terminal(codes []domain.Code) string {
	s := r.styles
	groups := GroupCodes(codes)
	if len(groups) == 0 {
		return s.Border.Render(s.Muted.Render(EmptyMessage))
	}

	sections := []string{s.Title.Render(fmt.Sprintf("Found %d code(s)", len(codes)))}
	for _, g := range groups {
		lines := []string{"", s.Heading.Render(string(g.Kind))}
		for _, c := range g.Codes {
			value := s.Value.Render(c.Value)
			if g.Kind == KindQCode {
				value = s.Warning.Render(c.Value)
			}
			lines = append(lines, fmt.Sprintf("  %s  %s", value, s.Muted.Render(c.Symbology+" · "+c.Source)))
		}
		sections = append(sections, lines...)
	}

	return s.Border.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}
