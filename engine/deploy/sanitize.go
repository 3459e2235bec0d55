package deploy

import (
	"strings"
	"unicode"
)

// Sanitize cleans every placeholder value before it can reach a template.
//
// Display values get control characters (Unicode Cc/Cf) stripped and
// whitespace collapsed, nothing more: escaping a human-visible name
// produces visible escape-sequence artifacts, which is exactly the defect
// the two-mode split prevents. Embedded values keep their line structure
// as escaped sequences so substitution cannot break the surrounding
// document.
func Sanitize(pm PlaceholderMap) map[string]string {
	out := make(map[string]string, len(pm))
	for token, p := range pm {
		switch p.Mode {
		case ModeEmbedded:
			out[token] = sanitizeEmbedded(p.Value)
		default:
			out[token] = sanitizeDisplay(p.Value)
		}
	}
	return out
}

// sanitizeDisplay strips Cc/Cf runes and collapses all whitespace runs to
// a single space. Idempotent on already-clean strings.
func sanitizeDisplay(s string) string {
	return strings.Join(strings.Fields(stripControl(s, false)), " ")
}

// sanitizeEmbedded keeps newlines (as JSON escapes) but removes every
// other control rune, then escapes the structural characters of the
// target document format.
func sanitizeEmbedded(s string) string {
	cleaned := stripControl(s, true)
	var b strings.Builder
	b.Grow(len(cleaned))
	for _, r := range cleaned {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// stripControl removes Cc/Cf runes. With keepLayout newlines and tabs
// survive for the escaper to encode.
func stripControl(s string, keepLayout bool) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if keepLayout && (r == '\n' || r == '\t') {
			b.WriteRune(r)
			continue
		}
		if unicode.In(r, unicode.Cc, unicode.Cf) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
