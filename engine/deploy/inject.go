package deploy

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/inboxeng/deploykit/engine/core"
)

const (
	tokenOpen  = "<<<"
	tokenClose = ">>>"
)

// Inject substitutes every placeholder token in the template in a single
// pass over a tokenized representation. Replacement values are never
// rescanned, so one value containing another token's literal text cannot
// cause a cascading substitution; the result is independent of map order.
//
// A template token absent from the map fails closed with
// MissingTemplateToken. A substituted result that is not valid JSON fails
// with MalformedOutput: that is a backstop for template or engine version
// mismatches, sanitization is the primary safety mechanism.
func Inject(template string, values map[string]string) (string, error) {
	var b strings.Builder
	b.Grow(len(template))
	rest := template
	for {
		open := strings.Index(rest, tokenOpen)
		if open < 0 {
			b.WriteString(rest)
			break
		}
		b.WriteString(rest[:open])
		tail := rest[open+len(tokenOpen):]
		end := strings.Index(tail, tokenClose)
		if end < 0 {
			// Unterminated marker: the grammar has no escape syntax, so
			// this is literal text.
			b.WriteString(rest[open:])
			break
		}
		name := tail[:end]
		if !validTokenName(name) {
			b.WriteString(rest[open : open+len(tokenOpen)])
			rest = tail
			continue
		}
		value, ok := values[name]
		if !ok {
			return "", core.NewError(
				fmt.Errorf("template references unknown token %q", name),
				core.ErrCodeMissingTemplateToken,
				map[string]any{"token": name},
			)
		}
		b.WriteString(value)
		rest = tail[end+len(tokenClose):]
	}
	result := b.String()
	if !gjson.Valid(result) {
		return "", core.NewErrorf(core.ErrCodeMalformedOutput,
			"substituted document is not valid JSON")
	}
	return result, nil
}

// validTokenName enforces the fixed UPPER_SNAKE token grammar.
func validTokenName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') && r != '_' {
			return false
		}
	}
	return true
}
