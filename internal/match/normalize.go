package match

import (
	"strings"
	"unicode"
)

// NormalizeIdent folds an identifier for fuzzy comparison: CamelCase and
// separators are ignored and the result is lower case, so "OrderID",
// "order_id" and "order-id" all normalize to "orderid".
func NormalizeIdent(s string) string {
	var sb strings.Builder

	sb.Grow(len(s))

	for _, r := range s {
		if isSeparator(r) {
			continue
		}

		sb.WriteRune(unicode.ToLower(r))
	}

	return sb.String()
}

// TokenizeIdent splits an identifier into lower-case words on separators and
// case changes: "XMLParser" -> ["xml", "parser"], "ship_to" -> ["ship", "to"].
func TokenizeIdent(s string) []string {
	var (
		tokens  []string
		current strings.Builder
	)

	runes := []rune(s)
	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, strings.ToLower(current.String()))
			current.Reset()
		}
	}

	for i, r := range runes {
		if isSeparator(r) {
			flush()
			continue
		}

		if i > 0 && startsToken(runes, i) {
			flush()
		}

		current.WriteRune(r)
	}

	flush()

	return tokens
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' ' || r == '/' || r == '.'
}

// startsToken reports a lower-to-upper transition or the end of an acronym.
func startsToken(runes []rune, i int) bool {
	r, prev := runes[i], runes[i-1]
	if !unicode.IsUpper(r) || isSeparator(prev) {
		return false
	}

	if !unicode.IsUpper(prev) {
		return true
	}

	return i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
