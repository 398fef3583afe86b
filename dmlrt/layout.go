package dmlrt

import (
	"strconv"
	"strings"
)

// layoutTokens translates DML date tokens and strftime verbs to Go layout
// elements. Longer tokens come first.
var layoutTokens = strings.NewReplacer(
	"YYYY", "2006",
	"YY", "06",
	"MM", "01",
	"DD", "02",
	"HH", "15",
	"mm", "04",
	"ss", "05",
	"%Y", "2006",
	"%y", "06",
	"%m", "01",
	"%d", "02",
	"%H", "15",
	"%M", "04",
	"%S", "05",
)

func goLayout(format string) string {
	return layoutTokens.Replace(format)
}

// formatNumber applies a pattern made of '#', '0' or '9' digits with an
// optional ',' grouping and '.' fraction. Characters before and after the
// digits are kept as prefix and suffix.
func formatNumber(f float64, pattern string) string {
	first := strings.IndexAny(pattern, "#09,.")
	if first < 0 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}

	last := strings.LastIndexAny(pattern, "#09,.")
	prefix, body, suffix := pattern[:first], pattern[first:last+1], pattern[last+1:]

	intPart, fracPart, _ := strings.Cut(body, ".")
	decimals := len(fracPart)
	minDigits := strings.Count(intPart, "0") + strings.Count(intPart, "9")
	grouping := strings.Contains(intPart, ",")

	neg := f < 0
	if neg {
		f = -f
	}

	text := strconv.FormatFloat(f, 'f', decimals, 64)
	whole, frac, _ := strings.Cut(text, ".")

	if len(whole) < minDigits {
		whole = strings.Repeat("0", minDigits-len(whole)) + whole
	}

	if grouping {
		whole = group(whole)
	}

	var sb strings.Builder

	sb.WriteString(prefix)

	if neg {
		sb.WriteByte('-')
	}

	sb.WriteString(whole)

	if decimals > 0 {
		sb.WriteByte('.')
		sb.WriteString(frac)
	}

	sb.WriteString(suffix)

	return sb.String()
}

func group(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var sb strings.Builder

	lead := len(digits) % 3
	if lead > 0 {
		sb.WriteString(digits[:lead])
	}

	for i := lead; i < len(digits); i += 3 {
		if sb.Len() > 0 {
			sb.WriteByte(',')
		}

		sb.WriteString(digits[i : i+3])
	}

	return sb.String()
}
