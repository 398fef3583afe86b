package dmlrt

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// The transform library. Each function takes the rule value followed by the
// TRANSFORM arguments. A nil value passes through unchanged except for
// Concat and IfElse.

// Upper upper-cases the value.
func Upper(v any, _ ...any) (any, error) {
	if v == nil {
		return nil, nil
	}

	return strings.ToUpper(FormatValue(v)), nil
}

// Lower lower-cases the value.
func Lower(v any, _ ...any) (any, error) {
	if v == nil {
		return nil, nil
	}

	return strings.ToLower(FormatValue(v)), nil
}

// Trim removes surrounding whitespace, or the characters of the optional
// cutset argument.
func Trim(v any, args ...any) (any, error) {
	if v == nil {
		return nil, nil
	}

	s := FormatValue(v)
	if len(args) > 0 {
		return strings.Trim(s, FormatValue(args[0])), nil
	}

	return strings.TrimSpace(s), nil
}

// Substring returns the characters from start up to the optional end.
// Negative positions count from the end; positions are clamped.
func Substring(v any, args ...any) (any, error) {
	if v == nil {
		return nil, nil
	}

	runes := []rune(FormatValue(v))
	n := len(runes)

	start, err := intArg(args, 0, 0)
	if err != nil {
		return nil, err
	}

	end, err := intArg(args, 1, n)
	if err != nil {
		return nil, err
	}

	start, end = clampIndex(start, n), clampIndex(end, n)
	if start >= end {
		return "", nil
	}

	return string(runes[start:end]), nil
}

func clampIndex(i, n int) int {
	if i < 0 {
		i += n
	}

	return max(0, min(i, n))
}

// Replace replaces every occurrence of the first argument with the second.
func Replace(v any, args ...any) (any, error) {
	if v == nil {
		return nil, nil
	}

	if len(args) < 2 {
		return nil, fmt.Errorf("replace needs old and new strings")
	}

	return strings.ReplaceAll(FormatValue(v), FormatValue(args[0]), FormatValue(args[1])), nil
}

// FormatNumber renders a number with a pattern such as "#,##0.00" or
// "000000.00".
func FormatNumber(v any, args ...any) (any, error) {
	if v == nil {
		return nil, nil
	}

	f, ok := number(v)
	if !ok {
		return nil, fmt.Errorf("%q is not a number", FormatValue(v))
	}

	if len(args) == 0 {
		return FormatValue(f), nil
	}

	return formatNumber(f, FormatValue(args[0])), nil
}

// Round rounds half away from zero. Without a digit count the result is an
// integer.
func Round(v any, args ...any) (any, error) {
	if v == nil {
		return nil, nil
	}

	f, ok := number(v)
	if !ok {
		return nil, fmt.Errorf("%q is not a number", FormatValue(v))
	}

	if len(args) == 0 {
		return int64(math.Round(f)), nil
	}

	digits, err := intArg(args, 0, 0)
	if err != nil {
		return nil, err
	}

	scale := math.Pow(10, float64(digits))

	return math.Round(f*scale) / scale, nil
}

// FormatDate reformats a date. The optional second argument is the input
// layout; without it the common layouts are tried.
func FormatDate(v any, args ...any) (any, error) {
	if v == nil {
		return nil, nil
	}

	if len(args) == 0 {
		return nil, fmt.Errorf("format_date needs an output format")
	}

	t, err := timeArg(v, args, 1, time.UTC)
	if err != nil {
		return nil, err
	}

	return t.Format(goLayout(FormatValue(args[0]))), nil
}

// ConvertTimezone reads the value in the first zone and renders it in the
// second, using the optional third argument as output format.
func ConvertTimezone(v any, args ...any) (any, error) {
	if v == nil {
		return nil, nil
	}

	if len(args) < 2 {
		return nil, fmt.Errorf("convert_timezone needs source and target zones")
	}

	from, err := time.LoadLocation(FormatValue(args[0]))
	if err != nil {
		return nil, err
	}

	to, err := time.LoadLocation(FormatValue(args[1]))
	if err != nil {
		return nil, err
	}

	t, err := timeArg(v, nil, 0, from)
	if err != nil {
		return nil, err
	}

	layout := "2006-01-02 15:04:05"
	if len(args) > 2 {
		layout = goLayout(FormatValue(args[2]))
	}

	return t.In(to).Format(layout), nil
}

// IfElse returns the second argument when the value equals the first, else
// the third.
func IfElse(v any, args ...any) (any, error) {
	if len(args) < 3 {
		return nil, fmt.Errorf("ifelse needs match, then and else values")
	}

	if Compare(v, Eq, args[0]) {
		return args[1], nil
	}

	return args[2], nil
}

// Concat joins the value and every argument, skipping nils.
func Concat(v any, args ...any) (any, error) {
	var sb strings.Builder

	for _, part := range append([]any{v}, args...) {
		if part != nil {
			sb.WriteString(FormatValue(part))
		}
	}

	return sb.String(), nil
}

// Int converts to an integer, truncating fractions.
func Int(v any, _ ...any) (any, error) {
	if v == nil {
		return nil, nil
	}

	f, ok := number(v)
	if !ok {
		return nil, fmt.Errorf("%q is not a number", FormatValue(v))
	}

	return int64(f), nil
}

// Float converts to a decimal.
func Float(v any, _ ...any) (any, error) {
	return ToDecimal(v)
}

func intArg(args []any, i, def int) (int, error) {
	if i >= len(args) || args[i] == nil {
		return def, nil
	}

	n, err := ToInteger(args[i])
	if err != nil {
		return 0, err
	}

	return int(n.(int64)), nil
}

func timeArg(v any, args []any, layoutIdx int, loc *time.Location) (time.Time, error) {
	if t, ok := v.(time.Time); ok {
		return t, nil
	}

	layout := ""
	if layoutIdx < len(args) {
		layout = FormatValue(args[layoutIdx])
	}

	return parseTime(strings.TrimSpace(FormatValue(v)), layout, loc)
}
