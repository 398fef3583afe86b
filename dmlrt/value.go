package dmlrt

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// Type is a cast target or a declared column type.
type Type int

const (
	TypeUnknown Type = iota
	TypeString
	TypeInteger
	TypeDecimal
	TypeBoolean
	TypeDatetime
)

func (t Type) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeInteger:
		return "integer"
	case TypeDecimal:
		return "decimal"
	case TypeBoolean:
		return "boolean"
	case TypeDatetime:
		return "datetime"
	default:
		return "unknown"
	}
}

// Column is a declared column of a table loaded into the store.
type Column struct {
	Name string
	Type Type
}

// inputLayouts are tried in order when a string is read as a datetime.
var inputLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02/01/2006",
	"01/02/2006",
	"20060102",
}

// Cast converts v to t. nil stays nil.
func Cast(v any, t Type) (any, error) {
	switch t {
	case TypeString:
		return ToString(v)
	case TypeInteger:
		return ToInteger(v)
	case TypeDecimal:
		return ToDecimal(v)
	case TypeBoolean:
		return ToBoolean(v)
	case TypeDatetime:
		return ToDatetime(v)
	default:
		return v, nil
	}
}

// ToString renders v as text.
func ToString(v any) (any, error) {
	if v == nil {
		return nil, nil
	}

	return FormatValue(v), nil
}

// ToInteger converts v to int64. Strings must hold an integral number;
// fractional values are rejected rather than truncated.
func ToInteger(v any) (any, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case int64:
		return val, nil
	case int:
		return int64(val), nil
	case float64:
		if val != math.Trunc(val) || math.IsInf(val, 0) || math.IsNaN(val) {
			return nil, fmt.Errorf("%v is not an integer", val)
		}

		return int64(val), nil
	case bool:
		if val {
			return int64(1), nil
		}

		return int64(0), nil
	case string:
		s := strings.TrimSpace(val)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, nil
		}

		if f, err := strconv.ParseFloat(s, 64); err == nil && f == math.Trunc(f) {
			return int64(f), nil
		}

		return nil, fmt.Errorf("%q is not an integer", val)
	default:
		return ToInteger(FormatValue(v))
	}
}

// ToDecimal converts v to float64.
func ToDecimal(v any) (any, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case float64:
		return val, nil
	case int64:
		return float64(val), nil
	case int:
		return float64(val), nil
	case bool:
		if val {
			return 1.0, nil
		}

		return 0.0, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", val)
		}

		return f, nil
	default:
		return ToDecimal(FormatValue(v))
	}
}

// ToBoolean converts v to bool. Accepted strings are true/false, yes/no,
// y/n, t/f and 1/0 in any case.
func ToBoolean(v any) (any, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case bool:
		return val, nil
	case int64:
		return val != 0, nil
	case float64:
		return val != 0, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "yes", "y", "t", "1":
			return true, nil
		case "false", "no", "n", "f", "0":
			return false, nil
		}

		return nil, fmt.Errorf("%q is not a boolean", val)
	default:
		return nil, fmt.Errorf("%T is not a boolean", v)
	}
}

// ToDatetime converts v to time.Time. Integers are Unix seconds.
func ToDatetime(v any) (any, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case time.Time:
		return val, nil
	case int64:
		return time.Unix(val, 0).UTC(), nil
	case string:
		t, err := parseTime(strings.TrimSpace(val), "", time.UTC)
		if err != nil {
			return nil, err
		}

		return t, nil
	default:
		return nil, fmt.Errorf("%T is not a datetime", v)
	}
}

func parseTime(s, layout string, loc *time.Location) (time.Time, error) {
	if layout != "" {
		t, err := time.ParseInLocation(goLayout(layout), s, loc)
		if err != nil {
			return time.Time{}, errors.Wrapf(err, "%q does not match %q", s, layout)
		}

		return t, nil
	}

	for _, l := range inputLayouts {
		if t, err := time.ParseInLocation(l, s, loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("%q is not a recognized date", s)
}

// FormatValue renders v the way it is written to text formats.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int64:
		return strconv.FormatInt(val, 10)
	case int:
		return strconv.Itoa(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		return val.Format(time.RFC3339)
	case []byte:
		return string(val)
	case *Record, []any:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}

		return string(data)
	default:
		return fmt.Sprint(val)
	}
}

// number returns v as float64 when it is a number or a numeric string.
func number(v any) (float64, bool) {
	switch val := v.(type) {
	case int64:
		return float64(val), true
	case int:
		return float64(val), true
	case float64:
		return val, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Op is a comparison operator of a condition.
type Op int

const (
	Eq Op = iota
	Neq
	Gt
	Gte
	Lt
	Lte
)

// Compare evaluates a op b. Numbers and numeric strings compare as numbers,
// booleans and times by value, everything else as text. nil equals only nil
// and is never ordered.
func Compare(a any, op Op, b any) bool {
	if a == nil || b == nil {
		switch op {
		case Eq:
			return a == nil && b == nil
		case Neq:
			return (a == nil) != (b == nil)
		default:
			return false
		}
	}

	return ordered(compareValues(a, b), op)
}

func ordered(c int, op Op) bool {
	switch op {
	case Eq:
		return c == 0
	case Neq:
		return c != 0
	case Gt:
		return c > 0
	case Gte:
		return c >= 0
	case Lt:
		return c < 0
	case Lte:
		return c <= 0
	default:
		return false
	}
}

func compareValues(a, b any) int {
	if ab, ok := a.(bool); ok {
		if bb, err := ToBoolean(b); err == nil {
			return compareBool(ab, bb.(bool))
		}
	}

	if bb, ok := b.(bool); ok {
		if ab, err := ToBoolean(a); err == nil {
			return compareBool(ab.(bool), bb)
		}
	}

	if at, ok := a.(time.Time); ok {
		if bt, err := ToDatetime(b); err == nil {
			return at.Compare(bt.(time.Time))
		}
	}

	if bt, ok := b.(time.Time); ok {
		if at, err := ToDatetime(a); err == nil {
			return at.(time.Time).Compare(bt)
		}
	}

	if af, ok := number(a); ok {
		if bf, ok := number(b); ok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			default:
				return 0
			}
		}
	}

	return strings.Compare(FormatValue(a), FormatValue(b))
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

// Truthy reports whether a bare condition operand holds.
func Truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case int64:
		return val != 0
	case float64:
		return val != 0
	case string:
		s := strings.ToLower(strings.TrimSpace(val))
		return s != "" && s != "false" && s != "0"
	case *Record:
		return val.Len() > 0
	case []any:
		return len(val) > 0
	default:
		return true
	}
}

// Join space-joins the non-nil values, or returns nil when all are nil.
func Join(values ...any) any {
	parts := make([]string, 0, len(values))

	for _, v := range values {
		if v != nil {
			parts = append(parts, FormatValue(v))
		}
	}

	if len(parts) == 0 {
		return nil
	}

	return strings.Join(parts, " ")
}

// AllNull reports whether every value is nil.
func AllNull(values ...any) bool {
	for _, v := range values {
		if v != nil {
			return false
		}
	}

	return true
}
