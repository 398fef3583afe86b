package mapping

import "strings"

//go:generate go tool stringer -type=ValueType -linecomment -output=valuetype_string.go

// ValueType is a cast target or a declared column type.
type ValueType int

const (
	TypeUnknown  ValueType = iota // unknown
	TypeString                    // string
	TypeInteger                   // integer
	TypeDecimal                   // decimal
	TypeBoolean                   // boolean
	TypeDatetime                  // datetime
)

// ValueTypes lists the types accepted by AS.
var ValueTypes = []ValueType{TypeString, TypeInteger, TypeDecimal, TypeBoolean, TypeDatetime}

// ParseValueType resolves a cast type name case-insensitively.
func ParseValueType(name string) (ValueType, bool) {
	for _, t := range ValueTypes {
		if strings.EqualFold(t.String(), name) {
			return t, true
		}
	}

	return TypeUnknown, false
}

// sqlTypes maps SQL column type names used in component schemas.
var sqlTypes = map[string]ValueType{
	"TEXT":      TypeString,
	"VARCHAR":   TypeString,
	"CHAR":      TypeString,
	"STRING":    TypeString,
	"INTEGER":   TypeInteger,
	"INT":       TypeInteger,
	"BIGINT":    TypeInteger,
	"SMALLINT":  TypeInteger,
	"DECIMAL":   TypeDecimal,
	"NUMERIC":   TypeDecimal,
	"REAL":      TypeDecimal,
	"FLOAT":     TypeDecimal,
	"DOUBLE":    TypeDecimal,
	"BOOLEAN":   TypeBoolean,
	"BOOL":      TypeBoolean,
	"DATETIME":  TypeDatetime,
	"TIMESTAMP": TypeDatetime,
	"DATE":      TypeDatetime,
}

// ParseColumnType resolves a schema column type. Length suffixes such as
// VARCHAR(20) are ignored.
func ParseColumnType(name string) (ValueType, bool) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	if i := strings.IndexByte(upper, '('); i > 0 {
		upper = strings.TrimSpace(upper[:i])
	}

	if t, ok := sqlTypes[upper]; ok {
		return t, true
	}

	return ParseValueType(upper)
}

// IsNumeric reports whether values of the type can be summed.
func (t ValueType) IsNumeric() bool {
	return t == TypeInteger || t == TypeDecimal
}

// ConvertibleTo reports whether a value declared as t can be cast to other
// without depending on the data.
func (t ValueType) ConvertibleTo(other ValueType) bool {
	if t == other || t == TypeUnknown || t == TypeString || other == TypeString {
		return true
	}

	switch t {
	case TypeInteger, TypeDecimal, TypeBoolean:
		return other == TypeInteger || other == TypeDecimal || other == TypeBoolean
	default:
		return false
	}
}
