package mapping

import "strconv"

// LiteralKind classifies a literal value.
type LiteralKind int

const (
	LiteralNull LiteralKind = iota
	LiteralString
	LiteralInt
	LiteralFloat
	LiteralBool
)

// Literal is a constant appearing in the source: a default, a transform
// argument, a comparison operand or a configuration value.
type Literal struct {
	Kind  LiteralKind
	Value any
	// Bare marks an unquoted identifier used as a configuration value.
	Bare bool
	Pos  Position
}

// StringLiteral builds a string literal.
func StringLiteral(s string) Literal {
	return Literal{Kind: LiteralString, Value: s}
}

// IntLiteral builds an integer literal.
func IntLiteral(i int64) Literal {
	return Literal{Kind: LiteralInt, Value: i}
}

// IsNumeric reports whether the literal is a number.
func (l Literal) IsNumeric() bool {
	return l.Kind == LiteralInt || l.Kind == LiteralFloat
}

// Text renders the literal value without quotes.
func (l Literal) Text() string {
	switch v := l.Value.(type) {
	case nil:
		return "null"
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

func (l Literal) String() string {
	if l.Kind == LiteralString && !l.Bare {
		return strconv.Quote(l.Text())
	}

	return l.Text()
}
