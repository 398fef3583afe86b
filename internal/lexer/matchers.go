package lexer

import (
	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

// parsly token codes; only used inside this package.
const (
	whitespaceCode = iota
	lineCommentCode
	blockCommentCode
	doubleQuotedCode
	singleQuotedCode
	numberCode
	identCode
	operatorCode
)

var (
	whitespaceMatcher   = parsly.NewToken(whitespaceCode, "Whitespace", matcher.NewWhiteSpace())
	lineCommentMatcher  = parsly.NewToken(lineCommentCode, "LineComment", &lineCommentMatch{})
	blockCommentMatcher = parsly.NewToken(blockCommentCode, "BlockComment", matcher.NewSeqBlock("/*", "*/"))
	doubleQuotedMatcher = parsly.NewToken(doubleQuotedCode, "DoubleQuote", matcher.NewBlock('"', '"', '\\'))
	singleQuotedMatcher = parsly.NewToken(singleQuotedCode, "SingleQuote", matcher.NewBlock('\'', '\'', '\\'))
	numberMatcher       = parsly.NewToken(numberCode, "Number", &numberMatch{})
	identMatcher        = parsly.NewToken(identCode, "Identifier", &identMatch{})
	operatorMatcher     = parsly.NewToken(operatorCode, "Operator", &operatorMatch{})
)

// operators is ordered so that two-byte operators win over their one-byte prefixes.
var operators = []struct {
	text string
	kind Kind
}{
	{"->", Arrow},
	{">=", Gte},
	{"<=", Lte},
	{"==", Eq},
	{"!=", Neq},
	{">", Gt},
	{"<", Lt},
	{"{", LBrace},
	{"}", RBrace},
	{"(", LParen},
	{")", RParen},
	{",", Comma},
	{":", Colon},
}

type lineCommentMatch struct{}

func (m *lineCommentMatch) Match(cursor *parsly.Cursor) int {
	if cursor.Pos >= cursor.InputSize || cursor.Input[cursor.Pos] != '#' {
		return 0
	}

	pos := cursor.Pos + 1
	for pos < cursor.InputSize && cursor.Input[pos] != '\n' {
		pos++
	}

	return pos - cursor.Pos
}

type numberMatch struct{}

func (m *numberMatch) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos

	if pos < cursor.InputSize && input[pos] == '-' {
		pos++
	}

	digits := pos
	for pos < cursor.InputSize && isDigit(input[pos]) {
		pos++
	}

	if pos == digits {
		return 0
	}

	if pos+1 < cursor.InputSize && input[pos] == '.' && isDigit(input[pos+1]) {
		pos++
		for pos < cursor.InputSize && isDigit(input[pos]) {
			pos++
		}
	}

	if pos < cursor.InputSize && isIdentPart(input[pos]) {
		// 12abc is an identifier-like run, not a number.
		return 0
	}

	return pos - cursor.Pos
}

type identMatch struct{}

func (m *identMatch) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	if cursor.Pos >= cursor.InputSize || !isIdentStart(input[cursor.Pos]) {
		return 0
	}

	pos := cursor.Pos + 1
	for pos < cursor.InputSize {
		b := input[pos]

		switch {
		case isIdentPart(b):
			pos++
		case (b == '/' || b == '.') && pos+1 < cursor.InputSize && isIdentPart(input[pos+1]):
			pos += 2
		default:
			return pos - cursor.Pos
		}
	}

	return pos - cursor.Pos
}

type operatorMatch struct{}

func (m *operatorMatch) Match(cursor *parsly.Cursor) int {
	rest := cursor.Input[cursor.Pos:]
	for _, op := range operators {
		if len(rest) >= len(op.text) && string(rest[:len(op.text)]) == op.text {
			return len(op.text)
		}
	}

	return 0
}

func operatorKind(text string) Kind {
	for _, op := range operators {
		if op.text == text {
			return op.kind
		}
	}

	return EOF
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isIdentStart(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_' || b == '@'
}

func isIdentPart(b byte) bool {
	return isIdentStart(b) || isDigit(b)
}
