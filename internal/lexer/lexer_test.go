package lexer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(tokens []Token) []Kind {
	out := make([]Kind, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, t.Kind)
	}

	return out
}

func TestTokenize_MapRule(t *testing.T) {
	tokens, err := Tokenize(`map Order/OrderID, name -> Record/ID AS integer TRANSFORM substring(0, -2)`)
	require.NoError(t, err)

	assert.Equal(t, []Kind{
		Map, Ident, Comma, Ident, Arrow, Ident, As, Ident,
		Transform, Ident, LParen, Number, Comma, Number, RParen, EOF,
	}, kinds(tokens))
	assert.Equal(t, "Order/OrderID", tokens[1].Text)
	assert.Equal(t, int64(0), tokens[11].Value)
	assert.Equal(t, int64(-2), tokens[13].Value)
}

func TestTokenize_KeywordsAreCaseInsensitive(t *testing.T) {
	tokens, err := Tokenize("mapping Source RULES Map LOOP Sub_Rules and Or not")
	require.NoError(t, err)

	assert.Equal(t, []Kind{Mapping, Source, Rules, Map, Loop, SubRules, And, Or, Not, EOF}, kinds(tokens))
}

func TestTokenize_Literals(t *testing.T) {
	tokens, err := Tokenize(`"say \"hi\"" 'it''s' 3.25 42 true FALSE null`)
	require.NoError(t, err)

	require.Len(t, tokens, 9)
	assert.Equal(t, String, tokens[0].Kind)
	assert.Equal(t, `say "hi"`, tokens[0].Value)
	assert.Equal(t, "it", tokens[1].Value)
	assert.Equal(t, "s", tokens[2].Value)
	assert.InDelta(t, 3.25, tokens[3].Value, 1e-9)
	assert.Equal(t, int64(42), tokens[4].Value)
	assert.Equal(t, true, tokens[5].Value)
	assert.Equal(t, false, tokens[6].Value)
	assert.Equal(t, Null, tokens[7].Kind)
}

func TestTokenize_Operators(t *testing.T) {
	tokens, err := Tokenize("a >= 1 AND b != 'x' OR c<=2 == d > e < f")
	require.NoError(t, err)

	assert.Equal(t, []Kind{
		Ident, Gte, Number, And, Ident, Neq, String, Or,
		Ident, Lte, Number, Eq, Ident, Gt, Ident, Lt, Ident, EOF,
	}, kinds(tokens))
}

func TestTokenize_StripsComments(t *testing.T) {
	src := "# header\nSOURCE /* block\ncomment */ CSV # trailing\n{ }"

	tokens, err := Tokenize(src)
	require.NoError(t, err)

	assert.Equal(t, []Kind{Source, Ident, LBrace, RBrace, EOF}, kinds(tokens))
	assert.Equal(t, Pos{Offset: 9, Line: 2, Column: 1}, tokens[0].Pos)
	assert.Equal(t, 3, tokens[1].Pos.Line)
	assert.Equal(t, 4, tokens[2].Pos.Line)
}

func TestTokenize_TracksColumns(t *testing.T) {
	tokens, err := Tokenize("RULES {\n    map a -> b\n}")
	require.NoError(t, err)

	assert.Equal(t, Pos{Offset: 12, Line: 2, Column: 5}, tokens[2].Pos)
	assert.Equal(t, 3, tokens[6].Pos.Line)
}

func TestTokenize_PathSegmentsMayStartWithDigits(t *testing.T) {
	tokens, err := Tokenize("N1/01 Order/@id Customer.Name")
	require.NoError(t, err)

	assert.Equal(t, "N1/01", tokens[0].Text)
	assert.Equal(t, "Order/@id", tokens[1].Text)
	assert.Equal(t, "Customer.Name", tokens[2].Text)
}

func TestTokenize_UnexpectedCharacter(t *testing.T) {
	_, err := Tokenize("map a -> b\n  $")

	var lexErr *LexError
	require.True(t, errors.As(err, &lexErr))
	assert.Equal(t, ReasonUnexpected, lexErr.Reason)
	assert.Equal(t, '$', lexErr.Char)
	assert.Equal(t, 2, lexErr.Pos.Line)
	assert.Equal(t, 3, lexErr.Pos.Column)
}

func TestTokenize_SlashSlashIsNotAComment(t *testing.T) {
	_, err := Tokenize("// header\nMAPPING m {}")

	var lexErr *LexError
	require.True(t, errors.As(err, &lexErr))
	assert.Equal(t, '/', lexErr.Char)
	assert.Equal(t, 1, lexErr.Pos.Line)
	assert.Equal(t, 1, lexErr.Pos.Column)
}

func TestTokenize_UnterminatedString(t *testing.T) {
	_, err := Tokenize(`DEFAULT "open`)

	var lexErr *LexError
	require.True(t, errors.As(err, &lexErr))
	assert.Equal(t, ReasonUnterminatedString, lexErr.Reason)
	assert.Equal(t, 9, lexErr.Pos.Column)
}

func TestTokenize_UnterminatedComment(t *testing.T) {
	_, err := Tokenize("RULES /* never closed")

	var lexErr *LexError
	require.True(t, errors.As(err, &lexErr))
	assert.Equal(t, ReasonUnterminatedComment, lexErr.Reason)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "->", Arrow.String())
	assert.Equal(t, "MAPPING", Mapping.String())
	assert.Equal(t, "Kind(999)", Kind(999).String())
}
