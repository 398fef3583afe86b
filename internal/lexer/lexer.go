package lexer

import (
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/viant/parsly"
)

// Tokenize converts DML text into tokens. The result always ends with an EOF token.
func Tokenize(text string) ([]Token, error) {
	lines := newLineIndex(text)
	cursor := parsly.NewCursor("", []byte(text), 0)

	var tokens []Token

	for {
		matched := cursor.MatchAfterOptional(whitespaceMatcher,
			lineCommentMatcher,
			blockCommentMatcher,
			doubleQuotedMatcher,
			singleQuotedMatcher,
			numberMatcher,
			identMatcher,
			operatorMatcher,
		)

		switch matched.Code {
		case parsly.EOF:
			tokens = append(tokens, Token{Kind: EOF, Pos: lines.pos(len(text))})

			return tokens, nil
		case parsly.Invalid:
			offset := skipSpace(text, cursor.Pos)
			if offset >= len(text) {
				tokens = append(tokens, Token{Kind: EOF, Pos: lines.pos(len(text))})

				return tokens, nil
			}

			return nil, invalidAt(text, offset, lines)
		case lineCommentCode, blockCommentCode:
			continue
		}

		raw := matched.Text(cursor)
		pos := lines.pos(matched.Offset)

		tok, err := newToken(matched.Code, raw, pos)
		if err != nil {
			return nil, err
		}

		tokens = append(tokens, tok)
	}
}

func newToken(code int, raw string, pos Pos) (Token, error) {
	tok := Token{Text: raw, Pos: pos}

	switch code {
	case doubleQuotedCode, singleQuotedCode:
		value, ok := unquote(raw)
		if !ok {
			return Token{}, &LexError{Pos: pos, Char: rune(raw[0]), Reason: ReasonUnterminatedString}
		}

		tok.Kind = String
		tok.Value = value
	case numberCode:
		tok.Kind = Number
		tok.Value = parseNumber(raw)
	case identCode:
		tok.Kind = LookupKeyword(raw)

		switch tok.Kind {
		case Bool:
			tok.Value = strings.EqualFold(raw, "true")
		case Null:
			tok.Value = nil
		}
	case operatorCode:
		tok.Kind = operatorKind(raw)
	}

	return tok, nil
}

// invalidAt classifies the byte at offset that no matcher accepted.
func invalidAt(text string, offset int, lines *lineIndex) error {
	pos := lines.pos(offset)
	rest := text[offset:]

	switch {
	case strings.HasPrefix(rest, `"`) || strings.HasPrefix(rest, "'"):
		return &LexError{Pos: pos, Char: rune(rest[0]), Reason: ReasonUnterminatedString}
	case strings.HasPrefix(rest, "/*"):
		return &LexError{Pos: pos, Char: '/', Reason: ReasonUnterminatedComment}
	}

	r, _ := utf8.DecodeRuneInString(rest)

	return &LexError{Pos: pos, Char: r, Reason: ReasonUnexpected}
}

func skipSpace(text string, offset int) int {
	for offset < len(text) && strings.IndexByte(" \t\r\n\v\f", text[offset]) >= 0 {
		offset++
	}

	return offset
}

func parseNumber(raw string) any {
	if strings.Contains(raw, ".") {
		f, err := strconv.ParseFloat(raw, 64)
		if err == nil {
			return f
		}
	}

	i, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		f, _ := strconv.ParseFloat(raw, 64)
		return f
	}

	return i
}

// unquote strips the delimiters of a quoted literal and resolves escapes.
func unquote(raw string) (string, bool) {
	if len(raw) < 2 || raw[len(raw)-1] != raw[0] {
		return "", false
	}

	body := raw[1 : len(raw)-1]
	if !strings.Contains(body, `\`) {
		return body, true
	}

	var sb strings.Builder

	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			sb.WriteByte(c)
			continue
		}

		i++
		if i == len(body) {
			// the closing quote was escaped
			return "", false
		}

		switch body[i] {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		default:
			sb.WriteByte(body[i])
		}
	}

	return sb.String(), true
}

type lineIndex struct {
	starts []int
}

func newLineIndex(text string) *lineIndex {
	starts := []int{0}

	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}

	return &lineIndex{starts: starts}
}

func (l *lineIndex) pos(offset int) Pos {
	line := sort.Search(len(l.starts), func(i int) bool { return l.starts[i] > offset }) - 1

	return Pos{Offset: offset, Line: line + 1, Column: offset - l.starts[line] + 1}
}
