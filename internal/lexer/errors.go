package lexer

import "fmt"

// Lex error reasons.
const (
	ReasonUnexpected          = "unexpected character"
	ReasonUnterminatedString  = "unterminated string"
	ReasonUnterminatedComment = "unterminated comment"
)

// LexError reports a malformed token.
type LexError struct {
	Pos    Pos
	Char   rune
	Reason string
}

func (e *LexError) Error() string {
	if e.Reason == ReasonUnexpected {
		return fmt.Sprintf("%s: %s %q", e.Pos, e.Reason, e.Char)
	}

	return fmt.Sprintf("%s: %s", e.Pos, e.Reason)
}
