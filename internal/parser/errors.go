package parser

import (
	"fmt"

	"dml-mapper/internal/lexer"
)

// ParseError reports a token that does not fit the grammar.
type ParseError struct {
	Token    lexer.Token
	Expected string
	// Detail optionally explains why an otherwise well-formed token was rejected.
	Detail string
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("%s: expected %s, got %s", e.Token.Pos, e.Expected, e.Token)
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}

	return msg
}
