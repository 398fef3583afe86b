// Package parser builds the mapping IR from a DML token stream.
//
// The parser is recursive descent with one token of lookahead, except for a
// trailing IF on a map rule, which backtracks when the condition turns out to
// open a conditional block. It stops at the first grammar violation and
// returns a *ParseError naming the offending token and the expected
// production. Semantic checks, including duplicate modifiers, are left to the
// validator.
package parser
