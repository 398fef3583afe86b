// Package lexer turns DML source text into a token stream.
//
// Tokenize is a single pass over the input built on parsly matchers. Keywords are
// matched case-insensitively, '#' and '/* */' comments are dropped, and every
// token records its line and column so later stages can report positions.
// The first malformed token aborts lexing with a *LexError.
package lexer
