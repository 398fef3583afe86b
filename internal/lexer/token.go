package lexer

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies the lexical class of a token.
type Kind int

const (
	EOF Kind = iota
	Ident
	String
	Number
	Bool
	Null

	// keywords
	Mapping
	Source
	Component
	Target
	Rules
	Map
	As
	If
	Else
	Transform
	Default
	Loop
	SubRules
	Aggregate
	Function
	And
	Or
	Not

	// punctuation and operators
	LBrace
	RBrace
	LParen
	RParen
	Comma
	Arrow
	Colon
	Eq
	Neq
	Gt
	Gte
	Lt
	Lte
)

var kindNames = map[Kind]string{
	EOF:       "EOF",
	Ident:     "IDENT",
	String:    "STRING",
	Number:    "NUMBER",
	Bool:      "BOOL",
	Null:      "NULL",
	Mapping:   "MAPPING",
	Source:    "SOURCE",
	Component: "COMPONENT",
	Target:    "TARGET",
	Rules:     "RULES",
	Map:       "map",
	As:        "AS",
	If:        "IF",
	Else:      "ELSE",
	Transform: "TRANSFORM",
	Default:   "DEFAULT",
	Loop:      "loop",
	SubRules:  "sub_rules",
	Aggregate: "AGGREGATE",
	Function:  "FUNCTION",
	And:       "AND",
	Or:        "OR",
	Not:       "NOT",
	LBrace:    "{",
	RBrace:    "}",
	LParen:    "(",
	RParen:    ")",
	Comma:     ",",
	Arrow:     "->",
	Colon:     ":",
	Eq:        "==",
	Neq:       "!=",
	Gt:        ">",
	Gte:       ">=",
	Lt:        "<",
	Lte:       "<=",
}

// keywords maps the lower-cased spelling of every reserved word to its kind.
var keywords = map[string]Kind{
	"mapping":   Mapping,
	"source":    Source,
	"component": Component,
	"target":    Target,
	"rules":     Rules,
	"map":       Map,
	"as":        As,
	"if":        If,
	"else":      Else,
	"transform": Transform,
	"default":   Default,
	"loop":      Loop,
	"sub_rules": SubRules,
	"aggregate": Aggregate,
	"function":  Function,
	"and":       And,
	"or":        Or,
	"not":       Not,
	"true":      Bool,
	"false":     Bool,
	"null":      Null,
}

// String returns the display name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// IsKeyword reports whether the kind is a reserved word.
func (k Kind) IsKeyword() bool {
	return k >= Mapping && k <= Not
}

// IsComparison reports whether the kind is a comparison operator.
func (k Kind) IsComparison() bool {
	return k >= Eq && k <= Lte
}

// LookupKeyword returns the keyword kind for word, or Ident.
func LookupKeyword(word string) Kind {
	if kind, ok := keywords[strings.ToLower(word)]; ok {
		return kind
	}

	return Ident
}

// Pos is a location in the source text. Line and Column are 1-based.
type Pos struct {
	Offset int
	Line   int
	Column int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is a single lexical unit.
type Token struct {
	Kind Kind
	// Text is the raw source text of the token.
	Text string
	// Value holds the decoded literal: string for String, int64 or float64 for
	// Number, bool for Bool. Nil otherwise.
	Value any
	Pos   Pos
}

func (t Token) String() string {
	switch t.Kind {
	case Ident, String, Number, Bool:
		return fmt.Sprintf("%s %q", t.Kind, t.Text)
	default:
		return t.Kind.String()
	}
}
