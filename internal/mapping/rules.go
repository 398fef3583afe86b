package mapping

// Statement is one entry of a RULES block or of a nested rule list.
type Statement interface {
	StmtPos() Position
	stmt()
}

// ModifierKind identifies a trailing modifier of a map rule.
type ModifierKind int

const (
	ModifierCast ModifierKind = iota
	ModifierTransform
	ModifierIf
	ModifierDefault
	ModifierElse
	ModifierFunction
)

var modifierNames = [...]string{
	ModifierCast:      "AS",
	ModifierTransform: "TRANSFORM",
	ModifierIf:        "IF",
	ModifierDefault:   "DEFAULT",
	ModifierElse:      "ELSE",
	ModifierFunction:  "FUNCTION",
}

func (k ModifierKind) String() string {
	if int(k) < len(modifierNames) {
		return modifierNames[k]
	}

	return "?"
}

// Modifier records one occurrence of a modifier in source order.
type Modifier struct {
	Kind ModifierKind
	Pos  Position
}

// TransformCall is a TRANSFORM modifier.
type TransformCall struct {
	Name string
	Args []Arg
	Pos  Position
}

// Arg is a transform argument: either a literal or a field of the active record.
type Arg struct {
	Literal *Literal
	Field   *FieldRef
}

// MapRule maps one or more source fields onto a target field.
type MapRule struct {
	Sources     []FieldRef
	Target      FieldRef
	CastType    string
	CastPos     Position
	Transform   *TransformCall
	Condition   Expr
	Default     *Literal
	ElseDefault *Literal
	Modifiers   []Modifier
	Pos         Position
}

// LoopRule applies nested rules to each element of a repeating collection.
type LoopRule struct {
	Collection FieldRef
	// Target is the list field receiving one element per iteration.
	Target FieldRef
	Rules  []Statement
	Pos    Position
}

// IfBlock applies Then when Condition holds and Else otherwise.
type IfBlock struct {
	Condition Expr
	Then      []Statement
	Else      []Statement
	Pos       Position
}

// AggregateRule folds a source field over the whole record stream.
type AggregateRule struct {
	Source    FieldRef
	Target    FieldRef
	Function  string
	CastType  string
	CastPos   Position
	Modifiers []Modifier
	Pos       Position
}

func (r *MapRule) StmtPos() Position       { return r.Pos }
func (r *LoopRule) StmtPos() Position      { return r.Pos }
func (r *IfBlock) StmtPos() Position       { return r.Pos }
func (r *AggregateRule) StmtPos() Position { return r.Pos }

func (*MapRule) stmt()       {}
func (*LoopRule) stmt()      {}
func (*IfBlock) stmt()       {}
func (*AggregateRule) stmt() {}

// HasModifier reports whether the rule carries a modifier of kind.
func (r *MapRule) HasModifier(kind ModifierKind) bool {
	for _, m := range r.Modifiers {
		if m.Kind == kind {
			return true
		}
	}

	return false
}

// Walk calls fn for every statement in stmts, descending into loops and
// conditional blocks. Loops report depth+1 for their nested rules.
func Walk(stmts []Statement, fn func(stmt Statement, loopDepth int)) {
	walk(stmts, 0, fn)
}

func walk(stmts []Statement, depth int, fn func(Statement, int)) {
	for _, s := range stmts {
		fn(s, depth)

		switch st := s.(type) {
		case *LoopRule:
			walk(st.Rules, depth+1, fn)
		case *IfBlock:
			walk(st.Then, depth, fn)
			walk(st.Else, depth, fn)
		}
	}
}

// Aggregates returns the aggregate rules declared directly in stmts.
func Aggregates(stmts []Statement) []*AggregateRule {
	var out []*AggregateRule

	for _, s := range stmts {
		if a, ok := s.(*AggregateRule); ok {
			out = append(out, a)
		}
	}

	return out
}
