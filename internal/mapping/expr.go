package mapping

// Expr is a condition expression node.
type Expr interface {
	ExprPos() Position
	expr()
}

// CompareOp is a comparison operator.
type CompareOp int

const (
	OpEq CompareOp = iota
	OpNeq
	OpGt
	OpGte
	OpLt
	OpLte
)

var compareOpText = [...]string{
	OpEq:  "==",
	OpNeq: "!=",
	OpGt:  ">",
	OpGte: ">=",
	OpLt:  "<",
	OpLte: "<=",
}

func (op CompareOp) String() string {
	return compareOpText[op]
}

// LogicalOp joins two conditions.
type LogicalOp int

const (
	OpAnd LogicalOp = iota
	OpOr
)

func (op LogicalOp) String() string {
	if op == OpAnd {
		return "AND"
	}

	return "OR"
}

// CompareExpr compares two operands.
type CompareExpr struct {
	Op    CompareOp
	Left  Expr
	Right Expr
	Pos   Position
}

// LogicalExpr combines two conditions with AND or OR.
type LogicalExpr struct {
	Op    LogicalOp
	Left  Expr
	Right Expr
	Pos   Position
}

// NotExpr negates a condition.
type NotExpr struct {
	X   Expr
	Pos Position
}

// FieldExpr reads a field of the active record. Used alone it tests truthiness.
type FieldExpr struct {
	Ref FieldRef
}

// LiteralExpr is a constant operand.
type LiteralExpr struct {
	Value Literal
}

func (e *CompareExpr) ExprPos() Position { return e.Pos }
func (e *LogicalExpr) ExprPos() Position { return e.Pos }
func (e *NotExpr) ExprPos() Position     { return e.Pos }
func (e *FieldExpr) ExprPos() Position   { return e.Ref.Pos }
func (e *LiteralExpr) ExprPos() Position { return e.Value.Pos }

func (*CompareExpr) expr() {}
func (*LogicalExpr) expr() {}
func (*NotExpr) expr()     {}
func (*FieldExpr) expr()   {}
func (*LiteralExpr) expr() {}

// ExprFields returns every field reference in e, left to right.
func ExprFields(e Expr) []FieldRef {
	var refs []FieldRef

	var visit func(Expr)

	visit = func(e Expr) {
		switch x := e.(type) {
		case *CompareExpr:
			visit(x.Left)
			visit(x.Right)
		case *LogicalExpr:
			visit(x.Left)
			visit(x.Right)
		case *NotExpr:
			visit(x.X)
		case *FieldExpr:
			refs = append(refs, x.Ref)
		}
	}

	if e != nil {
		visit(e)
	}

	return refs
}
