package gen

import (
	"fmt"
	"strconv"
	"strings"

	"dml-mapper/internal/mapping"
)

// rt is the name the generated file imports the runtime package under.
const rt = "dmlrt"

var runtimeOps = [...]string{
	mapping.OpEq:  "Eq",
	mapping.OpNeq: "Neq",
	mapping.OpGt:  "Gt",
	mapping.OpGte: "Gte",
	mapping.OpLt:  "Lt",
	mapping.OpLte: "Lte",
}

var castFuncs = map[mapping.ValueType]string{
	mapping.TypeString:   "ToString",
	mapping.TypeInteger:  "ToInteger",
	mapping.TypeDecimal:  "ToDecimal",
	mapping.TypeBoolean:  "ToBoolean",
	mapping.TypeDatetime: "ToDatetime",
}

var runtimeTypes = map[mapping.ValueType]string{
	mapping.TypeUnknown:  "TypeUnknown",
	mapping.TypeString:   "TypeString",
	mapping.TypeInteger:  "TypeInteger",
	mapping.TypeDecimal:  "TypeDecimal",
	mapping.TypeBoolean:  "TypeBoolean",
	mapping.TypeDatetime: "TypeDatetime",
}

// negate prefixes cond with '!'. Logical expressions already carry their
// own parentheses.
func negate(e mapping.Expr, cond string) string {
	if _, ok := e.(*mapping.LogicalExpr); ok {
		return "!" + cond
	}

	return "!(" + cond + ")"
}

// goLiteral renders a DML literal as a Go expression of the runtime value
// types: string, int64, float64, bool or nil.
func goLiteral(l mapping.Literal) string {
	switch v := l.Value.(type) {
	case string:
		return strconv.Quote(v)
	case int64:
		return fmt.Sprintf("int64(%d)", v)
	case float64:
		return fmt.Sprintf("float64(%s)", strconv.FormatFloat(v, 'g', -1, 64))
	case bool:
		return strconv.FormatBool(v)
	default:
		return "nil"
	}
}

// quoteAll renders path segments as a Go argument list.
func quoteAll(segments []string) string {
	quoted := make([]string, len(segments))
	for i, s := range segments {
		quoted[i] = strconv.Quote(s)
	}

	return strings.Join(quoted, ", ")
}

// fieldExpr reads ref from the active record. Inside a loop unqualified
// paths are relative to the current element.
func fieldExpr(ref mapping.FieldRef, depth int) string {
	if depth > 0 && ref.Alias == "" {
		return fmt.Sprintf("%s.Lookup(scope, %s)", rt, quoteAll(ref.Path.Segments))
	}

	return fmt.Sprintf("in.Get(%q, %s)", ref.Alias, quoteAll(ref.Path.Segments))
}

// condExpr lowers a condition to a Go boolean expression.
func condExpr(e mapping.Expr, depth int) (string, error) {
	switch x := e.(type) {
	case *mapping.CompareExpr:
		left, err := operandExpr(x.Left, depth)
		if err != nil {
			return "", err
		}

		right, err := operandExpr(x.Right, depth)
		if err != nil {
			return "", err
		}

		return fmt.Sprintf("%s.Compare(%s, %s.%s, %s)", rt, left, rt, runtimeOps[x.Op], right), nil
	case *mapping.LogicalExpr:
		left, err := condExpr(x.Left, depth)
		if err != nil {
			return "", err
		}

		right, err := condExpr(x.Right, depth)
		if err != nil {
			return "", err
		}

		op := "&&"
		if x.Op == mapping.OpOr {
			op = "||"
		}

		return fmt.Sprintf("(%s %s %s)", left, op, right), nil
	case *mapping.NotExpr:
		inner, err := condExpr(x.X, depth)
		if err != nil {
			return "", err
		}

		return negate(x.X, inner), nil
	case *mapping.FieldExpr, *mapping.LiteralExpr:
		operand, err := operandExpr(x, depth)
		if err != nil {
			return "", err
		}

		return fmt.Sprintf("%s.Truthy(%s)", rt, operand), nil
	default:
		return "", invariant("unsupported condition %T", e)
	}
}

func operandExpr(e mapping.Expr, depth int) (string, error) {
	switch x := e.(type) {
	case *mapping.FieldExpr:
		return fieldExpr(x.Ref, depth), nil
	case *mapping.LiteralExpr:
		return goLiteral(x.Value), nil
	default:
		return "", invariant("comparison operand must be a field or literal, got %T", e)
	}
}

// condText renders a condition back to DML for comments.
func condText(e mapping.Expr) string {
	switch x := e.(type) {
	case *mapping.CompareExpr:
		return condText(x.Left) + " " + x.Op.String() + " " + condText(x.Right)
	case *mapping.LogicalExpr:
		return "(" + condText(x.Left) + " " + x.Op.String() + " " + condText(x.Right) + ")"
	case *mapping.NotExpr:
		return "NOT " + condText(x.X)
	case *mapping.FieldExpr:
		return x.Ref.String()
	case *mapping.LiteralExpr:
		return x.Value.String()
	default:
		return "?"
	}
}

// ruleText renders a map rule back to DML for comments.
func ruleText(r *mapping.MapRule) string {
	sources := make([]string, len(r.Sources))
	for i, s := range r.Sources {
		sources[i] = s.String()
	}

	var b strings.Builder

	fmt.Fprintf(&b, "map %s -> %s", strings.Join(sources, ", "), r.Target)

	if r.Transform != nil {
		args := make([]string, len(r.Transform.Args))
		for i, a := range r.Transform.Args {
			args[i] = argText(a)
		}

		fmt.Fprintf(&b, " TRANSFORM %s(%s)", r.Transform.Name, strings.Join(args, ", "))
	}

	if r.CastType != "" {
		fmt.Fprintf(&b, " AS %s", r.CastType)
	}

	if r.Condition != nil {
		fmt.Fprintf(&b, " IF %s", condText(r.Condition))
	}

	if r.Default != nil {
		fmt.Fprintf(&b, " DEFAULT %s", r.Default)
	}

	if r.ElseDefault != nil {
		fmt.Fprintf(&b, " ELSE %s", r.ElseDefault)
	}

	return singleLine(b.String())
}

func argText(a mapping.Arg) string {
	if a.Field != nil {
		return a.Field.String()
	}

	if a.Literal != nil {
		return a.Literal.String()
	}

	return "?"
}

// singleLine keeps rendered DML safe inside a line comment.
func singleLine(s string) string {
	return strings.NewReplacer("\n", `\n`, "\r", `\r`).Replace(s)
}
