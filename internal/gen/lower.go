package gen

import (
	"fmt"
	"strconv"
	"strings"

	"dml-mapper/internal/mapping"
	"dml-mapper/internal/plan"
)

// ruleSignature is shared by every lowered statement. scope is the current
// loop element, nil at the top level.
const ruleSignature = "(in *" + rt + ".Input, scope any, out *" + rt + ".Record) error"

// body accumulates the lines of one generated function.
type body struct {
	b strings.Builder
}

func (b *body) line(indent int, format string, args ...any) {
	b.b.WriteString(strings.Repeat("\t", indent))
	fmt.Fprintf(&b.b, format, args...)
	b.b.WriteByte('\n')
}

func (b *body) blank() {
	b.b.WriteByte('\n')
}

func (b *body) String() string {
	return b.b.String()
}

// lowerer turns statements into Go functions, in source order.
type lowerer struct {
	vm       *plan.ValidatedMapping
	rules    *stem
	folds    *stem
	comments bool
	funcs    []string
}

func newLowerer(vm *plan.ValidatedMapping, comments bool) *lowerer {
	taken := reserved()

	return &lowerer{
		vm:       vm,
		rules:    newStem("rule", taken),
		folds:    newStem("fold", taken),
		comments: comments,
	}
}

// reserve claims a slot so a function is emitted before the ones it calls.
func (l *lowerer) reserve() int {
	l.funcs = append(l.funcs, "")
	return len(l.funcs) - 1
}

// calls lowers stmts and renders the calls that apply them to out.
func (l *lowerer) calls(b *body, indent int, stmts []mapping.Statement, depth int, scope, out, fail string) error {
	for _, s := range stmts {
		name, err := l.statement(s, depth)
		if err != nil {
			return err
		}

		b.line(indent, "if err := %s(in, %s, %s); err != nil {", name, scope, out)
		b.line(indent+1, "return %s", fail)
		b.line(indent, "}")
	}

	return nil
}

func (l *lowerer) statement(s mapping.Statement, depth int) (string, error) {
	switch st := s.(type) {
	case *mapping.MapRule:
		return l.mapRule(st, depth)
	case *mapping.LoopRule:
		return l.loopRule(st, depth)
	case *mapping.IfBlock:
		return l.ifBlock(st, depth)
	case *mapping.AggregateRule:
		return "", invariant("%s: aggregate %s outside the top level of RULES", st.Pos, st.Target)
	default:
		return "", invariant("unsupported statement %T", s)
	}
}

// mapRecord lowers the top-level statements. Aggregate results are copied
// into the output at their rule position.
func (l *lowerer) mapRecord(stmts []mapping.Statement) error {
	idx := l.reserve()

	var b body

	if l.comments {
		b.line(0, "// mapRecord builds the output record for one input.")
	}

	b.line(0, "func mapRecord(in *%s.Input) (*%s.Record, error) {", rt, rt)
	b.line(1, "out := %s.NewRecord()", rt)

	for _, s := range stmts {
		if agg, ok := s.(*mapping.AggregateRule); ok {
			path := quoteAll(agg.Target.Path.Segments)
			b.line(1, "out.SetPath(in.Aggregate(%s), %s)", path, path)

			continue
		}

		if err := l.calls(&b, 1, []mapping.Statement{s}, 0, "nil", "out", "nil, err"); err != nil {
			return err
		}
	}

	b.blank()
	b.line(1, "return out, nil")
	b.line(0, "}")

	l.funcs[idx] = b.String()

	return nil
}

func (l *lowerer) mapRule(r *mapping.MapRule, depth int) (string, error) {
	if len(r.Sources) == 0 {
		return "", invariant("%s: map rule without sources", r.Pos)
	}

	name := l.rules.next()
	idx := l.reserve()
	target := quoteAll(r.Target.Path.Segments)
	field := strconv.Quote(r.Target.Path.String())

	var b body

	if l.comments {
		b.line(0, "// %s", ruleText(r))
	}

	b.line(0, "func %s%s {", name, ruleSignature)

	if r.Condition != nil {
		cond, err := condExpr(r.Condition, depth)
		if err != nil {
			return "", err
		}

		b.line(1, "if %s {", negate(r.Condition, cond))

		if r.ElseDefault != nil {
			b.line(2, "out.SetPath(%s, %s)", goLiteral(*r.ElseDefault), target)
		}

		b.line(2, "return nil")
		b.line(1, "}")
		b.blank()
	}

	var extra []string

	switch {
	case len(r.Sources) == 1:
		b.line(1, "v := %s", fieldExpr(r.Sources[0], depth))
	case r.Transform == nil:
		values := make([]string, len(r.Sources))
		for i, s := range r.Sources {
			values[i] = fieldExpr(s, depth)
		}

		b.line(1, "v := %s.Join(%s)", rt, strings.Join(values, ", "))
	default:
		b.line(1, "v := %s", fieldExpr(r.Sources[0], depth))

		for i, s := range r.Sources[1:] {
			arg := "s" + strconv.Itoa(i+2)
			b.line(1, "%s := %s", arg, fieldExpr(s, depth))
			extra = append(extra, arg)
		}
	}

	absent := "v == nil"
	if len(extra) > 0 {
		absent = fmt.Sprintf("%s.AllNull(v, %s)", rt, strings.Join(extra, ", "))
	}

	b.line(1, "if %s {", absent)
	l.fallback(&b, r, target)
	b.line(1, "}")

	declared := false

	if r.Transform != nil {
		def, ok := l.vm.Registry.Lookup(r.Transform.Name)
		if !ok {
			return "", invariant("%s: unknown transform %q", r.Transform.Pos, r.Transform.Name)
		}

		args := append([]string{"v"}, extra...)
		for _, a := range r.Transform.Args {
			switch {
			case a.Field != nil:
				args = append(args, fieldExpr(*a.Field, depth))
			case a.Literal != nil:
				args = append(args, goLiteral(*a.Literal))
			}
		}

		b.blank()
		b.line(1, "v, err := %s.%s(%s)", rt, def.Func, strings.Join(args, ", "))
		l.onError(&b, r, target, field, strconv.Quote(r.Transform.Name))

		declared = true
	}

	if r.CastType != "" {
		typ, ok := mapping.ParseValueType(r.CastType)
		if !ok {
			return "", invariant("%s: unknown cast type %q", r.CastPos, r.CastType)
		}

		assign := ":="
		if declared {
			assign = "="
		}

		b.blank()
		b.line(1, "v, err %s %s.%s(v)", assign, rt, castFuncs[typ])
		l.onError(&b, r, target, field, strconv.Quote("AS "+typ.String()))
	}

	b.blank()
	b.line(1, "out.SetPath(v, %s)", target)
	b.blank()
	b.line(1, "return nil")
	b.line(0, "}")

	l.funcs[idx] = b.String()

	return name, nil
}

// fallback applies DEFAULT, or leaves the target unset.
func (l *lowerer) fallback(b *body, r *mapping.MapRule, target string) {
	if r.Default != nil {
		b.line(2, "out.SetPath(%s, %s)", goLiteral(*r.Default), target)
	}

	b.line(2, "return nil")
}

// onError falls back to DEFAULT when a transform or cast fails, and fails
// the record otherwise.
func (l *lowerer) onError(b *body, r *mapping.MapRule, target, field, op string) {
	b.line(1, "if err != nil {")

	if r.Default != nil {
		l.fallback(b, r, target)
	} else {
		b.line(2, "return in.Fail(%s, %s, err)", field, op)
	}

	b.line(1, "}")
}

func (l *lowerer) loopRule(r *mapping.LoopRule, depth int) (string, error) {
	name := l.rules.next()
	idx := l.reserve()

	var b body

	if l.comments {
		b.line(0, "// loop %s -> %s", r.Collection, r.Target)
	}

	b.line(0, "func %s%s {", name, ruleSignature)

	items := fmt.Sprintf("%s.Items(%s)", rt, fieldExpr(r.Collection, depth))
	if len(r.Rules) == 0 {
		b.line(1, "for range %s {", items)
	} else {
		b.line(1, "for _, item := range %s {", items)
	}

	b.line(2, "elem := %s.NewRecord()", rt)

	if err := l.calls(&b, 2, r.Rules, depth+1, "item", "elem", "err"); err != nil {
		return "", err
	}

	b.blank()
	b.line(2, "out.AppendPath(elem, %s)", quoteAll(r.Target.Path.Segments))
	b.line(1, "}")
	b.blank()
	b.line(1, "return nil")
	b.line(0, "}")

	l.funcs[idx] = b.String()

	return name, nil
}

func (l *lowerer) ifBlock(r *mapping.IfBlock, depth int) (string, error) {
	cond, err := condExpr(r.Condition, depth)
	if err != nil {
		return "", err
	}

	name := l.rules.next()
	idx := l.reserve()

	var b body

	if l.comments {
		b.line(0, "// if %s", singleLine(condText(r.Condition)))
	}

	b.line(0, "func %s%s {", name, ruleSignature)
	b.line(1, "if %s {", cond)

	if err := l.calls(&b, 2, r.Then, depth, "scope", "out", "err"); err != nil {
		return "", err
	}

	b.blank()
	b.line(2, "return nil")
	b.line(1, "}")

	if len(r.Else) > 0 {
		b.blank()

		if err := l.calls(&b, 1, r.Else, depth, "scope", "out", "err"); err != nil {
			return "", err
		}
	}

	b.blank()
	b.line(1, "return nil")
	b.line(0, "}")

	l.funcs[idx] = b.String()

	return name, nil
}

// aggregate lowers the AGGREGATE rules into one fold over the stream.
func (l *lowerer) aggregate(rules []*mapping.AggregateRule) error {
	idx := l.reserve()

	var (
		b     body
		folds = make([]string, len(rules))
	)

	if l.comments {
		b.line(0, "// aggregate folds the AGGREGATE rules over the record stream.")
	}

	b.line(0, "func aggregate(inputs []*%s.Input) (*%s.Record, error) {", rt, rt)

	for i, r := range rules {
		def, ok := l.vm.Registry.Aggregate(r.Function)
		if !ok {
			return invariant("%s: unknown aggregate function %q", r.Pos, r.Function)
		}

		typ := l.vm.FieldType(r.Source)

		if r.CastType != "" {
			if typ, ok = mapping.ParseValueType(r.CastType); !ok {
				return invariant("%s: unknown cast type %q", r.CastPos, r.CastType)
			}
		}

		if def.Numeric && typ != mapping.TypeUnknown && !typ.IsNumeric() {
			return &GenerationError{
				Kind:    KindAggregationType,
				Message: fmt.Sprintf("%s: %s over %s value %s", r.Pos, r.Function, typ, r.Source),
			}
		}

		folds[i] = l.folds.next()
		b.line(1, "%s := %s.%s()", folds[i], rt, def.Func)
	}

	b.blank()
	b.line(1, "for _, in := range inputs {")

	for i, r := range rules {
		field := strconv.Quote(r.Target.Path.String())
		value := fieldExpr(r.Source, 0)

		if l.comments {
			b.line(2, "// %s", aggregateText(r))
		}

		if r.CastType != "" {
			typ, _ := mapping.ParseValueType(r.CastType)
			v := "v" + strconv.Itoa(i+1)

			b.line(2, "%s, err := %s.%s(%s)", v, rt, castFuncs[typ], value)
			b.line(2, "if err != nil {")
			b.line(3, "return nil, in.Fail(%s, %q, err)", field, "AS "+typ.String())
			b.line(2, "}")

			value = v
		}

		b.line(2, "if err := %s.Add(%s); err != nil {", folds[i], value)
		b.line(3, "return nil, in.Fail(%s, %q, err)", field, r.Function)
		b.line(2, "}")
	}

	b.line(1, "}")
	b.blank()
	b.line(1, "agg := %s.NewRecord()", rt)

	for i, r := range rules {
		b.line(1, "agg.SetPath(%s.Result(), %s)", folds[i], quoteAll(r.Target.Path.Segments))
	}

	b.blank()
	b.line(1, "return agg, nil")
	b.line(0, "}")

	l.funcs[idx] = b.String()

	return nil
}

func aggregateText(r *mapping.AggregateRule) string {
	text := fmt.Sprintf("%s -> %s FUNCTION %s", r.Source, r.Target, r.Function)
	if r.CastType != "" {
		text += " AS " + r.CastType
	}

	return singleLine(text)
}
