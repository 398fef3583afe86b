package plan

import (
	"dml-mapper/internal/diagnostic"
	"dml-mapper/internal/mapping"
	"dml-mapper/internal/match"
)

// scope tracks where a statement sits in the rule tree.
type scope struct {
	loopDepth int
	// conditional is set inside IF blocks.
	conditional bool
}

func (s scope) nested() bool {
	return s.loopDepth > 0 || s.conditional
}

func (v *validator) checkStatements(stmts []mapping.Statement, depth int, conditional bool) {
	sc := scope{loopDepth: depth, conditional: conditional}

	for _, stmt := range stmts {
		switch st := stmt.(type) {
		case *mapping.MapRule:
			v.checkMapRule(st, sc)
		case *mapping.LoopRule:
			v.checkFieldRef(st.Collection, sc)
			v.checkStatements(st.Rules, depth+1, conditional)
		case *mapping.IfBlock:
			v.checkCondition(st.Condition, sc)
			v.checkStatements(st.Then, depth, true)
			v.checkStatements(st.Else, depth, true)
		case *mapping.AggregateRule:
			v.checkAggregate(st, sc)
		}
	}
}

func (v *validator) checkMapRule(r *mapping.MapRule, sc scope) {
	target := r.Target.String()

	v.checkDuplicateModifiers(r.Modifiers, target)

	for _, src := range r.Sources {
		v.checkFieldRef(src, sc)
	}

	if r.Condition != nil {
		v.checkCondition(r.Condition, sc)
	}

	if r.ElseDefault != nil && !r.HasModifier(mapping.ModifierIf) {
		v.diags.AddError(diagnostic.CodeElseWithoutCondition, r.ElseDefault.Pos, target,
			"ELSE requires an IF condition on the same rule")
	}

	valueType := mapping.TypeUnknown
	if len(r.Sources) == 1 {
		valueType = v.fieldType(r.Sources[0], sc)
	}

	if r.Transform != nil {
		valueType = v.checkTransform(r, sc)
	}

	if r.CastType != "" {
		v.checkCast(r.CastType, r.CastPos, target, valueType)
	}
}

func (v *validator) checkTransform(r *mapping.MapRule, sc scope) mapping.ValueType {
	call := r.Transform
	target := r.Target.String()

	for _, arg := range call.Args {
		if arg.Field != nil {
			v.checkFieldRef(*arg.Field, sc)
		}
	}

	def, ok := v.registry.Lookup(call.Name)
	if !ok {
		v.diags.AddError(diagnostic.CodeUnknownTransform, call.Pos, target,
			"unknown transform %q", call.Name).
			WithSuggestions(match.Suggest(call.Name, v.registry.Names())...)

		return mapping.TypeUnknown
	}

	// Extra sources are passed ahead of the explicit arguments.
	n := len(r.Sources) - 1 + len(call.Args)
	if !def.AcceptsArgs(n) {
		v.diags.AddError(diagnostic.CodeTransformArity, call.Pos, target,
			"transform %q takes %s argument(s) after the value, got %d", call.Name, def.Arity(), n)
	}

	return def.Result
}

func (v *validator) checkCast(name string, pos mapping.Position, subject string, from mapping.ValueType) mapping.ValueType {
	to, ok := mapping.ParseValueType(name)
	if !ok {
		v.diags.AddError(diagnostic.CodeInvalidCast, pos, subject,
			"unsupported cast type %q", name).
			WithSuggestions(match.Suggest(name, valueTypeNames())...)

		return mapping.TypeUnknown
	}

	if !from.ConvertibleTo(to) {
		v.diags.AddError(diagnostic.CodeSchemaMismatch, pos, subject,
			"cannot cast a %s column to %s", from, to)
	}

	return to
}

func (v *validator) checkAggregate(a *mapping.AggregateRule, sc scope) {
	target := a.Target.String()

	if sc.nested() {
		v.diags.AddError(diagnostic.CodeMisplacedAggregate, a.Pos, target,
			"AGGREGATE is only allowed at the top level of RULES")
	}

	v.checkDuplicateModifiers(a.Modifiers, target)
	v.checkFieldRef(a.Source, scope{})

	valueType := v.fieldType(a.Source, scope{})
	if a.CastType != "" {
		valueType = v.checkCast(a.CastType, a.CastPos, target, valueType)
	}

	if a.Function == "" {
		v.diags.AddError(diagnostic.CodeUnknownAggregate, a.Pos, target,
			"AGGREGATE requires FUNCTION (one of %v)", v.registry.AggregateNames())

		return
	}

	def, ok := v.registry.Aggregate(a.Function)
	if !ok {
		v.diags.AddError(diagnostic.CodeUnknownAggregate, a.Pos, target,
			"unknown aggregate function %q", a.Function).
			WithSuggestions(match.Suggest(a.Function, v.registry.AggregateNames())...)

		return
	}

	if def.Numeric && valueType != mapping.TypeUnknown && !valueType.IsNumeric() {
		v.diags.AddError(diagnostic.CodeAggregationType, a.Pos, target,
			"%s needs a numeric value, %s is %s", def.Name, a.Source, valueType)
	}
}

func (v *validator) checkDuplicateModifiers(mods []mapping.Modifier, subject string) {
	seen := map[mapping.ModifierKind]bool{}

	for _, mod := range mods {
		if seen[mod.Kind] {
			v.diags.AddError(diagnostic.CodeDuplicateModifier, mod.Pos, subject,
				"modifier %s appears more than once", mod.Kind)

			continue
		}

		seen[mod.Kind] = true
	}
}

func (v *validator) checkCondition(e mapping.Expr, sc scope) {
	for _, ref := range mapping.ExprFields(e) {
		v.checkFieldRef(ref, sc)
	}
}

// checkFieldRef resolves the alias qualifier and, with a component, checks
// top-level names against the result columns.
func (v *validator) checkFieldRef(ref mapping.FieldRef, sc scope) {
	if ref.Alias != "" {
		if v.aliases[ref.Alias] == nil {
			v.diags.AddError(diagnostic.CodeUnknownAlias, ref.Pos, ref.String(),
				"unknown source alias %q", ref.Alias).
				WithSuggestions(match.Suggest(ref.Alias, v.m.Aliases())...)

			return
		}

		v.used[ref.Alias] = true
	}

	if v.enrichment == nil || v.query == nil || v.query.Star || sc.loopDepth > 0 {
		return
	}

	if !v.query.HasColumn(ref.Path.Root()) {
		v.diags.AddError(diagnostic.CodeUnknownField, ref.Pos, ref.String(),
			"%q is not a column of the component query", ref.Path.Root()).
			WithSuggestions(match.Suggest(ref.Path.Root(), v.query.ColumnNames())...)
	}
}

func (v *validator) fieldType(ref mapping.FieldRef, sc scope) mapping.ValueType {
	if v.enrichment == nil || sc.loopDepth > 0 || !ref.Path.IsSimple() {
		return mapping.TypeUnknown
	}

	if c, ok := v.enrichment.Column(ref.Path.Root()); ok {
		return c.Type
	}

	return mapping.TypeUnknown
}

func valueTypeNames() []string {
	names := make([]string, len(mapping.ValueTypes))
	for i, t := range mapping.ValueTypes {
		names[i] = t.String()
	}

	return names
}
