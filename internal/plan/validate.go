package plan

import (
	"strings"

	"dml-mapper/internal/diagnostic"
	"dml-mapper/internal/mapping"
	"dml-mapper/internal/match"
	"dml-mapper/internal/transform"
)

// Validate checks m against the function registry and returns the annotated
// mapping. All problems are collected; when any error is reported the
// returned mapping is nil.
func Validate(m *mapping.Mapping, registry *transform.Registry) (*ValidatedMapping, *diagnostic.Diagnostics) {
	v := &validator{
		m:        m,
		registry: registry,
		diags:    diagnostic.New(),
		aliases:  map[string]*mapping.SourceDecl{},
		used:     map[string]bool{},
	}

	vm := &ValidatedMapping{Mapping: m, Registry: registry}

	vm.Sources = v.checkSources()
	vm.Target = v.checkTarget()
	vm.Enrichment = v.checkComponent()
	v.enrichment = vm.Enrichment

	if len(vm.Sources) > 0 {
		vm.Primary = vm.Sources[0].Alias
	}

	if vm.Enrichment == nil {
		v.used[vm.Primary] = true
	}

	if len(m.Rules) == 0 {
		v.diags.AddError(diagnostic.CodeEmptyRules, m.RulesPos, "RULES", "RULES must contain at least one rule")
	}

	v.checkStatements(m.Rules, 0, false)
	v.warnUnusedSources()

	v.diags.Sort()

	if v.diags.HasErrors() {
		return nil, v.diags
	}

	return vm, v.diags
}

type validator struct {
	m          *mapping.Mapping
	registry   *transform.Registry
	diags      *diagnostic.Diagnostics
	aliases    map[string]*mapping.SourceDecl
	used       map[string]bool
	query      *QueryInfo
	enrichment *Enrichment
}

func (v *validator) checkSources() []ResolvedSource {
	resolved := make([]ResolvedSource, 0, len(v.m.Sources))

	for _, src := range v.m.Sources {
		subject := "SOURCE " + src.Format.String()

		switch {
		case src.Alias == "":
			v.diags.AddError(diagnostic.CodeMissingAlias, src.Pos, subject,
				"only one source may omit AS; name this one with AS <alias>")
		case v.aliases[src.Alias] != nil:
			v.diags.AddError(diagnostic.CodeDuplicateAlias, src.Pos, src.Alias,
				"alias %q is already declared at %s", src.Alias, v.aliases[src.Alias].Pos)
		default:
			v.aliases[src.Alias] = src
			subject = src.Alias
		}

		opts := buildOptions(src.Format, asSource, src.Config, src.Pos, subject, v.diags)
		resolved = append(resolved, ResolvedSource{Decl: src, Alias: src.Alias, Options: opts})
	}

	return resolved
}

func (v *validator) checkTarget() ResolvedTarget {
	t := v.m.Target
	opts := buildOptions(t.Format, asTarget, t.Config, t.Pos, "TARGET "+t.Format.String(), v.diags)

	return ResolvedTarget{Decl: t, Options: opts}
}

func (v *validator) checkComponent() *Enrichment {
	c := v.m.Component
	if c == nil {
		return nil
	}

	for _, e := range c.Config {
		if !strings.EqualFold(e.Key, "schema") && !strings.EqualFold(e.Key, "query") {
			v.diags.AddWarning(diagnostic.CodeUnknownConfigKey, e.Pos, "COMPONENT", "unknown configuration key %q", e.Key).
				WithSuggestions(match.Suggest(e.Key, []string{"schema", "query"})...)
		}
	}

	enr := &Enrichment{Query: c.Query, Tables: v.m.Aliases()}
	enr.Schema = resolveSchema(c.Schema, enr.Tables, v.checkSchema(c))

	if strings.TrimSpace(c.Query) == "" {
		v.diags.AddError(diagnostic.CodeMissingRequiredConfig, c.Pos, "COMPONENT", "COMPONENT DB requires \"query\"")
		return enr
	}

	info, err := AnalyzeQuery(c.Query)
	if err != nil {
		v.diags.AddError(diagnostic.CodeInvalidQuery, c.QueryPos, "COMPONENT", "cannot parse query: %v", err)
		return enr
	}

	v.query = info
	enr.Star = info.Star

	for _, table := range info.Tables {
		if v.aliases[table] == nil {
			v.diags.AddError(diagnostic.CodeUnknownAlias, c.QueryPos, table,
				"query references %q, which is not a declared source alias", table).
				WithSuggestions(match.Suggest(table, v.m.Aliases())...)

			continue
		}

		v.used[table] = true
	}

	for _, col := range info.Columns {
		rc := ResultColumn{Name: col.Name}

		if col.Column != "" {
			table := info.Qualifiers[col.Qualifier]
			if col.Qualifier == "" && len(info.Tables) > 0 {
				table = info.Tables[0]
			}

			rc.Type = enr.columnType(table, col.Column)
		}

		enr.Columns = append(enr.Columns, rc)
	}

	enr.addReferences(info.References)

	if info.Star {
		v.diags.AddWarning(diagnostic.CodeUncheckedColumns, c.QueryPos, "COMPONENT",
			"query selects '*'; rule fields are not checked against the result columns")
	}

	return enr
}

// checkSchema resolves column types and reports unknown types, unknown
// qualifiers and conflicting redeclarations.
func (v *validator) checkSchema(c *mapping.ComponentDecl) map[*mapping.Column]mapping.ValueType {
	types := make(map[*mapping.Column]mapping.ValueType, len(c.Schema))
	declared := map[string]mapping.ValueType{}

	for i := range c.Schema {
		col := &c.Schema[i]

		if col.Table != "" && v.aliases[col.Table] == nil {
			v.diags.AddError(diagnostic.CodeUnknownAlias, c.Pos, col.Table,
				"schema column %q names an undeclared source alias", col.Table+"."+col.Name).
				WithSuggestions(match.Suggest(col.Table, v.m.Aliases())...)
		}

		typ, ok := mapping.ParseColumnType(col.Type)
		if !ok {
			v.diags.AddError(diagnostic.CodeSchemaMismatch, c.Pos, col.Name,
				"schema column %q has unsupported type %q", col.Name, col.Type)
		}

		key := col.Table + "." + col.Name
		if prev, seen := declared[key]; seen && prev != typ {
			v.diags.AddError(diagnostic.CodeSchemaMismatch, c.Pos, col.Name,
				"schema column %q is declared as both %s and %s", col.Name, prev, typ)
		}

		declared[key] = typ
		types[col] = typ
	}

	return types
}

func (v *validator) warnUnusedSources() {
	for _, src := range v.m.Sources {
		if src.Alias != "" && !v.used[src.Alias] {
			v.diags.AddWarning(diagnostic.CodeUnusedSource, src.Pos, src.Alias,
				"source %q is never referenced", src.Alias)
		}
	}
}
