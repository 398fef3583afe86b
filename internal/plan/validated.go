package plan

import (
	"dml-mapper/internal/mapping"
	"dml-mapper/internal/transform"
)

// ValidatedMapping is a mapping that passed validation, annotated with the
// resolved options and the record stream plan.
type ValidatedMapping struct {
	Mapping  *mapping.Mapping
	Sources  []ResolvedSource
	Target   ResolvedTarget
	Registry *transform.Registry
	// Primary is the alias iterated as the record stream when there is no
	// component.
	Primary string
	// Enrichment is set when the mapping declares a component.
	Enrichment *Enrichment
}

// ResolvedSource is a source with its alias and typed options.
type ResolvedSource struct {
	Decl    *mapping.SourceDecl
	Alias   string
	Options Options
}

// ResolvedTarget is the target with typed options.
type ResolvedTarget struct {
	Decl    *mapping.TargetDecl
	Options Options
}

// Source returns the resolved source for alias.
func (v *ValidatedMapping) Source(alias string) (ResolvedSource, bool) {
	for _, s := range v.Sources {
		if s.Alias == alias {
			return s, true
		}
	}

	return ResolvedSource{}, false
}

// IsSingleSource reports whether exactly one source is declared.
func (v *ValidatedMapping) IsSingleSource() bool {
	return len(v.Sources) == 1
}

// Aliases returns the source aliases in declaration order.
func (v *ValidatedMapping) Aliases() []string {
	aliases := make([]string, len(v.Sources))
	for i, s := range v.Sources {
		aliases[i] = s.Alias
	}

	return aliases
}

// FieldType returns the declared type of a top-level stream field, or
// TypeUnknown when no schema describes it.
func (v *ValidatedMapping) FieldType(ref mapping.FieldRef) mapping.ValueType {
	if v.Enrichment == nil || !ref.Path.IsSimple() {
		return mapping.TypeUnknown
	}

	if c, ok := v.Enrichment.Column(ref.Path.Root()); ok {
		return c.Type
	}

	return mapping.TypeUnknown
}
