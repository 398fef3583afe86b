package mapping

import "fmt"

// DefaultAlias is the alias given to the single unaliased source.
const DefaultAlias = "main"

// Position is a 1-based line and column in the DML source.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// IsValid reports whether the position was set.
func (p Position) IsValid() bool {
	return p.Line > 0
}

// Mapping is the root of the IR.
type Mapping struct {
	Name      string
	Pos       Position
	Sources   []*SourceDecl
	Component *ComponentDecl
	Target    *TargetDecl
	Rules     []Statement
	// RulesPos is the position of the RULES keyword.
	RulesPos Position
}

// Source returns the source declared under alias.
func (m *Mapping) Source(alias string) (*SourceDecl, bool) {
	for _, s := range m.Sources {
		if s.Alias == alias {
			return s, true
		}
	}

	return nil, false
}

// Aliases returns the source aliases in declaration order.
func (m *Mapping) Aliases() []string {
	aliases := make([]string, 0, len(m.Sources))
	for _, s := range m.Sources {
		aliases = append(aliases, s.Alias)
	}

	return aliases
}

// SourceDecl declares one input.
type SourceDecl struct {
	Format Format
	// Alias is always set after parsing; ImplicitAlias marks a defaulted one.
	Alias         string
	ImplicitAlias bool
	Config        Config
	Pos           Position
}

// TargetDecl declares the output.
type TargetDecl struct {
	Format Format
	Config Config
	Pos    Position
}

// ComponentDecl declares the embedded relational join.
type ComponentDecl struct {
	Kind   string
	Schema []Column
	Query  string
	Config Config
	Pos    Position
	// QueryPos points at the query value, falling back to Pos.
	QueryPos Position
}

// Column is one entry of a component schema. Table is empty for columns that
// apply to every loaded source.
type Column struct {
	Table string
	Name  string
	Type  string
}

func (c Column) String() string {
	if c.Table != "" {
		return c.Table + "." + c.Name + " " + c.Type
	}

	return c.Name + " " + c.Type
}
