package gen

import (
	"bytes"
	"go/format"
	"text/template"

	"go.uber.org/zap"

	"dml-mapper/internal/mapping"
	"dml-mapper/internal/plan"
)

// GeneratorConfig holds configuration for code generation.
type GeneratorConfig struct {
	// PackageName is the name of the generated package. Only a main package
	// gets a main function.
	PackageName string
	// RuntimeImport is the import path of the mapper runtime.
	RuntimeImport string
	// SourceName is the DML file named in the generated header.
	SourceName string
	// GenerateComments renders each rule as a comment above its function.
	GenerateComments bool
	Logger           *zap.Logger
}

// DefaultGeneratorConfig returns the default generator configuration.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		PackageName:      "main",
		RuntimeImport:    "dml-mapper/dmlrt",
		GenerateComments: true,
	}
}

// Generator generates a mapper program from a validated mapping.
type Generator struct {
	config GeneratorConfig
	logger *zap.Logger
}

// NewGenerator creates a new Generator with the given configuration.
func NewGenerator(config GeneratorConfig) *Generator {
	defaults := DefaultGeneratorConfig()
	if config.PackageName == "" {
		config.PackageName = defaults.PackageName
	}

	if config.RuntimeImport == "" {
		config.RuntimeImport = defaults.RuntimeImport
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Generator{config: config, logger: logger}
}

// GeneratedFile represents a generated Go source file.
type GeneratedFile struct {
	// Filename is the suggested file name, "<mapping>.go".
	Filename string
	// Content is the formatted Go source code.
	Content []byte
}

type programData struct {
	SourceName    string
	PackageName   string
	RuntimeImport string
	IsMain        bool
	Name          string
	Sources       []sourceSpec
	Target        sourceSpec
	Enrichment    *enrichmentSpec
	HasAggregate  bool
	HasMap        bool
	Funcs         []string
}

// Generate lowers vm into a single formatted Go file. Nothing is returned
// on error.
func (g *Generator) Generate(vm *plan.ValidatedMapping) (*GeneratedFile, error) {
	if vm == nil || vm.Mapping == nil || vm.Registry == nil {
		return nil, invariant("incomplete validated mapping")
	}

	sources, err := sourceSpecs(vm)
	if err != nil {
		return nil, err
	}

	target, err := targetSpec(vm)
	if err != nil {
		return nil, err
	}

	data := &programData{
		SourceName:    g.config.SourceName,
		PackageName:   g.config.PackageName,
		RuntimeImport: g.config.RuntimeImport,
		IsMain:        g.config.PackageName == "main",
		Name:          vm.Mapping.Name,
		Sources:       sources,
		Target:        target,
		Enrichment:    enrichment(vm.Enrichment),
	}

	l := newLowerer(vm, g.config.GenerateComments)

	aggregates := mapping.Aggregates(vm.Mapping.Rules)
	if len(aggregates) > 0 {
		if err := l.aggregate(aggregates); err != nil {
			return nil, err
		}

		data.HasAggregate = true
	}

	if len(aggregates) < len(vm.Mapping.Rules) {
		if err := l.mapRecord(vm.Mapping.Rules); err != nil {
			return nil, err
		}

		data.HasMap = true
	}

	data.Funcs = l.funcs

	var buf bytes.Buffer
	if err := programTemplate.Execute(&buf, data); err != nil {
		return nil, &GenerationError{Kind: KindTemplate, Message: "rendering program", Err: err}
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, &GenerationError{Kind: KindFormat, Message: "formatting generated code", Err: err}
	}

	g.logger.Debug("generated mapper",
		zap.String("mapping", vm.Mapping.Name),
		zap.Int("functions", len(l.funcs)),
		zap.Int("bytes", len(formatted)))

	return &GeneratedFile{Filename: vm.Mapping.Name + ".go", Content: formatted}, nil
}

var programTemplate = template.Must(template.New("program").Parse(`// Code generated by dml-mapper{{if .SourceName}} from {{.SourceName}}{{end}}. DO NOT EDIT.

package {{.PackageName}}

import (
{{if .IsMain}}	"os"

{{end}}	dmlrt "{{.RuntimeImport}}"
)

var program = &dmlrt.Program{
	Name: {{printf "%q" .Name}},
	Sources: []dmlrt.Source{
{{range .Sources}}		{Alias: {{printf "%q" .Alias}}, Location: {{printf "%q" .Location}}, Reader: {{.Codec}}},
{{end}}	},
{{with .Enrichment}}	Enrichment: &dmlrt.Enrichment{
		Query: {{printf "%q" .Query}},
		Schema: map[string][]dmlrt.Column{
{{range .Tables}}			{{printf "%q" .Alias}}: {
{{range .Columns}}				{Name: {{printf "%q" .Name}}, Type: dmlrt.{{.Type}}},
{{end}}			},
{{end}}		},
	},
{{end}}	Target: dmlrt.Target{Location: {{printf "%q" .Target.Location}}, Writer: {{.Target.Codec}}},
{{if .HasAggregate}}	Aggregate: aggregate,
{{end}}{{if .HasMap}}	Map: mapRecord,
{{end}}}
{{if .IsMain}}
func main() {
	os.Exit(dmlrt.Main(program, os.Args[1:]))
}
{{else}}
// Program returns the {{.Name}} mapper.
func Program() *dmlrt.Program {
	return program
}
{{end}}{{range .Funcs}}
{{.}}{{end}}`))
