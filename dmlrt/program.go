package dmlrt

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Source is a declared input.
type Source struct {
	Alias string
	// Location is the configured file or connection string used when the
	// command line gives none.
	Location string
	Reader   Reader
}

// Target is the declared output.
type Target struct {
	Location string
	Writer   Writer
}

// Enrichment loads every source into the store and streams the query rows.
type Enrichment struct {
	Query string
	// Schema holds the declared columns per source alias.
	Schema map[string][]Column
}

// Program is what a generated mapper declares.
type Program struct {
	Name       string
	Sources    []Source
	Enrichment *Enrichment
	Target     Target
	// Aggregate folds the AGGREGATE rules over the whole stream; nil when
	// there are none.
	Aggregate func(inputs []*Input) (*Record, error)
	// Map builds one output record; nil when RULES only aggregate, in which
	// case the aggregates form the single output record.
	Map    func(in *Input) (*Record, error)
	Logger *zap.Logger
}

// Main runs p with command-line args and returns the process exit code.
func Main(p *Program, args []string) int {
	return p.main(context.Background(), args, os.Stderr)
}

func (p *Program) main(ctx context.Context, args []string, stderr io.Writer) int {
	if err := p.Run(ctx, args); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", p.Name, err)
		return 1
	}

	return 0
}

// Run maps the sources named by args, or the configured ones, to the target.
func (p *Program) Run(ctx context.Context, args []string) error {
	locations, output, err := p.ParseArgs(args)
	if err != nil {
		return err
	}

	records, err := p.Execute(ctx, locations)
	if err != nil {
		return err
	}

	if output == "" {
		return errors.New("no output location given or configured")
	}

	if err := p.Target.Writer.Write(ctx, output, records); err != nil {
		return err
	}

	p.logger().Debug("mapping finished", zap.String("mapping", p.Name), zap.Int("records", len(records)))

	return nil
}

// ParseArgs reads "[alias path]... [output]". A single-source program also
// accepts "input [output]". Missing locations fall back to configuration.
func (p *Program) ParseArgs(args []string) (map[string]string, string, error) {
	locations := make(map[string]string, len(p.Sources))
	for _, s := range p.Sources {
		locations[s.Alias] = s.Location
	}

	output := p.Target.Location

	if len(p.Sources) == 1 && len(args) <= 2 {
		if len(args) > 0 {
			locations[p.Sources[0].Alias] = args[0]
		}

		if len(args) > 1 {
			output = args[1]
		}

		return locations, output, nil
	}

	pairs := args
	if len(args)%2 == 1 {
		output = args[len(args)-1]
		pairs = args[:len(args)-1]
	}

	for i := 0; i < len(pairs); i += 2 {
		alias := pairs[i]
		if _, ok := locations[alias]; !ok {
			return nil, "", errors.Errorf("unknown source %q (usage: %s)", alias, p.usage())
		}

		locations[alias] = pairs[i+1]
	}

	return locations, output, nil
}

func (p *Program) usage() string {
	usage := ""
	for _, s := range p.Sources {
		usage += s.Alias + " PATH "
	}

	return usage + "[OUTPUT]"
}

// Execute builds the record stream from locations and maps it.
func (p *Program) Execute(ctx context.Context, locations map[string]string) ([]*Record, error) {
	inputs, err := p.stream(ctx, locations)
	if err != nil {
		return nil, err
	}

	aggregates := NewRecord()
	if p.Aggregate != nil {
		if aggregates, err = p.Aggregate(inputs); err != nil {
			return nil, err
		}
	}

	if p.Map == nil {
		return []*Record{aggregates}, nil
	}

	records := make([]*Record, 0, len(inputs))

	for _, in := range inputs {
		in.Aggregates = aggregates

		rec, err := p.Map(in)
		if err != nil {
			return nil, err
		}

		records = append(records, rec)
	}

	return records, nil
}

func (p *Program) stream(ctx context.Context, locations map[string]string) ([]*Input, error) {
	loaded := make(map[string][]*Record, len(p.Sources))

	for _, s := range p.Sources {
		location := locations[s.Alias]
		if location == "" {
			return nil, errors.Errorf("no location given or configured for source %q", s.Alias)
		}

		records, err := s.Reader.Read(ctx, location)
		if err != nil {
			return nil, errors.Wrapf(err, "source %s", s.Alias)
		}

		p.logger().Debug("source read", zap.String("alias", s.Alias), zap.Int("records", len(records)))
		loaded[s.Alias] = records
	}

	if p.Enrichment != nil {
		return p.enrich(ctx, loaded)
	}

	if len(p.Sources) == 0 {
		return nil, nil
	}

	primary := p.Sources[0].Alias
	inputs := make([]*Input, len(loaded[primary]))

	for i := range inputs {
		in := &Input{Index: i + 1, primary: primary, records: make(map[string]*Record, len(loaded))}

		for alias, records := range loaded {
			if i < len(records) {
				in.records[alias] = records[i]
			}
		}

		inputs[i] = in
	}

	return inputs, nil
}

func (p *Program) enrich(ctx context.Context, loaded map[string][]*Record) ([]*Input, error) {
	store, err := OpenStore(ctx)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	for _, s := range p.Sources {
		if err := store.Load(ctx, s.Alias, p.Enrichment.Schema[s.Alias], loaded[s.Alias]); err != nil {
			return nil, err
		}
	}

	rows, err := store.Query(ctx, p.Enrichment.Query)
	if err != nil {
		return nil, err
	}

	inputs := make([]*Input, len(rows))
	for i, row := range rows {
		inputs[i] = &Input{Index: i + 1, row: row}
	}

	return inputs, nil
}

func (p *Program) logger() *zap.Logger {
	if p.Logger == nil {
		return zap.NewNop()
	}

	return p.Logger
}
