package dmlrt

// Input is one entry of the record stream as seen by the rules: the current
// record of every source, or the enrichment row when a query joined them.
type Input struct {
	// Index is the 1-based position in the stream.
	Index int
	// Aggregates holds the folded AGGREGATE results.
	Aggregates *Record

	primary string
	records map[string]*Record
	row     *Record
}

// Get resolves path in the current record of alias, or of the primary
// source when alias is empty. With an enrichment every alias resolves to
// the result row.
func (in *Input) Get(alias string, path ...string) any {
	if in.row != nil {
		return Lookup(in.row, path...)
	}

	if alias == "" {
		alias = in.primary
	}

	rec := in.records[alias]
	if rec == nil {
		return nil
	}

	return Lookup(rec, path...)
}

// Aggregate returns the folded value stored at path.
func (in *Input) Aggregate(path ...string) any {
	if in.Aggregates == nil {
		return nil
	}

	return Lookup(in.Aggregates, path...)
}

// Fail wraps err as a MappingError for this record.
func (in *Input) Fail(field, op string, err error) error {
	return &MappingError{Record: in.Index, Field: field, Op: op, Err: err}
}
