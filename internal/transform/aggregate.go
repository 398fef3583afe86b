package transform

// AggregateDef describes one AGGREGATE function.
type AggregateDef struct {
	Name string
	// Func is the runtime fold constructor.
	Func string
	// Numeric functions require a numeric source value.
	Numeric bool
}

func builtinAggregates() []AggregateDef {
	return []AggregateDef{
		{Name: "sum", Func: "Sum", Numeric: true},
		{Name: "avg", Func: "Avg", Numeric: true},
		{Name: "count", Func: "Count"},
		{Name: "min", Func: "Min", Numeric: true},
		{Name: "max", Func: "Max", Numeric: true},
	}
}
