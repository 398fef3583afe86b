package gen

import "fmt"

// ErrorKind classifies a GenerationError.
type ErrorKind int

const (
	// KindInvariant marks a mapping that should have been rejected by the
	// validator.
	KindInvariant ErrorKind = iota
	// KindAggregationType marks a numeric aggregate over a non-numeric value.
	KindAggregationType
	// KindFormat marks generated source that go/format rejected.
	KindFormat
	// KindTemplate marks a failure rendering the program skeleton.
	KindTemplate
)

var kindNames = [...]string{
	KindInvariant:       "InvariantError",
	KindAggregationType: "AggregationTypeError",
	KindFormat:          "FormatError",
	KindTemplate:        "TemplateError",
}

func (k ErrorKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}

	return "GenerationError"
}

// GenerationError is returned when a validated mapping cannot be lowered to Go.
type GenerationError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}

	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *GenerationError) Unwrap() error { return e.Err }

func invariant(format string, args ...any) *GenerationError {
	return &GenerationError{Kind: KindInvariant, Message: fmt.Sprintf(format, args...)}
}
