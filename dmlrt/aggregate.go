package dmlrt

import "fmt"

// Aggregator folds the values of one AGGREGATE rule over the record stream.
// nil values are skipped.
type Aggregator interface {
	Add(v any) error
	Result() any
}

type sum struct {
	total   float64
	integer int64
	float   bool
}

// Sum adds numbers. The result is an integer while every input is one.
func Sum() Aggregator {
	return &sum{}
}

func (s *sum) Add(v any) error {
	if v == nil {
		return nil
	}

	switch val := v.(type) {
	case int64:
		s.integer += val
		s.total += float64(val)

		return nil
	case int:
		s.integer += int64(val)
		s.total += float64(val)

		return nil
	}

	f, err := numeric(v)
	if err != nil {
		return err
	}

	s.float = true
	s.total += f

	return nil
}

func (s *sum) Result() any {
	if s.float {
		return s.total
	}

	return s.integer
}

type avg struct {
	total float64
	n     int
}

// Avg averages numbers; the average of nothing is nil.
func Avg() Aggregator {
	return &avg{}
}

func (a *avg) Add(v any) error {
	if v == nil {
		return nil
	}

	f, err := numeric(v)
	if err != nil {
		return err
	}

	a.total += f
	a.n++

	return nil
}

func (a *avg) Result() any {
	if a.n == 0 {
		return nil
	}

	return a.total / float64(a.n)
}

type count struct {
	n int64
}

// Count counts non-nil values.
func Count() Aggregator {
	return &count{}
}

func (c *count) Add(v any) error {
	if v != nil {
		c.n++
	}

	return nil
}

func (c *count) Result() any {
	return c.n
}

type extreme struct {
	best  any
	value float64
	max   bool
}

// Min keeps the smallest number. Integers stay integers, anything else
// becomes a decimal.
func Min() Aggregator {
	return &extreme{}
}

// Max keeps the largest number.
func Max() Aggregator {
	return &extreme{max: true}
}

func (e *extreme) Add(v any) error {
	if v == nil {
		return nil
	}

	f, err := numeric(v)
	if err != nil {
		return err
	}

	if e.best == nil || (e.max && f > e.value) || (!e.max && f < e.value) {
		e.best, e.value = f, f
		if i, ok := v.(int64); ok {
			e.best = i
		}
	}

	return nil
}

func (e *extreme) Result() any {
	return e.best
}

func numeric(v any) (float64, error) {
	f, ok := number(v)
	if !ok {
		return 0, fmt.Errorf("%q is not a number", FormatValue(v))
	}

	return f, nil
}
