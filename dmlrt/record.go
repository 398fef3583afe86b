package dmlrt

import (
	"bytes"
	"strconv"

	"github.com/goccy/go-json"
)

// Record is an ordered set of named values. Values are nil, string, int64,
// float64, bool, time.Time, *Record or []any.
type Record struct {
	keys   []string
	values map[string]any
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{values: map[string]any{}}
}

// Get returns the value stored under key.
func (r *Record) Get(key string) (any, bool) {
	if r == nil {
		return nil, false
	}

	v, ok := r.values[key]

	return v, ok
}

// Set stores v under key, keeping the position of an existing key.
func (r *Record) Set(key string, v any) {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}

	r.values[key] = v
}

// Keys returns the keys in insertion order.
func (r *Record) Keys() []string {
	if r == nil {
		return nil
	}

	return r.keys
}

// Len returns the number of keys.
func (r *Record) Len() int {
	if r == nil {
		return 0
	}

	return len(r.keys)
}

// Merge copies every key of other into r.
func (r *Record) Merge(other *Record) {
	for _, k := range other.Keys() {
		r.Set(k, other.values[k])
	}
}

// MarshalJSON writes the record as an object with keys in insertion order.
func (r *Record) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("null"), nil
	}

	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}

		data, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, err
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(data)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// Lookup walks path from v. On a list met before the path ends, a segment
// naming a key of an element reads that key from the first element holding
// it; otherwise a numeric segment indexes the list. Missing values are nil.
func Lookup(v any, path ...string) any {
	cur := v

	for _, seg := range path {
		cur = step(cur, seg)
		if cur == nil {
			return nil
		}
	}

	return cur
}

func step(v any, seg string) any {
	switch node := v.(type) {
	case *Record:
		val, _ := node.Get(seg)
		return val
	case []any:
		for _, item := range node {
			if rec, ok := item.(*Record); ok {
				if val, ok := rec.Get(seg); ok {
					return val
				}
			}
		}

		if i, err := strconv.Atoi(seg); err == nil {
			if i >= 0 && i < len(node) {
				return node[i]
			}

			return nil
		}

		if len(node) == 0 {
			return nil
		}

		return step(node[0], seg)
	default:
		return nil
	}
}

// SetPath stores v at path, creating intermediate records.
func (r *Record) SetPath(v any, path ...string) {
	if len(path) == 0 {
		return
	}

	r.parent(path).Set(path[len(path)-1], v)
}

// AppendPath appends v to the list at path.
func (r *Record) AppendPath(v any, path ...string) {
	if len(path) == 0 {
		return
	}

	parent := r.parent(path)
	key := path[len(path)-1]

	existing, _ := parent.Get(key)
	list, _ := existing.([]any)
	parent.Set(key, append(list, v))
}

func (r *Record) parent(path []string) *Record {
	cur := r

	for _, seg := range path[:len(path)-1] {
		next, _ := cur.Get(seg)

		child, ok := next.(*Record)
		if !ok {
			child = NewRecord()
			cur.Set(seg, child)
		}

		cur = child
	}

	return cur
}

// Items returns the elements of a repeating value: a list as is, nil as no
// elements, anything else as a single element.
func Items(v any) []any {
	switch list := v.(type) {
	case nil:
		return nil
	case []any:
		return list
	default:
		return []any{v}
	}
}
