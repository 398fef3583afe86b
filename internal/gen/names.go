package gen

import "strconv"

// stem hands out numbered identifiers: rule1, rule2, ... Names already in
// taken are skipped.
type stem struct {
	taken map[string]struct{}
	base  string
	last  int
}

// newStem creates a stem over namespace. A nil namespace is treated as free.
func newStem(base string, namespace map[string]struct{}) *stem {
	if namespace == nil {
		namespace = make(map[string]struct{})
	}

	return &stem{taken: namespace, base: base}
}

func (s *stem) next() string {
	for {
		s.last++
		name := s.base + strconv.Itoa(s.last)

		if _, ok := s.taken[name]; !ok {
			s.taken[name] = struct{}{}
			return name
		}
	}
}

// reserved are the top-level identifiers of the program skeleton.
func reserved() map[string]struct{} {
	return map[string]struct{}{
		"main":      {},
		"program":   {},
		"mapRecord": {},
		"aggregate": {},
	}
}
