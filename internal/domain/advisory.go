package domain

// AdvisorySet keeps advisories unique by text in first-occurrence order.
type AdvisorySet struct {
	seen  map[string]struct{}
	items []string
}

// NewAdvisorySet returns an empty set.
func NewAdvisorySet() *AdvisorySet {
	return &AdvisorySet{seen: make(map[string]struct{})}
}

// Add appends the advisories not seen before. Blank text is ignored.
func (s *AdvisorySet) Add(advisories ...string) {
	for _, a := range advisories {
		if a == "" {
			continue
		}

		if _, ok := s.seen[a]; ok {
			continue
		}

		s.seen[a] = struct{}{}
		s.items = append(s.items, a)
	}
}

// Items returns a copy of the advisories in insertion order.
func (s *AdvisorySet) Items() []string {
	return append([]string(nil), s.items...)
}

// Len reports the number of distinct advisories.
func (s *AdvisorySet) Len() int {
	return len(s.items)
}
