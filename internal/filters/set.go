// Package filters tracks the tag filters a user has applied.
package filters

// Set is an insertion-ordered set of tag names
type Set struct {
	order []string
	index map[string]struct{}
}

// NewSet returns an empty set
func NewSet() *Set {
	return &Set{index: make(map[string]struct{})}
}

// Add inserts tag; adding a present tag changes nothing
func (s *Set) Add(tag string) {
	if _, ok := s.index[tag]; ok {
		return
	}
	s.index[tag] = struct{}{}
	s.order = append(s.order, tag)
}

// Remove deletes tag if present
func (s *Set) Remove(tag string) {
	if _, ok := s.index[tag]; !ok {
		return
	}
	delete(s.index, tag)
	for i, t := range s.order {
		if t == tag {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Clear empties the set
func (s *Set) Clear() {
	s.order = nil
	s.index = make(map[string]struct{})
}

func (s *Set) IsEmpty() bool { return len(s.order) == 0 }

func (s *Set) Len() int { return len(s.order) }

func (s *Set) Contains(tag string) bool {
	_, ok := s.index[tag]
	return ok
}

// Ordered returns the present tags in the order they were added
func (s *Set) Ordered() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Clone returns an independent copy
func (s *Set) Clone() *Set {
	c := NewSet()
	for _, tag := range s.order {
		c.Add(tag)
	}
	return c
}
