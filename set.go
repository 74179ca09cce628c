package ustr

import "iter"

// Set is a hash set of interned handles. Like Map, membership tests reuse
// each handle's precomputed hash, so no string content is ever rehashed.
//
// The zero value is an empty set ready for use.
// Set is not safe for concurrent use.
type Set struct {
	m Map[struct{}]
}

// Add inserts k and reports whether it was not already present.
func (s *Set) Add(k Ustr) bool {
	n := s.m.Len()
	s.m.Set(k, struct{}{})
	return s.m.Len() != n
}

// Contains reports whether k is in the set.
func (s *Set) Contains(k Ustr) bool {
	_, ok := s.m.Get(k)
	return ok
}

// Remove deletes k if present and returns true on success. Removal affects
// the set only; the interned string itself is never reclaimed.
func (s *Set) Remove(k Ustr) bool { return s.m.Delete(k) }

// Len returns the number of members.
func (s *Set) Len() int { return s.m.Len() }

// All iterates over the members in unspecified order.
func (s *Set) All() iter.Seq[Ustr] {
	return func(yield func(Ustr) bool) {
		for k := range s.m.All() {
			if !yield(k) {
				return
			}
		}
	}
}
