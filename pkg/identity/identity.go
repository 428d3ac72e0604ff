package identity

import "strings"

// Identity is a follower name as it was displayed. Two identities that differ
// only in letter case are the same follower.
type Identity struct {
	Display string
}

// Of wraps a display name
func Of(display string) Identity {
	return Identity{Display: display}
}

// Key returns the case-folded form used for comparison
func (id Identity) Key() string {
	return Fold(id.Display)
}

// Equal reports whether both identities name the same follower
func (id Identity) Equal(other Identity) bool {
	return id.Key() == other.Key()
}

func (id Identity) String() string {
	return id.Display
}

// Fold is the case folding applied to every identity before comparison
func Fold(name string) string {
	return strings.ToLower(name)
}

// Set is an insertion-ordered set of identities keyed case-insensitively.
// The first display form added for a key is the one kept.
type Set struct {
	order []string
	items map[string]Identity
}

// NewSet builds a set from display names
func NewSet(names []string) *Set {
	s := &Set{items: make(map[string]Identity, len(names))}
	for _, n := range names {
		s.Add(Of(n))
	}
	return s
}

// Add inserts id unless an equal identity is already present. It reports
// whether the set changed.
func (s *Set) Add(id Identity) bool {
	k := id.Key()
	if _, ok := s.items[k]; ok {
		return false
	}
	s.items[k] = id
	s.order = append(s.order, k)
	return true
}

// Contains reports whether an identity equal to id is present
func (s *Set) Contains(id Identity) bool {
	_, ok := s.items[id.Key()]
	return ok
}

// Len returns the number of distinct identities
func (s *Set) Len() int {
	return len(s.order)
}

// Keys returns the folded keys in insertion order
func (s *Set) Keys() []string {
	keys := make([]string, len(s.order))
	copy(keys, s.order)
	return keys
}

// Identities returns the members in insertion order
func (s *Set) Identities() []Identity {
	out := make([]Identity, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, s.items[k])
	}
	return out
}
