package identity

// Result lists the followers lost and gained between two captures
type Result struct {
	Removed []string `json:"removed"`
	Added   []string `json:"added"`
}

// Empty reports whether nothing changed
func (r Result) Empty() bool {
	return len(r.Removed) == 0 && len(r.Added) == 0
}

// Canonical maps each folded key to the display form reported for it.
// Exact repeats are collapsed first, keeping each spelling where it first
// appeared, then spellings are visited before-then-after and a later
// distinct spelling overwrites an earlier one.
func Canonical(before, after []string) map[string]string {
	table := make(map[string]string, len(before)+len(after))
	seen := make(map[string]struct{}, len(before)+len(after))
	for _, list := range [][]string{before, after} {
		for _, name := range list {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			table[Fold(name)] = name
		}
	}
	return table
}

// Diff compares two follower lists case-insensitively. Removed keeps the
// order of before and Added the order of after; every name is reported in
// its canonical casing and at most once.
func Diff(before, after []string) Result {
	canonical := Canonical(before, after)
	prev := NewSet(before)
	next := NewSet(after)

	return Result{
		Removed: missing(prev, next, canonical),
		Added:   missing(next, prev, canonical),
	}
}

// missing returns the members of from that other lacks
func missing(from, other *Set, canonical map[string]string) []string {
	out := make([]string, 0)
	for _, id := range from.Identities() {
		if other.Contains(id) {
			continue
		}
		out = append(out, canonical[id.Key()])
	}
	return out
}
