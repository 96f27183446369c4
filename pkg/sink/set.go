package sink

// Set is an ordered collection of sinks, fixed at construction. The order of a
// Set is never changed and entries are never deduplicated: position in the Set
// is the identity a failing sink is reported under.
type Set []Sink

// NewSet builds a Set from the given sinks, dropping any nil entries. The
// filter is a deliberate construction policy, not a nullability workaround:
// an absent target never receives a call and never occupies a position in the
// Set. A Set built entirely from nil entries is empty, and broadcasting to an
// empty Set trivially succeeds.
func NewSet(sinks ...Sink) Set {
	set := make(Set, 0, len(sinks))
	for _, s := range sinks {
		if s == nil {
			continue
		}

		set = append(set, s)
	}

	return set
}
