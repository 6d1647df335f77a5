package resource

// MissingValues is the set of sentinel values an attribute uses to mean
// "no value". An empty set means values are never checked.
type MissingValues map[string]struct{}

// NewMissingValues builds a set from sentinel values.
func NewMissingValues(values ...Value) MissingValues {
	if len(values) == 0 {
		return nil
	}

	m := make(MissingValues, len(values))
	for _, v := range values {
		m[v.Key()] = struct{}{}
	}

	return m
}

// Contains reports whether v is one of the sentinels.
func (m MissingValues) Contains(v Value) bool {
	if len(m) == 0 {
		return false
	}

	_, ok := m[v.Key()]

	return ok
}

// IsEmpty reports whether no sentinel is defined.
func (m MissingValues) IsEmpty() bool {
	return len(m) == 0
}
