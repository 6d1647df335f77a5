package engine

// ClassStats counts the outcome of every subject position of a class.
type ClassStats struct {
	Class string
	// Emitted records were written.
	Emitted int
	// Dropped records missed a mandatory property or identifier.
	Dropped int
	// Duplicates had a real id that was already written.
	Duplicates int
	// ShapeErrors held a non-scalar value in a scalar slot.
	ShapeErrors int
	// Buffered is the number of deferred links handed to the writer.
	Buffered int
}

// Stats is the result of a run, one entry per class in processing order.
type Stats struct {
	Classes []ClassStats
}

// Total sums the counters of every class.
func (s *Stats) Total() ClassStats {
	var t ClassStats

	for _, c := range s.Classes {
		t.Emitted += c.Emitted
		t.Dropped += c.Dropped
		t.Duplicates += c.Duplicates
		t.ShapeErrors += c.ShapeErrors
		t.Buffered += c.Buffered
	}

	return t
}

// Class returns the counters of a class by name.
func (s *Stats) Class(name string) (ClassStats, bool) {
	for _, c := range s.Classes {
		if c.Class == name {
			return c, true
		}
	}

	return ClassStats{}, false
}
