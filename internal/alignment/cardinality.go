package alignment

//go:generate go tool stringer -type=Cardinality -output=cardinality_string.go

// Cardinality is the multiplicity class of an alignment from a source
// attribute to a target attribute.
//
// The value is a bit set: bit 0 means one source position reaches many
// target positions, bit 1 means many source positions reach the same
// target position.
type Cardinality int

const (
	O2O Cardinality = iota
	O2M
	M2O
	M2M
)

const (
	toMany Cardinality = 1 << iota
	manyTo
)

// NewCardinality builds the class from both multiplicity flags.
func NewCardinality(manySources, manyTargets bool) Cardinality {
	var c Cardinality
	if manyTargets {
		c |= toMany
	}

	if manySources {
		c |= manyTo
	}

	return c
}

// IsSingle reports whether a source position reaches at most one target
// position (O2O or M2O).
func (c Cardinality) IsSingle() bool {
	return c&toMany == 0
}

// IsDuplicateFree reports whether two source positions never reach the
// same target position (O2O or O2M).
func (c Cardinality) IsDuplicateFree() bool {
	return c&manyTo == 0
}

// Then returns the cardinality of following c by next.
func (c Cardinality) Then(next Cardinality) Cardinality {
	return c | next
}

// Inverse returns the cardinality of the swapped relation.
func (c Cardinality) Inverse() Cardinality {
	return NewCardinality(c&toMany != 0, c&manyTo != 0)
}

// Chainable reports whether an alignment of cardinality f may be followed
// by one of cardinality g: either f never merges sources or g never fans
// out.
func Chainable(f, g Cardinality) bool {
	return f.IsDuplicateFree() || g.IsSingle()
}

// Of returns the cardinality of a single alignment between attributes.
func Of(attrs Attributes, a Alignment) Cardinality {
	switch a.Kind {
	case KindIdentical:
		return O2O
	case KindValue:
		return NewCardinality(!attrs[a.Source].Unique, !attrs[a.Target].Unique)
	default:
		src, tgt := attrs[a.Source], attrs[a.Target]

		return NewCardinality(
			hasUncovered(src.NaryDims(), a.Dims, func(d DimPair) int { return d.Source }),
			hasUncovered(tgt.NaryDims(), a.Dims, func(d DimPair) int { return d.Target }),
		)
	}
}

// Estimate folds the cardinality of an alignment list left to right. An
// M2M step ends the fold early.
func Estimate(attrs Attributes, aligns []Alignment) Cardinality {
	c := O2O

	for _, a := range aligns {
		c = c.Then(Of(attrs, a))
		if c == M2M {
			return M2M
		}
	}

	return c
}

func hasUncovered(nary []int, pairs []DimPair, side func(DimPair) int) bool {
	for _, d := range nary {
		covered := false

		for _, p := range pairs {
			if side(p) == d {
				covered = true
				break
			}
		}

		if !covered {
			return true
		}
	}

	return false
}
