package alignment

import (
	"fmt"
	"slices"
	"strings"
)

//go:generate go tool stringer -type=Kind -trimprefix=Kind -output=kind_string.go

// Kind distinguishes the alignment variants.
type Kind int

const (
	// KindIdentical aligns an attribute to itself.
	KindIdentical Kind = iota
	// KindRange relates the range steps of two attributes positionally.
	KindRange
	// KindValue relates two attributes whose values are equal.
	KindValue
)

// DimPair maps a range step of the source path onto one of the target.
type DimPair struct {
	Source int
	Target int
}

// Alignment describes how positions of Source map to positions of Target.
type Alignment struct {
	Kind   Kind
	Source int
	Target int
	// Dims lists the aligned range steps (KindRange only).
	Dims []DimPair
}

// Identical returns the self alignment of an attribute.
func Identical(attr int) Alignment {
	return Alignment{Kind: KindIdentical, Source: attr, Target: attr}
}

// Range returns a positional alignment.
func Range(source, target int, dims ...DimPair) Alignment {
	return Alignment{Kind: KindRange, Source: source, Target: target, Dims: dims}
}

// Value returns a join-by-equality alignment.
func Value(source, target int) Alignment {
	return Alignment{Kind: KindValue, Source: source, Target: target}
}

// Swap returns the inverse alignment.
func (a Alignment) Swap() Alignment {
	out := Alignment{Kind: a.Kind, Source: a.Target, Target: a.Source}

	if a.Dims != nil {
		out.Dims = make([]DimPair, len(a.Dims))
		for i, d := range a.Dims {
			out.Dims[i] = DimPair{Source: d.Target, Target: d.Source}
		}
	}

	return out
}

// SourceDims returns the aligned source steps.
func (a Alignment) SourceDims() []int {
	dims := make([]int, len(a.Dims))
	for i, d := range a.Dims {
		dims[i] = d.Source
	}

	return dims
}

// TargetDim returns the source step aligned to the target step dim.
func (a Alignment) TargetDim(dim int) (int, bool) {
	for _, d := range a.Dims {
		if d.Target == dim {
			return d.Source, true
		}
	}

	return 0, false
}

// Equal reports whether both alignments describe the same relation.
func (a Alignment) Equal(other Alignment) bool {
	return a.Kind == other.Kind && a.Source == other.Source && a.Target == other.Target &&
		slices.Equal(a.Dims, other.Dims)
}

// String renders the alignment as "range(1->2; 0:0)".
func (a Alignment) String() string {
	switch a.Kind {
	case KindRange:
		parts := make([]string, len(a.Dims))
		for i, d := range a.Dims {
			parts[i] = fmt.Sprintf("%d:%d", d.Source, d.Target)
		}

		return fmt.Sprintf("range(%d->%d; %s)", a.Source, a.Target, strings.Join(parts, ","))
	case KindValue:
		return fmt.Sprintf("value(%d->%d)", a.Source, a.Target)
	default:
		return fmt.Sprintf("identical(%d)", a.Source)
	}
}

// Reverse returns the inverse of an alignment list: the swapped entries in
// reverse order.
func Reverse(aligns []Alignment) []Alignment {
	out := make([]Alignment, len(aligns))
	for i, a := range aligns {
		out[len(aligns)-1-i] = a.Swap()
	}

	return out
}
