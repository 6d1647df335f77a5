package resource

import (
	"strconv"
	"strings"
)

// StepKind distinguishes bound steps from range steps.
type StepKind int

const (
	// StepIndex selects exactly one child by array offset or object key.
	StepIndex StepKind = iota
	// StepRange selects every array offset in [Start, End) by Stride.
	StepRange
)

// Step is one element of a Path.
type Step struct {
	Kind StepKind
	// Index is the bound key (StepIndex only).
	Index Index
	// Start, End and Stride describe a range (StepRange only).
	// When HasEnd is false the range runs to the container length; a
	// negative End is an offset from the container length. Both forms are
	// only known once data is read.
	Start  int
	End    int
	HasEnd bool
	Stride int
}

// IndexStep returns a bound step.
func IndexStep(idx Index) Step {
	return Step{Kind: StepIndex, Index: idx}
}

// RangeStep returns an open-ended range step starting at start.
func RangeStep(start, stride int) Step {
	if stride <= 0 {
		stride = 1
	}

	return Step{Kind: StepRange, Start: start, Stride: stride}
}

// BoundedRangeStep returns a range step with an explicit end.
func BoundedRangeStep(start, end, stride int) Step {
	s := RangeStep(start, stride)
	s.End = end
	s.HasEnd = true

	return s
}

// IsNary reports whether the step can match more than one position.
func (s Step) IsNary() bool {
	return s.Kind == StepRange
}

// HasStaticEnd reports whether the range end is known without reading data.
func (s Step) HasStaticEnd() bool {
	return s.Kind == StepRange && s.HasEnd && s.End >= 0
}

// EndFor resolves the exclusive range end for a container of the given length.
func (s Step) EndFor(length int) int {
	switch {
	case !s.HasEnd:
		return length
	case s.End < 0:
		return length + s.End
	default:
		return min(s.End, length)
	}
}

// String renders the step in path-expression form.
func (s Step) String() string {
	if s.Kind == StepIndex {
		if s.Index.IsStr && isPlainKey(s.Index.Str) {
			return "." + s.Index.Str
		}

		return "[" + s.Index.String() + "]"
	}

	var sb strings.Builder

	sb.WriteByte('[')

	if s.Start != 0 {
		sb.WriteString(strconv.Itoa(s.Start))
	}

	sb.WriteByte(':')

	if s.HasEnd {
		sb.WriteString(strconv.Itoa(s.End))
	}

	if s.Stride != 1 {
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(s.Stride))
	}

	sb.WriteByte(']')

	return sb.String()
}

// Path is an ordered sequence of steps into a resource.
type Path struct {
	Steps []Step
}

// NewPath builds a path from steps.
func NewPath(steps ...Step) Path {
	return Path{Steps: steps}
}

// Len returns the number of steps.
func (p Path) Len() int {
	return len(p.Steps)
}

// NaryDims returns the positions of the range steps, in order.
func (p Path) NaryDims() []int {
	var dims []int

	for i, s := range p.Steps {
		if s.IsNary() {
			dims = append(dims, i)
		}
	}

	return dims
}

// HasStaticBounds reports whether every range step has a static end.
func (p Path) HasStaticBounds() bool {
	for _, s := range p.Steps {
		if s.IsNary() && !s.HasStaticEnd() {
			return false
		}
	}

	return true
}

// NewPosition allocates a position buffer for the path: bound steps hold
// their key and range steps hold their start.
func (p Path) NewPosition() Position {
	pos := make(Position, len(p.Steps))

	for i, s := range p.Steps {
		if s.IsNary() {
			pos[i] = IntIndex(s.Start)
		} else {
			pos[i] = s.Index
		}
	}

	return pos
}

// String renders the full path expression.
func (p Path) String() string {
	var sb strings.Builder

	sb.WriteByte('$')

	for _, s := range p.Steps {
		sb.WriteString(s.String())
	}

	return sb.String()
}

func isPlainKey(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		switch {
		case r == '_' || r == '-':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}

	return true
}
