// Package alignment infers how the positions of any two attributes relate
// to each other.
//
// Explicit alignments from the description are seeded into a relation
// graph together with their inverses. Inference then composes chains of
// known alignments until no new pair of attributes can be related, keeping
// only chains whose multiplicity stays under control. The resulting
// alignment lists are turned into executable functions by alignfunc.
package alignment

import (
	"fmt"

	"semantic-mapper/internal/resource"
)

// Attribute is a named location inside one resource. Attributes are
// immutable once created and identified by their index in Attributes.
type Attribute struct {
	ID       int
	Name     string
	Resource string
	Path     resource.Path
	// Unique marks attributes whose values never repeat.
	Unique bool
	// Missing holds the sentinel values meaning "no value".
	Missing resource.MissingValues

	naryDims []int
}

// NaryDims returns the positions of the range steps of the path.
func (a *Attribute) NaryDims() []int {
	if a.naryDims != nil {
		return a.naryDims
	}

	return a.Path.NaryDims()
}

// IsNaryDim reports whether the path step at dim is a range.
func (a *Attribute) IsNaryDim(dim int) bool {
	return dim >= 0 && dim < a.Path.Len() && a.Path.Steps[dim].IsNary()
}

// String returns the attribute name.
func (a *Attribute) String() string {
	return a.Name
}

// Attributes is the full attribute set, indexed by attribute id.
type Attributes []*Attribute

// NewAttributes assigns ids in order and returns the set.
func NewAttributes(attrs ...*Attribute) Attributes {
	for i, a := range attrs {
		a.ID = i
		a.naryDims = a.Path.NaryDims()
	}

	return Attributes(attrs)
}

// Get returns the attribute with the given id.
func (as Attributes) Get(id int) *Attribute {
	return as[id]
}

// ByName returns the attribute with the given name.
func (as Attributes) ByName(name string) (*Attribute, error) {
	for _, a := range as {
		if a.Name == name {
			return a, nil
		}
	}

	return nil, fmt.Errorf("unknown attribute %q", name)
}
