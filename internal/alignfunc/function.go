// Package alignfunc turns alignment lists into executable functions that
// translate a source position into target positions.
//
// A function is either Single, which computes exactly one target position,
// or Multiple, which returns a cursor over every target position. The kind
// is chosen once by the Builder; callers switch on it when preparing a
// property, never per record.
package alignfunc

import (
	"errors"
	"fmt"

	"semantic-mapper/internal/cursor"
	"semantic-mapper/internal/resource"
)

// ErrNoValue is returned when an intermediate attribute of a chain has no
// value at the reached position, so no target can be computed.
var ErrNoValue = errors.New("intermediate value is missing")

// LookupError is returned by value alignments queried with a value that is
// not in the scanned target index.
type LookupError struct {
	Attribute string
	Value     resource.Value
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("value %s is not indexed for attribute %s", e.Value, e.Attribute)
}

// Function is implemented by Single and Multiple.
type Function interface {
	// UsesSourceValue reports whether the source value must be passed in.
	UsesSourceValue() bool
}

// Single computes exactly one target position.
type Single interface {
	Function
	// Align writes the target position into tgt and returns it.
	Align(src resource.Position, val resource.Value, tgt resource.Position) (resource.Position, error)
	// PartialAlign is Align for callers that know the source dimensions
	// before from did not change since the previous call on the same tgt.
	PartialAlign(src resource.Position, val resource.Value, tgt resource.Position, from int) (resource.Position, error)
}

// Multiple enumerates every target position.
type Multiple interface {
	Function
	// Iterate returns a cursor writing target positions into tgt. The cursor
	// stays valid until the next call to Iterate.
	Iterate(src resource.Position, val resource.Value, tgt resource.Position) (cursor.Cursor, error)
}

// Identity maps a position onto itself.
type Identity struct{}

// UsesSourceValue returns false.
func (Identity) UsesSourceValue() bool {
	return false
}

// Align copies src into tgt.
func (Identity) Align(src resource.Position, _ resource.Value, tgt resource.Position) (resource.Position, error) {
	copy(tgt, src)

	return tgt, nil
}

// PartialAlign copies the changed suffix of src into tgt.
func (Identity) PartialAlign(src resource.Position, _ resource.Value, tgt resource.Position, from int) (resource.Position, error) {
	copy(tgt[from:], src[from:])

	return tgt, nil
}
