// Package cursor provides the stateful index iterators used to enumerate
// positions inside resources.
//
// A cursor starts before its first position. Each successful Advance moves
// it to the next position, which Value exposes as a buffer owned by the
// cursor and mutated in place:
//
//	for c.Advance() {
//		use(c.Value())
//	}
//	if err := c.Err(); err != nil { ... }
package cursor

import "semantic-mapper/internal/resource"

// Cursor lazily enumerates positions.
type Cursor interface {
	// Value returns the current position. The buffer is reused by Advance.
	Value() resource.Position
	// Advance moves to the next position and reports whether one exists.
	Advance() bool
	// FreezeLastStep drops the least significant varying dimension for the
	// rest of the enumeration, turning a leaf-level cursor into its
	// parent-level cursor.
	FreezeLastStep()
	// Err returns the error that stopped the cursor, if any.
	Err() error
}

// Dim is a varying dimension with statically known bounds.
type Dim struct {
	// Pos is the index of the dimension inside the position.
	Pos    int
	Start  int
	End    int
	Stride int
}

// ForPath returns a cursor enumerating the range steps of path listed in
// dims, using pos as the position buffer. Dimensions not listed keep the
// value already stored in pos. When every listed step has a static end a
// known-bound Range is used, otherwise an UnboundRange that reads container
// lengths from root.
func ForPath(root resource.Value, path resource.Path, pos resource.Position, dims []int) Resettable {
	static := true

	for _, d := range dims {
		if !path.Steps[d].HasStaticEnd() {
			static = false
			break
		}
	}

	if !static {
		return NewUnboundRange(root, path, pos, dims)
	}

	known := make([]Dim, len(dims))

	for i, d := range dims {
		s := path.Steps[d]
		known[i] = Dim{Pos: d, Start: s.Start, End: s.End, Stride: s.Stride}
	}

	return NewRange(pos, known)
}

// Resettable is implemented by cursors that can restart from their first
// position after the fixed part of their buffer changed. Reset also undoes
// FreezeLastStep.
type Resettable interface {
	Cursor
	Reset()
}
