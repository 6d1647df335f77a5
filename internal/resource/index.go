package resource

import (
	"strconv"
	"strings"
)

// Index is one coordinate of a Position: an array offset or an object key.
type Index struct {
	Str   string
	Int   int
	IsStr bool
}

// IntIndex returns an array offset index.
func IntIndex(i int) Index {
	return Index{Int: i}
}

// StrIndex returns an object key index.
func StrIndex(s string) Index {
	return Index{Str: s, IsStr: true}
}

// String returns the path-expression form of the index.
func (i Index) String() string {
	if i.IsStr {
		return strconv.Quote(i.Str)
	}

	return strconv.Itoa(i.Int)
}

// Position is a full index tuple locating one value inside a resource.
type Position []Index

// Clone returns a copy of the position that does not share storage.
func (p Position) Clone() Position {
	if p == nil {
		return nil
	}

	out := make(Position, len(p))
	copy(out, p)

	return out
}

// Equal reports whether both positions hold the same indices.
func (p Position) Equal(other Position) bool {
	if len(p) != len(other) {
		return false
	}

	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}

	return true
}

// String renders the position as "[0, \"name\"]".
func (p Position) String() string {
	var sb strings.Builder

	sb.WriteByte('[')

	for i, idx := range p {
		if i > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(idx.String())
	}

	sb.WriteByte(']')

	return sb.String()
}

// SameBuffer reports whether two positions share the same backing array.
func SameBuffer(a, b Position) bool {
	if len(a) == 0 || len(b) == 0 {
		return len(a) == len(b)
	}

	return len(a) == len(b) && &a[0] == &b[0]
}
