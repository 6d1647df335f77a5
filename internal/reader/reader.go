// Package reader defines the contract the mapping core uses to read
// resources, and a generic in-memory implementation over decoded JSON,
// YAML and CSV data.
package reader

import (
	"fmt"
	"slices"

	"semantic-mapper/internal/cursor"
	"semantic-mapper/internal/resource"
)

// Reader gives positional access to one resource.
type Reader interface {
	// Value returns the value at pos, or false when pos does not exist.
	Value(pos resource.Position) (resource.Value, bool)
	// Iterate returns a cursor over every position matching path.
	Iterate(path resource.Path) cursor.Cursor
	// Len returns the root fan-out.
	Len() int
	// Root returns the root value, used by cursors whose bounds depend on data.
	Root() resource.Value
}

// Set holds the open resources by id.
type Set map[string]Reader

// Get returns the reader for a resource id.
func (s Set) Get(id string) (Reader, error) {
	r, ok := s[id]
	if !ok {
		return nil, fmt.Errorf("resource %q is not loaded", id)
	}

	return r, nil
}

// IDs returns the loaded resource ids in sorted order.
func (s Set) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}

	slices.Sort(ids)

	return ids
}

// Tree is a Reader over an in-memory value tree.
type Tree struct {
	root resource.Value
}

// NewTree returns a reader over root.
func NewTree(root resource.Value) *Tree {
	return &Tree{root: root}
}

// Value walks pos from the root.
func (t *Tree) Value(pos resource.Position) (resource.Value, bool) {
	v := t.root

	for _, idx := range pos {
		child, ok := v.Child(idx)
		if !ok {
			return resource.Value{}, false
		}

		v = child
	}

	return v, true
}

// Iterate returns a cursor over the positions matching path.
func (t *Tree) Iterate(path resource.Path) cursor.Cursor {
	return cursor.ForPath(t.root, path, path.NewPosition(), path.NaryDims())
}

// Len returns the root fan-out.
func (t *Tree) Len() int {
	return t.root.Len()
}

// Root returns the root value.
func (t *Tree) Root() resource.Value {
	return t.root
}
