package cursor

import "semantic-mapper/internal/resource"

// List enumerates a precomputed list of coordinates. Each item holds one
// index per entry of dims and is written into the position buffer.
type List struct {
	pos   resource.Position
	all   []int
	dims  []int
	items [][]resource.Index
	next  int
}

// NewList returns a cursor over items.
func NewList(pos resource.Position, dims []int, items [][]resource.Index) *List {
	return &List{pos: pos, all: dims, dims: dims, items: items}
}

// Reset points the cursor at a new buffer and item list. Frozen
// dimensions are restored.
func (c *List) Reset(pos resource.Position, items [][]resource.Index) {
	c.pos = pos
	c.dims = c.all
	c.items = items
	c.next = 0
}

// Value returns the current position.
func (c *List) Value() resource.Position {
	return c.pos
}

// Advance moves to the next item.
func (c *List) Advance() bool {
	if c.next >= len(c.items) {
		return false
	}

	for i, d := range c.dims {
		c.pos[d] = c.items[c.next][i]
	}

	c.next++

	return true
}

// FreezeLastStep drops the last dimension, collapsing items that only
// differed in it. Items already consumed are not revisited.
func (c *List) FreezeLastStep() {
	if len(c.dims) == 0 {
		return
	}

	n := len(c.dims) - 1
	c.dims = c.dims[:n]

	seen := make(map[string]struct{}, len(c.items))
	remaining := make([][]resource.Index, 0, len(c.items)-c.next)

	for _, item := range c.items[c.next:] {
		key := resource.Position(item[:n]).String()
		if _, ok := seen[key]; ok {
			continue
		}

		seen[key] = struct{}{}

		remaining = append(remaining, item[:n])
	}

	c.items = remaining
	c.next = 0
}

// Err always returns nil.
func (c *List) Err() error {
	return nil
}

// Empty is a cursor without positions.
type Empty struct {
	pos resource.Position
}

// NewEmpty returns an exhausted cursor whose Value is pos.
func NewEmpty(pos resource.Position) *Empty {
	return &Empty{pos: pos}
}

// Cursor methods of Empty.

func (c *Empty) Value() resource.Position { return c.pos }
func (c *Empty) Advance() bool { return false }
func (c *Empty) FreezeLastStep() {}
func (c *Empty) Err() error { return nil }
