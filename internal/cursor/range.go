package cursor

import "semantic-mapper/internal/resource"

// Range advances a fixed list of dimensions within statically known
// [Start, End) bounds, last dimension fastest.
type Range struct {
	pos     resource.Position
	all     []Dim
	dims    []Dim // all minus the frozen dimensions
	started bool
	done    bool
}

// NewRange returns a known-bound cursor over pos.
func NewRange(pos resource.Position, dims []Dim) *Range {
	own := make([]Dim, len(dims))
	copy(own, dims)

	for i := range own {
		if own[i].Stride <= 0 {
			own[i].Stride = 1
		}
	}

	return &Range{pos: pos, all: own, dims: own}
}

// Value returns the current position.
func (c *Range) Value() resource.Position {
	return c.pos
}

// Advance moves to the next position.
func (c *Range) Advance() bool {
	if c.done {
		return false
	}

	if !c.started {
		c.started = true

		for _, d := range c.dims {
			if d.Start >= d.End {
				c.done = true
				return false
			}

			c.pos[d.Pos] = resource.IntIndex(d.Start)
		}

		return true
	}

	for j := len(c.dims) - 1; j >= 0; j-- {
		d := c.dims[j]

		next := c.pos[d.Pos].Int + d.Stride
		if next >= d.End {
			continue
		}

		c.pos[d.Pos] = resource.IntIndex(next)

		for _, inner := range c.dims[j+1:] {
			c.pos[inner.Pos] = resource.IntIndex(inner.Start)
		}

		return true
	}

	c.done = true

	return false
}

// FreezeLastStep drops the least significant dimension.
func (c *Range) FreezeLastStep() {
	if len(c.dims) == 0 {
		return
	}

	last := c.dims[len(c.dims)-1]
	c.pos[last.Pos] = resource.IntIndex(last.Start)
	c.dims = c.dims[:len(c.dims)-1]
}

// Reset restarts the cursor from its first position with every dimension.
func (c *Range) Reset() {
	c.dims = c.all
	c.started = false
	c.done = false
}

// Err always returns nil.
func (c *Range) Err() error {
	return nil
}
