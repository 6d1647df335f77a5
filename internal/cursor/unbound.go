package cursor

import "semantic-mapper/internal/resource"

// UnboundRange enumerates range steps whose end is only known by reading
// the (possibly ragged) nested structure. The end of each dimension is
// recomputed lazily from the container it indexes; containers visited so
// far are cached per level and only re-resolved below the step that
// changed.
type UnboundRange struct {
	root  resource.Value
	steps []resource.Step
	pos   resource.Position
	all   []int
	dims  []int
	ends  []int

	// levels[i] is the node at pos[:i]; levels[:valid] are current.
	levels []resource.Value
	valid  int

	started bool
	done    bool
}

// NewUnboundRange returns a cursor over the dims of path, reading container
// lengths from root. pos is used as the position buffer.
func NewUnboundRange(root resource.Value, path resource.Path, pos resource.Position, dims []int) *UnboundRange {
	own := make([]int, len(dims))
	copy(own, dims)

	c := &UnboundRange{
		root:   root,
		steps:  path.Steps,
		pos:    pos,
		all:    own,
		dims:   own,
		ends:   make([]int, len(dims)),
		levels: make([]resource.Value, len(path.Steps)+1),
	}
	c.Reset()

	return c
}

// Value returns the current position.
func (c *UnboundRange) Value() resource.Position {
	return c.pos
}

// Advance moves to the next position.
func (c *UnboundRange) Advance() bool {
	if c.done {
		return false
	}

	if !c.started {
		c.started = true

		if !c.settle(0) {
			c.done = true
			return false
		}

		return true
	}

	for j := len(c.dims) - 1; j >= 0; j-- {
		if !c.step(j) {
			continue
		}

		if c.settle(j + 1) {
			return true
		}

		break
	}

	c.done = true

	return false
}

// FreezeLastStep drops the least significant dimension.
func (c *UnboundRange) FreezeLastStep() {
	if len(c.dims) == 0 {
		return
	}

	last := c.dims[len(c.dims)-1]
	c.set(last, c.steps[last].Start)
	c.dims = c.dims[:len(c.dims)-1]
	c.ends = c.ends[:len(c.dims)]
}

// Reset restarts the cursor with every dimension and drops every cached
// container. It must be called after the caller changed a fixed coordinate
// of the buffer.
func (c *UnboundRange) Reset() {
	c.dims = c.all
	c.ends = c.ends[:len(c.all)]
	c.levels[0] = c.root
	c.valid = 1
	c.started = false
	c.done = false
}

// Err always returns nil.
func (c *UnboundRange) Err() error {
	return nil
}

// settle moves dims[k:] to their first position. When a dimension turns
// out to be empty, outer dimensions are advanced until a non-empty
// combination is found; false means the cursor is exhausted.
func (c *UnboundRange) settle(k int) bool {
	for i := k; i < len(c.dims); {
		p := c.dims[i]

		if end, ok := c.resolveEnd(i); ok && c.steps[p].Start < end {
			c.set(p, c.steps[p].Start)
			i++

			continue
		}

		for {
			i--
			if i < 0 {
				return false
			}

			if c.step(i) {
				break
			}
		}

		i++
	}

	return true
}

// step advances dims[j] by its stride if it stays within bounds.
func (c *UnboundRange) step(j int) bool {
	p := c.dims[j]

	next := c.pos[p].Int + c.steps[p].Stride
	if next >= c.ends[j] {
		return false
	}

	c.set(p, next)

	return true
}

func (c *UnboundRange) set(p, value int) {
	c.pos[p] = resource.IntIndex(value)
	if c.valid > p+1 {
		c.valid = p + 1
	}
}

// resolveEnd computes the end of dims[j] from the container it indexes.
func (c *UnboundRange) resolveEnd(j int) (int, bool) {
	p := c.dims[j]

	node, ok := c.level(p)
	if !ok || node.Kind() != resource.KindArray {
		return 0, false
	}

	c.ends[j] = c.steps[p].EndFor(node.Len())

	return c.ends[j], true
}

// level returns the node at pos[:depth], descending from the deepest
// cached level.
func (c *UnboundRange) level(depth int) (resource.Value, bool) {
	for c.valid <= depth {
		child, ok := c.levels[c.valid-1].Child(c.pos[c.valid-1])
		if !ok {
			return resource.Value{}, false
		}

		c.levels[c.valid] = child
		c.valid++
	}

	return c.levels[depth], true
}
