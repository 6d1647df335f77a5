package alignfunc

import (
	"errors"

	"semantic-mapper/internal/alignment"
	"semantic-mapper/internal/cursor"
	"semantic-mapper/internal/reader"
	"semantic-mapper/internal/resource"
)

// hopInput is the attribute reached after a hop, read when the next hop
// joins on values.
type hopInput struct {
	attr   *alignment.Attribute
	reader reader.Reader
}

// valueAt returns the value of the intermediate attribute at pos.
func (h hopInput) valueAt(pos resource.Position) (resource.Value, error) {
	v, ok := h.reader.Value(pos)
	if !ok || v.IsNull() || h.attr.Missing.Contains(v) {
		return resource.Value{}, ErrNoValue
	}

	return v, nil
}

// arena holds one position buffer per intermediate attribute of a chain,
// allocated once when the chain is built.
type arena struct {
	bufs []resource.Position
}

func newArena(mids []hopInput) arena {
	bufs := make([]resource.Position, len(mids))
	for i, m := range mids {
		bufs[i] = m.attr.Path.NewPosition()
	}

	return arena{bufs: bufs}
}

// out returns the buffer written by hop i; the last hop writes into tgt.
func (a arena) out(i int, tgt resource.Position) resource.Position {
	if i == len(a.bufs) {
		return tgt
	}

	return a.bufs[i]
}

// ChainSingle composes single functions end to end.
type ChainSingle struct {
	hops []Single
	mids []hopInput
	mem  arena
}

// UsesSourceValue reports whether the first hop joins on values.
func (f *ChainSingle) UsesSourceValue() bool {
	return f.hops[0].UsesSourceValue()
}

// Align threads the position through every hop.
func (f *ChainSingle) Align(src resource.Position, val resource.Value, tgt resource.Position) (resource.Position, error) {
	return f.PartialAlign(src, val, tgt, 0)
}

// PartialAlign passes from to the first hop only; later hops see a fully
// recomputed input.
func (f *ChainSingle) PartialAlign(src resource.Position, val resource.Value, tgt resource.Position, from int) (resource.Position, error) {
	pos := src

	for i, h := range f.hops {
		if i > 0 && h.UsesSourceValue() {
			v, err := f.mids[i-1].valueAt(pos)
			if err != nil {
				return nil, err
			}

			val = v
		}

		var err error
		if i == 0 {
			pos, err = h.PartialAlign(pos, val, f.mem.out(i, tgt), from)
		} else {
			pos, err = h.Align(pos, val, f.mem.out(i, tgt))
		}

		if err != nil {
			return nil, err
		}
	}

	return pos, nil
}

// ChainMultiple composes hops of any kind by nesting their cursors. With a
// key function set, target positions reached through more than one path
// are yielded once per call.
type ChainMultiple struct {
	hops []Function
	mids []hopInput
	mem  arena

	iter  *chainCursor
	dedup *cursor.Dedup
	key   cursor.KeyFunc
}

// UsesSourceValue reports whether the first hop joins on values.
func (f *ChainMultiple) UsesSourceValue() bool {
	return f.hops[0].UsesSourceValue()
}

// Deduplicates reports whether repeated target positions are filtered.
func (f *ChainMultiple) Deduplicates() bool {
	return f.key != nil
}

// Iterate returns a cursor over the final target positions.
func (f *ChainMultiple) Iterate(src resource.Position, val resource.Value, tgt resource.Position) (cursor.Cursor, error) {
	if f.iter == nil {
		f.iter = newChainCursor(f)
	}

	it := f.iter
	it.reset(src, val, tgt)

	if err := it.open(0); err != nil {
		if !errors.Is(err, ErrNoValue) {
			return nil, err
		}

		it.done = true
	}

	if f.key == nil {
		return it, nil
	}

	if f.dedup == nil {
		f.dedup = cursor.NewDedup(it, f.key)
	} else {
		f.dedup.Reset(it)
	}

	return f.dedup, nil
}

// chainCursor walks the hops depth first: the innermost hop advances
// first, and an outer hop only advances, reopening every hop after it,
// once the inner one is exhausted.
type chainCursor struct {
	chain *ChainMultiple

	src resource.Position
	val resource.Value
	tgt resource.Position

	// cursors holds the open cursor of each Multiple hop; pending marks a
	// Single hop whose result was not consumed yet.
	multi   []bool
	cursors []cursor.Cursor
	pending []bool

	started bool
	done    bool
	frozen  bool
	err     error
}

func newChainCursor(f *ChainMultiple) *chainCursor {
	c := &chainCursor{
		chain:   f,
		multi:   make([]bool, len(f.hops)),
		cursors: make([]cursor.Cursor, len(f.hops)),
		pending: make([]bool, len(f.hops)),
	}

	for i, h := range f.hops {
		_, c.multi[i] = h.(Multiple)
	}

	return c
}

func (c *chainCursor) reset(src resource.Position, val resource.Value, tgt resource.Position) {
	c.src, c.val, c.tgt = src, val, tgt
	c.started, c.done, c.frozen, c.err = false, false, false, nil
	clear(c.pending)
}

// open computes the output of hop i from the output of hop i-1.
func (c *chainCursor) open(i int) error {
	f := c.chain

	in, val := c.src, c.val
	if i > 0 {
		in = f.mem.out(i-1, c.tgt)
	}

	h := f.hops[i]
	if i > 0 && h.UsesSourceValue() {
		v, err := f.mids[i-1].valueAt(in)
		if err != nil {
			return err
		}

		val = v
	}

	out := f.mem.out(i, c.tgt)

	switch fn := h.(type) {
	case Single:
		if _, err := fn.Align(in, val, out); err != nil {
			return err
		}

		c.pending[i] = true
	case Multiple:
		cur, err := fn.Iterate(in, val, out)
		if err != nil {
			return err
		}

		if c.frozen && i == len(f.hops)-1 {
			cur.FreezeLastStep()
		}

		c.cursors[i] = cur
	}

	return nil
}

// next moves hop i to its next output.
func (c *chainCursor) next(i int) bool {
	if !c.multi[i] {
		if c.pending[i] {
			c.pending[i] = false
			return true
		}

		return false
	}

	if c.cursors[i].Advance() {
		return true
	}

	c.err = c.cursors[i].Err()

	return false
}

func (c *chainCursor) Value() resource.Position {
	return c.tgt
}

func (c *chainCursor) Advance() bool {
	if c.done {
		return false
	}

	last := len(c.chain.hops) - 1

	i := last
	if !c.started {
		c.started = true
		i = 0
	}

	for i >= 0 {
		if !c.next(i) {
			if c.err != nil {
				c.done = true
				return false
			}

			i--

			continue
		}

		if i == last {
			return true
		}

		if err := c.open(i + 1); err != nil {
			if errors.Is(err, ErrNoValue) {
				continue
			}

			c.err = err
			c.done = true

			return false
		}

		i++
	}

	c.done = true

	return false
}

// FreezeLastStep freezes the cursor of the last hop, now and whenever the
// hop is reopened.
func (c *chainCursor) FreezeLastStep() {
	c.frozen = true

	if cur := c.cursors[len(c.cursors)-1]; cur != nil {
		cur.FreezeLastStep()
	}
}

func (c *chainCursor) Err() error {
	return c.err
}
