package alignfunc

import (
	"errors"
	"fmt"

	"semantic-mapper/internal/alignment"
	"semantic-mapper/internal/cursor"
	"semantic-mapper/internal/reader"
	"semantic-mapper/internal/resource"
)

// Builder creates alignment functions over a set of open resources. Value
// indexes are scanned once per target attribute and shared by every
// function built afterwards.
type Builder struct {
	attrs   alignment.Attributes
	readers reader.Set
	indexes map[int]*valueIndex
}

// NewBuilder returns a builder for attrs reading from readers.
func NewBuilder(attrs alignment.Attributes, readers reader.Set) *Builder {
	return &Builder{attrs: attrs, readers: readers, indexes: make(map[int]*valueIndex)}
}

// Build returns the function for an alignment list.
//
// A single alignment becomes the concrete kind matching its cardinality.
// A longer list becomes ChainSingle when every hop is one-to-one,
// ChainMultiple when no hop merges sources, and a deduplicating
// ChainMultiple otherwise.
func (b *Builder) Build(aligns []alignment.Alignment) (Function, error) {
	if len(aligns) == 0 {
		return nil, errors.New("empty alignment list")
	}

	if len(aligns) == 1 {
		return b.buildOne(aligns[0])
	}

	allO2O, duplicateFree := true, true

	for _, a := range aligns {
		c := alignment.Of(b.attrs, a)
		allO2O = allO2O && c == alignment.O2O
		duplicateFree = duplicateFree && c.IsDuplicateFree()
	}

	if allO2O {
		return b.BuildSingle(aligns)
	}

	f, err := b.buildChainMultiple(aligns, !duplicateFree)
	if err != nil {
		return nil, err
	}

	return f, nil
}

// BuildSingle returns a single function for a list whose hops never fan
// out. It fails when some hop can reach more than one target position.
func (b *Builder) BuildSingle(aligns []alignment.Alignment) (Single, error) {
	if len(aligns) == 0 {
		return nil, errors.New("empty alignment list")
	}

	hops := make([]Single, len(aligns))

	for i, a := range aligns {
		fn, err := b.buildOne(a)
		if err != nil {
			return nil, err
		}

		s, ok := fn.(Single)
		if !ok {
			return nil, fmt.Errorf("alignment %s is not single", a)
		}

		hops[i] = s
	}

	if len(hops) == 1 {
		return hops[0], nil
	}

	mids, err := b.intermediates(aligns)
	if err != nil {
		return nil, err
	}

	return &ChainSingle{hops: hops, mids: mids, mem: newArena(mids)}, nil
}

func (b *Builder) buildChainMultiple(aligns []alignment.Alignment, dedup bool) (*ChainMultiple, error) {
	hops := make([]Function, len(aligns))

	for i, a := range aligns {
		fn, err := b.buildOne(a)
		if err != nil {
			return nil, err
		}

		hops[i] = fn
	}

	mids, err := b.intermediates(aligns)
	if err != nil {
		return nil, err
	}

	f := &ChainMultiple{hops: hops, mids: mids, mem: newArena(mids)}

	if dedup {
		final := b.attrs[aligns[len(aligns)-1].Target]
		pid := resource.NewPseudoID(final.Name, final.Path)
		f.key = cursor.KeyFunc(pid.Of)
	}

	return f, nil
}

func (b *Builder) intermediates(aligns []alignment.Alignment) ([]hopInput, error) {
	mids := make([]hopInput, len(aligns)-1)

	for i, a := range aligns[:len(aligns)-1] {
		attr := b.attrs[a.Target]

		r, err := b.readers.Get(attr.Resource)
		if err != nil {
			return nil, err
		}

		mids[i] = hopInput{attr: attr, reader: r}
	}

	return mids, nil
}

func (b *Builder) buildOne(a alignment.Alignment) (Function, error) {
	switch a.Kind {
	case alignment.KindIdentical:
		return Identity{}, nil
	case alignment.KindRange:
		src, tgt := b.attrs[a.Source], b.attrs[a.Target]
		dims := newRangeDims(src, tgt, a.Dims)

		if alignment.Of(b.attrs, a).IsSingle() {
			return &RangeSingle{dims: dims}, nil
		}

		r, err := b.readers.Get(tgt.Resource)
		if err != nil {
			return nil, err
		}

		var free []int

		for _, d := range tgt.NaryDims() {
			if _, ok := a.TargetDim(d); !ok {
				free = append(free, d)
			}
		}

		return &RangeMultiple{dims: dims, free: free, root: r.Root(), path: tgt.Path}, nil
	case alignment.KindValue:
		idx, err := b.index(a.Target)
		if err != nil {
			return nil, err
		}

		if b.attrs[a.Target].Unique {
			return &ValueSingle{index: idx}, nil
		}

		return &ValueMultiple{index: idx}, nil
	default:
		return nil, fmt.Errorf("unknown alignment kind %v", a.Kind)
	}
}

func (b *Builder) index(target int) (*valueIndex, error) {
	if idx, ok := b.indexes[target]; ok {
		return idx, nil
	}

	attr := b.attrs[target]

	r, err := b.readers.Get(attr.Resource)
	if err != nil {
		return nil, err
	}

	idx, err := scanValues(attr, r)
	if err != nil {
		return nil, fmt.Errorf("failed to index attribute %s: %w", attr.Name, err)
	}

	b.indexes[target] = idx

	return idx, nil
}
