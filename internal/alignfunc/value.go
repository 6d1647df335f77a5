package alignfunc

import (
	"semantic-mapper/internal/alignment"
	"semantic-mapper/internal/cursor"
	"semantic-mapper/internal/reader"
	"semantic-mapper/internal/resource"
)

// valueIndex maps the key of every value of an attribute to the range-step
// coordinates where it occurs, in reading order.
type valueIndex struct {
	attr    string
	dims    []int
	entries map[string][][]resource.Index
}

// scanValues reads every position of attr once. Null values and missing
// sentinels are not indexed.
func scanValues(attr *alignment.Attribute, r reader.Reader) (*valueIndex, error) {
	idx := &valueIndex{
		attr:    attr.Name,
		dims:    attr.NaryDims(),
		entries: make(map[string][][]resource.Index),
	}

	c := r.Iterate(attr.Path)
	for c.Advance() {
		pos := c.Value()

		v, ok := r.Value(pos)
		if !ok || v.IsNull() || attr.Missing.Contains(v) {
			continue
		}

		coords := make([]resource.Index, len(idx.dims))
		for i, d := range idx.dims {
			coords[i] = pos[d]
		}

		k := v.Key()
		idx.entries[k] = append(idx.entries[k], coords)
	}

	if err := c.Err(); err != nil {
		return nil, err
	}

	return idx, nil
}

func (idx *valueIndex) lookup(val resource.Value) ([][]resource.Index, error) {
	coords, ok := idx.entries[val.Key()]
	if !ok {
		return nil, &LookupError{Attribute: idx.attr, Value: val}
	}

	return coords, nil
}

// Len returns the number of distinct indexed values.
func (idx *valueIndex) Len() int {
	return len(idx.entries)
}

// ValueSingle joins on equal values when the target is unique. The first
// occurrence wins if a unique attribute repeats a value anyway.
type ValueSingle struct {
	index *valueIndex
}

// UsesSourceValue returns true.
func (f *ValueSingle) UsesSourceValue() bool {
	return true
}

// Align writes the coordinates of val in the target into tgt.
func (f *ValueSingle) Align(_ resource.Position, val resource.Value, tgt resource.Position) (resource.Position, error) {
	coords, err := f.index.lookup(val)
	if err != nil {
		return nil, err
	}

	for i, d := range f.index.dims {
		tgt[d] = coords[0][i]
	}

	return tgt, nil
}

// PartialAlign is Align: a value join depends on the whole source value.
func (f *ValueSingle) PartialAlign(src resource.Position, val resource.Value, tgt resource.Position, _ int) (resource.Position, error) {
	return f.Align(src, val, tgt)
}

// ValueMultiple joins on equal values and enumerates every occurrence.
type ValueMultiple struct {
	index *valueIndex
	list  *cursor.List
}

// UsesSourceValue returns true.
func (f *ValueMultiple) UsesSourceValue() bool {
	return true
}

// Iterate returns a cursor over every occurrence of val in the target.
func (f *ValueMultiple) Iterate(_ resource.Position, val resource.Value, tgt resource.Position) (cursor.Cursor, error) {
	coords, err := f.index.lookup(val)
	if err != nil {
		return nil, err
	}

	if f.list == nil {
		f.list = cursor.NewList(tgt, f.index.dims, coords)
	} else {
		f.list.Reset(tgt, coords)
	}

	return f.list, nil
}
