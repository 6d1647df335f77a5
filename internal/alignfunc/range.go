package alignfunc

import (
	"semantic-mapper/internal/alignment"
	"semantic-mapper/internal/cursor"
	"semantic-mapper/internal/resource"
)

// rangeDim is the offset transform of one aligned dimension pair.
type rangeDim struct {
	src       int
	tgt       int
	srcStart  int
	srcStride int
	tgtStart  int
	tgtStride int
}

func (d rangeDim) apply(src resource.Position, tgt resource.Position) {
	tgt[d.tgt] = resource.IntIndex((src[d.src].Int-d.srcStart)/d.srcStride*d.tgtStride + d.tgtStart)
}

func newRangeDims(src, tgt *alignment.Attribute, pairs []alignment.DimPair) []rangeDim {
	dims := make([]rangeDim, len(pairs))

	for i, p := range pairs {
		ss, ts := src.Path.Steps[p.Source], tgt.Path.Steps[p.Target]
		dims[i] = rangeDim{
			src:       p.Source,
			tgt:       p.Target,
			srcStart:  ss.Start,
			srcStride: max(ss.Stride, 1),
			tgtStart:  ts.Start,
			tgtStride: max(ts.Stride, 1),
		}
	}

	return dims
}

// RangeSingle applies positional offsets when every range step of the
// target is covered by an aligned dimension.
type RangeSingle struct {
	dims []rangeDim
}

// UsesSourceValue returns false.
func (f *RangeSingle) UsesSourceValue() bool {
	return false
}

// Align transforms every aligned dimension.
func (f *RangeSingle) Align(src resource.Position, _ resource.Value, tgt resource.Position) (resource.Position, error) {
	for _, d := range f.dims {
		d.apply(src, tgt)
	}

	return tgt, nil
}

// PartialAlign transforms the aligned dimensions whose source is at or
// after from.
func (f *RangeSingle) PartialAlign(src resource.Position, _ resource.Value, tgt resource.Position, from int) (resource.Position, error) {
	for _, d := range f.dims {
		if d.src >= from {
			d.apply(src, tgt)
		}
	}

	return tgt, nil
}

// RangeMultiple applies positional offsets and then enumerates the range
// steps of the target that no aligned dimension covers.
type RangeMultiple struct {
	dims []rangeDim
	free []int
	root resource.Value
	path resource.Path

	cur cursor.Resettable
	buf resource.Position
}

// UsesSourceValue returns false.
func (f *RangeMultiple) UsesSourceValue() bool {
	return false
}

// Iterate returns a cursor over the free target dimensions. The cursor is
// reused while callers pass the same target buffer.
func (f *RangeMultiple) Iterate(src resource.Position, _ resource.Value, tgt resource.Position) (cursor.Cursor, error) {
	for _, d := range f.dims {
		d.apply(src, tgt)
	}

	if f.cur != nil && resource.SameBuffer(f.buf, tgt) {
		f.cur.Reset()
		return f.cur, nil
	}

	f.cur, f.buf = cursor.ForPath(f.root, f.path, tgt, f.free), tgt

	return f.cur, nil
}
