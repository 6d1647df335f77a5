package engine

import (
	"errors"
	"fmt"

	"semantic-mapper/internal/alignfunc"
	"semantic-mapper/internal/alignment"
	"semantic-mapper/internal/plan"
	"semantic-mapper/internal/reader"
	"semantic-mapper/internal/resource"
)

// fanout enumerates the target positions reached by one alignment
// function. The function kind is fixed when the class is prepared.
type fanout struct {
	single alignfunc.Single
	multi  alignfunc.Multiple
	value  bool
	buf    resource.Position
}

func newFanout(fn alignfunc.Function, buf resource.Position) (*fanout, error) {
	f := &fanout{value: fn.UsesSourceValue(), buf: buf}

	switch fn := fn.(type) {
	case alignfunc.Single:
		f.single = fn
	case alignfunc.Multiple:
		f.multi = fn
	default:
		return nil, fmt.Errorf("unsupported alignment function %T", fn)
	}

	return f, nil
}

// each calls yield for every target position of src. Nothing is yielded
// when the function joins on a source value that is not present, or when
// an intermediate value of a chain is missing.
func (f *fanout) each(
	src resource.Position,
	val resource.Value,
	present bool,
	yield func(resource.Position) error,
) error {
	if f.value && !present {
		return nil
	}

	if f.single != nil {
		tgt, err := f.single.Align(src, val, f.buf)
		if errors.Is(err, alignfunc.ErrNoValue) {
			return nil
		}
		if err != nil {
			return err
		}

		return yield(tgt)
	}

	c, err := f.multi.Iterate(src, val, f.buf)
	if errors.Is(err, alignfunc.ErrNoValue) {
		return nil
	}
	if err != nil {
		return err
	}

	for c.Advance() {
		if err := yield(c.Value()); err != nil {
			return err
		}
	}

	return c.Err()
}

// dataSlot collects the values of one data property for the current
// record.
type dataSlot struct {
	prop   *plan.DataProp
	class  string
	attr   *alignment.Attribute
	reader reader.Reader
	fan    *fanout
	values []resource.Value
}

func (s *dataSlot) collect(src resource.Position, val resource.Value, present bool) error {
	s.values = s.values[:0]

	return s.fan.each(src, val, present, func(at resource.Position) error {
		v, ok := s.reader.Value(at)
		if !ok || v.IsNull() || s.prop.Missing.Contains(v) {
			return nil
		}

		if !v.IsScalar() {
			return &UnsupportedShapeError{Class: s.class, Attribute: s.attr.Name, Position: at.Clone(), Kind: v.Kind()}
		}

		s.values = append(s.values, v)

		return nil
	})
}

type object struct {
	id        string
	synthetic bool
}

// linkSlot collects the target records of one object property for the
// current record.
type linkSlot struct {
	prop    *plan.ObjectProp
	fan     *fanout
	target  *identity
	subject *alignment.Attribute
	reader  reader.Reader
	// check consults the written records of the target class.
	check   bool
	objects []object
}

func (s *linkSlot) collect(w Writer, src resource.Position, val resource.Value, present bool) error {
	s.objects = s.objects[:0]

	return s.fan.each(src, val, present, func(at resource.Position) error {
		tval, ok := s.reader.Value(at)
		tpresent := ok && !tval.IsNull() && !s.subject.Missing.Contains(tval)

		rid, err := s.target.resolve(at, tval, tpresent)

		var shape *UnsupportedShapeError
		if errors.As(err, &shape) {
			// The target record was never written.
			return nil
		}
		if err != nil {
			return err
		}

		if !rid.ok {
			return nil
		}

		if s.check && !w.HasWrittenRecord(s.prop.TargetClass, rid.id) {
			return nil
		}

		o := object{id: rid.id, synthetic: rid.synthetic}
		for _, seen := range s.objects {
			if seen == o {
				return nil
			}
		}

		s.objects = append(s.objects, o)

		return nil
	})
}
