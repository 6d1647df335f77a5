package engine

import (
	"errors"

	"semantic-mapper/internal/alignfunc"
	"semantic-mapper/internal/plan"
	"semantic-mapper/internal/reader"
	"semantic-mapper/internal/resource"
)

// recordID is the resolved identity of a subject position. A record that
// must be dropped has ok set to false.
type recordID struct {
	id        string
	synthetic bool
	ok        bool
}

// identity resolves the record id of subject positions of one class.
type identity struct {
	class    string
	kind     plan.SubjectKind
	pid      *resource.PseudoID
	optional bool
	missing  resource.MissingValues
	idName   string

	// External identifiers only.
	idFn     alignfunc.Single
	idReader reader.Reader
	idBuf    resource.Position
}

func (e *Engine) identity(cp *plan.ClassMapPlan) (*identity, error) {
	subject := e.attrs[cp.Subject.Attr]

	ident := &identity{
		class:    cp.Name,
		kind:     cp.Subject.Kind,
		pid:      resource.NewPseudoID(cp.Name, subject.Path),
		optional: cp.Subject.Optional,
		missing:  cp.Subject.Missing,
	}

	if cp.Subject.IDAttr >= 0 {
		ident.idName = e.attrs[cp.Subject.IDAttr].Name
	}

	if cp.Subject.Kind != plan.SubjectExternalID {
		return ident, nil
	}

	attr := e.attrs[cp.Subject.IDAttr]

	fn, err := e.funcs.BuildSingle(cp.Subject.IDAlign)
	if err != nil {
		return nil, err
	}

	r, err := e.readers.Get(attr.Resource)
	if err != nil {
		return nil, err
	}

	ident.idFn = fn
	ident.idReader = r
	ident.idBuf = attr.Path.NewPosition()

	return ident, nil
}

// resolve returns the id of the record at pos, where the subject holds val.
// present is false when val is absent, null or a missing sentinel.
func (r *identity) resolve(pos resource.Position, val resource.Value, present bool) (recordID, error) {
	if r.kind == plan.SubjectBlank {
		return recordID{id: r.pid.Of(pos), synthetic: true, ok: true}, nil
	}

	v, at, found, err := r.identifier(pos, val, present)
	if err != nil {
		return recordID{}, err
	}

	if !found {
		if r.optional {
			return recordID{id: r.pid.Of(pos), synthetic: true, ok: true}, nil
		}

		return recordID{}, nil
	}

	if !v.IsScalar() {
		return recordID{}, &UnsupportedShapeError{Class: r.class, Attribute: r.idName, Position: at.Clone(), Kind: v.Kind()}
	}

	return recordID{id: v.String(), ok: true}, nil
}

// identifier reads the identifier value of the record at pos.
func (r *identity) identifier(
	pos resource.Position,
	val resource.Value,
	present bool,
) (resource.Value, resource.Position, bool, error) {
	if r.kind == plan.SubjectInternalID {
		return val, pos, present, nil
	}

	if r.idFn.UsesSourceValue() && !present {
		return resource.Value{}, nil, false, nil
	}

	at, err := r.idFn.Align(pos, val, r.idBuf)
	if errors.Is(err, alignfunc.ErrNoValue) {
		return resource.Value{}, nil, false, nil
	}
	if err != nil {
		return resource.Value{}, nil, false, err
	}

	v, ok := r.idReader.Value(at)
	if !ok || v.IsNull() || r.missing.Contains(v) {
		return resource.Value{}, nil, false, nil
	}

	return v, at, true, nil
}
