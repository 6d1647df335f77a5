package description

import (
	"fmt"
	"maps"

	"semantic-mapper/internal/alignment"
	"semantic-mapper/internal/reader"
	"semantic-mapper/internal/resource"
	"semantic-mapper/internal/semantic"
)

// DefaultPrefixes are always known, and overridden by the description's
// own prefix table.
var DefaultPrefixes = map[string]string{
	"rdf":   "http://www.w3.org/1999/02/22-rdf-syntax-ns#",
	"rdfs":  "http://www.w3.org/2000/01/rdf-schema#",
	"xsd":   "http://www.w3.org/2001/XMLSchema#",
	"owl":   "http://www.w3.org/2002/07/owl#",
	"drepr": "https://purl.org/drepr/1.0/",
}

// Compiled is a validated description turned into the inputs of planning.
type Compiled struct {
	Attributes alignment.Attributes
	Alignments []alignment.Alignment
	Model      *semantic.Model
	Sources    []reader.Source
}

// Build validates f and compiles it. Validation failures are returned as
// one combined error.
func Build(f *File) (*Compiled, error) {
	if diags := Validate(f); diags.HasErrors() {
		return nil, fmt.Errorf("invalid description: %w", diags.Error())
	}

	attrs, ids := buildAttributes(f)

	model, err := buildModel(f, ids)
	if err != nil {
		return nil, err
	}

	return &Compiled{
		Attributes: attrs,
		Alignments: buildAlignments(f, ids),
		Model:      model,
		Sources:    buildSources(f),
	}, nil
}

func buildAttributes(f *File) (alignment.Attributes, map[string]int) {
	list := make([]*alignment.Attribute, len(f.Attributes))
	ids := make(map[string]int, len(f.Attributes))

	for i, a := range f.Attributes {
		// Validate already parsed every path.
		p, _ := ParsePath(a.Path)

		list[i] = &alignment.Attribute{
			Name:     a.ID,
			Resource: a.ResourceID,
			Path:     p,
			Unique:   a.Unique,
			Missing:  resource.NewMissingValues(a.MissingValues.Values()...),
		}
		ids[a.ID] = i
	}

	return alignment.NewAttributes(list...), ids
}

func buildAlignments(f *File, ids map[string]int) []alignment.Alignment {
	out := make([]alignment.Alignment, 0, len(f.Alignments))

	for _, al := range f.Alignments {
		src, tgt := ids[al.Source], ids[al.Target]

		switch al.Type {
		case AlignValue:
			out = append(out, alignment.Value(src, tgt))
		case AlignRange:
			dims := make([]alignment.DimPair, len(al.AlignedDims))
			for i, d := range al.AlignedDims {
				dims[i] = alignment.DimPair{Source: d.Source, Target: d.Target}
			}

			out = append(out, alignment.Range(src, tgt, dims...))
		}
	}

	return out
}

func buildModel(f *File, ids map[string]int) (*semantic.Model, error) {
	prefixes := maps.Clone(DefaultPrefixes)
	maps.Copy(prefixes, f.SemanticModel.Prefixes)

	m := semantic.NewModel(prefixes)

	// Classes first so links can point forward.
	nodes := make(map[string]int, len(f.SemanticModel.Classes))
	for _, c := range f.SemanticModel.Classes {
		nodes[c.ID] = m.AddClass(c.ID, c.URI)
	}

	for _, c := range f.SemanticModel.Classes {
		class := nodes[c.ID]

		for _, p := range c.Properties {
			opts := semantic.EdgeOptions{Optional: p.Optional}

			var target int

			switch {
			case p.Attribute != "":
				target = m.AddData(ids[p.Attribute], p.Attribute, p.DataType)
				opts.IsSubject = p.Attribute == c.Subject
			case p.Value != nil:
				target = m.AddLiteral(p.Value.Value, p.DataType)
			default:
				target = nodes[p.Class]
			}

			if _, err := m.AddEdge(class, target, p.Predicate, opts); err != nil {
				return nil, fmt.Errorf("class %s: %w", c.ID, err)
			}
		}
	}

	return m, nil
}

func buildSources(f *File) []reader.Source {
	out := make([]reader.Source, len(f.Resources))
	for i, r := range f.Resources {
		out[i] = reader.Source{ID: r.ID, Format: reader.Format(r.Type), Path: r.Path}
	}

	return out
}
