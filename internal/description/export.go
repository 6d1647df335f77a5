package description

import (
	"slices"

	"gopkg.in/yaml.v3"

	"semantic-mapper/internal/alignment"
	"semantic-mapper/internal/plan"
)

// ExportSuggestions returns a copy of f with the choices made while
// planning written out: the subject of every class and the implicit
// same-resource alignments. Users can review and lock them in the
// description so later edits do not change them.
func ExportSuggestions(f *File, c *Compiled, p *plan.Plan) *File {
	out := *f
	out.Alignments = slices.Clone(f.Alignments)
	out.SemanticModel.Classes = slices.Clone(f.SemanticModel.Classes)

	for i := range out.SemanticModel.Classes {
		class := &out.SemanticModel.Classes[i]
		if class.Subject != "" {
			continue
		}

		node, ok := c.Model.ClassByLabel(class.ID)
		if !ok {
			continue
		}

		if cp, ok := p.Class(node); ok {
			class.Subject = c.Attributes[cp.Subject.Attr].Name
		}
	}

	for _, a := range alignment.Implicit(c.Attributes, c.Alignments) {
		out.Alignments = append(out.Alignments, exportAlignment(c.Attributes, a))
	}

	return &out
}

// ExportSuggestionsYAML renders ExportSuggestions as YAML.
func ExportSuggestionsYAML(f *File, c *Compiled, p *plan.Plan) ([]byte, error) {
	return yaml.Marshal(ExportSuggestions(f, c, p))
}

func exportAlignment(attrs alignment.Attributes, a alignment.Alignment) Alignment {
	al := Alignment{
		Type:   AlignRange,
		Source: attrs[a.Source].Name,
		Target: attrs[a.Target].Name,
	}

	if a.Kind == alignment.KindValue {
		al.Type = AlignValue
	}

	for _, d := range a.Dims {
		al.AlignedDims = append(al.AlignedDims, DimPair{Source: d.Source, Target: d.Target})
	}

	return al
}
