package description

import (
	"fmt"

	"semantic-mapper/internal/diagnostic"
	"semantic-mapper/internal/reader"
	"semantic-mapper/internal/resource"
)

// Validate checks a description for structural errors: unique ids, known
// references, parsable paths and well-formed properties. It does not look
// at the resource files.
func Validate(f *File) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if f == nil {
		res.AddError("description_is_nil", "description is nil", "", "")
		return res
	}

	v := &validator{
		file:  f,
		res:   res,
		paths: make(map[string]resource.Path, len(f.Attributes)),
	}

	v.resources()
	v.attributes()
	v.alignments()
	v.model()

	return res
}

type validator struct {
	file *File
	res  *diagnostic.Diagnostics
	// paths holds the parsed path of every valid attribute.
	paths map[string]resource.Path
}

func (v *validator) resources() {
	for _, id := range duplicateIDs(v.file.Resources, func(r Resource) string { return r.ID }) {
		v.res.AddError("duplicate_resource", fmt.Sprintf("duplicate resource %q", id), "resources", id)
	}

	for _, r := range v.file.Resources {
		scope := "resource " + r.ID

		if r.ID == "" {
			v.res.AddError("missing_id", "resource has no id", "resources", "")
		}

		if r.Type != "" && !reader.Format(r.Type).IsValid() {
			v.res.AddError("invalid_resource_type",
				fmt.Sprintf("unsupported resource type %q (want csv, json or yaml)", r.Type), scope, r.Type)
		}
	}
}

func (v *validator) attributes() {
	for _, id := range duplicateIDs(v.file.Attributes, func(a Attribute) string { return a.ID }) {
		v.res.AddError("duplicate_attribute", fmt.Sprintf("duplicate attribute %q", id), "attributes", id)
	}

	resources := resourceIDs(v.file)

	for _, a := range v.file.Attributes {
		scope := "attribute " + a.ID

		if a.ID == "" {
			v.res.AddError("missing_id", "attribute has no id", "attributes", "")
			continue
		}

		switch {
		case a.ResourceID == "":
			v.res.AddError("missing_resource", "attribute has no resource_id", scope, "")
		case !contains(resources, a.ResourceID):
			v.unknown("unknown_resource", "resource", scope, a.ResourceID, resources)
		}

		p, err := ParsePath(a.Path)
		if err != nil {
			v.res.AddError("invalid_path", err.Error(), scope, a.Path)
			continue
		}

		v.paths[a.ID] = p
	}
}

func (v *validator) alignments() {
	for i, al := range v.file.Alignments {
		scope := fmt.Sprintf("alignment %d", i)

		if !al.Type.IsValid() {
			v.res.AddError("invalid_alignment_type",
				fmt.Sprintf("unknown alignment type %q (want range or value)", al.Type), scope, string(al.Type))

			continue
		}

		src, srcOK := v.attribute(scope, al.Source)
		dst, dstOK := v.attribute(scope, al.Target)

		if al.Type == AlignValue {
			if len(al.AlignedDims) > 0 {
				v.res.AddWarning("ignored_aligned_dims", "aligned_dims are ignored by value alignments", scope, "")
			}

			continue
		}

		if len(al.AlignedDims) == 0 {
			v.res.AddError("missing_aligned_dims", "range alignment without aligned_dims", scope, "")
			continue
		}

		if !srcOK || !dstOK {
			continue
		}

		for _, d := range al.AlignedDims {
			if !isRangeStep(src, d.Source) || !isRangeStep(dst, d.Target) {
				v.res.AddError("invalid_aligned_dim",
					fmt.Sprintf("dims %d:%d must both be range steps of %s and %s", d.Source, d.Target, al.Source, al.Target),
					scope, fmt.Sprintf("%d:%d", d.Source, d.Target))
			}
		}
	}
}

func (v *validator) model() {
	sm := v.file.SemanticModel

	if len(sm.Classes) == 0 {
		v.res.AddWarning("no_classes", "semantic model has no classes", "semantic_model", "")
		return
	}

	for _, id := range duplicateIDs(sm.Classes, func(c Class) string { return c.ID }) {
		v.res.AddError("duplicate_class", fmt.Sprintf("duplicate class %q", id), "semantic_model", id)
	}

	classes := classIDs(v.file)

	for _, c := range sm.Classes {
		v.class(c, classes)
	}
}

func (v *validator) class(c Class, classes []string) {
	scope := "class " + c.ID

	if c.ID == "" {
		v.res.AddError("missing_id", "class has no id", "semantic_model", "")
		return
	}

	v.term(scope, c.URI)

	var attrs []string

	for i := range c.Properties {
		p := &c.Properties[i]
		pscope := fmt.Sprintf("%s property %s", scope, p.Predicate)

		if p.Predicate == "" {
			v.res.AddError("missing_predicate", "property has no predicate", scope, "")
		} else {
			v.term(pscope, p.Predicate)
		}

		if p.targets() != 1 {
			v.res.AddError("invalid_property",
				"property must set exactly one of attribute, value and class", pscope, "")

			continue
		}

		v.term(pscope, p.DataType)

		switch {
		case p.Attribute != "":
			if _, ok := v.attribute(pscope, p.Attribute); ok {
				attrs = append(attrs, p.Attribute)
			}
		case p.Class != "":
			if !contains(classes, p.Class) {
				v.unknown("unknown_class", "class", pscope, p.Class, classes)
			}
		}
	}

	if len(attrs) == 0 {
		v.res.AddError("class_without_attributes", "class has no attribute properties", scope, "")
	}

	if c.Subject != "" && !contains(attrs, c.Subject) {
		v.res.AddError("subject_not_in_class",
			fmt.Sprintf("subject %q is not an attribute property of the class", c.Subject), scope, c.Subject)
	}
}
