package description

import (
	"fmt"
	"slices"
	"strings"

	"semantic-mapper/internal/common"
	"semantic-mapper/internal/diagnostic"
	"semantic-mapper/internal/match"
	"semantic-mapper/internal/resource"
)

const maxSuggestions = 3

// attribute resolves a reference to a valid attribute, reporting unknown
// names. ok is false when the attribute is unknown or its path is invalid.
func (v *validator) attribute(scope, name string) (resource.Path, bool) {
	if p, ok := v.paths[name]; ok {
		return p, true
	}

	known := attributeIDs(v.file)
	if !contains(known, name) {
		v.unknown("unknown_attribute", "attribute", scope, name, known)
	}

	return resource.Path{}, false
}

// unknown reports a dangling reference along with close known names.
func (v *validator) unknown(code, what, scope, ref string, known []string) {
	v.res.Add(diagnostic.Diagnostic{
		Severity:    diagnostic.SeverityError,
		Code:        code,
		Message:     fmt.Sprintf("unknown %s %q", what, ref),
		Scope:       scope,
		Ref:         ref,
		Suggestions: match.Suggest(ref, uniq(known), maxSuggestions),
	})
}

// term checks that a CURIE uses a declared prefix. Full IRIs and empty
// terms are accepted.
func (v *validator) term(scope, term string) {
	if term == "" || strings.Contains(term, "://") {
		return
	}

	prefix, _, ok := strings.Cut(term, ":")
	if !ok {
		return
	}

	if _, ok := v.file.SemanticModel.Prefixes[prefix]; ok {
		return
	}

	if _, ok := DefaultPrefixes[prefix]; ok {
		return
	}

	v.res.AddError("unknown_prefix", fmt.Sprintf("unknown prefix %q", prefix), scope, term)
}

func isRangeStep(p resource.Path, dim int) bool {
	return dim >= 0 && dim < p.Len() && p.Steps[dim].IsNary()
}

func duplicateIDs[S ~[]E, E any](s S, id func(E) string) []string {
	dups := common.Duplicates(s, id)

	return slices.DeleteFunc(dups, func(d string) bool { return d == "" })
}

func resourceIDs(f *File) []string {
	ids := make([]string, len(f.Resources))
	for i, r := range f.Resources {
		ids[i] = r.ID
	}

	return ids
}

func attributeIDs(f *File) []string {
	ids := make([]string, len(f.Attributes))
	for i, a := range f.Attributes {
		ids[i] = a.ID
	}

	return ids
}

func classIDs(f *File) []string {
	ids := make([]string, len(f.SemanticModel.Classes))
	for i, c := range f.SemanticModel.Classes {
		ids[i] = c.ID
	}

	return ids
}

func uniq(ids []string) []string {
	seen := make(map[string]bool, len(ids))

	return slices.DeleteFunc(slices.Clone(ids), func(id string) bool {
		if seen[id] {
			return true
		}

		seen[id] = true

		return false
	})
}

func contains(ids []string, id string) bool {
	return slices.Contains(ids, id)
}
