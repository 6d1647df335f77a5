package description

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"semantic-mapper/internal/alignment"
	"semantic-mapper/internal/engine"
	"semantic-mapper/internal/output"
	"semantic-mapper/internal/plan"
	"semantic-mapper/internal/reader"
	"semantic-mapper/internal/resource"
)

const companyYAML = `
resources:
  - id: company
    type: CSV
    path: company.csv
attributes:
  - id: name
    path: "$[1:][0]"
    unique: true
  - id: phone
    path: "$[1:][1]"
    missing_values: ""
alignments:
  - type: Range
    source: name
    target: phone
    aligned_dims: ["0:0"]
semantic_model:
  prefixes:
    schema: "http://schema.org/"
  classes:
    - id: company
      uri: schema:Organization
      properties:
        - {predicate: drepr:uri, attribute: name}
        - {predicate: schema:telephone, attribute: phone, optional: true}
        - {predicate: schema:addressCountry, value: US}
`

func TestParse(t *testing.T) {
	f, err := Parse([]byte(companyYAML))
	require.NoError(t, err)

	assert.Equal(t, "1", f.Version)
	assert.Equal(t, "csv", f.Resources[0].Type)

	// The only resource is the default one.
	require.Len(t, f.Attributes, 2)
	assert.Equal(t, "company", f.Attributes[1].ResourceID)
	assert.Equal(t, []resource.Value{resource.String("")}, f.Attributes[1].MissingValues.Values())

	require.Len(t, f.Alignments, 1)
	assert.Equal(t, AlignRange, f.Alignments[0].Type)
	assert.Equal(t, []DimPair{{Source: 0, Target: 0}}, f.Alignments[0].AlignedDims)

	props := f.SemanticModel.Classes[0].Properties
	require.Len(t, props, 3)
	assert.True(t, props[1].Optional)
	require.NotNil(t, props[2].Value)
	assert.Equal(t, "US", props[2].Value.String())
}

func TestParseDimPairMap(t *testing.T) {
	f, err := Parse([]byte(`
alignments:
  - {type: range, source: a, target: b, aligned_dims: [{source: 0, target: 2}]}
`))
	require.NoError(t, err)
	assert.Equal(t, []DimPair{{Source: 0, Target: 2}}, f.Alignments[0].AlignedDims)

	_, err = Parse([]byte(`alignments: [{type: range, source: a, target: b, aligned_dims: ["1-1"]}]`))
	assert.ErrorContains(t, err, "dim pair")
}

func TestMarshalRoundTrip(t *testing.T) {
	f, err := Parse([]byte(companyYAML))
	require.NoError(t, err)

	data, err := Marshal(f)
	require.NoError(t, err)

	again, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, f, again)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "nope.yaml")
}

func TestParsePathRoundTrip(t *testing.T) {
	for _, expr := range []string{
		"$",
		"$[1:][0]",
		`$.data[:]["first name"]`,
		"$[:10:2]",
		"$[1:-1]",
		"$.items[2:].tags[0]",
	} {
		expr := expr
		t.Run(expr, func(t *testing.T) {
			p, err := ParsePath(expr)
			require.NoError(t, err)
			assert.Equal(t, expr, p.String())
		})
	}
}

func TestParsePathForms(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"$.items[*].id", "$.items[:].id"},
		{"$.items.*", "$.items[:]"},
		{`$['a b']`, `$["a b"]`},
		{`$["id"]`, "$.id"},
		{"$[ 3 ]", "$[3]"},
		{"$[0:5:1]", "$[:5]"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.expr, func(t *testing.T) {
			p, err := ParsePath(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.String())
		})
	}
}

func TestParsePathSteps(t *testing.T) {
	p, err := ParsePath("$[1:][0]")
	require.NoError(t, err)

	assert.Equal(t, resource.NewPath(
		resource.RangeStep(1, 1),
		resource.IndexStep(resource.IntIndex(0)),
	), p)
	assert.Equal(t, []int{0}, p.NaryDims())
}

func TestParsePathErrors(t *testing.T) {
	for _, expr := range []string{
		"",
		"items",
		"$x",
		"$.",
		"$[",
		"$[a]",
		"$[-1]",
		"$[-1:]",
		"$[1:2:0]",
		"$[1:2:3:4]",
		`$["a"`,
		`$["a"x]`,
	} {
		expr := expr
		t.Run(expr, func(t *testing.T) {
			_, err := ParsePath(expr)
			assert.Error(t, err)
		})
	}
}

func TestValidateCompany(t *testing.T) {
	f, err := Parse([]byte(companyYAML))
	require.NoError(t, err)

	diags := Validate(f)
	assert.True(t, diags.IsValid(), diags.Error())
	assert.Empty(t, diags.Warnings)
}

func TestValidateReportsErrors(t *testing.T) {
	f, err := Parse([]byte(`
resources:
  - {id: a, type: xml}
  - {id: b, type: json}
  - {id: b, type: json}
attributes:
  - {id: name, resource_id: a, path: "$[1:][0]"}
  - {id: phone, resource_id: c, path: "$[1:][1]"}
  - {id: bad, resource_id: a, path: "[0]"}
  - {id: name, resource_id: a, path: "$[0]"}
alignments:
  - {type: join, source: name, target: phone}
  - {type: range, source: name, target: phone}
  - {type: range, source: name, target: phone, aligned_dims: ["1:1"]}
  - {type: value, source: nam, target: phone, aligned_dims: ["0:0"]}
semantic_model:
  classes:
    - id: person
      uri: foaf:Person
      subject: phone
      properties:
        - {predicate: ex:name, attribute: name}
        - {predicate: ex:knows, class: persn}
        - {predicate: ex:both, attribute: name, class: person}
    - id: empty
      properties:
        - {predicate: rdfs:label, value: x}
`))
	require.NoError(t, err)

	diags := Validate(f)
	require.False(t, diags.IsValid())

	codes := diags.Codes()
	for _, code := range []string{
		"duplicate_resource",
		"duplicate_attribute",
		"invalid_resource_type",
		"unknown_resource",
		"invalid_path",
		"invalid_alignment_type",
		"missing_aligned_dims",
		"invalid_aligned_dim",
		"unknown_attribute",
		"unknown_prefix",
		"unknown_class",
		"invalid_property",
		"subject_not_in_class",
		"class_without_attributes",
	} {
		assert.Contains(t, codes, code)
	}

	require.Len(t, diags.Warnings, 1)
	assert.Equal(t, "ignored_aligned_dims", diags.Warnings[0].Code)

	for _, d := range diags.Errors {
		switch d.Code {
		case "unknown_attribute":
			assert.Equal(t, []string{"name"}, d.Suggestions)
		case "unknown_class":
			assert.Equal(t, []string{"person"}, d.Suggestions)
		}
	}

	assert.ErrorContains(t, diags.Error(), "did you mean person?")
}

func TestValidateNoClasses(t *testing.T) {
	diags := Validate(&File{})
	assert.True(t, diags.IsValid())
	require.Len(t, diags.Warnings, 1)
	assert.Equal(t, "no_classes", diags.Warnings[0].Code)

	assert.Equal(t, []string{"description_is_nil"}, Validate(nil).Codes())
}

func TestBuild(t *testing.T) {
	f, err := Parse([]byte(companyYAML))
	require.NoError(t, err)

	c, err := Build(f)
	require.NoError(t, err)

	require.Len(t, c.Attributes, 2)
	assert.Equal(t, "$[1:][0]", c.Attributes[0].Path.String())
	assert.True(t, c.Attributes[0].Unique)
	assert.True(t, c.Attributes[1].Missing.Contains(resource.String("")))

	assert.Equal(t, []alignment.Alignment{
		alignment.Range(0, 1, alignment.DimPair{Source: 0, Target: 0}),
	}, c.Alignments)

	assert.Equal(t, []reader.Source{{ID: "company", Format: reader.FormatCSV, Path: "company.csv"}}, c.Sources)

	class, ok := c.Model.ClassByLabel("company")
	require.True(t, ok)
	assert.Equal(t, "http://schema.org/Organization", c.Model.Expand(c.Model.Nodes[class].Type))
	assert.Equal(t, "http://www.w3.org/2001/XMLSchema#int", c.Model.Expand("xsd:int"))

	id, ok := c.Model.IdentifierEdge(class)
	require.True(t, ok)
	assert.Equal(t, 0, c.Model.Nodes[id.Target].Attr)
	assert.Len(t, c.Model.OutgoingEdges(class), 3)
}

func TestBuildRejectsInvalid(t *testing.T) {
	_, err := Build(&File{SemanticModel: SemanticModel{Classes: []Class{{ID: "x"}}}})
	assert.ErrorContains(t, err, "class_without_attributes")
}

func TestBuildMapsCompany(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "company.csv"),
		[]byte("name,phone\nAcme,555\nInitech,\n"), 0o600))

	f, err := Parse([]byte(companyYAML))
	require.NoError(t, err)

	c, err := Build(f)
	require.NoError(t, err)

	readers, err := reader.LoadAll(context.Background(), dir, c.Sources)
	require.NoError(t, err)

	p, err := plan.Build(c.Attributes, c.Alignments, c.Model, plan.DefaultConfig(), nil)
	require.NoError(t, err)

	var sb strings.Builder

	w := output.NewNTriples(&sb, c.Model)
	stats, err := engine.Run(context.Background(), p, readers, w, engine.Options{})
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Total().Emitted)
	assert.Contains(t, sb.String(), `<Acme> <http://schema.org/telephone> "555" .`)
	assert.NotContains(t, sb.String(), `<Initech> <http://schema.org/telephone>`)
	assert.Contains(t, sb.String(), `<Initech> <http://schema.org/addressCountry> "US" .`)
}

func TestExportSuggestions(t *testing.T) {
	f, err := Parse([]byte(`
resources: [{id: people, type: json}]
attributes:
  - {id: name, path: "$[*].name"}
  - {id: email, path: "$[*].email", unique: true}
  - {id: age, path: "$[*].age"}
alignments:
  - {type: range, source: email, target: name, aligned_dims: ["0:0"]}
semantic_model:
  classes:
    - id: person
      properties:
        - {predicate: drepr:uri, attribute: email}
        - {predicate: rdfs:label, attribute: name}
        - {predicate: rdfs:comment, attribute: age, optional: true}
`))
	require.NoError(t, err)

	c, err := Build(f)
	require.NoError(t, err)

	p, err := plan.Build(c.Attributes, c.Alignments, c.Model, plan.DefaultConfig(), nil)
	require.NoError(t, err)

	out := ExportSuggestions(f, c, p)

	assert.Equal(t, "email", out.SemanticModel.Classes[0].Subject)
	assert.Empty(t, f.SemanticModel.Classes[0].Subject, "the input is left untouched")
	assert.Equal(t, []Alignment{
		{Type: AlignRange, Source: "email", Target: "name", AlignedDims: []DimPair{{Source: 0, Target: 0}}},
		{Type: AlignRange, Source: "name", Target: "age", AlignedDims: []DimPair{{Source: 0, Target: 0}}},
		{Type: AlignRange, Source: "email", Target: "age", AlignedDims: []DimPair{{Source: 0, Target: 0}}},
	}, out.Alignments)

	data, err := ExportSuggestionsYAML(f, c, p)
	require.NoError(t, err)

	again, err := Parse(data)
	require.NoError(t, err)
	assert.Empty(t, Validate(again).Errors)
	assert.Equal(t, out.Alignments, again.Alignments)
}
