package description

// File represents the root of a YAML description file.
type File struct {
	// Version of the description schema.
	Version string `yaml:"version,omitempty"`

	// Resources are the source documents, by id.
	Resources []Resource `yaml:"resources"`

	// Attributes locate values inside the resources.
	Attributes []Attribute `yaml:"attributes"`

	// Alignments relate attributes explicitly. Attributes of the same
	// resource sharing a leading range are aligned without one.
	Alignments []Alignment `yaml:"alignments,omitempty"`

	// SemanticModel describes the records to produce.
	SemanticModel SemanticModel `yaml:"semantic_model"`
}

// Resource is a source document.
type Resource struct {
	ID string `yaml:"id"`
	// Type is the decoding format: csv, json or yaml. Inferred from the
	// path extension when empty.
	Type string `yaml:"type,omitempty"`
	// Path is resolved relative to the description file.
	Path string `yaml:"path,omitempty"`
}

// Attribute locates a set of values in one resource.
type Attribute struct {
	ID string `yaml:"id"`
	// ResourceID may be omitted when the description has one resource.
	ResourceID string `yaml:"resource_id,omitempty"`
	// Path is a path expression, e.g. "$[1:][0]" or "$.items[*].id".
	Path string `yaml:"path"`
	// Unique means a value occurs at most once in the attribute.
	Unique bool `yaml:"unique,omitempty"`
	// MissingValues are sentinels meaning "no value".
	MissingValues ScalarList `yaml:"missing_values,omitempty"`
}

// AlignmentType is the kind of an explicit alignment.
type AlignmentType string

const (
	// AlignRange relates range steps of two paths by position.
	AlignRange AlignmentType = "range"
	// AlignValue relates positions holding equal values.
	AlignValue AlignmentType = "value"
)

// IsValid returns true if the alignment type is recognized.
func (t AlignmentType) IsValid() bool {
	return t == AlignRange || t == AlignValue
}

// Alignment relates two attributes.
type Alignment struct {
	Type   AlignmentType `yaml:"type"`
	Source string        `yaml:"source"`
	Target string        `yaml:"target"`
	// AlignedDims pairs path step indexes of source and target. Range
	// alignments only.
	AlignedDims []DimPair `yaml:"aligned_dims,omitempty"`
}

// DimPair pairs a source path step with a target path step.
// YAML formats supported:
//   - Map: {source: 1, target: 1}
//   - Shorthand: "1:1"
type DimPair struct {
	Source int `yaml:"source"`
	Target int `yaml:"target"`
}

// SemanticModel is the graph of classes to produce.
type SemanticModel struct {
	// Prefixes maps CURIE prefixes to namespaces.
	Prefixes map[string]string `yaml:"prefixes,omitempty"`
	Classes  []Class           `yaml:"classes"`
}

// Class is a record type.
type Class struct {
	ID string `yaml:"id"`
	// URI is the type of the records, usually a CURIE.
	URI string `yaml:"uri,omitempty"`
	// Subject names the attribute iterated to produce records. Inferred
	// when empty.
	Subject    string     `yaml:"subject,omitempty"`
	Properties []Property `yaml:"properties"`
}

// Property is an outgoing edge of a class. Exactly one of Attribute,
// Value and Class is set.
type Property struct {
	Predicate string  `yaml:"predicate"`
	Attribute string  `yaml:"attribute,omitempty"`
	Value     *Scalar `yaml:"value,omitempty"`
	Class     string  `yaml:"class,omitempty"`
	DataType  string  `yaml:"datatype,omitempty"`
	Optional  bool    `yaml:"optional,omitempty"`
}

// targets returns how many of Attribute, Value and Class are set.
func (p *Property) targets() int {
	n := 0

	if p.Attribute != "" {
		n++
	}

	if p.Value != nil {
		n++
	}

	if p.Class != "" {
		n++
	}

	return n
}
