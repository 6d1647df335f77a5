package plan

import (
	"semantic-mapper/internal/alignment"
	"semantic-mapper/internal/common"
	"semantic-mapper/internal/resource"
	"semantic-mapper/internal/semantic"
)

// Plan is the final output of plan construction. It contains everything
// the engine needs to map the resources.
type Plan struct {
	// Classes holds one plan per class, in processing order.
	Classes []ClassMapPlan
	// Deferred lists the class-to-class edges buffered to break cycles.
	Deferred []int
	// Attributes is the attribute set the alignments refer to.
	Attributes alignment.Attributes
	// Model is the semantic model the plan was built from.
	Model *semantic.Model
}

// Class returns the plan of a class node.
func (p *Plan) Class(class int) (*ClassMapPlan, bool) {
	for i := range p.Classes {
		if p.Classes[i].Class == class {
			return &p.Classes[i], true
		}
	}

	return nil, false
}

// Order returns the class node ids in processing order.
func (p *Plan) Order() []int {
	order := make([]int, len(p.Classes))
	for i, c := range p.Classes {
		order[i] = c.Class
	}

	return order
}

// ClassMapPlan describes how the records of one class are produced.
type ClassMapPlan struct {
	// Class is the class node id.
	Class int
	// Name is the class label.
	Name string
	// Subject drives the record sweep and identity.
	Subject Subject
	// DataProps are the attribute-valued properties.
	DataProps []DataProp
	// LiteralProps are the constant properties.
	LiteralProps []LiteralProp
	// ObjectProps are links to classes processed earlier.
	ObjectProps []ObjectProp
	// BufferedObjectProps are links whose target class may not be written
	// yet. They are resolved after every class was processed.
	BufferedObjectProps []ObjectProp
}

// HasBufferedProps returns true if some link of the class is deferred.
func (c *ClassMapPlan) HasBufferedProps() bool {
	return len(c.BufferedObjectProps) > 0
}

// SubjectKind is the identity scheme of a class.
type SubjectKind int

const (
	// SubjectBlank - every record gets a synthetic id.
	SubjectBlank SubjectKind = iota
	// SubjectInternalID - the subject attribute value is the record id.
	SubjectInternalID
	// SubjectExternalID - the record id is read from another attribute
	// aligned single-valued from the subject.
	SubjectExternalID
)

// String returns a human-readable subject kind.
func (k SubjectKind) String() string {
	switch k {
	case SubjectBlank:
		return "blank"
	case SubjectInternalID:
		return "internal_id"
	case SubjectExternalID:
		return "external_id"
	default:
		return common.UnknownStr
	}
}

// Subject is the identity source of a class.
type Subject struct {
	Kind SubjectKind
	// Attr is the subject attribute; one record per position.
	Attr int
	// IDAttr is the identifier attribute, or -1 for blank subjects.
	IDAttr int
	// IDAlign maps subject positions to identifier positions.
	IDAlign []alignment.Alignment
	// Optional means a missing identifier falls back to a synthetic id
	// instead of dropping the record.
	Optional bool
	// Missing is the sentinel set of the identifier attribute.
	Missing resource.MissingValues
}

// DataProp is an attribute-valued property.
type DataProp struct {
	Attr      int
	Predicate int
	DataType  string
	Optional  bool
	Missing   resource.MissingValues
	// Align maps subject positions to positions of Attr.
	Align []alignment.Alignment
}

// LiteralProp is a constant property.
type LiteralProp struct {
	Predicate int
	Value     resource.Value
	DataType  string
}

// ObjectKind tells how the target of a link is identified.
type ObjectKind int

const (
	// ObjectBlank - the target always has a synthetic id.
	ObjectBlank ObjectKind = iota
	// ObjectID - the target has a real id, or a synthetic one when its
	// identifier is missing.
	ObjectID
)

// String returns a human-readable object kind.
func (k ObjectKind) String() string {
	switch k {
	case ObjectBlank:
		return "blank"
	case ObjectID:
		return "id"
	default:
		return common.UnknownStr
	}
}

// ObjectProp is a link to a record of another class.
type ObjectProp struct {
	Kind ObjectKind
	// Edge is the semantic model edge id.
	Edge        int
	Predicate   int
	TargetClass int
	// Align maps subject positions to subject positions of TargetClass.
	Align    []alignment.Alignment
	Optional bool
	// IsTargetOptional is true when the target class can drop records, so
	// a target id must be checked against the written records.
	IsTargetOptional bool
}

// Config holds configuration for plan construction.
type Config struct {
	// PreferIdentifier breaks subject ties in favor of the identifier
	// attribute.
	PreferIdentifier bool
	// ImplicitAlignments aligns same-resource attributes whose paths share
	// a range prefix when no alignment is given between them.
	ImplicitAlignments bool
}

// DefaultConfig returns the default plan configuration.
func DefaultConfig() Config {
	return Config{
		PreferIdentifier:   true,
		ImplicitAlignments: true,
	}
}
