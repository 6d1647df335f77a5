// Package semantic holds the target graph description: record types
// (class nodes), the attributes and constants they carry, and the links
// between them.
package semantic

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"semantic-mapper/internal/common"
	"semantic-mapper/internal/resource"
)

// IdentifierPredicate marks the edge naming a record's true identifier.
const IdentifierPredicate = "drepr:uri"

// NodeKind distinguishes the node variants.
type NodeKind int

const (
	// ClassNode is a record type.
	ClassNode NodeKind = iota
	// DataNode is an attribute value.
	DataNode
	// LiteralNode is a constant value.
	LiteralNode
)

// String returns a human-readable kind name.
func (k NodeKind) String() string {
	switch k {
	case ClassNode:
		return "class"
	case DataNode:
		return "data"
	case LiteralNode:
		return "literal"
	default:
		return common.UnknownStr
	}
}

// Node is a vertex of the model.
type Node struct {
	ID   int
	Kind NodeKind
	// Label is the class name (class nodes) or a display label.
	Label string
	// Type is the class IRI or CURIE (class nodes).
	Type string
	// Attr is the attribute id (data nodes).
	Attr int
	// Value is the constant (literal nodes).
	Value resource.Value
	// DataType is the literal datatype IRI or CURIE, if any.
	DataType string
}

// Edge links a class node to a data, literal or class node.
type Edge struct {
	ID        int
	Source    int
	Target    int
	Predicate int
	// IsSubject hints that the target attribute identifies the class.
	IsSubject bool
	Optional  bool
}

// EdgeOptions are the optional flags of a new edge.
type EdgeOptions struct {
	IsSubject bool
	Optional  bool
}

// Model is the semantic-model graph. It is built once and read-only
// afterwards.
type Model struct {
	Nodes    []Node
	Edges    []Edge
	Prefixes map[string]string

	predicates []string
	predIDs    map[string]int
	out        [][]int
}

// NewModel returns an empty model with the given prefix table.
func NewModel(prefixes map[string]string) *Model {
	p := make(map[string]string, len(prefixes))
	maps.Copy(p, prefixes)

	return &Model{Prefixes: p, predIDs: make(map[string]int)}
}

// AddClass adds a record type and returns its node id.
func (m *Model) AddClass(label, typ string) int {
	return m.addNode(Node{Kind: ClassNode, Label: label, Type: typ})
}

// AddData adds an attribute node and returns its node id.
func (m *Model) AddData(attr int, label, dataType string) int {
	return m.addNode(Node{Kind: DataNode, Attr: attr, Label: label, DataType: dataType})
}

// AddLiteral adds a constant node and returns its node id.
func (m *Model) AddLiteral(value resource.Value, dataType string) int {
	return m.addNode(Node{Kind: LiteralNode, Value: value, Label: value.String(), DataType: dataType})
}

func (m *Model) addNode(n Node) int {
	n.ID = len(m.Nodes)
	m.Nodes = append(m.Nodes, n)
	m.out = append(m.out, nil)

	return n.ID
}

// AddEdge links source to target and returns the edge id.
func (m *Model) AddEdge(source, target int, predicate string, opts EdgeOptions) (int, error) {
	if source < 0 || source >= len(m.Nodes) || target < 0 || target >= len(m.Nodes) {
		return 0, fmt.Errorf("edge %s: node out of range", predicate)
	}

	if m.Nodes[source].Kind != ClassNode {
		return 0, fmt.Errorf("edge %s: source node %d is not a class", predicate, source)
	}

	id, ok := m.predIDs[predicate]
	if !ok {
		id = len(m.predicates)
		m.predicates = append(m.predicates, predicate)
		m.predIDs[predicate] = id
	}

	e := Edge{
		ID:        len(m.Edges),
		Source:    source,
		Target:    target,
		Predicate: id,
		IsSubject: opts.IsSubject,
		Optional:  opts.Optional,
	}
	m.Edges = append(m.Edges, e)
	m.out[source] = append(m.out[source], e.ID)

	return e.ID, nil
}

// Predicate returns the predicate label of an interned id.
func (m *Model) Predicate(id int) string {
	return m.predicates[id]
}

// Predicates returns every predicate label, indexed by id.
func (m *Model) Predicates() []string {
	return m.predicates
}

// Classes returns the class node ids in id order.
func (m *Model) Classes() []int {
	var ids []int

	for _, n := range m.Nodes {
		if n.Kind == ClassNode {
			ids = append(ids, n.ID)
		}
	}

	return ids
}

// ClassByLabel returns the class node with the given label.
func (m *Model) ClassByLabel(label string) (int, bool) {
	for _, n := range m.Nodes {
		if n.Kind == ClassNode && n.Label == label {
			return n.ID, true
		}
	}

	return -1, false
}

// OutgoingEdges returns the edges leaving node, in id order.
func (m *Model) OutgoingEdges(node int) []Edge {
	edges := make([]Edge, len(m.out[node]))
	for i, id := range m.out[node] {
		edges[i] = m.Edges[id]
	}

	return edges
}

// DataAttrs returns the attribute ids carried by a class, sorted.
func (m *Model) DataAttrs(class int) []int {
	var attrs []int

	for _, e := range m.OutgoingEdges(class) {
		if n := m.Nodes[e.Target]; n.Kind == DataNode && !slices.Contains(attrs, n.Attr) {
			attrs = append(attrs, n.Attr)
		}
	}

	slices.Sort(attrs)

	return attrs
}

// IdentifierEdge returns the data edge of a class naming its identifier.
func (m *Model) IdentifierEdge(class int) (Edge, bool) {
	for _, e := range m.OutgoingEdges(class) {
		if m.predicates[e.Predicate] == IdentifierPredicate && m.Nodes[e.Target].Kind == DataNode {
			return e, true
		}
	}

	return Edge{}, false
}

// SubjectHint returns the attribute flagged as subject of a class.
func (m *Model) SubjectHint(class int) (int, bool) {
	for _, e := range m.OutgoingEdges(class) {
		if n := m.Nodes[e.Target]; e.IsSubject && n.Kind == DataNode {
			return n.Attr, true
		}
	}

	return -1, false
}

// IsClassEdge reports whether an edge links two classes.
func (m *Model) IsClassEdge(e Edge) bool {
	return m.Nodes[e.Target].Kind == ClassNode
}

// Expand turns a CURIE with a known prefix into a full IRI. Anything else
// is returned unchanged.
func (m *Model) Expand(term string) string {
	prefix, local, ok := strings.Cut(term, ":")
	if !ok || strings.HasPrefix(local, "//") {
		return term
	}

	if base, ok := m.Prefixes[prefix]; ok {
		return base + local
	}

	return term
}
