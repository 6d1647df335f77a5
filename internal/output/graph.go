package output

import (
	"semantic-mapper/internal/resource"
	"semantic-mapper/internal/semantic"
)

// Property is a data property of a record.
type Property struct {
	Predicate int
	Value     resource.Value
	DataType  string
}

// Record is a written record.
type Record struct {
	Class     int
	ID        string
	Synthetic bool
	Data      []Property
	Links     []Link
}

type recordKey struct {
	class int
	id    string
}

// Graph keeps every record in memory, in emission order.
type Graph struct {
	*Registry

	model   *semantic.Model
	records []*Record
	index   map[recordKey]*Record
	current *Record
	dropped int
}

// NewGraph returns an empty graph for records of model.
func NewGraph(model *semantic.Model) *Graph {
	return &Graph{
		Registry: NewRegistry(),
		model:    model,
		index:    make(map[recordKey]*Record),
	}
}

// BeginRecord opens a record.
func (g *Graph) BeginRecord(class int, id string, synthetic bool) bool {
	if !g.Begin(class, id, synthetic) {
		return false
	}

	g.current = &Record{Class: class, ID: id, Synthetic: synthetic}
	g.records = append(g.records, g.current)
	g.index[recordKey{class, id}] = g.current

	return true
}

// EndRecord closes the current record.
func (g *Graph) EndRecord() {
	g.current = nil
}

// BeginPartialBufferingRecord opens a record with deferred links.
func (g *Graph) BeginPartialBufferingRecord(class int, id string, synthetic bool) bool {
	return g.BeginRecord(class, id, synthetic)
}

// EndPartialBufferingRecord closes the current record.
func (g *Graph) EndPartialBufferingRecord() {
	g.EndRecord()
}

// WriteDataProperty adds a data property to the current record.
func (g *Graph) WriteDataProperty(_ string, predicate int, value resource.Value, dataType string) {
	g.current.Data = append(g.current.Data, Property{Predicate: predicate, Value: value, DataType: dataType})
}

// WriteObjectProperty adds a link to the current record.
func (g *Graph) WriteObjectProperty(
	targetClass int,
	subjectID string,
	predicate int,
	objectID string,
	subjectSynthetic, objectSynthetic, _ bool,
) {
	g.current.Links = append(g.current.Links, Link{
		Class:            g.current.Class,
		Subject:          subjectID,
		SubjectSynthetic: subjectSynthetic,
		Predicate:        predicate,
		TargetClass:      targetClass,
		Object:           objectID,
		ObjectSynthetic:  objectSynthetic,
	})
}

// BufferObjectProperty defers a link of the current record.
func (g *Graph) BufferObjectProperty(targetClass, predicate int, objectID string, objectSynthetic bool) {
	g.Buffer(targetClass, predicate, objectID, objectSynthetic)
}

// HasWrittenRecord reports whether a record was written.
func (g *Graph) HasWrittenRecord(class int, id string) bool {
	return g.Written(class, id)
}

// Finish attaches the buffered links whose target was written to their
// subject records.
func (g *Graph) Finish() error {
	links, dropped := g.Resolve()
	g.dropped += dropped

	for _, l := range links {
		rec := g.index[recordKey{l.Class, l.Subject}]
		rec.Links = append(rec.Links, l)
	}

	return nil
}

// Records returns the written records in emission order.
func (g *Graph) Records() []*Record {
	return g.records
}

// Record returns a written record.
func (g *Graph) Record(class int, id string) (*Record, bool) {
	rec, ok := g.index[recordKey{class, id}]

	return rec, ok
}

// DroppedLinks returns the number of buffered links whose target was never
// written.
func (g *Graph) DroppedLinks() int {
	return g.dropped
}

// Triples renders every record as RDF statements.
func (g *Graph) Triples() []Triple {
	t := terms{model: g.model}

	var out []Triple

	for _, rec := range g.records {
		subject := t.node(rec.ID, rec.Synthetic)

		if typ, ok := t.classType(rec.Class); ok {
			out = append(out, Triple{Subject: subject, Predicate: Term{Kind: IRI, Value: RDFType}, Object: typ})
		}

		for _, p := range rec.Data {
			out = append(out, Triple{Subject: subject, Predicate: t.predicate(p.Predicate), Object: t.literal(p.Value, p.DataType)})
		}

		for _, l := range rec.Links {
			out = append(out, Triple{Subject: subject, Predicate: t.predicate(l.Predicate), Object: t.node(l.Object, l.ObjectSynthetic)})
		}
	}

	return out
}
