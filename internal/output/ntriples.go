package output

import (
	"bufio"
	"io"

	"semantic-mapper/internal/resource"
	"semantic-mapper/internal/semantic"
)

// NTriples streams records as N-Triples lines. Write errors are kept and
// returned by Finish.
type NTriples struct {
	*Registry

	terms   terms
	w       *bufio.Writer
	err     error
	subject Term
	lines   int
	dropped int
}

// NewNTriples returns a writer emitting to w.
func NewNTriples(w io.Writer, model *semantic.Model) *NTriples {
	return &NTriples{
		Registry: NewRegistry(),
		terms:    terms{model: model},
		w:        bufio.NewWriter(w),
	}
}

func (n *NTriples) emit(t Triple) {
	if n.err != nil {
		return
	}

	if _, err := n.w.WriteString(t.String() + "\n"); err != nil {
		n.err = err
		return
	}

	n.lines++
}

// BeginRecord opens a record and writes its type.
func (n *NTriples) BeginRecord(class int, id string, synthetic bool) bool {
	if !n.Begin(class, id, synthetic) {
		return false
	}

	n.subject = n.terms.node(id, synthetic)

	if typ, ok := n.terms.classType(class); ok {
		n.emit(Triple{Subject: n.subject, Predicate: Term{Kind: IRI, Value: RDFType}, Object: typ})
	}

	return true
}

// EndRecord closes the current record.
func (n *NTriples) EndRecord() {}

// BeginPartialBufferingRecord opens a record with deferred links.
func (n *NTriples) BeginPartialBufferingRecord(class int, id string, synthetic bool) bool {
	return n.BeginRecord(class, id, synthetic)
}

// EndPartialBufferingRecord closes the current record.
func (n *NTriples) EndPartialBufferingRecord() {}

// WriteDataProperty writes a literal statement of the current record.
func (n *NTriples) WriteDataProperty(_ string, predicate int, value resource.Value, dataType string) {
	n.emit(Triple{Subject: n.subject, Predicate: n.terms.predicate(predicate), Object: n.terms.literal(value, dataType)})
}

// WriteObjectProperty writes a link statement.
func (n *NTriples) WriteObjectProperty(
	_ int,
	subjectID string,
	predicate int,
	objectID string,
	subjectSynthetic, objectSynthetic, _ bool,
) {
	n.emit(Triple{
		Subject:   n.terms.node(subjectID, subjectSynthetic),
		Predicate: n.terms.predicate(predicate),
		Object:    n.terms.node(objectID, objectSynthetic),
	})
}

// BufferObjectProperty defers a link of the current record.
func (n *NTriples) BufferObjectProperty(targetClass, predicate int, objectID string, objectSynthetic bool) {
	n.Buffer(targetClass, predicate, objectID, objectSynthetic)
}

// HasWrittenRecord reports whether a record was written.
func (n *NTriples) HasWrittenRecord(class int, id string) bool {
	return n.Written(class, id)
}

// Finish writes the buffered links whose target was written and flushes
// the output.
func (n *NTriples) Finish() error {
	links, dropped := n.Resolve()
	n.dropped += dropped

	for _, l := range links {
		n.WriteObjectProperty(l.TargetClass, l.Subject, l.Predicate, l.Object, l.SubjectSynthetic, l.ObjectSynthetic, false)
	}

	if n.err != nil {
		return n.err
	}

	return n.w.Flush()
}

// Lines returns the number of statements written.
func (n *NTriples) Lines() int {
	return n.lines
}

// DroppedLinks returns the number of buffered links whose target was never
// written.
func (n *NTriples) DroppedLinks() int {
	return n.dropped
}
