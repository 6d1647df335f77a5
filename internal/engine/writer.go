package engine

import (
	"semantic-mapper/internal/resource"
)

// Writer receives the records produced by the engine.
//
// Records are written one at a time: BeginRecord (or
// BeginPartialBufferingRecord for classes with deferred links), the
// properties of the record, then EndRecord. The writer owns the set of
// written ids of every class.
type Writer interface {
	// BeginRecord opens a record. It returns false when the record was
	// already written, in which case nothing is written for it.
	BeginRecord(class int, id string, synthetic bool) bool
	EndRecord()
	// BeginPartialBufferingRecord opens a record whose deferred links are
	// passed to BufferObjectProperty.
	BeginPartialBufferingRecord(class int, id string, synthetic bool) bool
	EndPartialBufferingRecord()

	WriteDataProperty(id string, predicate int, value resource.Value, dataType string)
	WriteObjectProperty(
		targetClass int,
		subjectID string,
		predicate int,
		objectID string,
		subjectSynthetic, objectSynthetic, subjectIsNew bool,
	)
	// BufferObjectProperty keeps a link of the open record until Finish,
	// when the target class is complete.
	BufferObjectProperty(targetClass int, predicate int, objectID string, objectSynthetic bool)

	HasWrittenRecord(class int, id string) bool
	// Finish resolves the buffered links and flushes the output.
	Finish() error
}
