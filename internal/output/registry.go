// Package output implements the record writers of the mapping engine.
//
// Every writer embeds a Registry, which owns the per-class sets of
// written record ids and the links deferred until their target class is
// complete.
package output

import (
	"semantic-mapper/internal/engine"
)

var (
	_ engine.Writer = (*Graph)(nil)
	_ engine.Writer = (*NTriples)(nil)
)

// Link is a property between two records.
type Link struct {
	Class            int
	Subject          string
	SubjectSynthetic bool
	Predicate        int
	TargetClass      int
	Object           string
	ObjectSynthetic  bool
}

// Registry tracks written records and buffered links.
type Registry struct {
	written map[int]map[string]struct{}
	pending []Link

	class     int
	id        string
	synthetic bool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{written: make(map[int]map[string]struct{})}
}

// Begin marks a record as written and makes it the current record. It
// returns false when the record was already written.
func (r *Registry) Begin(class int, id string, synthetic bool) bool {
	ids, ok := r.written[class]
	if !ok {
		ids = make(map[string]struct{})
		r.written[class] = ids
	}

	if _, ok := ids[id]; ok {
		return false
	}

	ids[id] = struct{}{}
	r.class, r.id, r.synthetic = class, id, synthetic

	return true
}

// Written reports whether a record was written.
func (r *Registry) Written(class int, id string) bool {
	_, ok := r.written[class][id]

	return ok
}

// Count returns the number of records written for a class.
func (r *Registry) Count(class int) int {
	return len(r.written[class])
}

// Buffer defers a link of the current record.
func (r *Registry) Buffer(targetClass, predicate int, object string, objectSynthetic bool) {
	r.pending = append(r.pending, Link{
		Class:            r.class,
		Subject:          r.id,
		SubjectSynthetic: r.synthetic,
		Predicate:        predicate,
		TargetClass:      targetClass,
		Object:           object,
		ObjectSynthetic:  objectSynthetic,
	})
}

// Resolve returns the buffered links whose target record was written, in
// buffering order, and the number of links dropped. The buffer is emptied.
func (r *Registry) Resolve() ([]Link, int) {
	resolved := make([]Link, 0, len(r.pending))

	for _, l := range r.pending {
		if r.Written(l.TargetClass, l.Object) {
			resolved = append(resolved, l)
		}
	}

	dropped := len(r.pending) - len(resolved)
	r.pending = nil

	return resolved, dropped
}
