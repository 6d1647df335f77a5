// Package engine runs an execution plan over open resources and streams the
// resulting records to a Writer.
//
// Classes are processed in plan order. For every position of a class
// subject the engine resolves the record id, collects the properties
// through their alignment functions, and either writes the record or drops
// it when a mandatory property or identifier is missing.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"semantic-mapper/internal/alignfunc"
	"semantic-mapper/internal/alignment"
	"semantic-mapper/internal/plan"
	"semantic-mapper/internal/reader"
	"semantic-mapper/internal/resource"
)

// Engine maps the resources of a plan.
type Engine struct {
	plan    *plan.Plan
	attrs   alignment.Attributes
	readers reader.Set
	writer  Writer
	config  Config
	logger  *slog.Logger
	metrics *Metrics
	funcs   *alignfunc.Builder

	// shapeDrops marks classes that dropped a record on a shape error.
	shapeDrops map[int]bool
}

// New creates a new Engine.
func New(p *plan.Plan, readers reader.Set, w Writer, opts Options) (*Engine, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	metrics, err := NewMetrics(opts.Registerer)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	return &Engine{
		plan:    p,
		attrs:   p.Attributes,
		readers: readers,
		writer:  w,
		config:  opts.Config,
		logger:  logger,
		metrics: metrics,
		funcs:   alignfunc.NewBuilder(p.Attributes, readers),

		shapeDrops: make(map[int]bool),
	}, nil
}

// Run is a shortcut for New(...).Run(ctx).
func Run(ctx context.Context, p *plan.Plan, readers reader.Set, w Writer, opts Options) (*Stats, error) {
	e, err := New(p, readers, w, opts)
	if err != nil {
		return nil, err
	}

	return e.Run(ctx)
}

// Run maps every class, then finishes the writer. The context is checked
// between classes only.
func (e *Engine) Run(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	for i := range e.plan.Classes {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		cp := &e.plan.Classes[i]

		e.logger.Info("mapping class",
			"class", cp.Name,
			"subject", e.attrs[cp.Subject.Attr].Name,
			"kind", cp.Subject.Kind.String())

		cs, err := e.runClass(cp)
		stats.Classes = append(stats.Classes, cs)

		if err != nil {
			return stats, fmt.Errorf("class %s: %w", cp.Name, err)
		}

		e.logger.Info("class mapped",
			"class", cp.Name,
			"emitted", cs.Emitted,
			"dropped", cs.Dropped,
			"duplicates", cs.Duplicates,
			"shape_errors", cs.ShapeErrors,
			"buffered", cs.Buffered)
	}

	if err := e.writer.Finish(); err != nil {
		return stats, fmt.Errorf("failed to finish output: %w", err)
	}

	return stats, nil
}

// classRun holds the prepared functions and per-record scratch of a class.
type classRun struct {
	plan     *plan.ClassMapPlan
	subject  *alignment.Attribute
	reader   reader.Reader
	ident    *identity
	data     []*dataSlot
	links    []*linkSlot
	buffered []*linkSlot
	writer   Writer
}

func (e *Engine) runClass(cp *plan.ClassMapPlan) (ClassStats, error) {
	stats := ClassStats{Class: cp.Name}

	run, err := e.prepare(cp)
	if err != nil {
		return stats, err
	}

	c := run.reader.Iterate(run.subject.Path)
	for c.Advance() {
		outcome, buffered, err := run.record(c.Value())

		var shape *UnsupportedShapeError
		if errors.As(err, &shape) && !e.config.StrictShapes {
			e.logger.Warn("record dropped", "class", cp.Name, "error", err)
			outcome = outcomeShapeError
		} else if err != nil {
			return stats, err
		}

		switch outcome {
		case outcomeEmitted:
			stats.Emitted++
			stats.Buffered += buffered
			e.metrics.buffer(cp.Name, buffered)
		case outcomeDropped:
			stats.Dropped++
			e.logger.Debug("record dropped", "class", cp.Name, "position", c.Value().String())
		case outcomeDuplicate:
			stats.Duplicates++
		case outcomeShapeError:
			stats.ShapeErrors++
		}

		e.metrics.record(cp.Name, outcome)
	}

	if stats.ShapeErrors > 0 {
		e.shapeDrops[cp.Class] = true
	}

	return stats, c.Err()
}

func (e *Engine) prepare(cp *plan.ClassMapPlan) (*classRun, error) {
	subject := e.attrs[cp.Subject.Attr]

	r, err := e.readers.Get(subject.Resource)
	if err != nil {
		return nil, err
	}

	ident, err := e.identity(cp)
	if err != nil {
		return nil, err
	}

	run := &classRun{plan: cp, subject: subject, reader: r, ident: ident, writer: e.writer}

	for i := range cp.DataProps {
		p := &cp.DataProps[i]
		attr := e.attrs[p.Attr]

		pr, err := e.readers.Get(attr.Resource)
		if err != nil {
			return nil, err
		}

		fan, err := e.fanout(p.Align, attr)
		if err != nil {
			return nil, fmt.Errorf("property %s: %w", attr.Name, err)
		}

		run.data = append(run.data, &dataSlot{prop: p, class: cp.Name, attr: attr, reader: pr, fan: fan})
	}

	for i := range cp.ObjectProps {
		p := &cp.ObjectProps[i]

		// The plan cannot foresee records dropped on shape errors.
		check := p.IsTargetOptional || e.config.ValidateLinks || e.shapeDrops[p.TargetClass]

		s, err := e.linkSlot(p, check)
		if err != nil {
			return nil, err
		}

		run.links = append(run.links, s)
	}

	// Buffered targets are checked by the writer once they are complete.
	for i := range cp.BufferedObjectProps {
		s, err := e.linkSlot(&cp.BufferedObjectProps[i], false)
		if err != nil {
			return nil, err
		}

		run.buffered = append(run.buffered, s)
	}

	return run, nil
}

func (e *Engine) linkSlot(p *plan.ObjectProp, check bool) (*linkSlot, error) {
	tp, ok := e.plan.Class(p.TargetClass)
	if !ok {
		return nil, fmt.Errorf("link target class %d is not planned", p.TargetClass)
	}

	subject := e.attrs[tp.Subject.Attr]

	r, err := e.readers.Get(subject.Resource)
	if err != nil {
		return nil, err
	}

	target, err := e.identity(tp)
	if err != nil {
		return nil, err
	}

	fan, err := e.fanout(p.Align, subject)
	if err != nil {
		return nil, fmt.Errorf("link to %s: %w", tp.Name, err)
	}

	return &linkSlot{prop: p, fan: fan, target: target, subject: subject, reader: r, check: check}, nil
}

func (e *Engine) fanout(aligns []alignment.Alignment, target *alignment.Attribute) (*fanout, error) {
	fn, err := e.funcs.Build(aligns)
	if err != nil {
		return nil, err
	}

	return newFanout(fn, target.Path.NewPosition())
}

// record maps the subject position pos. It returns the outcome and the
// number of buffered links written.
func (r *classRun) record(pos resource.Position) (string, int, error) {
	val, ok := r.reader.Value(pos)
	present := ok && !val.IsNull() && !r.subject.Missing.Contains(val)

	rid, err := r.ident.resolve(pos, val, present)
	if err != nil {
		return "", 0, err
	}

	if !rid.ok {
		return outcomeDropped, 0, nil
	}

	if !rid.synthetic && r.writer.HasWrittenRecord(r.plan.Class, rid.id) {
		return outcomeDuplicate, 0, nil
	}

	for _, s := range r.data {
		if err := s.collect(pos, val, present); err != nil {
			return "", 0, err
		}

		if len(s.values) == 0 && !s.prop.Optional {
			return outcomeDropped, 0, nil
		}
	}

	for _, s := range r.links {
		if err := s.collect(r.writer, pos, val, present); err != nil {
			return "", 0, err
		}

		if len(s.objects) == 0 && !s.prop.Optional {
			return outcomeDropped, 0, nil
		}
	}

	for _, s := range r.buffered {
		if err := s.collect(r.writer, pos, val, present); err != nil {
			return "", 0, err
		}
	}

	if r.plan.HasBufferedProps() {
		if !r.writer.BeginPartialBufferingRecord(r.plan.Class, rid.id, rid.synthetic) {
			return outcomeDuplicate, 0, nil
		}

		defer r.writer.EndPartialBufferingRecord()
	} else {
		if !r.writer.BeginRecord(r.plan.Class, rid.id, rid.synthetic) {
			return outcomeDuplicate, 0, nil
		}

		defer r.writer.EndRecord()
	}

	for _, s := range r.data {
		for _, v := range s.values {
			r.writer.WriteDataProperty(rid.id, s.prop.Predicate, v, s.prop.DataType)
		}
	}

	for _, p := range r.plan.LiteralProps {
		r.writer.WriteDataProperty(rid.id, p.Predicate, p.Value, p.DataType)
	}

	for _, s := range r.links {
		for _, o := range s.objects {
			r.writer.WriteObjectProperty(s.prop.TargetClass, rid.id, s.prop.Predicate, o.id,
				rid.synthetic, o.synthetic, true)
		}
	}

	buffered := 0

	for _, s := range r.buffered {
		for _, o := range s.objects {
			r.writer.BufferObjectProperty(s.prop.TargetClass, s.prop.Predicate, o.id, o.synthetic)
			buffered++
		}
	}

	return outcomeEmitted, buffered, nil
}
