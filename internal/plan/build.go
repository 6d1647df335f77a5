package plan

import (
	"fmt"
	"log/slog"
	"slices"

	"semantic-mapper/internal/alignment"
	"semantic-mapper/internal/semantic"
)

// ConfigError reports a description that cannot be planned. It is
// returned before any output is produced.
type ConfigError struct {
	Class  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("class %s: %s", e.Class, e.Reason)
}

// Builder performs plan construction.
type Builder struct {
	attrs  alignment.Attributes
	model  *semantic.Model
	config Config
	logger *slog.Logger

	inf      *alignment.Inference
	subjects map[int]Subject
}

// NewBuilder creates a new Builder. A nil logger uses slog.Default().
func NewBuilder(attrs alignment.Attributes, model *semantic.Model, config Config, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}

	return &Builder{
		attrs:    attrs,
		model:    model,
		config:   config,
		logger:   logger,
		subjects: make(map[int]Subject),
	}
}

// Build runs alignment inference over aligns and produces the plan.
func (b *Builder) Build(aligns []alignment.Alignment) (*Plan, error) {
	seed := aligns
	if b.config.ImplicitAlignments {
		seed = append(slices.Clone(aligns), alignment.Implicit(b.attrs, aligns)...)
	}

	b.inf = alignment.NewInference(b.attrs, seed)
	inferred := b.inf.Infer()

	b.logger.Debug("alignments inferred",
		"attributes", len(b.attrs),
		"seeded", len(seed),
		"inferred", inferred)

	order, deferred := b.model.OrderClasses()

	for _, c := range order {
		s, err := b.subject(c)
		if err != nil {
			return nil, err
		}

		b.subjects[c] = s
	}

	plans := make([]ClassMapPlan, 0, len(order))

	for _, c := range order {
		cp, err := b.classPlan(c, deferred)
		if err != nil {
			return nil, err
		}

		b.logger.Debug("class planned",
			"class", cp.Name,
			"subject", b.attrs[cp.Subject.Attr].Name,
			"kind", cp.Subject.Kind.String(),
			"data", len(cp.DataProps),
			"links", len(cp.ObjectProps),
			"buffered", len(cp.BufferedObjectProps))

		plans = append(plans, cp)
	}

	markOptionalTargets(plans)

	return &Plan{
		Classes:    plans,
		Deferred:   deferred,
		Attributes: b.attrs,
		Model:      b.model,
	}, nil
}

// Inference returns the relation graph of the last Build.
func (b *Builder) Inference() *alignment.Inference {
	return b.inf
}

// Build is a shortcut for NewBuilder(...).Build(aligns).
func Build(
	attrs alignment.Attributes,
	aligns []alignment.Alignment,
	model *semantic.Model,
	config Config,
	logger *slog.Logger,
) (*Plan, error) {
	return NewBuilder(attrs, model, config, logger).Build(aligns)
}

func (b *Builder) subject(class int) (Subject, error) {
	name := b.model.Nodes[class].Label

	idEdge, hasID := b.model.IdentifierEdge(class)

	idAttr := -1
	if hasID {
		idAttr = b.model.Nodes[idEdge.Target].Attr
	}

	subj, ok := b.model.SubjectHint(class)
	if !ok {
		attrs := b.model.DataAttrs(class)
		if len(attrs) == 0 {
			return Subject{}, &ConfigError{Class: name, Reason: "no data attribute to iterate over"}
		}

		preferred := -1
		if b.config.PreferIdentifier {
			preferred = idAttr
		}

		subj, ok = b.inf.InferSubject(attrs, preferred)
		if !ok {
			return Subject{}, &ConfigError{
				Class:  name,
				Reason: "no attribute can serve as subject, mark one with is_subject",
			}
		}
	}

	s := Subject{Kind: SubjectBlank, Attr: subj, IDAttr: -1}
	if !hasID {
		return s, nil
	}

	s.IDAttr = idAttr
	s.Optional = idEdge.Optional
	s.Missing = b.attrs[idAttr].Missing

	if idAttr == subj {
		s.Kind = SubjectInternalID
		return s, nil
	}

	aligns, ok := b.inf.Get(subj, idAttr)
	if !ok || !b.inf.Estimate(aligns).IsSingle() {
		return Subject{}, &ConfigError{
			Class: name,
			Reason: fmt.Sprintf("identifier %s is not single-valued from subject %s",
				b.attrs[idAttr].Name, b.attrs[subj].Name),
		}
	}

	s.Kind = SubjectExternalID
	s.IDAlign = aligns

	return s, nil
}

func (b *Builder) classPlan(class int, deferred []int) (ClassMapPlan, error) {
	node := b.model.Nodes[class]
	subj := b.subjects[class]

	cp := ClassMapPlan{Class: class, Name: node.Label, Subject: subj}

	idEdge, hasID := b.model.IdentifierEdge(class)

	for _, e := range b.model.OutgoingEdges(class) {
		target := b.model.Nodes[e.Target]

		switch target.Kind {
		case semantic.DataNode:
			if hasID && e.ID == idEdge.ID {
				continue
			}

			aligns, err := b.align(node.Label, subj.Attr, target.Attr)
			if err != nil {
				return ClassMapPlan{}, err
			}

			cp.DataProps = append(cp.DataProps, DataProp{
				Attr:      target.Attr,
				Predicate: e.Predicate,
				DataType:  target.DataType,
				Optional:  e.Optional,
				Missing:   b.attrs[target.Attr].Missing,
				Align:     aligns,
			})
		case semantic.LiteralNode:
			cp.LiteralProps = append(cp.LiteralProps, LiteralProp{
				Predicate: e.Predicate,
				Value:     target.Value,
				DataType:  target.DataType,
			})
		case semantic.ClassNode:
			ts := b.subjects[e.Target]

			aligns, err := b.align(node.Label, subj.Attr, ts.Attr)
			if err != nil {
				return ClassMapPlan{}, err
			}

			kind := ObjectBlank
			if ts.Kind != SubjectBlank {
				kind = ObjectID
			}

			op := ObjectProp{
				Kind:        kind,
				Edge:        e.ID,
				Predicate:   e.Predicate,
				TargetClass: e.Target,
				Align:       aligns,
				Optional:    e.Optional,
			}

			if slices.Contains(deferred, e.ID) {
				cp.BufferedObjectProps = append(cp.BufferedObjectProps, op)
			} else {
				cp.ObjectProps = append(cp.ObjectProps, op)
			}
		}
	}

	return cp, nil
}

func (b *Builder) align(class string, from, to int) ([]alignment.Alignment, error) {
	aligns, ok := b.inf.Get(from, to)
	if !ok {
		return nil, &ConfigError{
			Class:  class,
			Reason: fmt.Sprintf("attribute %s is not aligned with subject %s", b.attrs[to].Name, b.attrs[from].Name),
		}
	}

	return aligns, nil
}

// markOptionalTargets flags links whose target class can drop records.
// Plans are in processing order, so the targets of regular links are
// decided before their sources; buffered links are flagged last.
func markOptionalTargets(plans []ClassMapPlan) {
	mayDrop := make(map[int]bool, len(plans))

	for i := range plans {
		cp := &plans[i]

		for j := range cp.ObjectProps {
			cp.ObjectProps[j].IsTargetOptional = mayDrop[cp.ObjectProps[j].TargetClass]
		}

		mayDrop[cp.Class] = MayDropRecords(cp)
	}

	for i := range plans {
		for j := range plans[i].BufferedObjectProps {
			op := &plans[i].BufferedObjectProps[j]
			op.IsTargetOptional = mayDrop[op.TargetClass]
		}
	}
}

// MayDropRecords reports whether some subject position of the class can
// end up without a record: a mandatory identifier, data property or
// regular link may be missing. Buffered links never drop records.
func MayDropRecords(cp *ClassMapPlan) bool {
	if cp.Subject.IDAttr >= 0 && !cp.Subject.Optional {
		return true
	}

	for _, p := range cp.DataProps {
		if !p.Optional {
			return true
		}
	}

	for _, p := range cp.ObjectProps {
		if !p.Optional {
			return true
		}
	}

	return false
}
