package description

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"semantic-mapper/internal/common"
	"semantic-mapper/internal/resource"
)

// --- Scalar YAML methods ---

// Scalar is a constant value of the description.
type Scalar struct {
	resource.Value
}

// UnmarshalYAML implements custom YAML unmarshaling for Scalar.
// Accepts any scalar: string, number, bool or null.
func (s *Scalar) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a scalar value", node.Line)
	}

	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}

	v, err := resource.FromAny(raw)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}

	s.Value = v

	return nil
}

// MarshalYAML implements custom YAML marshaling for Scalar.
func (s Scalar) MarshalYAML() (any, error) {
	return s.ToAny(), nil
}

// --- ScalarList YAML methods ---

// ScalarList is a list of constant values.
type ScalarList []Scalar

// UnmarshalYAML implements custom YAML unmarshaling for ScalarList.
// Accepts either a single scalar or an array of scalars.
func (l *ScalarList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s Scalar
		if err := s.UnmarshalYAML(node); err != nil {
			return err
		}

		*l = ScalarList{s}

		return nil

	case yaml.SequenceNode:
		items := make(ScalarList, len(node.Content))

		for i, item := range node.Content {
			if err := items[i].UnmarshalYAML(item); err != nil {
				return err
			}
		}

		*l = items

		return nil

	default:
		return fmt.Errorf("line %d: expected scalar or array, got %v", node.Line, node.Kind)
	}
}

// MarshalYAML implements custom YAML marshaling for ScalarList.
// Outputs a single scalar if length is 1, otherwise an array.
func (l ScalarList) MarshalYAML() (any, error) {
	if common.IsSingle(l) {
		return l[0].ToAny(), nil
	}

	out := make([]any, len(l))
	for i, s := range l {
		out[i] = s.ToAny()
	}

	return out, nil
}

// Values returns the underlying values.
func (l ScalarList) Values() []resource.Value {
	out := make([]resource.Value, len(l))
	for i, s := range l {
		out[i] = s.Value
	}

	return out
}

// --- DimPair YAML methods ---

// UnmarshalYAML implements custom YAML unmarshaling for DimPair.
// Accepts a {source, target} map or a "source:target" string.
func (d *DimPair) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		src, tgt, ok := strings.Cut(node.Value, ":")
		if !ok {
			return fmt.Errorf("line %d: invalid dim pair %q (expected \"source:target\")", node.Line, node.Value)
		}

		s, err := strconv.Atoi(strings.TrimSpace(src))
		if err != nil {
			return fmt.Errorf("line %d: invalid source dim %q", node.Line, src)
		}

		t, err := strconv.Atoi(strings.TrimSpace(tgt))
		if err != nil {
			return fmt.Errorf("line %d: invalid target dim %q", node.Line, tgt)
		}

		*d = DimPair{Source: s, Target: t}

		return nil

	case yaml.MappingNode:
		// Plain struct decoding; the alias avoids recursing into this method.
		type plain DimPair

		var p plain
		if err := node.Decode(&p); err != nil {
			return err
		}

		*d = DimPair(p)

		return nil

	default:
		return fmt.Errorf("line %d: expected map or \"source:target\", got %v", node.Line, node.Kind)
	}
}
