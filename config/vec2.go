package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Vec2 is a scalar-or-pair value. In YAML it may be written as a single number
// (applied to both axes), a [x, y] sequence or an {x, y} mapping.
type Vec2 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (v *Vec2) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s float64
		if err := node.Decode(&s); err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		v.X, v.Y = s, s
	case yaml.SequenceNode:
		var pair []float64
		if err := node.Decode(&pair); err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		if len(pair) != 2 {
			return fmt.Errorf("line %d: expected [x, y], got %d values", node.Line, len(pair))
		}
		v.X, v.Y = pair[0], pair[1]
	case yaml.MappingNode:
		type plain Vec2
		// Components missing from the mapping keep their current value.
		p := plain(*v)
		if err := node.Decode(&p); err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*v = Vec2(p)
	default:
		return fmt.Errorf("line %d: expected number, [x, y] or {x, y}", node.Line)
	}
	return nil
}

// MarshalYAML writes uniform values as a scalar and others as a pair.
func (v Vec2) MarshalYAML() (any, error) {
	if v.X == v.Y {
		return v.X, nil
	}
	return []float64{v.X, v.Y}, nil
}
