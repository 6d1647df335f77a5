package engine

import (
	"fmt"

	"semantic-mapper/internal/resource"
)

// UnsupportedShapeError is returned when an attribute holds an array or an
// object where a single scalar value is expected.
type UnsupportedShapeError struct {
	Class     string
	Attribute string
	Position  resource.Position
	Kind      resource.ValueKind
}

func (e *UnsupportedShapeError) Error() string {
	return fmt.Sprintf("class %s: attribute %s at %s holds %s, expected a scalar",
		e.Class, e.Attribute, e.Position, e.Kind)
}
