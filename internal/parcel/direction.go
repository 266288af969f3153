package parcel

import "fmt"

// Axis selects which centroid coordinate a numbering run orders by.
type Axis string

const (
	AxisX Axis = "x"
	AxisY Axis = "y"
)

// value returns the feature's coordinate on the axis.
func (a Axis) value(f Feature) float64 {
	if a == AxisY {
		return f.Y
	}
	return f.X
}

// Direction is one of the four user-facing sweep directions.
type Direction string

const (
	LeftToRight Direction = "Left to Right"
	RightToLeft Direction = "Right to Left"
	UpToDown    Direction = "Up to Down"
	DownToUp    Direction = "Down to Up"
)

// Directions lists the accepted direction literals in display order.
var Directions = []Direction{LeftToRight, RightToLeft, UpToDown, DownToUp}

// ParseDirection maps a direction literal to its axis and sort order.
// "Up to Down" sweeps from the highest y downward, so it is a descending
// sort on y; "Down to Up" is the ascending counterpart. The x directions
// follow the same pattern on the x axis.
func ParseDirection(s string) (Axis, bool, error) {
	switch Direction(s) {
	case LeftToRight:
		return AxisX, true, nil
	case RightToLeft:
		return AxisX, false, nil
	case UpToDown:
		return AxisY, false, nil
	case DownToUp:
		return AxisY, true, nil
	default:
		return "", false, fmt.Errorf("unknown direction %q: must be one of %v", s, Directions)
	}
}
