// Package grid provides the classroom grid, cell contents, and spatial
// primitives. Coordinates are integer (x, y) with the origin at the
// top-left corner.
package grid

import "math"

// Position is a cell coordinate on the grid. Positions are value types:
// two positions with equal coordinates compare equal with ==.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// DistanceTo returns the Euclidean distance to another position.
func (p Position) DistanceTo(other Position) float64 {
	return math.Hypot(float64(p.X-other.X), float64(p.Y-other.Y))
}

// Add returns the position offset by d.
func (p Position) Add(d Position) Position {
	return Position{X: p.X + d.X, Y: p.Y + d.Y}
}

// Adjacent8 reports whether other is within one cell in any direction,
// diagonals included. A position is not adjacent to itself.
func (p Position) Adjacent8(other Position) bool {
	dx := p.X - other.X
	dy := p.Y - other.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx <= 1 && dy <= 1 && (dx != 0 || dy != 0)
}

// ChebyshevTo returns the Chebyshev distance to another position.
func (p Position) ChebyshevTo(other Position) int {
	dx := p.X - other.X
	dy := p.Y - other.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	if dy > dx {
		return dy
	}
	return dx
}

// CardinalDirections defines the four unit step vectors. Agent movement is
// 4-connected; capture adjacency is 8-connected (see Adjacent8).
var CardinalDirections = [4]Position{
	{X: 0, Y: 1},
	{X: 1, Y: 0},
	{X: 0, Y: -1},
	{X: -1, Y: 0},
}
