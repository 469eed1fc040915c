package grid

import "fmt"

// Cell enumerates what a grid cell currently holds.
type Cell uint8

const (
	CellEmpty    Cell = iota // Vacant floor agents can move into
	CellSafeZone             // Part of the designated safe area near the desk
	CellCandy                // A candy children can collect
	CellChild                // Occupied by a child agent
	CellTeacher              // Occupied by a teacher agent
)

// CellName returns a short label for a cell type.
func CellName(c Cell) string {
	switch c {
	case CellEmpty:
		return "empty"
	case CellSafeZone:
		return "safe_zone"
	case CellCandy:
		return "candy"
	case CellChild:
		return "child"
	case CellTeacher:
		return "teacher"
	}
	return "unknown"
}

// Grid is the classroom floor: a dense cell array plus the static safe-zone
// set. The safe zone is a rectangle anchored at the top-left corner, fixed
// for the lifetime of the grid.
type Grid struct {
	Width  int
	Height int

	cells    [][]Cell
	safeZone []Position
	safeSet  map[Position]bool
}

// NewGrid creates a grid with a safeW×safeH safe zone in the top-left
// corner. Degenerate geometry is rejected here, not at tick time.
func NewGrid(width, height, safeW, safeH int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("grid dimensions must be positive, got %dx%d", width, height)
	}
	if safeW <= 0 || safeH <= 0 {
		return nil, fmt.Errorf("safe zone dimensions must be positive, got %dx%d", safeW, safeH)
	}
	if safeW > width || safeH > height {
		return nil, fmt.Errorf("safe zone %dx%d exceeds grid %dx%d", safeW, safeH, width, height)
	}

	cells := make([][]Cell, height)
	for y := range cells {
		cells[y] = make([]Cell, width)
	}

	g := &Grid{
		Width:   width,
		Height:  height,
		cells:   cells,
		safeSet: make(map[Position]bool, safeW*safeH),
	}

	for y := 0; y < safeH; y++ {
		for x := 0; x < safeW; x++ {
			p := Position{X: x, Y: y}
			g.cells[y][x] = CellSafeZone
			g.safeZone = append(g.safeZone, p)
			g.safeSet[p] = true
		}
	}

	return g, nil
}

// InBounds reports whether p lies on the grid.
func (g *Grid) InBounds(p Position) bool {
	return p.X >= 0 && p.X < g.Width && p.Y >= 0 && p.Y < g.Height
}

// At returns the cell content at p. Out-of-bounds reads are a programming
// defect and panic.
func (g *Grid) At(p Position) Cell {
	if !g.InBounds(p) {
		panic(fmt.Sprintf("grid read out of bounds: (%d,%d)", p.X, p.Y))
	}
	return g.cells[p.Y][p.X]
}

// Set writes the cell content at p.
func (g *Grid) Set(p Position, c Cell) {
	if !g.InBounds(p) {
		panic(fmt.Sprintf("grid write out of bounds: (%d,%d)", p.X, p.Y))
	}
	g.cells[p.Y][p.X] = c
}

// Clear reverts a vacated cell to its base content: CellSafeZone for cells
// inside the safe zone, CellEmpty everywhere else. A safe-zone cell never
// reports CellEmpty after its occupant leaves.
func (g *Grid) Clear(p Position) {
	if g.safeSet[p] {
		g.Set(p, CellSafeZone)
		return
	}
	g.Set(p, CellEmpty)
}

// IsSafeZone reports whether p belongs to the safe-zone set, regardless of
// what currently occupies the cell.
func (g *Grid) IsSafeZone(p Position) bool {
	return g.safeSet[p]
}

// SafeZone returns the safe-zone positions. Callers must not mutate the
// returned slice.
func (g *Grid) SafeZone() []Position {
	return g.safeZone
}

// CandyPositions returns every cell currently holding candy, in row-major
// enumeration order.
func (g *Grid) CandyPositions() []Position {
	var out []Position
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if g.cells[y][x] == CellCandy {
				out = append(out, Position{X: x, Y: y})
			}
		}
	}
	return out
}

// CandyCount returns the number of candies on the grid.
func (g *Grid) CandyCount() int {
	n := 0
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if g.cells[y][x] == CellCandy {
				n++
			}
		}
	}
	return n
}

// EmptyPositions returns every cell currently reporting CellEmpty.
// Safe-zone cells are never empty, so they are never candy spawn targets.
func (g *Grid) EmptyPositions() []Position {
	var out []Position
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if g.cells[y][x] == CellEmpty {
				out = append(out, Position{X: x, Y: y})
			}
		}
	}
	return out
}
