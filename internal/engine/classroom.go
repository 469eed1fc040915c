// Package engine provides the classroom orchestrator and the tick loop.
// The classroom owns the grid and both agent collections; decision engines
// only read it. One call to Update advances the world exactly one tick.
package engine

import (
	"fmt"
	"log/slog"
	"math/rand"
	"strings"

	"github.com/talgya/candy-chase/internal/agents"
	"github.com/talgya/candy-chase/internal/grid"
)

// Params holds the timing constants for a run. Zero values fall back to the
// defaults carried over from the original project's configuration.
type Params struct {
	// SpawnInterval is the minimum sim-time between candy spawns.
	SpawnInterval float64
	// MaxCandies caps simultaneous candies on the grid.
	MaxCandies int
	// CaptureCooldown is how long a captured child stays immobilized.
	CaptureCooldown float64
}

// DefaultParams returns the standard timing constants: a candy every 3 time
// units, at most 5 on the grid, and a 5-unit capture cooldown.
func DefaultParams() Params {
	return Params{SpawnInterval: 3, MaxCandies: 5, CaptureCooldown: 5}
}

func (p Params) withDefaults() Params {
	d := DefaultParams()
	if p.SpawnInterval <= 0 {
		p.SpawnInterval = d.SpawnInterval
	}
	if p.MaxCandies <= 0 {
		p.MaxCandies = d.MaxCandies
	}
	if p.CaptureCooldown <= 0 {
		p.CaptureCooldown = d.CaptureCooldown
	}
	return p
}

// Event is a notable occurrence during a run.
type Event struct {
	Tick        uint64 `json:"tick" db:"tick"`
	Description string `json:"description" db:"description"`
	Category    string `json:"category" db:"category"` // "capture", "candy"
}

// Stats aggregates run counters for logging and the observation API.
type Stats struct {
	Tick          uint64 `json:"tick"`
	FreeChildren  int    `json:"free_children"`
	CandiesEaten  int    `json:"candies_eaten"`
	Captures      int    `json:"captures"`
	CandiesOnGrid int    `json:"candies_on_grid"`
}

// Classroom is the single source of truth for a simulation run.
type Classroom struct {
	grid     *grid.Grid
	children []*agents.Child
	teachers []*agents.Teacher

	clock  Clock
	rng    *rand.Rand
	params Params

	lastSpawn    float64
	tick         uint64
	started      bool
	candiesEaten int
	captures     int

	events []Event
}

const maxRetainedEvents = 500

// NewClassroom creates a classroom with a safeW×safeH safe zone in the
// top-left corner. Degenerate geometry is rejected here.
func NewClassroom(width, height, safeW, safeH int, params Params, clock Clock, rng *rand.Rand) (*Classroom, error) {
	g, err := grid.NewGrid(width, height, safeW, safeH)
	if err != nil {
		return nil, fmt.Errorf("create classroom: %w", err)
	}
	if clock == nil {
		return nil, fmt.Errorf("create classroom: nil clock")
	}
	if rng == nil {
		return nil, fmt.Errorf("create classroom: nil random source")
	}
	return &Classroom{
		grid:   g,
		clock:  clock,
		rng:    rng,
		params: params.withDefaults(),
	}, nil
}

// AddChild places a child before the first tick. The cell must be vacant
// floor or safe zone.
func (c *Classroom) AddChild(ch *agents.Child) error {
	if c.started {
		return fmt.Errorf("add child: population is fixed after the first tick")
	}
	if !c.grid.InBounds(ch.Position) {
		return fmt.Errorf("add child: position (%d,%d) out of bounds", ch.Position.X, ch.Position.Y)
	}
	switch c.grid.At(ch.Position) {
	case grid.CellEmpty, grid.CellSafeZone:
	default:
		return fmt.Errorf("add child: cell (%d,%d) is %s", ch.Position.X, ch.Position.Y, grid.CellName(c.grid.At(ch.Position)))
	}
	c.grid.Set(ch.Position, grid.CellChild)
	c.children = append(c.children, ch)
	return nil
}

// AddTeacher places a teacher before the first tick. The cell must be empty
// and inside the teacher's patrol zone; the zone must fit the grid.
func (c *Classroom) AddTeacher(t *agents.Teacher) error {
	if c.started {
		return fmt.Errorf("add teacher: population is fixed after the first tick")
	}
	z := t.Zone
	if z.XMin < 0 || z.YMin < 0 || z.XMax > c.grid.Width || z.YMax > c.grid.Height || z.XMin >= z.XMax || z.YMin >= z.YMax {
		return fmt.Errorf("add teacher: patrol zone [%d,%d)x[%d,%d) does not fit %dx%d grid",
			z.XMin, z.XMax, z.YMin, z.YMax, c.grid.Width, c.grid.Height)
	}
	if !c.grid.InBounds(t.Position) || !z.Contains(t.Position) {
		return fmt.Errorf("add teacher: position (%d,%d) outside grid or zone", t.Position.X, t.Position.Y)
	}
	if c.grid.At(t.Position) != grid.CellEmpty {
		return fmt.Errorf("add teacher: cell (%d,%d) is %s", t.Position.X, t.Position.Y, grid.CellName(c.grid.At(t.Position)))
	}
	c.grid.Set(t.Position, grid.CellTeacher)
	c.teachers = append(c.teachers, t)
	return nil
}

// Update advances the world one tick: candy spawn, a teacher pass, the
// child pass, then a second teacher pass. Teachers act twice per tick by
// design — the speed asymmetry that makes evasion interesting. Agents are
// processed in collection order and every mutation is applied immediately,
// so later agents in a pass see a consistent world.
func (c *Classroom) Update() {
	c.started = true
	c.tick++
	now := c.clock.Now()

	c.spawnCandy(now)
	c.teacherPass(now)
	c.childPass(now)
	c.teacherPass(now)
}

func (c *Classroom) spawnCandy(now float64) {
	if now-c.lastSpawn < c.params.SpawnInterval {
		return
	}
	if c.grid.CandyCount() >= c.params.MaxCandies {
		return
	}

	empty := c.grid.EmptyPositions()
	if len(empty) == 0 {
		return
	}

	p := empty[c.rng.Intn(len(empty))]
	c.grid.Set(p, grid.CellCandy)
	c.lastSpawn = now
}

func (c *Classroom) teacherPass(now float64) {
	for _, t := range c.teachers {
		if child := agents.FindCapture(t, c, now); child != nil {
			c.capture(t, child, now)
			continue
		}
		if dest, ok := agents.ChooseTeacherMove(t, c, now); ok {
			c.relocateTeacher(t, dest)
		}
	}
}

func (c *Classroom) childPass(now float64) {
	for _, ch := range c.children {
		dest, ok := agents.ChooseChildMove(ch, c, now, c.rng)
		if !ok {
			continue
		}

		gotCandy := c.grid.At(dest) == grid.CellCandy
		c.relocateChild(ch, dest)

		if gotCandy {
			ch.Candies++
			c.candiesEaten++
			c.record("candy", fmt.Sprintf("%s child at (%d,%d) collected a candy (%d total)",
				agents.StrategyName(ch.Strategy), dest.X, dest.Y, ch.Candies))
		}
	}
}

// capture teleports the child to the nearest unoccupied safe-zone cell and
// applies the capture cooldown. The teacher does not move this sub-step.
func (c *Classroom) capture(t *agents.Teacher, ch *agents.Child, now float64) {
	dest, ok := c.nearestFreeSafeCell(ch.Position)
	if !ok {
		// Safe zone fully occupied: hold the child in place on cooldown.
		ch.SetCooldown(now + c.params.CaptureCooldown)
		slog.Debug("capture without teleport, safe zone full",
			"child", fmt.Sprintf("(%d,%d)", ch.Position.X, ch.Position.Y))
		return
	}

	from := ch.Position
	c.assertOccupied(from, grid.CellChild)
	c.grid.Clear(from)
	c.grid.Set(dest, grid.CellChild)
	ch.Move(dest)
	ch.SetCooldown(now + c.params.CaptureCooldown)
	c.captures++

	c.record("capture", fmt.Sprintf("teacher at (%d,%d) caught %s child at (%d,%d), returned to (%d,%d)",
		t.Position.X, t.Position.Y, agents.StrategyName(ch.Strategy), from.X, from.Y, dest.X, dest.Y))
}

func (c *Classroom) nearestFreeSafeCell(from grid.Position) (grid.Position, bool) {
	var nearest grid.Position
	best := -1.0
	for _, p := range c.grid.SafeZone() {
		if c.grid.At(p) != grid.CellSafeZone {
			continue // occupied by an earlier returnee
		}
		d := from.DistanceTo(p)
		if best < 0 || d < best {
			best = d
			nearest = p
		}
	}
	return nearest, best >= 0
}

// relocateChild applies one position mutation atomically: clear the old
// cell (reverting safe-zone cells), mark the new one, shift the stored
// position. A stored position that does not match its grid cell is a
// programming defect and fails loudly.
func (c *Classroom) relocateChild(ch *agents.Child, dest grid.Position) {
	c.assertOccupied(ch.Position, grid.CellChild)
	c.grid.Clear(ch.Position)
	c.grid.Set(dest, grid.CellChild)
	ch.Move(dest)
}

func (c *Classroom) relocateTeacher(t *agents.Teacher, dest grid.Position) {
	c.assertOccupied(t.Position, grid.CellTeacher)
	c.grid.Clear(t.Position)
	c.grid.Set(dest, grid.CellTeacher)
	t.Move(dest)
}

func (c *Classroom) assertOccupied(p grid.Position, want grid.Cell) {
	if got := c.grid.At(p); got != want {
		panic(fmt.Sprintf("grid desync at (%d,%d): cell is %s, agent expects %s",
			p.X, p.Y, grid.CellName(got), grid.CellName(want)))
	}
}

func (c *Classroom) record(category, description string) {
	c.events = append(c.events, Event{Tick: c.tick, Description: description, Category: category})
	if len(c.events) > maxRetainedEvents {
		c.events = c.events[len(c.events)-maxRetainedEvents:]
	}
}

// ── Read-only snapshot surface ─────────────────────────────────────────

// Bounds returns the grid dimensions.
func (c *Classroom) Bounds() (int, int) {
	return c.grid.Width, c.grid.Height
}

// CellAt returns the content of a cell.
func (c *Classroom) CellAt(p grid.Position) grid.Cell {
	return c.grid.At(p)
}

// CandyPositions returns every cell currently holding candy.
func (c *Classroom) CandyPositions() []grid.Position {
	return c.grid.CandyPositions()
}

// CandyCount returns the number of candies on the grid.
func (c *Classroom) CandyCount() int {
	return c.grid.CandyCount()
}

// SafeZone returns the static safe-zone positions.
func (c *Classroom) SafeZone() []grid.Position {
	return c.grid.SafeZone()
}

// IsSafeZone reports whether p belongs to the safe zone.
func (c *Classroom) IsSafeZone(p grid.Position) bool {
	return c.grid.IsSafeZone(p)
}

// Children returns the live child collection. Callers must treat it as
// read-only.
func (c *Classroom) Children() []*agents.Child {
	return c.children
}

// Teachers returns the live teacher collection. Read-only for callers.
func (c *Classroom) Teachers() []*agents.Teacher {
	return c.teachers
}

// Tick returns the number of ticks processed.
func (c *Classroom) Tick() uint64 {
	return c.tick
}

// Now returns the current sim-time.
func (c *Classroom) Now() float64 {
	return c.clock.Now()
}

// Events returns the retained event tail.
func (c *Classroom) Events() []Event {
	return c.events
}

// CurrentStats computes the aggregate counters.
func (c *Classroom) CurrentStats() Stats {
	now := c.clock.Now()
	free := 0
	for _, ch := range c.children {
		if ch.CanMove(now) {
			free++
		}
	}
	return Stats{
		Tick:          c.tick,
		FreeChildren:  free,
		CandiesEaten:  c.candiesEaten,
		Captures:      c.captures,
		CandiesOnGrid: c.grid.CandyCount(),
	}
}

// Render returns an ASCII dump of the grid for debug output: '.' empty,
// 'S' safe zone, 'C' candy, 'K' child, 'T' teacher.
func (c *Classroom) Render() string {
	symbols := map[grid.Cell]byte{
		grid.CellEmpty:    '.',
		grid.CellSafeZone: 'S',
		grid.CellCandy:    'C',
		grid.CellChild:    'K',
		grid.CellTeacher:  'T',
	}

	var b strings.Builder
	for y := 0; y < c.grid.Height; y++ {
		for x := 0; x < c.grid.Width; x++ {
			if x > 0 {
				b.WriteByte(' ')
			}
			b.WriteByte(symbols[c.grid.At(grid.Position{X: x, Y: y})])
		}
		b.WriteByte('\n')
	}
	return b.String()
}
