// Package agents provides the child and teacher data models and their
// per-tick decision engines. Decision functions read world state through the
// World interface and propose a destination; only the orchestrator mutates
// the grid.
package agents

import (
	"math/rand"

	"github.com/talgya/candy-chase/internal/grid"
)

// Strategy enumerates the movement heuristics a child can be assigned.
type Strategy uint8

const (
	StrategyRandomWalk      Strategy = iota // Uniform choice among valid moves
	StrategyCandySeeker                     // Greedy step toward the nearest candy
	StrategyAvoidance                       // Minimize inverse-distance danger from teachers
	StrategyDirectionalBias                 // Prefer a fixed cardinal direction
	StrategyStrategicTiming                 // Random walk gated by a per-agent interval
	StrategyWallHugger                      // Stay close to the boundary
	StrategyGroupSeeker                     // Move toward clusters of free children
	StrategyCandyHoarder                    // Move toward candy-dense areas
	StrategySafeExplorer                    // Alternate between safe zone and candy seeking
	StrategyUnpredictable                   // Rotates through the other nine
)

// NumStrategies is the number of distinct strategies.
const NumStrategies = 10

// StrategyName returns a short label for a strategy.
func StrategyName(s Strategy) string {
	switch s {
	case StrategyRandomWalk:
		return "random_walk"
	case StrategyCandySeeker:
		return "candy_seeker"
	case StrategyAvoidance:
		return "avoidance"
	case StrategyDirectionalBias:
		return "directional_bias"
	case StrategyStrategicTiming:
		return "strategic_timing"
	case StrategyWallHugger:
		return "wall_hugger"
	case StrategyGroupSeeker:
		return "group_seeker"
	case StrategyCandyHoarder:
		return "candy_hoarder"
	case StrategySafeExplorer:
		return "safe_explorer"
	case StrategyUnpredictable:
		return "unpredictable"
	}
	return "unknown"
}

// Status is the observable agent state for snapshot consumers. Internally a
// cooldown is an expiry timestamp; the only contract is CanMove.
type Status uint8

const (
	StatusFree       Status = 0
	StatusOnCooldown Status = 1
)

// Child is a pupil roaming the classroom collecting candy.
type Child struct {
	Position     grid.Position
	PrevPosition grid.Position
	Strategy     Strategy

	// CooldownUntil is the sim-time at which the child may act again.
	// Zero means never captured.
	CooldownUntil float64

	// MoveInterval gates StrategicTiming: minimum sim-time between moves.
	MoveInterval float64
	LastMove     float64

	// PreferredDir is the fixed cardinal bias for DirectionalBias.
	PreferredDir grid.Position

	// Candies counts collected items.
	Candies int

	// Unpredictable state: the sub-strategy currently in effect and when
	// to re-roll it.
	SubStrategy Strategy
	NextSwitch  float64
}

// NewChild creates a child at the given position. The per-agent move
// interval, preferred direction, and sub-strategy schedule are drawn from
// the simulation's random source.
func NewChild(pos grid.Position, strategy Strategy, rng *rand.Rand) *Child {
	return &Child{
		Position:     pos,
		PrevPosition: pos,
		Strategy:     strategy,
		MoveInterval: 0.5 + rng.Float64()*1.5,
		PreferredDir: grid.CardinalDirections[rng.Intn(len(grid.CardinalDirections))],
		SubStrategy:  StrategyRandomWalk,
		NextSwitch:   5.0 + rng.Float64()*5.0,
	}
}

// CanMove reports whether the child is eligible to act at the given time.
func (c *Child) CanMove(now float64) bool {
	return now >= c.CooldownUntil
}

// StatusAt returns the observable state at the given time.
func (c *Child) StatusAt(now float64) Status {
	if c.CanMove(now) {
		return StatusFree
	}
	return StatusOnCooldown
}

// SetCooldown makes the child ineligible to act until the given time.
func (c *Child) SetCooldown(until float64) {
	c.CooldownUntil = until
}

// Move updates the child's position, retaining the previous one for
// movement auditing.
func (c *Child) Move(to grid.Position) {
	c.PrevPosition = c.Position
	c.Position = to
}

// PatrolZone is the half-open rectangle [XMin,XMax)×[YMin,YMax) bounding a
// teacher's movement and target selection.
type PatrolZone struct {
	XMin int `json:"x_min"`
	XMax int `json:"x_max"`
	YMin int `json:"y_min"`
	YMax int `json:"y_max"`
}

// Contains reports whether p lies inside the zone.
func (z PatrolZone) Contains(p grid.Position) bool {
	return p.X >= z.XMin && p.X < z.XMax && p.Y >= z.YMin && p.Y < z.YMax
}

// Center returns the geometric center of the zone, the fallback patrol
// target when no children are in range.
func (z PatrolZone) Center() grid.Position {
	return grid.Position{X: (z.XMin + z.XMax) / 2, Y: (z.YMin + z.YMax) / 2}
}

// Teacher is a supervisor patrolling an assigned zone and capturing
// children that wander near it.
type Teacher struct {
	Position     grid.Position
	PrevPosition grid.Position
	Zone         PatrolZone

	// Priorities is the fixed ordering of child strategies to target first
	// when several candidates are in the zone.
	Priorities []Strategy
}

// DefaultPriorities targets the candy-focused strategies first: they follow
// predictable gradients and are the easiest to intercept. Avoidance comes
// last since those children actively flee.
func DefaultPriorities() []Strategy {
	return []Strategy{
		StrategyCandySeeker,
		StrategyCandyHoarder,
		StrategySafeExplorer,
		StrategyGroupSeeker,
		StrategyDirectionalBias,
		StrategyWallHugger,
		StrategyStrategicTiming,
		StrategyRandomWalk,
		StrategyUnpredictable,
		StrategyAvoidance,
	}
}

// NewTeacher creates a teacher with the default priority ordering.
func NewTeacher(pos grid.Position, zone PatrolZone) *Teacher {
	return &Teacher{
		Position:     pos,
		PrevPosition: pos,
		Zone:         zone,
		Priorities:   DefaultPriorities(),
	}
}

// Move updates the teacher's position, retaining the previous one.
func (t *Teacher) Move(to grid.Position) {
	t.PrevPosition = t.Position
	t.Position = to
}

// World is the read-only view of classroom state the decision engines
// consume. The orchestrator implements it; engines never write through it.
type World interface {
	Bounds() (width, height int)
	CellAt(p grid.Position) grid.Cell
	CandyPositions() []grid.Position
	SafeZone() []grid.Position
	IsSafeZone(p grid.Position) bool
	Children() []*Child
	Teachers() []*Teacher
}
