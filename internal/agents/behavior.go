// Child decision engine — maps (child, world snapshot) to a proposed
// destination cell. Each strategy is a single-step greedy heuristic; there
// is no search or pathfinding. Strategies with no candidate target fall
// back to a uniform random valid move, and "no valid move" is an ordinary
// outcome, never an error.
package agents

import (
	"math"
	"math/rand"

	"github.com/talgya/candy-chase/internal/grid"
)

// ChooseChildMove determines the child's next cell. The second return is
// false when the child does not move this tick: still on cooldown, gated
// by its StrategicTiming interval, or boxed in with no valid move.
func ChooseChildMove(c *Child, w World, now float64, rng *rand.Rand) (grid.Position, bool) {
	if !c.CanMove(now) {
		return grid.Position{}, false
	}

	if c.Strategy == StrategyStrategicTiming && now-c.LastMove < c.MoveInterval {
		return grid.Position{}, false
	}

	moves := ValidChildMoves(c, w)
	if len(moves) == 0 {
		return grid.Position{}, false
	}

	c.LastMove = now

	strategy := c.Strategy
	if strategy == StrategyUnpredictable {
		if now >= c.NextSwitch {
			c.SubStrategy = rollSubStrategy(rng)
			c.NextSwitch = now + 5.0 + rng.Float64()*5.0
		}
		strategy = c.SubStrategy
	}

	return executeStrategy(strategy, c, w, now, moves, rng), true
}

// ValidChildMoves returns the cardinal neighbors the child may step into:
// in bounds and currently Empty or Candy. Safe-zone and occupied cells are
// excluded.
func ValidChildMoves(c *Child, w World) []grid.Position {
	moves := make([]grid.Position, 0, 4)
	for _, d := range grid.CardinalDirections {
		p := c.Position.Add(d)
		candidate, ok := childCell(w, p)
		if ok && (candidate == grid.CellEmpty || candidate == grid.CellCandy) {
			moves = append(moves, p)
		}
	}
	return moves
}

func childCell(w World, p grid.Position) (grid.Cell, bool) {
	width, height := w.Bounds()
	if p.X < 0 || p.X >= width || p.Y < 0 || p.Y >= height {
		return 0, false
	}
	return w.CellAt(p), true
}

// rollSubStrategy draws a uniform strategy among the nine non-Unpredictable
// ones. Unpredictable never delegates to itself.
func rollSubStrategy(rng *rand.Rand) Strategy {
	s := Strategy(rng.Intn(NumStrategies - 1))
	if s >= StrategyUnpredictable {
		s++
	}
	return s
}

// executeStrategy dispatches on the strategy enum. The switch is exhaustive
// over all ten variants; StrategicTiming's base behavior is a random walk
// (the interval gate has already been applied by ChooseChildMove).
func executeStrategy(s Strategy, c *Child, w World, now float64, moves []grid.Position, rng *rand.Rand) grid.Position {
	switch s {
	case StrategyRandomWalk, StrategyStrategicTiming:
		return randomMove(moves, rng)
	case StrategyCandySeeker:
		return candySeekerMove(c, w, moves, rng)
	case StrategyAvoidance:
		return avoidanceMove(w, moves)
	case StrategyDirectionalBias:
		return directionalMove(c, moves, rng)
	case StrategyWallHugger:
		return wallHuggerMove(w, moves)
	case StrategyGroupSeeker:
		return groupSeekerMove(c, w, now, moves)
	case StrategyCandyHoarder:
		return candyHoarderMove(w, moves)
	case StrategySafeExplorer:
		return safeExplorerMove(c, w, now, moves, rng)
	case StrategyUnpredictable:
		// Unpredictable is resolved to a sub-strategy before dispatch.
		return randomMove(moves, rng)
	}
	return randomMove(moves, rng)
}

func randomMove(moves []grid.Position, rng *rand.Rand) grid.Position {
	return moves[rng.Intn(len(moves))]
}

// candySeekerMove steps toward the candy nearest the child's current
// position. Distance ties are broken by grid enumeration order.
func candySeekerMove(c *Child, w World, moves []grid.Position, rng *rand.Rand) grid.Position {
	candies := w.CandyPositions()
	if len(candies) == 0 {
		return randomMove(moves, rng)
	}

	nearest := candies[0]
	best := c.Position.DistanceTo(nearest)
	for _, candy := range candies[1:] {
		if d := c.Position.DistanceTo(candy); d < best {
			best = d
			nearest = candy
		}
	}

	return closestTo(moves, nearest)
}

// avoidanceMove picks the move with the lowest total danger. With a single
// teacher this degenerates to maximizing distance from it.
func avoidanceMove(w World, moves []grid.Position) grid.Position {
	choice := moves[0]
	best := DangerScore(moves[0], w.Teachers())
	for _, m := range moves[1:] {
		if score := DangerScore(m, w.Teachers()); score < best {
			best = score
			choice = m
		}
	}
	return choice
}

// directionalMove takes the preferred step when it is valid, otherwise a
// random one.
func directionalMove(c *Child, moves []grid.Position, rng *rand.Rand) grid.Position {
	preferred := c.Position.Add(c.PreferredDir)
	for _, m := range moves {
		if m == preferred {
			return m
		}
	}
	return randomMove(moves, rng)
}

// wallHuggerMove minimizes distance to the nearest boundary.
func wallHuggerMove(w World, moves []grid.Position) grid.Position {
	width, height := w.Bounds()
	wallDist := func(p grid.Position) int {
		d := p.X
		if p.Y < d {
			d = p.Y
		}
		if width-1-p.X < d {
			d = width - 1 - p.X
		}
		if height-1-p.Y < d {
			d = height - 1 - p.Y
		}
		return d
	}

	choice := moves[0]
	best := wallDist(moves[0])
	for _, m := range moves[1:] {
		if d := wallDist(m); d < best {
			best = d
			choice = m
		}
	}
	return choice
}

// groupSeekerMove maximizes nearby free children minus twice the teacher
// danger. Radius 3 is Euclidean.
func groupSeekerMove(c *Child, w World, now float64, moves []grid.Position) grid.Position {
	score := func(p grid.Position) float64 {
		count := 0
		for _, other := range w.Children() {
			if other == c || !other.CanMove(now) {
				continue
			}
			if p.DistanceTo(other.Position) <= 3 {
				count++
			}
		}
		return float64(count) - 2*DangerScore(p, w.Teachers())
	}

	choice := moves[0]
	best := score(moves[0])
	for _, m := range moves[1:] {
		if s := score(m); s > best {
			best = s
			choice = m
		}
	}
	return choice
}

// candyHoarderMove maximizes candies within Chebyshev radius 3 minus twice
// the teacher danger.
func candyHoarderMove(w World, moves []grid.Position) grid.Position {
	candies := w.CandyPositions()
	score := func(p grid.Position) float64 {
		count := 0
		for _, candy := range candies {
			if p.ChebyshevTo(candy) <= 3 {
				count++
			}
		}
		return float64(count) - 2*DangerScore(p, w.Teachers())
	}

	choice := moves[0]
	best := score(moves[0])
	for _, m := range moves[1:] {
		if s := score(m); s > best {
			best = s
			choice = m
		}
	}
	return choice
}

// safeExplorerMove alternates on a 20-unit phase: the first half moves
// toward the nearest safe-zone cell, the second half chases candy.
func safeExplorerMove(c *Child, w World, now float64, moves []grid.Position, rng *rand.Rand) grid.Position {
	phase := math.Mod(now-c.CooldownUntil, 20)
	if phase > 10 {
		return candySeekerMove(c, w, moves, rng)
	}

	safe := w.SafeZone()
	if len(safe) == 0 {
		return randomMove(moves, rng)
	}

	nearest := safe[0]
	best := c.Position.DistanceTo(nearest)
	for _, p := range safe[1:] {
		if d := c.Position.DistanceTo(p); d < best {
			best = d
			nearest = p
		}
	}

	return closestTo(moves, nearest)
}

// closestTo picks the move minimizing Euclidean distance to target, first
// match winning ties.
func closestTo(moves []grid.Position, target grid.Position) grid.Position {
	choice := moves[0]
	best := moves[0].DistanceTo(target)
	for _, m := range moves[1:] {
		if d := m.DistanceTo(target); d < best {
			best = d
			choice = m
		}
	}
	return choice
}

// DangerScore is the inverse-distance-weighted sum over teachers: closer
// teachers contribute more. The +1 avoids division by zero.
func DangerScore(p grid.Position, teachers []*Teacher) float64 {
	score := 0.0
	for _, t := range teachers {
		score += 1 / (p.DistanceTo(t.Position) + 1)
	}
	return score
}
