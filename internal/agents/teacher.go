// Teacher decision engine — zone patrol, target selection by strategy
// priority, and capture detection. The capture side effect (teleport and
// cooldown) is applied by the orchestrator.
package agents

import "github.com/talgya/candy-chase/internal/grid"

// CandidateChildren returns the children a teacher may pursue: inside its
// patrol zone, not standing on a safe-zone cell, and eligible to move.
func CandidateChildren(t *Teacher, w World, now float64) []*Child {
	var out []*Child
	for _, c := range w.Children() {
		if !t.Zone.Contains(c.Position) {
			continue
		}
		if w.IsSafeZone(c.Position) {
			continue
		}
		if !c.CanMove(now) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// FindCapture returns the first candidate child 8-adjacent to the teacher,
// or nil. Capture adjacency includes diagonals, unlike movement.
func FindCapture(t *Teacher, w World, now float64) *Child {
	for _, c := range CandidateChildren(t, w, now) {
		if t.Position.Adjacent8(c.Position) {
			return c
		}
	}
	return nil
}

// SelectTarget picks the cell the teacher steers toward. The priority list
// is walked in order; the first strategy with a matching candidate selects
// the nearest such child. With no priority match the nearest candidate
// overall is taken, and with no candidates at all the teacher patrols its
// zone center.
func SelectTarget(t *Teacher, w World, now float64) grid.Position {
	candidates := CandidateChildren(t, w, now)
	if len(candidates) == 0 {
		return t.Zone.Center()
	}

	for _, s := range t.Priorities {
		if c := nearestWithStrategy(t, candidates, s); c != nil {
			return c.Position
		}
	}

	nearest := candidates[0]
	best := t.Position.DistanceTo(nearest.Position)
	for _, c := range candidates[1:] {
		if d := t.Position.DistanceTo(c.Position); d < best {
			best = d
			nearest = c
		}
	}
	return nearest.Position
}

func nearestWithStrategy(t *Teacher, candidates []*Child, s Strategy) *Child {
	var nearest *Child
	best := 0.0
	for _, c := range candidates {
		if c.Strategy != s {
			continue
		}
		d := t.Position.DistanceTo(c.Position)
		if nearest == nil || d < best {
			best = d
			nearest = c
		}
	}
	return nearest
}

// ChooseTeacherMove returns the teacher's greedy step toward its selected
// target. The second return is false when no valid move exists. The caller
// must run FindCapture first; no movement happens on a capture sub-step.
func ChooseTeacherMove(t *Teacher, w World, now float64) (grid.Position, bool) {
	target := SelectTarget(t, w, now)

	moves := ValidTeacherMoves(t, w)
	if len(moves) == 0 {
		return grid.Position{}, false
	}

	return closestTo(moves, target), true
}

// ValidTeacherMoves returns the cardinal neighbors the teacher may step
// into: in bounds, inside its patrol zone, and Empty. Teachers never enter
// the safe zone or step onto candy or agents.
func ValidTeacherMoves(t *Teacher, w World) []grid.Position {
	moves := make([]grid.Position, 0, 4)
	for _, d := range grid.CardinalDirections {
		p := t.Position.Add(d)
		cell, ok := childCell(w, p)
		if ok && t.Zone.Contains(p) && cell == grid.CellEmpty {
			moves = append(moves, p)
		}
	}
	return moves
}
