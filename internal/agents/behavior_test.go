package agents

import (
	"testing"

	"github.com/talgya/candy-chase/internal/entropy"
	"github.com/talgya/candy-chase/internal/grid"
)

// testWorld is a minimal World for exercising the decision engines without
// the orchestrator. Cells default to Empty.
type testWorld struct {
	width, height int
	cells         map[grid.Position]grid.Cell
	safe          []grid.Position
	children      []*Child
	teachers      []*Teacher
}

func newTestWorld(width, height int) *testWorld {
	return &testWorld{
		width:  width,
		height: height,
		cells:  make(map[grid.Position]grid.Cell),
	}
}

func (w *testWorld) Bounds() (int, int) { return w.width, w.height }

func (w *testWorld) CellAt(p grid.Position) grid.Cell {
	if c, ok := w.cells[p]; ok {
		return c
	}
	return grid.CellEmpty
}

func (w *testWorld) CandyPositions() []grid.Position {
	var out []grid.Position
	for y := 0; y < w.height; y++ {
		for x := 0; x < w.width; x++ {
			p := grid.Position{X: x, Y: y}
			if w.cells[p] == grid.CellCandy {
				out = append(out, p)
			}
		}
	}
	return out
}

func (w *testWorld) SafeZone() []grid.Position { return w.safe }

func (w *testWorld) IsSafeZone(p grid.Position) bool {
	for _, s := range w.safe {
		if s == p {
			return true
		}
	}
	return false
}

func (w *testWorld) Children() []*Child   { return w.children }
func (w *testWorld) Teachers() []*Teacher { return w.teachers }

func TestValidChildMoves(t *testing.T) {
	rng := entropy.New(1)
	w := newTestWorld(5, 5)

	// Corner child: only two in-bounds neighbors.
	c := NewChild(grid.Position{X: 0, Y: 0}, StrategyRandomWalk, rng)
	moves := ValidChildMoves(c, w)
	if len(moves) != 2 {
		t.Errorf("corner child should have 2 valid moves, got %d", len(moves))
	}

	// Candy cells are steppable, teacher cells are not.
	c2 := NewChild(grid.Position{X: 2, Y: 2}, StrategyRandomWalk, rng)
	w.cells[grid.Position{X: 2, Y: 3}] = grid.CellCandy
	w.cells[grid.Position{X: 3, Y: 2}] = grid.CellTeacher
	w.cells[grid.Position{X: 1, Y: 2}] = grid.CellSafeZone
	moves = ValidChildMoves(c2, w)
	if len(moves) != 2 {
		t.Fatalf("expected 2 valid moves (candy + empty), got %d: %v", len(moves), moves)
	}
	for _, m := range moves {
		if m == (grid.Position{X: 3, Y: 2}) || m == (grid.Position{X: 1, Y: 2}) {
			t.Errorf("move into blocked cell (%d,%d)", m.X, m.Y)
		}
	}
}

func TestChildOnCooldownDoesNotMove(t *testing.T) {
	rng := entropy.New(2)
	w := newTestWorld(5, 5)

	c := NewChild(grid.Position{X: 2, Y: 2}, StrategyRandomWalk, rng)
	c.SetCooldown(10)

	if _, ok := ChooseChildMove(c, w, 5, rng); ok {
		t.Error("child on cooldown should not move")
	}
	if _, ok := ChooseChildMove(c, w, 10, rng); !ok {
		t.Error("child should move once the cooldown expires")
	}
}

func TestBoxedInChildReportsNoMove(t *testing.T) {
	rng := entropy.New(3)
	w := newTestWorld(5, 5)

	c := NewChild(grid.Position{X: 2, Y: 2}, StrategyRandomWalk, rng)
	for _, d := range grid.CardinalDirections {
		w.cells[c.Position.Add(d)] = grid.CellChild
	}

	if _, ok := ChooseChildMove(c, w, 1, rng); ok {
		t.Error("boxed-in child should report no move, not an arbitrary one")
	}
}

func TestRandomWalkStaysCardinal(t *testing.T) {
	rng := entropy.New(4)
	w := newTestWorld(7, 7)
	c := NewChild(grid.Position{X: 3, Y: 3}, StrategyRandomWalk, rng)

	for i := 0; i < 50; i++ {
		dest, ok := ChooseChildMove(c, w, float64(i), rng)
		if !ok {
			t.Fatal("open grid should always offer a move")
		}
		if d := c.Position.DistanceTo(dest); d != 1.0 {
			t.Fatalf("move distance should be exactly 1.0, got %v", d)
		}
	}
}

func TestCandySeekerApproachesNearestCandy(t *testing.T) {
	rng := entropy.New(5)
	w := newTestWorld(5, 5)
	candy := grid.Position{X: 4, Y: 4}
	w.cells[candy] = grid.CellCandy

	c := NewChild(grid.Position{X: 2, Y: 2}, StrategyCandySeeker, rng)

	dest, ok := ChooseChildMove(c, w, 1, rng)
	if !ok {
		t.Fatal("expected a move")
	}
	if dest != (grid.Position{X: 3, Y: 2}) && dest != (grid.Position{X: 2, Y: 3}) {
		t.Errorf("expected (3,2) or (2,3), got (%d,%d)", dest.X, dest.Y)
	}
	if dest.DistanceTo(candy) >= c.Position.DistanceTo(candy) {
		t.Error("candy seeker move should strictly decrease distance to the candy")
	}
}

func TestCandySeekerWithoutCandyFallsBackToRandom(t *testing.T) {
	rng := entropy.New(6)
	w := newTestWorld(5, 5)
	c := NewChild(grid.Position{X: 2, Y: 2}, StrategyCandySeeker, rng)

	if _, ok := ChooseChildMove(c, w, 1, rng); !ok {
		t.Error("candy seeker with no candy should still take a random move")
	}
}

func TestAvoidanceMovesAwayFromTeacher(t *testing.T) {
	rng := entropy.New(7)
	w := newTestWorld(8, 8)
	teacherPos := grid.Position{X: 4, Y: 4}
	w.teachers = []*Teacher{NewTeacher(teacherPos, PatrolZone{XMax: 8, YMax: 8})}
	w.cells[teacherPos] = grid.CellTeacher

	c := NewChild(grid.Position{X: 2, Y: 2}, StrategyAvoidance, rng)

	dest, ok := ChooseChildMove(c, w, 1, rng)
	if !ok {
		t.Fatal("expected a move")
	}
	if dest.DistanceTo(teacherPos) < c.Position.DistanceTo(teacherPos) {
		t.Errorf("avoidance move (%d,%d) decreased distance to the teacher", dest.X, dest.Y)
	}
}

func TestDangerScoreSumsOverTeachers(t *testing.T) {
	t1 := NewTeacher(grid.Position{X: 0, Y: 0}, PatrolZone{XMax: 10, YMax: 10})
	t2 := NewTeacher(grid.Position{X: 4, Y: 3}, PatrolZone{XMax: 10, YMax: 10})
	p := grid.Position{X: 0, Y: 0}

	// Teacher on the spot contributes 1/(0+1)=1; the other is 5 away: 1/6.
	want := 1.0 + 1.0/6.0
	if got := DangerScore(p, []*Teacher{t1, t2}); got != want {
		t.Errorf("expected danger %v, got %v", want, got)
	}
}

func TestDirectionalBiasPrefersItsDirection(t *testing.T) {
	rng := entropy.New(8)
	w := newTestWorld(7, 7)

	c := NewChild(grid.Position{X: 3, Y: 3}, StrategyDirectionalBias, rng)
	c.PreferredDir = grid.Position{X: 1, Y: 0}

	dest, ok := ChooseChildMove(c, w, 1, rng)
	if !ok {
		t.Fatal("expected a move")
	}
	if dest != (grid.Position{X: 4, Y: 3}) {
		t.Errorf("expected the preferred step (4,3), got (%d,%d)", dest.X, dest.Y)
	}

	// Preferred cell blocked: any other valid move is acceptable.
	w.cells[grid.Position{X: 4, Y: 3}] = grid.CellChild
	dest, ok = ChooseChildMove(c, w, 2, rng)
	if !ok {
		t.Fatal("expected a fallback move")
	}
	if dest == (grid.Position{X: 4, Y: 3}) {
		t.Error("moved onto an occupied preferred cell")
	}
}

func TestStrategicTimingGate(t *testing.T) {
	rng := entropy.New(9)
	w := newTestWorld(5, 5)

	c := NewChild(grid.Position{X: 2, Y: 2}, StrategyStrategicTiming, rng)
	c.MoveInterval = 2.0
	c.LastMove = 10.0

	if _, ok := ChooseChildMove(c, w, 11.0, rng); ok {
		t.Error("strategic timer should hold before its interval elapses")
	}
	if _, ok := ChooseChildMove(c, w, 12.0, rng); !ok {
		t.Error("strategic timer should move once its interval has elapsed")
	}
	if c.LastMove != 12.0 {
		t.Errorf("LastMove should update on action, got %v", c.LastMove)
	}
}

func TestWallHuggerMovesTowardBoundary(t *testing.T) {
	rng := entropy.New(10)
	w := newTestWorld(9, 9)

	c := NewChild(grid.Position{X: 4, Y: 3}, StrategyWallHugger, rng)

	dest, ok := ChooseChildMove(c, w, 1, rng)
	if !ok {
		t.Fatal("expected a move")
	}
	// From (4,3) the closest wall is the top; (4,2) is the only move that
	// reduces the wall distance below the current 3.
	if dest != (grid.Position{X: 4, Y: 2}) {
		t.Errorf("expected (4,2), got (%d,%d)", dest.X, dest.Y)
	}
}

func TestGroupSeekerJoinsCluster(t *testing.T) {
	rng := entropy.New(11)
	w := newTestWorld(11, 11)

	c := NewChild(grid.Position{X: 5, Y: 5}, StrategyGroupSeeker, rng)
	w.children = []*Child{
		c,
		NewChild(grid.Position{X: 9, Y: 5}, StrategyRandomWalk, rng),
		NewChild(grid.Position{X: 8, Y: 4}, StrategyRandomWalk, rng),
		NewChild(grid.Position{X: 8, Y: 6}, StrategyRandomWalk, rng),
	}

	dest, ok := ChooseChildMove(c, w, 1, rng)
	if !ok {
		t.Fatal("expected a move")
	}
	// Stepping east puts all three neighbors within radius 3.
	if dest != (grid.Position{X: 6, Y: 5}) {
		t.Errorf("expected (6,5) toward the cluster, got (%d,%d)", dest.X, dest.Y)
	}
}

func TestCandyHoarderSeeksDenseArea(t *testing.T) {
	rng := entropy.New(12)
	w := newTestWorld(11, 11)

	// Three candies clustered to the east, one to the west.
	w.cells[grid.Position{X: 9, Y: 5}] = grid.CellCandy
	w.cells[grid.Position{X: 9, Y: 4}] = grid.CellCandy
	w.cells[grid.Position{X: 9, Y: 6}] = grid.CellCandy
	w.cells[grid.Position{X: 1, Y: 5}] = grid.CellCandy

	c := NewChild(grid.Position{X: 5, Y: 5}, StrategyCandyHoarder, rng)

	dest, ok := ChooseChildMove(c, w, 1, rng)
	if !ok {
		t.Fatal("expected a move")
	}
	// (6,5) brings the eastern cluster within Chebyshev radius 3.
	if dest != (grid.Position{X: 6, Y: 5}) {
		t.Errorf("expected (6,5) toward the candy cluster, got (%d,%d)", dest.X, dest.Y)
	}
}

func TestSafeExplorerPhases(t *testing.T) {
	rng := entropy.New(13)
	w := newTestWorld(10, 10)
	w.safe = []grid.Position{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}}
	candy := grid.Position{X: 9, Y: 9}
	w.cells[candy] = grid.CellCandy

	c := NewChild(grid.Position{X: 5, Y: 5}, StrategySafeExplorer, rng)

	// Phase <= 10: head for the safe zone.
	dest, ok := ChooseChildMove(c, w, 5, rng)
	if !ok {
		t.Fatal("expected a move")
	}
	nearestSafe := grid.Position{X: 1, Y: 1}
	if dest.DistanceTo(nearestSafe) >= c.Position.DistanceTo(nearestSafe) {
		t.Errorf("retreat phase move (%d,%d) did not approach the safe zone", dest.X, dest.Y)
	}

	// Phase > 10: chase candy instead.
	c2 := NewChild(grid.Position{X: 5, Y: 5}, StrategySafeExplorer, rng)
	dest, ok = ChooseChildMove(c2, w, 15, rng)
	if !ok {
		t.Fatal("expected a move")
	}
	if dest.DistanceTo(candy) >= c2.Position.DistanceTo(candy) {
		t.Errorf("explore phase move (%d,%d) did not approach the candy", dest.X, dest.Y)
	}
}

func TestUnpredictableRollsOtherStrategies(t *testing.T) {
	rng := entropy.New(14)

	for i := 0; i < 200; i++ {
		s := rollSubStrategy(rng)
		if s == StrategyUnpredictable {
			t.Fatal("sub-strategy roll must never select Unpredictable")
		}
		if s >= NumStrategies {
			t.Fatalf("rolled strategy out of range: %d", s)
		}
	}
}

func TestUnpredictableSwitchesOnSchedule(t *testing.T) {
	rng := entropy.New(15)
	w := newTestWorld(9, 9)

	c := NewChild(grid.Position{X: 4, Y: 4}, StrategyUnpredictable, rng)
	c.NextSwitch = 7.0

	if _, ok := ChooseChildMove(c, w, 6.0, rng); !ok {
		t.Fatal("expected a move")
	}
	if c.NextSwitch != 7.0 {
		t.Error("switch schedule should not change before its time")
	}

	if _, ok := ChooseChildMove(c, w, 7.5, rng); !ok {
		t.Fatal("expected a move")
	}
	if c.NextSwitch <= 12.0 || c.NextSwitch > 17.5 {
		t.Errorf("re-roll should schedule the next switch 5-10 units out, got %v", c.NextSwitch)
	}
}
