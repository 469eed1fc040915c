// Population spawning — places the initial children and teachers. Each
// strategy gets seats that suit it: avoiders near edges with escape routes,
// group seekers clustered mid-room, safe explorers on the safe-zone
// periphery, and so on. All placement randomness comes from the
// simulation's seeded source.
package agents

import (
	"math/rand"

	"github.com/talgya/candy-chase/internal/grid"
)

// Spawner creates the agent population for a run.
type Spawner struct {
	rng         *rand.Rand
	intervalMin float64
	intervalMax float64
}

// NewSpawner creates a spawner drawing from the given random source. The
// StrategicTiming interval range defaults to 0.5–2.0 time units.
func NewSpawner(rng *rand.Rand) *Spawner {
	return &Spawner{rng: rng, intervalMin: 0.5, intervalMax: 2.0}
}

// SetTimingRange overrides the StrategicTiming move-interval range.
func (s *Spawner) SetTimingRange(min, max float64) {
	if min > 0 && max >= min {
		s.intervalMin = min
		s.intervalMax = max
	}
}

// sections divides the room into named seat groups for strategic placement.
func sections(width, height int) map[string][]grid.Position {
	m := map[string][]grid.Position{
		"corners": {
			{X: 2, Y: 2},
			{X: width - 3, Y: height - 3},
			{X: width - 3, Y: 2},
			{X: 2, Y: height - 3},
		},
		"edges": {
			{X: 1, Y: height / 4},
			{X: width - 2, Y: height / 4},
			{X: width - 2, Y: 3 * height / 4},
			{X: 1, Y: 3 * height / 4},
			{X: width / 4, Y: 1},
			{X: 3 * width / 4, Y: 1},
			{X: width / 4, Y: height - 2},
			{X: 3 * width / 4, Y: height - 2},
		},
		"center": {
			{X: width / 2, Y: height / 2},
			{X: width/2 - 1, Y: height / 2},
			{X: width/2 + 1, Y: height / 2},
			{X: width / 2, Y: height/2 - 1},
			{X: width / 2, Y: height/2 + 1},
		},
		"mid_distance": {
			{X: width / 3, Y: height / 3},
			{X: 2 * width / 3, Y: height / 3},
			{X: width / 3, Y: 2 * height / 3},
			{X: 2 * width / 3, Y: 2 * height / 3},
		},
		"candy_rich": {
			{X: 3 * width / 4, Y: 3 * height / 4},
			{X: width / 4, Y: 3 * height / 4},
			{X: 3 * width / 4, Y: height / 4},
			{X: width / 4, Y: height / 4},
		},
	}

	// Scattered seats on a coarse lattice covering the room interior.
	var scattered []grid.Position
	for x := 3; x < width-3; x += 3 {
		for y := 3; y < height-3; y += 3 {
			scattered = append(scattered, grid.Position{X: x, Y: y})
		}
	}
	m["scattered"] = scattered

	// Just outside a top-left safe zone.
	var periphery []grid.Position
	for _, p := range []grid.Position{
		{X: 7, Y: 7}, {X: 8, Y: 7}, {X: 7, Y: 8}, {X: 8, Y: 8},
		{X: 6, Y: 6}, {X: 6, Y: 7}, {X: 7, Y: 6},
	} {
		if p.X < width && p.Y < height {
			periphery = append(periphery, p)
		}
	}
	m["safe_periphery"] = periphery

	return m
}

// seatsFor maps each strategy to the sections that fit its behavior.
func seatsFor(s Strategy, secs map[string][]grid.Position) []grid.Position {
	switch s {
	case StrategyCandySeeker, StrategyCandyHoarder:
		return secs["candy_rich"]
	case StrategyAvoidance:
		return append(append([]grid.Position{}, secs["edges"]...), secs["corners"]...)
	case StrategyDirectionalBias:
		return secs["mid_distance"]
	case StrategyWallHugger:
		return secs["edges"]
	case StrategyGroupSeeker:
		return secs["center"]
	case StrategySafeExplorer:
		return secs["safe_periphery"]
	default:
		return secs["scattered"]
	}
}

// SpawnChildren creates counts[strategy] children per strategy. The free
// predicate reports whether a cell can take an agent; seats that fail it
// are skipped and topped up from the scattered lattice.
func (s *Spawner) SpawnChildren(counts map[Strategy]int, width, height int, free func(grid.Position) bool) []*Child {
	secs := sections(width, height)
	used := make(map[grid.Position]bool)

	usable := func(p grid.Position) bool {
		return p.X >= 0 && p.X < width && p.Y >= 0 && p.Y < height &&
			!used[p] && free(p)
	}

	var children []*Child
	for st := Strategy(0); st < NumStrategies; st++ {
		want := counts[st]
		if want == 0 {
			continue
		}

		seats := append([]grid.Position{}, seatsFor(st, secs)...)
		s.rng.Shuffle(len(seats), func(i, j int) { seats[i], seats[j] = seats[j], seats[i] })

		placed := 0
		for _, p := range seats {
			if placed == want {
				break
			}
			if !usable(p) {
				continue
			}
			children = append(children, s.spawnChild(p, st))
			used[p] = true
			placed++
		}

		// Overflow lands on any free scattered seat.
		if placed < want {
			extra := append([]grid.Position{}, secs["scattered"]...)
			s.rng.Shuffle(len(extra), func(i, j int) { extra[i], extra[j] = extra[j], extra[i] })
			for _, p := range extra {
				if placed == want {
					break
				}
				if !usable(p) {
					continue
				}
				children = append(children, s.spawnChild(p, st))
				used[p] = true
				placed++
			}
		}
	}

	return children
}

func (s *Spawner) spawnChild(p grid.Position, st Strategy) *Child {
	c := NewChild(p, st, s.rng)
	c.MoveInterval = s.intervalMin + s.rng.Float64()*(s.intervalMax-s.intervalMin)
	return c
}

// SpawnTeachers creates n teachers. A single teacher patrols the whole room
// from the center; multiple teachers split the room into quadrants.
func (s *Spawner) SpawnTeachers(n, width, height int) []*Teacher {
	if n <= 0 {
		return nil
	}

	if n == 1 {
		zone := PatrolZone{XMin: 0, XMax: width, YMin: 0, YMax: height}
		return []*Teacher{NewTeacher(grid.Position{X: width / 2, Y: height / 2}, zone)}
	}

	quadrants := []PatrolZone{
		{XMin: 0, XMax: width / 2, YMin: 0, YMax: height / 2},
		{XMin: width / 2, XMax: width, YMin: height / 2, YMax: height},
		{XMin: 0, XMax: width / 2, YMin: height / 2, YMax: height},
		{XMin: width / 2, XMax: width, YMin: 0, YMax: height / 2},
	}

	if n > len(quadrants) {
		n = len(quadrants)
	}

	teachers := make([]*Teacher, 0, n)
	for i := 0; i < n; i++ {
		teachers = append(teachers, NewTeacher(quadrants[i].Center(), quadrants[i]))
	}
	return teachers
}
