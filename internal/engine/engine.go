package engine

import (
	"log/slog"
	"time"
)

// Engine drives a classroom forward in real time. The core stays
// caller-stepped: Step advances exactly one tick, and Run just calls Step
// on a wall-clock cadence with a speed multiplier. Tests and embedders can
// bypass Run entirely.
type Engine struct {
	Classroom *Classroom
	Clock     *TickClock

	Speed    float64       // Multiplier: 1.0 = real-time, 0 = paused
	Interval time.Duration // Wall-clock duration of one tick at speed 1.0
	MaxTicks uint64        // Stop after this many ticks; 0 = run until Stop
	Running  bool

	// OnTick runs after every tick — populated during setup.
	OnTick func(tick uint64)

	// SummaryEvery controls the periodic stats log; 0 disables it.
	SummaryEvery uint64
}

// NewEngine creates an engine with default pacing: two ticks per second.
func NewEngine(c *Classroom, clock *TickClock) *Engine {
	return &Engine{
		Classroom:    c,
		Clock:        clock,
		Speed:        1.0,
		Interval:     500 * time.Millisecond,
		SummaryEvery: 100,
	}
}

// Step advances the simulation by one tick.
func (e *Engine) Step() {
	e.Clock.Advance()
	e.Classroom.Update()

	tick := e.Classroom.Tick()
	if e.OnTick != nil {
		e.OnTick(tick)
	}

	if e.SummaryEvery > 0 && tick%e.SummaryEvery == 0 {
		s := e.Classroom.CurrentStats()
		slog.Info("classroom summary",
			"tick", s.Tick,
			"sim_time", e.Clock.Now(),
			"free_children", s.FreeChildren,
			"candies_eaten", s.CandiesEaten,
			"captures", s.Captures,
			"candies_on_grid", s.CandiesOnGrid,
		)
	}
}

// Run steps the simulation on the configured cadence. Blocks until Stop is
// called or MaxTicks is reached.
func (e *Engine) Run() {
	e.Running = true
	slog.Info("simulation started", "tick", e.Classroom.Tick(), "speed", e.Speed)

	for e.Running {
		if e.MaxTicks > 0 && e.Classroom.Tick() >= e.MaxTicks {
			break
		}

		if e.Speed <= 0 {
			// Paused — sleep briefly and check again.
			time.Sleep(100 * time.Millisecond)
			continue
		}

		start := time.Now()

		e.Step()

		elapsed := time.Since(start)
		target := time.Duration(float64(e.Interval) / e.Speed)
		if elapsed < target {
			time.Sleep(target - elapsed)
		}
	}

	e.Running = false
	slog.Info("simulation stopped", "tick", e.Classroom.Tick())
}

// Stop halts the run loop.
func (e *Engine) Stop() {
	e.Running = false
}
