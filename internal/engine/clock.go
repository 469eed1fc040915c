package engine

// Clock supplies the monotonic sim-time consulted by every time-gated
// behavior: capture cooldowns, candy spawn intervals, StrategicTiming gates,
// and the SafeExplorer phase. The core never reads the wall clock, so runs
// are reproducible and tests can drive time directly.
type Clock interface {
	Now() float64
}

// TickClock is a logical clock advanced a fixed step per tick by the run
// loop.
type TickClock struct {
	t    float64
	Step float64
}

// NewTickClock creates a clock advancing step time units per tick.
func NewTickClock(step float64) *TickClock {
	if step <= 0 {
		step = 0.5
	}
	return &TickClock{Step: step}
}

// Now returns the current sim-time.
func (c *TickClock) Now() float64 {
	return c.t
}

// Advance moves the clock forward one step and returns the new time.
func (c *TickClock) Advance() float64 {
	c.t += c.Step
	return c.t
}

// SetNow jumps the clock to an absolute time. Test hook.
func (c *TickClock) SetNow(t float64) {
	c.t = t
}
