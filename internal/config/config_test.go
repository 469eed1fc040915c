package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/talgya/candy-chase/internal/agents"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg != Default() {
		t.Error("missing file should yield the defaults unchanged")
	}
}

func TestLoadOverlaysFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "classroom.yaml")
	data := `
classroom:
  width: 20
  height: 16
agents:
  candy_seekers: 9
  teachers: 2
timing:
  tick_step: 1.0
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Classroom.Width != 20 || cfg.Classroom.Height != 16 {
		t.Errorf("geometry not overlaid: %+v", cfg.Classroom)
	}
	if cfg.Agents.CandySeekers != 9 || cfg.Agents.Teachers != 2 {
		t.Errorf("agent counts not overlaid: %+v", cfg.Agents)
	}
	if cfg.Timing.TickStep != 1.0 {
		t.Errorf("tick step not overlaid: %v", cfg.Timing.TickStep)
	}

	// Fields the file omits keep their defaults.
	if cfg.Classroom.SafeZoneWidth != 6 {
		t.Errorf("safe zone width should stay 6, got %d", cfg.Classroom.SafeZoneWidth)
	}
	if cfg.Agents.RandomWalkers != 5 {
		t.Errorf("random walker count should stay 5, got %d", cfg.Agents.RandomWalkers)
	}
	if cfg.Timing.ChildCooldown != 5.0 {
		t.Errorf("cooldown should stay 5.0, got %v", cfg.Timing.ChildCooldown)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "classroom.yaml")
	if err := os.WriteFile(path, []byte("classroom: ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("malformed YAML should error")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Classroom.Width = 0 }},
		{"oversized safe zone", func(c *Config) { c.Classroom.SafeZoneWidth = 40 }},
		{"zero tick step", func(c *Config) { c.Timing.TickStep = 0 }},
		{"zero candy cap", func(c *Config) { c.Timing.MaxCandies = 0 }},
		{"negative cooldown", func(c *Config) { c.Timing.ChildCooldown = -1 }},
		{"inverted timing range", func(c *Config) { c.Timing.StrategicTimingMin = 3; c.Timing.StrategicTimingMax = 1 }},
		{"negative teachers", func(c *Config) { c.Agents.Teachers = -1 }},
	}

	for _, tc := range cases {
		cfg := Default()
		tc.mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected a validation error", tc.name)
		}
	}

	if err := Default().Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestStrategyCountsCoverAllStrategies(t *testing.T) {
	counts := Default().StrategyCounts()
	if len(counts) != agents.NumStrategies {
		t.Fatalf("expected %d entries, got %d", agents.NumStrategies, len(counts))
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	if total != 39 {
		t.Errorf("default population should be 39 children, got %d", total)
	}
}
