// Command classroomsim runs the classroom pursuit-and-evasion simulation.
package main

import (
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/talgya/candy-chase/internal/agents"
	"github.com/talgya/candy-chase/internal/api"
	"github.com/talgya/candy-chase/internal/config"
	"github.com/talgya/candy-chase/internal/engine"
	"github.com/talgya/candy-chase/internal/entropy"
	"github.com/talgya/candy-chase/internal/grid"
	"github.com/talgya/candy-chase/internal/persistence"
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		seed       int64
		dbPath     string
		apiPort    int
		maxTicks   uint64
		speed      float64
		renderEach uint64
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   "classroomsim",
		Short: "Classroom pursuit-and-evasion simulation",
		Long: `classroomsim runs a grid classroom where children collect candy
while zone-patrolling teachers capture strays and return them to the
safe zone. Runs are fully determined by the seed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath, seed, dbPath, apiPort, maxTicks, speed, renderEach, logLevel)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "classroom.yaml", "Path to the YAML configuration")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Random seed; a seed fully determines a run")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite path for run-state recording (empty = disabled)")
	cmd.Flags().IntVar(&apiPort, "port", 0, "HTTP observation API port (0 = disabled)")
	cmd.Flags().Uint64Var(&maxTicks, "ticks", 0, "Stop after this many ticks (0 = run until interrupted)")
	cmd.Flags().Float64Var(&speed, "speed", 1.0, "Speed multiplier (0 = start paused)")
	cmd.Flags().Uint64Var(&renderEach, "render", 0, "Print an ASCII grid every N ticks (0 = disabled)")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")

	return cmd
}

func run(configPath string, seed int64, dbPath string, apiPort int, maxTicks uint64, speed float64, renderEach uint64, logLevel string) error {
	setupLogging(logLevel)

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	rng := entropy.New(seed)
	clock := engine.NewTickClock(cfg.Timing.TickStep)

	classroom, err := engine.NewClassroom(
		cfg.Classroom.Width, cfg.Classroom.Height,
		cfg.Classroom.SafeZoneWidth, cfg.Classroom.SafeZoneHeight,
		engine.Params{
			SpawnInterval:   cfg.Timing.CandySpawnInterval,
			MaxCandies:      cfg.Timing.MaxCandies,
			CaptureCooldown: cfg.Timing.ChildCooldown,
		},
		clock, rng,
	)
	if err != nil {
		return err
	}

	if err := populate(classroom, cfg, rng); err != nil {
		return err
	}

	slog.Info("classroom ready",
		"size", fmt.Sprintf("%dx%d", cfg.Classroom.Width, cfg.Classroom.Height),
		"children", len(classroom.Children()),
		"teachers", len(classroom.Teachers()),
		"seed", seed,
	)

	var db *persistence.DB
	if dbPath != "" {
		db, err = persistence.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()
		if err := db.SaveMeta("seed", fmt.Sprintf("%d", seed)); err != nil {
			return fmt.Errorf("record seed: %w", err)
		}
		slog.Info("database opened", "path", dbPath)
	}

	eng := engine.NewEngine(classroom, clock)
	eng.Speed = speed
	eng.MaxTicks = maxTicks
	if renderEach > 0 {
		eng.OnTick = func(tick uint64) {
			if tick%renderEach == 0 {
				fmt.Println(classroom.Render())
			}
		}
	}

	if apiPort > 0 {
		server := &api.Server{Classroom: classroom, Eng: eng, Port: apiPort}
		server.Start()
	}

	// Stop cleanly on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		slog.Info("shutdown signal received")
		eng.Stop()
	}()

	start := time.Now()
	eng.Run()
	slog.Info("run finished", "ticks", classroom.Tick(), "wall_time", time.Since(start).Round(time.Millisecond))

	if db != nil {
		if err := db.SaveRunState(classroom); err != nil {
			return fmt.Errorf("final save: %w", err)
		}
	}

	stats := classroom.CurrentStats()
	slog.Info("final standings",
		"candies_eaten", stats.CandiesEaten,
		"captures", stats.Captures,
		"free_children", stats.FreeChildren,
	)
	return nil
}

// populate seats the configured children and teachers.
func populate(classroom *engine.Classroom, cfg config.Config, rng *rand.Rand) error {
	spawner := agents.NewSpawner(rng)
	spawner.SetTimingRange(cfg.Timing.StrategicTimingMin, cfg.Timing.StrategicTimingMax)

	width, height := classroom.Bounds()

	teachers := spawner.SpawnTeachers(cfg.Agents.Teachers, width, height)
	for _, t := range teachers {
		if err := classroom.AddTeacher(t); err != nil {
			return fmt.Errorf("populate: %w", err)
		}
	}

	free := func(p grid.Position) bool {
		return classroom.CellAt(p) == grid.CellEmpty
	}
	children := spawner.SpawnChildren(cfg.StrategyCounts(), width, height, free)
	for _, c := range children {
		if err := classroom.AddChild(c); err != nil {
			return fmt.Errorf("populate: %w", err)
		}
	}

	return nil
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
}
