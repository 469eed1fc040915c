// Package persistence provides SQLite-based recording of run state: agent
// standings, the capture/candy event log, and run metadata. Saves are full
// replaces; the simulation never restores mid-run state.
package persistence

import (
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/candy-chase/internal/agents"
	"github.com/talgya/candy-chase/internal/engine"
)

// DB wraps a SQLite connection for run-state recording.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS children (
		id INTEGER PRIMARY KEY,
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		prev_x INTEGER NOT NULL,
		prev_y INTEGER NOT NULL,
		strategy TEXT NOT NULL,
		candies INTEGER NOT NULL,
		cooldown_until REAL NOT NULL,
		move_interval REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS teachers (
		id INTEGER PRIMARY KEY,
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		zone_x_min INTEGER NOT NULL,
		zone_x_max INTEGER NOT NULL,
		zone_y_min INTEGER NOT NULL,
		zone_y_max INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		tick INTEGER NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS run_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_tick ON events(tick);
	CREATE INDEX IF NOT EXISTS idx_events_category ON events(category);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveChildren writes the child standings (full replace).
func (db *DB) SaveChildren(children []*agents.Child) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM children"); err != nil {
		return err
	}

	stmt, err := tx.Preparex(`INSERT INTO children
		(id, x, y, prev_x, prev_y, strategy, candies, cooldown_until, move_interval)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, c := range children {
		_, err := stmt.Exec(
			i+1, c.Position.X, c.Position.Y, c.PrevPosition.X, c.PrevPosition.Y,
			agents.StrategyName(c.Strategy), c.Candies, c.CooldownUntil, c.MoveInterval,
		)
		if err != nil {
			return fmt.Errorf("insert child %d: %w", i+1, err)
		}
	}

	return tx.Commit()
}

// SaveTeachers writes the teacher standings (full replace).
func (db *DB) SaveTeachers(teachers []*agents.Teacher) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM teachers"); err != nil {
		return err
	}

	for i, t := range teachers {
		_, err := tx.Exec(`INSERT INTO teachers
			(id, x, y, zone_x_min, zone_x_max, zone_y_min, zone_y_max)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			i+1, t.Position.X, t.Position.Y,
			t.Zone.XMin, t.Zone.XMax, t.Zone.YMin, t.Zone.YMax,
		)
		if err != nil {
			return fmt.Errorf("insert teacher %d: %w", i+1, err)
		}
	}

	return tx.Commit()
}

// SaveEvents appends events to the log.
func (db *DB) SaveEvents(events []engine.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range events {
		_, err := tx.Exec(
			"INSERT INTO events (tick, description, category) VALUES (?, ?, ?)",
			e.Tick, e.Description, e.Category,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// SaveMeta stores a key-value pair in run metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO run_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM run_meta WHERE key = ?", key)
	return value, err
}

// SaveRunState performs a full save of the classroom.
func (db *DB) SaveRunState(c *engine.Classroom) error {
	slog.Info("saving run state", "children", len(c.Children()), "teachers", len(c.Teachers()), "tick", c.Tick())

	if err := db.SaveChildren(c.Children()); err != nil {
		return fmt.Errorf("save children: %w", err)
	}
	if err := db.SaveTeachers(c.Teachers()); err != nil {
		return fmt.Errorf("save teachers: %w", err)
	}
	if err := db.SaveEvents(c.Events()); err != nil {
		return fmt.Errorf("save events: %w", err)
	}
	if err := db.SaveMeta("last_tick", fmt.Sprintf("%d", c.Tick())); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}

	return nil
}

// RecentEvents returns the most recent N recorded events.
func (db *DB) RecentEvents(limit int) ([]engine.Event, error) {
	var events []engine.Event
	err := db.conn.Select(&events,
		"SELECT tick, description, category FROM events ORDER BY id DESC LIMIT ?",
		limit,
	)
	return events, err
}
