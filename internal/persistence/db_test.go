package persistence

import (
	"path/filepath"
	"testing"

	"github.com/talgya/candy-chase/internal/agents"
	"github.com/talgya/candy-chase/internal/engine"
	"github.com/talgya/candy-chase/internal/entropy"
	"github.com/talgya/candy-chase/internal/grid"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "run.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSaveChildrenIsFullReplace(t *testing.T) {
	db := openTestDB(t)
	rng := entropy.New(50)

	first := []*agents.Child{
		agents.NewChild(grid.Position{X: 3, Y: 4}, agents.StrategyCandySeeker, rng),
		agents.NewChild(grid.Position{X: 7, Y: 2}, agents.StrategyAvoidance, rng),
	}
	if err := db.SaveChildren(first); err != nil {
		t.Fatalf("SaveChildren: %v", err)
	}

	second := []*agents.Child{
		agents.NewChild(grid.Position{X: 1, Y: 1}, agents.StrategyRandomWalk, rng),
	}
	if err := db.SaveChildren(second); err != nil {
		t.Fatalf("second SaveChildren: %v", err)
	}

	var count int
	if err := db.conn.Get(&count, "SELECT COUNT(*) FROM children"); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("save should replace, expected 1 row, got %d", count)
	}

	var strategy string
	if err := db.conn.Get(&strategy, "SELECT strategy FROM children WHERE id = 1"); err != nil {
		t.Fatalf("get strategy: %v", err)
	}
	if strategy != "random_walk" {
		t.Errorf("expected random_walk, got %q", strategy)
	}
}

func TestSaveTeachersRecordsZones(t *testing.T) {
	db := openTestDB(t)

	zone := agents.PatrolZone{XMin: 0, XMax: 15, YMin: 0, YMax: 30}
	teachers := []*agents.Teacher{agents.NewTeacher(grid.Position{X: 7, Y: 15}, zone)}
	if err := db.SaveTeachers(teachers); err != nil {
		t.Fatalf("SaveTeachers: %v", err)
	}

	var row struct {
		XMin int `db:"zone_x_min"`
		XMax int `db:"zone_x_max"`
		YMin int `db:"zone_y_min"`
		YMax int `db:"zone_y_max"`
	}
	err := db.conn.Get(&row,
		"SELECT zone_x_min, zone_x_max, zone_y_min, zone_y_max FROM teachers WHERE id = 1")
	if err != nil {
		t.Fatalf("get zone: %v", err)
	}
	got := agents.PatrolZone{XMin: row.XMin, XMax: row.XMax, YMin: row.YMin, YMax: row.YMax}
	if got != zone {
		t.Errorf("zone round trip: want %+v, got %+v", zone, got)
	}
}

func TestEventsAppendAndRecent(t *testing.T) {
	db := openTestDB(t)

	batch1 := []engine.Event{
		{Tick: 1, Description: "candy collected", Category: "candy"},
		{Tick: 2, Description: "child caught", Category: "capture"},
	}
	batch2 := []engine.Event{
		{Tick: 3, Description: "another candy", Category: "candy"},
	}
	if err := db.SaveEvents(batch1); err != nil {
		t.Fatalf("SaveEvents: %v", err)
	}
	if err := db.SaveEvents(batch2); err != nil {
		t.Fatalf("SaveEvents: %v", err)
	}

	events, err := db.RecentEvents(2)
	if err != nil {
		t.Fatalf("RecentEvents: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	// Newest first.
	if events[0].Tick != 3 || events[1].Tick != 2 {
		t.Errorf("expected ticks [3 2], got [%d %d]", events[0].Tick, events[1].Tick)
	}
}

func TestMetaRoundTrip(t *testing.T) {
	db := openTestDB(t)

	if err := db.SaveMeta("seed", "42"); err != nil {
		t.Fatalf("SaveMeta: %v", err)
	}
	if err := db.SaveMeta("seed", "99"); err != nil {
		t.Fatalf("SaveMeta overwrite: %v", err)
	}

	got, err := db.GetMeta("seed")
	if err != nil {
		t.Fatalf("GetMeta: %v", err)
	}
	if got != "99" {
		t.Errorf("expected the overwritten value 99, got %q", got)
	}

	if _, err := db.GetMeta("absent"); err == nil {
		t.Error("missing key should error")
	}
}

func TestSaveRunState(t *testing.T) {
	db := openTestDB(t)

	clock := engine.NewTickClock(0.5)
	room, err := engine.NewClassroom(10, 10, 2, 2, engine.Params{}, clock, entropy.New(51))
	if err != nil {
		t.Fatalf("NewClassroom: %v", err)
	}
	rng := entropy.New(51)
	if err := room.AddChild(agents.NewChild(grid.Position{X: 5, Y: 5}, agents.StrategyRandomWalk, rng)); err != nil {
		t.Fatalf("AddChild: %v", err)
	}

	clock.Advance()
	room.Update()

	if err := db.SaveRunState(room); err != nil {
		t.Fatalf("SaveRunState: %v", err)
	}

	lastTick, err := db.GetMeta("last_tick")
	if err != nil {
		t.Fatalf("GetMeta: %v", err)
	}
	if lastTick != "1" {
		t.Errorf("expected last_tick=1, got %q", lastTick)
	}
}
