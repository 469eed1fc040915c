// Package api provides the read-only HTTP observation surface: grid
// contents, agent lists, events, and run status as JSON. There is no
// mutating endpoint; renderers and dashboards consume these snapshots.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/talgya/candy-chase/internal/agents"
	"github.com/talgya/candy-chase/internal/engine"
	"github.com/talgya/candy-chase/internal/grid"
)

// Server serves classroom state over HTTP.
type Server struct {
	Classroom *engine.Classroom
	Eng       *engine.Engine
	Port      int
}

// Start begins serving in a goroutine.
func (s *Server) Start() {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/grid", s.handleGrid)
	mux.HandleFunc("/api/v1/children", s.handleChildren)
	mux.HandleFunc("/api/v1/teachers", s.handleTeachers)
	mux.HandleFunc("/api/v1/events", s.handleEvents)
	mux.HandleFunc("/api/v1/stats", s.handleStats)

	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr)

	go func() {
		handler := corsMiddleware(mux)
		if err := http.ListenAndServe(addr, handler); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	width, height := s.Classroom.Bounds()
	stats := s.Classroom.CurrentStats()

	status := map[string]any{
		"tick":            s.Classroom.Tick(),
		"sim_time":        s.Classroom.Now(),
		"width":           width,
		"height":          height,
		"children":        len(s.Classroom.Children()),
		"teachers":        len(s.Classroom.Teachers()),
		"free_children":   stats.FreeChildren,
		"candies_eaten":   stats.CandiesEaten,
		"captures":        stats.Captures,
		"candies_on_grid": stats.CandiesOnGrid,
	}
	if s.Eng != nil {
		status["speed"] = s.Eng.Speed
		status["running"] = s.Eng.Running
	}
	writeJSON(w, status)
}

// handleGrid returns the cell contents as rows of short labels.
func (s *Server) handleGrid(w http.ResponseWriter, r *http.Request) {
	width, height := s.Classroom.Bounds()

	rows := make([][]string, height)
	for y := 0; y < height; y++ {
		row := make([]string, width)
		for x := 0; x < width; x++ {
			row[x] = grid.CellName(s.Classroom.CellAt(grid.Position{X: x, Y: y}))
		}
		rows[y] = row
	}

	writeJSON(w, map[string]any{
		"width":  width,
		"height": height,
		"cells":  rows,
	})
}

type childView struct {
	ID       int           `json:"id"`
	Position grid.Position `json:"position"`
	Strategy string        `json:"strategy"`
	Status   string        `json:"status"`
	Candies  int           `json:"candies"`
}

func (s *Server) handleChildren(w http.ResponseWriter, r *http.Request) {
	now := s.Classroom.Now()
	children := s.Classroom.Children()

	result := make([]childView, 0, len(children))
	for i, c := range children {
		status := "free"
		if c.StatusAt(now) == agents.StatusOnCooldown {
			status = "on_cooldown"
		}
		result = append(result, childView{
			ID:       i + 1,
			Position: c.Position,
			Strategy: agents.StrategyName(c.Strategy),
			Status:   status,
			Candies:  c.Candies,
		})
	}
	writeJSON(w, result)
}

type teacherView struct {
	ID       int               `json:"id"`
	Position grid.Position     `json:"position"`
	Zone     agents.PatrolZone `json:"zone"`
}

func (s *Server) handleTeachers(w http.ResponseWriter, r *http.Request) {
	teachers := s.Classroom.Teachers()

	result := make([]teacherView, 0, len(teachers))
	for i, t := range teachers {
		result = append(result, teacherView{ID: i + 1, Position: t.Position, Zone: t.Zone})
	}
	writeJSON(w, result)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	events := s.Classroom.Events()

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	start := 0
	if len(events) > limit {
		start = len(events) - limit
	}
	writeJSON(w, events[start:])
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Classroom.CurrentStats())
}

// corsMiddleware adds CORS headers for allowed frontend origins.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
