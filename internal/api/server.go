// Package api exposes a running simulation over HTTP: body CRUD,
// aggregate metrics, pause/resume/reset control, and scenario loading.
// All engine access goes through the runner's lock; handlers never
// touch the engine directly while a step is in flight.
package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/san-kum/cosmiclab/internal/physics"
	"github.com/san-kum/cosmiclab/internal/scenario"
	"github.com/san-kum/cosmiclab/internal/sim"
)

type Server struct {
	runner *sim.Runner
	seed   int64
}

func NewServer(runner *sim.Runner, seed int64) *Server {
	return &Server{runner: runner, seed: seed}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleInfo)
	mux.HandleFunc("GET /bodies", s.handleListBodies)
	mux.HandleFunc("POST /bodies", s.handleCreateBody)
	mux.HandleFunc("GET /bodies/{id}", s.handleGetBody)
	mux.HandleFunc("PUT /bodies/{id}", s.handleUpdateBody)
	mux.HandleFunc("DELETE /bodies/{id}", s.handleDeleteBody)
	mux.HandleFunc("GET /metrics", s.handleMetrics)
	mux.HandleFunc("GET /collisions", s.handleCollisions)
	mux.HandleFunc("POST /pause", s.handlePause)
	mux.HandleFunc("POST /resume", s.handleResume)
	mux.HandleFunc("POST /reset", s.handleReset)
	mux.HandleFunc("GET /scenarios", s.handleScenarios)
	mux.HandleFunc("POST /scenarios/{name}", s.handleLoadScenario)
	mux.HandleFunc("GET /status", s.handleStatus)

	return logRequests(mux)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)
		log.Printf("%s %s", r.Method, r.URL.Path)
	})
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name": "cosmiclab",
		"endpoints": map[string]string{
			"GET /bodies":            "list active bodies",
			"POST /bodies":           "add a body",
			"GET /bodies/{id}":       "get one body",
			"PUT /bodies/{id}":       "update a body",
			"DELETE /bodies/{id}":    "remove a body",
			"GET /metrics":           "aggregate simulation stats",
			"GET /collisions":        "recent collision events",
			"POST /pause":            "pause the simulation",
			"POST /resume":           "resume the simulation",
			"POST /reset":            "clear all bodies",
			"GET /scenarios":         "list scenario presets",
			"POST /scenarios/{name}": "load a scenario preset",
			"GET /status":            "server and simulation status",
		},
	})
}

func (s *Server) handleListBodies(w http.ResponseWriter, r *http.Request) {
	var out []bodyJSON
	s.runner.Do(func(e *physics.Engine) {
		for _, b := range e.Bodies() {
			out = append(out, toBodyJSON(b))
		}
	})
	if out == nil {
		out = []bodyJSON{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetBody(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var (
		out  bodyJSON
		fail error
	)
	s.runner.Do(func(e *physics.Engine) {
		b, err := e.BodyByID(id)
		if err != nil {
			fail = err
			return
		}
		out = toBodyJSON(b)
	})
	if fail != nil {
		writeError(w, http.StatusNotFound, "body not found")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateBody(w http.ResponseWriter, r *http.Request) {
	var req createBodyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	color := physics.Color{R: 100, G: 150, B: 255}
	if req.Color != nil {
		color = *req.Color
	}

	b, err := physics.NewBody(req.Name, req.Mass, req.Position, req.Velocity, req.Radius, color)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	b.Anchor = req.Anchor

	s.runner.Do(func(e *physics.Engine) {
		e.AddBody(b)
	})
	writeJSON(w, http.StatusCreated, map[string]string{"id": b.ID})
}

func (s *Server) handleUpdateBody(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req updateBodyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var fail error
	s.runner.Do(func(e *physics.Engine) {
		b, err := e.BodyByID(id)
		if err != nil {
			fail = err
			return
		}
		req.apply(b)
	})
	if fail != nil {
		writeError(w, http.StatusNotFound, "body not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handleDeleteBody(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var fail error
	s.runner.Do(func(e *physics.Engine) {
		if _, err := e.BodyByID(id); err != nil {
			fail = err
			return
		}
		e.RemoveBody(id)
	})
	if fail != nil {
		writeError(w, http.StatusNotFound, "body not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.runner.Stats())
}

func (s *Server) handleCollisions(w http.ResponseWriter, r *http.Request) {
	maxAge := physics.DefaultEventMaxAge
	if raw := r.URL.Query().Get("max_age"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "max_age must be a non-negative number")
			return
		}
		maxAge = parsed
	}

	var events []physics.CollisionEvent
	s.runner.Do(func(e *physics.Engine) {
		events = e.RecentCollisions(maxAge)
	})
	writeJSON(w, http.StatusOK, events)
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	s.runner.Do(func(e *physics.Engine) { e.Pause() })
	writeJSON(w, http.StatusOK, map[string]string{"status": "paused"})
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	s.runner.Do(func(e *physics.Engine) { e.Resume() })
	writeJSON(w, http.StatusOK, map[string]string{"status": "running"})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.runner.Do(func(e *physics.Engine) { e.ClearBodies() })
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (s *Server) handleScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenario.Names())
}

func (s *Server) handleLoadScenario(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	bodies, err := scenario.Build(name, s.seed)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	s.runner.Do(func(e *physics.Engine) {
		e.ClearBodies()
		for _, b := range bodies {
			e.AddBody(b)
		}
	})
	writeJSON(w, http.StatusOK, map[string]string{"status": fmt.Sprintf("scenario %s loaded", name)})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	stats := s.runner.Stats()
	writeJSON(w, http.StatusOK, map[string]any{
		"paused":          stats.Paused,
		"body_count":      stats.BodyCount,
		"simulation_time": stats.TimeElapsed,
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
