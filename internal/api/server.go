// Package api provides the HTTP observation API for the economy.
// GET endpoints are public (read-only observation).
// POST endpoints require a bearer token (admin control plane).
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"boxlands/internal/agents"
	"boxlands/internal/engine"
	"boxlands/internal/persistence"
)

// Server serves the economy state over HTTP.
type Server struct {
	Sim      *engine.Simulation
	Eng      *engine.Engine
	Store    *persistence.Store
	Port     int
	AdminKey string // Bearer token for POST endpoints. Empty = POST disabled.
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	mux := http.NewServeMux()

	// Public endpoints (GET, read-only).
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/citizens", s.handleCitizens)
	mux.HandleFunc("/api/v1/citizen/", s.handleCitizenDetail)
	mux.HandleFunc("/api/v1/economy", s.handleEconomy)
	mux.HandleFunc("/api/v1/chart", s.handleChart)

	// Admin endpoints (POST, require bearer token).
	mux.HandleFunc("/api/v1/speed", s.adminOnly(s.handleSpeed))
	mux.HandleFunc("/api/v1/spawn", s.adminOnly(s.handleSpawn))

	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "")

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := s.Sim.Status()
	writeJSON(w, map[string]any{
		"name":    "Boxlands",
		"speed":   s.Eng.Speed,
		"running": s.Eng.Running,
		"status":  status,
	})
}

func (s *Server) handleCitizens(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Sim.CitizenViews())
}

// handleCitizenDetail serves GET /api/v1/citizen/:id.
func (s *Server) handleCitizenDetail(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimPrefix(r.URL.Path, "/api/v1/citizen/")
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		http.Error(w, "invalid citizen id", http.StatusBadRequest)
		return
	}
	view, ok := s.Sim.CitizenByID(agents.CitizenID(id))
	if !ok {
		http.Error(w, "citizen not found", http.StatusNotFound)
		return
	}
	writeJSON(w, view)
}

func (s *Server) handleEconomy(w http.ResponseWriter, r *http.Request) {
	status := s.Sim.Status()
	resp := map[string]any{
		"cumulative_gdp":        status.CumulativeGDP,
		"periodic_gdp":          status.PeriodicGDP,
		"average_trading_price": status.AverageTradingPrice,
		"average_valuation":     status.AverageValuation,
		"trades_settled":        status.TradesSettled,
		"total_money":           status.TotalMoney,
	}

	if s.Store != nil {
		if history, err := s.Store.PeriodHistory(100); err == nil {
			resp["period_history"] = history
		} else {
			slog.Error("period history read failed", "error", err)
		}
	}
	writeJSON(w, resp)
}

// handleSpeed sets the wall-clock speed multiplier: POST {"speed": 2.0}.
// 0 pauses the simulation.
func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Speed float64 `json:"speed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if req.Speed < 0 || req.Speed > 100 {
		http.Error(w, "speed must be in [0,100]", http.StatusBadRequest)
		return
	}
	s.Eng.Speed = req.Speed
	slog.Info("speed changed", "speed", req.Speed)
	writeJSON(w, map[string]any{"speed": req.Speed})
}

// handleSpawn adds a citizen at a random field position: POST, no body.
func (s *Server) handleSpawn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	view, err := s.Sim.SpawnCitizen()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	slog.Info("citizen spawned via API", "name", view.Name, "id", view.ID)
	writeJSON(w, view)
}

// adminOnly wraps a handler to require bearer token auth on POST.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if s.AdminKey == "" {
				http.Error(w, "admin endpoints disabled (no admin key set)", http.StatusForbidden)
				return
			}
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") || strings.TrimPrefix(auth, "Bearer ") != s.AdminKey {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}
		next(w, r)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("JSON encode failed", "error", err)
	}
}
