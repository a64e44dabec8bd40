// Package api serves a solved trajectory to downstream consumers over
// HTTP: pose (position/velocity/acceleration) lookups at arbitrary query
// times.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/flaxengeo/lidartraj/internal/traj"
)

// Server answers pose queries against one fitted trajectory.
type Server struct {
	tr *traj.Trajectory
}

// NewServer returns a server over the given fitted trajectory.
func NewServer(tr *traj.Trajectory) *Server {
	return &Server{tr: tr}
}

// Pose is the JSON response for a pose query.
type Pose struct {
	Time         float64    `json:"time"`
	Position     [3]float64 `json:"position"`
	Velocity     [3]float64 `json:"velocity"`
	Acceleration [3]float64 `json:"acceleration"`
}

func (s *Server) homeHandler(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("Trajectory pose server. Query /api/pose?t=<seconds>.\n"))
}

// ServeMux returns the route table for the server.
func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/pose", s.poseHandler)
	mux.HandleFunc("/api/fit", s.fitHandler)
	mux.HandleFunc("/", s.homeHandler)
	return mux
}

func (s *Server) poseHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	t, err := strconv.ParseFloat(r.URL.Query().Get("t"), 64)
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid query time: %v", err), http.StatusBadRequest)
		return
	}

	pos, vel, acc, err := s.tr.PositionVelocityAccel(t)
	if err != nil {
		http.Error(w, fmt.Sprintf("pose query failed: %v", err), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(Pose{
		Time:         t,
		Position:     pos,
		Velocity:     vel,
		Acceleration: acc,
	})
}

// fitHandler reports the fitted range so clients can plan their queries.
func (s *Server) fitHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"num_blocks":     s.tr.NumBlocks(),
		"block_duration": s.tr.BlockDuration(),
		"start_time":     s.tr.StartTime(),
		"end_time":       s.tr.NodeTime(s.tr.NumBlocks()),
		"solved":         s.tr.Solved(),
	})
}
