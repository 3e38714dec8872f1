// Read-only JSON API exposing the state of a running simulation.
package admin

import (
	"encoding/json"
	"net/http"

	"manetsim/internal/config"
	"manetsim/internal/sim"
)

// Server answers status queries while a run is in progress. All endpoints
// are read-only: the run itself is driven entirely by its configuration.
type Server struct {
	Orch *sim.Orchestrator
	Cfg  *config.Config
	mux  *http.ServeMux
}

// NewServer wires the handlers to an orchestrator.
func NewServer(orch *sim.Orchestrator, cfg *config.Config) *Server {
	s := &Server{Orch: orch, Cfg: cfg, mux: http.NewServeMux()}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("/status", s.handleStatus)
	s.mux.HandleFunc("/config", s.handleConfig)
	s.mux.HandleFunc("/spine", s.handleSpine)
	s.mux.HandleFunc("/healthz", s.handleHealthz)
}

// ServeHTTP makes the server mountable in tests and composites.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Start serves the API on addr, blocking.
func (s *Server) Start(addr string) error {
	return http.ListenAndServe(addr, s.mux)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Orch.Status())
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Cfg)
}

func (s *Server) handleSpine(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"run_id": s.Orch.RunID(),
		"nodes":  s.Orch.SpineIDs(),
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
