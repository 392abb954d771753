package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/tareas-app/tareas/internal/db"
)

// Server exposes the task listing read-only over HTTP. All mutations go
// through the board or the MCP tools.
type Server struct {
	db     *db.DB
	server *http.Server
}

func NewServer(database *db.DB) *Server {
	return &Server{db: database}
}

func (s *Server) Start(addr string) error {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/tareas", s.handleTasks)
	mux.HandleFunc("/api/categorias", s.handleCategories)

	s.server = &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request) {
	rows, err := s.db.ListTasks(r.Context())
	s.respond(w, rows, err)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.db.ListCategories(r.Context())
	s.respond(w, categories, err)
}

func (s *Server) respond(w http.ResponseWriter, data any, err error) {
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
