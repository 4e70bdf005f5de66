package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/devricklin/tg-relay-bridge/internal/biz/usecase"
)

// Admin is the operator capability the API exposes
type Admin interface {
	Inspect(ctx context.Context, id string) (*usecase.CorrespondentView, error)
	FindByThread(ctx context.Context, threadID string) (*usecase.CorrespondentView, bool, error)
	SetBlocked(ctx context.Context, id string, blocked bool) (*usecase.CorrespondentView, error)
}

// Server provides the local HTTP API used by relay-mcp and operators
type Server struct {
	admin  Admin
	addr   string
	server *http.Server
	log    *logrus.Entry
}

// NewServer creates a new API server
func NewServer(admin Admin, addr string) *Server {
	s := &Server{
		admin: admin,
		addr:  addr,
		log:   logrus.WithField("component", "api"),
	}
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the routed HTTP handler
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	// Correspondents
	r.HandleFunc("/api/correspondents/{id}", s.handleGetCorrespondent).Methods(http.MethodGet)
	r.HandleFunc("/api/correspondents/{id}/block", s.handleBlock(true)).Methods(http.MethodPost)
	r.HandleFunc("/api/correspondents/{id}/unblock", s.handleBlock(false)).Methods(http.MethodPost)

	// Reverse lookup
	r.HandleFunc("/api/threads/{threadID}", s.handleGetThread).Methods(http.MethodGet)

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	return r
}

// Start starts the HTTP server in the background
func (s *Server) Start() error {
	s.log.WithField("addr", s.addr).Info("Admin API listening")
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.WithError(err).Error("Admin API stopped")
		}
	}()
	return nil
}

// Stop stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// ============ Correspondent Handlers ============

func (s *Server) handleGetCorrespondent(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	view, err := s.admin.Inspect(r.Context(), id)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, view)
}

func (s *Server) handleBlock(blocked bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		view, err := s.admin.SetBlocked(r.Context(), id, blocked)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err)
			return
		}
		s.log.WithField("correspondent", id).WithField("blocked", blocked).Info("Moderation applied via API")
		s.writeJSON(w, view)
	}
}

func (s *Server) handleGetThread(w http.ResponseWriter, r *http.Request) {
	threadID := mux.Vars(r)["threadID"]
	view, ok, err := s.admin.FindByThread(r.Context(), threadID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if !ok {
		s.writeError(w, http.StatusNotFound, errors.New("no correspondent bound to thread"))
		return
	}
	s.writeJSON(w, view)
}

// ============ Helpers ============

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
