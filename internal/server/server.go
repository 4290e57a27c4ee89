// Package server provides the HTTP transport and routing for the MCP server.
package server

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"nih-reporter-mcp/internal/mcp"
)

// Config contains HTTP transport configuration.
type Config struct {
	Port  string
	Token string
}

// Server wraps the JSON-RPC dispatcher with a chi router, bearer-token auth,
// and session tracking.
type Server struct {
	cfg      Config
	router   *chi.Mux
	mcp      *mcp.Server
	sessions *SessionStore
	log      zerolog.Logger
}

// sessionTTL bounds how long an issued Mcp-Session-Id stays valid.
const sessionTTL = 24 * time.Hour

// New constructs a Server with middleware and routes configured.
func New(cfg Config, m *mcp.Server, logger zerolog.Logger) *Server {
	s := &Server{
		cfg:      cfg,
		router:   chi.NewRouter(),
		mcp:      m,
		sessions: NewSessionStore(),
		log:      logger,
	}
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.logging)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Get("/health", s.handleHealth)

	s.router.Route("/mcp", func(r chi.Router) {
		r.Use(s.auth)
		r.Post("/", s.handleRPC)
		r.Get("/tools", s.handleListTools)
		r.Post("/call", s.handleCall)
	})

	return s
}

// Router exposes the root HTTP handler for the server.
func (s *Server) Router() http.Handler { return s.router }

func (s *Server) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.Token == "" {
			next.ServeHTTP(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer "+s.cfg.Token {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleRPC carries one JSON-RPC message per POST, the HTTP equivalent of one
// stdio line. initialize issues an Mcp-Session-Id header.
func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	var req mcp.Request
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, http.StatusOK, mcp.Response{
			JSONRPC: "2.0",
			Error:   &mcp.RPCError{Code: mcp.CodeParseError, Message: "parse error"},
		})
		return
	}

	if req.ID == nil {
		s.mcp.HandleNotification(req)
		w.WriteHeader(http.StatusAccepted)
		return
	}

	if req.Method != "initialize" {
		if sid := r.Header.Get("Mcp-Session-Id"); sid != "" && !s.sessions.Valid(sid) {
			writeJSON(w, http.StatusOK, mcp.Response{
				JSONRPC: "2.0",
				ID:      req.ID,
				Error:   &mcp.RPCError{Code: mcp.CodeInvalidRequest, Message: "invalid session"},
			})
			return
		}
	}

	resp := s.mcp.Dispatch(r.Context(), req)

	if req.Method == "initialize" && resp.Error == nil {
		sid := uuid.NewString()
		s.sessions.Add(sid, sessionTTL)
		w.Header().Set("Mcp-Session-Id", sid)
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListTools(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"tools": s.mcp.Tools()})
}

func (s *Server) handleCall(w http.ResponseWriter, r *http.Request) {
	var req CallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	result, ok := s.mcp.Call(r.Context(), req.Name, req.Args)
	if !ok {
		http.Error(w, "unknown tool", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
