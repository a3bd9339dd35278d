package server

import (
	"net/http"
	"strings"

	"github.com/northstarhq/northstar/internal/server/middleware"
	"github.com/northstarhq/northstar/internal/server/response"
)

// Handler returns the configured http.Handler with the middleware chain
// applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.registerRoutes(mux)
	return s.applyMiddleware(mux)
}

// registerRoutes registers all HTTP routes.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	prefix := s.config.PathPrefix

	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc(prefix+"/health", s.handleHealth)

	mux.HandleFunc(prefix+"/okrs", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			s.handleListOKRs(w, r)
		case http.MethodPost:
			s.handleCreateOKR(w, r)
		default:
			response.MethodNotAllowed(w, r.Method)
		}
	})

	mux.HandleFunc(prefix+"/okrs/", func(w http.ResponseWriter, r *http.Request) {
		parts := splitPath(strings.TrimPrefix(r.URL.Path, prefix+"/okrs/"))
		if len(parts) == 0 {
			response.BadRequest(w, "OKR ID required", "")
			return
		}

		// Reconciliation endpoints live under the collection path.
		if parts[0] == "reconcile" {
			if r.Method != http.MethodPost {
				response.MethodNotAllowed(w, r.Method)
				return
			}
			if len(parts) == 1 {
				s.handleReconcile(w, r)
				return
			}
			if len(parts) == 2 && parts[1] == "questions" {
				s.handleQuestions(w, r)
				return
			}
			response.NotFound(w, "Not found", "")
			return
		}

		id := parts[0]
		if len(parts) == 1 {
			switch r.Method {
			case http.MethodGet:
				s.handleGetOKR(w, r, id)
			case http.MethodPatch:
				s.handleUpdateOKR(w, r, id)
			case http.MethodDelete:
				s.handleDeleteOKR(w, r, id)
			default:
				response.MethodNotAllowed(w, r.Method)
			}
			return
		}

		if len(parts) == 2 && parts[1] == "complete" {
			if r.Method != http.MethodPost {
				response.MethodNotAllowed(w, r.Method)
				return
			}
			s.handleCompleteOKR(w, r, id)
			return
		}

		response.NotFound(w, "Not found", "")
	})

	mux.HandleFunc(prefix+"/ai/reconcile", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			response.MethodNotAllowed(w, r.Method)
			return
		}
		s.handleAIReconcile(w, r)
	})
}

// applyMiddleware wraps the handler with the middleware chain.
func (s *Server) applyMiddleware(handler http.Handler) http.Handler {
	if s.config.CORSEnabled {
		handler = middleware.CORS()(handler)
	}
	handler = middleware.Logger(s.logger)(handler)
	handler = middleware.Recovery(s.logger)(handler)
	return handler
}

// splitPath splits a URL path into parts, removing empty strings.
func splitPath(path string) []string {
	parts := []string{}
	for _, part := range strings.Split(path, "/") {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}
