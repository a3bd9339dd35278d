// Package server provides the HTTP API for northstar: work item CRUD,
// completion, and the AI reconciliation endpoints.
package server

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/northstarhq/northstar/internal/store"
	"github.com/northstarhq/northstar/pkg/reconcile"
)

// Config holds server configuration.
type Config struct {
	Host         string
	Port         int
	PathPrefix   string
	CORSEnabled  bool
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultConfig returns the default server configuration.
func DefaultConfig() Config {
	return Config{
		Host:         "localhost",
		Port:         8080,
		PathPrefix:   "/api/v1",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}

// Server holds the HTTP server state and dependencies.
type Server struct {
	store     *store.Store
	engine    *reconcile.Engine
	logger    *zerolog.Logger
	config    Config
	startTime time.Time
}

// New creates a new server instance.
func New(st *store.Store, engine *reconcile.Engine, logger *zerolog.Logger, cfg Config) *Server {
	if cfg.PathPrefix == "" {
		cfg.PathPrefix = "/api/v1"
	}
	return &Server{
		store:     st,
		engine:    engine,
		logger:    logger,
		config:    cfg,
		startTime: time.Now(),
	}
}
