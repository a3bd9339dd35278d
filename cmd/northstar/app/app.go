// Package app provides the application context and dependency management
// for the northstar CLI. It centralizes configuration, logging, and
// lazy construction of the store and reconciliation engine.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/northstarhq/northstar/internal/config"
	"github.com/northstarhq/northstar/internal/gemini"
	"github.com/northstarhq/northstar/internal/store"
	"github.com/northstarhq/northstar/pkg/reconcile"
)

// App represents the northstar application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string

	// Configuration
	config *Config

	// Logger
	logger *zerolog.Logger

	// Lazy-initialized singletons
	mu     sync.Mutex
	store  *store.Store
	engine *reconcile.Engine
}

// New creates a new App instance with the given version information.
func New(version, commit, date string) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
	}

	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	app.config = cfg

	logger := NewLogger(cfg)
	app.logger = &logger

	return app, nil
}

// Version returns the version string.
func (a *App) Version() string {
	return a.version
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// Store returns the SQLite store, opening it on first use.
func (a *App) Store() (*store.Store, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.store != nil {
		return a.store, nil
	}

	st, err := store.Open(a.config.DatabasePath)
	if err != nil {
		return nil, err
	}
	a.store = st
	return st, nil
}

// Engine returns the reconciliation engine, constructing it on first use.
// A missing API key does not fail construction; it surfaces as a
// configuration error on the first model call.
func (a *App) Engine() *reconcile.Engine {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.engine != nil {
		return a.engine
	}

	client := gemini.NewClient(config.GetString(config.KeyAPIKey))
	a.engine = reconcile.New(client,
		reconcile.WithModelOverride(config.ModelOverride()),
		reconcile.WithLogger(a.logger),
	)
	return a.engine
}

// Shutdown releases application resources.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.store != nil {
		err := a.store.Close()
		a.store = nil
		return err
	}
	return nil
}
