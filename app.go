package main

import (
	"context"
	"database/sql"

	"gitdeck/internal/logging"
	"gitdeck/internal/repos"
)

// App holds the Wails lifecycle context and long-lived resources.
type App struct {
	ctx         context.Context
	db          *sql.DB
	repoService *repos.Service
	log         logging.Logger
}

func NewApp(logger logging.Logger) *App {
	if logger == nil {
		logger = logging.Nop()
	}
	return &App{log: logger}
}

// startup is called when the app starts. The context is saved so runtime
// methods (dialogs, events) can use it.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
	a.log.Info("application started")
}

// Context returns the runtime context once startup has run, nil before.
func (a *App) Context() context.Context { return a.ctx }

// Version reports the application version to the frontend.
func (a *App) Version() string { return appVersion }

const appVersion = "0.1.0"
