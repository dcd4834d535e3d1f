package cli

import (
	"github.com/alessandroavenali/fuel-logistics/internal/logistics/application/commands"
	"github.com/alessandroavenali/fuel-logistics/internal/logistics/application/queries"
)

// App holds the CLI application's handler dependencies.
type App struct {
	SolveRunHandler  *commands.SolveRunHandler
	GetRunHandler    *queries.GetRunHandler
	ListRunsHandler  *queries.ListRunsHandler
}

// NewApp creates a new CLI application with the provided handlers.
func NewApp(
	solveRunHandler *commands.SolveRunHandler,
	getRunHandler *queries.GetRunHandler,
	listRunsHandler *queries.ListRunsHandler,
) *App {
	return &App{
		SolveRunHandler: solveRunHandler,
		GetRunHandler:   getRunHandler,
		ListRunsHandler: listRunsHandler,
	}
}

// app is the global CLI application instance.
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}
