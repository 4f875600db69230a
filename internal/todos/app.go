package todos

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/hay-kot/todos/internal/auth"
	"github.com/hay-kot/todos/internal/core/config"
	"github.com/hay-kot/todos/internal/core/logging"
	"github.com/hay-kot/todos/internal/core/task"
	"github.com/hay-kot/todos/internal/remote"
)

// App is the central entry point for all todos operations. Commands and the
// TUI consume App instead of cherry-picking raw dependencies.
type App struct {
	Tasks  *Controller
	Editor *Editor
	Form   *CreateForm

	Config   *config.Config
	Remote   remote.Service
	Tokens   auth.TokenSource
	Sessions *auth.SessionStore
}

// NewApp constructs an App from explicit dependencies.
func NewApp(cfg *config.Config, svc remote.Service, tokens auth.TokenSource, sessions *auth.SessionStore) *App {
	list := remote.ListOptions{
		Status: cfg.List.Status,
		Limit:  cfg.List.Limit,
		SortBy: cfg.List.SortBy,
	}

	return &App{
		Tasks:    NewController(svc, list, logging.Component("controller")),
		Editor:   NewEditor(),
		Form:     NewCreateForm(),
		Config:   cfg,
		Remote:   svc,
		Tokens:   tokens,
		Sessions: sessions,
	}
}

// Identity describes the signed-in user as far as the token reveals.
type Identity struct {
	auth.Claims
	// Opaque is true when the token is not a JWT and carries no claims.
	Opaque bool `json:"opaque"`
}

// Whoami resolves the current token and decodes its claims.
func (a *App) Whoami(ctx context.Context) (Identity, error) {
	tok, err := a.Tokens.Token(ctx)
	if err != nil {
		return Identity{}, err
	}

	claims, err := auth.ParseClaims(tok)
	if errors.Is(err, auth.ErrOpaqueToken) {
		return Identity{Opaque: true}, nil
	}
	if err != nil {
		return Identity{}, err
	}
	return Identity{Claims: claims}, nil
}

// ExportICS refreshes the collection and writes it as iCalendar VTODOs.
func (a *App) ExportICS(ctx context.Context, w io.Writer) (int, error) {
	if res := a.Tasks.Refresh(ctx); !res.OK() {
		return 0, res.Err
	}

	tasks := a.Tasks.Tasks()
	if err := task.WriteICS(w, tasks, time.Now()); err != nil {
		return 0, fmt.Errorf("write calendar: %w", err)
	}
	return len(tasks), nil
}

// Close releases resources held by the app.
func (a *App) Close(log zerolog.Logger) {
	if a.Sessions != nil {
		if err := a.Sessions.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close session store")
		}
	}
}
