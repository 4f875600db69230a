package commands

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/todos/internal/core/logging"
	"github.com/hay-kot/todos/internal/printer"
	"github.com/hay-kot/todos/internal/remote/devserver"
	"github.com/hay-kot/todos/pkg/httpserver"
)

type ServeCmd struct {
	flags *Flags

	addr   string
	secret string
	mint   string
	ttl    time.Duration
	pprof  bool
}

// NewServeCmd creates a new serve command
func NewServeCmd(flags *Flags) *ServeCmd {
	return &ServeCmd{flags: flags}
}

// Register adds the serve command to the application
func (cmd *ServeCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "serve",
		Usage:     "Run a local in-memory task service",
		UsageText: "todos serve [--addr <host:port>] [--secret <secret>] [--mint <user>]",
		Description: `Serves the /todos REST API from memory for local development. Tasks are
kept per user, keyed by the bearer token's sub claim, and are lost on exit.

With --secret, tokens must be HS256 JWTs signed with that secret. --mint
prints such a token for the given user before serving.

Examples:
  todos serve
  todos serve --secret dev --mint ada`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address (defaults to server.addr)",
				Destination: &cmd.addr,
			},
			&cli.StringFlag{
				Name:        "secret",
				Usage:       "HS256 secret for verifying tokens (defaults to server.secret)",
				Sources:     cli.EnvVars("TODOS_SERVER_SECRET"),
				Destination: &cmd.secret,
			},
			&cli.StringFlag{
				Name:        "mint",
				Usage:       "print a signed token for this user (requires a secret)",
				Destination: &cmd.mint,
			},
			&cli.DurationFlag{
				Name:        "ttl",
				Usage:       "lifetime of the minted token",
				Value:       24 * time.Hour,
				Destination: &cmd.ttl,
			},
			&cli.BoolFlag{
				Name:        "pprof",
				Usage:       "also serve /debug/pprof/",
				Destination: &cmd.pprof,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ServeCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)
	cfg := cmd.flags.Config.Server

	addr := cmd.addr
	if addr == "" {
		addr = cfg.Addr
	}
	secret := cmd.secret
	if secret == "" {
		secret = cfg.Secret
	}

	if cmd.mint != "" {
		tok, err := devserver.MintToken(secret, cmd.mint, cmd.ttl)
		if err != nil {
			return fmt.Errorf("mint token: %w", err)
		}
		_, _ = fmt.Fprintln(c.Root().Writer, tok)
	}

	var handler http.Handler = devserver.New(devserver.Options{
		Secret: secret,
		Logger: logging.Component("devserver"),
	})
	if cmd.pprof {
		mux := http.NewServeMux()
		mux.Handle("/debug/pprof/", httpserver.Pprof())
		mux.Handle("/", handler)
		handler = mux
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := httpserver.New(addr, handler, logging.Component("serve"))
	if err := srv.Start(ctx); err != nil {
		return err
	}

	p.Success("Serving tasks", "http://"+srv.Addr())
	if secret == "" {
		p.Warnf("no secret set; any bearer token is accepted")
	}

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
