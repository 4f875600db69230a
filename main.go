package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/todos/internal/auth"
	"github.com/hay-kot/todos/internal/commands"
	"github.com/hay-kot/todos/internal/core/config"
	"github.com/hay-kot/todos/internal/core/logging"
	"github.com/hay-kot/todos/internal/core/styles"
	"github.com/hay-kot/todos/internal/remote"
	"github.com/hay-kot/todos/internal/todos"
	"github.com/hay-kot/todos/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	// When installed via `go install module@version`, ldflags aren't set
	// so version remains "dev". Fall back to runtime/debug.BuildInfo which
	// Go populates automatically with the module version and VCS metadata.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := context.Background()

	var (
		logCloser func()
		todosApp  = &todos.App{}
	)

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "todos",
		Usage:     "Manage your personal task list",
		UsageText: "todos [global options] command [command options]",
		Description: `todos is a client for a remote task service. Tasks have a title, an optional
description, a due day and a priority, and are either pending or completed.

Run 'todos' with no arguments to open the interactive task list.
Run 'todos login' to store a token, or set $TODOS_TOKEN.`,
		Version:               build(),
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("TODOS_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/todos.log, - for stderr)",
				Sources:     cli.EnvVars("TODOS_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("TODOS_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("TODOS_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
			&cli.StringFlag{
				Name:        "token",
				Usage:       "bearer token for this run, overriding any stored session",
				Destination: &flags.Token,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			// Always log to a file; use explicit path or default to <datadir>/todos.log
			logFile := flags.LogFile
			if logFile == "" {
				logFile = commands.DefaultLogFile(flags.DataDir)
			}

			logger, closer, err := logutils.New(flags.LogLevel, logFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger.Hook(logging.ContextHook{})
			logCloser = closer

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			flags.Config = cfg

			// Apply configured theme (validation ensures name is valid)
			if palette, ok := styles.GetPalette(cfg.TUI.Theme); ok {
				styles.SetTheme(palette)
			}

			tokens := auth.Chain{
				auth.StaticSource(flags.Token),
				auth.StaticSource(cfg.Auth.Token),
				auth.EnvSource(cfg.Auth.TokenEnv),
			}

			sessions, err := auth.OpenSessionStore(cfg.Auth.SessionFile, logging.Component("session"))
			if err != nil {
				log.Warn().Err(err).Msg("session store unavailable; stored logins are disabled")
			} else {
				tokens = append(tokens, sessions)
			}

			client, err := remote.NewClient(remote.Options{
				Endpoint:  cfg.API.Endpoint,
				Tokens:    tokens,
				Timeout:   cfg.API.Timeout,
				UserAgent: cfg.API.UserAgent + "/" + version,
				Logger:    logging.Component("remote"),
			})
			if err != nil {
				return ctx, fmt.Errorf("create client: %w", err)
			}

			// Populate the pre-allocated App struct (commands already hold a pointer to it)
			*todosApp = *todos.NewApp(cfg, client, tokens, sessions)

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			todosApp.Close(log.Logger)

			// Close log file
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	tuiCmd := commands.NewTuiCmd(flags, todosApp)

	app = commands.NewLsCmd(flags, todosApp).Register(app)
	app = commands.NewAddCmd(flags, todosApp).Register(app)
	app = commands.NewImportCmd(flags, todosApp).Register(app)
	app = commands.NewEditCmd(flags, todosApp).Register(app)
	app = commands.NewDoneCmd(flags, todosApp).Register(app)
	app = commands.NewRmCmd(flags, todosApp).Register(app)
	app = commands.NewExportCmd(flags, todosApp).Register(app)
	app = commands.NewAuthCmd(flags, todosApp).Register(app)
	app = commands.NewServeCmd(flags).Register(app)
	app = commands.NewConfigValidateCmd(flags).Register(app)

	// Register TUI flags on root command
	app.Flags = append(app.Flags, tuiCmd.Flags()...)

	// Set TUI as default action when no subcommand is provided
	app.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'todos --help' for usage", c.Args().First())
		}
		return tuiCmd.Run(ctx, c)
	}

	exitCode := 0
	runErr := app.Run(ctx, os.Args)
	if runErr != nil {
		fmt.Println()
		fmt.Println(runErr.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
