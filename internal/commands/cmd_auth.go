package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/hay-kot/todos/internal/auth"
	"github.com/hay-kot/todos/internal/core/styles"
	"github.com/hay-kot/todos/internal/printer"
	"github.com/hay-kot/todos/internal/todos"
	"github.com/hay-kot/todos/pkg/iojson"
)

// AuthCmd implements login, logout and whoami.
type AuthCmd struct {
	flags *Flags
	app   *todos.App
	stdin io.Reader

	token      string
	jsonOutput bool
}

// NewAuthCmd creates the session commands.
func NewAuthCmd(flags *Flags, app *todos.App) *AuthCmd {
	return &AuthCmd{flags: flags, app: app, stdin: os.Stdin}
}

// Register adds the session commands to the application.
func (cmd *AuthCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands,
		&cli.Command{
			Name:      "login",
			Usage:     "Store a bearer token for later runs",
			UsageText: "todos login [--token <token>]",
			Description: `Saves an identity token in the session store. Tokens carrying a JWT exp
claim are forgotten once they expire.

The token is read from --token, from a prompt when stdin is a terminal, or
from piped stdin.

Examples:
  todos login --token "$ID_TOKEN"
  pass show todos/token | todos login`,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:        "token",
					Usage:       "bearer token to store",
					Destination: &cmd.token,
				},
			},
			Action: cmd.runLogin,
		},
		&cli.Command{
			Name:   "logout",
			Usage:  "Forget the stored token",
			Action: cmd.runLogout,
		},
		&cli.Command{
			Name:      "whoami",
			Usage:     "Show the identity behind the current token",
			UsageText: "todos whoami [--json]",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:        "json",
					Usage:       "output as JSON",
					Destination: &cmd.jsonOutput,
				},
			},
			Action: cmd.runWhoami,
		},
	)

	return app
}

func (cmd *AuthCmd) sessions() (*auth.SessionStore, error) {
	if cmd.app.Sessions == nil {
		return nil, fmt.Errorf("session store is not available")
	}
	return cmd.app.Sessions, nil
}

func (cmd *AuthCmd) runLogin(ctx context.Context, _ *cli.Command) error {
	p := printer.Ctx(ctx)

	store, err := cmd.sessions()
	if err != nil {
		return err
	}

	tok := cmd.token
	if tok == "" {
		tok, err = cmd.readToken()
		if errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
		if err != nil {
			return err
		}
	}

	claims, err := store.Save(tok)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	who := claims.Display()
	if who == "" {
		who = "opaque token"
	}
	p.Success("Logged in", who)
	if !claims.ExpiresAt.IsZero() {
		p.Infof("expires %s", claims.ExpiresAt.Local().Format(time.DateTime))
	}

	return nil
}

func (cmd *AuthCmd) readToken() (string, error) {
	if f, ok := cmd.stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		var tok string
		err := huh.NewInput().
			Title("Token").
			EchoMode(huh.EchoModePassword).
			Validate(required("token")).
			Value(&tok).
			WithTheme(styles.FormTheme()).
			Run()
		return tok, err
	}

	b, err := io.ReadAll(cmd.stdin)
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	tok := strings.TrimSpace(string(b))
	if tok == "" {
		return "", fmt.Errorf("no token provided; use --token or pipe one on stdin")
	}
	return tok, nil
}

func (cmd *AuthCmd) runLogout(ctx context.Context, _ *cli.Command) error {
	store, err := cmd.sessions()
	if err != nil {
		return err
	}

	if err := store.Clear(); err != nil {
		return err
	}

	printer.Ctx(ctx).Successf("Logged out")
	return nil
}

func (cmd *AuthCmd) runWhoami(ctx context.Context, c *cli.Command) error {
	id, err := cmd.app.Whoami(ctx)
	if err != nil {
		return fmt.Errorf("whoami: %w", err)
	}

	if cmd.jsonOutput {
		return iojson.WriteLine(c.Root().Writer, id)
	}

	w := c.Root().Writer
	if id.Opaque {
		_, _ = fmt.Fprintln(w, "signed in with an opaque token")
		return nil
	}

	_, _ = fmt.Fprintln(w, id.Display())
	if !id.ExpiresAt.IsZero() {
		_, _ = fmt.Fprintf(w, "expires %s\n", id.ExpiresAt.Local().Format(time.DateTime))
	}
	return nil
}
