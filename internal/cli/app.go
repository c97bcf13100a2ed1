package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/Makepad-fr/tada/internal/api"
	"github.com/Makepad-fr/tada/internal/apperr"
	"github.com/Makepad-fr/tada/internal/auth"
	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/logging"
	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/tui"
	"github.com/Makepad-fr/tada/internal/ui"
)

// App wires configuration into the client, session and store.
type App struct {
	cfg    *config.Config
	logger *log.Logger
	closer io.Closer
	theme  ui.Theme

	client *api.Client
	creds  *auth.FileStore
	auth   *auth.Service
	store  *store.Store

	in  *bufio.Reader
	raw io.Reader
	out io.Writer
	err io.Writer
}

// NewApp builds the dependencies for one command run.
func NewApp(cfg *config.Config, streams Streams) (*App, error) {
	logger, closer, err := logging.OpenFile(cfg.LogFile, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	creds := auth.NewFileStore(cfg.CredentialsFile)
	client := api.New(cfg.Server, cfg.Timeout.Duration, creds, api.WithLogger(logger))
	svc := auth.NewService(client, creds, logger)
	st := store.New(client, logger)
	st.OnUnauthorized = svc.Expire

	logger.Debug("config resolved", "server", cfg.Server, "file", cfg.Path, "theme", cfg.Theme)
	return &App{
		cfg:    cfg,
		logger: logger,
		closer: closer,
		theme:  ui.NewTheme(cfg.Theme),
		client: client,
		creds:  creds,
		auth:   svc,
		store:  st,
		in:     bufio.NewReader(streams.In),
		raw:    streams.In,
		out:    streams.Out,
		err:    streams.Err,
	}, nil
}

func (a *App) Close() {
	if a.closer != nil {
		_ = a.closer.Close()
	}
}

func (a *App) runUI() error {
	app := tui.New(a.auth, a.store, tui.Options{
		Theme:    a.theme,
		ToastTTL: a.cfg.ToastTTL.Duration,
		Logger:   a.logger,
	})
	if err := tui.Run(app); err != nil {
		return apperr.Unexpected("terminal UI failed", err)
	}
	return nil
}

// requireSession fails fast when nobody is logged in.
func (a *App) requireSession() error {
	sess, err := a.auth.Current()
	if err != nil {
		return apperr.Unexpected("could not read the stored session", err)
	}
	if sess == nil {
		return apperr.Unauthorized("not logged in")
	}
	return nil
}

// load fetches the list after checking for a session.
func (a *App) load(ctx context.Context) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	return a.store.Load(ctx)
}

// prompt prints label and reads one trimmed line.
func (a *App) prompt(label string) (string, error) {
	fmt.Fprint(a.err, label)
	line, err := a.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", apperr.Cancelled("no input")
	}
	return strings.TrimSpace(line), nil
}

// secret reads a password without echo when stdin is a terminal.
func (a *App) secret(label string) (string, error) {
	if f, ok := a.raw.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(a.err, label)
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(a.err)
		if err != nil {
			return "", apperr.Cancelled("no input")
		}
		return string(b), nil
	}
	line, err := a.prompt(label)
	if err != nil {
		return "", err
	}
	return line, nil
}

// confirm asks a y/N question; anything but y or yes is no.
func (a *App) confirm(question string) bool {
	answer, err := a.prompt(question + " [y/N] ")
	if err != nil {
		return false
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	}
	return false
}

// width is the output width for list lines.
func (a *App) width() int {
	if f, ok := a.out.(*os.File); ok {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			return w
		}
	}
	return 80
}
