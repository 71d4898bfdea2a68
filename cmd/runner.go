package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mikehinnen/spotify-cycling-sorter/internal/services"
	"github.com/mikehinnen/spotify-cycling-sorter/internal/shared"
	"github.com/mikehinnen/spotify-cycling-sorter/internal/tasks"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// Runner holds the shared dependencies for all CLI commands.
type Runner struct {
	config     *shared.Config
	configPath string
	service    services.Service
	engine     *tasks.PlaylistSortEngine
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains the dependencies for creating a Runner.
// Nil fields are replaced with defaults.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Service    services.Service
	Engine     *tasks.PlaylistSortEngine
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a Runner from the given options, filling in defaults
// for anything left nil.
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Engine == nil && opts.Service != nil {
		opts.Engine = tasks.NewPlaylistSortEngine(opts.Service)
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		service:    opts.Service,
		engine:     opts.Engine,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

// SetLogger replaces the runner's logger (used by the TUI to redirect logs to a file).
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// register returns all top-level commands for the CLI.
func (r *Runner) register() []*cli.Command {
	factories := []func(*Runner) *cli.Command{
		setupCommand,
		authCommand,
		playlistsCommand,
		tracksCommand,
		sortCommand,
		exportCommand,
		cacheCommand,
		tuiCommand,
	}

	commands := make([]*cli.Command, 0, len(factories))
	for _, factory := range factories {
		commands = append(commands, factory(r))
	}
	return commands
}

// saveTokens updates the in-memory config with the token and persists it
// back to the config file when a path is known.
func (r *Runner) saveTokens(token *oauth2.Token) error {
	if r.config == nil {
		return fmt.Errorf("config is nil")
	}

	if err := r.config.Credentials.Spotify.Update(token); err != nil {
		return fmt.Errorf("failed to update spotify configuration: %w", err)
	}

	if r.configPath == "" {
		return nil
	}

	if err := shared.SaveConfig(r.configPath, r.config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// writeJSON marshals data to JSON and writes it to the runner's output.
func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}
	return nil
}

// writePlain writes formatted plain text to the runner's output.
func (r *Runner) writePlain(format string, args ...any) error {
	if _, err := fmt.Fprintf(r.output, format, args...); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// writePlainln writes a formatted line to the runner's output.
func (r *Runner) writePlainln(format string, args ...any) error {
	return r.writePlain(format+"\n", args...)
}

// writePlainHeader writes a section header with rules above and below.
func (r *Runner) writePlainHeader(text string) error {
	bar := strings.Repeat("═", len(text)+2)
	return r.writePlain("%s\n %s\n%s\n", bar, text, bar)
}
