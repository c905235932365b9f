package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/radar/internal/catalog"
	"github.com/desertthunder/radar/internal/services"
	"github.com/desertthunder/radar/internal/shared"
	"github.com/desertthunder/radar/internal/tasks"
	"github.com/gofrs/flock"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// exitInterrupted is the status reported when a run is stopped by SIGINT.
const exitInterrupted = 130

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config      *shared.Config
	configPath  string
	catalog     catalog.Catalog
	engine      *tasks.Engine
	httpClient  *http.Client
	logger      *log.Logger
	logOutput   io.Writer
	output      io.Writer
	openBrowser func(string) error
	colorize    bool
	runID       string
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	// Catalog replaces the Spotify service built from the config.
	Catalog    catalog.Catalog
	HTTPClient *http.Client
	Logger     *log.Logger
	LogOutput  io.Writer
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.LogOutput == nil {
		opts.LogOutput = os.Stderr
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(opts.LogOutput, log.InfoLevel)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	r := &Runner{
		config:      opts.Config,
		configPath:  opts.ConfigPath,
		catalog:     opts.Catalog,
		httpClient:  opts.HTTPClient,
		logger:      opts.Logger,
		logOutput:   opts.LogOutput,
		output:      opts.Output,
		openBrowser: shared.OpenBrowser,
		colorize:    shouldColorize(opts.Output),
	}
	r.buildEngine()
	return r
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		updateCommand, showCommand, unionCommand, intersectionCommand,
		playlistsCommand, authCommand, tuiCommand, configCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Setup loads the config named by --config and a .env file beside it, builds the run logger
// and connects to Spotify when a token has been saved. It runs before every command.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	r.configPath = cmd.String("config")

	config, err := loadConfig(r.configPath)
	if err != nil {
		return ctx, err
	}
	if err := config.ApplyDotEnv(filepath.Join(filepath.Dir(r.configPath), ".env")); err != nil {
		return ctx, err
	}
	config.ApplyEnv()
	if err := config.Validate(); err != nil {
		return ctx, err
	}
	r.config = config

	level, err := shared.ParseLogLevel(config.Log.Level)
	if err != nil {
		return ctx, err
	}
	if cmd.Bool("debug") {
		level = log.DebugLevel
	}

	r.runID = shared.GenerateID()
	r.logger = shared.WithLogger(shared.NewLogger(r.logOutput, level), "run", r.runID[:8])
	r.logger.Debug("loaded configuration", "path", r.configPath)

	if r.catalog == nil {
		if err := r.connect(ctx); err != nil {
			return ctx, err
		}
	}
	r.buildEngine()

	return ctx, nil
}

func loadConfig(path string) (*shared.Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return shared.DefaultConfig(), nil
	}
	return shared.LoadConfig(path)
}

// connect installs the Spotify service as the catalog when credentials and a token are configured.
func (r *Runner) connect(ctx context.Context) error {
	creds := r.config.Credentials.Spotify
	token := creds.Token()
	if creds.ClientID == "" || creds.ClientSecret == "" || token == nil {
		return nil
	}

	svc, err := r.newSpotify()
	if err != nil {
		return err
	}
	if err := svc.OAuthenticate(ctx, token); err != nil {
		return err
	}
	svc.SetTokenRefreshCallback(r.saveToken)

	r.catalog = svc
	return nil
}

func (r *Runner) newSpotify() (*services.SpotifyService, error) {
	svc, err := services.NewSpotifyService(r.config.Credentials.Spotify.Map(),
		services.WithHTTPClient(r.httpClient),
		services.WithRateLimit(r.config.API.RequestsPerSecond),
		services.WithMaxRetries(r.config.API.MaxRetries),
		services.WithLogger(r.logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Spotify service: %w", err)
	}
	return svc, nil
}

// saveToken persists a refreshed token so the next run starts with it.
func (r *Runner) saveToken(token *oauth2.Token) {
	if err := r.config.Credentials.Spotify.Update(token); err != nil {
		r.logger.Warn("ignoring refreshed token", "error", err)
		return
	}
	if err := shared.SaveConfig(r.configPath, r.config); err != nil {
		r.logger.Warn("failed to save refreshed token", "path", r.configPath, "error", err)
		return
	}
	r.logger.Debug("saved refreshed token", "path", r.configPath)
}

func (r *Runner) buildEngine() {
	if r.catalog == nil {
		r.engine = nil
		return
	}
	r.engine = tasks.NewEngine(r.catalog, r.logger, tasks.Options{
		VariousArtistsID: r.config.Radar.VariousArtistsID,
		Description:      r.config.Radar.Description,
	})
}

// SetLogger replaces the logger used by the runner and its engine.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
	r.buildEngine()
}

// requireEngine reports why no catalog is available.
func (r *Runner) requireEngine() error {
	if r.engine != nil {
		return nil
	}
	creds := r.config.Credentials.Spotify
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return fmt.Errorf("%w: set client_id and client_secret in %s or SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET",
			shared.ErrMissingCredentials, r.configPath)
	}
	return fmt.Errorf("%w: no saved token, run `radar auth` first", shared.ErrNotAuthenticated)
}

// window returns the --days flag, or the configured default, as a duration.
func (r *Runner) window(cmd *cli.Command) (time.Duration, error) {
	days := cmd.Int("days")
	if days == 0 {
		days = r.config.Radar.Days
	}
	if days <= 0 {
		return 0, fmt.Errorf("%w: --days must be positive, got %d", shared.ErrInvalidArgument, days)
	}
	return time.Duration(days) * 24 * time.Hour, nil
}

func (r *Runner) playlistName(cmd *cli.Command) string {
	if name := cmd.String("playlist"); name != "" {
		return name
	}
	return r.config.Radar.Playlist
}

// watch logs progress updates until the returned stop function is called.
func (r *Runner) watch() (chan tasks.ProgressUpdate, func()) {
	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for update := range progress {
			if update.Phase == tasks.FetchAlbums {
				r.logger.Debug(update.Message, "step", update.Step, "total", update.Total)
				continue
			}
			r.logger.Info(update.Message, "phase", update.Phase)
		}
	}()

	return progress, func() {
		close(progress)
		<-done
	}
}

// lock takes the run lock next to the config file. Commands that write playlists or tokens hold it.
func (r *Runner) lock() (func(), error) {
	fl := flock.New(r.configPath + ".lock")
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire run lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s is held", shared.ErrLocked, fl.Path())
	}
	return func() {
		if err := fl.Unlock(); err != nil {
			r.logger.Warn("failed to release run lock", "path", fl.Path(), "error", err)
		}
	}, nil
}

func shouldColorize(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// style applies a palette helper when writing to a terminal.
func (r *Runner) style(fn func(string) string, s string) string {
	if !r.colorize {
		return s
	}
	return fn(s)
}

// exitCode logs err and maps it to a process status.
func (r *Runner) exitCode(err error) int {
	switch {
	case errors.Is(err, context.Canceled):
		r.logger.Warn("interrupted: ending query early")
		return exitInterrupted
	case errors.Is(err, shared.ErrNotAuthenticated), errors.Is(err, shared.ErrTokenExpired):
		r.logger.Error("application error", "error", err, "hint", "run `radar auth` to authorize")
	default:
		r.logger.Error("application error", "error", err)
	}
	return 1
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	return r.writePlain(format+"\n", args...)
}
