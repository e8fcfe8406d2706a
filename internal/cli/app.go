package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"pkt.systems/pslog"

	"github.com/roach88/recipebox/internal/category"
	"github.com/roach88/recipebox/internal/config"
	"github.com/roach88/recipebox/internal/metrics"
	"github.com/roach88/recipebox/internal/navigation"
	"github.com/roach88/recipebox/internal/repository"
	"github.com/roach88/recipebox/internal/store"
	"github.com/roach88/recipebox/internal/validate"
)

// App is the wiring shared by every command that touches the collection.
type App struct {
	Config    config.Config
	Store     *store.Store
	Repo      *repository.Repository
	Nav       *navigation.Bus
	Registry  *prometheus.Registry
	Metrics   *metrics.Metrics
	Localizer *validate.Localizer
	Log       pslog.Logger
}

// openApp loads configuration and opens the store and repository. The
// returned context carries the app logger.
func openApp(cmd *cobra.Command, opts *RootOptions) (context.Context, *App, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "load config", err)
	}
	if opts.DBPath != "" {
		cfg.Database.Path = opts.DBPath
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	log := commandLogger(ctx, cmd, opts, cfg)
	ctx = pslog.ContextWithLogger(ctx, log)

	st, err := store.Open(cfg.Database.Path,
		store.WithDestructiveMigration(cfg.Database.DestructiveMigration),
		store.WithLogger(log),
	)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "open database", err)
	}

	var src category.Source = category.Bundled()
	if cfg.Categories.Asset != "" {
		src = category.NewFileSource(cfg.Categories.Asset)
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	app := &App{
		Config:    cfg,
		Store:     st,
		Repo:      repository.New(ctx, st, src, repository.WithLogger(log), repository.WithMetrics(m)),
		Nav:       navigation.NewBus(navigation.WithLogger(log), navigation.WithMetrics(m)),
		Registry:  reg,
		Metrics:   m,
		Localizer: validate.NewLocalizer(cfg.Locale),
		Log:       log,
	}
	log.Debug("app opened", "db", cfg.Database.Path, "locale", app.Localizer.Language().String())
	return ctx, app, nil
}

// Close releases the repository, bus and store.
func (a *App) Close() {
	a.Repo.Close()
	a.Nav.Close()
	if err := a.Store.Close(); err != nil {
		a.Log.Warn("close store", "err", err)
	}
}

// DrainNavigation dispatches every pending navigation intent. A command line
// has no screens, so intents are only logged and returned.
func (a *App) DrainNavigation() []string {
	var out []string
	for _, e := range a.Nav.ClearEvents() {
		a.Metrics.IncNavigation(e.Kind.String())
		a.Log.Debug("navigate", "event", e.String())
		out = append(out, e.String())
	}
	return out
}

// commandLogger keeps the logger from ctx unless a level other than the
// default is requested.
func commandLogger(ctx context.Context, cmd *cobra.Command, opts *RootOptions, cfg config.Config) pslog.Logger {
	level := strings.ToLower(cfg.Logging.Level)
	if opts.Verbose {
		level = "debug"
	}
	if level == "info" {
		return pslog.Ctx(ctx)
	}

	o := pslog.Options{Mode: pslog.ModeConsole, MinLevel: pslog.InfoLevel}
	switch level {
	case "trace":
		o.MinLevel = pslog.TraceLevel
	case "debug":
		o.MinLevel = pslog.DebugLevel
	case "warn":
		o.MinLevel = pslog.WarnLevel
	case "error":
		o.MinLevel = pslog.ErrorLevel
	}
	return pslog.NewWithOptions(cmd.ErrOrStderr(), o)
}

func notFound(id any) *ExitError {
	return NewExitError(ExitCommandError, fmt.Sprintf("recipe %v not found", id))
}
