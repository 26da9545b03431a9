package bot

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/playbot/core/bootstrap"
	coreconfig "github.com/m3rciful/playbot/core/config"
	coredatabase "github.com/m3rciful/playbot/core/database"
	"github.com/m3rciful/playbot/core/health"
	"github.com/m3rciful/playbot/core/logger"
	tg "github.com/m3rciful/playbot/core/telegram"
	"github.com/m3rciful/playbot/internal/config"
	"github.com/m3rciful/playbot/internal/content"
	"github.com/m3rciful/playbot/internal/play"
	"github.com/m3rciful/playbot/internal/reminder"
	"github.com/m3rciful/playbot/internal/session"
	"github.com/m3rciful/playbot/internal/users"
)

// Options tunes Build. Zero values use the production defaults.
type Options struct {
	Version string

	LoggerInit func(*coreconfig.Config) error
	Connect    func(context.Context, coredatabase.Config) (*sqlx.DB, error)
	Migrate    func(context.Context, coredatabase.Config, fs.FS) error
}

// App owns every long-lived component of the bot.
type App struct {
	cfg      *config.Config
	infra    *bootstrap.Result
	registry *tg.Registry
	adapter  *Adapter
	engine   *play.Engine

	sessions  *session.Memory
	users     *users.Memory
	reminders *reminder.Scheduler
	health    *health.Server

	version string
	mode    atomic.Value
}

// Build bootstraps infrastructure, loads content and wires the engine.
func Build(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bot: nil config")
	}

	bootOpts := bootstrap.Options{
		Config:     cfg.CoreConfig(),
		Database:   cfg.DatabaseConfig(),
		LoggerInit: opts.LoggerInit,
		Connect:    opts.Connect,
		Migrate:    opts.Migrate,
	}
	if bootOpts.Database != nil {
		bootOpts.Migrations = content.Migrations()
		bootOpts.Modules.Seeders = []bootstrap.Seeder{bootstrap.SeederFunc(seedContent)}
	}
	infra, err := bootstrap.Run(ctx, bootOpts)
	if err != nil {
		return nil, err
	}

	app, err := assemble(ctx, cfg, infra, opts.Version)
	if err != nil {
		_ = infra.Close()
		return nil, err
	}
	return app, nil
}

func assemble(ctx context.Context, cfg *config.Config, infra *bootstrap.Result, version string) (*App, error) {
	store, source, err := loadContent(ctx, cfg, infra.DB)
	if err != nil {
		return nil, err
	}
	counts := store.Counts()
	logger.Info(ctx, "content", "content.loaded",
		slog.String("source", source),
		slog.Int("jokes", counts["jokes"]),
		slog.Int("facts", counts["facts"]),
		slog.Int("questions", counts["questions"]),
	)

	sessions, err := session.NewMemory(session.Options{Capacity: cfg.Session.Capacity, TTL: cfg.Session.TTL})
	if err != nil {
		return nil, err
	}

	app := &App{
		cfg:      cfg,
		infra:    infra,
		registry: tg.NewRegistry(),
		sessions: sessions,
		users:    users.NewMemory(time.Now),
		version:  version,
	}
	app.mode.Store(cfg.Telegram.RunMode)

	// The adapter needs the engine and the scheduler needs the adapter.
	app.adapter = NewAdapter(nil, sessions)
	app.reminders, err = reminder.New(app.adapter, reminder.Options{Workers: cfg.Reminder.Workers})
	if err != nil {
		sessions.Close()
		return nil, err
	}
	app.engine, err = play.New(play.Options{
		Content:   store,
		Sessions:  sessions,
		Users:     app.users,
		Reminders: app.reminders,
		Version:   version,
	})
	if err != nil {
		app.reminders.Stop()
		sessions.Close()
		return nil, err
	}
	app.adapter.engine = app.engine

	if err := app.adapter.Register(app.registry); err != nil {
		app.reminders.Stop()
		sessions.Close()
		return nil, err
	}

	if cfg.Health.Listen != "" {
		hopts := health.Options{Listen: cfg.Health.Listen, Stats: app.Stats}
		if infra.DB != nil {
			hopts.DB = infra.DB
		}
		app.health = health.New(hopts)
	}
	return app, nil
}

func loadContent(ctx context.Context, cfg *config.Config, db *sqlx.DB) (*content.Store, string, error) {
	switch {
	case cfg.Content.FromDB:
		s, err := content.LoadDB(ctx, db)
		return s, "db", err
	case cfg.Content.File != "":
		s, err := content.LoadFile(cfg.Content.File)
		return s, "file", err
	default:
		return content.Default(), "builtin", nil
	}
}

func seedContent(ctx context.Context, db *sqlx.DB) error {
	n, err := content.Seed(ctx, db, content.Default())
	if err != nil {
		return err
	}
	logger.Info(ctx, "content", "content.seeded", slog.Int("rows", n))
	return nil
}

// Registry exposes the command and callback registry.
func (a *App) Registry() *tg.Registry { return a.registry }

// Stats is the health snapshot.
func (a *App) Stats() health.Stats {
	mode, _ := a.mode.Load().(string)
	return health.Stats{
		Users:            a.users.Len(),
		Sessions:         a.sessions.Len(),
		PendingReminders: a.reminders.Pending(),
		Mode:             mode,
		Version:          a.version,
	}
}

// TelegramRunOptions builds the runtime options for core/telegram.
func (a *App) TelegramRunOptions() (tg.RunOptions, error) {
	return tg.RunOptions{
		Config:      a.cfg.CoreConfig(),
		Registry:    a.registry,
		Middlewares: tg.DefaultMiddlewares(),
		Routes:      a.adapter.Routes(a.registry),
		OnStart:     a.onStart,
		OnStop:      a.onStop,
	}, nil
}

func (a *App) onStart(ctx context.Context, rt tg.Runtime) error {
	if rt.Bot != nil {
		a.adapter.Bind(rt.Bot)
	}
	if rt.Mode != "" {
		a.mode.Store(rt.Mode)
	}
	if a.health != nil {
		if err := a.health.Start(ctx); err != nil {
			return fmt.Errorf("bot: health server: %w", err)
		}
	}
	return nil
}

func (a *App) onStop(ctx context.Context, _ tg.Runtime) error {
	a.reminders.Stop()
	if a.health == nil {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return a.health.Shutdown(shutdownCtx)
}

// Close releases sessions and the database.
func (a *App) Close() error {
	a.reminders.Stop()
	a.sessions.Close()
	return a.infra.Close()
}
