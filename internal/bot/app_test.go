package bot

import (
	"context"
	"io/fs"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"
	_ "modernc.org/sqlite"

	coreconfig "github.com/m3rciful/playbot/core/config"
	coredatabase "github.com/m3rciful/playbot/core/database"
	tg "github.com/m3rciful/playbot/core/telegram"
	"github.com/m3rciful/playbot/core/telegram/teletest"
	"github.com/m3rciful/playbot/internal/config"
	"github.com/m3rciful/playbot/internal/session"
)

func noopLogger(*coreconfig.Config) error { return nil }

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Telegram.RunMode = coreconfig.RunModeLongpoll
	cfg.Session = config.SessionConfig{TTL: time.Hour, Capacity: 100}
	cfg.Reminder = config.ReminderConfig{Workers: 2}
	return cfg
}

func buildApp(t *testing.T, cfg *config.Config, opts Options) *App {
	t.Helper()
	if opts.LoggerInit == nil {
		opts.LoggerInit = noopLogger
	}
	app, err := Build(context.Background(), cfg, opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func appRoutes(t *testing.T, app *App) []tg.Route {
	t.Helper()
	opts, err := app.TelegramRunOptions()
	require.NoError(t, err)
	require.NotEmpty(t, opts.Middlewares)
	return opts.Routes
}

func TestAppQuizRoundTrip(t *testing.T) {
	app := buildApp(t, testConfig(), Options{Version: "1.2.3"})
	routes := appRoutes(t, app)
	onText := routeFor(t, routes, tele.OnText)
	onCallback := routeFor(t, routes, tele.OnCallback)

	start := teletest.NewMessage(1, bob, "/start")
	require.NoError(t, onText(start))
	require.Len(t, start.Sent(), 1)
	assert.Contains(t, start.Sent()[0].Text, "Welcome Bob")

	quiz := teletest.NewMessage(2, bob, "/quiz")
	require.NoError(t, onText(quiz))
	require.Len(t, quiz.Sent(), 1)
	require.NotNil(t, quiz.Sent()[0].Markup())

	s, ok := app.sessions.Get(bob.ID)
	require.True(t, ok)
	require.Equal(t, session.KindQuiz, s.Kind)

	answer := teletest.NewCallback(3, bob, "quiz_"+strconv.Itoa(s.Quiz.Question.Correct))
	require.NoError(t, onCallback(answer))
	require.Len(t, answer.Edits(), 1)
	assert.True(t, strings.HasPrefix(answer.Edits()[0].Text, "🎉 *Correct!*"))

	_, ok = app.sessions.Get(bob.ID)
	assert.False(t, ok)

	stats := app.Stats()
	assert.Equal(t, 1, stats.Users)
	assert.Equal(t, 0, stats.PendingReminders)
	assert.Equal(t, coreconfig.RunModeLongpoll, stats.Mode)
	assert.Equal(t, "1.2.3", stats.Version)
}

func TestAppStaleQuizAnswer(t *testing.T) {
	app := buildApp(t, testConfig(), Options{})
	onCallback := routeFor(t, appRoutes(t, app), tele.OnCallback)

	cb := teletest.NewCallback(4, bob, "quiz_1")
	require.NoError(t, onCallback(cb))
	require.Len(t, cb.Edits(), 1)
	assert.Contains(t, cb.Edits()[0].Text, "expired")
}

func TestAppReminderUsesBoundAPI(t *testing.T) {
	app := buildApp(t, testConfig(), Options{})
	api := &fakeAPI{}
	require.NoError(t, app.onStart(context.Background(), tg.Runtime{Mode: coreconfig.RunModeWebhook}))
	app.adapter.Bind(api)

	msg := teletest.NewMessage(5, bob, "/reminder 5 stretch")
	require.NoError(t, routeFor(t, appRoutes(t, app), tele.OnText)(msg))
	require.Len(t, msg.Sent(), 1)
	assert.Equal(t, 1, app.Stats().PendingReminders)
	assert.Equal(t, coreconfig.RunModeWebhook, app.Stats().Mode)

	require.NoError(t, app.onStop(context.Background(), tg.Runtime{}))
	assert.Equal(t, 0, app.Stats().PendingReminders)
	assert.Empty(t, api.sends, "stopping drops reminders that are not due")
}

func sqliteConnect() func(context.Context, coredatabase.Config) (*sqlx.DB, error) {
	return func(ctx context.Context, _ coredatabase.Config) (*sqlx.DB, error) {
		db, err := sqlx.ConnectContext(ctx, "sqlite", ":memory:")
		if err != nil {
			return nil, err
		}
		db.SetMaxOpenConns(1)
		return db, nil
	}
}

func sqliteMigrate(db **sqlx.DB) func(context.Context, coredatabase.Config, fs.FS) error {
	return func(ctx context.Context, _ coredatabase.Config, fsys fs.FS) error {
		schema, err := fs.ReadFile(fsys, "000001_content_tables.up.sql")
		if err != nil {
			return err
		}
		for _, stmt := range strings.Split(string(schema), ";") {
			if strings.TrimSpace(stmt) == "" {
				continue
			}
			if _, err := (*db).ExecContext(ctx, stmt); err != nil {
				return err
			}
		}
		return nil
	}
}

func TestAppLoadsContentFromDatabase(t *testing.T) {
	cfg := testConfig()
	cfg.Content.FromDB = true
	cfg.Database = coredatabase.Config{Name: "playbot", User: "playbot"}

	var db *sqlx.DB
	connect := sqliteConnect()
	app := buildApp(t, cfg, Options{
		Connect: func(ctx context.Context, c coredatabase.Config) (*sqlx.DB, error) {
			var err error
			db, err = connect(ctx, c)
			return db, err
		},
		Migrate: sqliteMigrate(&db),
	})
	require.NotNil(t, app.infra.DB)

	var jokes int
	require.NoError(t, app.infra.DB.Get(&jokes, "SELECT COUNT(*) FROM jokes"))
	assert.Positive(t, jokes)

	msg := teletest.NewMessage(6, bob, "/joke")
	require.NoError(t, routeFor(t, appRoutes(t, app), tele.OnText)(msg))
	require.Len(t, msg.Sent(), 1)
}

func TestBuildRejectsNilConfig(t *testing.T) {
	_, err := Build(context.Background(), nil, Options{})
	assert.Error(t, err)
}
