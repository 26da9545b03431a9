package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	coreconfig "github.com/m3rciful/playbot/core/config"
	coretelegram "github.com/m3rciful/playbot/core/telegram"
)

type carrier struct{ core *coreconfig.Config }

func (c carrier) CoreConfig() *coreconfig.Config { return c.core }

type fakeApp struct {
	closed bool
	events *[]string
}

func (a *fakeApp) TelegramRunOptions() (coretelegram.RunOptions, error) {
	return coretelegram.RunOptions{
		OnStart: func(context.Context, coretelegram.Runtime) error {
			*a.events = append(*a.events, "app.start")
			return nil
		},
		OnStop: func(context.Context, coretelegram.Runtime) error {
			*a.events = append(*a.events, "app.stop")
			return nil
		},
	}, nil
}

func (a *fakeApp) Close() error {
	a.closed = true
	return nil
}

func TestRunWiresLifecycle(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	if err := os.WriteFile(envFile, []byte("PLAYBOT_RUNNER_TEST=from-dotenv\n"), 0o600); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Cleanup(func() { _ = os.Unsetenv("PLAYBOT_RUNNER_TEST") })

	var events []string
	app := &fakeApp{events: &events}
	var gotPath string
	loggerClosed := false

	err := Run(Options{
		ConfigPath: "custom.yaml",
		EnvFiles:   []string{envFile, filepath.Join(dir, "missing.env")},
		LoadConfig: func(path string) (ConfigCarrier, error) {
			gotPath = path
			if os.Getenv("PLAYBOT_RUNNER_TEST") != "from-dotenv" {
				t.Fatalf("dotenv not loaded before config")
			}
			return carrier{core: &coreconfig.Config{}}, nil
		},
		Bootstrap: func(context.Context, ConfigCarrier) (TelegramApp, error) {
			return app, nil
		},
		ShutdownLogger: func() error {
			loggerClosed = true
			return nil
		},
		RunTelegram: func(ctx context.Context, opts coretelegram.RunOptions) error {
			if err := opts.OnStart(ctx, coretelegram.Runtime{}); err != nil {
				return err
			}
			return opts.OnStop(ctx, coretelegram.Runtime{})
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "custom.yaml" {
		t.Fatalf("unexpected config path %q", gotPath)
	}
	if len(events) != 2 || events[0] != "app.start" || events[1] != "app.stop" {
		t.Fatalf("unexpected lifecycle %v", events)
	}
	if !app.closed {
		t.Fatalf("app was not closed")
	}
	if !loggerClosed {
		t.Fatalf("logger was not shut down")
	}
}

func TestRunRequiresHooks(t *testing.T) {
	if err := Run(Options{}); err == nil {
		t.Fatalf("expected error without LoadConfig")
	}
	err := Run(Options{LoadConfig: func(string) (ConfigCarrier, error) { return nil, nil }})
	if err == nil {
		t.Fatalf("expected error without Bootstrap")
	}
}

func TestRunRejectsMissingCoreConfig(t *testing.T) {
	err := Run(Options{
		EnvFiles:   []string{filepath.Join(t.TempDir(), "none.env")},
		LoadConfig: func(string) (ConfigCarrier, error) { return carrier{}, nil },
		Bootstrap:  func(context.Context, ConfigCarrier) (TelegramApp, error) { return nil, errors.New("unreachable") },
	})
	if err == nil {
		t.Fatalf("expected error for missing core config")
	}
}

func TestResolveConfigPath(t *testing.T) {
	t.Setenv("PLAYBOT_CONFIG", "")
	if got := ResolveConfigPath(Options{ConfigEnvVar: "PLAYBOT_CONFIG", DefaultConfigPath: "config.yaml"}); got != "config.yaml" {
		t.Fatalf("expected default path, got %q", got)
	}
	t.Setenv("PLAYBOT_CONFIG", "/etc/playbot.yaml")
	if got := ResolveConfigPath(Options{ConfigEnvVar: "PLAYBOT_CONFIG", DefaultConfigPath: "config.yaml"}); got != "/etc/playbot.yaml" {
		t.Fatalf("expected env path, got %q", got)
	}
	if got := ResolveConfigPath(Options{ConfigPath: "flag.yaml", ConfigEnvVar: "PLAYBOT_CONFIG"}); got != "flag.yaml" {
		t.Fatalf("expected flag path, got %q", got)
	}
}
