package logger

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"
)

// captureLine logs one event through a fresh handler and returns the line.
func captureLine(t *testing.T, format logFormat, ctx context.Context, component string, level slog.Level, event string, attrs ...slog.Attr) string {
	t.Helper()
	buf := &bytes.Buffer{}
	aw := newLineWriter([]io.Writer{buf}, 1024)
	handler := newStructuredHandler(handlerConfig{
		level:    slog.LevelDebug,
		writer:   aw,
		format:   format,
		keyOrder: append([]string(nil), defaultKeyOrder...),
	})
	LogEvent(ctx, slog.New(handler).With("component", component), level, event, attrs...)
	if err := aw.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if err := aw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	line := strings.TrimSpace(buf.String())
	if line == "" {
		t.Fatal("expected log line")
	}
	return line
}

func TestStructuredHandlerKVOrder(t *testing.T) {
	ctx := WithRID(Background(), "rid-123")
	ctx = WithUpdateMeta(ctx, 42, 7, 9)

	line := captureLine(t, formatKV, ctx, "play", slog.LevelInfo, "session.started",
		slog.String("session_kind", "quiz"),
		slog.String("status", "ok"),
	)
	tokens := strings.Split(line, " ")
	if len(tokens) < 6 {
		t.Fatalf("unexpected token count: %d (%s)", len(tokens), line)
	}
	expected := []string{"ts=", "level=INFO", "component=play", "event=session.started", "status=ok", "rid=rid-123"}
	for i, prefix := range expected {
		if !strings.HasPrefix(tokens[i], prefix) {
			t.Fatalf("token %d = %s, expected prefix %s", i, tokens[i], prefix)
		}
	}
	if !strings.Contains(line, "user_id=7") || !strings.Contains(line, "chat_id=9") {
		t.Fatalf("update meta missing: %s", line)
	}
}

func TestStructuredHandlerJSONOrder(t *testing.T) {
	ctx := WithRID(Background(), "rid-json")
	ctx = WithUpdateMeta(ctx, 11, 22, 33)

	line := captureLine(t, formatJSON, ctx, "reminder", slog.LevelError, "reminder.delivery_failed",
		slog.String("status", "fail"),
		slog.String("err", "chat not found"),
		slog.String("err_code", "DELIVERY"),
	)
	if !strings.HasPrefix(line, "{") {
		t.Fatalf("expected JSON, got %s", line)
	}
	prefixes := []string{`{"ts":`, `"level":"ERROR"`, `"component":"reminder"`, `"event":"reminder.delivery_failed"`, `"status":"fail"`, `"rid":"rid-json"`}
	pos := -1
	for _, pref := range prefixes {
		idx := strings.Index(line, pref)
		if idx == -1 || idx < pos {
			t.Fatalf("prefix %s not found in order within %s", pref, line)
		}
		pos = idx
	}
}

func TestStructuredHandlerCompactRID(t *testing.T) {
	rawRID := "123:456:789"
	line := captureLine(t, formatKV, WithRID(Background(), rawRID), "tg", slog.LevelInfo, "rid.test",
		slog.String("status", "ok"),
	)
	if !strings.Contains(line, "rid="+CompactRID(rawRID)) {
		t.Fatalf("expected compact rid, got %s", line)
	}
	if strings.Contains(line, "rid_full=") {
		t.Fatalf("rid_full should be omitted in KV output, got %s", line)
	}
}

func TestStructuredHandlerCompactRIDJSON(t *testing.T) {
	rawRID := "12:34:56"
	line := captureLine(t, formatJSON, WithRID(Background(), rawRID), "tg", slog.LevelInfo, "rid.test",
		slog.String("status", "ok"),
	)
	if !strings.Contains(line, `"rid":"`+CompactRID(rawRID)+`"`) {
		t.Fatalf("expected compact rid in JSON, got %s", line)
	}
	if !strings.Contains(line, `"rid_full":"`+rawRID+`"`) {
		t.Fatalf("expected rid_full in JSON output, got %s", line)
	}
	if !strings.Contains(line, `"ts_unix_nano"`) {
		t.Fatalf("expected ts_unix_nano to be present in JSON output, got %s", line)
	}
}

func TestStructuredHandlerDurationKeys(t *testing.T) {
	line := captureLine(t, formatJSON, Background(), "reminder", slog.LevelInfo, "reminder.scheduled",
		slog.Duration("delay", 90*time.Second),
		slog.Duration("duration", 1500*time.Microsecond),
		slog.Any("drain_duration", 2*time.Second),
	)
	for _, want := range []string{`"delay_ms":90000`, `"duration_ms":2`, `"drain_duration_ms":2000`} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %s in %s", want, line)
		}
	}
}

func TestStructuredHandlerOutcomeEnumeration(t *testing.T) {
	line := captureLine(t, formatKV, Background(), "play", slog.LevelInfo, "session.finished",
		slog.String("outcome", "WIN"),
	)
	if !strings.Contains(line, "outcome=win") {
		t.Fatalf("expected normalized outcome, got %s", line)
	}

	line = captureLine(t, formatKV, Background(), "play", slog.LevelInfo, "session.finished",
		slog.String("outcome", "sideways"),
	)
	if strings.Contains(line, "outcome=") {
		t.Fatalf("unknown outcome should be dropped, got %s", line)
	}
}

func TestStructuredHandlerSessionAndReminderScope(t *testing.T) {
	ctx := WithUpdateMeta(WithRID(Background(), "5:9:9"), 5, 9, 9)
	ctx = WithSession(ctx, "number_guess")
	line := captureLine(t, formatKV, ctx, "play", slog.LevelInfo, "session.finished",
		slog.String("outcome", "loss"),
	)
	if !strings.Contains(line, "session_kind=number_guess") || !strings.Contains(line, "rid=5.9.9") {
		t.Fatalf("expected session scope, got %s", line)
	}

	ctx = WithReminder(WithSession(Background(), "quiz"), 12)
	line = captureLine(t, formatJSON, ctx, "reminder", slog.LevelInfo, "reminder.delivered",
		slog.String("session_kind", "explicit"),
	)
	if !strings.Contains(line, `"reminder_id":12`) {
		t.Fatalf("expected reminder id, got %s", line)
	}
	if !strings.Contains(line, `"session_kind":"explicit"`) {
		t.Fatalf("explicit attrs must win over scope, got %s", line)
	}
}

func TestScopeLayersKeepEarlierFields(t *testing.T) {
	ctx := WithUpdateMeta(WithRID(Background(), "r"), 1, 2, 3)
	ctx = WithHandler(ctx, "callback.roll")
	ctx = WithHandler(ctx, "")
	if RIDFrom(ctx) != "r" || UpdateIDFrom(ctx) != 1 || UserIDFrom(ctx) != 2 || ChatIDFrom(ctx) != 3 {
		t.Fatalf("unexpected scope %+v", scopeFrom(ctx))
	}
	if scopeFrom(ctx).handler != "callback.roll" {
		t.Fatalf("empty handler must not clear the name, got %q", scopeFrom(ctx).handler)
	}
	if ChatIDFrom(context.Background()) != 0 || RIDFrom(context.Background()) != "" {
		t.Fatal("empty contexts must carry no scope")
	}
}

func TestSanitizeLimit(t *testing.T) {
	if got := SanitizeLimit("quiz\u200b_2\x00|junk\n", 64); got != "quiz_2|junk\n" {
		t.Fatalf("got %q", got)
	}
	if got := SanitizeLimit("🎲🎲🎲", 2); got != "🎲🎲" {
		t.Fatalf("got %q", got)
	}
	if SanitizeLimit("x", 0) != "" {
		t.Fatal("zero limit must yield empty string")
	}
}

func TestCompactRID(t *testing.T) {
	if got := CompactRID(BuildRID(36, -100, 71)); got != "10.-2s.1z" {
		t.Fatalf("got %q", got)
	}
	if got := CompactRID(" rid-x "); got != "rid-x" {
		t.Fatalf("got %q", got)
	}
}

func TestContextFreeHelpersAreNilSafe(t *testing.T) {
	prev := L
	L = nil
	defer func() { L = prev }()

	Info(context.Background(), "play", "noop")
	Debug(context.Background(), "", "noop")
	if Component("play") != nil {
		t.Fatal("expected nil component logger before init")
	}
}
