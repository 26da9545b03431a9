package middleware

import (
	"testing"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/playbot/core/logger"
	tghelpers "github.com/m3rciful/playbot/core/telegram/helpers"
	"github.com/m3rciful/playbot/core/telegram/teletest"
)

var carol = &tele.User{ID: 31, FirstName: "Carol", Username: "carol"}

func TestMessageMetricsSeparatesSendsFromEdits(t *testing.T) {
	c := teletest.NewCallback(20, carol, "roll")
	markup := &tele.ReplyMarkup{InlineKeyboard: [][]tele.InlineButton{{{Text: "🎲", Data: "roll"}}}}

	var seen Tally
	h := MessageMetricsMiddleware(func(c tele.Context) error {
		if err := c.Edit("rolling"); err != nil {
			return err
		}
		if err := c.Send("done", &tele.SendOptions{ReplyMarkup: markup}); err != nil {
			return err
		}
		CountReply(c, true, false)
		seen = TallyFrom(c)
		return nil
	})
	if err := h(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if seen != (Tally{Sent: 1, Edited: 2, Keyboard: true}) {
		t.Fatalf("unexpected tally %+v", seen)
	}
}

func TestTallyIgnoresFailedCallsAndUnwrappedContexts(t *testing.T) {
	c := teletest.NewMessage(21, carol, "/joke")
	c.SendErr = tele.ErrBlockedByUser
	h := MessageMetricsMiddleware(func(c tele.Context) error {
		_ = c.Send("nope")
		return nil
	})
	_ = h(c)
	if got := TallyFrom(c); got != (Tally{}) {
		t.Fatalf("failed sends must not count, got %+v", got)
	}

	bare := teletest.NewMessage(22, carol, "/joke")
	CountReply(bare, false, true)
	if got := TallyFrom(bare); got != (Tally{}) {
		t.Fatalf("unwrapped context must stay empty, got %+v", got)
	}
}

func TestLoggerMiddlewareCachesUpdateContext(t *testing.T) {
	c := teletest.NewCallback(23, carol, "quiz_1")
	var rid string
	h := LoggerMiddleware(func(c tele.Context) error {
		rid = logger.RIDFrom(tghelpers.BuildContext(c))
		return nil
	})
	if err := h(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if want := logger.BuildRID(23, carol.ID, carol.ID); rid != want {
		t.Fatalf("rid = %q, want %q", rid, want)
	}
	ctx := tghelpers.WithHandler(c, "callback.quiz_1")
	if logger.ChatIDFrom(ctx) != carol.ID || logger.UpdateIDFrom(ctx) != 23 {
		t.Fatal("handler context lost update scope")
	}
}
