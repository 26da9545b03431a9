package middleware

import (
	"sync/atomic"

	tele "gopkg.in/telebot.v4"
)

const tallyKey = "reply.tally"

// Tally is what one update produced: new messages, in-place edits of the
// pressed message, and whether any of them carried a keyboard.
type Tally struct {
	Sent     int
	Edited   int
	Keyboard bool
}

// tally is shared with sender workers, which may finish after the handler.
type tally struct {
	sent, edited atomic.Int32
	keyboard     atomic.Bool
}

// CountReply records a reply made outside tele.Context, such as a direct
// API edit. It is a no-op when c was not wrapped by MessageMetricsMiddleware.
func CountReply(c tele.Context, edited, keyboard bool) {
	t, ok := c.Get(tallyKey).(*tally)
	if !ok {
		return
	}
	if edited {
		t.edited.Add(1)
	} else {
		t.sent.Add(1)
	}
	if keyboard {
		t.keyboard.Store(true)
	}
}

// TallyFrom returns the counts recorded so far for the update.
func TallyFrom(c tele.Context) Tally {
	t, ok := c.Get(tallyKey).(*tally)
	if !ok {
		return Tally{}
	}
	return Tally{Sent: int(t.sent.Load()), Edited: int(t.edited.Load()), Keyboard: t.keyboard.Load()}
}

// metricsContext counts successful Send and Edit calls made through it.
type metricsContext struct{ tele.Context }

func (m metricsContext) Send(what any, opts ...any) error {
	err := m.Context.Send(what, opts...)
	if err == nil {
		CountReply(m.Context, false, hasKeyboard(opts))
	}
	return err
}

func (m metricsContext) Edit(what any, opts ...any) error {
	err := m.Context.Edit(what, opts...)
	if err == nil {
		CountReply(m.Context, true, hasKeyboard(opts))
	}
	return err
}

func hasKeyboard(opts []any) bool {
	for _, o := range opts {
		switch v := o.(type) {
		case *tele.SendOptions:
			if v != nil && v.ReplyMarkup != nil {
				return true
			}
		case *tele.ReplyMarkup:
			if v != nil {
				return true
			}
		}
	}
	return false
}

// MessageMetricsMiddleware starts a fresh Tally for the update.
func MessageMetricsMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		c.Set(tallyKey, &tally{})
		return next(metricsContext{Context: c})
	}
}
