package bot

import (
	"context"

	tele "gopkg.in/telebot.v4"

	tghelpers "github.com/m3rciful/playbot/core/telegram/helpers"
	"github.com/m3rciful/playbot/core/telegram/keyboard"
	"github.com/m3rciful/playbot/core/telegram/middleware"
	"github.com/m3rciful/playbot/internal/play"
)

// responder answers one update. Replies to commands and text are new
// messages queued on the chat's sender lane; replies to button presses
// edit the message that carried the button.
type responder struct {
	a *Adapter
	c tele.Context
}

func newResponder(a *Adapter, c tele.Context) *responder {
	return &responder{a: a, c: c}
}

func (r *responder) inPlace() *tele.Message {
	if cb := r.c.Callback(); cb != nil {
		return cb.Message
	}
	return nil
}

func (r *responder) Reply(_ context.Context, rep play.Reply) error {
	markup := inlineMarkup(rep.Buttons)
	if r.inPlace() != nil {
		return tghelpers.EditMD(r.c, rep.Text, markup)
	}
	return tghelpers.SendMD(r.c, rep.Text, markup)
}

// Open shows text the engine will edit later. The call waits its turn on
// the chat's sender lane so it cannot overtake queued replies.
func (r *responder) Open(_ context.Context, text string) (play.Message, error) {
	api, err := r.a.client()
	if err != nil {
		return nil, err
	}
	if msg := r.inPlace(); msg != nil {
		err := tghelpers.SendAndWait(r.c, "edit.text", "editMessageText", func() error {
			_, err := api.Edit(msg, text)
			return tghelpers.IgnoreNotModified(err)
		})
		if err != nil {
			return nil, err
		}
		middleware.CountReply(r.c, true, false)
		return &shownMessage{api: api, msg: msg}, nil
	}
	var sent *tele.Message
	err = tghelpers.SendAndWait(r.c, "send.text", "sendMessage", func() error {
		msg, err := api.Send(r.c.Recipient(), text)
		if err != nil {
			return err
		}
		sent = msg
		return nil
	})
	if err != nil {
		return nil, err
	}
	middleware.CountReply(r.c, false, false)
	return &shownMessage{api: api, msg: sent}, nil
}

// shownMessage edits a message synchronously.
type shownMessage struct {
	api API
	msg *tele.Message
}

func (m *shownMessage) Edit(_ context.Context, rep play.Reply) error {
	_, err := m.api.Edit(m.msg, rep.Text, tghelpers.MarkdownOptions(inlineMarkup(rep.Buttons)))
	return tghelpers.IgnoreNotModified(err)
}

func inlineMarkup(rows [][]play.Button) *tele.ReplyMarkup {
	if len(rows) == 0 {
		return nil
	}
	out := make([][]keyboard.InlineBtn, 0, len(rows))
	for _, row := range rows {
		btns := make([]keyboard.InlineBtn, 0, len(row))
		for _, b := range row {
			btns = append(btns, keyboard.InlineBtn{Text: b.Text, Data: b.Action.Token()})
		}
		out = append(out, btns)
	}
	return keyboard.InlineButtonsRows(out...)
}
