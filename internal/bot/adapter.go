// Package bot connects the play engine to Telegram through the core
// telegram runtime.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/playbot/core/logger"
	tg "github.com/m3rciful/playbot/core/telegram"
	"github.com/m3rciful/playbot/core/telegram/callbacks"
	"github.com/m3rciful/playbot/core/telegram/commands"
	tghelpers "github.com/m3rciful/playbot/core/telegram/helpers"
	"github.com/m3rciful/playbot/core/telegram/router"
	"github.com/m3rciful/playbot/core/telegram/ui"
	"github.com/m3rciful/playbot/internal/play"
	"github.com/m3rciful/playbot/internal/session"
)

const component = "bot"

const (
	msgUnknownAction  = "❌ Unrecognized action"
	msgUnexpectedFile = "📄 I can only read text for now. Try /help to see what I can do!"
)

var errNotStarted = errors.New("bot: telegram api not bound")

// API is the part of *tele.Bot the adapter sends through.
type API interface {
	Send(to tele.Recipient, what any, opts ...any) (*tele.Message, error)
	Edit(msg tele.Editable, what any, opts ...any) (*tele.Message, error)
}

// Engine handles normalized events.
type Engine interface {
	Handle(ctx context.Context, ev play.Event, r play.Responder) error
}

// SessionLookup looks up a user's active game or quiz.
type SessionLookup interface {
	Get(userID int64) (session.Session, bool)
}

var (
	_ ui.FallbackProvider = (*Adapter)(nil)
	_ router.FSM          = (*Adapter)(nil)
)

// Adapter turns telebot updates into play events and play replies into
// Telegram messages.
type Adapter struct {
	engine   Engine
	sessions SessionLookup

	mu  sync.RWMutex
	api API
}

// NewAdapter builds an Adapter. Bind must be called before replies that
// need the raw API (dice animation, reminders) can be sent.
func NewAdapter(engine Engine, sessions SessionLookup) *Adapter {
	return &Adapter{engine: engine, sessions: sessions}
}

// Bind sets the API used for direct sends and edits.
func (a *Adapter) Bind(api API) {
	a.mu.Lock()
	a.api = api
	a.mu.Unlock()
}

func (a *Adapter) client() (API, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.api == nil {
		return nil, errNotStarted
	}
	return a.api, nil
}

// Register adds every command and button action to reg.
func (a *Adapter) Register(reg *tg.Registry) error {
	for _, info := range play.Commands() {
		reg.RegisterCommand("/"+string(info.Name), commands.Command{
			Handler:     a.command(info.Name),
			Description: info.Description,
		})
	}
	for _, token := range play.ActionTokens() {
		if err := reg.RegisterCallback(token, a.press); err != nil {
			return fmt.Errorf("bot: register %s: %w", token, err)
		}
	}
	reg.SetCallbackNotFound(a.UnknownCallback())
	reg.SetTextFallback(a.UnknownText())
	return nil
}

// Routes builds the command, callback and text routes over reg.
func (a *Adapter) Routes(reg *tg.Registry) []tg.Route {
	textOpts, cbOpts := router.Fallbacks(a)
	routes := router.CommandRoutes(reg)
	routes = append(routes, router.CallbackRoute(reg, cbOpts))
	routes = append(routes, router.TextRoutes(a, reg, textOpts)...)
	return routes
}

// InProgress reports whether free text from userID belongs to a session.
func (a *Adapter) InProgress(userID int64) bool {
	if a.sessions == nil {
		return false
	}
	_, ok := a.sessions.Get(userID)
	return ok
}

// ManagerHandler feeds session input to the engine.
func (a *Adapter) ManagerHandler(c tele.Context) error {
	return a.freeText(c)
}

// UnknownText handles text that matched no command.
func (a *Adapter) UnknownText() tele.HandlerFunc { return a.freeText }

// UnknownDocument answers files and other attachments.
func (a *Adapter) UnknownDocument() tele.HandlerFunc {
	return func(c tele.Context) error {
		return tghelpers.SendMD(c, msgUnexpectedFile)
	}
}

// UnknownCallback answers button data that is not a known action.
func (a *Adapter) UnknownCallback() tele.HandlerFunc {
	return func(c tele.Context) error {
		if logger.SampleDebug("action.rejected") {
			logger.Debug(tghelpers.BuildContext(c), component, "action.rejected",
				slog.String("cb_key", logger.SanitizeLimit(rawData(c), 64)),
				slog.String("err_code", "UNKNOWN_ACTION"),
			)
		}
		return callbacks.Answer(c, &tele.CallbackResponse{Text: msgUnknownAction})
	}
}

// SendReminder delivers a reminder alert to chatID.
func (a *Adapter) SendReminder(_ context.Context, chatID int64, text string) error {
	api, err := a.client()
	if err != nil {
		return err
	}
	_, err = api.Send(tele.ChatID(chatID), text, tghelpers.MarkdownOptions())
	return err
}

func (a *Adapter) command(cmd play.Command) tele.HandlerFunc {
	return func(c tele.Context) error {
		ev := baseEvent(c, play.KindCommand)
		ev.Command = cmd
		ev.Args = c.Args()
		return a.dispatch(c, ev)
	}
}

func (a *Adapter) press(c tele.Context) error {
	action, err := play.ParseAction(rawData(c))
	if err != nil {
		return a.UnknownCallback()(c)
	}
	_ = callbacks.Answer(c)
	ev := baseEvent(c, play.KindButtonPress)
	ev.Action = action
	return a.dispatch(c, ev)
}

// rawData is the button data exactly as Telegram delivered it. Actions
// are bare tokens, so padding or a payload suffix makes the press invalid.
func rawData(c tele.Context) string {
	cb := c.Callback()
	if cb == nil {
		return ""
	}
	if cb.Unique != "" {
		return "\f" + cb.Unique + "|" + cb.Data
	}
	return cb.Data
}

func (a *Adapter) freeText(c tele.Context) error {
	ev := baseEvent(c, play.KindFreeText)
	ev.Text = c.Text()
	return a.dispatch(c, ev)
}

func (a *Adapter) dispatch(c tele.Context, ev play.Event) error {
	ctx := tghelpers.BuildContext(c)
	return a.engine.Handle(ctx, ev, newResponder(a, c))
}

func baseEvent(c tele.Context, kind play.EventKind) play.Event {
	ev := play.Event{Kind: kind}
	if u := c.Sender(); u != nil {
		ev.UserID = u.ID
		ev.FirstName = u.FirstName
		ev.Username = u.Username
	}
	if ch := c.Chat(); ch != nil {
		ev.ChatID = ch.ID
	}
	return ev
}
