package play

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/m3rciful/playbot/core/logger"
	"github.com/m3rciful/playbot/internal/content"
	"github.com/m3rciful/playbot/internal/session"
	"github.com/m3rciful/playbot/internal/users"
)

const component = "play"

// Sessions stores the active session of each user.
type Sessions interface {
	Get(userID int64) (session.Session, bool)
	Set(userID int64, s session.Session)
	Update(userID int64, fn func(cur session.Session, ok bool) (session.Session, session.Op))
}

// Users is the profile registry.
type Users interface {
	Register(id int64, name, handle string) users.Profile
	Touch(id int64) (int, bool)
	Get(id int64) (users.Profile, bool)
}

// Scheduler delivers delayed reminders.
type Scheduler interface {
	Schedule(ctx context.Context, chatID int64, delay time.Duration, text string) (uint64, error)
}

// Rand draws uniform integers in [0,n).
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Options wires the engine's collaborators.
type Options struct {
	Content   *content.Store
	Sessions  Sessions
	Users     Users
	Reminders Scheduler

	// Rand defaults to math/rand/v2.
	Rand Rand
	// Now defaults to time.Now.
	Now func() time.Time
	// FrameDelay is the pause between dice animation frames. Defaults to
	// 500ms; negative disables the pause.
	FrameDelay time.Duration
	// ReminderUnit is the length of one requested reminder minute.
	ReminderUnit time.Duration
	Version      string
}

// Engine turns events into replies and session transitions.
type Engine struct {
	content   *content.Store
	sessions  Sessions
	users     Users
	reminders Scheduler
	rand      Rand
	now       func() time.Time
	frame     time.Duration
	unit      time.Duration
	version   string
}

// New validates opts and builds an Engine.
func New(opts Options) (*Engine, error) {
	switch {
	case opts.Content == nil:
		return nil, fmt.Errorf("play: content store is required")
	case opts.Sessions == nil:
		return nil, fmt.Errorf("play: session store is required")
	case opts.Users == nil:
		return nil, fmt.Errorf("play: user registry is required")
	case opts.Reminders == nil:
		return nil, fmt.Errorf("play: reminder scheduler is required")
	}
	if err := opts.Content.Validate(); err != nil {
		return nil, fmt.Errorf("play: content: %w", err)
	}
	e := &Engine{
		content:   opts.Content,
		sessions:  opts.Sessions,
		users:     opts.Users,
		reminders: opts.Reminders,
		rand:      opts.Rand,
		now:       opts.Now,
		frame:     opts.FrameDelay,
		unit:      opts.ReminderUnit,
		version:   opts.Version,
	}
	if e.rand == nil {
		e.rand = globalRand{}
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.frame == 0 {
		e.frame = 500 * time.Millisecond
	}
	if e.unit <= 0 {
		e.unit = time.Minute
	}
	if e.version == "" {
		e.version = "dev"
	}
	return e, nil
}

// Handle processes one event. Delivery failures are logged and swallowed;
// other errors are unexpected and returned to the transport.
func (e *Engine) Handle(ctx context.Context, ev Event, r Responder) error {
	var err error
	switch ev.Kind {
	case KindCommand:
		err = e.runCommand(ctx, ev, ev.Command, r)
	case KindButtonPress:
		switch ev.Action.Kind {
		case ActionRun:
			err = e.runCommand(ctx, ev, ev.Action.Command, r)
		case ActionQuizAnswer:
			err = e.answerQuiz(ctx, ev, r)
		default:
			err = fmt.Errorf("%w: kind %d", ErrUnknownAction, ev.Action.Kind)
		}
	case KindFreeText:
		err = e.handleText(ctx, ev, r)
	default:
		err = fmt.Errorf("play: unknown event kind %d", ev.Kind)
	}

	var de *DeliveryError
	if errors.As(err, &de) {
		logger.Warn(ctx, component, "reply.delivery_failed",
			slog.String("status", "fail"),
			slog.String("event_kind", ev.Kind.String()),
			slog.String("err_code", de.Code()),
			slog.String("err", logger.SanitizeLimit(de.Error(), 256)),
		)
		return nil
	}
	return err
}

func (e *Engine) runCommand(ctx context.Context, ev Event, cmd Command, r Responder) error {
	switch cmd {
	case CmdStart:
		return e.start(ctx, ev, r)
	case CmdHelp:
		return e.reply(ctx, r, Reply{Text: msgHelp})
	case CmdAbout:
		return e.reply(ctx, r, Reply{Text: aboutText(e.version)})
	case CmdStats:
		return e.stats(ctx, ev, r)
	case CmdRoll:
		return e.roll(ctx, ev, r)
	case CmdGame:
		return e.startGame(ctx, ev, r)
	case CmdQuiz:
		return e.startQuiz(ctx, ev, r)
	case CmdJoke:
		e.count(ev)
		return e.reply(ctx, r, Reply{Text: jokeText(pick(e.rand, e.content.Jokes)), Buttons: again("😂 Another Joke", CmdJoke)})
	case CmdFact:
		e.count(ev)
		return e.reply(ctx, r, Reply{Text: factText(pick(e.rand, e.content.Facts)), Buttons: again("🤓 Another Fact", CmdFact)})
	case CmdAnimal:
		e.count(ev)
		return e.reply(ctx, r, Reply{Text: animalText(pick(e.rand, e.content.Animals)), Buttons: again("🐾 Another Animal", CmdAnimal)})
	case CmdQuote:
		e.count(ev)
		return e.reply(ctx, r, Reply{Text: quoteText(pick(e.rand, e.content.Quotes)), Buttons: again("✨ Another Quote", CmdQuote)})
	case CmdMath:
		return e.math(ctx, ev, r)
	case CmdWeather:
		return e.weather(ctx, ev, r)
	case CmdReminder:
		return e.reminder(ctx, ev, r)
	default:
		return fmt.Errorf("play: unknown command %q", cmd)
	}
}

// count bumps the caller's usage counter. Unregistered users are not
// tracked.
func (e *Engine) count(ev Event) {
	e.users.Touch(ev.UserID)
}

func (e *Engine) reply(ctx context.Context, r Responder, rep Reply) error {
	if err := r.Reply(ctx, rep); err != nil {
		return &DeliveryError{Op: "reply", Err: err}
	}
	return nil
}

// refuse answers a user-facing error with its corrective message.
func (e *Engine) refuse(ctx context.Context, r Responder, err error, buttons ...[]Button) error {
	var uf userFacing
	if !errors.As(err, &uf) {
		return err
	}
	code := ""
	if c, ok := uf.(interface{ Code() string }); ok {
		code = c.Code()
	}
	logger.Debug(ctx, component, "input.rejected",
		slog.String("err_code", code),
		slog.String("err", uf.Error()),
	)
	return e.reply(ctx, r, Reply{Text: uf.UserMessage(), Buttons: buttons})
}

func pick[T any](rnd Rand, items []T) T {
	return items[rnd.IntN(len(items))]
}

func again(label string, cmd Command) [][]Button {
	return [][]Button{{{Text: label, Action: Run(cmd)}}}
}

// startMenu is the eight-button menu shown by /start, two per row.
func startMenu() [][]Button {
	return [][]Button{
		{{Text: "🎲 Roll Dice", Action: Run(CmdRoll)}, {Text: "🎮 Play Game", Action: Run(CmdGame)}},
		{{Text: "😂 Tell Joke", Action: Run(CmdJoke)}, {Text: "🤓 Fun Fact", Action: Run(CmdFact)}},
		{{Text: "🧠 Quick Quiz", Action: Run(CmdQuiz)}, {Text: "🐱 Cute Animal", Action: Run(CmdAnimal)}},
		{{Text: "📊 My Stats", Action: Run(CmdStats)}, {Text: "❓ Help", Action: Run(CmdHelp)}},
	}
}

// quickMenu follows chat replies.
func quickMenu() [][]Button {
	return [][]Button{
		{{Text: "🎲 Roll Dice", Action: Run(CmdRoll)}, {Text: "😂 Tell Joke", Action: Run(CmdJoke)}},
		{{Text: "🎮 Play Game", Action: Run(CmdGame)}, {Text: "❓ Help", Action: Run(CmdHelp)}},
	}
}
