package play

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/m3rciful/playbot/core/logger"
	"github.com/m3rciful/playbot/internal/arith"
)

// MaxReminderMinutes caps /reminder at one day.
const MaxReminderMinutes = 24 * 60

func displayName(ev Event) string {
	if name := strings.TrimSpace(ev.FirstName); name != "" {
		return name
	}
	return "friend"
}

func (e *Engine) start(ctx context.Context, ev Event, r Responder) error {
	p := e.users.Register(ev.UserID, displayName(ev), ev.Username)
	logger.Info(ctx, component, "user.started",
		slog.Int64("user_id", p.ID),
		slog.Int("commands", p.Commands),
	)
	return e.reply(ctx, r, Reply{Text: welcomeText(p.Name), Buttons: startMenu()})
}

func (e *Engine) stats(ctx context.Context, ev Event, r Responder) error {
	p, ok := e.users.Get(ev.UserID)
	if !ok {
		return e.reply(ctx, r, Reply{Text: msgNoStats})
	}
	return e.reply(ctx, r, Reply{Text: statsText(p)})
}

func (e *Engine) roll(ctx context.Context, ev Event, r Responder) error {
	e.count(ev)
	msg, err := r.Open(ctx, rollPlaceholder)
	if err != nil {
		return &DeliveryError{Op: "open", Err: err}
	}
	for i := 1; i <= 3; i++ {
		if err := msg.Edit(ctx, Reply{Text: rollPlaceholder + strings.Repeat(".", i)}); err != nil {
			logger.Debug(ctx, component, "roll.frame_failed",
				slog.Int("frame", i),
				slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			)
		}
		if err := e.pause(ctx); err != nil {
			return err
		}
	}
	n := e.rand.IntN(len(diceFaces)) + 1
	if err := msg.Edit(ctx, Reply{Text: rollText(n), Buttons: again("🎲 Roll Again", CmdRoll)}); err != nil {
		return &DeliveryError{Op: "edit", Err: err}
	}
	return nil
}

func (e *Engine) pause(ctx context.Context) error {
	if e.frame <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(e.frame)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (e *Engine) math(ctx context.Context, ev Event, r Responder) error {
	expr := strings.TrimSpace(strings.Join(ev.Args, " "))
	if expr == "" {
		return e.refuse(ctx, r, &ValidationError{Field: "expression", Message: msgMathUsage})
	}
	if !arith.Allowed(expr) {
		return e.refuse(ctx, r, &ValidationError{Field: "expression", Message: msgMathInvalid})
	}
	e.count(ev)
	v, err := arith.Eval(expr)
	if err != nil {
		return e.refuse(ctx, r, &ComputationError{Expr: expr, Err: err})
	}
	return e.reply(ctx, r, Reply{Text: mathResultText(expr, arith.Format(v))})
}

func (e *Engine) weather(ctx context.Context, ev Event, r Responder) error {
	city := strings.TrimSpace(strings.Join(ev.Args, " "))
	if city == "" {
		return e.refuse(ctx, r, &ValidationError{Field: "city", Message: msgWeatherUsage})
	}
	e.count(ev)
	return e.reply(ctx, r, Reply{Text: weatherText(cases.Title(language.English).String(city))})
}

type reminderRequest struct {
	Minutes int
	Text    string
}

func (q reminderRequest) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.Minutes,
			validation.Required.Error(msgReminderNotInt),
			validation.Min(1).Error(msgReminderNotInt),
			validation.Max(MaxReminderMinutes).Error(msgReminderTooLong),
		),
		validation.Field(&q.Text, validation.Required.Error(msgReminderUsage)),
	)
}

// parseReminder reads "<minutes> <text...>" from command arguments.
func parseReminder(args []string) (reminderRequest, error) {
	if len(args) < 2 {
		return reminderRequest{}, &ValidationError{Field: "arguments", Message: msgReminderUsage}
	}
	minutes, err := strconv.Atoi(args[0])
	if err != nil {
		return reminderRequest{}, &ValidationError{Field: "minutes", Message: msgReminderNotInt}
	}
	req := reminderRequest{Minutes: minutes, Text: strings.TrimSpace(strings.Join(args[1:], " "))}
	if err := req.Validate(); err != nil {
		var fields validation.Errors
		if errors.As(err, &fields) {
			for _, name := range []string{"Minutes", "Text"} {
				if fe, ok := fields[name]; ok {
					return reminderRequest{}, &ValidationError{Field: strings.ToLower(name), Message: fe.Error()}
				}
			}
		}
		return reminderRequest{}, &ValidationError{Field: "arguments", Message: msgReminderUsage}
	}
	return req, nil
}

func (e *Engine) reminder(ctx context.Context, ev Event, r Responder) error {
	req, err := parseReminder(ev.Args)
	if err != nil {
		return e.refuse(ctx, r, err)
	}
	e.count(ev)
	delay := time.Duration(req.Minutes) * e.unit
	if _, err := e.reminders.Schedule(ctx, ev.ChatID, delay, reminderAlertText(req.Text)); err != nil {
		return fmt.Errorf("play: schedule reminder: %w", err)
	}
	return e.reply(ctx, r, Reply{Text: reminderSetText(req.Minutes, req.Text)})
}
