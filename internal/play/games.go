package play

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/m3rciful/playbot/core/logger"
	"github.com/m3rciful/playbot/internal/session"
)

const (
	guessMin = 1
	guessMax = 10
)

// startGame replaces any active session with a fresh number game.
func (e *Engine) startGame(ctx context.Context, ev Event, r Responder) error {
	e.count(ev)
	secret := e.rand.IntN(guessMax-guessMin+1) + guessMin
	e.sessions.Set(ev.UserID, session.NewNumberGuess(secret, e.now()))
	ctx = logger.WithSession(ctx, string(session.KindNumberGuess))
	logger.Info(ctx, component, "session.started")
	return e.reply(ctx, r, Reply{Text: msgGameRules})
}

// startQuiz replaces any active session with a random question.
func (e *Engine) startQuiz(ctx context.Context, ev Event, r Responder) error {
	e.count(ev)
	q := pick(e.rand, e.content.Questions)
	e.sessions.Set(ev.UserID, session.NewQuiz(q, e.now()))
	ctx = logger.WithSession(ctx, string(session.KindQuiz))
	logger.Info(ctx, component, "session.started")
	rows := make([][]Button, 0, len(q.Options))
	for i, opt := range q.Options {
		rows = append(rows, []Button{{Text: opt, Action: Answer(i)}})
	}
	return e.reply(ctx, r, Reply{Text: quizPromptText(q), Buttons: rows})
}

// guessOutcome is the result of one valid guess.
type guessOutcome struct {
	next  session.Session
	op    session.Op
	reply Reply
	won   bool
}

// guessStep advances a number game by one message. Invalid guesses leave
// the game untouched and do not use an attempt.
func guessStep(cur session.Session, text string) (guessOutcome, error) {
	guess, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return guessOutcome{}, &ValidationError{Field: "guess", Message: msgGuessNotNumber}
	}
	if guess < guessMin || guess > guessMax {
		return guessOutcome{}, &ValidationError{Field: "guess", Message: msgGuessOutOfRange}
	}
	g := cur.Guess
	g.Attempts++
	cur.Guess = g
	switch {
	case guess == g.Secret:
		return guessOutcome{next: cur, op: session.Drop, reply: Reply{Text: guessWinText(g.Secret, g.Attempts)}, won: true}, nil
	case g.Remaining() <= 0:
		return guessOutcome{next: cur, op: session.Drop, reply: Reply{Text: guessLossText(g.Secret)}}, nil
	default:
		return guessOutcome{next: cur, op: session.Save, reply: Reply{Text: guessHintText(guess < g.Secret, g.Remaining())}}, nil
	}
}

// answerQuiz resolves the active quiz. Presses without a quiz session, or
// while another kind of session is active, leave state untouched.
func (e *Engine) answerQuiz(ctx context.Context, ev Event, r Responder) error {
	var (
		expired bool
		rep     Reply
		correct bool
	)
	e.sessions.Update(ev.UserID, func(cur session.Session, ok bool) (session.Session, session.Op) {
		if !ok || cur.Kind != session.KindQuiz {
			expired = true
			return cur, session.Keep
		}
		q := cur.Quiz.Question
		correct = ev.Action.Index == q.Correct
		if correct {
			rep = Reply{Text: quizCorrectText(q)}
		} else {
			rep = Reply{Text: quizWrongText(q)}
		}
		rep.Buttons = again("🧠 Another Quiz", CmdQuiz)
		return cur, session.Drop
	})
	if expired {
		return e.refuse(ctx, r, &ExpiredStateError{Action: ev.Action})
	}
	ctx = logger.WithSession(ctx, string(session.KindQuiz))
	logger.Info(ctx, component, "session.finished",
		slog.String("outcome", outcome(correct)),
	)
	return e.reply(ctx, r, rep)
}

func outcome(won bool) string {
	if won {
		return "win"
	}
	return "loss"
}
