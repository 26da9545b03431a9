package play

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/m3rciful/playbot/core/logger"
	"github.com/m3rciful/playbot/core/telegram/format"
	"github.com/m3rciful/playbot/internal/arith"
	"github.com/m3rciful/playbot/internal/session"
)

// chatCategory is the intent guessed from a free-text message.
type chatCategory string

const (
	chatGreeting   chatCategory = "greeting"
	chatQuestion   chatCategory = "question"
	chatCompliment chatCategory = "compliment"
	chatGeneric    chatCategory = "generic"
)

// Keywords match as substrings of the lowercased message, in this order.
var chatKeywords = []struct {
	category chatCategory
	words    []string
}{
	{chatGreeting, []string{"hello", "hi", "hey", "good morning", "good afternoon", "good evening"}},
	{chatQuestion, []string{"how are you", "what can you do", "help me"}},
	{chatCompliment, []string{"thank you", "thanks", "awesome", "great", "amazing", "cool"}},
}

// Each template takes the escaped first name once, or not at all.
var chatReplies = map[chatCategory][]string{
	chatGreeting: {
		"Hello %s! 👋 How can I help you today?",
		"Hi there, %s! 😊 What would you like to do?",
		"Hey %s! 🎉 Ready for some fun? Try /roll or /game!",
	},
	chatQuestion: {
		"I can do lots of things, %s! Try /help to see all my commands! 🤖",
		"I'm here to entertain and help you! Games, facts, math, and more! 🎯",
		"I'm doing great, %s! I can play games, tell jokes, do math, and chat! 😄",
	},
	chatCompliment: {
		"You're very welcome, %s! 😊 I'm happy to help!",
		"Aww, thanks %s! 🥰 You're awesome too!",
		"I'm glad you like it! Feel free to use me anytime! ✨",
	},
	chatGeneric: {
		"That's interesting, %s! 🤔 Try /help to see what I can do!",
		"Cool message, %s! 👍 Want to play a game? Try /game!",
		"Thanks for sharing, %s! 😊 How about a fun fact? Try /fact!",
	},
}

func classify(lower string) chatCategory {
	for _, group := range chatKeywords {
		for _, w := range group.words {
			if strings.Contains(lower, w) {
				return group.category
			}
		}
	}
	return chatGeneric
}

func chatText(tmpl, name string) string {
	if strings.Contains(tmpl, "%s") {
		return fmt.Sprintf(tmpl, format.MD(name))
	}
	return tmpl
}

// handleText feeds free text to the active session, if any, and otherwise
// to the chat router.
func (e *Engine) handleText(ctx context.Context, ev Event, r Responder) error {
	var (
		active  bool
		kind    session.Kind
		rep     Reply
		stepErr error
		ended   bool
		won     bool
	)
	e.sessions.Update(ev.UserID, func(cur session.Session, ok bool) (session.Session, session.Op) {
		if !ok {
			return cur, session.Keep
		}
		active = true
		kind = cur.Kind
		if cur.Kind != session.KindNumberGuess {
			rep = Reply{Text: msgQuizUseButtons}
			return cur, session.Keep
		}
		out, err := guessStep(cur, ev.Text)
		if err != nil {
			stepErr = err
			return cur, session.Keep
		}
		rep, ended, won = out.reply, out.op == session.Drop, out.won
		return out.next, out.op
	})
	if !active {
		return e.chat(ctx, ev, r)
	}
	if stepErr != nil {
		return e.refuse(ctx, r, stepErr)
	}
	if ended {
		ctx = logger.WithSession(ctx, string(kind))
		logger.Info(ctx, component, "session.finished",
			slog.String("outcome", outcome(won)),
		)
	}
	return e.reply(ctx, r, rep)
}

// chat answers text outside any session: inline arithmetic first, then a
// canned reply for the guessed intent.
func (e *Engine) chat(ctx context.Context, ev Event, r Responder) error {
	lower := strings.ToLower(ev.Text)
	if arith.LooksLikeMath(lower) {
		if expr := arith.Strip(lower); expr != "" {
			if v, err := arith.Eval(expr); err == nil {
				return e.reply(ctx, r, Reply{Text: inlineMathText(expr, arith.Format(v))})
			}
		}
	}
	category := classify(lower)
	logger.Debug(ctx, component, "chat.classified", slog.String("category", string(category)))
	text := chatText(pick(e.rand, chatReplies[category]), displayName(ev))
	return e.reply(ctx, r, Reply{Text: text, Buttons: quickMenu()})
}
