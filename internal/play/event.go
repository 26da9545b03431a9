// Package play is the interaction core of the bot: it routes commands, free
// text and button presses to handlers and drives per-user game sessions.
// It knows nothing about the chat transport beyond the Responder contract.
package play

import "context"

// EventKind tells how an event entered the bot.
type EventKind int

const (
	// KindCommand is a slash command with optional arguments.
	KindCommand EventKind = iota
	// KindFreeText is any text that is not a known command.
	KindFreeText
	// KindButtonPress is an inline button tap.
	KindButtonPress
)

func (k EventKind) String() string {
	switch k {
	case KindCommand:
		return "command"
	case KindFreeText:
		return "text"
	case KindButtonPress:
		return "button"
	default:
		return "unknown"
	}
}

// Event is the normalized unit the engine consumes.
type Event struct {
	Kind      EventKind
	UserID    int64
	ChatID    int64
	FirstName string
	Username  string

	// Command and Args are set for KindCommand.
	Command Command
	Args    []string
	// Text is set for KindFreeText.
	Text string
	// Action is set for KindButtonPress.
	Action Action
}

// Button is an inline action offered under a reply.
type Button struct {
	Text   string
	Action Action
}

// Reply is the text (Telegram Markdown) and the optional button rows of an
// answer.
type Reply struct {
	Text    string
	Buttons [][]Button
}

// Responder is where replies go. For commands and free text Reply sends a
// new message; for button presses it edits the message that bore the button.
type Responder interface {
	Reply(ctx context.Context, r Reply) error
	// Open shows a placeholder that can be edited afterwards. Edits on the
	// returned Message complete before Edit returns.
	Open(ctx context.Context, text string) (Message, error)
}

// Message is a previously shown message.
type Message interface {
	Edit(ctx context.Context, r Reply) error
}
