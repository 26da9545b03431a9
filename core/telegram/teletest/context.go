// Package teletest provides an in-memory tele.Context for handler tests.
package teletest

import (
	"fmt"
	"strings"
	"sync"

	tele "gopkg.in/telebot.v4"
)

// Sent is one outbound call recorded by Context.
type Sent struct {
	Text    string
	Options []any
}

// Markup returns the reply markup passed with the call, if any.
func (s Sent) Markup() *tele.ReplyMarkup {
	for _, o := range s.Options {
		switch v := o.(type) {
		case *tele.SendOptions:
			if v != nil && v.ReplyMarkup != nil {
				return v.ReplyMarkup
			}
		case *tele.ReplyMarkup:
			return v
		}
	}
	return nil
}

// Context implements the subset of tele.Context exercised by the bot's
// handlers. Calling any other method panics.
type Context struct {
	tele.Context

	mu        sync.Mutex
	update    tele.Update
	store     map[string]any
	sent      []Sent
	edits     []Sent
	responses []*tele.CallbackResponse

	// SendErr and EditErr are returned by Send and Edit when set.
	SendErr error
	EditErr error
}

// NewMessage builds a context for a text message from user in a private chat.
func NewMessage(updateID int, user *tele.User, text string) *Context {
	msg := &tele.Message{
		ID:     updateID,
		Sender: user,
		Chat:   &tele.Chat{ID: user.ID, Type: tele.ChatPrivate},
		Text:   text,
	}
	if strings.HasPrefix(text, "/") {
		_, payload, _ := strings.Cut(text, " ")
		msg.Payload = payload
	}
	return &Context{update: tele.Update{ID: updateID, Message: msg}, store: map[string]any{}}
}

// NewCallback builds a context for a button press carrying raw data.
func NewCallback(updateID int, user *tele.User, data string) *Context {
	msg := &tele.Message{
		ID:   updateID + 1000,
		Chat: &tele.Chat{ID: user.ID, Type: tele.ChatPrivate},
		Text: "previous message",
	}
	cb := &tele.Callback{ID: fmt.Sprint(updateID), Sender: user, Message: msg, Data: data}
	return &Context{update: tele.Update{ID: updateID, Callback: cb}, store: map[string]any{}}
}

func (c *Context) Update() tele.Update { return c.update }

func (c *Context) Message() *tele.Message {
	switch {
	case c.update.Message != nil:
		return c.update.Message
	case c.update.Callback != nil:
		return c.update.Callback.Message
	}
	return nil
}

func (c *Context) Callback() *tele.Callback { return c.update.Callback }

func (c *Context) Sender() *tele.User {
	switch {
	case c.update.Message != nil:
		return c.update.Message.Sender
	case c.update.Callback != nil:
		return c.update.Callback.Sender
	}
	return nil
}

func (c *Context) Chat() *tele.Chat {
	if m := c.Message(); m != nil {
		return m.Chat
	}
	return nil
}

func (c *Context) Recipient() tele.Recipient { return c.Chat() }

func (c *Context) Text() string {
	if c.update.Message != nil {
		return c.update.Message.Text
	}
	return ""
}

func (c *Context) Data() string {
	if c.update.Callback != nil {
		return c.update.Callback.Data
	}
	return ""
}

func (c *Context) Args() []string {
	if c.update.Message != nil {
		return strings.Fields(c.update.Message.Payload)
	}
	return nil
}

func (c *Context) Send(what any, opts ...any) error {
	if c.SendErr != nil {
		return c.SendErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, Sent{Text: fmt.Sprint(what), Options: opts})
	return nil
}

func (c *Context) Edit(what any, opts ...any) error {
	if c.EditErr != nil {
		return c.EditErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.edits = append(c.edits, Sent{Text: fmt.Sprint(what), Options: opts})
	return nil
}

func (c *Context) Respond(resp ...*tele.CallbackResponse) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	var r *tele.CallbackResponse
	if len(resp) > 0 {
		r = resp[0]
	}
	c.responses = append(c.responses, r)
	return nil
}

func (c *Context) Get(key string) any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store[key]
}

func (c *Context) Set(key string, val any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[key] = val
}

// Sent returns the recorded Send calls.
func (c *Context) Sent() []Sent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Sent(nil), c.sent...)
}

// Edits returns the recorded Edit calls.
func (c *Context) Edits() []Sent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Sent(nil), c.edits...)
}

// Responses returns the recorded callback answers; a nil entry is a bare ack.
func (c *Context) Responses() []*tele.CallbackResponse {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*tele.CallbackResponse(nil), c.responses...)
}
