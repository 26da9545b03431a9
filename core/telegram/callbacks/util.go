package callbacks

import (
	"strings"

	tele "gopkg.in/telebot.v4"
)

// ParseCallbackData splits callback data into a routing key and an optional
// payload. It accepts both telebot's "\f<unique>|<payload>" encoding and raw
// tokens such as "roll" or "quiz_2". The key is only good for picking a
// route; handlers that need the exact token read cb.Data.
func ParseCallbackData(cb *tele.Callback) (string, string) {
	if cb == nil {
		return "", ""
	}
	if cb.Unique != "" {
		return cb.Unique, cb.Data
	}
	raw := strings.TrimPrefix(cb.Data, "\f")
	key, payload, _ := strings.Cut(raw, "|")
	return strings.TrimSpace(key), payload
}

const answeredKey = "callback.answered"

// Answer acknowledges the callback once. Later calls for the same update
// are no-ops, so a handler and the router never both answer.
func Answer(c tele.Context, resp ...*tele.CallbackResponse) error {
	if Answered(c) {
		return nil
	}
	c.Set(answeredKey, true)
	return c.Respond(resp...)
}

// Answered reports whether Answer already ran for this update.
func Answered(c tele.Context) bool {
	v, _ := c.Get(answeredKey).(bool)
	return v
}
