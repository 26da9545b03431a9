package ui

import tele "gopkg.in/telebot.v4"

// FallbackProvider supplies the handlers used when an update maps to no
// command, callback, or conversation step.
type FallbackProvider interface {
	UnknownText() tele.HandlerFunc
	UnknownDocument() tele.HandlerFunc
	UnknownCallback() tele.HandlerFunc
}
