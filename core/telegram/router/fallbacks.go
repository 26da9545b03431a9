package router

import "github.com/m3rciful/playbot/core/telegram/ui"

// Fallbacks derives text and callback options from a single provider.
func Fallbacks(p ui.FallbackProvider) (TextOptions, CallbackOptions) {
	if p == nil {
		return TextOptions{}, CallbackOptions{}
	}
	return TextOptions{
			UnknownText:     p.UnknownText(),
			UnknownDocument: p.UnknownDocument(),
		}, CallbackOptions{
			NotFound: p.UnknownCallback(),
		}
}
