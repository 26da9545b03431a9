package play

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		in   string
		want chatCategory
	}{
		{in: "hello there", want: chatGreeting},
		{in: "good evening bot", want: chatGreeting},
		{in: "how are you", want: chatQuestion},
		{in: "what can you do", want: chatQuestion},
		{in: "thanks a lot", want: chatCompliment},
		{in: "that was awesome", want: chatCompliment},
		{in: "random words", want: chatGeneric},
		// Substring matching: "hi" inside "this" wins over "great".
		{in: "this is great", want: chatGreeting},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, classify(tt.in), tt.in)
	}
}

func TestChatReplyUsesNameAndQuickMenu(t *testing.T) {
	f := newFixture(t, 0)
	rep := f.text(t, "Hello!").last(t)
	assert.Equal(t, "Hello Ada! 👋 How can I help you today?", rep.Text)
	assert.Equal(t, [][]string{{"roll", "joke"}, {"game", "help"}}, tokens(rep.Buttons))
}

func TestChatTemplateWithoutName(t *testing.T) {
	f := newFixture(t, 1)
	rep := f.text(t, "how are you").last(t)
	assert.Equal(t, "I'm here to entertain and help you! Games, facts, math, and more! 🎯", rep.Text)
}

func TestFreeTextMath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "what is 2+3", want: "🧮 2+3 = *5*"},
		{in: "10 / 4", want: "🧮 10 / 4 = *2.5*"},
		{in: "(1+2)*3 please", want: "🧮 (1+2)\\*3 = *9*"},
		{in: "what is 2*3", want: "🧮 2\\*3 = *6*"},
	}
	for _, tt := range tests {
		f := newFixture(t)
		rep := f.text(t, tt.in).last(t)
		assert.Equal(t, tt.want, rep.Text, tt.in)
		assert.Empty(t, rep.Buttons)
	}
}

func TestFreeTextMathFallsBackToChat(t *testing.T) {
	f := newFixture(t, 0)
	for _, in := range []string{"1/0", "2024-", "call me at 5"} {
		rep := f.text(t, in).last(t)
		assert.NotContains(t, rep.Text, "🧮", in)
		assert.Len(t, rep.Buttons, 2, in)
	}
}

func TestUnknownCommandTextIsChat(t *testing.T) {
	f := newFixture(t, 0)
	rep := f.text(t, "/dance").last(t)
	assert.Equal(t, "That's interesting, Ada! 🤔 Try /help to see what I can do!", rep.Text)
}
