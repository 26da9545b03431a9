package play

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/playbot/internal/content"
	"github.com/m3rciful/playbot/internal/session"
	"github.com/m3rciful/playbot/internal/users"
)

func TestNewRequiresCollaborators(t *testing.T) {
	sessions, err := session.NewMemory(session.Options{})
	require.NoError(t, err)
	defer sessions.Close()

	full := Options{
		Content:   content.Default(),
		Sessions:  sessions,
		Users:     users.NewMemory(nil),
		Reminders: &fakeScheduler{},
	}
	_, err = New(full)
	require.NoError(t, err)

	for name, mutate := range map[string]func(*Options){
		"content":   func(o *Options) { o.Content = nil },
		"sessions":  func(o *Options) { o.Sessions = nil },
		"users":     func(o *Options) { o.Users = nil },
		"reminders": func(o *Options) { o.Reminders = nil },
		"empty":     func(o *Options) { o.Content = &content.Store{} },
	} {
		opts := full
		mutate(&opts)
		_, err := New(opts)
		assert.Error(t, err, name)
	}
}

func TestStartRegistersAndShowsMenu(t *testing.T) {
	f := newFixture(t)
	r := f.command(t, CmdStart)

	rep := r.last(t)
	assert.Contains(t, rep.Text, "*Welcome Ada!*")
	assert.Equal(t, [][]string{
		{"roll", "game"},
		{"joke", "fact"},
		{"quiz", "animal"},
		{"stats", "help"},
	}, tokens(rep.Buttons))

	p, ok := f.users.Get(testUser)
	require.True(t, ok)
	assert.Equal(t, "Ada", p.Name)
	assert.Equal(t, "ada", p.Handle)
	assert.Zero(t, p.Commands)
}

func TestStartEscapesName(t *testing.T) {
	f := newFixture(t)
	r := &recorder{}
	require.NoError(t, f.engine.Handle(context.Background(), Event{
		Kind: KindCommand, UserID: 1, ChatID: 1, FirstName: "snake_case*", Command: CmdStart,
	}, r))
	assert.Contains(t, r.last(t).Text, `snake\_case\*`)
}

func TestRepeatedStartKeepsProfile(t *testing.T) {
	f := newFixture(t)
	f.command(t, CmdStart)
	f.command(t, CmdJoke)
	f.command(t, CmdStart)

	p, ok := f.users.Get(testUser)
	require.True(t, ok)
	assert.Equal(t, 1, p.Commands)
	assert.Equal(t, f.joined, p.JoinedAt)
}

func TestStats(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, msgNoStats, f.command(t, CmdStats).last(t).Text)

	f.command(t, CmdStart)
	for i := 0; i < 6; i++ {
		f.command(t, CmdFact)
	}
	text := f.command(t, CmdStats).last(t).Text
	assert.Contains(t, text, "*Name:* Ada")
	assert.Contains(t, text, "*Joined:* March 05, 2024")
	assert.Contains(t, text, "*Commands Used:* 6")
	assert.Contains(t, text, string(users.TierActive))
	assert.Equal(t, 6, f.commands(t), "stats itself is not counted")
}

func TestCountedCommands(t *testing.T) {
	f := newFixture(t)
	f.command(t, CmdStart)

	f.command(t, CmdRoll)
	f.command(t, CmdGame)
	f.command(t, CmdQuiz)
	f.command(t, CmdJoke)
	f.command(t, CmdFact)
	f.command(t, CmdAnimal)
	f.command(t, CmdQuote)
	f.command(t, CmdMath, "1+1")
	f.command(t, CmdWeather, "Paris")
	f.command(t, CmdReminder, "1", "stretch")
	assert.Equal(t, 10, f.commands(t))

	f.command(t, CmdHelp)
	f.command(t, CmdAbout)
	f.command(t, CmdStats)
	f.command(t, CmdStart)
	f.command(t, CmdMath)
	f.command(t, CmdMath, "2^3")
	f.command(t, CmdWeather)
	f.command(t, CmdReminder, "soon", "x")
	f.press(t, "quiz_0")
	f.text(t, "hello")
	assert.Equal(t, 10, f.commands(t))
}

func TestUnregisteredUsersAreNotTracked(t *testing.T) {
	f := newFixture(t)
	f.command(t, CmdJoke)
	_, ok := f.users.Get(testUser)
	assert.False(t, ok)
}

func TestAboutShowsVersion(t *testing.T) {
	f := newFixture(t)
	assert.Contains(t, f.command(t, CmdAbout).last(t).Text, "1.2.3")
}

func TestContentCommands(t *testing.T) {
	f := newFixture(t, 2)
	store := content.Default()

	rep := f.command(t, CmdJoke).last(t)
	assert.Contains(t, rep.Text, store.Jokes[2])
	assert.Equal(t, [][]string{{"joke"}}, tokens(rep.Buttons))

	rep = f.command(t, CmdFact).last(t)
	assert.Contains(t, rep.Text, store.Facts[2])
	assert.Equal(t, [][]string{{"fact"}}, tokens(rep.Buttons))

	rep = f.command(t, CmdAnimal).last(t)
	assert.Contains(t, rep.Text, store.Animals[2].Name)
	assert.True(t, strings.HasPrefix(rep.Text, store.Animals[2].Emoji))
	assert.Equal(t, [][]string{{"animal"}}, tokens(rep.Buttons))

	rep = f.command(t, CmdQuote).last(t)
	assert.Contains(t, rep.Text, store.Quotes[2].Author)
	assert.Equal(t, [][]string{{"quote"}}, tokens(rep.Buttons))
}

func TestButtonRunsCommand(t *testing.T) {
	f := newFixture(t)
	f.command(t, CmdStart)
	rep := f.press(t, "help").last(t)
	assert.Equal(t, msgHelp, rep.Text)
	assert.Zero(t, f.commands(t))
}

func TestRollAnimatesAndReportsFace(t *testing.T) {
	tests := []struct {
		draw int
		face string
		tail string
	}{
		{draw: 5, face: "⚅ *You rolled 6!*", tail: "Perfect! Maximum score!"},
		{draw: 0, face: "⚀ *You rolled 1!*", tail: "Everyone needs luck sometimes!"},
		{draw: 2, face: "⚂ *You rolled 3!*", tail: "Nice roll!"},
	}
	for _, tt := range tests {
		t.Run(tt.face, func(t *testing.T) {
			f := newFixture(t, tt.draw)
			r := f.command(t, CmdRoll)

			assert.Equal(t, []string{rollPlaceholder}, r.opened)
			require.Len(t, r.edits, 4)
			assert.Equal(t, "🎲 Rolling dice.", r.edits[0].Text)
			assert.Equal(t, "🎲 Rolling dice..", r.edits[1].Text)
			assert.Equal(t, "🎲 Rolling dice...", r.edits[2].Text)
			final := r.edits[3]
			assert.Contains(t, final.Text, tt.face)
			assert.Contains(t, final.Text, tt.tail)
			assert.Equal(t, [][]string{{"roll"}}, tokens(final.Buttons))
			assert.Empty(t, r.replies)
		})
	}
}

func TestRollIsUniform(t *testing.T) {
	sessions, err := session.NewMemory(session.Options{})
	require.NoError(t, err)
	defer sessions.Close()
	e, err := New(Options{
		Content:    content.Default(),
		Sessions:   sessions,
		Users:      users.NewMemory(nil),
		Reminders:  &fakeScheduler{},
		Rand:       rand.New(rand.NewPCG(1, 2)),
		FrameDelay: -1,
	})
	require.NoError(t, err)

	const rolls = 12000
	counts := map[string]int{}
	for i := 0; i < rolls; i++ {
		r := &recorder{}
		require.NoError(t, e.Handle(context.Background(), Event{Kind: KindCommand, UserID: 1, ChatID: 1, Command: CmdRoll}, r))
		require.Len(t, r.edits, 4)
		counts[strings.Fields(r.edits[3].Text)[0]]++
	}
	require.Len(t, counts, 6)
	for face, n := range counts {
		assert.InDelta(t, rolls/6, n, 250, face)
	}
}

func TestRollStopsOnCancel(t *testing.T) {
	f := newFixture(t)
	f.engine.frame = time.Hour
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := &recorder{}
	err := f.engine.Handle(ctx, Event{Kind: KindCommand, UserID: testUser, ChatID: testChat, Command: CmdRoll}, r)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, r.edits, 1)
}

func TestMathCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "precedence", args: []string{"2", "+", "3", "*", "4"}, want: "`2 + 3 * 4 = 14`"},
		{name: "parentheses", args: []string{"(15+5)/4"}, want: "`(15+5)/4 = 5`"},
		{name: "decimal", args: []string{"2.5*4"}, want: "`2.5*4 = 10`"},
		{name: "usage", args: nil, want: msgMathUsage},
		{name: "bad characters", args: []string{"2^3"}, want: msgMathInvalid},
		{name: "letters", args: []string{"import", "os"}, want: msgMathInvalid},
		{name: "division by zero", args: []string{"1/0"}, want: msgMathFailed},
		{name: "dangling operator", args: []string{"2+"}, want: msgMathFailed},
		{name: "comma", args: []string{"1,5+1"}, want: msgMathFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			text := f.command(t, CmdMath, tt.args...).last(t).Text
			assert.Contains(t, text, tt.want)
		})
	}
}

func TestWeatherTitleCasesCity(t *testing.T) {
	f := newFixture(t)
	assert.Contains(t, f.command(t, CmdWeather, "new", "YORK").last(t).Text, "*Weather for New York*")
	assert.Equal(t, msgWeatherUsage, f.command(t, CmdWeather).last(t).Text)
}

func TestReminderSchedules(t *testing.T) {
	f := newFixture(t)
	rep := f.command(t, CmdReminder, "5", "Check", "the", "oven").last(t)
	assert.Contains(t, rep.Text, "*5 minutes*")
	assert.Contains(t, rep.Text, "_Check the oven_")

	require.Len(t, f.reminders.calls, 1)
	call := f.reminders.calls[0]
	assert.Equal(t, testChat, call.chatID)
	assert.Equal(t, 5*time.Second, call.delay)
	assert.Contains(t, call.text, "*REMINDER ALERT!*")
	assert.Contains(t, call.text, "*Check the oven*")

	rep = f.command(t, CmdReminder, "1", "tea").last(t)
	assert.Contains(t, rep.Text, "*1 minute*:")
}

func TestReminderValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "no args", args: nil, want: msgReminderUsage},
		{name: "minutes only", args: []string{"5"}, want: msgReminderUsage},
		{name: "not a number", args: []string{"five", "x"}, want: msgReminderNotInt},
		{name: "zero", args: []string{"0", "x"}, want: msgReminderNotInt},
		{name: "negative", args: []string{"-3", "x"}, want: msgReminderNotInt},
		{name: "over a day", args: []string{"1441", "x"}, want: msgReminderTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			assert.Equal(t, tt.want, f.command(t, CmdReminder, tt.args...).last(t).Text)
			assert.Empty(t, f.reminders.calls)
		})
	}
}

func TestReminderAcceptsFullDay(t *testing.T) {
	f := newFixture(t)
	f.command(t, CmdReminder, "1440", "x")
	require.Len(t, f.reminders.calls, 1)
	assert.Equal(t, 1440*time.Second, f.reminders.calls[0].delay)
}

func TestReminderSchedulerFailureIsReturned(t *testing.T) {
	f := newFixture(t)
	f.reminders.err = fmt.Errorf("stopped")
	r := &recorder{}
	err := f.engine.Handle(context.Background(), Event{
		Kind: KindCommand, UserID: testUser, ChatID: testChat, Command: CmdReminder, Args: []string{"1", "x"},
	}, r)
	assert.Error(t, err)
	assert.Empty(t, r.replies)
}

func TestDeliveryFailureIsSwallowed(t *testing.T) {
	f := newFixture(t)
	for _, ev := range []Event{
		{Kind: KindCommand, UserID: testUser, Command: CmdHelp},
		{Kind: KindCommand, UserID: testUser, Command: CmdRoll},
		{Kind: KindFreeText, UserID: testUser, Text: "hi"},
		{Kind: KindButtonPress, UserID: testUser, Action: Answer(1)},
	} {
		r := &recorder{fail: errSendFailed}
		assert.NoError(t, f.engine.Handle(context.Background(), ev, r), ev.Kind.String())
	}
}

func TestUnknownEventKind(t *testing.T) {
	f := newFixture(t)
	assert.Error(t, f.engine.Handle(context.Background(), Event{Kind: EventKind(99)}, &recorder{}))
	assert.ErrorIs(t, f.engine.Handle(context.Background(), Event{Kind: KindButtonPress}, &recorder{}), ErrUnknownAction)
}

func TestConcurrentUsersDoNotShareSessions(t *testing.T) {
	f := newFixture(t, 4)
	var wg sync.WaitGroup
	for uid := int64(1); uid <= 50; uid++ {
		wg.Add(1)
		go func(uid int64) {
			defer wg.Done()
			ev := Event{Kind: KindCommand, UserID: uid, ChatID: uid, Command: CmdGame}
			_ = f.engine.Handle(context.Background(), ev, &recorder{})
			ev = Event{Kind: KindFreeText, UserID: uid, ChatID: uid, Text: "5"}
			_ = f.engine.Handle(context.Background(), ev, &recorder{})
		}(uid)
	}
	wg.Wait()
	assert.Equal(t, 0, f.sessions.Len())
}
