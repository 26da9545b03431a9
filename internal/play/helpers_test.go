package play

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/m3rciful/playbot/internal/content"
	"github.com/m3rciful/playbot/internal/session"
	"github.com/m3rciful/playbot/internal/users"
)

// seqRand replays vals in order, each reduced modulo n.
type seqRand struct {
	mu   sync.Mutex
	vals []int
	i    int
}

func (s *seqRand) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.vals) == 0 {
		return 0
	}
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v % n
}

type recorder struct {
	mu      sync.Mutex
	replies []Reply
	opened  []string
	edits   []Reply
	fail    error
}

func (r *recorder) Reply(_ context.Context, rep Reply) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	r.replies = append(r.replies, rep)
	return nil
}

func (r *recorder) Open(_ context.Context, text string) (Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return nil, r.fail
	}
	r.opened = append(r.opened, text)
	return recordedMessage{r}, nil
}

func (r *recorder) last(t *testing.T) Reply {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.replies, "no reply recorded")
	return r.replies[len(r.replies)-1]
}

func (r *recorder) all() []Reply {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Reply(nil), r.replies...)
}

type recordedMessage struct{ r *recorder }

func (m recordedMessage) Edit(_ context.Context, rep Reply) error {
	m.r.mu.Lock()
	defer m.r.mu.Unlock()
	m.r.edits = append(m.r.edits, rep)
	return nil
}

type scheduled struct {
	chatID int64
	delay  time.Duration
	text   string
}

type fakeScheduler struct {
	mu    sync.Mutex
	calls []scheduled
	err   error
}

func (f *fakeScheduler) Schedule(_ context.Context, chatID int64, delay time.Duration, text string) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	f.calls = append(f.calls, scheduled{chatID: chatID, delay: delay, text: text})
	return uint64(len(f.calls)), nil
}

var errSendFailed = errors.New("telegram: bad gateway")

type fixture struct {
	engine    *Engine
	sessions  *session.Memory
	users     *users.Memory
	reminders *fakeScheduler
	rand      *seqRand
	joined    time.Time
}

func newFixture(t *testing.T, vals ...int) *fixture {
	t.Helper()
	sessions, err := session.NewMemory(session.Options{})
	require.NoError(t, err)
	t.Cleanup(sessions.Close)

	joined := time.Date(2024, time.March, 5, 9, 30, 0, 0, time.UTC)
	f := &fixture{
		sessions:  sessions,
		users:     users.NewMemory(func() time.Time { return joined }),
		reminders: &fakeScheduler{},
		rand:      &seqRand{vals: vals},
		joined:    joined,
	}
	f.engine, err = New(Options{
		Content:      content.Default(),
		Sessions:     f.sessions,
		Users:        f.users,
		Reminders:    f.reminders,
		Rand:         f.rand,
		Now:          func() time.Time { return joined },
		FrameDelay:   -1,
		ReminderUnit: time.Second,
		Version:      "1.2.3",
	})
	require.NoError(t, err)
	return f
}

const (
	testUser = int64(42)
	testChat = int64(4242)
)

func (f *fixture) command(t *testing.T, cmd Command, args ...string) *recorder {
	t.Helper()
	r := &recorder{}
	err := f.engine.Handle(context.Background(), Event{
		Kind:      KindCommand,
		UserID:    testUser,
		ChatID:    testChat,
		FirstName: "Ada",
		Username:  "ada",
		Command:   cmd,
		Args:      args,
	}, r)
	require.NoError(t, err)
	return r
}

func (f *fixture) text(t *testing.T, text string) *recorder {
	t.Helper()
	r := &recorder{}
	err := f.engine.Handle(context.Background(), Event{
		Kind:      KindFreeText,
		UserID:    testUser,
		ChatID:    testChat,
		FirstName: "Ada",
		Text:      text,
	}, r)
	require.NoError(t, err)
	return r
}

func (f *fixture) press(t *testing.T, token string) *recorder {
	t.Helper()
	a, err := ParseAction(token)
	require.NoError(t, err)
	r := &recorder{}
	err = f.engine.Handle(context.Background(), Event{
		Kind:      KindButtonPress,
		UserID:    testUser,
		ChatID:    testChat,
		FirstName: "Ada",
		Action:    a,
	}, r)
	require.NoError(t, err)
	return r
}

func (f *fixture) commands(t *testing.T) int {
	t.Helper()
	p, ok := f.users.Get(testUser)
	require.True(t, ok, "user not registered")
	return p.Commands
}

func tokens(rows [][]Button) [][]string {
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		line := make([]string, 0, len(row))
		for _, b := range row {
			line = append(line, b.Action.Token())
		}
		out = append(out, line)
	}
	return out
}
