package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/playbot/internal/content"
)

func newStore(t *testing.T, ttl time.Duration) *Memory {
	t.Helper()
	m, err := NewMemory(Options{Capacity: 1000, TTL: ttl})
	require.NoError(t, err)
	t.Cleanup(m.Close)
	return m
}

func TestSetGetClear(t *testing.T) {
	m := newStore(t, 0)
	now := time.Now()

	_, ok := m.Get(1)
	assert.False(t, ok)

	m.Set(1, NewNumberGuess(7, now))
	s, ok := m.Get(1)
	require.True(t, ok)
	assert.Equal(t, KindNumberGuess, s.Kind)
	assert.Equal(t, 7, s.Guess.Secret)
	assert.Equal(t, GuessLimit, s.Guess.Remaining())

	m.Clear(1)
	_, ok = m.Get(1)
	assert.False(t, ok)
}

func TestSetOverwritesOtherKind(t *testing.T) {
	m := newStore(t, 0)
	q := content.Default().Questions[0]

	m.Set(5, NewQuiz(q, time.Now()))
	m.Set(5, NewNumberGuess(3, time.Now()))

	s, ok := m.Get(5)
	require.True(t, ok)
	assert.Equal(t, KindNumberGuess, s.Kind)
}

func TestUpdateOps(t *testing.T) {
	m := newStore(t, 0)
	m.Set(9, NewNumberGuess(4, time.Now()))

	m.Update(9, func(cur Session, ok bool) (Session, Op) {
		require.True(t, ok)
		cur.Guess.Attempts++
		return cur, Save
	})
	s, _ := m.Get(9)
	assert.Equal(t, 1, s.Guess.Attempts)

	m.Update(9, func(cur Session, ok bool) (Session, Op) {
		cur.Guess.Attempts = 99
		return cur, Keep
	})
	s, _ = m.Get(9)
	assert.Equal(t, 1, s.Guess.Attempts)

	m.Update(9, func(cur Session, ok bool) (Session, Op) {
		return Session{}, Drop
	})
	_, ok := m.Get(9)
	assert.False(t, ok)

	m.Update(9, func(cur Session, ok bool) (Session, Op) {
		assert.False(t, ok)
		return Session{}, Drop
	})
}

func TestUpdateIsAtomicPerUser(t *testing.T) {
	m := newStore(t, 0)
	m.Set(3, NewNumberGuess(1, time.Now()))

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Update(3, func(cur Session, ok bool) (Session, Op) {
				cur.Guess.Attempts++
				return cur, Save
			})
		}()
	}
	wg.Wait()

	s, ok := m.Get(3)
	require.True(t, ok)
	assert.Equal(t, 100, s.Guess.Attempts)
}

func TestSessionsExpire(t *testing.T) {
	m := newStore(t, time.Second)
	m.Set(1, NewNumberGuess(2, time.Now()))

	assert.Eventually(t, func() bool {
		_, ok := m.Get(1)
		return !ok
	}, 5*time.Second, 50*time.Millisecond)
}
