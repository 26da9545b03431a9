package session

import (
	"fmt"
	"time"

	"github.com/maypok86/otter"

	"github.com/m3rciful/playbot/internal/keylock"
)

const (
	// DefaultCapacity bounds the number of concurrent sessions.
	DefaultCapacity = 10_000
	// DefaultTTL drops sessions left untouched for this long.
	DefaultTTL = time.Hour
)

// Op tells Update what to do with the entry once the step returns.
type Op int

const (
	// Keep leaves the stored session as it was.
	Keep Op = iota
	// Save stores the returned session.
	Save
	// Drop removes the session.
	Drop
)

// Options configures Memory.
type Options struct {
	Capacity int
	// TTL counts from the last write. Zero disables expiry.
	TTL time.Duration
}

// Memory is an in-process session store. Reads are lock free; every write
// for a user runs inside that user's critical section.
type Memory struct {
	cache otter.Cache[int64, Session]
	locks *keylock.Locker[int64]
}

// NewMemory builds a store backed by a bounded otter cache.
func NewMemory(opts Options) (*Memory, error) {
	capacity := opts.Capacity
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	builder := otter.MustBuilder[int64, Session](capacity)
	var (
		cache otter.Cache[int64, Session]
		err   error
	)
	if opts.TTL > 0 {
		cache, err = builder.WithTTL(opts.TTL).Build()
	} else {
		cache, err = builder.Build()
	}
	if err != nil {
		return nil, fmt.Errorf("session: build cache with capacity %d: %w", capacity, err)
	}
	return &Memory{cache: cache, locks: keylock.New[int64]()}, nil
}

// Get returns the user's session if one is active.
func (m *Memory) Get(userID int64) (Session, bool) {
	return m.cache.Get(userID)
}

// Set installs s, discarding any session the user already had.
func (m *Memory) Set(userID int64, s Session) {
	unlock := m.locks.Lock(userID)
	defer unlock()
	m.cache.Set(userID, s)
}

// Clear removes the user's session.
func (m *Memory) Clear(userID int64) {
	unlock := m.locks.Lock(userID)
	defer unlock()
	m.cache.Delete(userID)
}

// Update runs one read-modify-write step for the user atomically with
// respect to other writes for the same user. fn must not block on I/O.
func (m *Memory) Update(userID int64, fn func(cur Session, ok bool) (Session, Op)) {
	unlock := m.locks.Lock(userID)
	defer unlock()
	cur, ok := m.cache.Get(userID)
	next, op := fn(cur, ok)
	switch op {
	case Save:
		m.cache.Set(userID, next)
	case Drop:
		if ok {
			m.cache.Delete(userID)
		}
	}
}

// Len reports the number of active sessions.
func (m *Memory) Len() int {
	return m.cache.Size()
}

// Close releases the cache's background resources.
func (m *Memory) Close() {
	m.cache.Close()
}
