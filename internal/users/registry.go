// Package users tracks who started the bot and how much they use it.
package users

import (
	"sync"
	"time"

	"github.com/m3rciful/playbot/internal/keylock"
)

// Tier is the activity label shown in stats.
type Tier string

// Activity tiers, lowest first.
const (
	TierStarter Tier = "Getting Started 🌱"
	TierActive  Tier = "Active User 💪"
	TierPower   Tier = "Power User 🌟"
)

// Profile describes a registered user.
type Profile struct {
	ID       int64
	Name     string
	Handle   string
	JoinedAt time.Time
	Commands int
}

// Tier derives the activity label from the command counter.
func (p Profile) Tier() Tier {
	switch {
	case p.Commands > 20:
		return TierPower
	case p.Commands > 5:
		return TierActive
	default:
		return TierStarter
	}
}

// Memory is the in-process registry. Profiles are never removed.
type Memory struct {
	mu       sync.RWMutex
	profiles map[int64]Profile
	locks    *keylock.Locker[int64]
	now      func() time.Time
}

// NewMemory returns an empty registry. A nil clock means time.Now.
func NewMemory(now func() time.Time) *Memory {
	if now == nil {
		now = time.Now
	}
	return &Memory{
		profiles: make(map[int64]Profile),
		locks:    keylock.New[int64](),
		now:      now,
	}
}

// Register creates the profile on first call. Later calls refresh name and
// handle but keep the join time and the counter.
func (m *Memory) Register(id int64, name, handle string) Profile {
	unlock := m.locks.Lock(id)
	defer unlock()

	p, ok := m.load(id)
	if !ok {
		p = Profile{ID: id, JoinedAt: m.now()}
	}
	p.Name = name
	p.Handle = handle
	m.store(p)
	return p
}

// Touch increments the counter of a registered user. Unknown users are
// ignored and reported with ok=false.
func (m *Memory) Touch(id int64) (int, bool) {
	unlock := m.locks.Lock(id)
	defer unlock()

	p, ok := m.load(id)
	if !ok {
		return 0, false
	}
	p.Commands++
	m.store(p)
	return p.Commands, true
}

// Get returns a copy of the profile.
func (m *Memory) Get(id int64) (Profile, bool) {
	return m.load(id)
}

// Len reports the number of registered users.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.profiles)
}

func (m *Memory) load(id int64) (Profile, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.profiles[id]
	return p, ok
}

func (m *Memory) store(p Profile) {
	m.mu.Lock()
	m.profiles[p.ID] = p
	m.mu.Unlock()
}
