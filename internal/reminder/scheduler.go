// Package reminder delivers one-shot delayed messages to chats.
package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/m3rciful/playbot/core/logger"
)

const component = "reminder"

// ErrStopped is returned by Schedule after Stop.
var ErrStopped = errors.New("reminder: scheduler stopped")

// Sender delivers a reminder text to a chat.
type Sender interface {
	SendReminder(ctx context.Context, chatID int64, text string) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, chatID int64, text string) error

// SendReminder calls f.
func (f SenderFunc) SendReminder(ctx context.Context, chatID int64, text string) error {
	return f(ctx, chatID, text)
}

// Options configures the Scheduler.
type Options struct {
	// Workers bounds concurrent deliveries. Defaults to 8.
	Workers int
	// DrainTimeout bounds how long Stop waits for in-flight deliveries.
	DrainTimeout time.Duration
}

// Scheduler fires each reminder exactly once after its delay. Failed
// deliveries are logged and dropped.
type Scheduler struct {
	sender Sender
	pool   *ants.Pool
	drain  time.Duration

	mu      sync.Mutex
	timers  map[uint64]*time.Timer
	seq     uint64
	stopped bool

	delivered atomic.Uint64
	failed    atomic.Uint64
}

// New builds a Scheduler delivering through sender.
func New(sender Sender, opts Options) (*Scheduler, error) {
	if sender == nil {
		return nil, fmt.Errorf("reminder: nil sender")
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = 8
	}
	drain := opts.DrainTimeout
	if drain <= 0 {
		drain = 5 * time.Second
	}
	pool, err := ants.NewPool(workers, ants.WithPreAlloc(true))
	if err != nil {
		return nil, fmt.Errorf("reminder: worker pool: %w", err)
	}
	return &Scheduler{
		sender: sender,
		pool:   pool,
		drain:  drain,
		timers: make(map[uint64]*time.Timer),
	}, nil
}

// Schedule arranges for text to reach chatID after delay and returns at
// once. Negative delays fire immediately.
func (s *Scheduler) Schedule(ctx context.Context, chatID int64, delay time.Duration, text string) (uint64, error) {
	if delay < 0 {
		delay = 0
	}
	ctx = context.WithoutCancel(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return 0, ErrStopped
	}
	s.seq++
	id := s.seq
	// Delivery lines keep the originating update's rid.
	ctx = logger.WithReminder(ctx, id)
	s.timers[id] = time.AfterFunc(delay, func() { s.fire(ctx, id, chatID, text) })

	logger.Info(ctx, component, "reminder.scheduled",
		slog.Int64("chat_id", chatID),
		slog.Duration("delay", delay),
		slog.Int("reminders", len(s.timers)),
	)
	return id, nil
}

func (s *Scheduler) fire(ctx context.Context, id uint64, chatID int64, text string) {
	s.mu.Lock()
	if _, ok := s.timers[id]; !ok {
		s.mu.Unlock()
		return
	}
	delete(s.timers, id)
	s.mu.Unlock()

	err := s.pool.Submit(func() { s.deliver(ctx, id, chatID, text) })
	if err != nil {
		s.failed.Add(1)
		logger.Error(ctx, component, "reminder.dropped",
			slog.Int64("chat_id", chatID),
			slog.String("err", err.Error()),
		)
	}
}

func (s *Scheduler) deliver(ctx context.Context, id uint64, chatID int64, text string) {
	start := time.Now()
	if err := s.sender.SendReminder(ctx, chatID, text); err != nil {
		s.failed.Add(1)
		logger.Error(ctx, component, "reminder.delivery_failed",
			slog.String("status", "fail"),
			slog.Int64("chat_id", chatID),
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			slog.Duration("duration", logger.Took(start)),
		)
		return
	}
	s.delivered.Add(1)
	logger.Info(ctx, component, "reminder.delivered",
		slog.String("status", "ok"),
		slog.Int64("chat_id", chatID),
		slog.Duration("duration", logger.Took(start)),
	)
}

// Pending reports reminders that have not fired yet.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Delivered reports successful deliveries.
func (s *Scheduler) Delivered() uint64 { return s.delivered.Load() }

// Failed reports deliveries that were dropped or rejected by the sender.
func (s *Scheduler) Failed() uint64 { return s.failed.Load() }

// Stop cancels pending reminders and waits for in-flight deliveries up to
// the drain timeout. It is safe to call more than once.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	cancelled := len(s.timers)
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
	s.mu.Unlock()

	if err := s.pool.ReleaseTimeout(s.drain); err != nil {
		logger.Warn(context.Background(), component, "reminder.drain_timeout",
			slog.String("err", err.Error()),
		)
	}
	logger.Info(context.Background(), component, "reminder.stopped",
		slog.Int("pending_count", cancelled),
		slog.Uint64("delivered", s.delivered.Load()),
		slog.Uint64("failed", s.failed.Load()),
	)
}
