package logger

import "context"

type scopeKey struct{}

// scope is the set of correlation fields carried by a context. Every With*
// call copies the current scope and overrides one part of it, so a context
// holds a single value no matter how many layers enrich it.
type scope struct {
	rid        string
	updateID   int
	userID     int64
	chatID     int64
	handler    string
	session    string
	reminderID uint64
}

func scopeFrom(ctx context.Context) scope {
	if ctx == nil {
		return scope{}
	}
	s, _ := ctx.Value(scopeKey{}).(scope)
	return s
}

func withScope(ctx context.Context, edit func(*scope)) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	s := scopeFrom(ctx)
	edit(&s)
	return context.WithValue(ctx, scopeKey{}, s)
}

// WithRID attaches the update correlation id.
func WithRID(ctx context.Context, rid string) context.Context {
	return withScope(ctx, func(s *scope) { s.rid = rid })
}

// WithUpdateMeta attaches the identifiers of the update being handled.
func WithUpdateMeta(ctx context.Context, updateID int, userID, chatID int64) context.Context {
	return withScope(ctx, func(s *scope) {
		s.updateID = updateID
		s.userID = userID
		s.chatID = chatID
	})
}

// WithHandler names the route serving the update.
func WithHandler(ctx context.Context, handler string) context.Context {
	if handler == "" {
		return ctx
	}
	return withScope(ctx, func(s *scope) { s.handler = handler })
}

// WithSession tags lines with the kind of game or quiz they belong to.
func WithSession(ctx context.Context, kind string) context.Context {
	if kind == "" {
		return ctx
	}
	return withScope(ctx, func(s *scope) { s.session = kind })
}

// WithReminder tags lines with the reminder being scheduled or delivered.
func WithReminder(ctx context.Context, id uint64) context.Context {
	return withScope(ctx, func(s *scope) { s.reminderID = id })
}

// RIDFrom returns the correlation id, if any.
func RIDFrom(ctx context.Context) string { return scopeFrom(ctx).rid }

// UpdateIDFrom returns the Telegram update id, if any.
func UpdateIDFrom(ctx context.Context) int { return scopeFrom(ctx).updateID }

// UserIDFrom returns the Telegram user id, if any.
func UserIDFrom(ctx context.Context) int64 { return scopeFrom(ctx).userID }

// ChatIDFrom returns the chat id, if any. The sender shards on it.
func ChatIDFrom(ctx context.Context) int64 { return scopeFrom(ctx).chatID }

// fill copies scope fields into a record without overriding explicit attrs.
func (s scope) fill(rec record) {
	rec.setDefault("rid", s.rid)
	rec.setDefault("handler", s.handler)
	rec.setDefault("session_kind", s.session)
	if s.updateID != 0 {
		rec.setDefault("update_id", s.updateID)
	}
	if s.userID != 0 {
		rec.setDefault("user_id", s.userID)
	}
	if s.chatID != 0 {
		rec.setDefault("chat_id", s.chatID)
	}
	if s.reminderID != 0 {
		rec.setDefault("reminder_id", s.reminderID)
	}
}
