package helpers

import (
	"context"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/playbot/core/logger"
)

const updateCtxKey = "update.ctx"

// BuildContext returns the logging context of the update behind c. The
// first call derives it from the update (rid, update, user and chat ids)
// and caches it on c; later calls and WithHandler reuse that value.
func BuildContext(c tele.Context) context.Context {
	if ctx, ok := c.Get(updateCtxKey).(context.Context); ok {
		return ctx
	}
	var chatID, userID int64
	if chat := c.Chat(); chat != nil {
		chatID = chat.ID
	}
	if user := c.Sender(); user != nil {
		userID = user.ID
	}
	updateID := c.Update().ID

	ctx := logger.WithRID(context.Background(), logger.BuildRID(updateID, chatID, userID))
	ctx = logger.WithUpdateMeta(ctx, updateID, userID, chatID)
	c.Set(updateCtxKey, ctx)
	return ctx
}

// WithHandler names the route serving c in every later log line of the update.
func WithHandler(c tele.Context, handler string) context.Context {
	ctx := logger.WithHandler(BuildContext(c), handler)
	c.Set(updateCtxKey, ctx)
	return ctx
}
