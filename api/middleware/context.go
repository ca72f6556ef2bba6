package middleware

import "context"

type contextKey string

const (
	ctxUserID     contextKey = "user_id"
	ctxTelegramID contextKey = "telegram_id"
)

// UserIDFromContext returns the authenticated shop user ID, or zero.
func UserIDFromContext(ctx context.Context) uint {
	if ctx == nil {
		return 0
	}
	if v, ok := ctx.Value(ctxUserID).(uint); ok {
		return v
	}
	return 0
}

// TelegramIDFromContext returns the Telegram account ID, or zero.
func TelegramIDFromContext(ctx context.Context) int64 {
	if ctx == nil {
		return 0
	}
	if v, ok := ctx.Value(ctxTelegramID).(int64); ok {
		return v
	}
	return 0
}

// WithUser injects the authenticated identity into the context.
func WithUser(ctx context.Context, userID uint, telegramID int64) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxUserID, userID)
	return context.WithValue(ctx, ctxTelegramID, telegramID)
}
