package session

import "context"

type ctxKeyUserID struct{}

// WithUserID кладёт user_id в context (делает Middleware)
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxKeyUserID{}, userID)
}

// UserIDFromContext достаёт user_id, положенный Middleware
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(ctxKeyUserID{}).(string)
	return userID, ok && userID != ""
}
