package httputil

import (
	"context"
	"net/http"
)

type contextKey struct{ name string }

var userIDKey = contextKey{"userID"}

// WithUserID adds the authenticated user id to the request context
func WithUserID(r *http.Request, userID string) *http.Request {
	return r.WithContext(ContextWithUserID(r.Context(), userID))
}

// ContextWithUserID is WithUserID for code that only holds a context
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserID returns the user id, or "" for anonymous requests
func GetUserID(r *http.Request) string {
	userID, _ := r.Context().Value(userIDKey).(string)
	return userID
}
