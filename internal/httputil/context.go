package httputil

import (
	"context"
	"net/http"
)

// userIDKey is an unexported type so no other package can collide with the
// context entry.
type userIDKey struct{}

// WithUserID returns a request whose context carries the authenticated user.
func WithUserID(r *http.Request, userID string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), userIDKey{}, userID))
}

// GetUserID reads the authenticated user from the request context. An
// unauthenticated request yields the empty string.
func GetUserID(r *http.Request) string {
	id, _ := r.Context().Value(userIDKey{}).(string)
	return id
}
