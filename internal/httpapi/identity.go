package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
)

// UserIDHeader is set by the web layer in front of this service after it
// has authenticated the session. The core trusts it as-is.
const UserIDHeader = "X-User-ID"

type contextKey struct{}

var userIDKey contextKey

// RequireUser rejects requests without a parseable user id uniformly with
// a 401 JSON body, regardless of method.
func RequireUser(logger *slog.Logger, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.Header.Get(UserIDHeader))
		if err != nil {
			WriteError(w, logger, http.StatusUnauthorized, "authentication required")
			return
		}
		next(w, r.WithContext(WithUserID(r.Context(), id.String())))
	}
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserID returns the identity attached by RequireUser, or "" on public
// endpoints where no identity was presented.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// OptionalUser attaches the identity when the header is present and valid
// but lets anonymous requests through. Used by public catalog endpoints
// that record view history only for identified callers.
func OptionalUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if id, err := uuid.Parse(r.Header.Get(UserIDHeader)); err == nil {
			r = r.WithContext(WithUserID(r.Context(), id.String()))
		}
		next(w, r)
	}
}
