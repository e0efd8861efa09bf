package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"peakgear/models"
	"peakgear/store"
)

// SessionCookie is the name of the sid cookie
const SessionCookie = "peakgear_session"

// Key type for context
type contextKey string

const userContextKey = contextKey("user")

// SessionAuth resolves the session cookie against the store and attaches
// the logged-in user to the request context
type SessionAuth struct {
	Store store.Storage
}

// NewSessionAuth creates the auth middleware over the given store
func NewSessionAuth(st store.Storage) *SessionAuth {
	return &SessionAuth{Store: st}
}

// UserFromContext returns the authenticated user attached by RequireAuth
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userContextKey).(*models.User)
	return user, ok
}

// RequireAuth rejects requests without a valid session with 401
func (a *SessionAuth) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := a.resolve(w, r)
		if !ok {
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userContextKey, user)))
	})
}

// RequireAdmin rejects unauthenticated requests with 401 and
// non-administrators with 403
func (a *SessionAuth) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := a.resolve(w, r)
		if !ok {
			return
		}
		if !user.IsAdmin {
			writeMessage(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userContextKey, user)))
	})
}

func (a *SessionAuth) resolve(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return nil, false
	}

	session, err := a.Store.GetSession(r.Context(), cookie.Value)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			slog.Error("session lookup failed", "error", err)
			writeMessage(w, http.StatusInternalServerError, "Internal server error")
			return nil, false
		}
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return nil, false
	}

	user, err := a.Store.GetUser(r.Context(), session.UserID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			slog.Error("session user lookup failed", "error", err)
			writeMessage(w, http.StatusInternalServerError, "Internal server error")
			return nil, false
		}
		writeMessage(w, http.StatusUnauthorized, "User not found")
		return nil, false
	}
	return user, true
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": msg})
}
