package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/zatekoja/hospitaladmin/internal/domain/entities"
	"github.com/zatekoja/hospitaladmin/internal/infrastructure/observability"
)

// SessionCookieName is the cookie that carries the session token.
const SessionCookieName = "session"

// Authenticator resolves a session token.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (string, entities.AuthState, error)
}

// SessionInfo is the caller's session as resolved for this request.
type SessionInfo struct {
	ID    string
	State entities.AuthState
}

type sessionContextKey struct{}

// WithSession returns a copy of ctx carrying info.
func WithSession(ctx context.Context, info SessionInfo) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, info)
}

// SessionFromContext returns the session resolved by SessionMiddleware, or
// an anonymous session.
func SessionFromContext(ctx context.Context) SessionInfo {
	info, _ := ctx.Value(sessionContextKey{}).(SessionInfo)
	return info
}

// SessionToken extracts the token from the Authorization header, the
// session cookie, or the token query parameter (EventSource cannot set
// headers), in that order.
func SessionToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return r.URL.Query().Get("token")
}

// SessionMiddleware resolves the caller's session. Requests without a valid
// token continue anonymously; the Require* wrappers decide what that means.
func SessionMiddleware(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := SessionToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			id, state, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				observability.LoggerFromContext(r.Context()).Debug().Err(err).Msg("Ignoring unusable session token")
				next.ServeHTTP(w, r)
				return
			}

			ctx := WithSession(r.Context(), SessionInfo{ID: id, State: state})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects callers that are not logged in.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !SessionFromContext(r.Context()).State.IsAuthenticated {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next(w, r)
	}
}

// RequireAdmin rejects callers without the admin flag.
func RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		if !SessionFromContext(r.Context()).State.IsAdmin {
			writeError(w, http.StatusForbidden, "admin access required")
			return
		}
		next(w, r)
	})
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
