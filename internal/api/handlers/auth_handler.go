package handlers

import (
	"net/http"
	"time"

	"github.com/zatekoja/hospitaladmin/internal/api/middleware"
	"github.com/zatekoja/hospitaladmin/internal/application/services"
	"github.com/zatekoja/hospitaladmin/internal/domain/entities"
)

// AuthHandler handles login, logout and session state
type AuthHandler struct {
	auth         *services.AuthService
	secureCookie bool
}

// NewAuthHandler creates a new auth handler. secureCookie marks the session
// cookie Secure; leave it off for plain-HTTP development.
func NewAuthHandler(auth *services.AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{auth: auth, secureCookie: secureCookie}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionResponse struct {
	entities.AuthState
	Username  string     `json:"username,omitempty"`
	Token     string     `json:"token,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	respondWithJSON(w, http.StatusOK, sessionResponse{
		AuthState: session.State,
		Username:  session.Username,
		Token:     session.Token,
		ExpiresAt: &session.ExpiresAt,
	})
}

// Logout handles POST /api/auth/logout. Logging out without a session is a
// no-op.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if id := sessionOwner(r); id != "" {
		if err := h.auth.Logout(r.Context(), id); err != nil {
			respondWithAppError(w, r, err)
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	respondWithJSON(w, http.StatusOK, sessionResponse{})
}

// Session handles GET /api/auth/session
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, sessionResponse{
		AuthState: middleware.SessionFromContext(r.Context()).State,
	})
}
