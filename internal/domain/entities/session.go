package entities

import "time"

// AuthState is the pair of flags the front end gates views on.
type AuthState struct {
	IsAuthenticated bool `json:"isAuthenticated"`
	IsAdmin         bool `json:"isAdmin"`
}

// Session is an issued login.
type Session struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	State     AuthState `json:"state"`
	ExpiresAt time.Time `json:"expiresAt"`
}
