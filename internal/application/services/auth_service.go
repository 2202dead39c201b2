package services

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/zatekoja/hospitaladmin/internal/domain/entities"
	"github.com/zatekoja/hospitaladmin/internal/domain/providers"
	"github.com/zatekoja/hospitaladmin/internal/infrastructure/auth"
	"github.com/zatekoja/hospitaladmin/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/hospitaladmin/pkg/errors"
)

// InvalidCredentialsMessage is shown for any rejected login.
const InvalidCredentialsMessage = "Invalid username or password."

// Session flag names as stored in session storage
const (
	flagIsAuthenticated = "isAuthenticated"
	flagIsAdmin         = "isAdmin"
)

// AuthService implements mock login against two fixed credential pairs.
// The two auth flags live in session storage under the session id and
// expire with the session.
type AuthService struct {
	credentials *auth.Credentials
	tokens      *auth.TokenIssuer
	storage     providers.StorageProvider
	ttl         time.Duration
	events      *EventPublisher
}

// NewAuthService creates a new auth service
func NewAuthService(credentials *auth.Credentials, tokens *auth.TokenIssuer, storage providers.StorageProvider, ttl time.Duration, events *EventPublisher) *AuthService {
	return &AuthService{
		credentials: credentials,
		tokens:      tokens,
		storage:     storage,
		ttl:         ttl,
		events:      events,
	}
}

// Login checks the pair and opens a session. Admin credentials grant
// {true, true}, user credentials {true, false}; anything else is rejected
// and no session is created.
func (s *AuthService) Login(ctx context.Context, username, password string) (*entities.Session, error) {
	var state entities.AuthState
	switch s.credentials.Check(username, password) {
	case auth.RoleAdmin:
		state = entities.AuthState{IsAuthenticated: true, IsAdmin: true}
	case auth.RoleUser:
		state = entities.AuthState{IsAuthenticated: true, IsAdmin: false}
	default:
		observability.LoggerFromContext(ctx).Info().Str("username", username).Msg("Rejected login")
		return nil, apperrors.NewUnauthorizedError(InvalidCredentialsMessage)
	}

	sessionID := uuid.NewString()
	token, expiresAt, err := s.tokens.MakeToken(sessionID, username)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to issue session token", err)
	}

	if err := s.writeState(ctx, sessionID, state); err != nil {
		return nil, err
	}

	s.events.Publish(ctx, providers.EventChannelSession, entities.StoreEventLoggedIn, map[string]interface{}{
		"username": username,
		"isAdmin":  state.IsAdmin,
	})

	return &entities.Session{
		ID:        sessionID,
		Token:     token,
		Username:  username,
		State:     state,
		ExpiresAt: expiresAt,
	}, nil
}

// Logout clears both flags of the session.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.writeState(ctx, sessionID, entities.AuthState{}); err != nil {
		return err
	}
	s.events.Publish(ctx, providers.EventChannelSession, entities.StoreEventLoggedOut, nil)
	return nil
}

// State rehydrates the flags of a session. Missing or expired flags read as
// false.
func (s *AuthService) State(ctx context.Context, sessionID string) (entities.AuthState, error) {
	isAuthenticated, err := s.readFlag(ctx, sessionID, flagIsAuthenticated)
	if err != nil {
		return entities.AuthState{}, err
	}
	isAdmin, err := s.readFlag(ctx, sessionID, flagIsAdmin)
	if err != nil {
		return entities.AuthState{}, err
	}
	return entities.AuthState{IsAuthenticated: isAuthenticated, IsAdmin: isAdmin && isAuthenticated}, nil
}

// Authenticate resolves a bearer token to its session id and flags.
func (s *AuthService) Authenticate(ctx context.Context, token string) (string, entities.AuthState, error) {
	claims, err := s.tokens.ParseToken(token)
	if err != nil {
		return "", entities.AuthState{}, apperrors.NewUnauthorizedError("invalid or expired session")
	}
	state, err := s.State(ctx, claims.SessionID)
	if err != nil {
		return "", entities.AuthState{}, err
	}
	return claims.SessionID, state, nil
}

func (s *AuthService) writeState(ctx context.Context, sessionID string, state entities.AuthState) error {
	ttl := int(s.ttl.Seconds())
	flags := map[string]bool{
		flagIsAuthenticated: state.IsAuthenticated,
		flagIsAdmin:         state.IsAdmin,
	}
	for flag, value := range flags {
		key := providers.SessionKey(sessionID, flag)
		if err := s.storage.Set(ctx, key, []byte(strconv.FormatBool(value)), ttl); err != nil {
			return apperrors.NewInternalError("failed to write session state", err)
		}
	}
	return nil
}

func (s *AuthService) readFlag(ctx context.Context, sessionID, flag string) (bool, error) {
	data, err := s.storage.Get(ctx, providers.SessionKey(sessionID, flag))
	if errors.Is(err, providers.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, apperrors.NewInternalError("failed to read session state", err)
	}
	value, err := strconv.ParseBool(string(data))
	if err != nil {
		return false, nil
	}
	return value, nil
}
