package providers

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Get when a key is absent or expired
var ErrKeyNotFound = errors.New("storage: key not found")

// StorageProvider is the key/value store behind durable and session state.
// An expirationSeconds of zero keeps the value until it is deleted.
type StorageProvider interface {
	// Get retrieves a value
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with expiration
	Set(ctx context.Context, key string, value []byte, expirationSeconds int) error

	// Delete removes a value
	Delete(ctx context.Context, key string) error

	// Exists checks if a key exists
	Exists(ctx context.Context, key string) (bool, error)
}

// Storage keys shared by the stores
const (
	// StorageKeyBookedAppointments holds the JSON array of bookings
	StorageKeyBookedAppointments = "bookedAppointments"

	// StorageKeySessionPrefix prefixes session-scoped keys
	StorageKeySessionPrefix = "session:"
)

// SessionKey returns the session-scoped key for a flag
func SessionKey(sessionID, flag string) string {
	return StorageKeySessionPrefix + sessionID + ":" + flag
}
