package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Role is what a credential pair grants.
type Role int

const (
	RoleNone Role = iota
	RoleUser
	RoleAdmin
)

type credential struct {
	username string
	hash     []byte
	role     Role
}

// Credentials checks username/password pairs against bcrypt hashes computed
// once at construction. Plain passwords are not retained.
type Credentials struct {
	entries []credential
}

func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b), err
}

func CheckPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// NewCredentials hashes the admin and user pairs.
func NewCredentials(adminUser, adminPassword, user, userPassword string) (*Credentials, error) {
	c := &Credentials{}
	for _, p := range []struct {
		username, password string
		role               Role
	}{
		{adminUser, adminPassword, RoleAdmin},
		{user, userPassword, RoleUser},
	} {
		hash, err := HashPassword(p.password)
		if err != nil {
			return nil, fmt.Errorf("hash password for %q: %w", p.username, err)
		}
		c.entries = append(c.entries, credential{username: p.username, hash: []byte(hash), role: p.role})
	}
	return c, nil
}

// Check returns the role granted by the pair, or RoleNone.
func (c *Credentials) Check(username, password string) Role {
	for _, e := range c.entries {
		if e.username != username {
			continue
		}
		if CheckPassword(string(e.hash), password) {
			return e.role
		}
	}
	return RoleNone
}
