// Package auth gates the HTTP API behind a single configured bearer key,
// the way an ingest service with one operator and no user accounts needs
// to: no sessions, no registration, just a shared secret checked against
// a bcrypt digest held in memory.
package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrUnauthorized is returned by Checker.Check when the presented key does
// not match the configured one.
var ErrUnauthorized = errors.New("auth: unauthorized")

// Checker holds the bcrypt digest of the configured API key. The zero
// value accepts every request, matching config.Config.AuthEnabled's
// false case.
type Checker struct {
	hash []byte
}

// NewChecker hashes key once at startup; an empty key disables auth.
func NewChecker(key string) (*Checker, error) {
	if key == "" {
		return &Checker{}, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &Checker{hash: hash}, nil
}

// Check reports whether presented matches the configured key. With auth
// disabled, every key (including empty) passes.
func (c *Checker) Check(presented string) error {
	if c.hash == nil {
		return nil
	}
	if bcrypt.CompareHashAndPassword(c.hash, []byte(presented)) != nil {
		return ErrUnauthorized
	}
	return nil
}
