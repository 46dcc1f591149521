// Package session tracks live game sessions for the companion: who is at
// the table, the capped roll history each table keeps, and the event feed
// bridging rolls to websocket clients.
package session

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrSessionNotFound is returned when a session ID is unknown.
	ErrSessionNotFound = errors.New("session not found")
	// ErrPlayerExists is returned when a joining player's name is taken.
	ErrPlayerExists = errors.New("player name already at the table")
	// ErrPlayerNotFound is returned when leaving with an unknown name.
	ErrPlayerNotFound = errors.New("player not found")
	// ErrBadPassphrase is returned when a join passphrase does not match.
	ErrBadPassphrase = errors.New("passphrase does not match")
)

// Session is one game table. PassphraseHash is empty for open tables;
// otherwise joining requires the matching passphrase.
type Session struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	GMName         string    `json:"gm_name"`
	PassphraseHash string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

// Protected reports whether joining requires a passphrase.
func (s *Session) Protected() bool {
	return s.PassphraseHash != ""
}

// Player is one roster entry in a session.
type Player struct {
	Name        string    `json:"name"`
	CharacterID int64     `json:"character_id,omitempty"`
	JoinedAt    time.Time `json:"joined_at"`
}

// HashPassphrase hashes a join passphrase with bcrypt.
//
// Precondition: passphrase must be non-empty.
// Postcondition: Returns a hash suitable for CheckPassphrase, or an error.
func HashPassphrase(passphrase string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(passphrase), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassphrase compares a stored hash against a candidate passphrase.
//
// Postcondition: Returns nil iff the passphrase matches.
func CheckPassphrase(hash, passphrase string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(passphrase))
}
