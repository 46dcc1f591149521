// Package storage defines the error vocabulary shared by the companion's
// persistence backends, so callers can handle lookups and conflicts the
// same way regardless of the configured driver.
package storage

import "errors"

var (
	// ErrCharacterNotFound is returned when a character lookup yields no results.
	ErrCharacterNotFound = errors.New("character not found")
	// ErrCharacterNameTaken is returned when a character name is already in use.
	ErrCharacterNameTaken = errors.New("character name already taken")
	// ErrSessionNotFound is returned when a session lookup yields no results.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExists is returned when inserting a session whose ID is already stored.
	ErrSessionExists = errors.New("session already exists")
)
