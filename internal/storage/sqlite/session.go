package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pedrohwah/shadowsofavernus/internal/game/session"
	"github.com/pedrohwah/shadowsofavernus/internal/storage"
)

// ErrSessionNotFound is returned when a session lookup yields no results.
var ErrSessionNotFound = storage.ErrSessionNotFound

// ErrSessionExists is returned when inserting a session whose ID is already stored.
var ErrSessionExists = storage.ErrSessionExists

// SessionRepository provides session persistence operations.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a SessionRepository backed by the given handle.
//
// Precondition: db must be a valid, open database handle.
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func scanSession(row rowScanner) (*session.Session, error) {
	var s session.Session
	var createdAt int64
	if err := row.Scan(&s.ID, &s.Name, &s.GMName, &s.PassphraseHash, &createdAt); err != nil {
		return nil, err
	}
	s.CreatedAt = time.UnixMicro(createdAt).UTC()
	return &s, nil
}

// Create inserts a session record.
//
// Precondition: s.ID must be non-empty.
// Postcondition: Returns nil, or ErrSessionExists on a duplicate ID.
func (r *SessionRepository) Create(ctx context.Context, s *session.Session) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (id, name, gm_name, passphrase_hash, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		s.ID, s.Name, s.GMName, s.PassphraseHash, s.CreatedAt.UTC().UnixMicro(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrSessionExists
		}
		return fmt.Errorf("inserting session: %w", err)
	}
	return nil
}

// GetByID retrieves a session by ID.
//
// Postcondition: Returns the Session or ErrSessionNotFound.
func (r *SessionRepository) GetByID(ctx context.Context, id string) (*session.Session, error) {
	s, err := scanSession(r.db.QueryRowContext(ctx, `
		SELECT id, name, gm_name, passphrase_hash, created_at
		FROM sessions WHERE id = ?`,
		id,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("querying session: %w", err)
	}
	return s, nil
}

// List returns all stored sessions ordered by creation time. Used to
// rehydrate the live session manager on startup.
//
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *SessionRepository) List(ctx context.Context) ([]*session.Session, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, gm_name, passphrase_hash, created_at
		FROM sessions ORDER BY created_at ASC, id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]*session.Session, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning session row: %w", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// Delete removes a session and, via cascade, its stored rolls.
//
// Postcondition: Returns nil on success or ErrSessionNotFound.
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking deleted rows: %w", err)
	}
	if affected == 0 {
		return ErrSessionNotFound
	}
	return nil
}
