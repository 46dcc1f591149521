package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pedrohwah/shadowsofavernus/internal/game/session"
	"github.com/pedrohwah/shadowsofavernus/internal/storage"
)

// ErrSessionNotFound is returned when a session lookup yields no results.
var ErrSessionNotFound = storage.ErrSessionNotFound

// ErrSessionExists is returned when inserting a session whose ID is already stored.
var ErrSessionExists = storage.ErrSessionExists

// SessionRepository provides session persistence operations.
type SessionRepository struct {
	db *pgxpool.Pool
}

// NewSessionRepository creates a SessionRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewSessionRepository(db *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a session record.
//
// Precondition: s.ID must be non-empty.
// Postcondition: Returns nil, or ErrSessionExists on a duplicate ID.
func (r *SessionRepository) Create(ctx context.Context, s *session.Session) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO sessions (id, name, gm_name, passphrase_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		s.ID, s.Name, s.GMName, s.PassphraseHash, s.CreatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
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
	var s session.Session
	err := r.db.QueryRow(ctx, `
		SELECT id, name, gm_name, passphrase_hash, created_at
		FROM sessions WHERE id = $1`,
		id,
	).Scan(&s.ID, &s.Name, &s.GMName, &s.PassphraseHash, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("querying session: %w", err)
	}
	return &s, nil
}

// List returns all stored sessions ordered by creation time. Used to
// rehydrate the live session manager on startup.
//
/// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *SessionRepository) List(ctx context.Context) ([]*session.Session, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, gm_name, passphrase_hash, created_at
		FROM sessions ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]*session.Session, 0)
	for rows.Next() {
		var s session.Session
		if err := rows.Scan(&s.ID, &s.Name, &s.GMName, &s.PassphraseHash, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning session row: %w", err)
		}
		sessions = append(sessions, &s)
	}
	return sessions, rows.Err()
}

// Delete removes a session and, via cascade, its stored rolls.
//
// Postcondition: Returns nil on success or ErrSessionNotFound.
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}
