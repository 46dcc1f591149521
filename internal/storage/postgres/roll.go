package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pedrohwah/shadowsofavernus/internal/game/dice"
	"github.com/pedrohwah/shadowsofavernus/internal/game/session"
)

// RollRepository persists session roll history. Dice and modifier
// breakdowns are stored as JSONB so the full result survives a restart.
type RollRepository struct {
	db *pgxpool.Pool
}

// NewRollRepository creates a RollRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewRollRepository(db *pgxpool.Pool) *RollRepository {
	return &RollRepository{db: db}
}

// Insert stores one roll record.
//
// Precondition: rec.SessionID must reference a stored session.
func (r *RollRepository) Insert(ctx context.Context, rec session.RollRecord) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO session_rolls
			(id, session_id, player_name, character_name,
			 expression, rolls, modifiers, total, details, rolled_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		rec.ID, rec.SessionID, rec.PlayerName, rec.CharacterName,
		rec.Result.Expression, rec.Result.Rolls, rec.Result.Modifiers,
		rec.Result.Total, rec.Result.Details, rec.Result.RolledAt,
	)
	if err != nil {
		return fmt.Errorf("inserting roll: %w", err)
	}
	return nil
}

// ListRecent returns the newest limit rolls for a session, ordered oldest
// first so the result can seed a live roll log directly.
//
// Precondition: limit must be > 0.
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *RollRepository) ListRecent(ctx context.Context, sessionID string, limit int) ([]session.RollRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, session_id, player_name, character_name,
		       expression, rolls, modifiers, total, details, rolled_at
		FROM (
			SELECT * FROM session_rolls
			WHERE session_id = $1
			ORDER BY rolled_at DESC, id DESC
			LIMIT $2
		) newest
		ORDER BY rolled_at ASC, id ASC`,
		sessionID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing rolls: %w", err)
	}
	defer rows.Close()

	recs := make([]session.RollRecord, 0)
	for rows.Next() {
		var rec session.RollRecord
		var rolls []dice.Die
		var mods []dice.Modifier
		if err := rows.Scan(
			&rec.ID, &rec.SessionID, &rec.PlayerName, &rec.CharacterName,
			&rec.Result.Expression, &rolls, &mods,
			&rec.Result.Total, &rec.Result.Details, &rec.Result.RolledAt,
		); err != nil {
			return nil, fmt.Errorf("scanning roll row: %w", err)
		}
		rec.Result.Rolls = rolls
		rec.Result.Modifiers = mods
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// Prune deletes all but the newest keep rolls for a session, mirroring
// the live log's retention cap.
//
// Precondition: keep must be >= 0.
// Postcondition: Returns the number of rows removed.
func (r *RollRepository) Prune(ctx context.Context, sessionID string, keep int) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM session_rolls
		WHERE session_id = $1 AND id NOT IN (
			SELECT id FROM session_rolls
			WHERE session_id = $1
			ORDER BY rolled_at DESC, id DESC
			LIMIT $2
		)`,
		sessionID, keep,
	)
	if err != nil {
		return 0, fmt.Errorf("pruning rolls: %w", err)
	}
	return tag.RowsAffected(), nil
}
