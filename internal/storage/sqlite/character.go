package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pedrohwah/shadowsofavernus/internal/game/character"
	"github.com/pedrohwah/shadowsofavernus/internal/storage"
)

// ErrCharacterNotFound is returned when a character lookup yields no results.
var ErrCharacterNotFound = storage.ErrCharacterNotFound

// ErrCharacterNameTaken is returned when creating a character with a name that is already in use.
var ErrCharacterNameTaken = storage.ErrCharacterNameTaken

const characterColumns = `id, name, player, ancestry, class, level,
	       strength, dexterity, constitution, intelligence, wisdom, charisma,
	       luck, max_hp, current_hp, armor_id, shield, carried_weight,
	       created_at, updated_at`

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// CharacterRepository provides character persistence operations.
type CharacterRepository struct {
	db *sql.DB
}

// NewCharacterRepository creates a CharacterRepository backed by the given handle.
//
// Precondition: db must be a valid, open database handle.
func NewCharacterRepository(db *sql.DB) *CharacterRepository {
	return &CharacterRepository{db: db}
}

func scanCharacter(row rowScanner) (*character.Character, error) {
	var c character.Character
	var createdAt, updatedAt int64
	err := row.Scan(
		&c.ID, &c.Name, &c.Player, &c.Ancestry, &c.Class, &c.Level,
		&c.Abilities.Strength, &c.Abilities.Dexterity, &c.Abilities.Constitution,
		&c.Abilities.Intelligence, &c.Abilities.Wisdom, &c.Abilities.Charisma,
		&c.Luck, &c.MaxHP, &c.CurrentHP, &c.ArmorID, &c.Shield, &c.CarriedWeight,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.CreatedAt = time.UnixMicro(createdAt).UTC()
	c.UpdatedAt = time.UnixMicro(updatedAt).UTC()
	return &c, nil
}

// Create inserts a new character and returns it with ID and timestamps set.
//
// Precondition: c must pass character.Validate.
// Postcondition: Returns the created character with ID set, or ErrCharacterNameTaken on duplicate.
func (r *CharacterRepository) Create(ctx context.Context, c *character.Character) (*character.Character, error) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO characters
			(name, player, ancestry, class, level,
			 strength, dexterity, constitution, intelligence, wisdom, charisma,
			 luck, max_hp, current_hp, armor_id, shield, carried_weight,
			 created_at, updated_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		c.Name, c.Player, c.Ancestry, c.Class, c.Level,
		c.Abilities.Strength, c.Abilities.Dexterity, c.Abilities.Constitution,
		c.Abilities.Intelligence, c.Abilities.Wisdom, c.Abilities.Charisma,
		c.Luck, c.MaxHP, c.CurrentHP, c.ArmorID, c.Shield, c.CarriedWeight,
		now.UnixMicro(), now.UnixMicro(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrCharacterNameTaken
		}
		return nil, fmt.Errorf("inserting character: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading inserted character id: %w", err)
	}
	return r.GetByID(ctx, id)
}

// GetByID retrieves a character by its primary key.
//
// Precondition: id must be > 0.
// Postcondition: Returns the Character or ErrCharacterNotFound.
func (r *CharacterRepository) GetByID(ctx context.Context, id int64) (*character.Character, error) {
	c, err := scanCharacter(r.db.QueryRowContext(ctx,
		`SELECT `+characterColumns+` FROM characters WHERE id = ?`, id,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCharacterNotFound
		}
		return nil, fmt.Errorf("querying character: %w", err)
	}
	return c, nil
}

// List returns all characters ordered by creation time.
//
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *CharacterRepository) List(ctx context.Context) ([]*character.Character, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+characterColumns+` FROM characters ORDER BY created_at ASC, id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing characters: %w", err)
	}
	defer rows.Close()

	chars := make([]*character.Character, 0)
	for rows.Next() {
		c, err := scanCharacter(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning character row: %w", err)
		}
		chars = append(chars, c)
	}
	return chars, rows.Err()
}

// Update persists all mutable fields of an existing character.
//
// Precondition: c.ID must be > 0 and c must pass character.Validate.
// Postcondition: Returns the updated character, ErrCharacterNotFound if no
// row matched, or ErrCharacterNameTaken on a name collision.
func (r *CharacterRepository) Update(ctx context.Context, c *character.Character) (*character.Character, error) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	res, err := r.db.ExecContext(ctx, `
		UPDATE characters SET
			name = ?, player = ?, ancestry = ?, class = ?, level = ?,
			strength = ?, dexterity = ?, constitution = ?,
			intelligence = ?, wisdom = ?, charisma = ?,
			luck = ?, max_hp = ?, current_hp = ?,
			armor_id = ?, shield = ?, carried_weight = ?,
			updated_at = ?
		WHERE id = ?`,
		c.Name, c.Player, c.Ancestry, c.Class, c.Level,
		c.Abilities.Strength, c.Abilities.Dexterity, c.Abilities.Constitution,
		c.Abilities.Intelligence, c.Abilities.Wisdom, c.Abilities.Charisma,
		c.Luck, c.MaxHP, c.CurrentHP, c.ArmorID, c.Shield, c.CarriedWeight,
		now.UnixMicro(), c.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrCharacterNameTaken
		}
		return nil, fmt.Errorf("updating character: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("checking updated rows: %w", err)
	}
	if affected == 0 {
		return nil, ErrCharacterNotFound
	}
	return r.GetByID(ctx, c.ID)
}

// SaveVitals persists a character's hit points and carried weight after play.
//
// Precondition: id must be > 0.
// Postcondition: Returns nil on success, ErrCharacterNotFound if no row updated.
func (r *CharacterRepository) SaveVitals(ctx context.Context, id int64, currentHP int, carriedWeight float64) error {
	now := time.Now().UTC().Truncate(time.Microsecond)
	res, err := r.db.ExecContext(ctx, `
		UPDATE characters SET current_hp = ?, carried_weight = ?, updated_at = ?
		WHERE id = ?`,
		currentHP, carriedWeight, now.UnixMicro(), id,
	)
	if err != nil {
		return fmt.Errorf("saving character vitals: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking updated rows: %w", err)
	}
	if affected == 0 {
		return ErrCharacterNotFound
	}
	return nil
}

// Delete removes a character by ID.
//
// Postcondition: Returns nil on success or ErrCharacterNotFound.
func (r *CharacterRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM characters WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting character: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking deleted rows: %w", err)
	}
	if affected == 0 {
		return ErrCharacterNotFound
	}
	return nil
}
