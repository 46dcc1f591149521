package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedrohwah/shadowsofavernus/internal/game/session"
	"github.com/pedrohwah/shadowsofavernus/internal/storage/postgres"
	"github.com/pedrohwah/shadowsofavernus/internal/testutil"
)

func setupSessionRepo(t *testing.T) *postgres.SessionRepository {
	t.Helper()
	pool := testutil.NewPool(t)
	return postgres.NewSessionRepository(pool)
}

func makeTestSession(name string) *session.Session {
	return &session.Session{
		ID:             uuid.New().String(),
		Name:           name,
		GMName:         "Marta",
		PassphraseHash: "$2a$10$fakehashfortestingonly",
		CreatedAt:      time.Now().UTC().Truncate(time.Microsecond),
	}
}

func TestSessionRepository_CreateAndGet(t *testing.T) {
	repo := setupSessionRepo(t)
	ctx := context.Background()

	s := makeTestSession("Friday Night")
	require.NoError(t, repo.Create(ctx, s))

	fetched, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, fetched.ID)
	assert.Equal(t, "Friday Night", fetched.Name)
	assert.Equal(t, "Marta", fetched.GMName)
	assert.Equal(t, s.PassphraseHash, fetched.PassphraseHash)
	assert.True(t, fetched.Protected())
}

func TestSessionRepository_CreateDuplicate(t *testing.T) {
	repo := setupSessionRepo(t)
	ctx := context.Background()

	s := makeTestSession("Friday Night")
	require.NoError(t, repo.Create(ctx, s))

	err := repo.Create(ctx, s)
	require.Error(t, err)
	assert.ErrorIs(t, err, postgres.ErrSessionExists)
}

func TestSessionRepository_GetNotFound(t *testing.T) {
	repo := setupSessionRepo(t)
	_, err := repo.GetByID(context.Background(), uuid.New().String())
	require.Error(t, err)
	assert.ErrorIs(t, err, postgres.ErrSessionNotFound)
}

func TestSessionRepository_List(t *testing.T) {
	repo := setupSessionRepo(t)
	ctx := context.Background()

	first := makeTestSession("First")
	first.CreatedAt = time.Now().UTC().Add(-time.Hour)
	second := makeTestSession("Second")
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	sessions, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "First", sessions[0].Name, "ordered by creation time")
	assert.Equal(t, "Second", sessions[1].Name)
}

func TestSessionRepository_Delete(t *testing.T) {
	repo := setupSessionRepo(t)
	ctx := context.Background()

	s := makeTestSession("Doomed")
	require.NoError(t, repo.Create(ctx, s))
	require.NoError(t, repo.Delete(ctx, s.ID))

	_, err := repo.GetByID(ctx, s.ID)
	assert.ErrorIs(t, err, postgres.ErrSessionNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, s.ID), postgres.ErrSessionNotFound)
}
