// Package testutil provides test helpers including container management
// and test client utilities.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/pedrohwah/shadowsofavernus/internal/config"
	"github.com/pedrohwah/shadowsofavernus/internal/storage/postgres"
)

// PostgresContainer wraps a testcontainers PostgreSQL instance.
type PostgresContainer struct {
	container testcontainers.Container
	Pool      *postgres.Pool
	RawPool   *pgxpool.Pool
	Config    config.PostgresConfig
}

// NewPostgresContainer starts a PostgreSQL test container and returns
// a connected Pool.
//
// Precondition: Docker must be available.
// Postcondition: Returns a running container with a connected pool,
// or fails the test.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()
	ctx := context.Background()
	start := time.Now()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(30 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("starting postgres container: %v [%s]", err, time.Since(start))
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("getting container host: %v", err)
	}

	mappedPort, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("getting mapped port: %v", err)
	}

	dbCfg := config.PostgresConfig{
		Host:            host,
		Port:            mappedPort.Int(),
		User:            "test",
		Password:        "test",
		Name:            "test",
		SSLMode:         "disable",
		MaxConns:        5,
		MinConns:        1,
		MaxConnLifetime: 5 * time.Minute,
	}

	pool, err := postgres.NewPool(ctx, dbCfg)
	if err != nil {
		t.Fatalf("connecting to test postgres: %v [%s]", err, time.Since(start))
	}

	t.Logf("postgres container started [%s]", time.Since(start))

	pc := &PostgresContainer{
		container: container,
		Pool:      pool,
		RawPool:   pool.DB(),
		Config:    dbCfg,
	}

	t.Cleanup(func() {
		pool.Close()
		_ = container.Terminate(ctx)
	})

	return pc
}

// ApplyMigrations runs the schema creation SQL directly for tests.
// This avoids requiring the migrate tool in the test environment.
//
// Precondition: Pool must be connected.
// Postcondition: The companion tables exist in the test database.
func (pc *PostgresContainer) ApplyMigrations(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	start := time.Now()

	schema := `
		CREATE TABLE IF NOT EXISTS characters (
			id             BIGSERIAL    PRIMARY KEY,
			name           VARCHAR(64)  NOT NULL UNIQUE,
			player         VARCHAR(64)  NOT NULL DEFAULT '',
			ancestry       VARCHAR(64)  NOT NULL DEFAULT '',
			class          VARCHAR(64)  NOT NULL DEFAULT '',
			level          INT          NOT NULL DEFAULT 1,
			strength       INT          NOT NULL DEFAULT 10,
			dexterity      INT          NOT NULL DEFAULT 10,
			constitution   INT          NOT NULL DEFAULT 10,
			intelligence   INT          NOT NULL DEFAULT 10,
			wisdom         INT          NOT NULL DEFAULT 10,
			charisma       INT          NOT NULL DEFAULT 10,
			luck           BOOLEAN      NOT NULL DEFAULT FALSE,
			max_hp         INT          NOT NULL DEFAULT 1,
			current_hp     INT          NOT NULL DEFAULT 1,
			armor_id       VARCHAR(64)  NOT NULL DEFAULT '',
			shield         BOOLEAN      NOT NULL DEFAULT FALSE,
			carried_weight DOUBLE PRECISION NOT NULL DEFAULT 0,
			created_at     TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
			updated_at     TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS sessions (
			id              VARCHAR(64)  PRIMARY KEY,
			name            VARCHAR(128) NOT NULL,
			gm_name         VARCHAR(64)  NOT NULL DEFAULT '',
			passphrase_hash TEXT         NOT NULL DEFAULT '',
			created_at      TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS session_rolls (
			id             VARCHAR(64)  PRIMARY KEY,
			session_id     VARCHAR(64)  NOT NULL REFERENCES sessions (id) ON DELETE CASCADE,
			player_name    VARCHAR(64)  NOT NULL DEFAULT '',
			character_name VARCHAR(64)  NOT NULL DEFAULT '',
			expression     VARCHAR(32)  NOT NULL,
			rolls          JSONB        NOT NULL DEFAULT '[]',
			modifiers      JSONB        NOT NULL DEFAULT '[]',
			total          INT          NOT NULL,
			details        TEXT         NOT NULL DEFAULT '',
			rolled_at      TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_session_rolls_session ON session_rolls (session_id, rolled_at DESC);
	`

	_, err := pc.RawPool.Exec(ctx, schema)
	if err != nil {
		t.Fatalf("applying migrations: %v", err)
	}
	t.Logf("migrations applied [%s]", time.Since(start))
}

// NewPool starts a postgres container, applies the schema, and returns
// the raw pool for repository tests.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	pc := NewPostgresContainer(t)
	pc.ApplyMigrations(t)
	return pc.RawPool
}

// DSN returns the connection string for the test database.
func (pc *PostgresContainer) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		pc.Config.User, pc.Config.Password,
		pc.Config.Host, pc.Config.Port,
		pc.Config.Name, pc.Config.SSLMode,
	)
}
