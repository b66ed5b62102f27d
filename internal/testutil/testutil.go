// Package testutil provides helpers shared by unit and integration tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/djprofessorkash/pet-emporium-project/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 811981

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// ResetSchema drops and recreates all tables for tests.
func ResetSchema(ctx context.Context, pool *pgxpool.Pool) error {
	root, err := ProjectRoot()
	if err != nil {
		return err
	}

	downPath := filepath.Join(root, "migrations", "000001_init.down.sql")
	upPath := filepath.Join(root, "migrations", "000001_init.up.sql")

	downSQL, err := os.ReadFile(downPath)
	if err != nil {
		return fmt.Errorf("read down migration: %w", err)
	}
	if _, err := pool.Exec(ctx, string(downSQL)); err != nil {
		return fmt.Errorf("apply down migration: %w", err)
	}

	upSQL, err := os.ReadFile(upPath)
	if err != nil {
		return fmt.Errorf("read up migration: %w", err)
	}
	if _, err := pool.Exec(ctx, string(upSQL)); err != nil {
		return fmt.Errorf("apply up migration: %w", err)
	}

	return nil
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ProjectRoot returns the project root directory.
func ProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to resolve testutil path")
	}
	root := filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
	return root, nil
}

// ============================================================================
// Test Data Factories
// ============================================================================

// NewTestUser creates a test user with sensible defaults. The password
// hash is a fixed placeholder; tests exercising real verification hash
// their own.
func NewTestUser(t testing.TB, username string) *model.User {
	t.Helper()
	return &model.User{
		Username:     username,
		PasswordHash: "$argon2id$v=19$m=65536,t=3,p=4$placeholder$placeholder",
		CreatedAt:    time.Now().UTC(),
	}
}

// NewTestAdmin creates a test administrator.
func NewTestAdmin(t testing.TB, username string) *model.User {
	t.Helper()
	user := NewTestUser(t, username)
	user.IsAdmin = true
	return user
}

// NewTestDog creates a test dog with sensible defaults.
func NewTestDog(t testing.TB, name, breed string) *model.Dog {
	t.Helper()
	return &model.Dog{
		Name:        name,
		Breed:       breed,
		IsAdoptable: true,
		CreatedAt:   time.Now().UTC(),
	}
}

// UniqueUsername generates a unique username for integration tests.
func UniqueUsername(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}
