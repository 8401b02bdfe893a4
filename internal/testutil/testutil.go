// Package testutil holds shared helpers for package tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/openrun/users-api/internal/cache"
	"github.com/openrun/users-api/internal/model"
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

// RequireRedis connects to REDIS_URL and flushes the selected database.
// The test is skipped when REDIS_URL is unset or Redis is unreachable.
func RequireRedis(t testing.TB) *cache.Cache {
	t.Helper()

	redisURL := RequireEnv(t, "REDIS_URL")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c, err := cache.New(ctx, redisURL)
	if err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	if err := FlushRedis(ctx, c); err != nil {
		t.Fatalf("flush redis: %v", err)
	}
	return c
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, c *cache.Cache) error {
	return c.Client().FlushDB(ctx).Err()
}

// ============================================================================
// Test Data Factories
// ============================================================================

// NewTestUser creates an unsaved user with unique name and email.
func NewTestUser(t testing.TB) *model.User {
	t.Helper()
	id := UniqueID("user")
	return &model.User{
		Name:  id,
		Email: id + "@example.com",
	}
}

// UniqueID generates a unique ID for tests.
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}
