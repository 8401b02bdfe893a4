// Package repository provides the in-process user store.
package repository

import (
	"context"
	"sync"

	"github.com/openrun/users-api/internal/model"
)

// Repository owns the user collection and the id counter.
// It is safe for concurrent use; every method is a single atomic step.
type Repository struct {
	mu     sync.RWMutex
	users  []model.User
	lastID int64
}

// New creates a Repository seeded with the given users.
// The id counter starts at the highest seeded id.
func New(seed ...model.User) *Repository {
	r := &Repository{
		users: make([]model.User, 0, len(seed)),
	}
	for _, u := range seed {
		r.users = append(r.users, u)
		if u.ID > r.lastID {
			r.lastID = u.ID
		}
	}
	return r
}

// SeedUsers returns the fixed records the collection starts with.
func SeedUsers() []model.User {
	return []model.User{
		{ID: 1, Name: "Alice", Email: "alice@example.com"},
		{ID: 2, Name: "Bob", Email: "bob@example.com"},
		{ID: 3, Name: "Charlie", Email: "charlie@example.com"},
	}
}

// Ping reports store availability. The in-memory store is always available
// unless the context is already done.
func (r *Repository) Ping(ctx context.Context) error {
	return ctx.Err()
}
