package repository

import (
	"context"
	"errors"

	"github.com/openrun/users-api/internal/model"
)

// Common errors for user repository operations.
var (
	ErrUserNotFound = errors.New("user not found")
)

// ListUsers returns a copy of the collection in insertion order.
func (r *Repository) ListUsers(ctx context.Context) ([]model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.User, len(r.users))
	copy(out, r.users)
	return out, nil
}

// CountUsers returns the number of records in the collection.
func (r *Repository) CountUsers(ctx context.Context) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}

// GetUserByID retrieves a user by their ID.
func (r *Repository) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, ErrUserNotFound
	}
	u := r.users[i]
	return &u, nil
}

// CreateUser assigns the next id to user and appends it to the collection.
func (r *Repository) CreateUser(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastID++
	user.ID = r.lastID
	r.users = append(r.users, *user)
	return nil
}

// UpdateUser applies patch to the user in place and returns the result.
func (r *Repository) UpdateUser(ctx context.Context, id int64, patch model.UserPatch) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, ErrUserNotFound
	}
	patch.Apply(&r.users[i])
	u := r.users[i]
	return &u, nil
}

// DeleteUser removes a user, keeping the order of the remaining records.
func (r *Repository) DeleteUser(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return ErrUserNotFound
	}
	r.users = append(r.users[:i], r.users[i+1:]...)
	return nil
}

// indexOf must be called with mu held.
func (r *Repository) indexOf(id int64) int {
	for i := range r.users {
		if r.users[i].ID == id {
			return i
		}
	}
	return -1
}
