package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openrun/users-api/internal/metrics"
	"github.com/openrun/users-api/internal/model"
	"github.com/openrun/users-api/internal/repository"
)

func strPtr(s string) *string { return &s }

func newTestService(t *testing.T) (*UserService, *repository.Repository, *metrics.InMemoryRecorder) {
	t.Helper()
	repo := repository.New(repository.SeedUsers()...)
	recorder := metrics.NewInMemory()
	return NewUserService(repo, recorder), repo, recorder
}

func TestCreateUser_IDsStrictlyIncreasing(t *testing.T) {
	ctx := context.Background()
	svc, _, recorder := newTestService(t)

	var last int64 = 3
	for i := 0; i < 10; i++ {
		u, err := svc.CreateUser(ctx, CreateUserInput{Name: "User", Email: "user@example.com"})
		require.NoError(t, err)
		assert.Greater(t, u.ID, last)
		last = u.ID
	}

	assert.Equal(t, uint64(10), recorder.Snapshot().UsersCreated)
}

func TestCreateUser_GetReturnsSuppliedFields(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	created, err := svc.CreateUser(ctx, CreateUserInput{Name: "Dana", Email: "dana@x.com"})
	require.NoError(t, err)

	got, err := svc.GetUser(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.User{ID: 4, Name: "Dana", Email: "dana@x.com"}, *got)
}

func TestCreateUser_InvalidInputDoesNotMutate(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		input CreateUserInput
	}{
		{"missing both", CreateUserInput{}},
		{"missing name", CreateUserInput{Email: "a@example.com"}},
		{"missing email", CreateUserInput{Name: "A"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, recorder := newTestService(t)

			_, err := svc.CreateUser(ctx, tt.input)
			require.ErrorIs(t, err, ErrInvalidInput)

			assert.Equal(t, 3, repo.CountUsers(ctx))
			assert.Zero(t, recorder.Snapshot().UsersCreated)

			// The counter is untouched too: the next valid create still gets id 4.
			u, err := svc.CreateUser(ctx, CreateUserInput{Name: "B", Email: "b@example.com"})
			require.NoError(t, err)
			assert.Equal(t, int64(4), u.ID)
		})
	}
}

func TestCreateUser_NoEmailFormatValidation(t *testing.T) {
	svc, _, _ := newTestService(t)

	u, err := svc.CreateUser(context.Background(), CreateUserInput{Name: "X", Email: "not-an-email"})
	require.NoError(t, err)
	assert.Equal(t, "not-an-email", u.Email)
}

func TestUpdateUser_PartialFields(t *testing.T) {
	ctx := context.Background()
	svc, _, recorder := newTestService(t)

	u, err := svc.UpdateUser(ctx, UpdateUserInput{ID: 1, Name: strPtr("Alicia")})
	require.NoError(t, err)
	assert.Equal(t, "Alicia", u.Name)
	assert.Equal(t, "alice@example.com", u.Email)

	u, err = svc.UpdateUser(ctx, UpdateUserInput{ID: 1, Email: strPtr("alicia@example.com")})
	require.NoError(t, err)
	assert.Equal(t, "Alicia", u.Name)
	assert.Equal(t, "alicia@example.com", u.Email)

	assert.Equal(t, uint64(2), recorder.Snapshot().UsersUpdated)
}

func TestUpdateUser_EmptyStringIsIgnored(t *testing.T) {
	svc, _, recorder := newTestService(t)

	u, err := svc.UpdateUser(context.Background(), UpdateUserInput{ID: 2, Name: strPtr(""), Email: strPtr("")})
	require.NoError(t, err)
	assert.Equal(t, model.User{ID: 2, Name: "Bob", Email: "bob@example.com"}, *u)
	assert.Zero(t, recorder.Snapshot().UsersUpdated)
}

func TestUpdateUser_NoFieldsStillChecksExistence(t *testing.T) {
	svc, _, recorder := newTestService(t)

	_, err := svc.UpdateUser(context.Background(), UpdateUserInput{ID: 99})
	assert.ErrorIs(t, err, ErrUserNotFound)

	u, err := svc.UpdateUser(context.Background(), UpdateUserInput{ID: 3})
	require.NoError(t, err)
	assert.Equal(t, "Charlie", u.Name)
	assert.Zero(t, recorder.Snapshot().UsersUpdated)
}

func TestUpdateUser_NotFound(t *testing.T) {
	svc, _, recorder := newTestService(t)

	_, err := svc.UpdateUser(context.Background(), UpdateUserInput{ID: 99, Name: strPtr("Ghost")})
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Zero(t, recorder.Snapshot().UsersUpdated)
}

func TestDeleteUser_ThenGetNotFound(t *testing.T) {
	ctx := context.Background()
	svc, _, recorder := newTestService(t)

	require.NoError(t, svc.DeleteUser(ctx, 2))

	_, err := svc.GetUser(ctx, 2)
	assert.ErrorIs(t, err, ErrUserNotFound)

	assert.ErrorIs(t, svc.DeleteUser(ctx, 2), ErrUserNotFound)
	assert.Equal(t, uint64(1), recorder.Snapshot().UsersDeleted)
}

func TestListUsers(t *testing.T) {
	svc, _, _ := newTestService(t)

	users, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 3)
}

// failingRepo returns err from every operation.
type failingRepo struct {
	err error
}

func (f *failingRepo) ListUsers(ctx context.Context) ([]model.User, error) { return nil, f.err }
func (f *failingRepo) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	return nil, f.err
}
func (f *failingRepo) CreateUser(ctx context.Context, user *model.User) error { return f.err }
func (f *failingRepo) UpdateUser(ctx context.Context, id int64, patch model.UserPatch) (*model.User, error) {
	return nil, f.err
}
func (f *failingRepo) DeleteUser(ctx context.Context, id int64) error { return f.err }

func TestUserService_PropagatesUnexpectedErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	svc := NewUserService(&failingRepo{err: boom}, nil)

	_, err := svc.ListUsers(ctx)
	assert.ErrorIs(t, err, boom)

	_, err = svc.GetUser(ctx, 1)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrUserNotFound)

	_, err = svc.CreateUser(ctx, CreateUserInput{Name: "a", Email: "b"})
	assert.ErrorIs(t, err, boom)

	assert.ErrorIs(t, svc.DeleteUser(ctx, 1), boom)
}
