package user

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

type fakeUserRepo struct {
	users map[string]*User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*User)}
}

func (r *fakeUserRepo) UpsertProfile(ctx context.Context, profile *User) error {
	existing, ok := r.users[profile.ID]
	if !ok {
		copied := *profile
		r.users[profile.ID] = &copied
		return nil
	}
	if profile.Email != nil {
		existing.Email = profile.Email
	}
	if profile.DisplayName != nil {
		existing.DisplayName = profile.DisplayName
	}
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, userID string) (*User, error) {
	user, ok := r.users[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) ListByIDs(ctx context.Context, userIDs []string) ([]User, error) {
	result := make([]User, 0, len(userIDs))
	for _, id := range userIDs {
		if user, ok := r.users[id]; ok {
			result = append(result, *user)
		}
	}
	return result, nil
}

func (r *fakeUserRepo) UpdateSettings(ctx context.Context, userID string, displayName *string, displayCurrency *string) error {
	user, ok := r.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	if displayName != nil {
		user.DisplayName = displayName
	}
	if displayCurrency != nil {
		user.DisplayCurrency = *displayCurrency
	}
	return nil
}

func TestUpsertProfileKeepsConnections(t *testing.T) {
	repo := newFakeUserRepo()
	repo.users["u1"] = &User{ID: "u1", DisplayCurrency: "EUR", ConnectedUserIDs: datatypes.JSONSlice[string]{"u2"}}
	svc := NewService(repo)

	require.NoError(t, svc.UpsertProfile(context.Background(), "u1", " a@example.com ", ""))

	user := repo.users["u1"]
	require.NotNil(t, user.Email)
	assert.Equal(t, "a@example.com", *user.Email)
	assert.Equal(t, []string{"u2"}, []string(user.ConnectedUserIDs))
	assert.Equal(t, "EUR", user.DisplayCurrency)
}

func TestUpsertProfileCreatesEmptyConnectionList(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo)

	require.NoError(t, svc.UpsertProfile(context.Background(), "u1", "", "Ann"))

	user := repo.users["u1"]
	assert.NotNil(t, user.ConnectedUserIDs)
	assert.Empty(t, user.ConnectedUserIDs)
	assert.Equal(t, DefaultDisplayCurrency, user.DisplayCurrency)
	assert.Equal(t, "Ann", user.Name())
}

func TestUpdateSettingsNormalizesCurrency(t *testing.T) {
	repo := newFakeUserRepo()
	repo.users["u1"] = &User{ID: "u1", DisplayCurrency: "USD"}
	svc := NewService(repo)

	currency := " eur "
	updated, err := svc.UpdateSettings(context.Background(), UpdateSettingsInput{UserID: "u1", DisplayCurrency: &currency})
	require.NoError(t, err)
	assert.Equal(t, "EUR", updated.DisplayCurrency)

	bad := "EURO"
	_, err = svc.UpdateSettings(context.Background(), UpdateSettingsInput{UserID: "u1", DisplayCurrency: &bad})
	assert.True(t, errors.Is(err, ErrInvalidCurrency))
}

func TestNameFallsBack(t *testing.T) {
	email := "b@example.com"
	assert.Equal(t, "b@example.com", User{ID: "u2", Email: &email}.Name())
	assert.Equal(t, "u3", User{ID: "u3"}.Name())
}
