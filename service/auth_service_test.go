package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"textilehub/models"
)

type memUserRepo struct {
	users map[string]*models.User // by email
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*models.User)}
}

func (m *memUserRepo) Create(_ context.Context, u *models.User) error {
	m.users[u.Email] = u
	return nil
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	u, ok := m.users[email]
	if !ok {
		return nil, errors.New("user not found")
	}
	return u, nil
}

func (m *memUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, errors.New("user not found")
}

func TestRegisterAndLogin(t *testing.T) {
	auth := NewAuthService(newMemUserRepo(), "test-secret")

	user, err := auth.Register(context.Background(), "  Asha@Example.COM ", "s3cret", "Asha", "Sharma Textiles")
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", user.Email)
	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "s3cret", user.PasswordHash)

	token, logged, err := auth.Login(context.Background(), "asha@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)

	userID, err := auth.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	repo := newMemUserRepo()
	auth := NewAuthService(repo, "test-secret")

	_, err := auth.Register(context.Background(), "a@b.com", "pw", "", "")
	require.NoError(t, err)

	_, err = auth.Register(context.Background(), "A@B.com", "pw", "", "")
	assert.Error(t, err)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	auth := NewAuthService(newMemUserRepo(), "test-secret")
	_, err := auth.Register(context.Background(), "a@b.com", "right", "", "")
	require.NoError(t, err)

	_, _, err = auth.Login(context.Background(), "a@b.com", "wrong")
	assert.Error(t, err)

	_, _, err = auth.Login(context.Background(), "nobody@b.com", "right")
	assert.Error(t, err)
}

func TestVerifyTokenRejectsForeignSignature(t *testing.T) {
	auth := NewAuthService(newMemUserRepo(), "test-secret")
	other := NewAuthService(newMemUserRepo(), "other-secret")

	token, err := other.IssueToken("user-1")
	require.NoError(t, err)

	_, err = auth.VerifyToken(token)
	assert.Error(t, err)

	_, err = auth.VerifyToken("not-a-token")
	assert.Error(t, err)
}
