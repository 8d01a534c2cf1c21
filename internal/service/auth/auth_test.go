package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/sumeshhesums/ml-deployment-platform/internal/app_errors"
	"github.com/sumeshhesums/ml-deployment-platform/internal/models"
	"github.com/sumeshhesums/ml-deployment-platform/pkg/logger"
)

type fakeUserRepo struct {
	byName map[string]*models.User
	byID   map[uuid.UUID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byName: make(map[string]*models.User),
		byID:   make(map[uuid.UUID]*models.User),
	}
}

func (f *fakeUserRepo) add(u models.User) *models.User {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	stored := u
	f.byName[u.Username] = &stored
	f.byID[u.ID] = &stored
	return &stored
}

func (f *fakeUserRepo) CreateUser(_ context.Context, user models.User) (*models.User, error) {
	if _, exists := f.byName[user.Username]; exists {
		return nil, app_errors.ErrDuplicateIdentity
	}
	user.IsActive = true
	return f.add(user), nil
}

func (f *fakeUserRepo) UserByName(_ context.Context, username string) (*models.User, error) {
	u, ok := f.byName[username]
	if !ok {
		return nil, app_errors.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) UserByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, app_errors.ErrUserNotFound
	}
	return u, nil
}

func newTestAuthService(repo UserRepo) *AuthService {
	m := NewJWTManager("test-secret", "test-issuer", 30*time.Minute, 168*time.Hour)
	return NewAuthService(logger.New("local"), m, repo)
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestRegister_Success(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	s := newTestAuthService(repo)

	user, err := s.Register(context.Background(), RegisterInput{
		Email:    "alice@example.com",
		Username: "alice",
		Password: "correct horse",
		FullName: "Alice",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.True(t, user.IsActive)

	// The stored hash must verify against the original password.
	stored, err := repo.UserByName(context.Background(), "alice")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("correct horse")))
}

func TestRegister_Duplicate(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	s := newTestAuthService(repo)

	input := RegisterInput{Email: "a@example.com", Username: "alice", Password: "password123"}
	_, err := s.Register(context.Background(), input)
	require.NoError(t, err)

	_, err = s.Register(context.Background(), input)
	assert.ErrorIs(t, err, app_errors.ErrDuplicateIdentity)
}

func TestRegister_WeakPassword(t *testing.T) {
	t.Parallel()

	s := newTestAuthService(newFakeUserRepo())

	_, err := s.Register(context.Background(), RegisterInput{Username: "bob", Password: "short"})
	assert.ErrorIs(t, err, app_errors.ErrWeakPassword)

	long := make([]byte, 73)
	for i := range long {
		long[i] = 'x'
	}
	_, err = s.Register(context.Background(), RegisterInput{Username: "bob", Password: string(long)})
	assert.ErrorIs(t, err, app_errors.ErrWeakPassword)
}

func TestLogin_Success(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	repo.add(models.User{
		Username:     "alice",
		PasswordHash: mustHash(t, "password123"),
		IsActive:     true,
	})
	s := newTestAuthService(repo)

	pair, err := s.Login(context.Background(), "alice", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
}

func TestLogin_WrongPassword(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	repo.add(models.User{
		Username:     "alice",
		PasswordHash: mustHash(t, "password123"),
		IsActive:     true,
	})
	s := newTestAuthService(repo)

	_, err := s.Login(context.Background(), "alice", "wrong")
	assert.ErrorIs(t, err, app_errors.ErrInvalidCredentials)
}

func TestLogin_UnknownUser(t *testing.T) {
	t.Parallel()

	s := newTestAuthService(newFakeUserRepo())

	// Unknown users report the same error as bad passwords.
	_, err := s.Login(context.Background(), "nobody", "whatever")
	assert.ErrorIs(t, err, app_errors.ErrInvalidCredentials)
}

func TestLogin_InactiveUser(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	repo.add(models.User{
		Username:     "alice",
		PasswordHash: mustHash(t, "password123"),
		IsActive:     false,
	})
	s := newTestAuthService(repo)

	_, err := s.Login(context.Background(), "alice", "password123")
	assert.ErrorIs(t, err, app_errors.ErrUserInactive)
}

func TestRefresh_Success(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	user := repo.add(models.User{Username: "alice", IsActive: true})
	s := newTestAuthService(repo)

	refresh, err := s.jwtManager.IssueRefreshToken(user.ID)
	require.NoError(t, err)

	pair, err := s.Refresh(context.Background(), refresh)
	require.NoError(t, err)

	// The new access token must resolve back to the same user.
	got, err := s.VerifyAccess(context.Background(), pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	user := repo.add(models.User{Username: "alice", IsActive: true})
	s := newTestAuthService(repo)

	access, err := s.jwtManager.IssueAccessToken(user.ID)
	require.NoError(t, err)

	_, err = s.Refresh(context.Background(), access)
	assert.ErrorIs(t, err, app_errors.ErrWrongTokenKind)
}

func TestRefresh_DeactivatedUser(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	user := repo.add(models.User{Username: "alice", IsActive: false})
	s := newTestAuthService(repo)

	refresh, err := s.jwtManager.IssueRefreshToken(user.ID)
	require.NoError(t, err)

	_, err = s.Refresh(context.Background(), refresh)
	assert.ErrorIs(t, err, app_errors.ErrUserInactive)
}

func TestRefresh_DeletedUser(t *testing.T) {
	t.Parallel()

	s := newTestAuthService(newFakeUserRepo())
	m := NewJWTManager("test-secret", "test-issuer", 30*time.Minute, 168*time.Hour)

	refresh, err := m.IssueRefreshToken(uuid.New())
	require.NoError(t, err)

	_, err = s.Refresh(context.Background(), refresh)
	assert.ErrorIs(t, err, app_errors.ErrUserNotFound)
}

func TestVerifyAccess_DeactivatedUser(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	user := repo.add(models.User{Username: "alice", IsActive: true})
	s := newTestAuthService(repo)

	access, err := s.jwtManager.IssueAccessToken(user.ID)
	require.NoError(t, err)

	// Deactivation cuts off access before the token expires.
	repo.byID[user.ID].IsActive = false
	_, err = s.VerifyAccess(context.Background(), access)
	assert.ErrorIs(t, err, app_errors.ErrUserInactive)
}
