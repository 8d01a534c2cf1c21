package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/sumeshhesums/ml-deployment-platform/internal/app_errors"
	"github.com/sumeshhesums/ml-deployment-platform/internal/models"
	"github.com/sumeshhesums/ml-deployment-platform/pkg/logger"
)

type UserRepo interface {
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	UserByName(ctx context.Context, username string) (*models.User, error)
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type AuthService struct {
	log        logger.Log
	jwtManager *JWTManager
	users      UserRepo
}

func NewAuthService(l logger.Log, manager *JWTManager, users UserRepo) *AuthService {
	return &AuthService{
		log:        l,
		jwtManager: manager,
		users:      users,
	}
}

type RegisterInput struct {
	Email    string
	Username string
	Password string
	FullName string
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	// bcrypt rejects inputs over 72 bytes.
	if len(input.Password) < 8 || len(input.Password) > 72 {
		return nil, app_errors.ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:        input.Email,
		Username:     input.Username,
		FullName:     input.FullName,
		PasswordHash: string(hash),
	}
	return s.users.CreateUser(ctx, user)
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*models.TokenPair, error) {
	user, err := s.users.UserByName(ctx, username)
	if err != nil {
		if errors.Is(err, app_errors.ErrUserNotFound) {
			return nil, app_errors.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, app_errors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, app_errors.ErrUserInactive
	}

	return s.tokenPair(user.ID)
}

// Refresh exchanges a valid refresh token for a brand-new pair. The old
// token is not recorded as spent; it stays usable until its natural expiry.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	userID, err := s.jwtManager.Verify(refreshToken, RefreshTokenKind)
	if err != nil {
		return nil, err
	}

	user, err := s.users.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, app_errors.ErrUserInactive
	}

	return s.tokenPair(user.ID)
}

// VerifyAccess resolves the identity behind an access token for the
// middleware. The user record is re-read so a deactivated account loses
// access before its tokens expire.
func (s *AuthService) VerifyAccess(ctx context.Context, accessToken string) (*models.User, error) {
	userID, err := s.jwtManager.Verify(accessToken, AccessTokenKind)
	if err != nil {
		return nil, err
	}
	user, err := s.users.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, app_errors.ErrUserInactive
	}
	return user, nil
}

func (s *AuthService) User(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.users.UserByID(ctx, id)
}

func (s *AuthService) tokenPair(userID uuid.UUID) (*models.TokenPair, error) {
	access, err := s.jwtManager.IssueAccessToken(userID)
	if err != nil {
		return nil, err
	}
	refresh, err := s.jwtManager.IssueRefreshToken(userID)
	if err != nil {
		return nil, err
	}
	return &models.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
