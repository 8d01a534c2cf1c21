package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/sumeshhesums/ml-deployment-platform/internal/app_errors"
)

const (
	AccessTokenKind  = "access"
	RefreshTokenKind = "refresh"
)

var signingMethod = jwt.SigningMethodHS256

// JWTManager mints and verifies self-contained tokens. Validity is a pure
// function of the signature and the embedded expiry; there is no server-side
// token table, so any instance holding the secret can verify any token.
type JWTManager struct {
	secretKey  string
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewJWTManager(secretKey, issuer string, accessTTL, refreshTTL time.Duration) *JWTManager {
	return &JWTManager{
		secretKey:  secretKey,
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

type TokenClaims struct {
	TokenKind string `json:"token_type"`
	jwt.RegisteredClaims
}

func (j *JWTManager) IssueAccessToken(userID uuid.UUID) (string, error) {
	return j.issue(userID, AccessTokenKind, j.accessTTL)
}

func (j *JWTManager) IssueRefreshToken(userID uuid.UUID) (string, error) {
	return j.issue(userID, RefreshTokenKind, j.refreshTTL)
}

func (j *JWTManager) issue(userID uuid.UUID, kind string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(signingMethod, TokenClaims{
		TokenKind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})

	signed, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("%s token signing failed: %w", kind, err)
	}
	return signed, nil
}

// Verify checks signature, expiry, and kind, in that order. A structurally
// valid but expired token reports ErrTokenExpired so the caller can tell the
// client to refresh; every other defect is ErrInvalidToken or, for a valid
// token of the other kind, ErrWrongTokenKind.
func (j *JWTManager) Verify(tokenStr, expectedKind string) (uuid.UUID, error) {
	claims := &TokenClaims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method != signingMethod {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(j.secretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, app_errors.ErrTokenExpired
		}
		return uuid.Nil, app_errors.ErrInvalidToken
	}

	if claims.TokenKind != expectedKind {
		return uuid.Nil, app_errors.ErrWrongTokenKind
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, app_errors.ErrInvalidToken
	}
	return userID, nil
}
