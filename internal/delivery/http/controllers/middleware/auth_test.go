package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sumeshhesums/ml-deployment-platform/internal/app_errors"
	"github.com/sumeshhesums/ml-deployment-platform/internal/models"
	"github.com/sumeshhesums/ml-deployment-platform/pkg/logger"
)

type fakeAuthService struct {
	user *models.User
	err  error
}

func (f *fakeAuthService) VerifyAccess(_ context.Context, _ string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

func newAuthTestRouter(svc AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	provider := NewAuthMiddlewareProvider(logger.New("local"), svc)

	r := gin.New()
	r.GET("/protected", provider.AuthMiddleware, func(c *gin.Context) {
		identity, _ := CurrentIdentity(c)
		c.JSON(http.StatusOK, gin.H{"username": identity.Username})
	})
	return r
}

func doRequest(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_NoHeader(t *testing.T) {
	r := newAuthTestRouter(&fakeAuthService{})

	w := doRequest(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	r := newAuthTestRouter(&fakeAuthService{})

	w := doRequest(r, "Basic dXNlcjpwYXNz")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	r := newAuthTestRouter(&fakeAuthService{err: app_errors.ErrInvalidToken})

	w := doRequest(r, "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "not authenticated")
}

func TestAuthMiddleware_WrongKindLooksGeneric(t *testing.T) {
	// A refresh token on a protected route must be indistinguishable from
	// any other invalid token.
	r := newAuthTestRouter(&fakeAuthService{err: app_errors.ErrWrongTokenKind})

	w := doRequest(r, "Bearer some.refresh.token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "not authenticated")
	assert.NotContains(t, w.Body.String(), "kind")
}

func TestAuthMiddleware_ExpiredIsDistinguishable(t *testing.T) {
	r := newAuthTestRouter(&fakeAuthService{err: app_errors.ErrTokenExpired})

	w := doRequest(r, "Bearer expired.token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), app_errors.ErrTokenExpired.Error())
}

func TestAuthMiddleware_SetsIdentity(t *testing.T) {
	user := &models.User{ID: uuid.New(), Username: "alice", IsAdmin: false, IsActive: true}
	r := newAuthTestRouter(&fakeAuthService{user: user})

	w := doRequest(r, "Bearer good.token")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice")
}

func TestRequireAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(identity *Identity) *gin.Engine {
		r := gin.New()
		r.GET("/admin", func(c *gin.Context) {
			if identity != nil {
				c.Set(IdentityCtx, *identity)
			}
			c.Next()
		}, RequireAdmin(), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		return r
	}

	serve := func(r *gin.Engine) int {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusUnauthorized, serve(newRouter(nil)))
	assert.Equal(t, http.StatusForbidden, serve(newRouter(&Identity{UserID: uuid.New(), Username: "alice"})))
	assert.Equal(t, http.StatusOK, serve(newRouter(&Identity{UserID: uuid.New(), Username: "root", IsAdmin: true})))
}
