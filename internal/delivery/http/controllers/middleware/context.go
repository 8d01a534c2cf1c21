package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const IdentityCtx = "identity"

// Identity is the resolved caller attached to the request context by the
// auth middleware and consumed by ownership and admin checks downstream.
type Identity struct {
	UserID   uuid.UUID
	Username string
	IsAdmin  bool
}

func CurrentIdentity(c *gin.Context) (Identity, bool) {
	raw, exists := c.Get(IdentityCtx)
	if !exists {
		return Identity{}, false
	}
	identity, ok := raw.(Identity)
	return identity, ok
}
