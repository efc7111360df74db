package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"settlr/internal/model"
)

const (
	identityKey = "auth.identity"
	userKey     = "auth.user"
)

// UserSyncer maps a verified identity to the local account
type UserSyncer interface {
	EnsureUser(ctx context.Context, identity *model.Identity) (*model.User, error)
}

// Middleware requires a valid bearer token and attaches the identity and
// local user to the request context
func Middleware(verifier Verifier, users UserSyncer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if !strings.HasPrefix(header, "Bearer ") || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "No token provided"})
			return
		}

		identity, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, ErrInvalidToken) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
				return
			}
			logrus.WithError(err).Warn("⚠️ Token verification failed")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}

		user, err := users.EnsureUser(c.Request.Context(), identity)
		if err != nil {
			logrus.WithError(err).Error("❌ Failed to sync user")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to sync user"})
			return
		}

		c.Set(identityKey, identity)
		c.Set(userKey, user)
		c.Next()
	}
}

// IdentityFrom returns the verified identity set by Middleware
func IdentityFrom(c *gin.Context) (*model.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	identity, ok := v.(*model.Identity)
	return identity, ok
}

// UserFrom returns the local account set by Middleware
func UserFrom(c *gin.Context) (*model.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*model.User)
	return user, ok
}
