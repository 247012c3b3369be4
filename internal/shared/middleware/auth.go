package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"coursestore-backend/internal/shared/response"
	"coursestore-backend/pkg/jwt"
)

// Context keys set by the auth middlewares.
const (
	ContextUserID = "user_id"
	ContextEmail  = "email"
	ContextRole   = "role"
)

// AuthMiddleware requires a valid bearer access token.
func AuthMiddleware(manager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, errMsg := parseBearer(c, manager)
		if errMsg != "" {
			response.Unauthorized(c, errMsg)
			c.Abort()
			return
		}
		if !setIdentity(c, claims) {
			response.Unauthorized(c, "invalid user ID in token")
			c.Abort()
			return
		}
		c.Next()
	}
}

// OptionalAuth attaches the identity when a valid token is present and
// lets anonymous requests through (guest checkout).
func OptionalAuth(manager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") != "" {
			if claims, errMsg := parseBearer(c, manager); errMsg == "" {
				setIdentity(c, claims)
			}
		}
		c.Next()
	}
}

func parseBearer(c *gin.Context, manager *jwt.Manager) (*jwt.Claims, string) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, "missing authorization header"
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, "invalid authorization header format"
	}

	claims, err := manager.ValidateAccessToken(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, "invalid token"
	}
	return claims, ""
}

func setIdentity(c *gin.Context, claims *jwt.Claims) bool {
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return false
	}
	c.Set(ContextUserID, userID)
	c.Set(ContextEmail, claims.Email)
	c.Set(ContextRole, claims.Role)
	return true
}

// UserID returns the authenticated user id, if any.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// OptionalUserID is UserID for handlers that also serve guests.
func OptionalUserID(c *gin.Context) *uuid.UUID {
	id, ok := UserID(c)
	if !ok {
		return nil
	}
	return &id
}

func Email(c *gin.Context) string {
	return c.GetString(ContextEmail)
}
