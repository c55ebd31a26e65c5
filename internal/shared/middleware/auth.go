package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"library-backend/internal/shared"
	"library-backend/internal/shared/response"
	"library-backend/pkg/jwt"
)

// TokenValidator is implemented by *jwt.Manager
type TokenValidator interface {
	ValidateAccessToken(token string) (*jwt.Claims, error)
}

// Authenticate verifies the bearer token and stores the identity in the context
func Authenticate(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Access denied. No token provided")
			return
		}

		scheme, token, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			response.Unauthorized(c, "Invalid authorization header format")
			return
		}

		claims, err := tokens.ValidateAccessToken(strings.TrimSpace(token))
		if err != nil {
			log.Debug().Err(err).Str("request_id", c.GetString(shared.CtxRequestID)).Msg("Token rejected")
			response.Unauthorized(c, "Invalid token")
			return
		}

		c.Set(shared.CtxUserID, claims.UserID)
		c.Set(shared.CtxUserEmail, claims.Email)
		c.Set(shared.CtxUserRole, claims.Role)
		c.Next()
	}
}

// Authorize lets through only the listed roles.
// 401 when no identity is present, 403 when the role is not allowed.
func Authorize(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if !ok {
			response.Unauthorized(c, "User is not authenticated")
			return
		}

		if _, ok := allowed[identity.Role]; !ok {
			response.Forbidden(c, fmt.Sprintf("Access denied. Role %s is not allowed to access this resource", identity.Role))
			return
		}

		c.Next()
	}
}

// GetIdentity reads what Authenticate stored
func GetIdentity(c *gin.Context) (shared.Identity, bool) {
	id := c.GetString(shared.CtxUserID)
	role := c.GetString(shared.CtxUserRole)
	if id == "" || role == "" {
		return shared.Identity{}, false
	}
	return shared.Identity{
		ID:    id,
		Email: c.GetString(shared.CtxUserEmail),
		Role:  role,
	}, true
}
