package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shop-ex/shopex-backend/internal/errors"
	"github.com/shop-ex/shopex-backend/pkg/util"
)

// UserEmailKey is the gin context key for the verified token identity.
// The token carries only an email claim; roles are always resolved from the
// users table by the guard chain.
const UserEmailKey = "user_email"

type AuthMiddleware struct {
	jwtSecret string
}

func NewAuthMiddleware(jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret: jwtSecret,
	}
}

// Authenticate validates the bearer token and binds the email claim to the
// request. A missing or unparseable credential is unauthorized; a token that
// fails signature or expiry checks is forbidden, with distinct codes so
// clients can tell expiry from tampering.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.Warn("Missing authorization header", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.Unauthorized(c, "")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			log.Warn("Invalid authorization header format", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "invalid authorization header")
			c.Abort()
			return
		}

		claims, err := util.ValidateToken(parts[1], m.jwtSecret)
		if err != nil {
			log.Warn("Token validation failed", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})

			if err == util.ErrExpiredToken {
				errors.RespondWithError(c, http.StatusForbidden, errors.AuthTokenExpired, "token has expired")
			} else {
				errors.RespondWithError(c, http.StatusForbidden, errors.AuthTokenInvalid, "invalid authentication token")
			}
			c.Abort()
			return
		}

		c.Set(UserEmailKey, claims.Email)

		log.Debug("User authenticated", map[string]interface{}{
			"email": claims.Email,
		})

		c.Next()
	}
}

// GetUserEmail extracts the verified identity from the gin context.
func GetUserEmail(c *gin.Context) (string, bool) {
	email, exists := c.Get(UserEmailKey)
	if !exists {
		return "", false
	}
	return email.(string), true
}
