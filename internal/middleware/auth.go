package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/petla/petla-api/internal/utils"
)

const (
	UserIDKey   = "userID"
	UserRoleKey = "userRole"
)

// AuthMiddleware verifies a Bearer access token and stores the caller's id and
// role in the gin context. With required=false a missing or bad token is
// tolerated and the request continues anonymously.
func AuthMiddleware(issuer *utils.TokenIssuer, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c.GetHeader("Authorization"))
		if tokenString == "" {
			if required {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
				return
			}
			c.Next()
			return
		}

		claims, err := issuer.Verify(tokenString, utils.TokenTypeAccess)
		if err != nil {
			if required {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
				return
			}
			c.Next()
			return
		}

		c.Set(UserIDKey, claims.Subject)
		c.Set(UserRoleKey, claims.Role)

		c.Next()
	}
}

// CurrentUser returns the id and role set by AuthMiddleware.
func CurrentUser(c *gin.Context) (id, role string, ok bool) {
	id = c.GetString(UserIDKey)
	role = c.GetString(UserRoleKey)
	return id, role, id != ""
}

func bearerToken(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
