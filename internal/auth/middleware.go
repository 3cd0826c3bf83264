package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const actorKey = "actor"

func AuthMiddleware(cfg TokenConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[0]) != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token is empty"})
			return
		}

		claims, err := ValidateToken(tokenString, cfg)
		if err != nil {
			switch {
			case errors.Is(err, ErrTokenExpired):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token expired"})
			default:
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or malformed token"})
			}
			return
		}

		if claims.TokenType != "access" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
			return
		}

		actor, err := claims.Actor()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or malformed token"})
			return
		}

		c.Set(actorKey, actor)
		c.Next()
	}
}

// RequireAction rejects callers whose role does not allow action.
func RequireAction(action Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}
		if !actor.Role.Can(action) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}
		c.Next()
	}
}

func GetActor(c *gin.Context) (Actor, bool) {
	v, exists := c.Get(actorKey)
	if !exists {
		return Actor{}, false
	}
	actor, ok := v.(Actor)
	return actor, ok
}

func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	actor, ok := GetActor(c)
	if !ok {
		return uuid.Nil, false
	}
	return actor.UserID, true
}

// SetActor is used by tests and tooling that bypass token verification.
func SetActor(c *gin.Context, actor Actor) {
	c.Set(actorKey, actor)
}
