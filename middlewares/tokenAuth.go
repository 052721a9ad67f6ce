package middlewares

import (
	"IPDLedger/models"
	"IPDLedger/utils"
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type contextKey string

const actorKey contextKey = "actor"

// TokenValidator checks access tokens.
type TokenValidator interface {
	ValidateToken(token string, requiredRoles ...string) (*utils.TokenClaims, error)
}

// TokenAuthMiddleware validates the bearer token and stores the acting user in the request context.
func TokenAuthMiddleware(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims, err := tokens.ValidateToken(token)
		if err != nil {
			message := "invalid token"
			if errors.Is(err, utils.ErrTokenExpired) {
				message = "token expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": message})
			return
		}

		actor := models.Actor{ID: claims.UserID, Role: claims.Role}
		c.Request = c.Request.WithContext(ContextWithActor(c.Request.Context(), actor))
		c.Next()
	}
}

// RequireRoles restricts access to users holding one of roles.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFromContext(c.Request.Context())
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}
		for _, role := range roles {
			if actor.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden: insufficient privileges"})
	}
}

func ContextWithActor(ctx context.Context, actor models.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromContext returns the authenticated user stored by TokenAuthMiddleware.
func ActorFromContext(ctx context.Context) (models.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(models.Actor)
	return actor, ok && actor.ID != ""
}
