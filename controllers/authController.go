package controllers

import (
	"IPDLedger/handlers"
	"IPDLedger/middlewares"
	"IPDLedger/models"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	Handler *handlers.AuthHandler
	auth    gin.HandlerFunc
}

// NewAuthController creates a new AuthController. auth authenticates protected routes.
func NewAuthController(authHandler *handlers.AuthHandler, auth gin.HandlerFunc) *AuthController {
	return &AuthController{
		Handler: authHandler,
		auth:    auth,
	}
}

// RegisterRoutes initializes all authentication routes directly on the router
func (ac *AuthController) RegisterRoutes(router *gin.Engine) {
	// Public routes: No authentication required
	router.POST("/auth/login", ac.Handler.Login)

	// Protected routes: Requires a valid token
	authGroup := router.Group("/auth").Use(ac.auth)
	{
		authGroup.GET("/me", ac.Handler.Me)
	}

	// Admin routes: Requires a valid token and the ADMIN role
	adminGroup := router.Group("/auth").Use(
		ac.auth,
		middlewares.RequireRoles(models.RoleAdmin),
	)
	{
		adminGroup.POST("/users", ac.Handler.Register)
	}
}
