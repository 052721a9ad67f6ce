package handlers

import (
	"IPDLedger/middlewares"
	"IPDLedger/models"
	"IPDLedger/services"
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type UserService interface {
	Login(ctx context.Context, in services.LoginInput) (*services.Session, error)
	CreateUser(ctx context.Context, in services.CreateUserInput) (*models.User, error)
	Me(ctx context.Context, actor models.Actor) (*services.Profile, error)
}

type AuthHandler struct {
	UserService UserService
}

func NewAuthHandler(userService UserService) *AuthHandler {
	return &AuthHandler{
		UserService: userService,
	}
}

// Login authenticates the user and returns an access token along with user info
func (h *AuthHandler) Login(c *gin.Context) {
	var credentials services.LoginInput
	if !bindJSON(c, &credentials, false) {
		return
	}

	session, err := h.UserService.Login(c.Request.Context(), credentials)
	if err != nil {
		middlewares.HandleError(c, err)
		return
	}
	middlewares.RespondJSON(c, session, http.StatusOK)
}

// Register creates a staff account. Admin only.
func (h *AuthHandler) Register(c *gin.Context) {
	var in services.CreateUserInput
	if !bindJSON(c, &in, false) {
		return
	}

	user, err := h.UserService.CreateUser(c.Request.Context(), in)
	if err != nil {
		middlewares.HandleError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"user": user}, http.StatusCreated)
}

// Me returns the authenticated user's profile and permissions.
func (h *AuthHandler) Me(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	profile, err := h.UserService.Me(c.Request.Context(), a)
	if err != nil {
		middlewares.HandleError(c, err)
		return
	}
	middlewares.RespondJSON(c, profile, http.StatusOK)
}
