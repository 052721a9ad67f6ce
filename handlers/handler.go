package handlers

import (
	"IPDLedger/middlewares"
	"IPDLedger/models"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// actor returns the authenticated user or writes 401.
func actor(c *gin.Context) (models.Actor, bool) {
	a, ok := middlewares.ActorFromContext(c.Request.Context())
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
	}
	return a, ok
}

// bindJSON decodes the body into dst and writes 400 on malformed input.
// An empty body is accepted when optional is set.
func bindJSON(c *gin.Context, dst interface{}, optional bool) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil || (optional && errors.Is(err, io.EOF)) {
		return true
	}
	middlewares.HttpError(c, "invalid request body: "+err.Error(), http.StatusBadRequest, err)
	return false
}
