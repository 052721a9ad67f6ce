package middlewares

import (
	"IPDLedger/apperr"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RespondJSON writes a JSON response to the client.
func RespondJSON(c *gin.Context, data interface{}, status int) {
	c.JSON(status, data)
}

// HttpError logs an error and writes an HTTP error response to the client.
func HttpError(c *gin.Context, message string, status int, err error) {
	event := zerolog.Ctx(c.Request.Context()).Warn()
	if status >= http.StatusInternalServerError {
		event = zerolog.Ctx(c.Request.Context()).Error()
	}
	event.Err(err).Int("status", status).Msg(message)
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// HandleError maps an error kind onto its status code. Details of unexpected
// errors are logged and never sent to the client.
func HandleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		HttpError(c, err.Error(), http.StatusBadRequest, err)
	case errors.Is(err, apperr.ErrNotFound):
		HttpError(c, err.Error(), http.StatusNotFound, err)
	case errors.Is(err, apperr.ErrConflict):
		HttpError(c, err.Error(), http.StatusConflict, err)
	case errors.Is(err, apperr.ErrUnauthorized):
		HttpError(c, "invalid email or password", http.StatusUnauthorized, err)
	default:
		HttpError(c, "internal server error", http.StatusInternalServerError, err)
	}
}
