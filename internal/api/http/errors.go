package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/AgentOS/client/internal/domain/navigation"
	"github.com/GriffinCanCode/AgentOS/client/internal/domain/session"
)

// ErrContainerNotFound reports a container the presenter has not declared
var ErrContainerNotFound = errors.New("container not found")

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, navigation.ErrViewNotFound), errors.Is(err, ErrContainerNotFound):
		return http.StatusNotFound
	case errors.Is(err, navigation.ErrNotASubview), errors.Is(err, navigation.ErrUnsupportedContainer):
		return http.StatusUnprocessableEntity
	case errors.Is(err, navigation.ErrRenderFailure):
		return http.StatusBadGateway
	case errors.Is(err, session.ErrSessionTerminated):
		return http.StatusGone
	case errors.Is(err, session.ErrInvalidUser):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrAlreadyAuthenticated):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func abort(c *gin.Context, err error) {
	c.AbortWithStatusJSON(statusFor(err), gin.H{"error": err.Error()})
}
