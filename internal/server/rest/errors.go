package rest

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/baibai/internal/common"
	"github.com/dmitrijs2005/baibai/internal/server/services"
	"github.com/gin-gonic/gin"
)

// errorBody is the JSON shape of every error response. Error repeats the
// status text and is only set when Message differs from it.
type errorBody struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Error      string `json:"error,omitempty"`
}

// statusFor maps a service error to the HTTP status and client message.
// Anything unrecognised is a 500 whose details stay in the log.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrWrongCredentials):
		return http.StatusUnauthorized, common.ErrWrongCredentials.Error()
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrInvalidToken):
		return http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized)
	case errors.Is(err, common.ErrorForbidden):
		return http.StatusForbidden, http.StatusText(http.StatusForbidden)
	case errors.Is(err, services.ErrProductNotFound):
		return http.StatusNotFound, "Product not found"
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, http.StatusText(http.StatusNotFound)
	case errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusConflict, http.StatusText(http.StatusConflict)
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest, strings.TrimPrefix(err.Error(), common.ErrorValidation.Error()+": ")
	default:
		return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
	}
}

func abortWithStatus(c *gin.Context, status int, message string) {
	body := errorBody{StatusCode: status, Message: message}
	if text := http.StatusText(status); text != message {
		body.Error = text
	}
	c.AbortWithStatusJSON(status, body)
}

func (s *Server) abortWithError(c *gin.Context, err error) {
	status, message := statusFor(err)
	if status == http.StatusInternalServerError {
		s.log.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
	}
	abortWithStatus(c, status, message)
}
