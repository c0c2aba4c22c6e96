package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"user-api/internal/dto"
	"user-api/internal/service"
)

const internalErrorMessage = "internal server error, please try again later"

// statusError is a failure raised by the HTTP layer itself with a status of its own choosing.
type statusError struct {
	status  int
	message string
	cause   error
}

func (e *statusError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *statusError) Unwrap() error { return e.cause }

// classify maps a failure to the status code and the message safe to show the client.
func classify(err error) (int, string) {
	var (
		verrs     validator.ValidationErrors
		statusErr *statusError
	)
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound, service.ErrUserNotFound.Error()
	case errors.Is(err, service.ErrDuplicateEmail):
		return http.StatusConflict, service.ErrDuplicateEmail.Error()
	case errors.As(err, &verrs):
		return http.StatusBadRequest, validationMessage(verrs)
	case errors.As(err, &statusErr):
		return statusErr.status, statusErr.message
	default:
		return http.StatusInternalServerError, internalErrorMessage
	}
}

// translateErrors renders the last error recorded on the context as an ErrorResponse.
func (h *Handler) translateErrors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err
		status, message := classify(err)
		h.logFailure(c, status, err)

		if c.Writer.Written() {
			return
		}
		c.JSON(status, dto.NewErrorResponse(status, message, c.Request.URL.Path))
	}
}

func (h *Handler) recoverPanic(c *gin.Context, recovered any) {
	err := fmt.Errorf("panic: %v", recovered)
	h.logFailure(c, http.StatusInternalServerError, err)
	c.AbortWithStatusJSON(http.StatusInternalServerError,
		dto.NewErrorResponse(http.StatusInternalServerError, internalErrorMessage, c.Request.URL.Path))
}

func (h *Handler) logFailure(c *gin.Context, status int, err error) {
	entry := h.requestLogger(c).WithFields(logrus.Fields{
		"method": c.Request.Method,
		"path":   c.Request.URL.Path,
		"status": status,
	}).WithError(err)

	if status >= http.StatusInternalServerError {
		entry.Error("request failed")
		return
	}
	entry.Warn("request rejected")
}

func validationMessage(verrs validator.ValidationErrors) string {
	parts := make([]string, len(verrs))
	for i, fe := range verrs {
		parts[i] = fmt.Sprintf("%s: %s", fe.Field(), fieldMessage(fe))
	}
	return strings.Join(parts, ", ")
}

func isValidationError(err error) bool {
	var verrs validator.ValidationErrors
	return errors.As(err, &verrs)
}
