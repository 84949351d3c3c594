package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vinitha-rv/library-backend/common/logger"
)

// Error represents an application error
type Error struct {
	Code    int    `json:"-"`
	Message string `json:"error"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error
func New(code int, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func BadRequest(message string) *Error {
	return New(http.StatusBadRequest, message, nil)
}

func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, message, nil)
}

func Forbidden(message string) *Error {
	return New(http.StatusForbidden, message, nil)
}

func NotFound(message string) *Error {
	return New(http.StatusNotFound, message, nil)
}

func Conflict(message string) *Error {
	return New(http.StatusConflict, message, nil)
}

// Internal wraps an unexpected failure. The message is shown to the client,
// the wrapped error is only logged.
func Internal(message string, err error) *Error {
	return New(http.StatusInternalServerError, message, err)
}

func Unavailable(message string, err error) *Error {
	return New(http.StatusServiceUnavailable, message, err)
}

// From converts any error into an *Error. Unknown errors become a generic 500.
func From(err error) *Error {
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return Internal("Internal server error", err)
}

// StatusOf returns the HTTP status carried by err, or 500.
func StatusOf(err error) int {
	return From(err).Code
}

// Respond writes err as {"error": message} and aborts the chain. Server-side
// failures are logged with the wrapped cause; the cause never reaches the client.
func Respond(c *gin.Context, err error) {
	appErr := From(err)
	if appErr.Code >= http.StatusInternalServerError {
		logger.Error(c, appErr.Message, appErr.Err,
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method))
	}
	c.AbortWithStatusJSON(appErr.Code, appErr)
}
