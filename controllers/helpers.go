package controllers

import (
	"encoding/json"
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "github.com/vinitha-rv/library-backend/common/errors"
	"github.com/vinitha-rv/library-backend/common/middleware"
)

const invalidBodyMessage = "Invalid request body."

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		apperrors.Respond(c, apperrors.BadRequest(invalidBodyMessage))
		return false
	}
	return true
}

// bindJSONFields only rejects bodies that are not JSON at all. A field of the
// wrong JSON type is left at its zero value, which the service then reports
// with its own field message in its own validation order. dst must not hold
// pointer fields: the decoder allocates them before reporting the type error.
func bindJSONFields(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	var typeErr *json.UnmarshalTypeError
	if err == nil || errors.As(err, &typeErr) {
		return true
	}
	apperrors.Respond(c, apperrors.BadRequest(invalidBodyMessage))
	return false
}

// sameSubject is true when auth is off or the caller's token names subject.
func sameSubject(c *gin.Context, subject string) bool {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return true
	}
	return claims.Subject == subject
}
