package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/vinitha-rv/library-backend/common/errors"
	"github.com/vinitha-rv/library-backend/models"
)

type CheckoutController struct {
	checkout CheckoutService
}

func NewCheckoutController(svc CheckoutService) *CheckoutController {
	return &CheckoutController{checkout: svc}
}

// Checkout handles POST /checkout
func (cc *CheckoutController) Checkout(c *gin.Context) {
	var req models.CheckoutRequest
	if !bindJSONFields(c, &req) {
		return
	}
	if !sameSubject(c, req.UserID) {
		apperrors.Respond(c, apperrors.Forbidden("User ID does not match the authenticated user."))
		return
	}
	resp, err := cc.checkout.Checkout(c.Request.Context(), req)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
