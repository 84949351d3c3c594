package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/vinitha-rv/library-backend/common/errors"
	"github.com/vinitha-rv/library-backend/models"
)

type PaymentController struct {
	payments PaymentService
}

func NewPaymentController(svc PaymentService) *PaymentController {
	return &PaymentController{payments: svc}
}

// RecordPayment handles POST /payments
func (pc *PaymentController) RecordPayment(c *gin.Context) {
	var req models.PaymentRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := pc.payments.RecordPayment(c.Request.Context(), req)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GetPayment handles GET /payments/:id
func (pc *PaymentController) GetPayment(c *gin.Context) {
	payment, err := pc.payments.GetPayment(c.Request.Context(), c.Param("id"))
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}
