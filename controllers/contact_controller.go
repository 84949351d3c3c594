package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/vinitha-rv/library-backend/common/errors"
	"github.com/vinitha-rv/library-backend/models"
)

type ContactController struct {
	contact ContactService
}

func NewContactController(svc ContactService) *ContactController {
	return &ContactController{contact: svc}
}

// Submit handles POST /contact
func (cc *ContactController) Submit(c *gin.Context) {
	var req models.ContactRequest
	if !bindJSON(c, &req) {
		return
	}
	if _, err := cc.contact.Submit(c.Request.Context(), req); err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Message sent successfully."})
}
