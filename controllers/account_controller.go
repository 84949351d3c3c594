package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/vinitha-rv/library-backend/common/errors"
	"github.com/vinitha-rv/library-backend/models"
)

type AccountController struct {
	accounts AccountService
}

func NewAccountController(svc AccountService) *AccountController {
	return &AccountController{accounts: svc}
}

// Register handles POST /accounts/register
func (ac *AccountController) Register(c *gin.Context) {
	var req models.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := ac.accounts.Register(c.Request.Context(), req); err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Registration successful!"})
}

// Login handles POST /accounts/login
func (ac *AccountController) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := ac.accounts.Login(c.Request.Context(), req)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteAccount handles DELETE /accounts/:id. With auth enabled an account
// may only delete itself.
func (ac *AccountController) DeleteAccount(c *gin.Context) {
	id := c.Param("id")
	if !sameSubject(c, id) {
		apperrors.Respond(c, apperrors.Forbidden("You can only delete your own account."))
		return
	}
	if err := ac.accounts.DeleteAccount(c.Request.Context(), id); err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully."})
}
