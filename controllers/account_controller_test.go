package controllers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vinitha-rv/library-backend/common/auth"
	apperrors "github.com/vinitha-rv/library-backend/common/errors"
	"github.com/vinitha-rv/library-backend/common/middleware"
	"github.com/vinitha-rv/library-backend/models"
)

func newAccountRouter(svc AccountService, tokens *auth.TokenService, authRequired bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	ac := NewAccountController(svc)
	router := gin.New()
	router.POST("/accounts/register", ac.Register)
	router.POST("/accounts/login", ac.Login)
	router.DELETE("/accounts/:id", middleware.RequireAuth(tokens, authRequired), ac.DeleteAccount)
	return router
}

func TestAccountController_Register(t *testing.T) {
	t.Run("Success - 201 Created", func(t *testing.T) {
		mockService := new(MockAccountService)
		req := models.RegisterRequest{Name: "Ann", Username: "ann", Email: "ann@example.com", Password: "pw"}
		mockService.On("Register", mock.Anything, req).Return(nil).Once()

		payload := `{"name":"Ann","username":"ann","email":"ann@example.com","password":"pw"}`
		recorder := doRequest(newAccountRouter(mockService, nil, false), http.MethodPost, "/accounts/register", payload)

		assert.Equal(t, http.StatusCreated, recorder.Code)
		assert.JSONEq(t, `{"message":"Registration successful!"}`, recorder.Body.String())
		mockService.AssertExpectations(t)
	})

	t.Run("Failure - Duplicate - 409 Conflict", func(t *testing.T) {
		mockService := new(MockAccountService)
		mockService.On("Register", mock.Anything, mock.Anything).
			Return(apperrors.Conflict("Username or email already exists.")).Once()

		payload := `{"name":"Ann","username":"ann","email":"ann@example.com","password":"pw"}`
		recorder := doRequest(newAccountRouter(mockService, nil, false), http.MethodPost, "/accounts/register", payload)

		assert.Equal(t, http.StatusConflict, recorder.Code)
		assert.JSONEq(t, `{"error":"Username or email already exists."}`, recorder.Body.String())
	})
}

func TestAccountController_Login(t *testing.T) {
	t.Run("Success - 200 OK", func(t *testing.T) {
		mockService := new(MockAccountService)
		resp := &models.LoginResponse{
			Message: "Login successful",
			Token:   "signed.jwt.token",
			User:    models.UserProfile{ID: "1", Username: "ann", Email: "ann@example.com"},
		}
		mockService.On("Login", mock.Anything, models.LoginRequest{Email: "ann@example.com", Password: "pw"}).Return(resp, nil).Once()

		recorder := doRequest(newAccountRouter(mockService, nil, false), http.MethodPost, "/accounts/login",
			`{"email":"ann@example.com","password":"pw"}`)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "signed.jwt.token")
		assert.NotContains(t, recorder.Body.String(), "password")
	})

	t.Run("Failure - Invalid Credentials - 401 Unauthorized", func(t *testing.T) {
		mockService := new(MockAccountService)
		mockService.On("Login", mock.Anything, mock.Anything).
			Return(nil, apperrors.Unauthorized("Invalid email or password.")).Once()

		recorder := doRequest(newAccountRouter(mockService, nil, false), http.MethodPost, "/accounts/login",
			`{"email":"ann@example.com","password":"wrong"}`)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.JSONEq(t, `{"error":"Invalid email or password."}`, recorder.Body.String())
	})

	t.Run("Failure - Bad Request Body - 400", func(t *testing.T) {
		mockService := new(MockAccountService)

		recorder := doRequest(newAccountRouter(mockService, nil, false), http.MethodPost, "/accounts/login", `not json`)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		mockService.AssertNotCalled(t, "Login")
	})
}

func TestAccountController_DeleteAccount(t *testing.T) {
	tokens, err := auth.NewTokenService("controller-secret", time.Hour)
	require.NoError(t, err)
	self := primitive.NewObjectID().Hex()
	other := primitive.NewObjectID().Hex()
	token, err := tokens.GenerateAccessToken(self, "ann@example.com", "ann")
	require.NoError(t, err)

	t.Run("auth off - any id", func(t *testing.T) {
		mockService := new(MockAccountService)
		mockService.On("DeleteAccount", mock.Anything, other).Return(nil).Once()

		recorder := doRequest(newAccountRouter(mockService, tokens, false), http.MethodDelete, "/accounts/"+other, "")

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.JSONEq(t, `{"message":"User deleted successfully."}`, recorder.Body.String())
	})

	t.Run("auth on - no token - 401", func(t *testing.T) {
		mockService := new(MockAccountService)

		recorder := doRequest(newAccountRouter(mockService, tokens, true), http.MethodDelete, "/accounts/"+self, "")

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		mockService.AssertNotCalled(t, "DeleteAccount")
	})

	t.Run("auth on - other account - 403", func(t *testing.T) {
		mockService := new(MockAccountService)

		recorder := doRequest(newAccountRouter(mockService, tokens, true), http.MethodDelete, "/accounts/"+other, "",
			"Authorization", "Bearer "+token)

		assert.Equal(t, http.StatusForbidden, recorder.Code)
		mockService.AssertNotCalled(t, "DeleteAccount")
	})

	t.Run("auth on - own account - 200", func(t *testing.T) {
		mockService := new(MockAccountService)
		mockService.On("DeleteAccount", mock.Anything, self).Return(nil).Once()

		recorder := doRequest(newAccountRouter(mockService, tokens, true), http.MethodDelete, "/accounts/"+self, "",
			"Authorization", "Bearer "+token)

		assert.Equal(t, http.StatusOK, recorder.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("absent account - 404", func(t *testing.T) {
		mockService := new(MockAccountService)
		mockService.On("DeleteAccount", mock.Anything, other).Return(apperrors.NotFound("User not found.")).Once()

		recorder := doRequest(newAccountRouter(mockService, tokens, false), http.MethodDelete, "/accounts/"+other, "")

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}
