package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/vinitha-rv/library-backend/controllers"
)

func newTestEngine(requireAuth, idempotent gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, Controllers{
		Books:    controllers.NewBookController(nil),
		Accounts: controllers.NewAccountController(nil),
		Checkout: controllers.NewCheckoutController(nil),
		Payments: controllers.NewPaymentController(nil),
		Contact:  controllers.NewContactController(nil),
		Health:   controllers.NewHealthController(nil, "bookstore"),
	}, requireAuth, idempotent)
	return r
}

func pass(c *gin.Context) { c.Next() }

func TestRegisterRoutes(t *testing.T) {
	r := newTestEngine(pass, pass)

	registered := map[string]bool{}
	for _, route := range r.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	for _, want := range []string{
		"GET /health",
		"POST /accounts/register",
		"POST /accounts/login",
		"DELETE /accounts/:id",
		"GET /books",
		"POST /books",
		"GET /books/search",
		"GET /books/category/:name",
		"GET /books/:id",
		"PUT /books/:id",
		"DELETE /books/:id",
		"POST /contact",
		"POST /payments",
		"GET /payments/:id",
		"POST /checkout",
	} {
		assert.True(t, registered[want], "missing route %s", want)
	}
}

func TestGuardsWrapOnlyProtectedRoutes(t *testing.T) {
	var guarded, replayed []string
	requireAuth := func(c *gin.Context) {
		guarded = append(guarded, c.Request.Method+" "+c.FullPath())
		c.AbortWithStatus(http.StatusUnauthorized)
	}
	idempotent := func(c *gin.Context) {
		replayed = append(replayed, c.Request.Method+" "+c.FullPath())
		c.AbortWithStatus(http.StatusOK)
	}
	r := newTestEngine(requireAuth, idempotent)

	for _, req := range []struct{ method, path string }{
		{http.MethodDelete, "/accounts/abc"},
		{http.MethodPost, "/checkout"},
		{http.MethodPost, "/payments"},
	} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(req.method, req.path, nil))
	}

	assert.Equal(t, []string{"DELETE /accounts/:id", "POST /checkout"}, guarded)
	assert.Equal(t, []string{"POST /payments"}, replayed)
}
