package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/vinitha-rv/library-backend/controllers"
)

// Controllers bundles every HTTP handler the router exposes.
type Controllers struct {
	Books    *controllers.BookController
	Accounts *controllers.AccountController
	Checkout *controllers.CheckoutController
	Payments *controllers.PaymentController
	Contact  *controllers.ContactController
	Health   *controllers.HealthController
}

// RegisterRoutes mounts every route. requireAuth guards account deletion and
// checkout; idempotent wraps the payment-creating routes.
func RegisterRoutes(r *gin.Engine, c Controllers, requireAuth, idempotent gin.HandlerFunc) {
	r.GET("/health", c.Health.Health)

	accountRoutes := r.Group("/accounts")
	{
		accountRoutes.POST("/register", c.Accounts.Register)
		accountRoutes.POST("/login", c.Accounts.Login)
		accountRoutes.DELETE("/:id", requireAuth, c.Accounts.DeleteAccount)
	}

	bookRoutes := r.Group("/books")
	{
		bookRoutes.GET("", c.Books.ListBooks)
		bookRoutes.POST("", c.Books.CreateBook)
		bookRoutes.GET("/search", c.Books.SearchBooks)
		bookRoutes.GET("/category/:name", c.Books.BooksByCategory)
		bookRoutes.GET("/:id", c.Books.GetBook)
		bookRoutes.PUT("/:id", c.Books.UpdateBook)
		bookRoutes.DELETE("/:id", c.Books.DeleteBook)
	}

	r.POST("/contact", c.Contact.Submit)

	paymentRoutes := r.Group("/payments")
	{
		paymentRoutes.POST("", idempotent, c.Payments.RecordPayment)
		paymentRoutes.GET("/:id", c.Payments.GetPayment)
	}

	r.POST("/checkout", requireAuth, idempotent, c.Checkout.Checkout)
}
