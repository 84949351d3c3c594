package controllers

import (
	"context"

	"github.com/vinitha-rv/library-backend/models"
)

type BookService interface {
	ListBooks(ctx context.Context) ([]models.Book, error)
	GetBook(ctx context.Context, id string) (*models.Book, error)
	CreateBook(ctx context.Context, req models.CreateBookRequest) (*models.Book, error)
	UpdateBook(ctx context.Context, id string, update models.BookUpdate) (*models.Book, error)
	DeleteBook(ctx context.Context, id string) error
	SearchBooks(ctx context.Context, query string) ([]models.Book, error)
	BooksByCategory(ctx context.Context, category string) ([]models.Book, error)
}

type AccountService interface {
	Register(ctx context.Context, req models.RegisterRequest) error
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	DeleteAccount(ctx context.Context, id string) error
}

type CheckoutService interface {
	Checkout(ctx context.Context, req models.CheckoutRequest) (*models.CheckoutResponse, error)
}

type PaymentService interface {
	RecordPayment(ctx context.Context, req models.PaymentRequest) (*models.PaymentResponse, error)
	GetPayment(ctx context.Context, id string) (*models.Payment, error)
}

type ContactService interface {
	Submit(ctx context.Context, req models.ContactRequest) (*models.ContactMessage, error)
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}
