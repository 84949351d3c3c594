package repository

import (
	"context"
	"errors"

	"github.com/vinitha-rv/library-backend/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound          = errors.New("document not found")
	ErrDuplicate         = errors.New("duplicate key")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// BookRepo is the catalog store.
type BookRepo interface {
	FindAll(ctx context.Context) ([]models.Book, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Book, error)
	Create(ctx context.Context, book *models.Book) error
	Update(ctx context.Context, id primitive.ObjectID, update models.BookUpdate) (*models.Book, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	Search(ctx context.Context, query string) ([]models.Book, error)
	FindByCategory(ctx context.Context, category string) ([]models.Book, error)
	// DecrementStock removes qty units only if at least qty are available,
	// returning ErrInsufficientStock otherwise.
	DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) error
	IncrementStock(ctx context.Context, id primitive.ObjectID, qty int) error
}

// UserRepo is the account store.
type UserRepo interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// PaymentRepo is the payment record store. Records are insert-only.
type PaymentRepo interface {
	Create(ctx context.Context, payment *models.Payment) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Payment, error)
}

type ContactRepo interface {
	Create(ctx context.Context, msg *models.ContactMessage) error
}
