package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vinitha-rv/library-backend/cache"
	apperrors "github.com/vinitha-rv/library-backend/common/errors"
	"github.com/vinitha-rv/library-backend/common/logger"
	"github.com/vinitha-rv/library-backend/models"
	"github.com/vinitha-rv/library-backend/repository"
	"go.uber.org/zap"
)

// CatalogService owns the book catalog: CRUD, search and category lookups
// with a read-through cache in front of the store.
type CatalogService struct {
	repo  repository.BookRepo
	cache cache.CatalogCache
}

func NewCatalogService(repo repository.BookRepo, c cache.CatalogCache) *CatalogService {
	if c == nil {
		c = cache.NoopCatalogCache{}
	}
	return &CatalogService{repo: repo, cache: c}
}

func (s *CatalogService) ListBooks(ctx context.Context) ([]models.Book, error) {
	version := s.cache.Version(ctx)
	if books, ok := s.cache.GetBookList(ctx, version); ok {
		logger.Debug(ctx, "Catalog cache hit", zap.Int64("version", version), zap.Int("count", len(books)))
		return books, nil
	}

	books, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch books", err)
	}
	s.cache.SetBookListAsync(version, books)
	return books, nil
}

func (s *CatalogService) GetBook(ctx context.Context, id string) (*models.Book, error) {
	oid, ok := parseObjectID(id)
	if !ok {
		return nil, apperrors.BadRequest("Invalid book ID.")
	}

	version := s.cache.Version(ctx)
	if book, ok := s.cache.GetBook(ctx, version, oid.Hex()); ok {
		logger.Debug(ctx, "Book cache hit", zap.Int64("version", version), zap.String("book_id", oid.Hex()))
		return book, nil
	}

	book, err := s.repo.FindByID(ctx, oid)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("Book not found.")
	}
	if err != nil {
		return nil, apperrors.Internal("Error fetching book", err)
	}
	s.cache.SetBookAsync(version, book)
	return book, nil
}

func (s *CatalogService) CreateBook(ctx context.Context, req models.CreateBookRequest) (*models.Book, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Author = strings.TrimSpace(req.Author)
	req.Category = strings.TrimSpace(req.Category)
	req.Description = strings.TrimSpace(req.Description)
	if err := validate.Struct(req); err != nil {
		return nil, apperrors.BadRequest(validationMessage(err))
	}

	book := req.ToBook()
	if err := s.repo.Create(ctx, &book); err != nil {
		return nil, apperrors.Internal("Failed to add book", err)
	}
	s.cache.Invalidate(ctx)
	return &book, nil
}

func (s *CatalogService) UpdateBook(ctx context.Context, id string, update models.BookUpdate) (*models.Book, error) {
	oid, ok := parseObjectID(id)
	if !ok {
		return nil, apperrors.BadRequest("Invalid book ID.")
	}
	if err := validate.Struct(update); err != nil {
		return nil, apperrors.BadRequest(validationMessage(err))
	}

	book, err := s.repo.Update(ctx, oid, update)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("Book not found.")
	}
	if err != nil {
		return nil, apperrors.Internal("Failed to update book", err)
	}
	if !update.IsEmpty() {
		s.cache.Invalidate(ctx)
	}
	return book, nil
}

func (s *CatalogService) DeleteBook(ctx context.Context, id string) error {
	oid, ok := parseObjectID(id)
	if !ok {
		return apperrors.BadRequest("Invalid book ID.")
	}
	err := s.repo.Delete(ctx, oid)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("Book not found.")
	}
	if err != nil {
		return apperrors.Internal("Error deleting book", err)
	}
	s.cache.Invalidate(ctx)
	return nil
}

// SearchBooks matches query literally against title or author, ignoring case.
func (s *CatalogService) SearchBooks(ctx context.Context, query string) ([]models.Book, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.BadRequest("Search query required.")
	}
	books, err := s.repo.Search(ctx, query)
	if err != nil {
		return nil, apperrors.Internal("Search failed", err)
	}
	if len(books) == 0 {
		return nil, apperrors.NotFound("No books found.")
	}
	return books, nil
}

func (s *CatalogService) BooksByCategory(ctx context.Context, category string) ([]models.Book, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, apperrors.BadRequest("Category name required.")
	}
	books, err := s.repo.FindByCategory(ctx, category)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch category", err)
	}
	if len(books) == 0 {
		return nil, apperrors.NotFound(fmt.Sprintf("No books in category: %s", category))
	}
	return books, nil
}
