package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/vinitha-rv/library-backend/common/errors"
	"github.com/vinitha-rv/library-backend/models"
)

// BookController handles the /books routes.
type BookController struct {
	books BookService
}

func NewBookController(svc BookService) *BookController {
	return &BookController{books: svc}
}

// ListBooks handles GET /books
func (bc *BookController) ListBooks(c *gin.Context) {
	books, err := bc.books.ListBooks(c.Request.Context())
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, books)
}

// GetBook handles GET /books/:id
func (bc *BookController) GetBook(c *gin.Context) {
	book, err := bc.books.GetBook(c.Request.Context(), c.Param("id"))
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, book)
}

// CreateBook handles POST /books
func (bc *BookController) CreateBook(c *gin.Context) {
	var req models.CreateBookRequest
	if !bindJSON(c, &req) {
		return
	}
	book, err := bc.books.CreateBook(c.Request.Context(), req)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Book added", "book": book})
}

// UpdateBook handles PUT /books/:id
func (bc *BookController) UpdateBook(c *gin.Context) {
	var update models.BookUpdate
	if !bindJSON(c, &update) {
		return
	}
	book, err := bc.books.UpdateBook(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Book updated", "book": book})
}

// DeleteBook handles DELETE /books/:id
func (bc *BookController) DeleteBook(c *gin.Context) {
	if err := bc.books.DeleteBook(c.Request.Context(), c.Param("id")); err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Book deleted"})
}

// SearchBooks handles GET /books/search?query=
func (bc *BookController) SearchBooks(c *gin.Context) {
	books, err := bc.books.SearchBooks(c.Request.Context(), c.Query("query"))
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, books)
}

// BooksByCategory handles GET /books/category/:name
func (bc *BookController) BooksByCategory(c *gin.Context) {
	books, err := bc.books.BooksByCategory(c.Request.Context(), c.Param("name"))
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, books)
}
