package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Book struct {
	ID           primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Title        string             `json:"title" bson:"title"`
	Author       string             `json:"author" bson:"author"`
	Category     string             `json:"category" bson:"category"`
	Price        float64            `json:"price" bson:"price"`
	Description  string             `json:"description" bson:"description"`
	Image        string             `json:"image,omitempty" bson:"image,omitempty"`
	SeriesNumber string             `json:"seriesNumber,omitempty" bson:"seriesNumber,omitempty"`
	Stock        int                `json:"stock" bson:"stock"`
}

// CreateBookRequest is the body of POST /books.
type CreateBookRequest struct {
	Title        string   `json:"title" validate:"required"`
	Author       string   `json:"author" validate:"required"`
	Category     string   `json:"category" validate:"required"`
	Price        *float64 `json:"price" validate:"required,gte=0"`
	Description  string   `json:"description" validate:"required"`
	Image        string   `json:"image"`
	SeriesNumber string   `json:"seriesNumber"`
	Stock        *int     `json:"stock" validate:"omitempty,gte=0"`
}

// ToBook converts the request into a new catalog entry.
func (r CreateBookRequest) ToBook() Book {
	b := Book{
		Title:        r.Title,
		Author:       r.Author,
		Category:     r.Category,
		Description:  r.Description,
		Image:        r.Image,
		SeriesNumber: r.SeriesNumber,
	}
	if r.Price != nil {
		b.Price = *r.Price
	}
	if r.Stock != nil {
		b.Stock = *r.Stock
	}
	return b
}

// BookUpdate is a partial update. Nil fields are left untouched; unknown
// fields in the request body are ignored.
type BookUpdate struct {
	Title        *string  `json:"title" bson:"title,omitempty" validate:"omitempty,min=1"`
	Author       *string  `json:"author" bson:"author,omitempty" validate:"omitempty,min=1"`
	Category     *string  `json:"category" bson:"category,omitempty" validate:"omitempty,min=1"`
	Price        *float64 `json:"price" bson:"price,omitempty" validate:"omitempty,gte=0"`
	Description  *string  `json:"description" bson:"description,omitempty" validate:"omitempty,min=1"`
	Image        *string  `json:"image" bson:"image,omitempty"`
	SeriesNumber *string  `json:"seriesNumber" bson:"seriesNumber,omitempty"`
	Stock        *int     `json:"stock" bson:"stock,omitempty" validate:"omitempty,gte=0"`
}

// IsEmpty reports whether the update carries no fields.
func (u BookUpdate) IsEmpty() bool {
	return u.Title == nil && u.Author == nil && u.Category == nil && u.Price == nil &&
		u.Description == nil && u.Image == nil && u.SeriesNumber == nil && u.Stock == nil
}
