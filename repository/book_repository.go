package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/vinitha-rv/library-backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const BooksCollection = "books"

type BookRepository struct {
	collection *mongo.Collection
}

func NewBookRepository(db *mongo.Database) *BookRepository {
	return &BookRepository{
		collection: db.Collection(BooksCollection),
	}
}

func (r *BookRepository) FindAll(ctx context.Context) ([]models.Book, error) {
	return r.find(ctx, bson.M{})
}

func (r *BookRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Book, error) {
	var book models.Book
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&book)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find book %s: %w", id.Hex(), err)
	}
	return &book, nil
}

func (r *BookRepository) Create(ctx context.Context, book *models.Book) error {
	if book.ID.IsZero() {
		book.ID = primitive.NewObjectID()
	}
	if _, err := r.collection.InsertOne(ctx, book); err != nil {
		return fmt.Errorf("insert book: %w", err)
	}
	return nil
}

// Update applies the non-nil fields of update and returns the stored record.
func (r *BookRepository) Update(ctx context.Context, id primitive.ObjectID, update models.BookUpdate) (*models.Book, error) {
	set := bookSetDocument(update)
	if len(set) == 0 {
		return r.FindByID(ctx, id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var book models.Book
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&book)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update book %s: %w", id.Hex(), err)
	}
	return &book, nil
}

func (r *BookRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete book %s: %w", id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Search matches query as a literal, case-insensitive substring of title or author.
func (r *BookRepository) Search(ctx context.Context, query string) ([]models.Book, error) {
	re := literalPattern(query)
	return r.find(ctx, bson.M{"$or": bson.A{
		bson.M{"title": re},
		bson.M{"author": re},
	}})
}

func (r *BookRepository) FindByCategory(ctx context.Context, category string) ([]models.Book, error) {
	return r.find(ctx, bson.M{"category": literalPattern(category)})
}

func (r *BookRepository) DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("decrement stock: quantity must be positive, got %d", qty)
	}
	filter := bson.M{"_id": id, "stock": bson.M{"$gte": qty}}
	res, err := r.collection.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"stock": -qty}})
	if err != nil {
		return fmt.Errorf("decrement stock for %s: %w", id.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return ErrInsufficientStock
	}
	return nil
}

func (r *BookRepository) IncrementStock(ctx context.Context, id primitive.ObjectID, qty int) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"stock": qty}})
	if err != nil {
		return fmt.Errorf("increment stock for %s: %w", id.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *BookRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "title", Value: 1}}},
		{Keys: bson.D{{Key: "author", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("ensure book indexes: %w", err)
	}
	return nil
}

func (r *BookRepository) find(ctx context.Context, filter bson.M) ([]models.Book, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find books: %w", err)
	}
	defer cursor.Close(ctx)

	books := []models.Book{}
	if err := cursor.All(ctx, &books); err != nil {
		return nil, fmt.Errorf("decode books: %w", err)
	}
	return books, nil
}

func literalPattern(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

func bookSetDocument(u models.BookUpdate) bson.M {
	set := bson.M{}
	if u.Title != nil {
		set["title"] = *u.Title
	}
	if u.Author != nil {
		set["author"] = *u.Author
	}
	if u.Category != nil {
		set["category"] = *u.Category
	}
	if u.Price != nil {
		set["price"] = *u.Price
	}
	if u.Description != nil {
		set["description"] = *u.Description
	}
	if u.Image != nil {
		set["image"] = *u.Image
	}
	if u.SeriesNumber != nil {
		set["seriesNumber"] = *u.SeriesNumber
	}
	if u.Stock != nil {
		set["stock"] = *u.Stock
	}
	return set
}
