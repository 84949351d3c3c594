package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/vinitha-rv/library-backend/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const ContactCollection = "contact_messages"

type ContactRepository struct {
	collection *mongo.Collection
}

func NewContactRepository(db *mongo.Database) *ContactRepository {
	return &ContactRepository{collection: db.Collection(ContactCollection)}
}

func (r *ContactRepository) Create(ctx context.Context, msg *models.ContactMessage) error {
	if msg.ID.IsZero() {
		msg.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = now
	}
	msg.UpdatedAt = now
	if _, err := r.collection.InsertOne(ctx, msg); err != nil {
		return fmt.Errorf("insert contact message: %w", err)
	}
	return nil
}
