package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vinitha-rv/library-backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const PaymentsCollection = "payments"

type PaymentRepository struct {
	collection *mongo.Collection
}

func NewPaymentRepository(db *mongo.Database) *PaymentRepository {
	return &PaymentRepository{collection: db.Collection(PaymentsCollection)}
}

func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	if payment.ID.IsZero() {
		payment.ID = primitive.NewObjectID()
	}
	if payment.PaymentDate.IsZero() {
		payment.PaymentDate = time.Now().UTC()
	}
	if _, err := r.collection.InsertOne(ctx, payment); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

func (r *PaymentRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Payment, error) {
	var p models.Payment
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find payment %s: %w", id.Hex(), err)
	}
	return &p, nil
}

func (r *PaymentRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "transactionId", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "paymentDate", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("ensure payment indexes: %w", err)
	}
	return nil
}
