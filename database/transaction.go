package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

// TxRunner runs fn as one unit of work against the store.
type TxRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
	// Atomic reports whether a failed fn leaves no writes behind. When false
	// the caller must undo its own partial writes.
	Atomic() bool
}

// MongoTxRunner uses multi-document transactions when enabled. Standalone
// mongod deployments do not support them, so with enabled=false fn runs
// directly on ctx.
type MongoTxRunner struct {
	client  *mongo.Client
	enabled bool
}

func NewMongoTxRunner(client *mongo.Client, enabled bool) *MongoTxRunner {
	return &MongoTxRunner{client: client, enabled: enabled && client != nil}
}

func (r *MongoTxRunner) Atomic() bool {
	return r.enabled
}

func (r *MongoTxRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if !r.enabled {
		return fn(ctx)
	}

	session, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(context.WithoutCancel(ctx))

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
