package store

import (
	"context"
	"encoding/json"
	"errors"
)

// Collection names used by the storefront.
const (
	CollectionProducts = "products"
	CollectionOrders   = "orders"
	CollectionUsers    = "users"
	CollectionCart     = "cart"
	CollectionSettings = "efiBankSettings"
)

var Collections = []string{
	CollectionProducts,
	CollectionOrders,
	CollectionUsers,
	CollectionCart,
	CollectionSettings,
}

var ErrNotFound = errors.New("record not found")

// Record is one JSON document inside a collection.
type Record struct {
	ID   string
	Data json.RawMessage
}

// KeyValue is a durable mapping from collection name to an ordered sequence
// of JSON records. ReadAll returns records in insertion order. There are no
// transactions and no concurrent-writer isolation; the storefront assumes a
// single writer per session.
type KeyValue interface {
	ReadAll(ctx context.Context, collection string) ([]Record, error)
	ReadByID(ctx context.Context, collection, id string) (Record, error)
	Append(ctx context.Context, collection string, rec Record) error
	Replace(ctx context.Context, collection, id string, rec Record) error
	Delete(ctx context.Context, collection, id string) error
}
