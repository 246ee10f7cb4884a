package repository

import (
	"context"
	"encoding/json"
	"errors"

	"storefront-service/internal/entity"
	"storefront-service/internal/store"
)

// CartRepository stores one record per session under the cart collection; the
// record payload is the full item list, mirroring how the browser kept the
// cart as a single serialized value.
type CartRepository struct {
	kv store.KeyValue
}

func NewCartRepository(kv store.KeyValue) *CartRepository {
	return &CartRepository{kv}
}

func (r *CartRepository) GetCart(ctx context.Context, sessionID string) ([]entity.CartItem, error) {
	rec, err := r.kv.ReadByID(ctx, store.CollectionCart, sessionID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var items []entity.CartItem
	if err := json.Unmarshal(rec.Data, &items); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *CartRepository) SaveCart(ctx context.Context, sessionID string, items []entity.CartItem) error {
	if items == nil {
		items = []entity.CartItem{}
	}

	data, err := json.Marshal(items)
	if err != nil {
		return err
	}

	rec := store.Record{ID: sessionID, Data: data}
	err = r.kv.Replace(ctx, store.CollectionCart, sessionID, rec)
	if errors.Is(err, store.ErrNotFound) {
		err = r.kv.Append(ctx, store.CollectionCart, rec)
	}
	return err
}

func (r *CartRepository) ClearCart(ctx context.Context, sessionID string) error {
	return r.kv.Delete(ctx, store.CollectionCart, sessionID)
}
