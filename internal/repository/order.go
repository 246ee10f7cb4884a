package repository

import (
	"context"
	"encoding/json"

	"storefront-service/internal/entity"
	"storefront-service/internal/store"
)

type OrderRepository struct {
	kv store.KeyValue
}

func NewOrderRepository(kv store.KeyValue) *OrderRepository {
	return &OrderRepository{kv}
}

func (r *OrderRepository) GetOrders(ctx context.Context) ([]*entity.Order, error) {
	records, err := r.kv.ReadAll(ctx, store.CollectionOrders)
	if err != nil {
		return nil, err
	}

	var orders []*entity.Order
	for _, rec := range records {
		var order entity.Order
		if err := json.Unmarshal(rec.Data, &order); err != nil {
			return nil, err
		}
		orders = append(orders, &order)
	}

	return orders, nil
}

func (r *OrderRepository) GetOrderByID(ctx context.Context, id string) (*entity.Order, error) {
	rec, err := r.kv.ReadByID(ctx, store.CollectionOrders, id)
	if err != nil {
		return nil, err
	}

	var order entity.Order
	if err := json.Unmarshal(rec.Data, &order); err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *OrderRepository) CreateOrder(ctx context.Context, order *entity.Order) (*entity.Order, error) {
	data, err := json.Marshal(order)
	if err != nil {
		return nil, err
	}

	if err := r.kv.Append(ctx, store.CollectionOrders, store.Record{ID: order.ID, Data: data}); err != nil {
		return nil, err
	}

	return order, nil
}

func (r *OrderRepository) UpdateOrder(ctx context.Context, order *entity.Order) (*entity.Order, error) {
	data, err := json.Marshal(order)
	if err != nil {
		return nil, err
	}

	if err := r.kv.Replace(ctx, store.CollectionOrders, order.ID, store.Record{ID: order.ID, Data: data}); err != nil {
		return nil, err
	}

	return order, nil
}
