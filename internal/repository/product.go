package repository

import (
	"context"
	"encoding/json"

	"storefront-service/internal/entity"
	"storefront-service/internal/store"
)

type ProductRepository struct {
	kv store.KeyValue
}

func NewProductRepository(kv store.KeyValue) *ProductRepository {
	return &ProductRepository{kv}
}

func (r *ProductRepository) GetProducts(ctx context.Context) ([]*entity.Product, error) {
	records, err := r.kv.ReadAll(ctx, store.CollectionProducts)
	if err != nil {
		return nil, err
	}

	var products []*entity.Product
	for _, rec := range records {
		var product entity.Product
		if err := json.Unmarshal(rec.Data, &product); err != nil {
			return nil, err
		}
		products = append(products, &product)
	}

	return products, nil
}

func (r *ProductRepository) GetProductByID(ctx context.Context, id string) (*entity.Product, error) {
	rec, err := r.kv.ReadByID(ctx, store.CollectionProducts, id)
	if err != nil {
		return nil, err
	}

	var product entity.Product
	if err := json.Unmarshal(rec.Data, &product); err != nil {
		return nil, err
	}

	return &product, nil
}

func (r *ProductRepository) CreateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	data, err := json.Marshal(product)
	if err != nil {
		return nil, err
	}

	if err := r.kv.Append(ctx, store.CollectionProducts, store.Record{ID: product.ID, Data: data}); err != nil {
		return nil, err
	}

	return product, nil
}

func (r *ProductRepository) UpdateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	data, err := json.Marshal(product)
	if err != nil {
		return nil, err
	}

	if err := r.kv.Replace(ctx, store.CollectionProducts, product.ID, store.Record{ID: product.ID, Data: data}); err != nil {
		return nil, err
	}

	return product, nil
}

func (r *ProductRepository) DeleteProduct(ctx context.Context, id string) error {
	return r.kv.Delete(ctx, store.CollectionProducts, id)
}
