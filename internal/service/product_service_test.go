package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"storefront-service/internal/entity"
	"storefront-service/internal/repository"
	"storefront-service/internal/store"
)

func newProductService() *ProductService {
	kv := store.NewMemoryStore()
	return NewProductService(repository.NewProductRepository(kv), nil)
}

func seedProduct(t *testing.T, svc *ProductService, name string, price float64, stock int) *entity.Product {
	t.Helper()
	product, err := svc.CreateProduct(context.Background(), &entity.Product{
		Name:  name,
		Price: price,
		Stock: stock,
	})
	assert.NoError(t, err)
	return product
}

func TestCreateAndGetProduct(t *testing.T) {
	ctx := context.Background()
	svc := newProductService()

	created := seedProduct(t, svc, "Conta Básica", 19.9, 5)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := svc.GetProductByID(ctx, created.ID)
	assert.NoError(t, err)
	assert.Equal(t, created.Name, got.Name)
	assert.Equal(t, created.Price, got.Price)
	assert.Equal(t, created.Stock, got.Stock)
}

func TestCreateProductValidation(t *testing.T) {
	ctx := context.Background()
	svc := newProductService()

	_, err := svc.CreateProduct(ctx, &entity.Product{Name: "x", Price: 0, Stock: 1})
	assert.Error(t, err)

	_, err = svc.CreateProduct(ctx, &entity.Product{Name: "x", Price: 10, Stock: -1})
	assert.Error(t, err)

	_, err = svc.CreateProduct(ctx, &entity.Product{Price: 10, Stock: 1})
	assert.Error(t, err)
}

func TestGetProductByIDNotFound(t *testing.T) {
	svc := newProductService()

	_, err := svc.GetProductByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestAdjustStockNeverGoesNegative(t *testing.T) {
	ctx := context.Background()
	svc := newProductService()
	product := seedProduct(t, svc, "Conta", 10, 3)

	for _, delta := range []int{-2, -2, -5, 4, -10, -1} {
		updated, err := svc.AdjustStock(ctx, product.ID, delta)
		assert.NoError(t, err)
		assert.GreaterOrEqual(t, updated.Stock, 0)
	}

	got, err := svc.GetProductByID(ctx, product.ID)
	assert.NoError(t, err)
	assert.Equal(t, 0, got.Stock)
}

func TestAdjustStockClampsAtZero(t *testing.T) {
	ctx := context.Background()
	svc := newProductService()
	product := seedProduct(t, svc, "Conta", 10, 2)

	updated, err := svc.AdjustStock(ctx, product.ID, -5)
	assert.NoError(t, err)
	assert.Equal(t, 0, updated.Stock)
}

func TestAdjustStockMissingProduct(t *testing.T) {
	svc := newProductService()

	_, err := svc.AdjustStock(context.Background(), "missing", -1)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestGetProductsFeaturedAndLimit(t *testing.T) {
	ctx := context.Background()
	svc := newProductService()
	seedProduct(t, svc, "low", 10, 1)
	seedProduct(t, svc, "high", 10, 9)
	seedProduct(t, svc, "mid", 10, 4)

	products, err := svc.GetProducts(ctx, ListOptions{Featured: true, Limit: 2})
	assert.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, "high", products[0].Name)
	assert.Equal(t, "mid", products[1].Name)
}

func TestUpdateProductKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	svc := newProductService()
	product := seedProduct(t, svc, "Conta", 10, 2)
	createdAt := product.CreatedAt

	time.Sleep(5 * time.Millisecond)

	updated, err := svc.UpdateProduct(ctx, &entity.Product{
		ID:    product.ID,
		Name:  "Conta Editada",
		Price: 12.5,
		Stock: 2,
	})
	assert.NoError(t, err)
	assert.Equal(t, "Conta Editada", updated.Name)
	assert.Equal(t, createdAt, updated.CreatedAt)
}

func TestDeleteProduct(t *testing.T) {
	ctx := context.Background()
	svc := newProductService()
	product := seedProduct(t, svc, "Conta", 10, 2)

	assert.NoError(t, svc.DeleteProduct(ctx, product.ID))

	_, err := svc.GetProductByID(ctx, product.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestSeedProductsOnlyOnEmptyStore(t *testing.T) {
	ctx := context.Background()
	svc := newProductService()

	samples := []*entity.Product{
		{ID: "product-1", Name: "one", Price: 1, Stock: 1, CreatedAt: time.Now()},
		{ID: "product-2", Name: "two", Price: 2, Stock: 2, CreatedAt: time.Now()},
	}

	assert.NoError(t, svc.SeedProducts(ctx, samples))
	assert.NoError(t, svc.SeedProducts(ctx, samples)) // second call is a no-op

	products, err := svc.GetProducts(ctx, ListOptions{})
	assert.NoError(t, err)
	assert.Len(t, products, 2)
}
