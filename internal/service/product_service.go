package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"storefront-service/internal/entity"
	"storefront-service/internal/repository"
	"storefront-service/internal/store"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// ListOptions controls storefront product listings: featured sorts by stock
// descending, limit truncates the result.
type ListOptions struct {
	Featured bool
	Limit    int
}

type ProductService struct {
	productRepo *repository.ProductRepository
	rdb         *redis.Client
}

// NewProductService creates a new instance of ProductService. rdb may be nil;
// caching is skipped in that case.
func NewProductService(productRepo *repository.ProductRepository, rdb *redis.Client) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		rdb:         rdb,
	}
}

func productCacheKey(id string) string {
	return fmt.Sprintf("product:%s", id)
}

// GetProducts lists products in insertion order, then applies ListOptions.
func (p *ProductService) GetProducts(ctx context.Context, opts ListOptions) ([]*entity.Product, error) {
	products, err := p.productRepo.GetProducts(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error getting products")
		return nil, err
	}

	if opts.Featured {
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Stock > products[j].Stock
		})
	}

	if opts.Limit > 0 && len(products) > opts.Limit {
		products = products[:opts.Limit]
	}

	return products, nil
}

func (p *ProductService) GetProductByID(ctx context.Context, id string) (*entity.Product, error) {
	if p.rdb != nil {
		productCache, err := p.rdb.Get(ctx, productCacheKey(id)).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			logger.Error().Err(err).Msgf("Error getting product %s from cache", id)
		}
		if productCache != "" {
			var product entity.Product
			if err := json.Unmarshal([]byte(productCache), &product); err == nil {
				return &product, nil
			}
			logger.Error().Msgf("Error unmarshalling cached product %s", id)
		}
	}

	product, err := p.productRepo.GetProductByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		logger.Error().Err(err).Msgf("Error getting product by ID %s", id)
		return nil, err
	}

	p.cacheProduct(ctx, product)
	return product, nil
}

func (p *ProductService) CreateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	if product.Name == "" {
		return nil, fmt.Errorf("product name is required")
	}
	if product.Price <= 0 {
		return nil, fmt.Errorf("product price must be positive")
	}
	if product.Stock < 0 {
		return nil, fmt.Errorf("product stock must not be negative")
	}

	product.ID = fmt.Sprintf("product-%s", uuid.NewString())
	product.CreatedAt = time.Now().UTC()

	created, err := p.productRepo.CreateProduct(ctx, product)
	if err != nil {
		logger.Error().Err(err).Msg("Error creating product")
		return nil, err
	}

	p.cacheProduct(ctx, created)
	return created, nil
}

func (p *ProductService) UpdateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	if product.Price <= 0 {
		return nil, fmt.Errorf("product price must be positive")
	}
	if product.Stock < 0 {
		return nil, fmt.Errorf("product stock must not be negative")
	}

	current, err := p.productRepo.GetProductByID(ctx, product.ID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	// id and creation time are immutable
	product.CreatedAt = current.CreatedAt

	updated, err := p.productRepo.UpdateProduct(ctx, product)
	if err != nil {
		logger.Error().Err(err).Msgf("Error updating product %s", product.ID)
		return nil, err
	}

	p.cacheProduct(ctx, updated)
	return updated, nil
}

func (p *ProductService) DeleteProduct(ctx context.Context, id string) error {
	if err := p.productRepo.DeleteProduct(ctx, id); err != nil {
		logger.Error().Err(err).Msgf("Error deleting product %s", id)
		return err
	}

	if p.rdb != nil {
		if err := p.rdb.Del(ctx, productCacheKey(id)).Err(); err != nil {
			logger.Error().Err(err).Msgf("Error deleting product %s from cache", id)
		}
	}

	return nil
}

// AdjustStock applies a stock delta, clamped at zero. A sequence of decrements
// can undercount true consumption once stock hits zero; callers enforce bounds
// before ordering, and cross-session races remain unguarded.
func (p *ProductService) AdjustStock(ctx context.Context, id string, delta int) (*entity.Product, error) {
	product, err := p.productRepo.GetProductByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		logger.Error().Err(err).Msgf("Error getting product by ID %s", id)
		return nil, err
	}

	newStock := product.Stock + delta
	if newStock < 0 {
		newStock = 0
	}
	product.Stock = newStock

	updated, err := p.productRepo.UpdateProduct(ctx, product)
	if err != nil {
		logger.Error().Err(err).Msgf("Error updating stock for product %s", id)
		return nil, err
	}

	p.cacheProduct(ctx, updated)
	return updated, nil
}

// PreWarmCache pre-warms the cache with product data.
func (p *ProductService) PreWarmCache(ctx context.Context) error {
	if p.rdb == nil {
		return nil
	}

	products, err := p.productRepo.GetProducts(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error getting products")
		return err
	}

	for _, product := range products {
		p.cacheProduct(ctx, product)
	}

	return nil
}

func (p *ProductService) cacheProduct(ctx context.Context, product *entity.Product) {
	if p.rdb == nil {
		return
	}

	data, err := json.Marshal(product)
	if err != nil {
		return
	}

	if err := p.rdb.Set(ctx, productCacheKey(product.ID), data, 1*time.Minute).Err(); err != nil {
		logger.Error().Err(err).Msgf("Error setting product %s in cache", product.ID)
	}
}

// SeedProducts loads the sample catalog on an empty store, as the storefront
// did on first visit.
func (p *ProductService) SeedProducts(ctx context.Context, samples []*entity.Product) error {
	existing, err := p.productRepo.GetProducts(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	for _, sample := range samples {
		if _, err := p.productRepo.CreateProduct(ctx, sample); err != nil {
			return err
		}
	}

	return nil
}
