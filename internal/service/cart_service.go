package service

import (
	"context"
	"errors"

	"storefront-service/internal/entity"
	"storefront-service/internal/repository"
)

// CartService holds the cart of one session. Construct one per session and
// pass it explicitly; there is no ambient shared cart.
type CartService struct {
	cartRepo   *repository.CartRepository
	productSvc *ProductService
	sessionID  string
}

func NewCartService(cartRepo *repository.CartRepository, productSvc *ProductService, sessionID string) *CartService {
	return &CartService{
		cartRepo:   cartRepo,
		productSvc: productSvc,
		sessionID:  sessionID,
	}
}

func (c *CartService) Items(ctx context.Context) ([]entity.CartItem, error) {
	return c.cartRepo.GetCart(ctx, c.sessionID)
}

// Add puts quantity units of a product into the cart. The resulting line
// quantity is capped at the product's current stock; adding to a full line is
// not an error, it just tops off.
func (c *CartService) Add(ctx context.Context, productID string, quantity int) ([]entity.CartItem, error) {
	if quantity <= 0 {
		quantity = 1
	}

	product, err := c.productSvc.GetProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if product.Stock < quantity {
		return nil, ErrUnavailableStock
	}

	items, err := c.cartRepo.GetCart(ctx, c.sessionID)
	if err != nil {
		return nil, err
	}

	found := false
	for i, item := range items {
		if item.ProductID == productID {
			newQuantity := item.Quantity + quantity
			if newQuantity > product.Stock {
				newQuantity = product.Stock
			}
			items[i].Quantity = newQuantity
			found = true
			break
		}
	}
	if !found {
		items = append(items, entity.CartItem{ProductID: productID, Quantity: quantity})
	}

	if err := c.cartRepo.SaveCart(ctx, c.sessionID, items); err != nil {
		return nil, err
	}

	return items, nil
}

// UpdateQuantity sets a line's quantity, capped at current stock. A quantity
// below one removes the line.
func (c *CartService) UpdateQuantity(ctx context.Context, productID string, quantity int) ([]entity.CartItem, error) {
	if quantity < 1 {
		return c.Remove(ctx, productID)
	}

	product, err := c.productSvc.GetProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if quantity > product.Stock {
		quantity = product.Stock
	}

	items, err := c.cartRepo.GetCart(ctx, c.sessionID)
	if err != nil {
		return nil, err
	}

	for i, item := range items {
		if item.ProductID == productID {
			items[i].Quantity = quantity
		}
	}

	if err := c.cartRepo.SaveCart(ctx, c.sessionID, items); err != nil {
		return nil, err
	}

	return items, nil
}

func (c *CartService) Remove(ctx context.Context, productID string) ([]entity.CartItem, error) {
	items, err := c.cartRepo.GetCart(ctx, c.sessionID)
	if err != nil {
		return nil, err
	}

	filtered := items[:0]
	for _, item := range items {
		if item.ProductID != productID {
			filtered = append(filtered, item)
		}
	}

	if err := c.cartRepo.SaveCart(ctx, c.sessionID, filtered); err != nil {
		return nil, err
	}

	return filtered, nil
}

func (c *CartService) Clear(ctx context.Context) error {
	return c.cartRepo.ClearCart(ctx, c.sessionID)
}

// Total sums price x quantity over live products. Lines whose product was
// deleted contribute nothing and stay in the cart until removed.
func (c *CartService) Total(ctx context.Context) (float64, error) {
	items, err := c.cartRepo.GetCart(ctx, c.sessionID)
	if err != nil {
		return 0, err
	}

	var total float64
	for _, item := range items {
		product, err := c.productSvc.GetProductByID(ctx, item.ProductID)
		if errors.Is(err, ErrProductNotFound) {
			continue
		}
		if err != nil {
			return 0, err
		}
		total += product.Price * float64(item.Quantity)
	}

	return total, nil
}

func (c *CartService) Count(ctx context.Context) (int, error) {
	items, err := c.cartRepo.GetCart(ctx, c.sessionID)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, item := range items {
		count += item.Quantity
	}

	return count, nil
}
