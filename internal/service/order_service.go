package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"storefront-service/internal/entity"
	"storefront-service/internal/repository"
	"storefront-service/internal/store"
)

// OrderService is the order ledger: create, fetch, list and status
// transitions over order records.
type OrderService struct {
	orderRepo   *repository.OrderRepository
	productSvc  *ProductService
	kafkaWriter *kafka.Writer
}

// NewOrderService creates a new instance of OrderService. kafkaWriter may be
// nil; event publishing is skipped in that case.
func NewOrderService(orderRepo *repository.OrderRepository, productSvc *ProductService, kafkaWriter *kafka.Writer) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productSvc:  productSvc,
		kafkaWriter: kafkaWriter,
	}
}

// CreateOrder persists a new pending/pending order and decrements catalog
// stock for every line item, clamped at zero. Stock adjustment failures are
// logged but do not roll back the created order; stock is reserved at
// creation time with no compensation step.
func (s *OrderService) CreateOrder(ctx context.Context, userID string, items []entity.OrderItem, total float64, email string) (*entity.Order, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("order must contain at least one item")
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("item quantity must be positive")
		}
	}

	order := &entity.Order{
		ID:             fmt.Sprintf("order-%s", uuid.NewString()),
		UserID:         userID,
		Items:          items,
		Total:          total,
		PaymentStatus:  entity.PaymentPending,
		DeliveryStatus: entity.DeliveryPending,
		CreatedAt:      time.Now().UTC(),
		Email:          email,
	}

	created, err := s.orderRepo.CreateOrder(ctx, order)
	if err != nil {
		logger.Error().Err(err).Msg("Error creating order")
		return nil, err
	}

	for _, item := range items {
		if _, err := s.productSvc.AdjustStock(ctx, item.ProductID, -item.Quantity); err != nil {
			logger.Error().Err(err).Msgf("Error decrementing stock for product %s", item.ProductID)
		}
	}

	s.publishOrderEvent(ctx, created, "created")
	return created, nil
}

func (s *OrderService) GetOrderByID(ctx context.Context, id string) (*entity.Order, error) {
	order, err := s.orderRepo.GetOrderByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		logger.Error().Err(err).Msgf("Error getting order by ID %s", id)
		return nil, err
	}

	return order, nil
}

// GetOrders returns all orders in insertion order, optionally filtered by
// user.
func (s *OrderService) GetOrders(ctx context.Context, userID string) ([]*entity.Order, error) {
	orders, err := s.orderRepo.GetOrders(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error getting orders")
		return nil, err
	}

	if userID == "" {
		return orders, nil
	}

	filtered := make([]*entity.Order, 0, len(orders))
	for _, order := range orders {
		if order.UserID == userID {
			filtered = append(filtered, order)
		}
	}

	return filtered, nil
}

// UpdateStatus merges the provided status fields into an existing order.
// Payment status moves pending -> paid or pending -> failed exactly once;
// delivery moves pending -> delivered. Anything else is rejected.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, paymentStatus *entity.PaymentStatus, deliveryStatus *entity.DeliveryStatus) (*entity.Order, error) {
	order, err := s.orderRepo.GetOrderByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		logger.Error().Err(err).Msgf("Error getting order by ID %s", id)
		return nil, err
	}

	eventKey := ""

	if paymentStatus != nil && *paymentStatus != order.PaymentStatus {
		if !paymentStatus.Valid() {
			return nil, fmt.Errorf("%w: unknown payment status %q", ErrInvalidTransition, *paymentStatus)
		}
		switch order.PaymentStatus {
		case entity.PaymentPending:
			order.PaymentStatus = *paymentStatus
			eventKey = string(*paymentStatus)
		case entity.PaymentPaid, entity.PaymentFailed:
			return nil, fmt.Errorf("%w: payment status %s is terminal", ErrInvalidTransition, order.PaymentStatus)
		}
	}

	if deliveryStatus != nil && *deliveryStatus != order.DeliveryStatus {
		if !deliveryStatus.Valid() {
			return nil, fmt.Errorf("%w: unknown delivery status %q", ErrInvalidTransition, *deliveryStatus)
		}
		switch order.DeliveryStatus {
		case entity.DeliveryPending:
			order.DeliveryStatus = *deliveryStatus
			if eventKey == "" {
				eventKey = string(*deliveryStatus)
			}
		case entity.DeliveryDelivered:
			return nil, fmt.Errorf("%w: delivery status %s is terminal", ErrInvalidTransition, order.DeliveryStatus)
		}
	}

	updated, err := s.orderRepo.UpdateOrder(ctx, order)
	if err != nil {
		logger.Error().Err(err).Msgf("Error updating order %s", id)
		return nil, err
	}

	if eventKey != "" {
		s.publishOrderEvent(ctx, updated, eventKey)
	}

	return updated, nil
}

// AttachAccountData stores the delivered credential payload on a paid order.
func (s *OrderService) AttachAccountData(ctx context.Context, id, accountData string) (*entity.Order, error) {
	order, err := s.orderRepo.GetOrderByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	order.AccountData = accountData

	updated, err := s.orderRepo.UpdateOrder(ctx, order)
	if err != nil {
		logger.Error().Err(err).Msgf("Error attaching account data to order %s", id)
		return nil, err
	}

	return updated, nil
}

// SetPaymentID records the gateway charge id on the order.
func (s *OrderService) SetPaymentID(ctx context.Context, id, paymentID string) error {
	order, err := s.orderRepo.GetOrderByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrOrderNotFound
	}
	if err != nil {
		return err
	}

	order.PaymentID = paymentID
	_, err = s.orderRepo.UpdateOrder(ctx, order)
	return err
}

func (s *OrderService) publishOrderEvent(ctx context.Context, order *entity.Order, key string) {
	if s.kafkaWriter == nil {
		return
	}

	orderJSON, err := json.Marshal(order)
	if err != nil {
		logger.Error().Err(err).Msgf("Error marshalling order %s for event", order.ID)
		return
	}

	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("order-%s-%s", key, order.ID)),
		Value: orderJSON,
	}

	if err := s.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Error().Err(err).Msgf("Error publishing order-%s event for order %s", key, order.ID)
	}
}
