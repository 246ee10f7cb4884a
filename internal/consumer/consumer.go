package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"storefront-service/internal/config"
	"storefront-service/internal/entity"
	"storefront-service/internal/service"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Consumer listens for order events and performs delivery: once an order is
// paid, the provisioned account credentials are attached to it and the
// delivery email dispatch is recorded. Actual email sending is out of scope.
type Consumer struct {
	orderSvc *service.OrderService
}

func NewConsumer(orderSvc *service.OrderService) *Consumer {
	return &Consumer{orderSvc: orderSvc}
}

// StartKafkaConsumer blocks reading the order topic until ctx is cancelled.
func (c *Consumer) StartKafkaConsumer(ctx context.Context) {
	reader := config.NewKafkaReader(config.OrderTopic, "storefront-delivery-group")
	defer reader.Close()

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error().Msgf("Error reading message: %v", err)
			continue
		}

		c.processMessage(ctx, msg)
	}
}

func (c *Consumer) processMessage(ctx context.Context, msg kafka.Message) {
	// Keys look like order-<event>-<id>; only paid orders get delivered.
	if !strings.HasPrefix(string(msg.Key), "order-paid-") {
		return
	}

	var order entity.Order
	if err := json.Unmarshal(msg.Value, &order); err != nil {
		logger.Error().Msgf("Error unmarshalling message: %v", err)
		return
	}

	if order.AccountData != "" {
		return
	}

	credentials := provisionCredentials(&order)
	if _, err := c.orderSvc.AttachAccountData(ctx, order.ID, credentials); err != nil {
		logger.Error().Err(err).Msgf("Error attaching account data to order %s", order.ID)
		return
	}

	logger.Info().
		Str("order", order.ID).
		Str("email", order.Email).
		Msg("Account credentials delivered")
}

func provisionCredentials(order *entity.Order) string {
	var b strings.Builder
	for _, item := range order.Items {
		for i := 0; i < item.Quantity; i++ {
			fmt.Fprintf(&b, "%s | login: buyer-%s password: %s\n",
				item.ProductName, uuid.NewString()[:8], uuid.NewString())
		}
	}
	return b.String()
}
