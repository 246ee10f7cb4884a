package checkout

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	"storefront-service/internal/entity"
	"storefront-service/internal/notify"
	"storefront-service/internal/payment"
	"storefront-service/internal/service"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

type State string

const (
	StateIdle            State = "idle"
	StateAwaitingPayment State = "awaiting_payment"
	StateConfirmed       State = "confirmed"
	StateFailed          State = "failed"
)

const (
	DefaultPollInterval = 5 * time.Second
	DefaultMaxAttempts  = 60
)

var ErrAlreadyInitiated = errors.New("checkout already initiated")

// Flow drives one checkout attempt for one session:
//
//	Idle -> AwaitingPayment -> Confirmed
//	                        -> Failed
//
// Confirmed and Failed are terminal; a new purchase needs a new Flow.
type Flow struct {
	orders   *service.OrderService
	products *service.ProductService
	cart     *service.CartService
	gateway  payment.Gateway
	notifier notify.Notifier
	rdb      *redis.Client

	interval    time.Duration
	maxAttempts int

	mu      sync.Mutex
	state   State
	orderID string
	charge  *entity.PixCharge

	running  bool
	stop     chan struct{}
	stopOnce sync.Once
	loopDone chan struct{}
}

type Option func(*Flow)

func WithPollInterval(d time.Duration) Option {
	return func(f *Flow) { f.interval = d }
}

// WithMaxAttempts bounds the poll loop; exhausting it fails the attempt.
func WithMaxAttempts(n int) Option {
	return func(f *Flow) { f.maxAttempts = n }
}

// WithIdempotencyStore enables duplicate-initiate protection via Redis.
func WithIdempotencyStore(rdb *redis.Client) Option {
	return func(f *Flow) { f.rdb = rdb }
}

func NewFlow(orders *service.OrderService, products *service.ProductService, cart *service.CartService, gateway payment.Gateway, notifier notify.Notifier, opts ...Option) *Flow {
	f := &Flow{
		orders:      orders,
		products:    products,
		cart:        cart,
		gateway:     gateway,
		notifier:    notifier,
		interval:    DefaultPollInterval,
		maxAttempts: DefaultMaxAttempts,
		state:       StateIdle,
		stop:        make(chan struct{}),
		loopDone:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Flow) OrderID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.orderID
}

// Initiate snapshots the cart into an order, requests the PIX charge and
// enters AwaitingPayment. Validation failures and unresolvable products leave
// the ledger and stock untouched.
func (f *Flow) Initiate(ctx context.Context, email, userID, idempotencyKey string) (*entity.PixCharge, error) {
	f.mu.Lock()
	if f.state != StateIdle {
		f.mu.Unlock()
		return nil, ErrAlreadyInitiated
	}
	f.mu.Unlock()

	if userID == "" {
		return nil, fmt.Errorf("checkout requires an authenticated user")
	}
	if !service.ValidEmail(email) {
		return nil, fmt.Errorf("invalid delivery email")
	}

	items, err := f.cart.Items(ctx)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("cart is empty")
	}

	if err := f.claimIdempotencyKey(ctx, idempotencyKey); err != nil {
		return nil, err
	}

	// Resolve every line to a live product and snapshot name/price before
	// anything is written.
	orderItems := make([]entity.OrderItem, 0, len(items))
	var total float64
	for _, item := range items {
		product, err := f.products.GetProductByID(ctx, item.ProductID)
		if errors.Is(err, service.ErrProductNotFound) {
			return nil, fmt.Errorf("%w: %s", service.ErrProductUnavailable, item.ProductID)
		}
		if err != nil {
			return nil, err
		}

		orderItems = append(orderItems, entity.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    item.Quantity,
			Price:       product.Price,
		})
		total += product.Price * float64(item.Quantity)
	}

	order, err := f.orders.CreateOrder(ctx, userID, orderItems, total, email)
	if err != nil {
		return nil, err
	}

	charge, err := f.gateway.CreatePayment(ctx, order.ID, order.Total, email)
	if err != nil {
		// Stock was already consumed by order creation and is not restored
		// here.
		f.notifier.Notify("Payment error", "Could not create the PIX charge. Try again.", notify.SeverityDestructive)
		return nil, err
	}

	if err := f.orders.SetPaymentID(ctx, order.ID, charge.QRCodeID); err != nil {
		logger.Error().Err(err).Msgf("Error recording payment id on order %s", order.ID)
	}

	f.mu.Lock()
	f.state = StateAwaitingPayment
	f.orderID = order.ID
	f.charge = charge
	f.mu.Unlock()

	f.notifier.Notify("Awaiting payment", "Waiting for the PIX payment confirmation...", notify.SeverityInfo)
	return charge, nil
}

// PollOnce performs a single payment-status check. It reports done=true once
// the flow reached a terminal state and polling should stop. Gateway errors
// are transient: logged, loop keeps going.
func (f *Flow) PollOnce(ctx context.Context) (done bool, err error) {
	f.mu.Lock()
	if f.state != StateAwaitingPayment {
		state := f.state
		f.mu.Unlock()
		return true, fmt.Errorf("checkout is not awaiting payment (state %s)", state)
	}
	orderID := f.orderID
	f.mu.Unlock()

	check, err := f.gateway.CheckStatus(ctx, orderID)
	if err != nil {
		logger.Error().Err(err).Msgf("Error checking payment status for order %s", orderID)
		return false, nil
	}

	if !check.IsPaid {
		return false, nil
	}

	paid := entity.PaymentPaid
	delivered := entity.DeliveryDelivered
	if _, err := f.orders.UpdateStatus(ctx, orderID, &paid, &delivered); err != nil {
		logger.Error().Err(err).Msgf("Error marking order %s paid", orderID)
		return false, nil
	}

	f.mu.Lock()
	f.state = StateConfirmed
	f.mu.Unlock()

	// Cleared exactly once: only the single pending -> Confirmed transition
	// reaches this point.
	if err := f.cart.Clear(ctx); err != nil {
		logger.Error().Err(err).Msgf("Error clearing cart after order %s", orderID)
	}

	f.notifier.Notify("Payment confirmed", "Your account will be delivered shortly.", notify.SeverityInfo)
	return true, nil
}

// Run polls the gateway on a fixed interval until confirmation, cancellation
// or attempt exhaustion. Exhaustion fails the attempt and the order.
func (f *Flow) Run(ctx context.Context) error {
	f.mu.Lock()
	if f.state != StateAwaitingPayment {
		state := f.state
		f.mu.Unlock()
		return fmt.Errorf("checkout is not awaiting payment (state %s)", state)
	}
	f.running = true
	f.mu.Unlock()

	defer close(f.loopDone)

	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for attempt := 0; attempt < f.maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-f.stop:
			return nil
		case <-ticker.C:
		}

		done, err := f.PollOnce(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}

	f.fail(ctx, "Payment confirmation timed out. No charge was completed.")
	return nil
}

// Cancel stops the poll loop and leaves the order in whatever state it last
// observed. Once Cancel returns, the flow performs no further mutation.
func (f *Flow) Cancel() {
	f.stopOnce.Do(func() { close(f.stop) })

	f.mu.Lock()
	running := f.running
	f.mu.Unlock()

	if running {
		<-f.loopDone
	}
}

func (f *Flow) fail(ctx context.Context, reason string) {
	f.mu.Lock()
	if f.state != StateAwaitingPayment {
		f.mu.Unlock()
		return
	}
	f.state = StateFailed
	orderID := f.orderID
	f.mu.Unlock()

	failed := entity.PaymentFailed
	if _, err := f.orders.UpdateStatus(ctx, orderID, &failed, nil); err != nil {
		logger.Error().Err(err).Msgf("Error marking order %s failed", orderID)
	}

	f.notifier.Notify("Payment failed", reason, notify.SeverityDestructive)
}

// claimIdempotencyKey mirrors the order service's duplicate-submit guard:
// first writer wins, the key expires after a day.
func (f *Flow) claimIdempotencyKey(ctx context.Context, key string) error {
	if f.rdb == nil || key == "" {
		return nil
	}

	ok, err := f.rdb.SetNX(ctx, fmt.Sprintf("idempotent-key:%s", key), "exists", 24*time.Hour).Result()
	if err != nil {
		return err
	}
	if !ok {
		return service.ErrIdempotentKeyExists
	}

	return nil
}
