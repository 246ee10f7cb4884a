package api

import (
	"context"
	"net/http"
	"sync"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"

	"storefront-service/internal/checkout"
	"storefront-service/internal/notify"
	"storefront-service/internal/payment"
	"storefront-service/internal/repository"
	"storefront-service/internal/service"
)

// CheckoutHandler creates one checkout flow per initiated order and runs its
// poll loop server-side; the front end polls the status endpoint.
type CheckoutHandler struct {
	orderSvc   *service.OrderService
	productSvc *service.ProductService
	cartRepo   *repository.CartRepository
	gateway    payment.Gateway
	notifier   notify.Notifier
	rdb        *redis.Client

	opts []checkout.Option

	mu    sync.Mutex
	flows map[string]*checkout.Flow
}

func NewCheckoutHandler(orderSvc *service.OrderService, productSvc *service.ProductService, cartRepo *repository.CartRepository, gateway payment.Gateway, notifier notify.Notifier, rdb *redis.Client, opts ...checkout.Option) *CheckoutHandler {
	return &CheckoutHandler{
		orderSvc:   orderSvc,
		productSvc: productSvc,
		cartRepo:   cartRepo,
		gateway:    gateway,
		notifier:   notifier,
		rdb:        rdb,
		opts:       opts,
		flows:      make(map[string]*checkout.Flow),
	}
}

// Initiate starts a checkout for the session's cart --> POST /checkout
func (h *CheckoutHandler) Initiate(c echo.Context) error {
	cl := claims(c)
	if cl == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "You must be logged in to check out"})
	}

	body := struct {
		Email string `json:"email"`
	}{}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}

	cart := service.NewCartService(h.cartRepo, h.productSvc, cl.Subject)

	flowOpts := h.opts
	if h.rdb != nil {
		flowOpts = append(flowOpts, checkout.WithIdempotencyStore(h.rdb))
	}
	flow := checkout.NewFlow(h.orderSvc, h.productSvc, cart, h.gateway, h.notifier, flowOpts...)

	charge, err := flow.Initiate(c.Request().Context(), body.Email, cl.Subject, c.Request().Header.Get("Idempotent-Key"))
	if err != nil {
		return errorResponse(c, err)
	}

	h.mu.Lock()
	h.flows[flow.OrderID()] = flow
	h.mu.Unlock()

	// The poll loop outlives the initiate request.
	go flow.Run(context.Background())

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"orderId": flow.OrderID(),
		"payment": charge,
	})
}

// Status reports the flow state --> GET /checkout/:orderId/status
func (h *CheckoutHandler) Status(c echo.Context) error {
	h.mu.Lock()
	flow, ok := h.flows[c.Param("orderId")]
	h.mu.Unlock()
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "No checkout in progress for this order"})
	}

	state := flow.State()
	return c.JSON(http.StatusOK, map[string]interface{}{
		"orderId": flow.OrderID(),
		"state":   state,
		"paid":    state == checkout.StateConfirmed,
	})
}

// Cancel stops the poll loop --> DELETE /checkout/:orderId
func (h *CheckoutHandler) Cancel(c echo.Context) error {
	h.mu.Lock()
	flow, ok := h.flows[c.Param("orderId")]
	h.mu.Unlock()
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "No checkout in progress for this order"})
	}

	flow.Cancel()
	return c.JSON(http.StatusOK, map[string]interface{}{
		"orderId": flow.OrderID(),
		"state":   flow.State(),
	})
}
