package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront-service/internal/repository"
	"storefront-service/internal/service"
)

// CartHandler builds a session-scoped CartService per request; the cart owner
// is the authenticated user or the X-Session-ID header.
type CartHandler struct {
	cartRepo   *repository.CartRepository
	productSvc *service.ProductService
}

func NewCartHandler(cartRepo *repository.CartRepository, productSvc *service.ProductService) *CartHandler {
	return &CartHandler{cartRepo: cartRepo, productSvc: productSvc}
}

func (h *CartHandler) cart(c echo.Context) (*service.CartService, bool) {
	session := sessionID(c)
	if session == "" {
		return nil, false
	}
	return service.NewCartService(h.cartRepo, h.productSvc, session), true
}

// GetCart returns items plus derived totals --> GET /cart
func (h *CartHandler) GetCart(c echo.Context) error {
	cart, ok := h.cart(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing session"})
	}
	ctx := c.Request().Context()

	items, err := cart.Items(ctx)
	if err != nil {
		return errorResponse(c, err)
	}
	total, err := cart.Total(ctx)
	if err != nil {
		return errorResponse(c, err)
	}
	count, err := cart.Count(ctx)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"items": items,
		"total": total,
		"count": count,
	})
}

// AddItem adds a product --> POST /cart
func (h *CartHandler) AddItem(c echo.Context) error {
	cart, ok := h.cart(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing session"})
	}

	body := struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}{}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}

	items, err := cart.Add(c.Request().Context(), body.ProductID, body.Quantity)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, items)
}

// UpdateItem sets a line quantity --> PUT /cart/:productId
func (h *CartHandler) UpdateItem(c echo.Context) error {
	cart, ok := h.cart(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing session"})
	}

	body := struct {
		Quantity int `json:"quantity"`
	}{}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}

	items, err := cart.UpdateQuantity(c.Request().Context(), c.Param("productId"), body.Quantity)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, items)
}

// RemoveItem removes a line --> DELETE /cart/:productId
func (h *CartHandler) RemoveItem(c echo.Context) error {
	cart, ok := h.cart(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing session"})
	}

	items, err := cart.Remove(c.Request().Context(), c.Param("productId"))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, items)
}

// ClearCart empties the cart --> DELETE /cart
func (h *CartHandler) ClearCart(c echo.Context) error {
	cart, ok := h.cart(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing session"})
	}

	if err := cart.Clear(c.Request().Context()); err != nil {
		return errorResponse(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
