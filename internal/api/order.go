package api

import (
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"

	"storefront-service/internal/service"
)

type OrderHandler struct {
	orderService *service.OrderService
}

func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// GetOrders lists the caller's own orders --> GET /orders
func (h *OrderHandler) GetOrders(c echo.Context) error {
	cl := claims(c)
	if cl == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	orders, err := h.orderService.GetOrders(c.Request().Context(), cl.Subject)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, orders)
}

// GetOrder fetches one order --> GET /orders/:id
func (h *OrderHandler) GetOrder(c echo.Context) error {
	cl := claims(c)
	if cl == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	order, err := h.orderService.GetOrderByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errorResponse(c, err)
	}

	if order.UserID != cl.Subject && !cl.IsAdmin {
		return c.JSON(http.StatusForbidden, map[string]string{"error": "Forbidden"})
	}

	return c.JSON(http.StatusOK, order)
}

// GetAllOrders lists every order, newest first --> GET /admin/orders
func (h *OrderHandler) GetAllOrders(c echo.Context) error {
	orders, err := h.orderService.GetOrders(c.Request().Context(), "")
	if err != nil {
		return errorResponse(c, err)
	}

	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})

	return c.JSON(http.StatusOK, orders)
}
