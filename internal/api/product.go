package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"storefront-service/internal/entity"
	"storefront-service/internal/service"
)

type ProductHandler struct {
	productService *service.ProductService
}

func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// GetProducts lists the catalog --> /products?featured=true&limit=4
func (h *ProductHandler) GetProducts(c echo.Context) error {
	opts := service.ListOptions{}
	if c.QueryParam("featured") == "true" {
		opts.Featured = true
	}
	if limit := c.QueryParam("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid limit"})
		}
		opts.Limit = n
	}

	products, err := h.productService.GetProducts(c.Request().Context(), opts)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, products)
}

// GetProduct retrieves a product by ID --> /products/:id
func (h *ProductHandler) GetProduct(c echo.Context) error {
	product, err := h.productService.GetProductByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, product)
}

// CreateProduct creates a new product --> POST /admin/products
func (h *ProductHandler) CreateProduct(c echo.Context) error {
	product := entity.Product{}
	if err := c.Bind(&product); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}

	created, err := h.productService.CreateProduct(c.Request().Context(), &product)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusCreated, created)
}

// UpdateProduct updates an existing product --> PUT /admin/products/:id
func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	product := entity.Product{}
	if err := c.Bind(&product); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}
	product.ID = c.Param("id")

	updated, err := h.productService.UpdateProduct(c.Request().Context(), &product)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, updated)
}

// DeleteProduct deletes a product --> DELETE /admin/products/:id
func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	if err := h.productService.DeleteProduct(c.Request().Context(), c.Param("id")); err != nil {
		return errorResponse(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// AdjustStock applies a stock delta --> POST /admin/products/:id/stock
func (h *ProductHandler) AdjustStock(c echo.Context) error {
	body := struct {
		Delta int `json:"delta"`
	}{}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}

	product, err := h.productService.AdjustStock(c.Request().Context(), c.Param("id"), body.Delta)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, product)
}
