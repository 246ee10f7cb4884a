package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"storefront-service/internal/entity"
	"storefront-service/internal/repository"
	"storefront-service/internal/service"
	"storefront-service/internal/store"
)

func newProductHandler(t *testing.T) (*ProductHandler, *service.ProductService) {
	t.Helper()
	kv := store.NewMemoryStore()
	svc := service.NewProductService(repository.NewProductRepository(kv), nil)
	return NewProductHandler(svc), svc
}

func seedCatalogProduct(t *testing.T, svc *service.ProductService, name string, price float64, stock int) *entity.Product {
	t.Helper()
	product, err := svc.CreateProduct(context.Background(), &entity.Product{Name: name, Price: price, Stock: stock})
	assert.NoError(t, err)
	return product
}

func TestGetProductsHandler(t *testing.T) {
	h, svc := newProductHandler(t)
	seedCatalogProduct(t, svc, "Conta Básica", 19.9, 5)
	seedCatalogProduct(t, svc, "Conta Premium", 49.9, 3)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	assert.NoError(t, h.GetProducts(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var products []entity.Product
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	assert.Len(t, products, 2)
}

func TestGetProductsFeaturedLimit(t *testing.T) {
	h, svc := newProductHandler(t)
	seedCatalogProduct(t, svc, "low", 10, 1)
	seedCatalogProduct(t, svc, "high", 10, 9)
	seedCatalogProduct(t, svc, "mid", 10, 4)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/products?featured=true&limit=2", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	assert.NoError(t, h.GetProducts(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var products []entity.Product
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	assert.Len(t, products, 2)
	assert.Equal(t, "high", products[0].Name)
}

func TestGetProductsInvalidLimit(t *testing.T) {
	h, _ := newProductHandler(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/products?limit=abc", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	assert.NoError(t, h.GetProducts(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetProductNotFound(t *testing.T) {
	h, _ := newProductHandler(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/products/missing", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("missing")

	assert.NoError(t, h.GetProduct(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateProductHandler(t *testing.T) {
	h, svc := newProductHandler(t)

	body := `{"name":"Conta Roblox","description":"Conta com itens raros","price":19.9,"stock":5}`
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/admin/products", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	assert.NoError(t, h.CreateProduct(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var created entity.Product
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)

	got, err := svc.GetProductByID(context.Background(), created.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Conta Roblox", got.Name)
}

func TestCreateProductHandlerRejectsInvalidPayload(t *testing.T) {
	h, _ := newProductHandler(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/admin/products", strings.NewReader(`{"name":"x","price":0,"stock":1}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	assert.NoError(t, h.CreateProduct(c))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAdjustStockHandler(t *testing.T) {
	h, svc := newProductHandler(t)
	product := seedCatalogProduct(t, svc, "Conta", 10, 5)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/admin/products/"+product.ID+"/stock", strings.NewReader(`{"delta":-2}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(product.ID)

	assert.NoError(t, h.AdjustStock(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var updated entity.Product
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, 3, updated.Stock)
}

func TestDeleteProductHandler(t *testing.T) {
	h, svc := newProductHandler(t)
	product := seedCatalogProduct(t, svc, "Conta", 10, 5)

	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/admin/products/"+product.ID, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(product.ID)

	assert.NoError(t, h.DeleteProduct(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	_, err := svc.GetProductByID(context.Background(), product.ID)
	assert.ErrorIs(t, err, service.ErrProductNotFound)
}

func TestAdminOnlyMiddleware(t *testing.T) {
	e := echo.New()
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	guarded := AdminOnly(next)

	// no token at all
	req := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	assert.NoError(t, guarded(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// authenticated but not admin
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.Set("user", jwt.NewWithClaims(jwt.SigningMethodHS256, &service.JwtCustomClaims{
		Name: "Maria", IsAdmin: false,
	}))
	assert.NoError(t, guarded(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// admin passes through
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.Set("user", jwt.NewWithClaims(jwt.SigningMethodHS256, &service.JwtCustomClaims{
		Name: "Admin", IsAdmin: true,
	}))
	assert.NoError(t, guarded(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSessionIDFallsBackToHeader(t *testing.T) {
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set("X-Session-ID", "session-abc")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	assert.Equal(t, "session-abc", sessionID(c))

	c.Set("user", jwt.NewWithClaims(jwt.SigningMethodHS256, &service.JwtCustomClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"},
	}))
	assert.Equal(t, "user-1", sessionID(c))
}
