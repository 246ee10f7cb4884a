package api

import (
	"errors"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"storefront-service/internal/service"
)

// errorResponse maps the service error taxonomy onto HTTP statuses; anything
// unrecognized is a 500.
func errorResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrProductUnavailable),
		errors.Is(err, service.ErrUnavailableStock),
		errors.Is(err, service.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrEmailInUse),
		errors.Is(err, service.ErrIdempotentKeyExists):
		return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

// claims pulls the authenticated user's claims off the context; nil when the
// request carried no token.
func claims(c echo.Context) *service.JwtCustomClaims {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return nil
	}
	cl, ok := token.Claims.(*service.JwtCustomClaims)
	if !ok {
		return nil
	}
	return cl
}

// AdminOnly guards the admin group; it runs after the JWT middleware.
func AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cl := claims(c)
		if cl == nil || !cl.IsAdmin {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "admin access required"})
		}
		return next(c)
	}
}

// sessionID picks the cart owner: the authenticated user when present, the
// explicit session header otherwise.
func sessionID(c echo.Context) string {
	if cl := claims(c); cl != nil && cl.Subject != "" {
		return cl.Subject
	}
	return c.Request().Header.Get("X-Session-ID")
}
