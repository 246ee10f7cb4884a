package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront-service/internal/service"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Register creates a new account --> POST /register
func (h *UserHandler) Register(c echo.Context) error {
	body := struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}{}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}

	user, err := h.userService.Register(c.Request().Context(), body.Name, body.Email, body.Password)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusCreated, user)
}

// Login logs in a user --> POST /login
func (h *UserHandler) Login(c echo.Context) error {
	body := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}

	token, user, err := h.userService.Login(c.Request().Context(), body.Email, body.Password)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

// Logout drops the stored session --> POST /logout
func (h *UserHandler) Logout(c echo.Context) error {
	cl := claims(c)
	if cl == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	if err := h.userService.Logout(c.Request().Context(), cl.Email); err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "logged out"})
}
