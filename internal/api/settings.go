package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront-service/internal/entity"
	"storefront-service/internal/service"
)

type SettingsHandler struct {
	settingsService *service.SettingsService
}

func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// GetSettings returns the merchant configuration --> GET /admin/settings
func (h *SettingsHandler) GetSettings(c echo.Context) error {
	settings, err := h.settingsService.GetSettings(c.Request().Context())
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, settings)
}

// UpdateSettings applies a partial update --> PUT /admin/settings
func (h *SettingsHandler) UpdateSettings(c echo.Context) error {
	patch := entity.EfiBankSettingsPatch{}
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}

	settings, err := h.settingsService.UpdateSettings(c.Request().Context(), &patch)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, settings)
}
