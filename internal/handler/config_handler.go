package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ConfigHandler exposes public client configuration. No server secret is
// ever returned here.
type ConfigHandler struct {
	paypalClientID string
}

// NewConfigHandler creates a new config handler.
func NewConfigHandler(paypalClientID string) *ConfigHandler {
	return &ConfigHandler{paypalClientID: paypalClientID}
}

// PaymentKey godoc
// @Summary Get the public payment client key
// @Tags config
// @Produce json
// @Success 200 {object} map[string]string
// @Router /config/paypal [get]
func (h *ConfigHandler) PaymentKey(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"client_id": h.paypalClientID})
}
