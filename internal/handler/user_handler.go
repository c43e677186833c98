package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"wearhouse/internal/errors"
	"wearhouse/internal/service"
)

// UserHandler handles user profile endpoints.
type UserHandler struct {
	authService service.AuthService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(authService service.AuthService) *UserHandler {
	return &UserHandler{authService: authService}
}

// Profile godoc
// @Summary Get the authenticated user's profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/profile [get]
func (h *UserHandler) Profile(c echo.Context) error {
	userID, _, err := CurrentUserID(c)
	if err != nil {
		return err
	}

	user, serr := h.authService.Profile(c.Request().Context(), userID)
	if serr != nil {
		httpErr := errors.MapErrorToHTTP(serr)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, user)
}
