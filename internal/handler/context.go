package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"wearhouse/internal/auth"
)

// CurrentClaims extracts the verified JWT claims the auth middleware stored
// on the request context.
func CurrentClaims(c echo.Context) (*auth.Claims, error) {
	claims, ok := c.Get("user").(*auth.Claims)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing token")
	}
	return claims, nil
}

// CurrentUserID parses the caller's user ID out of the claims.
func CurrentUserID(c echo.Context) (uuid.UUID, *auth.Claims, error) {
	claims, err := CurrentClaims(c)
	if err != nil {
		return uuid.Nil, nil, err
	}
	id, perr := uuid.Parse(claims.UserID)
	if perr != nil {
		return uuid.Nil, nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token subject")
	}
	return id, claims, nil
}
