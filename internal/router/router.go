package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"wearhouse/internal/auth"
	apperrors "wearhouse/internal/errors"
	"wearhouse/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	jwtService *auth.JWTService,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	productHandler *handler.ProductHandler,
	categoryHandler *handler.CategoryHandler,
	orderHandler *handler.OrderHandler,
	configHandler *handler.ConfigHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/users", authHandler.Register)
	api.POST("/users/login", authHandler.Login)
	api.POST("/users/refresh", authHandler.Refresh)
	api.POST("/users/logout", authHandler.Logout)
	api.GET("/products", productHandler.List)
	api.GET("/products/:id", productHandler.Get)
	api.GET("/categories", categoryHandler.List)
	api.GET("/config/paypal", configHandler.PaymentKey)

	// Secured routes (require a valid bearer token)
	secured := api.Group("", BearerAuth(jwtService))

	secured.GET("/users/profile", userHandler.Profile)
	secured.POST("/orders", orderHandler.Create)
	secured.GET("/orders/myorders", orderHandler.MyOrders)
	secured.GET("/orders/:id", orderHandler.Get)
	secured.PUT("/orders/:id/pay", orderHandler.Pay)

	// Admin routes: the single capability check gating every mutation of
	// the catalog and the all-orders listing.
	admin := secured.Group("", RequireAdmin)

	admin.POST("/products", productHandler.Create)
	admin.PUT("/products/:id", productHandler.Update)
	admin.DELETE("/products/:id", productHandler.Delete)
	admin.POST("/categories", categoryHandler.Create)
	admin.PUT("/categories/:id", categoryHandler.Update)
	admin.DELETE("/categories/:id", categoryHandler.Delete)
	admin.GET("/orders", orderHandler.List)
	admin.PUT("/orders/:id/deliver", orderHandler.Deliver)
}

// BearerAuth builds the JWT middleware that resolves bearer tokens into
// typed claims stored on the request context. Missing or invalid tokens
// yield 401.
func BearerAuth(jwtService *auth.JWTService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:" + echo.HeaderAuthorization,
		ParseTokenFunc: func(c echo.Context, raw string) (interface{}, error) {
			return jwtService.ValidateToken(raw)
		},
	})
}

// RequireAdmin rejects callers whose verified claims lack the administrator
// capability. Valid identity without privilege yields 403.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, err := handler.CurrentClaims(c)
		if err != nil {
			return err
		}
		if !claims.IsAdmin {
			return echo.NewHTTPError(http.StatusForbidden, apperrors.ErrorResponse{
				Error: "administrator access required",
				Code:  "FORBIDDEN",
			})
		}
		return next(c)
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
