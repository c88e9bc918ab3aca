package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"smartmess/internal/config"
	"smartmess/internal/errors"
	"smartmess/internal/handler"
	"smartmess/internal/model"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	menuHandler *handler.MenuHandler,
	bookingHandler *handler.BookingHandler,
	checkinHandler *handler.CheckinHandler,
	nutritionHandler *handler.NutritionHandler,
	analyticsHandler *handler.AnalyticsHandler,
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
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/logout", authHandler.Logout)

	// Secured routes (require JWT authentication)
	// The cut-prefix matters: without it the literal "Bearer <token>"
	// string reaches the parser and every well-formed credential 401s.
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
	}))

	secured.GET("/me", authHandler.Me)

	// Menu and voting routes
	secured.GET("/menu/weekly", menuHandler.GetWeeklyMenu)
	secured.POST("/menu/vote", menuHandler.CastVote)
	secured.GET("/menu/votes/user", menuHandler.UserVotes)

	// Booking routes
	secured.POST("/bookings", bookingHandler.CreateBooking)
	secured.POST("/bookings/cancel", bookingHandler.CancelBooking)
	secured.GET("/bookings/user", bookingHandler.UserBookings)
	secured.POST("/meal/waste-rating", bookingHandler.SubmitWasteRating)

	// Nutrition routes
	secured.GET("/nutrition/advice", nutritionHandler.GetAdvice)
	secured.POST("/meals/generate-image", nutritionHandler.GenerateMealImage)

	// Check-in requires a staff or admin token
	secured.POST("/checkin", checkinHandler.CheckIn, requireRole(model.RoleStaff, model.RoleAdmin))

	// Admin routes
	secured.GET("/admin/analytics", analyticsHandler.Overview, requireRole(model.RoleAdmin))
}

// requireRole rejects authenticated requests whose token role is not
// one of the allowed roles.
func requireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			role, _ := claims["role"].(string)
			for _, allowed := range roles {
				if role == allowed {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, errors.ErrorResponse{
				Error: "insufficient role",
				Code:  "FORBIDDEN",
			})
		}
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
