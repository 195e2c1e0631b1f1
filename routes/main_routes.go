package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/slotwatch/slotwatch_backend/controllers"
)

// SetupRoutes configures all API routes by calling individual route registration functions
func SetupRoutes(e *echo.Echo, authController *controllers.AuthController, bookingController *controllers.BookingController) {
	RegisterAuthRoutes(e, authController)
	RegisterBookingRoutes(e, bookingController)
}
