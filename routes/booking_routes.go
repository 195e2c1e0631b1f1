package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/slotwatch/slotwatch_backend/controllers"
	"github.com/slotwatch/slotwatch_backend/middleware"
)

// RegisterBookingRoutes sets up the JWT-protected booking routes
func RegisterBookingRoutes(e *echo.Echo, bookingController *controllers.BookingController) {
	r := e.Group("/api")
	r.Use(middleware.JWTMiddleware())

	r.POST("/bookings", bookingController.CreateBooking)
	r.POST("/booking", bookingController.CreateFlatBooking)
	r.GET("/bookings/user", bookingController.GetUserBookings)
	r.GET("/bookings/:username", bookingController.GetBookingsByUsername)
	r.GET("/bookings/key/:key", bookingController.GetBookingByKey)
	r.GET("/watchlist/organisation/:organisationName", bookingController.GetOrganisationWatchlist)
	r.PUT("/bookings/approve/:key/:propertyName/:parentPropertyName", bookingController.UpdateSlotApproval)
}
