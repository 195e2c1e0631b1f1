package controllers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/slotwatch/slotwatch_backend/middleware"
	"github.com/slotwatch/slotwatch_backend/models"
	"github.com/slotwatch/slotwatch_backend/repositories"
)

// BookingStore is the persistence surface the booking flows need
type BookingStore interface {
	Insert(ctx context.Context, booking *models.Booking) error
	FindByUsername(ctx context.Context, username string) ([]models.Booking, error)
	FindByKey(ctx context.Context, key string) (*models.Booking, error)
	FindFlat(ctx context.Context, req models.FlatBookingRequest) (*models.Booking, error)
	FindByOrganisation(ctx context.Context, organisationName string) ([]models.Booking, error)
	SetSlotApproval(ctx context.Context, key, propertyName, parentPropertyName, status string) error
}

// BookingController handles booking-related API endpoints
type BookingController struct {
	bookings BookingStore
	logger   *log.Logger
}

// NewBookingController creates a new booking controller
func NewBookingController(bookings BookingStore) *BookingController {
	return &BookingController{
		bookings: bookings,
		logger:   log.New(os.Stdout, "[BOOKING] ", log.LstdFlags),
	}
}

// CreateBooking handles the creation of a watchlist booking aggregate
func (bc *BookingController) CreateBooking(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.BookingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Username and a non-empty watchlist are required",
		})
	}

	watchlist := make([]models.Slot, len(req.Watchlist))
	copy(watchlist, req.Watchlist)
	for i := range watchlist {
		if watchlist[i].ApprovalStatus == "" {
			watchlist[i].ApprovalStatus = models.SlotStatusPending
		}
	}

	booking := &models.Booking{
		Key:              uuid.NewString(),
		Username:         req.Username,
		OrganisationName: req.OrganisationName,
		Watchlist:        watchlist,
		Date:             time.Now(),
	}

	if err := bc.bookings.Insert(ctx, booking); err != nil {
		bc.logger.Printf("Failed to save booking: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to book",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Booking successful",
		Data:    booking,
	})
}

// CreateFlatBooking handles the single-reservation booking shape
func (bc *BookingController) CreateFlatBooking(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.FlatBookingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: fmt.Sprintf("%s is required", firstMissingField(err)),
		})
	}

	// Exact-match duplicate check across all request fields
	if _, err := bc.bookings.FindFlat(ctx, req); err == nil {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Booking already exists",
		})
	} else if !errors.Is(err, repositories.ErrNotFound) {
		bc.logger.Printf("Failed to check for duplicate booking: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to book",
		})
	}

	booking := &models.Booking{
		Key:                uuid.NewString(),
		Username:           req.Username,
		OrganisationName:   req.OrganisationName,
		PropertyName:       req.PropertyName,
		ParentPropertyName: req.ParentPropertyName,
		BookingDate:        req.Date,
		Time:               req.Time,
		Status:             models.SlotStatusConfirmed,
		Date:               time.Now(),
	}

	if err := bc.bookings.Insert(ctx, booking); err != nil {
		bc.logger.Printf("Failed to save booking: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to book",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Booking successful",
		Data:    booking,
	})
}

// GetBookingsByUsername returns all bookings for a user
func (bc *BookingController) GetBookingsByUsername(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	username := c.Param("username")

	bookings, err := bc.bookings.FindByUsername(ctx, username)
	if err != nil {
		bc.logger.Printf("Failed to fetch bookings: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch bookings",
		})
	}

	if len(bookings) == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "No bookings found for this username",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Bookings retrieved successfully",
		Data:    bookings,
	})
}

// GetUserBookings returns the bookings of the authenticated user
func (bc *BookingController) GetUserBookings(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	bookings, err := bc.bookings.FindByUsername(ctx, claims.Username)
	if err != nil {
		bc.logger.Printf("Failed to fetch bookings: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch bookings",
		})
	}

	if len(bookings) == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "No bookings found for this username",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Bookings retrieved successfully",
		Data:    bookings,
	})
}

// GetBookingByKey returns a single booking by its unique key
func (bc *BookingController) GetBookingByKey(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	key := c.Param("key")

	booking, err := bc.bookings.FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "No booking found with this key",
			})
		}
		bc.logger.Printf("Failed to fetch booking by key: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch booking",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Booking retrieved successfully",
		Data:    booking,
	})
}

// GetOrganisationWatchlist returns every watchlist entry of an
// organisation's bookings, flattened into one sequence in booking order
func (bc *BookingController) GetOrganisationWatchlist(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	organisationName := c.Param("organisationName")

	bookings, err := bc.bookings.FindByOrganisation(ctx, organisationName)
	if err != nil {
		bc.logger.Printf("Failed to fetch watchlist: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch watchlist",
		})
	}

	if len(bookings) == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "No watchlist items found for this organisation",
		})
	}

	// Bookings with empty watchlists still count as a match: the result
	// is then an empty sequence, not a not-found
	watchlist := make([]models.Slot, 0)
	for _, booking := range bookings {
		watchlist = append(watchlist, booking.Watchlist...)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Watchlist retrieved successfully",
		Data:    watchlist,
	})
}

// UpdateSlotApproval updates one watchlist entry's approval status inside
// the booking identified by key. Booking-not-found and slot-not-found are
// distinct failures; the slot write is a targeted field update so sibling
// slots are never rewritten.
func (bc *BookingController) UpdateSlotApproval(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	key := c.Param("key")
	propertyName := c.Param("propertyName")
	parentPropertyName := c.Param("parentPropertyName")

	var req models.ApprovalRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Approval status is required",
		})
	}

	booking, err := bc.bookings.FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "No booking found with this key",
			})
		}
		bc.logger.Printf("Failed to fetch booking for approval: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update slot approval status",
		})
	}

	found := false
	for _, slot := range booking.Watchlist {
		if slot.PropertyName == propertyName && slot.ParentPropertyName == parentPropertyName {
			found = true
			break
		}
	}
	if !found {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "No slot found to update",
		})
	}

	actor, err := middleware.ExtractUserID(c)
	if err != nil {
		actor = "unknown"
	}
	bc.logger.Printf("user %s set slot %s/%s in booking %s to %q", actor, propertyName, parentPropertyName, key, req.ApprovalStatus)

	if err := bc.bookings.SetSlotApproval(ctx, key, propertyName, parentPropertyName, req.ApprovalStatus); err != nil {
		bc.logger.Printf("Failed to update slot approval status: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update slot approval status",
		})
	}

	updated, err := bc.bookings.FindByKey(ctx, key)
	if err != nil {
		bc.logger.Printf("Failed to re-read booking after approval: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update slot approval status",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Slot approval status updated",
		Data:    updated,
	})
}

// firstMissingField names the first failed field in its JSON spelling
func firstMissingField(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		field := verrs[0].Field()
		return strings.ToLower(field[:1]) + field[1:]
	}
	return "request"
}
