package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Slot approval statuses. The field is an open enum: clients may send other
// values and the approval endpoint stores them as-is.
const (
	SlotStatusPending   = "pending"
	SlotStatusConfirmed = "confirmed"
	SlotStatusRejected  = "rejected"
)

// Slot is a single watchlist entry inside a booking.
type Slot struct {
	PropertyName       string `json:"propertyName" bson:"propertyName"`
	ParentPropertyName string `json:"parentPropertyName" bson:"parentPropertyName"`
	OrganisationName   string `json:"organisationName,omitempty" bson:"organisationName,omitempty"`
	Date               string `json:"date,omitempty" bson:"date,omitempty"`
	Time               string `json:"time,omitempty" bson:"time,omitempty"`
	ApprovalStatus     string `json:"approvalStatus" bson:"approvalStatus"`
}

// Booking model. Two shapes share this struct and the bookings collection:
// the watchlist aggregate (key + watchlist) and the flat single-reservation
// record (propertyName/parentPropertyName/bookingDate/time + status).
type Booking struct {
	ID                 primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Key                string             `json:"key" bson:"key"`
	Username           string             `json:"username" bson:"username"`
	OrganisationName   string             `json:"organisationName,omitempty" bson:"organisationName,omitempty"`
	PropertyName       string             `json:"propertyName,omitempty" bson:"propertyName,omitempty"`
	ParentPropertyName string             `json:"parentPropertyName,omitempty" bson:"parentPropertyName,omitempty"`
	BookingDate        string             `json:"bookingDate,omitempty" bson:"bookingDate,omitempty"`
	Time               string             `json:"time,omitempty" bson:"time,omitempty"`
	Status             string             `json:"status,omitempty" bson:"status,omitempty"`
	Watchlist          []Slot             `json:"watchlist,omitempty" bson:"watchlist,omitempty"`
	Date               time.Time          `json:"date" bson:"date"`
}

// BookingRequest is the aggregate creation shape
type BookingRequest struct {
	Username         string `json:"username" validate:"required"`
	OrganisationName string `json:"organisationName"`
	Watchlist        []Slot `json:"watchlist" validate:"required,min=1"`
}

// FlatBookingRequest is the single-reservation creation shape
type FlatBookingRequest struct {
	PropertyName       string `json:"propertyName" validate:"required"`
	ParentPropertyName string `json:"parentPropertyName" validate:"required"`
	Date               string `json:"date" validate:"required"`
	Time               string `json:"time" validate:"required"`
	Username           string `json:"username" validate:"required"`
	OrganisationName   string `json:"organisationName" validate:"required"`
}

// ApprovalRequest model for updating a slot's approval status
type ApprovalRequest struct {
	ApprovalStatus string `json:"approvalStatus" validate:"required"`
}
