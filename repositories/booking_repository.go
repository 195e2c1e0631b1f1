package repositories

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/slotwatch/slotwatch_backend/config"
	"github.com/slotwatch/slotwatch_backend/models"
)

type BookingRepository struct {
	collection *mongo.Collection
}

func NewBookingRepository(db *mongo.Client) *BookingRepository {
	return &BookingRepository{
		collection: config.GetCollection(db, "bookings"),
	}
}

func (r *BookingRepository) Insert(ctx context.Context, booking *models.Booking) error {
	_, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}
	return nil
}

func (r *BookingRepository) FindByUsername(ctx context.Context, username string) ([]models.Booking, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"username": username})
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings by username: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

func (r *BookingRepository) FindByKey(ctx context.Context, key string) (*models.Booking, error) {
	var booking models.Booking
	err := r.collection.FindOne(ctx, bson.M{"key": key}).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking by key: %w", err)
	}
	return &booking, nil
}

// FindFlat looks up a flat booking by an exact match on all request fields.
// Used as the duplicate check before inserting a flat booking.
func (r *BookingRepository) FindFlat(ctx context.Context, req models.FlatBookingRequest) (*models.Booking, error) {
	filter := bson.M{
		"propertyName":       req.PropertyName,
		"parentPropertyName": req.ParentPropertyName,
		"bookingDate":        req.Date,
		"time":               req.Time,
		"username":           req.Username,
		"organisationName":   req.OrganisationName,
	}

	var booking models.Booking
	err := r.collection.FindOne(ctx, filter).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}
	return &booking, nil
}

// FindByOrganisation returns bookings whose top-level organisationName
// matches, projected down to what the watchlist read path needs.
func (r *BookingRepository) FindByOrganisation(ctx context.Context, organisationName string) ([]models.Booking, error) {
	opts := options.Find().SetProjection(bson.M{
		"key":              1,
		"username":         1,
		"organisationName": 1,
		"watchlist":        1,
	})

	cursor, err := r.collection.Find(ctx, bson.M{"organisationName": organisationName}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings by organisation: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

// SetSlotApproval writes the new approval status for the matching watchlist
// entry with a targeted field update. Only the matching slot's
// approvalStatus is touched, so concurrent approvals of different slots in
// the same booking do not overwrite each other.
func (r *BookingRepository) SetSlotApproval(ctx context.Context, key, propertyName, parentPropertyName, status string) error {
	filter := bson.M{"key": key}
	update := bson.M{
		"$set": bson.M{
			"watchlist.$[slot].approvalStatus": status,
		},
	}
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{
			"slot.propertyName":       propertyName,
			"slot.parentPropertyName": parentPropertyName,
		}},
	})

	result, err := r.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("failed to update slot approval status: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
