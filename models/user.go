// models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User model
type User struct {
	ID               primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID           string             `json:"userId" bson:"userId"`
	Username         string             `json:"username" bson:"username"`
	PhoneNumber      string             `json:"phoneNumber" bson:"phoneNumber"`
	Password         string             `json:"password,omitempty" bson:"password"`
	VerificationCode string             `json:"-" bson:"verificationCode,omitempty"`
	IsVerified       bool               `json:"isVerified" bson:"isVerified"`
	CreatedAt        time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type RegisterRequest struct {
	Username    string `json:"username" validate:"required"`
	PhoneNumber string `json:"phoneNumber" validate:"required"`
	Password    string `json:"password" validate:"required"`
}

type VerifyRequest struct {
	PhoneNumber      string `json:"phoneNumber" validate:"required"`
	VerificationCode string `json:"verificationCode" validate:"required"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Response model
type Response struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
