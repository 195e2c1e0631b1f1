package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/slotwatch/slotwatch_backend/middleware"
	"github.com/slotwatch/slotwatch_backend/models"
	"github.com/slotwatch/slotwatch_backend/repositories"
	"github.com/slotwatch/slotwatch_backend/utils"
)

// UserStore is the persistence surface the auth flows need
type UserStore interface {
	FindByPhone(ctx context.Context, phoneNumber string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	Insert(ctx context.Context, user *models.User) error
	SetVerified(ctx context.Context, phoneNumber string) error
}

// OTPSender dispatches verification codes out-of-band
type OTPSender interface {
	SendOTP(phoneNumber, otp string) error
}

// AuthController contains authentication logic
type AuthController struct {
	users   UserStore
	sms     OTPSender
	logger  *log.Logger
	otpEcho bool
}

// NewAuthController creates a new auth controller. When OTP_ECHO_ENABLED is
// set the registration response carries the plaintext verification code, a
// dev/test convenience that must stay off in production.
func NewAuthController(users UserStore, sms OTPSender) *AuthController {
	return &AuthController{
		users:   users,
		sms:     sms,
		logger:  log.New(os.Stdout, "[AUTH] ", log.LstdFlags),
		otpEcho: os.Getenv("OTP_ECHO_ENABLED") == "true",
	}
}

// Register handler
func (ac *AuthController) Register(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Username, phone number and password are required",
		})
	}

	// Reject duplicates on both unique identities before inserting
	if _, err := ac.users.FindByPhone(ctx, req.PhoneNumber); err == nil {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "User with this phone number already exists",
		})
	} else if !errors.Is(err, repositories.ErrNotFound) {
		ac.logger.Printf("Failed to check phone number: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error during registration",
		})
	}

	if _, err := ac.users.FindByUsername(ctx, req.Username); err == nil {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "User with this username already exists",
		})
	} else if !errors.Is(err, repositories.ErrNotFound) {
		ac.logger.Printf("Failed to check username: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error during registration",
		})
	}

	verificationCode, err := utils.GenerateOTP()
	if err != nil {
		ac.logger.Printf("Failed to generate verification code: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error during registration",
		})
	}

	userID, err := utils.GenerateUserID()
	if err != nil {
		ac.logger.Printf("Failed to generate user id: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error during registration",
		})
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		ac.logger.Printf("Failed to hash password: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error hashing password",
		})
	}

	user := &models.User{
		UserID:           userID,
		Username:         req.Username,
		PhoneNumber:      req.PhoneNumber,
		Password:         hashedPassword,
		VerificationCode: verificationCode,
		IsVerified:       false,
	}

	if err := ac.users.Insert(ctx, user); err != nil {
		ac.logger.Printf("Failed to insert user: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error during registration",
		})
	}

	if err := ac.sms.SendOTP(req.PhoneNumber, verificationCode); err != nil {
		ac.logger.Printf("Failed to send verification code to %s: %v", req.PhoneNumber, err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to send verification code",
		})
	}

	data := map[string]interface{}{
		"userId": userID,
	}
	if ac.otpEcho {
		data["verificationCode"] = verificationCode
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Verification code sent",
		Data:    data,
	})
}

// VerifyPhone handler
func (ac *AuthController) VerifyPhone(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.VerifyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Phone number and verification code are required",
		})
	}

	user, err := ac.users.FindByPhone(ctx, req.PhoneNumber)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "User not found",
			})
		}
		ac.logger.Printf("Failed to find user for verification: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error during verification",
		})
	}

	// One-shot exact compare against whatever code sits on the record
	if user.VerificationCode == "" || req.VerificationCode != user.VerificationCode {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid verification code",
		})
	}

	if err := ac.users.SetVerified(ctx, req.PhoneNumber); err != nil {
		ac.logger.Printf("Failed to mark user verified: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error during verification",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Phone number verified successfully",
	})
}

// Login handler
func (ac *AuthController) Login(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Username and password are required",
		})
	}

	// Unknown username and wrong password return the same generic message
	user, err := ac.users.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, models.Response{
				Status:  http.StatusUnauthorized,
				Message: "Invalid credentials",
			})
		}
		ac.logger.Printf("Failed to find user for login: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error during login",
		})
	}

	if err := utils.CheckPassword(req.Password, user.Password); err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid credentials",
		})
	}

	if !user.IsVerified {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Phone number not verified",
		})
	}

	token, err := middleware.GenerateJWT(user.UserID, user.Username)
	if err != nil {
		ac.logger.Printf("Failed to generate token: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate token",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Login successful",
		Data: map[string]interface{}{
			"token":  token,
			"userId": user.UserID,
		},
	})
}
