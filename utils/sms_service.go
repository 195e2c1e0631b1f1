package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// SMSService handles SMS sending through an HTTP SMS gateway API
type SMSService struct {
	Username string
	Password string
	SenderID string
	APIPath  string
	Client   *http.Client
}

// SMSResponse represents the response from the SMS gateway API
type SMSResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		MessageID string `json:"message_id"`
		Cost      string `json:"cost"`
	} `json:"data"`
}

// NewSMSService creates a new SMS service instance configured from the
// environment (SMS_API_URL, SMS_USERNAME, SMS_PASSWORD, SMS_SENDER_ID)
func NewSMSService() *SMSService {
	return &SMSService{
		Username: os.Getenv("SMS_USERNAME"),
		Password: os.Getenv("SMS_PASSWORD"),
		SenderID: os.Getenv("SMS_SENDER_ID"),
		APIPath:  os.Getenv("SMS_API_URL"),
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SendOTP sends a verification code via the SMS gateway
func (s *SMSService) SendOTP(phoneNumber, otp string) error {
	if !strings.HasPrefix(phoneNumber, "+") {
		phoneNumber = "+" + phoneNumber
	}

	params := url.Values{}
	params.Set("username", s.Username)
	params.Set("password", s.Password)
	params.Set("senderid", s.SenderID)
	params.Set("destination", phoneNumber)
	params.Set("message", fmt.Sprintf("Your verification code is %s", otp))
	params.Set("template", "otp")
	params.Set("variables", otp)

	fullURL := fmt.Sprintf("%s?%s", s.APIPath, params.Encode())

	req, err := http.NewRequest("POST", fullURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send SMS request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("SMS API returned status %d: %s", resp.StatusCode, string(body))
	}

	var smsResp SMSResponse
	if err := json.Unmarshal(body, &smsResp); err != nil {
		// Some gateways answer with a bare text line on success
		responseStr := strings.TrimSpace(string(body))
		if strings.Contains(strings.ToLower(responseStr), "success") ||
			strings.Contains(strings.ToLower(responseStr), "sent") {
			return nil
		}
		return fmt.Errorf("failed to parse SMS response: %w", err)
	}

	if smsResp.Status == "success" || smsResp.Status == "sent" {
		return nil
	}

	return fmt.Errorf("SMS sending failed: %s", smsResp.Message)
}
