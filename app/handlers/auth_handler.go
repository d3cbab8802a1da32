// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"log"
	"time"

	"github.com/amirphl/Susanoo/app/dto"
	"github.com/amirphl/Susanoo/app/middleware"
	businessflow "github.com/amirphl/Susanoo/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// AuthHandlerInterface defines the contract for authentication handlers
type AuthHandlerInterface interface {
	RequestOTP(c fiber.Ctx) error
	VerifyOTP(c fiber.Ctx) error
}

// AuthHandler handles phone authentication HTTP requests
type AuthHandler struct {
	otpFlow   businessflow.OTPFlow
	validator *validator.Validate
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(otpFlow businessflow.OTPFlow) *AuthHandler {
	return &AuthHandler{
		otpFlow:   otpFlow,
		validator: validator.New(),
	}
}

func (h *AuthHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *AuthHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// RequestOTP issues a verification code for the submitted phone number
func (h *AuthHandler) RequestOTP(c fiber.Ctx) error {
	var req dto.OTPRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	metadata.SetRequestID(c.Get(businessflow.RequestIDKey))

	ctx, cancel := h.createRequestContext(c, "/api/v1/auth/otp/request")
	defer cancel()

	result, err := h.otpFlow.RequestOTP(ctx, &req, metadata)
	if err != nil {
		if businessflow.IsTooManyOTPSends(err) {
			return h.ErrorResponse(c, fiber.StatusTooManyRequests, "Too many verification code requests", dto.ErrorOTPThrottled, nil)
		}
		if businessflow.IsDispatchFailed(err) {
			log.Println("OTP dispatch failed", err)
			return h.ErrorResponse(c, fiber.StatusBadGateway, "Failed to send verification code", dto.ErrorOTPDispatchFailed, nil)
		}

		log.Println("OTP request failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "OTP request failed", "OTP_REQUEST_FAILED", nil)
	}

	middleware.OTPIssuedTotal.Inc()

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, fiber.Map{
		"otp_sent":     result.OTPSent,
		"masked_phone": result.MaskedPhone,
		"expires_in":   result.ExpiresIn,
	})
}

// VerifyOTP resolves an authentication decision for a submitted code. All
// rejection reasons map to one generic response so replies carry no signal
// about whether a challenge exists or how close a guess was.
func (h *AuthHandler) VerifyOTP(c fiber.Ctx) error {
	var req dto.OTPVerifyRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	metadata.SetRequestID(c.Get(businessflow.RequestIDKey))

	ctx, cancel := h.createRequestContext(c, "/api/v1/auth/otp/verify")
	defer cancel()

	result, err := h.otpFlow.VerifyOTP(ctx, &req, metadata)
	if err != nil {
		if businessflow.IsOTPRejection(err) || businessflow.IsInvalidOTPCode(err) {
			// Specific reason goes to the log only
			log.Println("OTP verification rejected", err)
			middleware.OTPVerificationsTotal.WithLabelValues("rejected").Inc()
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid or expired verification code", dto.ErrorOTPRejected, nil)
		}

		log.Println("OTP verification failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "OTP verification failed", "OTP_VERIFICATION_FAILED", nil)
	}

	middleware.OTPVerificationsTotal.WithLabelValues("success").Inc()

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, fiber.Map{
		"authenticated": result.Authenticated,
		"phone":         result.Phone,
		"verified_at":   result.VerifiedAt,
	})
}

// createRequestContext creates a context with timeout and request-scoped
// values. The caller must cancel once the flow returns so the timer is
// released immediately instead of at the deadline.
func (h *AuthHandler) createRequestContext(c fiber.Ctx, endpoint string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

	ctx = context.WithValue(ctx, "request_id", c.Get(businessflow.RequestIDKey))
	ctx = context.WithValue(ctx, "ip_address", c.IP())
	ctx = context.WithValue(ctx, "endpoint", endpoint)

	return ctx, cancel
}
