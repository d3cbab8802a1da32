// Package middleware contains HTTP middleware functions for request processing
package middleware

import (
	"crypto/subtle"

	"github.com/amirphl/Susanoo/app/dto"
	"github.com/gofiber/fiber/v3"
)

// InternalAuthMiddleware guards service-to-service endpoints with a shared
// API key. Settlement is initiated by the order system, never by clients, so
// these endpoints are not exposed to end users.
type InternalAuthMiddleware struct {
	apiKey string
}

// NewInternalAuthMiddleware creates a new internal authentication middleware
func NewInternalAuthMiddleware(apiKey string) *InternalAuthMiddleware {
	return &InternalAuthMiddleware{
		apiKey: apiKey,
	}
}

// Authenticate validates the internal API key header
func (m *InternalAuthMiddleware) Authenticate() fiber.Handler {
	return func(c fiber.Ctx) error {
		key := c.Get("X-Internal-API-Key")
		if key == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
				Success: false,
				Message: "Internal API key is required",
				Error: dto.ErrorDetail{
					Code: "MISSING_API_KEY",
				},
			})
		}

		if subtle.ConstantTimeCompare([]byte(key), []byte(m.apiKey)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
				Success: false,
				Message: "Invalid internal API key",
				Error: dto.ErrorDetail{
					Code: "INVALID_API_KEY",
				},
			})
		}

		return c.Next()
	}
}
