package handlers

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/amirphl/Susanoo/app/dto"
	businessflow "github.com/amirphl/Susanoo/business_flow"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureOTPFlow records the context each call receives so tests can inspect
// its lifecycle after the handler returns
type captureOTPFlow struct {
	ctx       context.Context
	errAtCall error
}

func (f *captureOTPFlow) RequestOTP(ctx context.Context, req *dto.OTPRequest, metadata *businessflow.ClientMetadata) (*dto.OTPRequestResponse, error) {
	f.ctx = ctx
	f.errAtCall = ctx.Err()
	return &dto.OTPRequestResponse{
		Message:     "Verification code sent.",
		OTPSent:     true,
		MaskedPhone: "+91******7890",
		ExpiresIn:   300,
	}, nil
}

func (f *captureOTPFlow) VerifyOTP(ctx context.Context, req *dto.OTPVerifyRequest, metadata *businessflow.ClientMetadata) (*dto.OTPVerifyResponse, error) {
	f.ctx = ctx
	f.errAtCall = ctx.Err()
	return &dto.OTPVerifyResponse{Message: "Phone number verified.", Authenticated: true, Phone: req.Phone}, nil
}

func TestRequestContextLifecycle(t *testing.T) {
	flow := &captureOTPFlow{}
	handler := NewAuthHandler(flow)

	app := fiber.New()
	app.Post("/api/v1/auth/otp/request", handler.RequestOTP)

	req := httptest.NewRequest("POST", "/api/v1/auth/otp/request",
		strings.NewReader(`{"phone":"+911234567890"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.NotNil(t, flow.ctx)

	// Live while the flow runs, released as soon as the handler returns
	assert.NoError(t, flow.errAtCall)
	assert.ErrorIs(t, flow.ctx.Err(), context.Canceled)

	// Request-scoped values survive for inspection
	assert.Equal(t, "/api/v1/auth/otp/request", flow.ctx.Value("endpoint"))
}
