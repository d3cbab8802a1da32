// Package dto contains Data Transfer Objects for API request and response structures
package dto

// OTPRequest represents the request payload for issuing a verification code
type OTPRequest struct {
	Phone string `json:"phone" validate:"required,e164" example:"+911234567890"`
}

// OTPRequestResponse represents the response after a code has been issued.
// The code itself is never part of any response.
type OTPRequestResponse struct {
	Message     string `json:"message" example:"Verification code sent."`
	OTPSent     bool   `json:"otp_sent" example:"true"`
	MaskedPhone string `json:"masked_phone" example:"+9112****90"`
	ExpiresIn   int    `json:"expires_in" example:"300"`
}

// OTPVerifyRequest represents the request payload for verifying a code
type OTPVerifyRequest struct {
	Phone string `json:"phone" validate:"required,e164" example:"+911234567890"`
	Code  string `json:"code" validate:"required,len=6,numeric" example:"123456"`
}

// OTPVerifyResponse represents a successful verification decision
type OTPVerifyResponse struct {
	Message       string `json:"message" example:"Phone number verified."`
	Authenticated bool   `json:"authenticated" example:"true"`
	Phone         string `json:"phone" example:"+911234567890"`
	VerifiedAt    string `json:"verified_at" example:"2024-01-15T16:30:00Z"`
}

// Common error codes for OTP operations. Verification rejections share a
// single code so responses carry no signal about why a guess failed.
const (
	ErrorOTPThrottled      = "OTP_THROTTLED"
	ErrorOTPDispatchFailed = "OTP_DISPATCH_FAILED"
	ErrorOTPRejected       = "OTP_REJECTED"
)
