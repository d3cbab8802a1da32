package utils

import (
	"time"
)

// OTP constants
const (
	// OTPExpiry is the time-to-live for OTP challenges (5 minutes)
	OTPExpiry = 5 * time.Minute

	// OTPExpirySeconds is the time-to-live for OTP challenges in seconds (300 seconds = 5 minutes)
	OTPExpirySeconds = 300

	// OTPMaxAttempts is the number of verification attempts allowed per challenge
	OTPMaxAttempts = 5

	// OTPSendLimit is the number of OTP dispatches allowed per phone per window
	OTPSendLimit = 3

	// OTPSendWindow is the sliding window for the dispatch throttle
	OTPSendWindow = 10 * time.Minute
)

// Money and settlement constants
const (
	// PaiseCurrency is the ISO code for the currency whose smallest unit (paise) all amounts are kept in
	PaiseCurrency = "INR"

	// DefaultCommissionPercent is applied when PLATFORM_COMMISSION_PERCENT is absent or malformed
	DefaultCommissionPercent = 10

	// PlatformWalletUUID is the UUID of the platform commission wallet
	PlatformWalletUUID = "7c9e4a2d-51f0-4b6e-9c3a-8f1d2b7e6a05"
)

// Pagination constants
const (
	// DefaultPageSize is used when a listing request omits page_size
	DefaultPageSize = 20

	// MaxPageSize caps page_size on listing requests
	MaxPageSize = 100
)

// CORS and security constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)
