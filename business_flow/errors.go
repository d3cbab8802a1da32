// Package businessflow contains the core business logic and use cases for the marketplace core
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Money split errors
	ErrInvalidAmount = errors.New("item total must be a non-negative integer amount")

	// OTP issuance errors
	ErrDispatchFailed    = errors.New("OTP dispatch failed")
	ErrTooManyOTPSends   = errors.New("too many OTP requests for this phone")
	ErrCacheNotAvailable = errors.New("cache not available")

	// OTP verification errors
	ErrNoActiveChallenge = errors.New("no active challenge for this phone")
	ErrOTPExpired        = errors.New("OTP has expired")
	ErrCodeMismatch      = errors.New("submitted code does not match")
	ErrTooManyAttempts   = errors.New("too many verification attempts")
	ErrInvalidOTPCode    = errors.New("invalid OTP code format")

	// Settlement errors
	ErrVendorNotFound        = errors.New("vendor not found")
	ErrVendorInactive        = errors.New("vendor is inactive")
	ErrVendorWalletNotFound  = errors.New("vendor wallet not found")
	ErrPlatformWalletMissing = errors.New("platform wallet not found")
	ErrAlreadySettled        = errors.New("order item already settled")

	// Filter errors
	ErrInvalidPage     = errors.New("page must be at least 1")
	ErrInvalidPageSize = errors.New("page size must be between 1 and 100")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func IsInvalidAmount(err error) bool {
	return errors.Is(err, ErrInvalidAmount)
}

func IsDispatchFailed(err error) bool {
	return errors.Is(err, ErrDispatchFailed)
}

func IsTooManyOTPSends(err error) bool {
	return errors.Is(err, ErrTooManyOTPSends)
}

func IsCacheNotAvailable(err error) bool {
	return errors.Is(err, ErrCacheNotAvailable)
}

func IsNoActiveChallenge(err error) bool {
	return errors.Is(err, ErrNoActiveChallenge)
}

func IsOTPExpired(err error) bool {
	return errors.Is(err, ErrOTPExpired)
}

func IsCodeMismatch(err error) bool {
	return errors.Is(err, ErrCodeMismatch)
}

func IsTooManyAttempts(err error) bool {
	return errors.Is(err, ErrTooManyAttempts)
}

func IsInvalidOTPCode(err error) bool {
	return errors.Is(err, ErrInvalidOTPCode)
}

func IsVendorNotFound(err error) bool {
	return errors.Is(err, ErrVendorNotFound)
}

func IsVendorInactive(err error) bool {
	return errors.Is(err, ErrVendorInactive)
}

func IsVendorWalletNotFound(err error) bool {
	return errors.Is(err, ErrVendorWalletNotFound)
}

func IsPlatformWalletMissing(err error) bool {
	return errors.Is(err, ErrPlatformWalletMissing)
}

func IsAlreadySettled(err error) bool {
	return errors.Is(err, ErrAlreadySettled)
}

func IsInvalidPage(err error) bool {
	return errors.Is(err, ErrInvalidPage)
}

func IsInvalidPageSize(err error) bool {
	return errors.Is(err, ErrInvalidPageSize)
}

// IsOTPRejection reports whether err is one of the verifier rejection reasons.
// Handlers collapse all of these into a single generic client-facing message
// so responses leak neither phone enumeration nor code-guessing signal.
func IsOTPRejection(err error) bool {
	return IsNoActiveChallenge(err) || IsOTPExpired(err) || IsCodeMismatch(err) || IsTooManyAttempts(err)
}
