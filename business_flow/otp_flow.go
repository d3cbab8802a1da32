// Package businessflow contains the core business logic and use cases for the marketplace core
package businessflow

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/amirphl/Susanoo/app/dto"
	"github.com/amirphl/Susanoo/app/services"
	"github.com/amirphl/Susanoo/config"
	"github.com/amirphl/Susanoo/models"
	"github.com/amirphl/Susanoo/repository"
	"github.com/amirphl/Susanoo/utils"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// OTPFlow handles issuance and verification of phone OTP challenges
type OTPFlow interface {
	RequestOTP(ctx context.Context, req *dto.OTPRequest, metadata *ClientMetadata) (*dto.OTPRequestResponse, error)
	VerifyOTP(ctx context.Context, req *dto.OTPVerifyRequest, metadata *ClientMetadata) (*dto.OTPVerifyResponse, error)
}

// OTPFlowImpl implements the OTP business flow
type OTPFlowImpl struct {
	otpRepo     repository.OTPChallengeRepository
	smsService  services.SMSService
	cacheConfig *config.CacheConfig
	bcryptCost  int
	db          *gorm.DB
	rc          *redis.Client
}

// NewOTPFlow creates a new OTP flow instance
func NewOTPFlow(
	otpRepo repository.OTPChallengeRepository,
	smsService services.SMSService,
	cacheConfig *config.CacheConfig,
	securityConfig *config.SecurityConfig,
	db *gorm.DB,
	rc *redis.Client,
) OTPFlow {
	cost := bcrypt.DefaultCost
	if securityConfig != nil && securityConfig.BcryptCost > 0 {
		cost = securityConfig.BcryptCost
	}

	return &OTPFlowImpl{
		otpRepo:     otpRepo,
		smsService:  smsService,
		cacheConfig: cacheConfig,
		bcryptCost:  cost,
		db:          db,
		rc:          rc,
	}
}

// RequestOTP issues a fresh challenge for the phone and dispatches the code.
// Any prior challenge for the phone is hard-deleted first, so at most one live
// challenge exists per phone. The plaintext code lives only inside this call;
// the single place it crosses the process boundary is the SMS dispatch.
//
// Two concurrent issuances for the same phone race on delete-then-insert: the
// later insert wins and the earlier code becomes unusable. Accepted behavior,
// not worked around with locking.
func (f *OTPFlowImpl) RequestOTP(ctx context.Context, req *dto.OTPRequest, metadata *ClientMetadata) (*dto.OTPRequestResponse, error) {
	if err := f.checkSendThrottle(ctx, req.Phone); err != nil {
		return nil, NewBusinessError("OTP_REQUEST_THROTTLED", "OTP request throttled", err)
	}

	code, err := GenerateOTP()
	if err != nil {
		return nil, NewBusinessError("OTP_GENERATION_FAILED", "OTP generation failed", err)
	}

	codeHash, err := bcrypt.GenerateFromPassword([]byte(code), f.bcryptCost)
	if err != nil {
		return nil, NewBusinessError("OTP_HASHING_FAILED", "OTP hashing failed", err)
	}

	// Persist before dispatch: if persistence fails no message is sent
	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		if err := f.otpRepo.DeleteAllForPhone(txCtx, req.Phone); err != nil {
			return err
		}

		challenge := &models.OTPChallenge{
			CorrelationID: uuid.New(),
			Phone:         req.Phone,
			CodeHash:      string(codeHash),
			AttemptsCount: 0,
			MaxAttempts:   utils.OTPMaxAttempts,
			ExpiresAt:     utils.UTCNowAdd(utils.OTPExpiry),
		}

		return f.otpRepo.Save(txCtx, challenge)
	})
	if err != nil {
		return nil, NewBusinessError("OTP_ISSUE_FAILED", "OTP issuance failed", err)
	}

	// Dispatch failure after persistence leaves the challenge valid; the caller
	// decides whether to re-issue (which replaces it).
	message := fmt.Sprintf("Your verification code is: %s. Valid for 5 minutes.", code)
	if err := f.smsService.SendOTP(ctx, req.Phone, message); err != nil {
		return nil, NewBusinessError("OTP_DISPATCH_FAILED", "OTP dispatch failed", fmt.Errorf("%w: %v", ErrDispatchFailed, err))
	}

	return &dto.OTPRequestResponse{
		Message:     "Verification code sent.",
		OTPSent:     true,
		MaskedPhone: utils.MaskPhone(req.Phone),
		ExpiresIn:   utils.OTPExpirySeconds,
	}, nil
}

// VerifyOTP resolves an authentication decision for a submitted code. Every
// rejected attempt counts against the challenge's attempt budget regardless of
// the rejection reason; a successful verification consumes the challenge.
//
// Deliberately not wrapped in a transaction: the attempt increment must
// survive a rejection, so each write commits on its own.
func (f *OTPFlowImpl) VerifyOTP(ctx context.Context, req *dto.OTPVerifyRequest, metadata *ClientMetadata) (*dto.OTPVerifyResponse, error) {
	if err := validateOTPCodeFormat(req.Code); err != nil {
		return nil, NewBusinessError("OTP_VERIFICATION_VALIDATION_FAILED", "OTP verification validation failed", err)
	}

	challenge, err := f.otpRepo.ActiveByPhone(ctx, req.Phone)
	if err != nil {
		return nil, NewBusinessError("OTP_VERIFICATION_FAILED", "OTP verification failed", err)
	}
	if challenge == nil {
		return nil, NewBusinessError("OTP_VERIFICATION_FAILED", "OTP verification failed", ErrNoActiveChallenge)
	}

	if !challenge.CanAttempt() {
		return nil, NewBusinessError("OTP_VERIFICATION_FAILED", "OTP verification failed", ErrTooManyAttempts)
	}

	// Burn an attempt before the outcome is known so expiry and mismatch
	// rejections both count against the budget
	if err := f.otpRepo.IncrementAttempts(ctx, challenge.ID); err != nil {
		return nil, NewBusinessError("OTP_VERIFICATION_FAILED", "OTP verification failed", err)
	}

	if challenge.IsExpired() {
		return nil, NewBusinessError("OTP_VERIFICATION_FAILED", "OTP verification failed", ErrOTPExpired)
	}

	// bcrypt comparison is constant-time over the full digest
	if err := bcrypt.CompareHashAndPassword([]byte(challenge.CodeHash), []byte(req.Code)); err != nil {
		return nil, NewBusinessError("OTP_VERIFICATION_FAILED", "OTP verification failed", ErrCodeMismatch)
	}

	// Single use: consume the challenge
	if err := f.otpRepo.DeleteByPhone(ctx, req.Phone); err != nil {
		return nil, NewBusinessError("OTP_VERIFICATION_FAILED", "OTP verification failed", err)
	}

	return &dto.OTPVerifyResponse{
		Message:       "Phone number verified.",
		Authenticated: true,
		Phone:         req.Phone,
		VerifiedAt:    utils.UTCNow().Format(time.RFC3339),
	}, nil
}

// checkSendThrottle enforces the per-phone issuance limit via Redis. When no
// cache is configured the throttle is skipped; the per-challenge attempt
// budget still bounds verification brute force.
func (f *OTPFlowImpl) checkSendThrottle(ctx context.Context, phone string) error {
	if f.rc == nil {
		return nil
	}

	key := f.sendThrottleKey(phone)
	count, err := f.rc.Incr(ctx, key).Result()
	if err != nil {
		return ErrCacheNotAvailable
	}
	if count == 1 {
		_ = f.rc.Expire(ctx, key, utils.OTPSendWindow).Err()
	}
	if count > utils.OTPSendLimit {
		return ErrTooManyOTPSends
	}

	return nil
}

func (f *OTPFlowImpl) sendThrottleKey(phone string) string {
	prefix := "susanoo:"
	if f.cacheConfig != nil && f.cacheConfig.RedisPrefix != "" {
		prefix = f.cacheConfig.RedisPrefix
	}
	return prefix + "otp:sends:" + phone
}

func validateOTPCodeFormat(code string) error {
	if len(code) != 6 {
		return ErrInvalidOTPCode
	}
	if _, err := strconv.Atoi(code); err != nil {
		return ErrInvalidOTPCode
	}
	return nil
}

// GenerateOTP returns a secure 6-digit code uniform over [100000, 999999]
// using crypto/rand and math/big
func GenerateOTP() (string, error) {
	return generateOTP(rand.Reader)
}

func generateOTP(r io.Reader) (string, error) {
	// 900000 possible codes; rand.Int draws from [0, 900000) so the offset
	// makes both bounds reachable
	n, err := rand.Int(r, big.NewInt(900000))
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
