// Package tests contains integration tests for the OTP authentication flow
package tests

import (
	"context"
	"strings"
	"testing"

	"github.com/amirphl/Susanoo/app/dto"
	"github.com/amirphl/Susanoo/app/services"
	businessflow "github.com/amirphl/Susanoo/business_flow"
	"github.com/amirphl/Susanoo/config"
	"github.com/amirphl/Susanoo/models"
	"github.com/amirphl/Susanoo/repository"
	testingutil "github.com/amirphl/Susanoo/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func buildPhoneFilter(phone string) models.OTPChallengeFilter {
	return models.OTPChallengeFilter{Phone: &phone}
}

// extractCode pulls the 6-digit code out of the dispatched SMS body
func extractCode(t *testing.T, message string) string {
	t.Helper()

	const prefix = "Your verification code is: "
	idx := strings.Index(message, prefix)
	require.GreaterOrEqual(t, idx, 0, "SMS body %q does not carry a code", message)

	code := message[idx+len(prefix) : idx+len(prefix)+6]
	require.Len(t, code, 6)
	return code
}

func newTestOTPFlow(testDB *testingutil.TestDB, sms services.SMSService) businessflow.OTPFlow {
	otpRepo := repository.NewOTPChallengeRepository(testDB.DB)

	cacheConfig := &config.CacheConfig{RedisPrefix: "susanoo-test:"}
	securityConfig := &config.SecurityConfig{BcryptCost: bcrypt.MinCost}

	// No redis client: the issuance throttle is skipped, which is the
	// documented degraded mode
	return businessflow.NewOTPFlow(otpRepo, sms, cacheConfig, securityConfig, testDB.DB, nil)
}

func TestOTPFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		otpRepo := repository.NewOTPChallengeRepository(testDB.DB)
		mockSMS := services.NewMockSMSService()
		otpFlow := newTestOTPFlow(testDB, mockSMS)

		metadata := businessflow.NewClientMetadata("127.0.0.1", "Test User Agent")
		ctx := context.Background()

		t.Run("RequestAndVerifyRoundTrip", func(t *testing.T) {
			mockSMS.ClearSentMessages()
			phone := "+911234567890"

			reqResult, err := otpFlow.RequestOTP(ctx, &dto.OTPRequest{Phone: phone}, metadata)
			require.NoError(t, err)
			assert.True(t, reqResult.OTPSent)
			assert.Equal(t, 300, reqResult.ExpiresIn)
			assert.NotContains(t, reqResult.MaskedPhone, "345678", "masked phone must hide middle digits")

			sent := mockSMS.GetSentMessages()
			require.Len(t, sent, 1)
			assert.Equal(t, phone, sent[0].Recipient)
			code := extractCode(t, sent[0].Message)

			verifyResult, err := otpFlow.VerifyOTP(ctx, &dto.OTPVerifyRequest{Phone: phone, Code: code}, metadata)
			require.NoError(t, err)
			assert.True(t, verifyResult.Authenticated)
			assert.Equal(t, phone, verifyResult.Phone)

			// The challenge is single use
			_, err = otpFlow.VerifyOTP(ctx, &dto.OTPVerifyRequest{Phone: phone, Code: code}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsNoActiveChallenge(err))
		})

		t.Run("WrongCodeIsRejected", func(t *testing.T) {
			mockSMS.ClearSentMessages()
			phone := "+911234567891"

			_, err := otpFlow.RequestOTP(ctx, &dto.OTPRequest{Phone: phone}, metadata)
			require.NoError(t, err)

			sent := mockSMS.GetSentMessages()
			require.Len(t, sent, 1)
			code := extractCode(t, sent[0].Message)

			wrong := "000000"
			if wrong == code {
				wrong = "000001"
			}

			_, err = otpFlow.VerifyOTP(ctx, &dto.OTPVerifyRequest{Phone: phone, Code: wrong}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsCodeMismatch(err))

			// The right code still works after one failed guess
			verifyResult, err := otpFlow.VerifyOTP(ctx, &dto.OTPVerifyRequest{Phone: phone, Code: code}, metadata)
			require.NoError(t, err)
			assert.True(t, verifyResult.Authenticated)
		})

		t.Run("AttemptBudgetIsEnforced", func(t *testing.T) {
			mockSMS.ClearSentMessages()
			phone := "+911234567892"

			_, err := otpFlow.RequestOTP(ctx, &dto.OTPRequest{Phone: phone}, metadata)
			require.NoError(t, err)

			sent := mockSMS.GetSentMessages()
			require.Len(t, sent, 1)
			code := extractCode(t, sent[0].Message)

			wrong := "000000"
			if wrong == code {
				wrong = "000001"
			}

			// Burn the full attempt budget with wrong guesses
			for i := 0; i < 5; i++ {
				_, err = otpFlow.VerifyOTP(ctx, &dto.OTPVerifyRequest{Phone: phone, Code: wrong}, metadata)
				require.Error(t, err)
				assert.True(t, businessflow.IsCodeMismatch(err))
			}

			// Even the correct code is rejected once the budget is exhausted
			_, err = otpFlow.VerifyOTP(ctx, &dto.OTPVerifyRequest{Phone: phone, Code: code}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsTooManyAttempts(err))
		})

		t.Run("ExpiredChallengeIsRejected", func(t *testing.T) {
			fixtures := testingutil.NewTestFixtures(testDB)
			phone := "+911234567893"

			_, err := fixtures.CreateExpiredChallenge(phone, "123456")
			require.NoError(t, err)

			_, err = otpFlow.VerifyOTP(ctx, &dto.OTPVerifyRequest{Phone: phone, Code: "123456"}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsOTPExpired(err))

			// The rejected attempt still counted
			challenge, err := otpRepo.ActiveByPhone(ctx, phone)
			require.NoError(t, err)
			require.NotNil(t, challenge)
			assert.Equal(t, 1, challenge.AttemptsCount)
		})

		t.Run("ReissueReplacesChallenge", func(t *testing.T) {
			mockSMS.ClearSentMessages()
			phone := "+911234567894"

			_, err := otpFlow.RequestOTP(ctx, &dto.OTPRequest{Phone: phone}, metadata)
			require.NoError(t, err)
			_, err = otpFlow.RequestOTP(ctx, &dto.OTPRequest{Phone: phone}, metadata)
			require.NoError(t, err)

			sent := mockSMS.GetSentMessages()
			require.Len(t, sent, 2)
			firstCode := extractCode(t, sent[0].Message)
			secondCode := extractCode(t, sent[1].Message)

			// At most one live challenge per phone
			count, err := otpRepo.Count(ctx, buildPhoneFilter(phone))
			require.NoError(t, err)
			assert.Equal(t, int64(1), count)

			// The first code is dead unless the two random codes happened to collide
			if firstCode != secondCode {
				_, err = otpFlow.VerifyOTP(ctx, &dto.OTPVerifyRequest{Phone: phone, Code: firstCode}, metadata)
				require.Error(t, err)
				assert.True(t, businessflow.IsCodeMismatch(err))
			}

			verifyResult, err := otpFlow.VerifyOTP(ctx, &dto.OTPVerifyRequest{Phone: phone, Code: secondCode}, metadata)
			require.NoError(t, err)
			assert.True(t, verifyResult.Authenticated)
		})

		t.Run("DispatchFailureKeepsChallenge", func(t *testing.T) {
			mockSMS.ClearSentMessages()
			phone := "+911234567895"

			mockSMS.FailNext = true
			_, err := otpFlow.RequestOTP(ctx, &dto.OTPRequest{Phone: phone}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsDispatchFailed(err))

			// The challenge was persisted before dispatch and stays valid
			challenge, err := otpRepo.ActiveByPhone(ctx, phone)
			require.NoError(t, err)
			assert.NotNil(t, challenge)
		})

		t.Run("MalformedCodeIsRejectedWithoutLookup", func(t *testing.T) {
			_, err := otpFlow.VerifyOTP(ctx, &dto.OTPVerifyRequest{Phone: "+911234567896", Code: "12345"}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsInvalidOTPCode(err))

			_, err = otpFlow.VerifyOTP(ctx, &dto.OTPVerifyRequest{Phone: "+911234567896", Code: "12345a"}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsInvalidOTPCode(err))
		})

		t.Run("NoChallengeIsRejected", func(t *testing.T) {
			_, err := otpFlow.VerifyOTP(ctx, &dto.OTPVerifyRequest{Phone: "+911234567897", Code: "123456"}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsNoActiveChallenge(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestGenerateOTP(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := businessflow.GenerateOTP()
		require.NoError(t, err)
		require.Len(t, code, 6)
		for _, ch := range code {
			assert.True(t, ch >= '0' && ch <= '9')
		}
	}
}
