// Package tests contains integration tests for the OTP authentication flow
package tests

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/amirphl/Susanoo/app/dto"
	"github.com/amirphl/Susanoo/app/services"
	businessflow "github.com/amirphl/Susanoo/business_flow"
	"github.com/amirphl/Susanoo/config"
	"github.com/amirphl/Susanoo/repository"
	testingutil "github.com/amirphl/Susanoo/testing"
	"github.com/amirphl/Susanoo/utils"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestOTPSendThrottle(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		mr := miniredis.RunT(t)
		rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		defer rc.Close()

		otpRepo := repository.NewOTPChallengeRepository(testDB.DB)
		mockSMS := services.NewMockSMSService()
		otpFlow := businessflow.NewOTPFlow(
			otpRepo,
			mockSMS,
			&config.CacheConfig{RedisPrefix: "susanoo-test:"},
			&config.SecurityConfig{BcryptCost: bcrypt.MinCost},
			testDB.DB,
			rc,
		)

		metadata := businessflow.NewClientMetadata("127.0.0.1", "Test User Agent")
		ctx := context.Background()
		phone := "+911234500000"

		t.Run("LimitAppliesPerPhone", func(t *testing.T) {
			for i := 0; i < utils.OTPSendLimit; i++ {
				_, err := otpFlow.RequestOTP(ctx, &dto.OTPRequest{Phone: phone}, metadata)
				require.NoError(t, err)
			}

			_, err := otpFlow.RequestOTP(ctx, &dto.OTPRequest{Phone: phone}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsTooManyOTPSends(err))

			// A throttled request dispatches nothing
			assert.Len(t, mockSMS.GetSentMessages(), utils.OTPSendLimit)

			// Other phones keep their own budget
			_, err = otpFlow.RequestOTP(ctx, &dto.OTPRequest{Phone: "+911234500001"}, metadata)
			require.NoError(t, err)
		})

		t.Run("WindowExpiryResetsBudget", func(t *testing.T) {
			// The counter TTL is set on the first send of the window
			assert.Equal(t, utils.OTPSendWindow, mr.TTL("susanoo-test:otp:sends:"+phone))

			mr.FastForward(utils.OTPSendWindow)

			_, err := otpFlow.RequestOTP(ctx, &dto.OTPRequest{Phone: phone}, metadata)
			require.NoError(t, err)
		})

		t.Run("RedisOutageSurfacesAsCacheUnavailable", func(t *testing.T) {
			mr.SetError("cache down")
			defer mr.SetError("")

			_, err := otpFlow.RequestOTP(ctx, &dto.OTPRequest{Phone: "+911234500002"}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsCacheNotAvailable(err))
		})

		return nil
	})
	require.NoError(t, err)
}
