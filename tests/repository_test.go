// Package tests contains integration tests for the repository layer
package tests

import (
	"context"
	"testing"

	"github.com/amirphl/Susanoo/models"
	"github.com/amirphl/Susanoo/repository"
	testingutil "github.com/amirphl/Susanoo/testing"
	"github.com/amirphl/Susanoo/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOTPChallengeRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		otpRepo := repository.NewOTPChallengeRepository(testDB.DB)
		ctx := context.Background()

		newChallenge := func(phone string) *models.OTPChallenge {
			return &models.OTPChallenge{
				CorrelationID: uuid.New(),
				Phone:         phone,
				CodeHash:      "$2a$04$abcdefghijklmnopqrstuvwxyz012345678901234567890123456",
				MaxAttempts:   utils.OTPMaxAttempts,
				ExpiresAt:     utils.UTCNowAdd(utils.OTPExpiry),
			}
		}

		t.Run("ActiveByPhoneReturnsNilWhenAbsent", func(t *testing.T) {
			challenge, err := otpRepo.ActiveByPhone(ctx, "+911111111111")
			require.NoError(t, err)
			assert.Nil(t, challenge)
		})

		t.Run("SaveAndActiveByPhone", func(t *testing.T) {
			phone := "+911111111112"
			require.NoError(t, otpRepo.Save(ctx, newChallenge(phone)))

			challenge, err := otpRepo.ActiveByPhone(ctx, phone)
			require.NoError(t, err)
			require.NotNil(t, challenge)
			assert.Equal(t, phone, challenge.Phone)
			assert.Equal(t, 0, challenge.AttemptsCount)
			assert.Equal(t, utils.OTPMaxAttempts, challenge.MaxAttempts)
		})

		t.Run("DeleteAllForPhoneIsIdempotent", func(t *testing.T) {
			phone := "+911111111113"
			require.NoError(t, otpRepo.Save(ctx, newChallenge(phone)))

			require.NoError(t, otpRepo.DeleteAllForPhone(ctx, phone))
			// Deleting again is a no-op, not an error
			require.NoError(t, otpRepo.DeleteAllForPhone(ctx, phone))

			challenge, err := otpRepo.ActiveByPhone(ctx, phone)
			require.NoError(t, err)
			assert.Nil(t, challenge)
		})

		t.Run("IncrementAttemptsPersists", func(t *testing.T) {
			phone := "+911111111114"
			c := newChallenge(phone)
			require.NoError(t, otpRepo.Save(ctx, c))

			require.NoError(t, otpRepo.IncrementAttempts(ctx, c.ID))
			require.NoError(t, otpRepo.IncrementAttempts(ctx, c.ID))

			challenge, err := otpRepo.ActiveByPhone(ctx, phone)
			require.NoError(t, err)
			require.NotNil(t, challenge)
			assert.Equal(t, 2, challenge.AttemptsCount)
		})

		t.Run("PhoneUniquenessIsEnforced", func(t *testing.T) {
			phone := "+911111111115"
			require.NoError(t, otpRepo.Save(ctx, newChallenge(phone)))

			// A second live challenge for the same phone violates the unique index
			err := otpRepo.Save(ctx, newChallenge(phone))
			require.Error(t, err)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestWalletRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		walletRepo := repository.NewWalletRepository(testDB.DB)
		ctx := context.Background()

		t.Run("PlatformWalletAbsentReturnsNil", func(t *testing.T) {
			wallet, err := walletRepo.PlatformWallet(ctx)
			require.NoError(t, err)
			assert.Nil(t, wallet)
		})

		t.Run("PlatformWalletIsFoundByNilVendor", func(t *testing.T) {
			_, err := fixtures.CreatePlatformWallet()
			require.NoError(t, err)

			wallet, err := walletRepo.PlatformWallet(ctx)
			require.NoError(t, err)
			require.NotNil(t, wallet)
			assert.True(t, wallet.IsPlatform())
			assert.Equal(t, utils.PlatformWalletUUID, wallet.UUID.String())
		})

		t.Run("ByVendorIDFindsVendorWallet", func(t *testing.T) {
			vendor, created, err := fixtures.CreateTestVendor()
			require.NoError(t, err)

			wallet, err := walletRepo.ByVendorID(ctx, vendor.ID)
			require.NoError(t, err)
			require.NotNil(t, wallet)
			assert.Equal(t, created.UUID, wallet.UUID)
			assert.False(t, wallet.IsPlatform())
		})

		return nil
	})
	require.NoError(t, err)
}
