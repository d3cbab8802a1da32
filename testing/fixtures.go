// Package testing provides test utilities and database setup for testing the marketplace core
package testing

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/amirphl/Susanoo/models"
	"github.com/amirphl/Susanoo/utils"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestVendor creates an active vendor with its wallet
func (tf *TestFixtures) CreateTestVendor() (*models.Vendor, *models.Wallet, error) {
	// Random phone with exactly 10 digits
	randomDigits := fmt.Sprintf("%010d", rand.Int63n(9000000000)+1000000000)

	vendor := &models.Vendor{
		UUID:     uuid.New(),
		Name:     fmt.Sprintf("Test Vendor %s", randomDigits[:4]),
		Phone:    fmt.Sprintf("+91%s", randomDigits),
		IsActive: utils.ToPtr(true),
	}

	if err := tf.DB.DB.Create(vendor).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to create test vendor: %w", err)
	}

	metadata, _ := json.Marshal(map[string]any{"type": "vendor_wallet"})

	wallet := &models.Wallet{
		UUID:     uuid.New(),
		VendorID: &vendor.ID,
		Metadata: metadata,
	}

	if err := tf.DB.DB.Create(wallet).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to create test vendor wallet: %w", err)
	}

	return vendor, wallet, nil
}

// CreateInactiveVendor creates a deactivated vendor with its wallet
func (tf *TestFixtures) CreateInactiveVendor() (*models.Vendor, *models.Wallet, error) {
	vendor, wallet, err := tf.CreateTestVendor()
	if err != nil {
		return nil, nil, err
	}

	if err := tf.DB.DB.Model(vendor).Update("is_active", false).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to deactivate test vendor: %w", err)
	}
	vendor.IsActive = utils.ToPtr(false)

	return vendor, wallet, nil
}

// CreatePlatformWallet creates the platform commission wallet
func (tf *TestFixtures) CreatePlatformWallet() (*models.Wallet, error) {
	metadata, _ := json.Marshal(map[string]any{"type": "platform_wallet"})

	wallet := &models.Wallet{
		UUID:     uuid.MustParse(utils.PlatformWalletUUID),
		VendorID: nil,
		Metadata: metadata,
	}

	if err := tf.DB.DB.Create(wallet).Error; err != nil {
		return nil, fmt.Errorf("failed to create platform wallet: %w", err)
	}

	return wallet, nil
}

// CreateTestChallenge creates an OTP challenge for the phone with the given
// plaintext code hashed the way the issuer hashes it
func (tf *TestFixtures) CreateTestChallenge(phone, code string) (*models.OTPChallenge, error) {
	codeHash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.MinCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash test code: %w", err)
	}

	challenge := &models.OTPChallenge{
		CorrelationID: uuid.New(),
		Phone:         phone,
		CodeHash:      string(codeHash),
		AttemptsCount: 0,
		MaxAttempts:   utils.OTPMaxAttempts,
		ExpiresAt:     time.Now().UTC().Add(utils.OTPExpiry),
	}

	if err := tf.DB.DB.Create(challenge).Error; err != nil {
		return nil, fmt.Errorf("failed to create test challenge: %w", err)
	}

	return challenge, nil
}

// CreateExpiredChallenge creates a challenge whose TTL has already elapsed
func (tf *TestFixtures) CreateExpiredChallenge(phone, code string) (*models.OTPChallenge, error) {
	challenge, err := tf.CreateTestChallenge(phone, code)
	if err != nil {
		return nil, err
	}

	expired := time.Now().UTC().Add(-time.Minute)
	if err := tf.DB.DB.Model(challenge).Update("expires_at", expired).Error; err != nil {
		return nil, fmt.Errorf("failed to expire test challenge: %w", err)
	}
	challenge.ExpiresAt = expired

	return challenge, nil
}
