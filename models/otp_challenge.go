// Package models contains domain entities and business models for the marketplace core
package models

import (
	"time"

	"github.com/google/uuid"
)

// OTPChallenge is the persisted record of an issued OTP: the bcrypt hash of the
// code plus expiry and attempt bookkeeping. The plaintext code is never stored.
// At most one challenge exists per phone at any instant; issuing a new one
// hard-deletes the old row.
type OTPChallenge struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CorrelationID uuid.UUID `gorm:"type:uuid;not null;index:idx_otp_challenges_correlation_id" json:"correlation_id"` // Groups log lines of one issuance
	Phone         string    `gorm:"size:20;not null;uniqueIndex:idx_otp_challenges_phone" json:"phone"`
	CodeHash      string    `gorm:"size:72;not null" json:"-"` // Never serialize the hash
	AttemptsCount int       `gorm:"default:0" json:"attempts_count"`
	MaxAttempts   int       `gorm:"default:5" json:"max_attempts"`
	CreatedAt     time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	ExpiresAt     time.Time `gorm:"not null;index:idx_otp_challenges_expires_at" json:"expires_at"`
}

func (OTPChallenge) TableName() string {
	return "otp_challenges"
}

// OTPChallengeFilter represents filter criteria for OTP challenge queries
type OTPChallengeFilter struct {
	ID            *uint
	Phone         *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	ExpiresAfter  *time.Time
	ExpiresBefore *time.Time
}

func (c *OTPChallenge) IsExpired() bool {
	return time.Now().UTC().After(c.ExpiresAt)
}

func (c *OTPChallenge) CanAttempt() bool {
	return c.AttemptsCount < c.MaxAttempts
}
