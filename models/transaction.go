package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransactionType represents the type of ledger entry
type TransactionType string

const (
	TransactionTypeCommission   TransactionType = "commission"    // Platform's cut of an item sale
	TransactionTypeVendorPayout TransactionType = "vendor_payout" // Vendor's share of an item sale
)

// TransactionStatus represents the current status of a transaction
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusReversed  TransactionStatus = "reversed"
)

// Transaction represents an immutable ledger entry. The two legs of one item
// settlement share a CorrelationID and sum exactly to the item total.
type Transaction struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID          uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()" json:"uuid"`
	CorrelationID uuid.UUID `gorm:"type:uuid;index;not null" json:"correlation_id"` // Links the legs of one settlement

	// Transaction details
	Type     TransactionType   `gorm:"type:varchar(20);not null;index" json:"type"`
	Status   TransactionStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Amount   uint64            `gorm:"not null" json:"amount"` // Amount in paise
	Currency string            `gorm:"type:varchar(3);not null;default:'INR'" json:"currency"`

	WalletID uint `gorm:"not null;index" json:"wallet_id"`

	// Transaction metadata
	Description string          `gorm:"type:text" json:"description"`
	Metadata    json.RawMessage `gorm:"type:jsonb;default:'{}'" json:"metadata"`

	// Audit fields
	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	// Relationships
	Wallet Wallet `gorm:"foreignKey:WalletID;constraint:OnDelete:CASCADE" json:"wallet,omitempty"`
}

// BeforeCreate ensures UUID and CorrelationID are set
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.UUID == uuid.Nil {
		t.UUID = uuid.New()
	}
	if t.CorrelationID == uuid.Nil {
		t.CorrelationID = uuid.New()
	}
	return nil
}

// IsCompleted returns true if the transaction is in a final state
func (t *Transaction) IsCompleted() bool {
	return t.Status == TransactionStatusCompleted || t.Status == TransactionStatusReversed
}

func (Transaction) TableName() string {
	return "transactions"
}

// TransactionFilter represents filter criteria for transaction queries
type TransactionFilter struct {
	ID            *uint              `json:"id,omitempty"`
	UUID          *uuid.UUID         `json:"uuid,omitempty"`
	CorrelationID *uuid.UUID         `json:"correlation_id,omitempty"`
	Type          *TransactionType   `json:"type,omitempty"`
	Status        *TransactionStatus `json:"status,omitempty"`
	WalletID      *uint              `json:"wallet_id,omitempty"`
	CreatedAfter  *time.Time         `json:"created_after,omitempty"`
	CreatedBefore *time.Time         `json:"created_before,omitempty"`
}
