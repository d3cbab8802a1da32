package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ItemSettlement records the server-computed commission split for one sold
// order item. OrderItemUUID carries a unique index so an item can never be
// settled twice; replays surface as a duplicate-key error, not double money.
type ItemSettlement struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID          uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()" json:"uuid"`
	CorrelationID uuid.UUID `gorm:"type:uuid;index;not null" json:"correlation_id"` // Shared with the two ledger legs

	OrderItemUUID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"order_item_uuid"`
	VendorID      uint      `gorm:"not null;index" json:"vendor_id"`

	// Amounts in paise. Invariant: Commission + VendorAmount == ItemTotal.
	ItemTotal         uint64 `gorm:"not null" json:"item_total"`
	Commission        uint64 `gorm:"not null" json:"commission"`
	VendorAmount      uint64 `gorm:"not null" json:"vendor_amount"`
	CommissionPercent int    `gorm:"not null" json:"commission_percent"` // Percent applied, for audit

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`

	// Relationships
	Vendor Vendor `gorm:"foreignKey:VendorID;constraint:OnDelete:CASCADE" json:"vendor,omitempty"`
}

// BeforeCreate ensures UUID and CorrelationID are set
func (s *ItemSettlement) BeforeCreate(tx *gorm.DB) error {
	if s.UUID == uuid.Nil {
		s.UUID = uuid.New()
	}
	if s.CorrelationID == uuid.Nil {
		s.CorrelationID = uuid.New()
	}
	return nil
}

func (ItemSettlement) TableName() string {
	return "item_settlements"
}

// ItemSettlementFilter represents filter criteria for settlement queries
type ItemSettlementFilter struct {
	ID            *uint      `json:"id,omitempty"`
	UUID          *uuid.UUID `json:"uuid,omitempty"`
	OrderItemUUID *uuid.UUID `json:"order_item_uuid,omitempty"`
	VendorID      *uint      `json:"vendor_id,omitempty"`
	CreatedAfter  *time.Time `json:"created_after,omitempty"`
	CreatedBefore *time.Time `json:"created_before,omitempty"`
}
