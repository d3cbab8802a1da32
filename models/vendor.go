package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Vendor represents a marketplace seller who receives payouts from item sales
type Vendor struct {
	ID   uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()" json:"uuid"`

	Name     string `gorm:"size:255;not null" json:"name"`
	Phone    string `gorm:"size:20;not null;uniqueIndex" json:"phone"`
	IsActive *bool  `gorm:"not null;default:true;index" json:"is_active"`

	// Audit fields
	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	// Relationships
	Wallet      *Wallet          `gorm:"foreignKey:VendorID" json:"wallet,omitempty"`
	Settlements []ItemSettlement `gorm:"foreignKey:VendorID" json:"settlements,omitempty"`
}

// BeforeCreate ensures UUID is set
func (v *Vendor) BeforeCreate(tx *gorm.DB) error {
	if v.UUID == uuid.Nil {
		v.UUID = uuid.New()
	}
	return nil
}

func (Vendor) TableName() string {
	return "vendors"
}

// VendorFilter represents filter criteria for vendor queries
type VendorFilter struct {
	ID       *uint      `json:"id,omitempty"`
	UUID     *uuid.UUID `json:"uuid,omitempty"`
	Phone    *string    `json:"phone,omitempty"`
	IsActive *bool      `json:"is_active,omitempty"`
}
