// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"

	"github.com/amirphl/Susanoo/models"
	"github.com/google/uuid"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Count(ctx context.Context, filter F) (int64, error)
}

// OTPChallengeRepository defines operations for OTP challenges.
// The store never filters by expiry; callers check ExpiresAt themselves.
type OTPChallengeRepository interface {
	Repository[models.OTPChallenge, models.OTPChallengeFilter]
	ActiveByPhone(ctx context.Context, phone string) (*models.OTPChallenge, error)
	DeleteAllForPhone(ctx context.Context, phone string) error
	DeleteByPhone(ctx context.Context, phone string) error
	IncrementAttempts(ctx context.Context, id uint) error
}

// VendorRepository defines operations for vendors
type VendorRepository interface {
	Repository[models.Vendor, models.VendorFilter]
	ByUUID(ctx context.Context, uuid uuid.UUID) (*models.Vendor, error)
	ByPhone(ctx context.Context, phone string) (*models.Vendor, error)
}

// WalletRepository defines operations for wallets
type WalletRepository interface {
	Repository[models.Wallet, models.WalletFilter]
	ByUUID(ctx context.Context, uuid uuid.UUID) (*models.Wallet, error)
	ByVendorID(ctx context.Context, vendorID uint) (*models.Wallet, error)
	PlatformWallet(ctx context.Context) (*models.Wallet, error)
}

// TransactionRepository defines operations for ledger transactions
type TransactionRepository interface {
	Repository[models.Transaction, models.TransactionFilter]
	ByCorrelationID(ctx context.Context, correlationID uuid.UUID) ([]*models.Transaction, error)
}

// ItemSettlementRepository defines operations for item settlements
type ItemSettlementRepository interface {
	Repository[models.ItemSettlement, models.ItemSettlementFilter]
	ByOrderItemUUID(ctx context.Context, orderItemUUID uuid.UUID) (*models.ItemSettlement, error)
}
