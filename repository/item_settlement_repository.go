// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"errors"

	"github.com/amirphl/Susanoo/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ItemSettlementRepositoryImpl implements ItemSettlementRepository interface
type ItemSettlementRepositoryImpl struct {
	*BaseRepository[models.ItemSettlement, models.ItemSettlementFilter]
}

// NewItemSettlementRepository creates a new item settlement repository
func NewItemSettlementRepository(db *gorm.DB) ItemSettlementRepository {
	return &ItemSettlementRepositoryImpl{
		BaseRepository: NewBaseRepository[models.ItemSettlement, models.ItemSettlementFilter](db),
	}
}

// ByOrderItemUUID retrieves the settlement for an order item, or nil if the
// item has not been settled yet
func (r *ItemSettlementRepositoryImpl) ByOrderItemUUID(ctx context.Context, orderItemUUID uuid.UUID) (*models.ItemSettlement, error) {
	db := r.getDB(ctx)

	var settlement models.ItemSettlement
	err := db.Where("order_item_uuid = ?", orderItemUUID).Last(&settlement).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &settlement, nil
}

// applyFilter applies filter criteria to a GORM query
func (r *ItemSettlementRepositoryImpl) applyFilter(query *gorm.DB, filter models.ItemSettlementFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}

	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}

	if filter.OrderItemUUID != nil {
		query = query.Where("order_item_uuid = ?", *filter.OrderItemUUID)
	}

	if filter.VendorID != nil {
		query = query.Where("vendor_id = ?", *filter.VendorID)
	}

	if filter.CreatedAfter != nil {
		query = query.Where("created_at > ?", *filter.CreatedAfter)
	}

	if filter.CreatedBefore != nil {
		query = query.Where("created_at < ?", *filter.CreatedBefore)
	}

	return query
}

// ByFilter retrieves settlements based on filter criteria
func (r *ItemSettlementRepositoryImpl) ByFilter(ctx context.Context, filter models.ItemSettlementFilter, orderBy string, limit, offset int) ([]*models.ItemSettlement, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.ItemSettlement{})

	query = r.applyFilter(query, filter)

	if orderBy == "" {
		orderBy = "id DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var settlements []*models.ItemSettlement
	err := query.Find(&settlements).Error
	if err != nil {
		return nil, err
	}

	return settlements, nil
}

// Count returns the number of settlements matching the filter
func (r *ItemSettlementRepositoryImpl) Count(ctx context.Context, filter models.ItemSettlementFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.ItemSettlement{})

	query = r.applyFilter(query, filter)

	var count int64
	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}
