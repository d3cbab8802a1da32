// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"errors"

	"github.com/amirphl/Susanoo/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VendorRepositoryImpl implements VendorRepository interface
type VendorRepositoryImpl struct {
	*BaseRepository[models.Vendor, models.VendorFilter]
}

// NewVendorRepository creates a new vendor repository
func NewVendorRepository(db *gorm.DB) VendorRepository {
	return &VendorRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Vendor, models.VendorFilter](db),
	}
}

// ByUUID retrieves a vendor by its UUID
func (r *VendorRepositoryImpl) ByUUID(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	db := r.getDB(ctx)

	var vendor models.Vendor
	err := db.Where("uuid = ?", id).Last(&vendor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &vendor, nil
}

// ByPhone retrieves a vendor by phone number
func (r *VendorRepositoryImpl) ByPhone(ctx context.Context, phone string) (*models.Vendor, error) {
	db := r.getDB(ctx)

	var vendor models.Vendor
	err := db.Where("phone = ?", phone).Last(&vendor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &vendor, nil
}

// applyFilter applies filter criteria to a GORM query
func (r *VendorRepositoryImpl) applyFilter(query *gorm.DB, filter models.VendorFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}

	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}

	if filter.Phone != nil {
		query = query.Where("phone = ?", *filter.Phone)
	}

	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	return query
}

// ByFilter retrieves vendors based on filter criteria
func (r *VendorRepositoryImpl) ByFilter(ctx context.Context, filter models.VendorFilter, orderBy string, limit, offset int) ([]*models.Vendor, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Vendor{})

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

	var vendors []*models.Vendor
	err := query.Find(&vendors).Error
	if err != nil {
		return nil, err
	}

	return vendors, nil
}

// Count returns the number of vendors matching the filter
func (r *VendorRepositoryImpl) Count(ctx context.Context, filter models.VendorFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Vendor{})

	query = r.applyFilter(query, filter)

	var count int64
	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}
