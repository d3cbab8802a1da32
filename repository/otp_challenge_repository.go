// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"errors"

	"github.com/amirphl/Susanoo/models"
	"gorm.io/gorm"
)

// OTPChallengeRepositoryImpl implements OTPChallengeRepository interface
type OTPChallengeRepositoryImpl struct {
	*BaseRepository[models.OTPChallenge, models.OTPChallengeFilter]
}

// NewOTPChallengeRepository creates a new OTP challenge repository
func NewOTPChallengeRepository(db *gorm.DB) OTPChallengeRepository {
	return &OTPChallengeRepositoryImpl{
		BaseRepository: NewBaseRepository[models.OTPChallenge, models.OTPChallengeFilter](db),
	}
}

// ActiveByPhone retrieves the current challenge for a phone, or nil if none
// exists. Expiry is deliberately not filtered here; the verifier distinguishes
// "no challenge" from "expired challenge".
func (r *OTPChallengeRepositoryImpl) ActiveByPhone(ctx context.Context, phone string) (*models.OTPChallenge, error) {
	db := r.getDB(ctx)

	var challenge models.OTPChallenge
	err := db.Where("phone = ?", phone).
		Order("id DESC").
		First(&challenge).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &challenge, nil
}

// DeleteAllForPhone hard-deletes every challenge for the phone. Idempotent:
// deleting zero rows is success.
func (r *OTPChallengeRepositoryImpl) DeleteAllForPhone(ctx context.Context, phone string) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	err = db.Unscoped().Where("phone = ?", phone).Delete(&models.OTPChallenge{}).Error
	return err
}

// DeleteByPhone removes the challenge after consumption
func (r *OTPChallengeRepositoryImpl) DeleteByPhone(ctx context.Context, phone string) error {
	return r.DeleteAllForPhone(ctx, phone)
}

// IncrementAttempts bumps the attempt counter on a challenge row
func (r *OTPChallengeRepositoryImpl) IncrementAttempts(ctx context.Context, id uint) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	err = db.Model(&models.OTPChallenge{}).
		Where("id = ?", id).
		UpdateColumn("attempts_count", gorm.Expr("attempts_count + 1")).Error
	return err
}

// applyFilter applies filter criteria to a GORM query
func (r *OTPChallengeRepositoryImpl) applyFilter(query *gorm.DB, filter models.OTPChallengeFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}

	if filter.Phone != nil {
		query = query.Where("phone = ?", *filter.Phone)
	}

	if filter.CreatedAfter != nil {
		query = query.Where("created_at > ?", *filter.CreatedAfter)
	}

	if filter.CreatedBefore != nil {
		query = query.Where("created_at < ?", *filter.CreatedBefore)
	}

	if filter.ExpiresAfter != nil {
		query = query.Where("expires_at > ?", *filter.ExpiresAfter)
	}

	if filter.ExpiresBefore != nil {
		query = query.Where("expires_at < ?", *filter.ExpiresBefore)
	}

	return query
}

// ByFilter retrieves OTP challenges based on filter criteria
func (r *OTPChallengeRepositoryImpl) ByFilter(ctx context.Context, filter models.OTPChallengeFilter, orderBy string, limit, offset int) ([]*models.OTPChallenge, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.OTPChallenge{})

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

	var challenges []*models.OTPChallenge
	err := query.Find(&challenges).Error
	if err != nil {
		return nil, err
	}

	return challenges, nil
}

// Count returns the number of OTP challenges matching the filter
func (r *OTPChallengeRepositoryImpl) Count(ctx context.Context, filter models.OTPChallengeFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.OTPChallenge{})

	query = r.applyFilter(query, filter)

	var count int64
	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}
