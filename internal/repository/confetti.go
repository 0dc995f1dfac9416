package repository

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nomorelonelylife/Point-bot/internal/entity"
	"github.com/nomorelonelylife/Point-bot/pkg/xcontext"
)

type ConfettiRepository interface {
	CreateBall(ctx context.Context, ball *entity.ConfettiBall) error
	GetBall(ctx context.Context, ballID string) (*entity.ConfettiBall, error)
	GetExpiredActiveBalls(ctx context.Context, now time.Time) ([]entity.ConfettiBall, error)

	// CreateClaim inserts the claim row. A duplicate (ball, user) pair
	// fails with a unique violation, which is the exactly-once guarantee.
	CreateClaim(ctx context.Context, claim *entity.ConfettiClaim) error
	GetClaims(ctx context.Context, ballID string) ([]entity.ConfettiClaim, error)

	// RecordClaim applies one successful claim to the ball. It guards on
	// the claimed count the caller read inside the same transaction and
	// fails with ErrRecordNotFound if the ball changed under it.
	RecordClaim(ctx context.Context, ballID string, points decimal.Decimal, prevCount int, stillActive bool) error

	// Deactivate flips an active ball off and reports whether this call
	// did the flipping, so expiry settlement stays idempotent.
	Deactivate(ctx context.Context, ballID string) (bool, error)

	DeleteClaimsBefore(ctx context.Context, t time.Time) (int64, error)
	DeleteSettledBallsBefore(ctx context.Context, t time.Time) (int64, error)
}

type confettiRepository struct{}

func NewConfettiRepository() *confettiRepository {
	return &confettiRepository{}
}

func (r *confettiRepository) CreateBall(ctx context.Context, ball *entity.ConfettiBall) error {
	return xcontext.DB(ctx).Create(ball).Error
}

func (r *confettiRepository) GetBall(ctx context.Context, ballID string) (*entity.ConfettiBall, error) {
	var result entity.ConfettiBall
	if err := xcontext.DB(ctx).Take(&result, "id=?", ballID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *confettiRepository) GetExpiredActiveBalls(
	ctx context.Context, now time.Time,
) ([]entity.ConfettiBall, error) {
	var result []entity.ConfettiBall
	err := xcontext.DB(ctx).
		Where("active=? AND expires_at<=?", true, now).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *confettiRepository) CreateClaim(ctx context.Context, claim *entity.ConfettiClaim) error {
	return xcontext.DB(ctx).Create(claim).Error
}

func (r *confettiRepository) GetClaims(ctx context.Context, ballID string) ([]entity.ConfettiClaim, error) {
	var result []entity.ConfettiClaim
	err := xcontext.DB(ctx).
		Where("ball_id=?", ballID).
		Order("created_at ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *confettiRepository) RecordClaim(
	ctx context.Context, ballID string, points decimal.Decimal, prevCount int, stillActive bool,
) error {
	tx := xcontext.DB(ctx).
		Model(&entity.ConfettiBall{}).
		Where("id=? AND active=? AND claimed_count=?", ballID, true, prevCount).
		Updates(map[string]any{
			"claimed_points": points,
			"claimed_count":  prevCount + 1,
			"active":         stillActive,
		})

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *confettiRepository) Deactivate(ctx context.Context, ballID string) (bool, error) {
	tx := xcontext.DB(ctx).
		Model(&entity.ConfettiBall{}).
		Where("id=? AND active=?", ballID, true).
		Update("active", false)

	if tx.Error != nil {
		return false, tx.Error
	}

	if tx.RowsAffected > 1 {
		return false, errors.New("the number of affected rows is invalid")
	}

	return tx.RowsAffected == 1, nil
}

func (r *confettiRepository) DeleteClaimsBefore(ctx context.Context, t time.Time) (int64, error) {
	tx := xcontext.DB(ctx).Delete(&entity.ConfettiClaim{}, "created_at<?", t)
	return tx.RowsAffected, tx.Error
}

func (r *confettiRepository) DeleteSettledBallsBefore(ctx context.Context, t time.Time) (int64, error) {
	tx := xcontext.DB(ctx).Delete(&entity.ConfettiBall{}, "active=? AND expires_at<?", false, t)
	return tx.RowsAffected, tx.Error
}
