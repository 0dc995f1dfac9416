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

type TrapRepository interface {
	CreateTrap(ctx context.Context, trap *entity.ConfettiTrap) error
	GetTrap(ctx context.Context, trapID string) (*entity.ConfettiTrap, error)
	GetExpiredActiveTraps(ctx context.Context, now time.Time) ([]entity.ConfettiTrap, error)

	CreateClaim(ctx context.Context, claim *entity.TrapClaim) error
	GetClaims(ctx context.Context, trapID string) ([]entity.TrapClaim, error)

	// RecordClaim applies one sprung trap to the row, guarded on the
	// claimed count read in the same transaction.
	RecordClaim(ctx context.Context, trapID string, earned decimal.Decimal, prevCount int, stillActive bool) error

	Deactivate(ctx context.Context, trapID string) (bool, error)

	DeleteClaimsBefore(ctx context.Context, t time.Time) (int64, error)
	DeleteSettledTrapsBefore(ctx context.Context, t time.Time) (int64, error)
}

type trapRepository struct{}

func NewTrapRepository() *trapRepository {
	return &trapRepository{}
}

func (r *trapRepository) CreateTrap(ctx context.Context, trap *entity.ConfettiTrap) error {
	return xcontext.DB(ctx).Create(trap).Error
}

func (r *trapRepository) GetTrap(ctx context.Context, trapID string) (*entity.ConfettiTrap, error) {
	var result entity.ConfettiTrap
	if err := xcontext.DB(ctx).Take(&result, "id=?", trapID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *trapRepository) GetExpiredActiveTraps(
	ctx context.Context, now time.Time,
) ([]entity.ConfettiTrap, error) {
	var result []entity.ConfettiTrap
	err := xcontext.DB(ctx).
		Where("active=? AND expires_at<=?", true, now).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *trapRepository) CreateClaim(ctx context.Context, claim *entity.TrapClaim) error {
	return xcontext.DB(ctx).Create(claim).Error
}

func (r *trapRepository) GetClaims(ctx context.Context, trapID string) ([]entity.TrapClaim, error) {
	var result []entity.TrapClaim
	err := xcontext.DB(ctx).
		Where("trap_id=?", trapID).
		Order("created_at ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *trapRepository) RecordClaim(
	ctx context.Context, trapID string, earned decimal.Decimal, prevCount int, stillActive bool,
) error {
	tx := xcontext.DB(ctx).
		Model(&entity.ConfettiTrap{}).
		Where("id=? AND active=? AND claimed_count=?", trapID, true, prevCount).
		Updates(map[string]any{
			"earned_points": earned,
			"claimed_count": prevCount + 1,
			"active":        stillActive,
		})

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *trapRepository) Deactivate(ctx context.Context, trapID string) (bool, error) {
	tx := xcontext.DB(ctx).
		Model(&entity.ConfettiTrap{}).
		Where("id=? AND active=?", trapID, true).
		Update("active", false)

	if tx.Error != nil {
		return false, tx.Error
	}

	if tx.RowsAffected > 1 {
		return false, errors.New("the number of affected rows is invalid")
	}

	return tx.RowsAffected == 1, nil
}

func (r *trapRepository) DeleteClaimsBefore(ctx context.Context, t time.Time) (int64, error) {
	tx := xcontext.DB(ctx).Delete(&entity.TrapClaim{}, "created_at<?", t)
	return tx.RowsAffected, tx.Error
}

func (r *trapRepository) DeleteSettledTrapsBefore(ctx context.Context, t time.Time) (int64, error) {
	tx := xcontext.DB(ctx).Delete(&entity.ConfettiTrap{}, "active=? AND expires_at<?", false, t)
	return tx.RowsAffected, tx.Error
}
