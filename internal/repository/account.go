package repository

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nomorelonelylife/Point-bot/internal/entity"
	"github.com/nomorelonelylife/Point-bot/pkg/numberutil"
	"github.com/nomorelonelylife/Point-bot/pkg/xcontext"
)

type AccountRepository interface {
	Get(ctx context.Context, userID string) (*entity.Account, error)
	GetList(ctx context.Context, offset, limit int) ([]entity.Account, error)

	// Deposit adds delta (possibly negative) to the account's balance,
	// creating the account if needed. The stored balance is rounded to
	// the point scale. Callers that debit must verify sufficiency first,
	// inside the same transaction.
	Deposit(ctx context.Context, userID, displayName string, delta decimal.Decimal) error
}

type accountRepository struct{}

func NewAccountRepository() *accountRepository {
	return &accountRepository{}
}

func (r *accountRepository) Get(ctx context.Context, userID string) (*entity.Account, error) {
	var result entity.Account
	if err := xcontext.DB(ctx).Take(&result, "user_id=?", userID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *accountRepository) GetList(ctx context.Context, offset, limit int) ([]entity.Account, error) {
	var result []entity.Account
	err := xcontext.DB(ctx).
		Order("balance DESC").
		Offset(offset).Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *accountRepository) Deposit(
	ctx context.Context, userID, displayName string, delta decimal.Decimal,
) error {
	// Balances are stored as fixed-precision text, so the arithmetic
	// happens here rather than in sql. The caller is expected to hold an
	// exclusive transaction, which makes read-then-write safe.
	account, err := r.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		return xcontext.DB(ctx).Create(&entity.Account{
			UserID:      userID,
			DisplayName: displayName,
			Balance:     numberutil.RoundPoints(delta),
		}).Error
	}

	updateMap := map[string]any{
		"balance":    numberutil.RoundPoints(account.Balance.Add(delta)),
		"updated_at": time.Now(),
	}

	if displayName != "" {
		updateMap["display_name"] = displayName
	}

	tx := xcontext.DB(ctx).
		Model(&entity.Account{}).
		Where("user_id=?", userID).
		Updates(updateMap)

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected != 1 {
		return errors.New("the number of affected rows is invalid")
	}

	return nil
}
