package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/nomorelonelylife/Point-bot/internal/entity"
	"github.com/nomorelonelylife/Point-bot/pkg/xcontext"
)

type VoteRepository interface {
	CreateVote(ctx context.Context, vote *entity.Vote) error
	CreateOption(ctx context.Context, option *entity.VoteOption) error
	GetVote(ctx context.Context, voteID string) (*entity.Vote, error)
	GetOption(ctx context.Context, optionID string) (*entity.VoteOption, error)
	GetOptions(ctx context.Context, voteID string) ([]entity.VoteOption, error)

	// CreateRecord inserts the ballot; a duplicate (vote, voter) pair
	// fails with a unique violation.
	CreateRecord(ctx context.Context, record *entity.VoteRecord) error
	CountRecords(ctx context.Context, voteID string) (int64, error)
	IncreaseOptionCount(ctx context.Context, optionID string) error

	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)

	// PurgeExpiredBefore removes ballots and options of votes that
	// expired before t. The votes themselves stay for history.
	PurgeExpiredBefore(ctx context.Context, t time.Time) (records int64, options int64, err error)
}

type voteRepository struct{}

func NewVoteRepository() *voteRepository {
	return &voteRepository{}
}

func (r *voteRepository) CreateVote(ctx context.Context, vote *entity.Vote) error {
	return xcontext.DB(ctx).Create(vote).Error
}

func (r *voteRepository) CreateOption(ctx context.Context, option *entity.VoteOption) error {
	return xcontext.DB(ctx).Create(option).Error
}

func (r *voteRepository) GetVote(ctx context.Context, voteID string) (*entity.Vote, error) {
	var result entity.Vote
	if err := xcontext.DB(ctx).Take(&result, "id=?", voteID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *voteRepository) GetOption(ctx context.Context, optionID string) (*entity.VoteOption, error) {
	var result entity.VoteOption
	if err := xcontext.DB(ctx).Take(&result, "id=?", optionID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *voteRepository) GetOptions(ctx context.Context, voteID string) ([]entity.VoteOption, error) {
	var result []entity.VoteOption
	err := xcontext.DB(ctx).
		Where("vote_id=?", voteID).
		Order("position ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *voteRepository) CreateRecord(ctx context.Context, record *entity.VoteRecord) error {
	return xcontext.DB(ctx).Create(record).Error
}

func (r *voteRepository) CountRecords(ctx context.Context, voteID string) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).
		Model(&entity.VoteRecord{}).
		Where("vote_id=?", voteID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *voteRepository) IncreaseOptionCount(ctx context.Context, optionID string) error {
	tx := xcontext.DB(ctx).
		Model(&entity.VoteOption{}).
		Where("id=?", optionID).
		Update("vote_count", gorm.Expr("vote_count+1"))

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected > 1 {
		return errors.New("the number of affected rows is invalid")
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *voteRepository) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	tx := xcontext.DB(ctx).
		Model(&entity.Vote{}).
		Where("active=? AND expires_at<=?", true, now).
		Update("active", false)

	return tx.RowsAffected, tx.Error
}

func (r *voteRepository) PurgeExpiredBefore(
	ctx context.Context, t time.Time,
) (int64, int64, error) {
	expired := func() *gorm.DB {
		return xcontext.DB(ctx).
			Model(&entity.Vote{}).
			Select("id").
			Where("expires_at<?", t)
	}

	recordTx := xcontext.DB(ctx).
		Delete(&entity.VoteRecord{}, "vote_id IN (?)", expired())
	if recordTx.Error != nil {
		return 0, 0, recordTx.Error
	}

	optionTx := xcontext.DB(ctx).
		Delete(&entity.VoteOption{}, "vote_id IN (?)", expired())
	if optionTx.Error != nil {
		return recordTx.RowsAffected, 0, optionTx.Error
	}

	return recordTx.RowsAffected, optionTx.RowsAffected, nil
}
