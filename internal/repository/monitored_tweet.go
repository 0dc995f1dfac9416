package repository

import (
	"context"
	"time"

	"github.com/nomorelonelylife/Point-bot/internal/entity"
	"github.com/nomorelonelylife/Point-bot/pkg/xcontext"
)

type MonitoredTweetRepository interface {
	Get(ctx context.Context, tweetID string) (*entity.MonitoredTweet, error)
	GetActiveList(ctx context.Context) ([]entity.MonitoredTweet, error)
	Create(ctx context.Context, tweet *entity.MonitoredTweet) error
	UpdateWeights(ctx context.Context, tweetID string, like, retweet, reply float64) error
	Deactivate(ctx context.Context, tweetID string) error
	Delete(ctx context.Context, tweetID string) (bool, error)
}

type monitoredTweetRepository struct{}

func NewMonitoredTweetRepository() *monitoredTweetRepository {
	return &monitoredTweetRepository{}
}

func (r *monitoredTweetRepository) Get(ctx context.Context, tweetID string) (*entity.MonitoredTweet, error) {
	var result entity.MonitoredTweet
	if err := xcontext.DB(ctx).Take(&result, "tweet_id=?", tweetID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *monitoredTweetRepository) GetActiveList(ctx context.Context) ([]entity.MonitoredTweet, error) {
	var result []entity.MonitoredTweet
	err := xcontext.DB(ctx).
		Where("active=?", true).
		Order("created_at DESC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *monitoredTweetRepository) Create(ctx context.Context, tweet *entity.MonitoredTweet) error {
	return xcontext.DB(ctx).Create(tweet).Error
}

// UpdateWeights refreshes the weights of an existing tweet and reactivates
// it.
func (r *monitoredTweetRepository) UpdateWeights(
	ctx context.Context, tweetID string, like, retweet, reply float64,
) error {
	return xcontext.DB(ctx).
		Model(&entity.MonitoredTweet{}).
		Where("tweet_id=?", tweetID).
		Updates(map[string]any{
			"active":         true,
			"like_points":    like,
			"retweet_points": retweet,
			"reply_points":   reply,
			"updated_at":     time.Now(),
		}).Error
}

func (r *monitoredTweetRepository) Deactivate(ctx context.Context, tweetID string) error {
	return xcontext.DB(ctx).
		Model(&entity.MonitoredTweet{}).
		Where("tweet_id=?", tweetID).
		Update("active", false).Error
}

func (r *monitoredTweetRepository) Delete(ctx context.Context, tweetID string) (bool, error) {
	tx := xcontext.DB(ctx).Delete(&entity.MonitoredTweet{}, "tweet_id=?", tweetID)
	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected > 0, nil
}
