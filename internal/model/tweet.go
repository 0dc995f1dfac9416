package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type MonitoredTweet struct {
	TweetID       string    `json:"tweet_id"`
	Active        bool      `json:"active"`
	LikePoints    float64   `json:"like_points"`
	RetweetPoints float64   `json:"retweet_points"`
	ReplyPoints   float64   `json:"reply_points"`
	CreatedAt     time.Time `json:"created_at"`
}

type AddTweetRequest struct {
	TweetID       string   `json:"tweet_id"`
	LikePoints    *float64 `json:"like_points"`
	RetweetPoints *float64 `json:"retweet_points"`
	ReplyPoints   *float64 `json:"reply_points"`
}

type AddTweetResponse struct {
	// EvictedTweetID is the tweet deactivated to make room for this one,
	// empty if no eviction happened.
	EvictedTweetID string `json:"evicted_tweet_id"`
}

type RemoveTweetRequest struct {
	TweetID string `json:"tweet_id"`
}

type RemoveTweetResponse struct {
	Existed bool `json:"existed"`
}

type ListActiveTweetsRequest struct{}

type ListActiveTweetsResponse struct {
	Tweets []MonitoredTweet `json:"tweets"`
}

// Recipient identifies a user the engagement check should award points to.
// The caller resolves who engaged; this service only applies the award.
type Recipient struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
}

type CheckEngagementRequest struct {
	Recipients []Recipient `json:"recipients"`
}

type TweetAward struct {
	TweetID string          `json:"tweet_id"`
	Points  decimal.Decimal `json:"points"`
}

type CheckEngagementResponse struct {
	Awards []TweetAward `json:"awards"`
}
