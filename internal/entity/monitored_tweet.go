package entity

import (
	"time"
)

// MonitoredTweet is a tweet whose engagement is converted into point awards.
// At most three tweets are active at a time.
type MonitoredTweet struct {
	CreatedAt time.Time
	UpdatedAt time.Time

	TweetID string `gorm:"primaryKey"`
	Active  bool   `gorm:"index"`

	LikePoints    float64
	RetweetPoints float64
	ReplyPoints   float64
}
