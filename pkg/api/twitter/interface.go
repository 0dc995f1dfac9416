package twitter

import (
	"context"

	"github.com/shopspring/decimal"
)

// Weights converts raw engagement counts into a point award.
type Weights struct {
	Like    float64
	Retweet float64
	Reply   float64
}

type IEndpoint interface {
	GetTweet(ctx context.Context, tweetID string) (Tweet, error)

	// CalculatePoints multiplies the tweet's current engagement counts by
	// the weights. Any upstream failure degrades to a zero award; the
	// caller's loop must never abort because the metrics api is down.
	CalculatePoints(ctx context.Context, tweetID string, weights Weights) decimal.Decimal
}
