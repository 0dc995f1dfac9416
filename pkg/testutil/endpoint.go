package testutil

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/nomorelonelylife/Point-bot/pkg/api/twitter"
)

type MockTwitterEndpoint struct {
	GetTweetFunc        func(context.Context, string) (twitter.Tweet, error)
	CalculatePointsFunc func(context.Context, string, twitter.Weights) decimal.Decimal
}

func (e *MockTwitterEndpoint) GetTweet(ctx context.Context, tweetID string) (twitter.Tweet, error) {
	if e.GetTweetFunc != nil {
		return e.GetTweetFunc(ctx, tweetID)
	}

	return twitter.Tweet{}, errors.New("not implemented")
}

func (e *MockTwitterEndpoint) CalculatePoints(
	ctx context.Context, tweetID string, weights twitter.Weights,
) decimal.Decimal {
	if e.CalculatePointsFunc != nil {
		return e.CalculatePointsFunc(ctx, tweetID, weights)
	}

	return decimal.Zero
}
