package twitter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"github.com/nomorelonelylife/Point-bot/config"
	"github.com/nomorelonelylife/Point-bot/pkg/api"
	"github.com/nomorelonelylife/Point-bot/pkg/numberutil"
	"github.com/nomorelonelylife/Point-bot/pkg/xcontext"
)

type Endpoint struct {
	apiGenerator api.Generator
	limiter      *rate.Limiter
	bearerToken  string
	maxRetry     int
}

func New(cfg config.TwitterConfigs) *Endpoint {
	interval := cfg.RequestInterval
	if interval <= 0 {
		interval = time.Second
	}

	return &Endpoint{
		apiGenerator: api.NewGenerator(cfg.APIEndpoints...),
		limiter:      rate.NewLimiter(rate.Every(interval), 1),
		bearerToken:  cfg.BearerToken,
		maxRetry:     cfg.MaxRetry,
	}
}

// GetTweet fetches the tweet and its public engagement metrics. Rate limit
// responses are retried a bounded number of times with backoff, never by
// recursion.
func (e *Endpoint) GetTweet(ctx context.Context, tweetID string) (Tweet, error) {
	for attempt := 0; ; attempt++ {
		if err := e.limiter.Wait(ctx); err != nil {
			return Tweet{}, err
		}

		resp, err := e.apiGenerator.New("/2/tweets/%s", tweetID).
			Query(api.Parameter{"tweet.fields": "public_metrics"}).
			GET(ctx, api.OAuth2("Bearer", e.bearerToken))
		if err != nil {
			return Tweet{}, err
		}

		if resp.Code == http.StatusTooManyRequests {
			if attempt >= e.maxRetry {
				return Tweet{}, errors.New("rate limited for too long")
			}

			backoff := time.Second << attempt
			xcontext.Logger(ctx).Warnf("Rate limited by twitter, waiting %s", backoff)
			select {
			case <-time.After(backoff):
				continue
			case <-ctx.Done():
				return Tweet{}, ctx.Err()
			}
		}

		if resp.Code != http.StatusOK {
			xcontext.Logger(ctx).Warnf("Invalid twitter status code: %v", resp.Body)
			return Tweet{}, fmt.Errorf("invalid status code %d", resp.Code)
		}

		body, ok := resp.Body.(api.JSON)
		if !ok {
			return Tweet{}, errors.New("invalid body format")
		}

		data, err := body.GetJSON("data")
		if err != nil {
			return Tweet{}, err
		}

		tweet := Tweet{}
		// The counts arrive as json numbers, so the decode must be weakly
		// typed to land them in int fields.
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &tweet,
		})
		if err != nil {
			return Tweet{}, err
		}

		if err := decoder.Decode(map[string]any(data)); err != nil {
			return Tweet{}, err
		}

		if tweet.ID == "" {
			return Tweet{}, errors.New("cannot get tweet info")
		}

		return tweet, nil
	}
}

func (e *Endpoint) CalculatePoints(
	ctx context.Context, tweetID string, weights Weights,
) decimal.Decimal {
	tweet, err := e.GetTweet(ctx, tweetID)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot get metrics of tweet %s: %v", tweetID, err)
		return decimal.Zero
	}

	metrics := tweet.PublicMetrics
	points := decimal.NewFromFloat(weights.Like).Mul(decimal.NewFromInt(int64(metrics.LikeCount))).
		Add(decimal.NewFromFloat(weights.Retweet).Mul(decimal.NewFromInt(int64(metrics.RetweetCount)))).
		Add(decimal.NewFromFloat(weights.Reply).Mul(decimal.NewFromInt(int64(metrics.ReplyCount))))

	return numberutil.RoundPoints(points)
}
