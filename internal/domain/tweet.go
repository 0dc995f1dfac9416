package domain

import (
	"context"
	"errors"

	"golang.org/x/exp/slices"
	"gorm.io/gorm"

	"github.com/nomorelonelylife/Point-bot/internal/entity"
	"github.com/nomorelonelylife/Point-bot/internal/model"
	"github.com/nomorelonelylife/Point-bot/internal/repository"
	"github.com/nomorelonelylife/Point-bot/pkg/api/twitter"
	"github.com/nomorelonelylife/Point-bot/pkg/errorx"
	"github.com/nomorelonelylife/Point-bot/pkg/xcontext"
)

type TweetDomain interface {
	AddTweet(context.Context, *model.AddTweetRequest) (*model.AddTweetResponse, error)
	RemoveTweet(context.Context, *model.RemoveTweetRequest) (*model.RemoveTweetResponse, error)
	ListActiveTweets(context.Context, *model.ListActiveTweetsRequest) (*model.ListActiveTweetsResponse, error)
	CheckEngagement(context.Context, *model.CheckEngagementRequest) (*model.CheckEngagementResponse, error)
}

type tweetDomain struct {
	tweetRepo       repository.MonitoredTweetRepository
	accountRepo     repository.AccountRepository
	twitterEndpoint twitter.IEndpoint
}

func NewTweetDomain(
	tweetRepo repository.MonitoredTweetRepository,
	accountRepo repository.AccountRepository,
	twitterEndpoint twitter.IEndpoint,
) *tweetDomain {
	return &tweetDomain{
		tweetRepo:       tweetRepo,
		accountRepo:     accountRepo,
		twitterEndpoint: twitterEndpoint,
	}
}

func (d *tweetDomain) AddTweet(
	ctx context.Context, req *model.AddTweetRequest,
) (*model.AddTweetResponse, error) {
	if req.TweetID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty tweet id")
	}

	cfg := xcontext.Configs(ctx).Tweet
	like := cfg.DefaultLikePoints
	retweet := cfg.DefaultRetweetPoints
	reply := cfg.DefaultReplyPoints
	if req.LikePoints != nil {
		like = *req.LikePoints
	}
	if req.RetweetPoints != nil {
		retweet = *req.RetweetPoints
	}
	if req.ReplyPoints != nil {
		reply = *req.ReplyPoints
	}

	if like < 0 || retweet < 0 || reply < 0 {
		return nil, errorx.New(errorx.BadRequest, "Not allow negative point weights")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	existing, err := d.tweetRepo.Get(ctx, req.TweetID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get tweet: %v", err)
		return nil, errorx.Unknown
	}

	// Refreshing an already active tweet never changes the active count.
	if existing != nil && existing.Active {
		if err := d.tweetRepo.UpdateWeights(ctx, req.TweetID, like, retweet, reply); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot update tweet weights: %v", err)
			return nil, errorx.Unknown
		}

		if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
			return nil, errorx.Unknown
		}

		return &model.AddTweetResponse{}, nil
	}

	// A brand-new tweet or a reactivation of an inactive one both raise the
	// active count, so the cap applies to either.
	active, err := d.tweetRepo.GetActiveList(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get active tweets: %v", err)
		return nil, errorx.Unknown
	}

	evicted := ""
	if len(active) >= cfg.MaxActive {
		ids := make([]string, len(active))
		for i := range active {
			ids[i] = active[i].TweetID
		}
		slices.Sort(ids)
		evicted = ids[0]

		if err := d.tweetRepo.Deactivate(ctx, evicted); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot deactivate tweet %s: %v", evicted, err)
			return nil, errorx.Unknown
		}
	}

	if existing != nil {
		err = d.tweetRepo.UpdateWeights(ctx, req.TweetID, like, retweet, reply)
	} else {
		err = d.tweetRepo.Create(ctx, &entity.MonitoredTweet{
			TweetID:       req.TweetID,
			Active:        true,
			LikePoints:    like,
			RetweetPoints: retweet,
			ReplyPoints:   reply,
		})
	}
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot upsert tweet: %v", err)
		return nil, errorx.Unknown
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return nil, errorx.Unknown
	}

	return &model.AddTweetResponse{EvictedTweetID: evicted}, nil
}

func (d *tweetDomain) RemoveTweet(
	ctx context.Context, req *model.RemoveTweetRequest,
) (*model.RemoveTweetResponse, error) {
	if req.TweetID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty tweet id")
	}

	existed, err := d.tweetRepo.Delete(ctx, req.TweetID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete tweet: %v", err)
		return nil, errorx.Unknown
	}

	return &model.RemoveTweetResponse{Existed: existed}, nil
}

func (d *tweetDomain) ListActiveTweets(
	ctx context.Context, req *model.ListActiveTweetsRequest,
) (*model.ListActiveTweetsResponse, error) {
	tweets, err := d.tweetRepo.GetActiveList(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get active tweets: %v", err)
		return nil, errorx.Unknown
	}

	clientTweets := []model.MonitoredTweet{}
	for _, tweet := range tweets {
		clientTweets = append(clientTweets, model.ConvertMonitoredTweet(&tweet))
	}

	return &model.ListActiveTweetsResponse{Tweets: clientTweets}, nil
}

// CheckEngagement awards points for every active tweet based on its current
// engagement metrics. The metrics calls happen before any transaction is
// opened; a failed fetch degrades to a zero award for that tweet and never
// aborts the loop.
func (d *tweetDomain) CheckEngagement(
	ctx context.Context, req *model.CheckEngagementRequest,
) (*model.CheckEngagementResponse, error) {
	if len(req.Recipients) == 0 {
		return &model.CheckEngagementResponse{Awards: []model.TweetAward{}}, nil
	}

	tweets, err := d.tweetRepo.GetActiveList(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get active tweets: %v", err)
		return nil, errorx.Unknown
	}

	awards := []model.TweetAward{}
	for _, tweet := range tweets {
		points := d.twitterEndpoint.CalculatePoints(ctx, tweet.TweetID, twitter.Weights{
			Like:    tweet.LikePoints,
			Retweet: tweet.RetweetPoints,
			Reply:   tweet.ReplyPoints,
		})
		if !points.IsPositive() {
			continue
		}

		err := func() error {
			ctx := xcontext.WithDBTransaction(ctx)
			defer xcontext.WithRollbackDBTransaction(ctx)

			for _, recipient := range req.Recipients {
				err := d.accountRepo.Deposit(ctx, recipient.UserID, recipient.DisplayName, points)
				if err != nil {
					return err
				}
			}

			return xcontext.WithCommitDBTransaction(ctx)
		}()
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot award points for tweet %s: %v", tweet.TweetID, err)
			continue
		}

		awards = append(awards, model.TweetAward{TweetID: tweet.TweetID, Points: points})
	}

	return &model.CheckEngagementResponse{Awards: awards}, nil
}
