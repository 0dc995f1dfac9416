package domain

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/nomorelonelylife/Point-bot/internal/model"
	"github.com/nomorelonelylife/Point-bot/internal/repository"
	"github.com/nomorelonelylife/Point-bot/pkg/api/twitter"
	"github.com/nomorelonelylife/Point-bot/pkg/testutil"
)

func Test_tweetDomain_AddTweet_EvictsOldest(t *testing.T) {
	ctx := testutil.MockContext()
	d := NewTweetDomain(
		repository.NewMonitoredTweetRepository(),
		repository.NewAccountRepository(),
		&testutil.MockTwitterEndpoint{},
	)

	for _, tweetID := range []string{"300", "100", "200"} {
		resp, err := d.AddTweet(ctx, &model.AddTweetRequest{TweetID: tweetID})
		require.NoError(t, err)
		require.Empty(t, resp.EvictedTweetID)
	}

	// The fourth tweet evicts the smallest id among the active three.
	resp, err := d.AddTweet(ctx, &model.AddTweetRequest{TweetID: "400"})
	require.NoError(t, err)
	require.Equal(t, "100", resp.EvictedTweetID)

	list, err := d.ListActiveTweets(ctx, &model.ListActiveTweetsRequest{})
	require.NoError(t, err)
	require.Len(t, list.Tweets, 3)
	for _, tweet := range list.Tweets {
		require.NotEqual(t, "100", tweet.TweetID)
	}

	// Re-adding a known tweet updates its weights without evicting.
	newLike := 3.5
	resp, err = d.AddTweet(ctx, &model.AddTweetRequest{
		TweetID:    "200",
		LikePoints: &newLike,
	})
	require.NoError(t, err)
	require.Empty(t, resp.EvictedTweetID)

	list, err = d.ListActiveTweets(ctx, &model.ListActiveTweetsRequest{})
	require.NoError(t, err)
	require.Len(t, list.Tweets, 3)
	for _, tweet := range list.Tweets {
		if tweet.TweetID == "200" {
			require.Equal(t, 3.5, tweet.LikePoints)
		}
	}

	negative := -1.0
	_, err = d.AddTweet(ctx, &model.AddTweetRequest{
		TweetID:    "500",
		LikePoints: &negative,
	})
	require.Error(t, err)
}

func Test_tweetDomain_AddTweet_ReaddAfterEviction(t *testing.T) {
	ctx := testutil.MockContext()
	d := NewTweetDomain(
		repository.NewMonitoredTweetRepository(),
		repository.NewAccountRepository(),
		&testutil.MockTwitterEndpoint{},
	)

	for _, tweetID := range []string{"100", "200", "300"} {
		_, err := d.AddTweet(ctx, &model.AddTweetRequest{TweetID: tweetID})
		require.NoError(t, err)
	}

	resp, err := d.AddTweet(ctx, &model.AddTweetRequest{TweetID: "400"})
	require.NoError(t, err)
	require.Equal(t, "100", resp.EvictedTweetID)

	// Reactivating an evicted tweet raises the active count again, so it
	// evicts like a fresh add.
	resp, err = d.AddTweet(ctx, &model.AddTweetRequest{TweetID: "100"})
	require.NoError(t, err)
	require.Equal(t, "200", resp.EvictedTweetID)

	list, err := d.ListActiveTweets(ctx, &model.ListActiveTweetsRequest{})
	require.NoError(t, err)
	require.Len(t, list.Tweets, 3)

	ids := []string{}
	for _, tweet := range list.Tweets {
		ids = append(ids, tweet.TweetID)
	}
	require.ElementsMatch(t, []string{"100", "300", "400"}, ids)
}

func Test_tweetDomain_RemoveTweet(t *testing.T) {
	ctx := testutil.MockContext()
	d := NewTweetDomain(
		repository.NewMonitoredTweetRepository(),
		repository.NewAccountRepository(),
		&testutil.MockTwitterEndpoint{},
	)

	_, err := d.AddTweet(ctx, &model.AddTweetRequest{TweetID: "100"})
	require.NoError(t, err)

	resp, err := d.RemoveTweet(ctx, &model.RemoveTweetRequest{TweetID: "100"})
	require.NoError(t, err)
	require.True(t, resp.Existed)

	resp, err = d.RemoveTweet(ctx, &model.RemoveTweetRequest{TweetID: "100"})
	require.NoError(t, err)
	require.False(t, resp.Existed)
}

func Test_tweetDomain_CheckEngagement(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	accountRepo := repository.NewAccountRepository()

	endpoint := &testutil.MockTwitterEndpoint{
		CalculatePointsFunc: func(ctx context.Context, tweetID string, weights twitter.Weights) decimal.Decimal {
			// One tweet's metrics fetch fails and degrades to zero.
			if tweetID == "200" {
				return decimal.Zero
			}

			return decimal.NewFromInt(4)
		},
	}

	d := NewTweetDomain(repository.NewMonitoredTweetRepository(), accountRepo, endpoint)

	for _, tweetID := range []string{"100", "200"} {
		_, err := d.AddTweet(ctx, &model.AddTweetRequest{TweetID: tweetID})
		require.NoError(t, err)
	}

	resp, err := d.CheckEngagement(ctx, &model.CheckEngagementRequest{
		Recipients: []model.Recipient{
			{UserID: testutil.Account1.UserID},
			{UserID: testutil.Account3.UserID},
		},
	})
	require.NoError(t, err)
	require.Len(t, resp.Awards, 1)
	require.Equal(t, "100", resp.Awards[0].TweetID)
	require.True(t, resp.Awards[0].Points.Equal(decimal.NewFromInt(4)))

	// Every recipient got the award for the one tweet that paid out.
	account, err := accountRepo.Get(ctx, testutil.Account1.UserID)
	require.NoError(t, err)
	require.Equal(t, "104", account.Balance.String())

	account, err = accountRepo.Get(ctx, testutil.Account3.UserID)
	require.NoError(t, err)
	require.Equal(t, "4", account.Balance.String())

	// No recipients means nothing to do at all.
	resp, err = d.CheckEngagement(ctx, &model.CheckEngagementRequest{})
	require.NoError(t, err)
	require.Empty(t, resp.Awards)
}
