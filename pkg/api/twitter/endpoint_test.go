package twitter

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nomorelonelylife/Point-bot/config"
	"github.com/nomorelonelylife/Point-bot/pkg/logger"
	"github.com/nomorelonelylife/Point-bot/pkg/xcontext"
)

func mockTwitterContext() context.Context {
	return xcontext.WithLogger(context.Background(), logger.NewLogger(logger.ERROR))
}

func mockTwitterConfigs(url string) config.TwitterConfigs {
	return config.TwitterConfigs{
		APIEndpoints:    []string{url},
		BearerToken:     "test-token",
		RequestInterval: time.Millisecond,
		MaxRetry:        1,
	}
}

func Test_Endpoint_GetTweet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		require.Equal(t, "/2/tweets/100", r.URL.Path)
		require.Equal(t, "public_metrics", r.URL.Query().Get("tweet.fields"))

		fmt.Fprint(w, `{"data": {"id": "100", "text": "hello",
			"public_metrics": {"like_count": 3, "retweet_count": 2, "reply_count": 1, "quote_count": 0}}}`)
	}))
	defer server.Close()

	endpoint := New(mockTwitterConfigs(server.URL))

	tweet, err := endpoint.GetTweet(mockTwitterContext(), "100")
	require.NoError(t, err)
	require.Equal(t, "100", tweet.ID)
	require.Equal(t, 3, tweet.PublicMetrics.LikeCount)
	require.Equal(t, 2, tweet.PublicMetrics.RetweetCount)
	require.Equal(t, 1, tweet.PublicMetrics.ReplyCount)
}

func Test_Endpoint_GetTweet_RetriesRateLimit(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}

		fmt.Fprint(w, `{"data": {"id": "100", "text": "hello",
			"public_metrics": {"like_count": 1, "retweet_count": 0, "reply_count": 0, "quote_count": 0}}}`)
	}))
	defer server.Close()

	endpoint := New(mockTwitterConfigs(server.URL))

	tweet, err := endpoint.GetTweet(mockTwitterContext(), "100")
	require.NoError(t, err)
	require.Equal(t, "100", tweet.ID)
	require.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func Test_Endpoint_GetTweet_GivesUpOnRateLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	endpoint := New(mockTwitterConfigs(server.URL))

	_, err := endpoint.GetTweet(mockTwitterContext(), "100")
	require.Error(t, err)
}

func Test_Endpoint_CalculatePoints(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data": {"id": "100", "text": "hello",
			"public_metrics": {"like_count": 3, "retweet_count": 2, "reply_count": 1, "quote_count": 5}}}`)
	}))
	defer server.Close()

	endpoint := New(mockTwitterConfigs(server.URL))

	points := endpoint.CalculatePoints(mockTwitterContext(), "100", Weights{Like: 1, Retweet: 2, Reply: 1})
	require.Equal(t, "8", points.String())
}

func Test_Endpoint_CalculatePoints_DegradesToZero(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	endpoint := New(mockTwitterConfigs(server.URL))

	points := endpoint.CalculatePoints(mockTwitterContext(), "100", Weights{Like: 1})
	require.True(t, points.IsZero())
}
