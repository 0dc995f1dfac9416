package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/nomorelonelylife/Point-bot/internal/model"
	"github.com/nomorelonelylife/Point-bot/internal/repository"
	"github.com/nomorelonelylife/Point-bot/pkg/testutil"
)

func Test_confettiDomain_CreateBall(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	accountRepo := repository.NewAccountRepository()
	d := NewConfettiDomain(repository.NewConfettiRepository(), accountRepo)

	resp, err := d.CreateBall(ctx, &model.CreateBallRequest{
		CreatorID:   testutil.Account1.UserID,
		TotalPoints: decimal.NewFromInt(40),
		MaxClaims:   5,
	})
	require.NoError(t, err)
	require.True(t, resp.Created)
	require.True(t, resp.Ball.Active)
	require.True(t, resp.Ball.ExpiresAt.After(time.Now()))

	// The pool was debited up front.
	creator, err := accountRepo.Get(ctx, testutil.Account1.UserID)
	require.NoError(t, err)
	require.Equal(t, "60", creator.Balance.String())

	// A broke creator cannot fund a ball.
	resp, err = d.CreateBall(ctx, &model.CreateBallRequest{
		CreatorID:   testutil.Account3.UserID,
		TotalPoints: decimal.NewFromInt(1),
		MaxClaims:   1,
	})
	require.NoError(t, err)
	require.False(t, resp.Created)

	_, err = d.CreateBall(ctx, &model.CreateBallRequest{
		CreatorID:   testutil.Account1.UserID,
		TotalPoints: decimal.NewFromInt(1),
		MaxClaims:   0,
	})
	require.Error(t, err)

	_, err = d.CreateBall(ctx, &model.CreateBallRequest{
		CreatorID:   testutil.Account1.UserID,
		TotalPoints: decimal.RequireFromString("0.000000001"),
		MaxClaims:   1,
	})
	require.Error(t, err)
}

func Test_confettiDomain_ClaimBall_ExhaustsPool(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	accountRepo := repository.NewAccountRepository()
	d := NewConfettiDomain(repository.NewConfettiRepository(), accountRepo)

	created, err := d.CreateBall(ctx, &model.CreateBallRequest{
		CreatorID:   testutil.Account1.UserID,
		TotalPoints: decimal.NewFromInt(10),
		MaxClaims:   2,
		ExpiresAt:   time.Now().Add(time.Hour),
	})
	require.NoError(t, err)
	require.True(t, created.Created)

	first, err := d.ClaimBall(ctx, &model.ClaimBallRequest{
		BallID: created.Ball.ID,
		UserID: testutil.Account2.UserID,
	})
	require.NoError(t, err)
	require.True(t, first.Claimed)
	require.True(t, first.Points.GreaterThanOrEqual(decimal.RequireFromString("2.5")))
	require.True(t, first.Points.LessThanOrEqual(decimal.NewFromInt(9)))

	// The last claim takes the remainder exactly.
	second, err := d.ClaimBall(ctx, &model.ClaimBallRequest{
		BallID: created.Ball.ID,
		UserID: testutil.Account3.UserID,
	})
	require.NoError(t, err)
	require.True(t, second.Claimed)
	require.True(t, first.Points.Add(second.Points).Equal(decimal.NewFromInt(10)))

	// Both claimers were credited.
	claimer, err := accountRepo.Get(ctx, testutil.Account3.UserID)
	require.NoError(t, err)
	require.True(t, claimer.Balance.Equal(second.Points))

	// The ball is out of slots.
	third, err := d.ClaimBall(ctx, &model.ClaimBallRequest{
		BallID: created.Ball.ID,
		UserID: "late-user",
	})
	require.NoError(t, err)
	require.False(t, third.Claimed)
}

func Test_confettiDomain_ClaimBall_OncePerUser(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	d := NewConfettiDomain(repository.NewConfettiRepository(), repository.NewAccountRepository())

	created, err := d.CreateBall(ctx, &model.CreateBallRequest{
		CreatorID:   testutil.Account1.UserID,
		TotalPoints: decimal.NewFromInt(50),
		MaxClaims:   10,
		ExpiresAt:   time.Now().Add(time.Hour),
	})
	require.NoError(t, err)
	require.True(t, created.Created)

	// Ten concurrent claims by the same user land exactly one share.
	results := make([]bool, 10)
	var eg errgroup.Group
	for i := 0; i < 10; i++ {
		i := i
		eg.Go(func() error {
			resp, err := d.ClaimBall(ctx, &model.ClaimBallRequest{
				BallID: created.Ball.ID,
				UserID: testutil.Account2.UserID,
			})
			if err != nil {
				return err
			}

			results[i] = resp.Claimed
			return nil
		})
	}
	require.NoError(t, eg.Wait())

	claimedCount := 0
	for _, claimed := range results {
		if claimed {
			claimedCount++
		}
	}
	require.Equal(t, 1, claimedCount)
}

func Test_confettiDomain_ProcessExpiredBalls(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	accountRepo := repository.NewAccountRepository()
	d := NewConfettiDomain(repository.NewConfettiRepository(), accountRepo)

	created, err := d.CreateBall(ctx, &model.CreateBallRequest{
		CreatorID:   testutil.Account1.UserID,
		TotalPoints: decimal.NewFromInt(20),
		MaxClaims:   4,
		ExpiresAt:   time.Now().Add(50 * time.Millisecond),
	})
	require.NoError(t, err)
	require.True(t, created.Created)

	claim, err := d.ClaimBall(ctx, &model.ClaimBallRequest{
		BallID: created.Ball.ID,
		UserID: testutil.Account2.UserID,
	})
	require.NoError(t, err)
	require.True(t, claim.Claimed)

	time.Sleep(100 * time.Millisecond)

	resp, err := d.ProcessExpiredBalls(ctx, &model.ProcessExpiredBallsRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Settlements, 1)
	require.Len(t, resp.Settlements[0].Claims, 1)
	require.True(t, resp.Settlements[0].Unclaimed.Equal(decimal.NewFromInt(20).Sub(claim.Points)))

	// The unclaimed remainder went back to the creator.
	creator, err := accountRepo.Get(ctx, testutil.Account1.UserID)
	require.NoError(t, err)
	require.True(t, creator.Balance.Equal(decimal.NewFromInt(100).Sub(claim.Points)))

	// Settling is idempotent; a second sweep finds nothing.
	resp, err = d.ProcessExpiredBalls(ctx, &model.ProcessExpiredBallsRequest{})
	require.NoError(t, err)
	require.Empty(t, resp.Settlements)

	// The settled ball no longer accepts claims.
	late, err := d.ClaimBall(ctx, &model.ClaimBallRequest{
		BallID: created.Ball.ID,
		UserID: testutil.Account3.UserID,
	})
	require.NoError(t, err)
	require.False(t, late.Claimed)
}
