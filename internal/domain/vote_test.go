package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/nomorelonelylife/Point-bot/internal/model"
	"github.com/nomorelonelylife/Point-bot/internal/repository"
	"github.com/nomorelonelylife/Point-bot/pkg/testutil"
)

func Test_voteDomain_CreateVote(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	d := NewVoteDomain(repository.NewVoteRepository(), repository.NewAccountRepository())

	resp, err := d.CreateVote(ctx, &model.CreateVoteRequest{
		CreatorID:    testutil.Account1.UserID,
		TargetUserID: testutil.Account2.UserID,
		Description:  "how was the stream",
		Options: []model.CreateVoteOption{
			{Text: "great", Points: decimal.NewFromInt(5)},
			{Text: "fine", Points: decimal.NewFromInt(2)},
			{Text: "meh", Points: decimal.NewFromInt(1)},
		},
		ExpiresIn: 7,
	})
	require.NoError(t, err)
	require.True(t, resp.Vote.Active)
	require.Len(t, resp.Vote.Options, 3)
	require.Equal(t, "great", resp.Vote.Options[0].Text)

	// Too few options.
	_, err = d.CreateVote(ctx, &model.CreateVoteRequest{
		CreatorID:    testutil.Account1.UserID,
		TargetUserID: testutil.Account2.UserID,
		Options: []model.CreateVoteOption{
			{Text: "only", Points: decimal.NewFromInt(1)},
		},
		ExpiresIn: 7,
	})
	require.Error(t, err)

	// Expiration out of range.
	_, err = d.CreateVote(ctx, &model.CreateVoteRequest{
		CreatorID:    testutil.Account1.UserID,
		TargetUserID: testutil.Account2.UserID,
		Options: []model.CreateVoteOption{
			{Text: "a", Points: decimal.NewFromInt(1)},
			{Text: "b", Points: decimal.NewFromInt(2)},
		},
		ExpiresIn: 31,
	})
	require.Error(t, err)

	// Non-positive option points.
	_, err = d.CreateVote(ctx, &model.CreateVoteRequest{
		CreatorID:    testutil.Account1.UserID,
		TargetUserID: testutil.Account2.UserID,
		Options: []model.CreateVoteOption{
			{Text: "a", Points: decimal.NewFromInt(1)},
			{Text: "b", Points: decimal.Zero},
		},
		ExpiresIn: 7,
	})
	require.Error(t, err)
}

func Test_voteDomain_CastBallot(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	accountRepo := repository.NewAccountRepository()
	d := NewVoteDomain(repository.NewVoteRepository(), accountRepo)

	created, err := d.CreateVote(ctx, &model.CreateVoteRequest{
		CreatorID:    testutil.Account1.UserID,
		TargetUserID: testutil.Account2.UserID,
		Options: []model.CreateVoteOption{
			{Text: "great", Points: decimal.NewFromInt(5)},
			{Text: "meh", Points: decimal.NewFromInt(1)},
		},
		ExpiresIn: 7,
	})
	require.NoError(t, err)

	greatOption := created.Vote.Options[0]
	mehOption := created.Vote.Options[1]

	resp, err := d.CastBallot(ctx, &model.CastBallotRequest{
		VoteID:   created.Vote.ID,
		OptionID: greatOption.ID,
		VoterID:  testutil.Account1.UserID,
	})
	require.NoError(t, err)
	require.True(t, resp.Voted)
	require.True(t, resp.Points.Equal(decimal.NewFromInt(5)))

	// Each ballot credits the target immediately.
	target, err := accountRepo.Get(ctx, testutil.Account2.UserID)
	require.NoError(t, err)
	require.Equal(t, "55", target.Balance.String())

	// One ballot per voter, even on a different option.
	resp, err = d.CastBallot(ctx, &model.CastBallotRequest{
		VoteID:   created.Vote.ID,
		OptionID: mehOption.ID,
		VoterID:  testutil.Account1.UserID,
	})
	require.NoError(t, err)
	require.False(t, resp.Voted)

	target, err = accountRepo.Get(ctx, testutil.Account2.UserID)
	require.NoError(t, err)
	require.Equal(t, "55", target.Balance.String())

	// An option from another vote is a caller mistake, not a tally.
	other, err := d.CreateVote(ctx, &model.CreateVoteRequest{
		CreatorID:    testutil.Account1.UserID,
		TargetUserID: testutil.Account3.UserID,
		Options: []model.CreateVoteOption{
			{Text: "x", Points: decimal.NewFromInt(1)},
			{Text: "y", Points: decimal.NewFromInt(2)},
		},
		ExpiresIn: 7,
	})
	require.NoError(t, err)

	_, err = d.CastBallot(ctx, &model.CastBallotRequest{
		VoteID:   created.Vote.ID,
		OptionID: other.Vote.Options[0].ID,
		VoterID:  testutil.Account3.UserID,
	})
	require.Error(t, err)

	_, err = d.CastBallot(ctx, &model.CastBallotRequest{
		VoteID:   "missing-vote",
		OptionID: greatOption.ID,
		VoterID:  testutil.Account3.UserID,
	})
	require.Error(t, err)
}

func Test_voteDomain_GetResults(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	d := NewVoteDomain(repository.NewVoteRepository(), repository.NewAccountRepository())

	created, err := d.CreateVote(ctx, &model.CreateVoteRequest{
		CreatorID:    testutil.Account1.UserID,
		TargetUserID: testutil.Account2.UserID,
		Options: []model.CreateVoteOption{
			{Text: "great", Points: decimal.NewFromInt(5)},
			{Text: "meh", Points: decimal.NewFromInt(1)},
		},
		ExpiresIn: 7,
	})
	require.NoError(t, err)

	for _, voterID := range []string{"voter1", "voter2"} {
		resp, err := d.CastBallot(ctx, &model.CastBallotRequest{
			VoteID:   created.Vote.ID,
			OptionID: created.Vote.Options[0].ID,
			VoterID:  voterID,
		})
		require.NoError(t, err)
		require.True(t, resp.Voted)
	}

	resp, err := d.CastBallot(ctx, &model.CastBallotRequest{
		VoteID:   created.Vote.ID,
		OptionID: created.Vote.Options[1].ID,
		VoterID:  "voter3",
	})
	require.NoError(t, err)
	require.True(t, resp.Voted)

	results, err := d.GetResults(ctx, &model.GetResultsRequest{VoteID: created.Vote.ID})
	require.NoError(t, err)
	require.Equal(t, 3, results.TotalVotes)
	require.Len(t, results.Tallies, 2)
	require.Equal(t, 2, results.Tallies[0].Option.VoteCount)
	require.True(t, results.Tallies[0].TotalPoints.Equal(decimal.NewFromInt(10)))
	require.Equal(t, 1, results.Tallies[1].Option.VoteCount)
	require.True(t, results.Tallies[1].TotalPoints.Equal(decimal.NewFromInt(1)))
}
