package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nomorelonelylife/Point-bot/internal/entity"
	"github.com/nomorelonelylife/Point-bot/internal/model"
	"github.com/nomorelonelylife/Point-bot/internal/repository"
	"github.com/nomorelonelylife/Point-bot/pkg/errorx"
	"github.com/nomorelonelylife/Point-bot/pkg/numberutil"
	"github.com/nomorelonelylife/Point-bot/pkg/xcontext"
)

type VoteDomain interface {
	CreateVote(context.Context, *model.CreateVoteRequest) (*model.CreateVoteResponse, error)
	CastBallot(context.Context, *model.CastBallotRequest) (*model.CastBallotResponse, error)
	GetResults(context.Context, *model.GetResultsRequest) (*model.GetResultsResponse, error)
}

type voteDomain struct {
	voteRepo    repository.VoteRepository
	accountRepo repository.AccountRepository
}

func NewVoteDomain(
	voteRepo repository.VoteRepository,
	accountRepo repository.AccountRepository,
) *voteDomain {
	return &voteDomain{voteRepo: voteRepo, accountRepo: accountRepo}
}

func (d *voteDomain) CreateVote(
	ctx context.Context, req *model.CreateVoteRequest,
) (*model.CreateVoteResponse, error) {
	if req.CreatorID == "" || req.TargetUserID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty user id")
	}

	cfg := xcontext.Configs(ctx).Vote
	if len(req.Options) < cfg.MinOptions || len(req.Options) > cfg.MaxOptions {
		return nil, errorx.New(errorx.BadRequest,
			"The number of options must be between %d and %d", cfg.MinOptions, cfg.MaxOptions)
	}

	if req.ExpiresIn < cfg.MinExpireDays || req.ExpiresIn > cfg.MaxExpireDays {
		return nil, errorx.New(errorx.BadRequest,
			"The expiration must be between %d and %d days", cfg.MinExpireDays, cfg.MaxExpireDays)
	}

	for i, option := range req.Options {
		if option.Text == "" {
			return nil, errorx.New(errorx.BadRequest, "Not allow an empty text for option %d", i+1)
		}

		if !option.Points.IsPositive() {
			return nil, errorx.New(errorx.BadRequest,
				"The points of option %d must be positive", i+1)
		}
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	vote := &entity.Vote{
		Base:         entity.Base{ID: uuid.NewString()},
		CreatorID:    req.CreatorID,
		TargetUserID: req.TargetUserID,
		Description:  req.Description,
		Active:       true,
		ExpiresAt:    time.Now().AddDate(0, 0, req.ExpiresIn),
	}

	if err := d.voteRepo.CreateVote(ctx, vote); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create vote: %v", err)
		return nil, errorx.Unknown
	}

	options := []entity.VoteOption{}
	for i, option := range req.Options {
		voteOption := entity.VoteOption{
			Base:     entity.Base{ID: uuid.NewString()},
			VoteID:   vote.ID,
			Position: i,
			Text:     option.Text,
			Points:   numberutil.RoundPoints(option.Points),
		}

		if err := d.voteRepo.CreateOption(ctx, &voteOption); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot create vote option: %v", err)
			return nil, errorx.Unknown
		}

		options = append(options, voteOption)
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateVoteResponse{Vote: model.ConvertVote(vote, options)}, nil
}

// CastBallot records one ballot and immediately credits the vote's target
// with the chosen option's points. A voter gets exactly one ballot per
// vote; the second attempt answers Voted=false.
func (d *voteDomain) CastBallot(
	ctx context.Context, req *model.CastBallotRequest,
) (*model.CastBallotResponse, error) {
	if req.VoteID == "" || req.OptionID == "" || req.VoterID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty id")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	vote, err := d.voteRepo.GetVote(ctx, req.VoteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found vote")
		}

		xcontext.Logger(ctx).Errorf("Cannot get vote: %v", err)
		return nil, errorx.Unknown
	}

	if !vote.Active || !vote.ExpiresAt.After(time.Now()) {
		return &model.CastBallotResponse{Voted: false}, nil
	}

	option, err := d.voteRepo.GetOption(ctx, req.OptionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found option")
		}

		xcontext.Logger(ctx).Errorf("Cannot get option: %v", err)
		return nil, errorx.Unknown
	}

	if option.VoteID != vote.ID {
		return nil, errorx.New(errorx.BadRequest, "The option does not belong to this vote")
	}

	err = d.voteRepo.CreateRecord(ctx, &entity.VoteRecord{
		VoteID:   req.VoteID,
		VoterID:  req.VoterID,
		OptionID: req.OptionID,
	})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return &model.CastBallotResponse{Voted: false}, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot create vote record: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.voteRepo.IncreaseOptionCount(ctx, req.OptionID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot increase option tally: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.accountRepo.Deposit(ctx, vote.TargetUserID, "", option.Points); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot credit vote target: %v", err)
		return nil, errorx.Unknown
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CastBallotResponse{Voted: true, Points: option.Points}, nil
}

func (d *voteDomain) GetResults(
	ctx context.Context, req *model.GetResultsRequest,
) (*model.GetResultsResponse, error) {
	if req.VoteID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty vote id")
	}

	vote, err := d.voteRepo.GetVote(ctx, req.VoteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found vote")
		}

		xcontext.Logger(ctx).Errorf("Cannot get vote: %v", err)
		return nil, errorx.Unknown
	}

	options, err := d.voteRepo.GetOptions(ctx, req.VoteID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get options: %v", err)
		return nil, errorx.Unknown
	}

	totalVotes, err := d.voteRepo.CountRecords(ctx, req.VoteID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count ballots: %v", err)
		return nil, errorx.Unknown
	}

	tallies := []model.OptionTally{}
	for i := range options {
		option := &options[i]
		tallies = append(tallies, model.OptionTally{
			Option:      model.ConvertVoteOption(option),
			TotalPoints: option.Points.Mul(decimal.NewFromInt(int64(option.VoteCount))),
		})
	}

	return &model.GetResultsResponse{
		Vote:       model.ConvertVote(vote, options),
		Tallies:    tallies,
		TotalVotes: int(totalVotes),
	}, nil
}
