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
	"github.com/nomorelonelylife/Point-bot/pkg/crypto"
	"github.com/nomorelonelylife/Point-bot/pkg/errorx"
	"github.com/nomorelonelylife/Point-bot/pkg/numberutil"
	"github.com/nomorelonelylife/Point-bot/pkg/xcontext"
)

type ConfettiDomain interface {
	CreateBall(context.Context, *model.CreateBallRequest) (*model.CreateBallResponse, error)
	ClaimBall(context.Context, *model.ClaimBallRequest) (*model.ClaimBallResponse, error)
	ProcessExpiredBalls(context.Context, *model.ProcessExpiredBallsRequest) (*model.ProcessExpiredBallsResponse, error)
}

type confettiDomain struct {
	confettiRepo repository.ConfettiRepository
	accountRepo  repository.AccountRepository
}

func NewConfettiDomain(
	confettiRepo repository.ConfettiRepository,
	accountRepo repository.AccountRepository,
) *confettiDomain {
	return &confettiDomain{confettiRepo: confettiRepo, accountRepo: accountRepo}
}

// CreateBall funds the pool from the creator's balance in the same
// transaction that makes the ball claimable. A creator who cannot cover the
// pool gets Created=false, not an error.
func (d *confettiDomain) CreateBall(
	ctx context.Context, req *model.CreateBallRequest,
) (*model.CreateBallResponse, error) {
	if req.CreatorID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty creator id")
	}

	cfg := xcontext.Configs(ctx).Confetti
	if req.MaxClaims < 1 || req.MaxClaims > cfg.MaxClaims {
		return nil, errorx.New(errorx.BadRequest,
			"The number of claims must be between 1 and %d", cfg.MaxClaims)
	}

	total := numberutil.RoundPoints(req.TotalPoints)
	if numberutil.IsNegligible(total) {
		return nil, errorx.New(errorx.BadRequest, "The point pool is too small")
	}

	expiresAt := req.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = time.Now().Add(crypto.RandDuration(cfg.MinExpiration, cfg.MaxExpiration))
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	creator, err := d.accountRepo.Get(ctx, req.CreatorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &model.CreateBallResponse{Created: false}, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot get creator account: %v", err)
		return nil, errorx.Unknown
	}

	if creator.Balance.LessThan(total) {
		return &model.CreateBallResponse{Created: false}, nil
	}

	if err := d.accountRepo.Deposit(ctx, req.CreatorID, "", total.Neg()); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot debit creator: %v", err)
		return nil, errorx.Unknown
	}

	ball := &entity.ConfettiBall{
		Base:          entity.Base{ID: uuid.NewString()},
		CreatorID:     req.CreatorID,
		TotalPoints:   total,
		ClaimedPoints: decimal.Zero,
		MaxClaims:     req.MaxClaims,
		Message:       req.Message,
		ChannelRef:    req.ChannelRef,
		Active:        true,
		ExpiresAt:     expiresAt,
	}

	if err := d.confettiRepo.CreateBall(ctx, ball); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create ball: %v", err)
		return nil, errorx.Unknown
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateBallResponse{Created: true, Ball: model.ConvertConfettiBall(ball)}, nil
}

// ClaimBall draws a random share of the remaining pool for the claimer. All
// rejection reasons answer Claimed=false; only genuine storage faults
// surface as errors.
func (d *confettiDomain) ClaimBall(
	ctx context.Context, req *model.ClaimBallRequest,
) (*model.ClaimBallResponse, error) {
	if req.BallID == "" || req.UserID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty id")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	ball, err := d.confettiRepo.GetBall(ctx, req.BallID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &model.ClaimBallResponse{Claimed: false}, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot get ball: %v", err)
		return nil, errorx.Unknown
	}

	if !ball.Active || !ball.ExpiresAt.After(time.Now()) || ball.ClaimedCount >= ball.MaxClaims {
		return &model.ClaimBallResponse{Claimed: false}, nil
	}

	award := ballPayout(ball)

	err = d.confettiRepo.CreateClaim(ctx, &entity.ConfettiClaim{
		BallID:      req.BallID,
		UserID:      req.UserID,
		DisplayName: req.DisplayName,
		Points:      award,
	})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return &model.ClaimBallResponse{Claimed: false}, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot create claim: %v", err)
		return nil, errorx.Unknown
	}

	stillActive := ball.ClaimedCount+1 < ball.MaxClaims
	err = d.confettiRepo.RecordClaim(ctx, req.BallID,
		ball.ClaimedPoints.Add(award), ball.ClaimedCount, stillActive)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot record claim on ball: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.accountRepo.Deposit(ctx, req.UserID, req.DisplayName, award); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot credit claimer: %v", err)
		return nil, errorx.Unknown
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return nil, errorx.Unknown
	}

	return &model.ClaimBallResponse{Claimed: true, Points: award}, nil
}

// ballPayout draws the share for the next claim. The last slot always takes
// the full remainder; earlier slots draw around an even split, bounded so
// the pool cannot run dry before the final claim.
func ballPayout(ball *entity.ConfettiBall) decimal.Decimal {
	remaining := ball.TotalPoints.Sub(ball.ClaimedPoints)
	slots := int64(ball.MaxClaims - ball.ClaimedCount)
	if slots <= 1 {
		return remaining
	}

	share := remaining.Div(decimal.NewFromInt(slots))
	lower := decimal.Max(remaining.Mul(decimal.NewFromFloat(0.01)), share.Mul(decimal.NewFromFloat(0.5)))
	upper := decimal.Min(remaining.Mul(decimal.NewFromFloat(0.9)), share.Mul(decimal.NewFromInt(2)))

	return numberutil.RoundPoints(crypto.RandDecimal(lower, upper))
}

// ProcessExpiredBalls settles every active ball whose expiry has passed,
// returning any unclaimed remainder to the creator. Settling is idempotent;
// a ball another sweep already handled is skipped.
func (d *confettiDomain) ProcessExpiredBalls(
	ctx context.Context, req *model.ProcessExpiredBallsRequest,
) (*model.ProcessExpiredBallsResponse, error) {
	expired, err := d.confettiRepo.GetExpiredActiveBalls(ctx, time.Now())
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get expired balls: %v", err)
		return nil, errorx.Unknown
	}

	settlements := []model.BallSettlement{}
	for i := range expired {
		settlement, err := d.settleBall(ctx, expired[i].ID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot settle ball %s: %v", expired[i].ID, err)
			continue
		}

		if settlement != nil {
			settlements = append(settlements, *settlement)
		}
	}

	return &model.ProcessExpiredBallsResponse{Settlements: settlements}, nil
}

func (d *confettiDomain) settleBall(ctx context.Context, ballID string) (*model.BallSettlement, error) {
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	ball, err := d.confettiRepo.GetBall(ctx, ballID)
	if err != nil {
		return nil, err
	}

	deactivated, err := d.confettiRepo.Deactivate(ctx, ballID)
	if err != nil {
		return nil, err
	}

	// Someone else settled it between the sweep query and this
	// transaction.
	if !deactivated {
		return nil, nil
	}

	unclaimed := ball.TotalPoints.Sub(ball.ClaimedPoints)
	if unclaimed.IsPositive() {
		if err := d.accountRepo.Deposit(ctx, ball.CreatorID, "", unclaimed); err != nil {
			return nil, err
		}
	}

	claims, err := d.confettiRepo.GetClaims(ctx, ballID)
	if err != nil {
		return nil, err
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		return nil, err
	}

	ball.Active = false
	return &model.BallSettlement{
		Ball:      model.ConvertConfettiBall(ball),
		Claims:    model.ConvertConfettiClaims(claims),
		Unclaimed: unclaimed,
	}, nil
}
