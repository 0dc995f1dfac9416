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

type TrapDomain interface {
	CreateTrap(context.Context, *model.CreateTrapRequest) (*model.CreateTrapResponse, error)
	ClaimTrap(context.Context, *model.ClaimTrapRequest) (*model.ClaimTrapResponse, error)
	ProcessExpiredTraps(context.Context, *model.ProcessExpiredTrapsRequest) (*model.ProcessExpiredTrapsResponse, error)
}

type trapDomain struct {
	trapRepo    repository.TrapRepository
	accountRepo repository.AccountRepository
}

func NewTrapDomain(
	trapRepo repository.TrapRepository,
	accountRepo repository.AccountRepository,
) *trapDomain {
	return &trapDomain{trapRepo: trapRepo, accountRepo: accountRepo}
}

// CreateTrap needs no funding; the trap pays out of its victims' balances.
func (d *trapDomain) CreateTrap(
	ctx context.Context, req *model.CreateTrapRequest,
) (*model.CreateTrapResponse, error) {
	if req.CreatorID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty creator id")
	}

	cfg := xcontext.Configs(ctx).Confetti
	if req.MaxClaims < 1 || req.MaxClaims > cfg.MaxClaims {
		return nil, errorx.New(errorx.BadRequest,
			"The number of claims must be between 1 and %d", cfg.MaxClaims)
	}

	expiresAt := req.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = time.Now().Add(crypto.RandDuration(cfg.MinExpiration, cfg.MaxExpiration))
	}

	trap := &entity.ConfettiTrap{
		Base:         entity.Base{ID: uuid.NewString()},
		CreatorID:    req.CreatorID,
		EarnedPoints: decimal.Zero,
		MaxClaims:    req.MaxClaims,
		Message:      req.Message,
		ChannelRef:   req.ChannelRef,
		Active:       true,
		ExpiresAt:    expiresAt,
	}

	if err := d.trapRepo.CreateTrap(ctx, trap); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create trap: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateTrapResponse{Trap: model.ConvertConfettiTrap(trap)}, nil
}

// ClaimTrap springs the trap on the claimer. The outcome tells the caller
// what happened: a normal steal, a rejection, a trap dying because its
// creator is broke, or the anti-abuse penalty firing against the creator.
func (d *trapDomain) ClaimTrap(
	ctx context.Context, req *model.ClaimTrapRequest,
) (*model.ClaimTrapResponse, error) {
	if req.TrapID == "" || req.UserID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty id")
	}

	cfg := xcontext.Configs(ctx).Trap

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	trap, err := d.trapRepo.GetTrap(ctx, req.TrapID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &model.ClaimTrapResponse{Outcome: entity.TrapRejected}, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot get trap: %v", err)
		return nil, errorx.Unknown
	}

	if !trap.Active || !trap.ExpiresAt.After(time.Now()) || trap.ClaimedCount >= trap.MaxClaims {
		return &model.ClaimTrapResponse{Outcome: entity.TrapRejected}, nil
	}

	if req.UserID == trap.CreatorID {
		return &model.ClaimTrapResponse{Outcome: entity.TrapRejected}, nil
	}

	creatorBalance := decimal.Zero
	creator, err := d.accountRepo.Get(ctx, trap.CreatorID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get creator account: %v", err)
		return nil, errorx.Unknown
	}
	if err == nil {
		creatorBalance = creator.Balance
	}

	// A trap whose creator has nothing left dies on the spot.
	if numberutil.IsNegligible(creatorBalance) {
		if _, err := d.trapRepo.Deactivate(ctx, req.TrapID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot deactivate broke trap: %v", err)
			return nil, errorx.Unknown
		}

		if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
			return nil, errorx.Unknown
		}

		return &model.ClaimTrapResponse{Outcome: entity.TrapNoBalance}, nil
	}

	// Anti-abuse cap: a trap that already extracted more than the cap
	// multiple of the creator's balance turns on its creator.
	if trap.EarnedPoints.GreaterThan(creatorBalance.Mul(cfg.EarningsCap)) {
		penalty := numberutil.RoundPoints(decimal.Min(
			creatorBalance.Mul(crypto.RandDecimal(cfg.PenaltyMinRate, cfg.PenaltyMaxRate)),
			creatorBalance,
		))

		if err := d.accountRepo.Deposit(ctx, trap.CreatorID, "", penalty.Neg()); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot penalize creator: %v", err)
			return nil, errorx.Unknown
		}

		if _, err := d.trapRepo.Deactivate(ctx, req.TrapID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot deactivate capped trap: %v", err)
			return nil, errorx.Unknown
		}

		if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
			return nil, errorx.Unknown
		}

		return &model.ClaimTrapResponse{Outcome: entity.TrapPenalty, Points: penalty}, nil
	}

	victimBalance := decimal.Zero
	victim, err := d.accountRepo.Get(ctx, req.UserID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get victim account: %v", err)
		return nil, errorx.Unknown
	}
	if err == nil {
		victimBalance = victim.Balance
	}

	// Nothing to steal from an empty-handed victim.
	if numberutil.IsNegligible(victimBalance) {
		return &model.ClaimTrapResponse{Outcome: entity.TrapRejected}, nil
	}

	loss := numberutil.RoundPoints(decimal.Min(
		victimBalance.Mul(crypto.RandDecimal(cfg.StealMinRate, cfg.StealMaxRate)),
		victimBalance,
	))

	err = d.trapRepo.CreateClaim(ctx, &entity.TrapClaim{
		TrapID:      req.TrapID,
		UserID:      req.UserID,
		DisplayName: req.DisplayName,
		Points:      loss,
	})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return &model.ClaimTrapResponse{Outcome: entity.TrapRejected}, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot create trap claim: %v", err)
		return nil, errorx.Unknown
	}

	stillActive := trap.ClaimedCount+1 < trap.MaxClaims
	err = d.trapRepo.RecordClaim(ctx, req.TrapID,
		trap.EarnedPoints.Add(loss), trap.ClaimedCount, stillActive)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot record claim on trap: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.accountRepo.Deposit(ctx, req.UserID, req.DisplayName, loss.Neg()); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot debit victim: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.accountRepo.Deposit(ctx, trap.CreatorID, "", loss); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot credit creator: %v", err)
		return nil, errorx.Unknown
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return nil, errorx.Unknown
	}

	return &model.ClaimTrapResponse{Outcome: entity.TrapOK, Points: loss}, nil
}

// ProcessExpiredTraps deactivates expired traps. Unlike balls there is no
// pool to return; the summaries exist only so the caller can announce what
// the trap caught.
func (d *trapDomain) ProcessExpiredTraps(
	ctx context.Context, req *model.ProcessExpiredTrapsRequest,
) (*model.ProcessExpiredTrapsResponse, error) {
	expired, err := d.trapRepo.GetExpiredActiveTraps(ctx, time.Now())
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get expired traps: %v", err)
		return nil, errorx.Unknown
	}

	settlements := []model.TrapSettlement{}
	for i := range expired {
		trap := &expired[i]
		deactivated, err := d.trapRepo.Deactivate(ctx, trap.ID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot deactivate trap %s: %v", trap.ID, err)
			continue
		}

		if !deactivated {
			continue
		}

		claims, err := d.trapRepo.GetClaims(ctx, trap.ID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get claims of trap %s: %v", trap.ID, err)
			continue
		}

		trap.Active = false
		settlements = append(settlements, model.TrapSettlement{
			Trap:   model.ConvertConfettiTrap(trap),
			Claims: model.ConvertTrapClaims(claims),
		})
	}

	return &model.ProcessExpiredTrapsResponse{Settlements: settlements}, nil
}
