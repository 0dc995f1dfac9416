package domain

import (
	"context"
	"time"

	"github.com/nomorelonelylife/Point-bot/internal/model"
	"github.com/nomorelonelylife/Point-bot/internal/repository"
	"github.com/nomorelonelylife/Point-bot/pkg/errorx"
	"github.com/nomorelonelylife/Point-bot/pkg/storage"
	"github.com/nomorelonelylife/Point-bot/pkg/xcontext"
)

type MaintenanceDomain interface {
	RunCleanupCycle(context.Context, *model.RunCleanupCycleRequest) (*model.RunCleanupCycleResponse, error)
}

type maintenanceDomain struct {
	voteRepo     repository.VoteRepository
	confettiRepo repository.ConfettiRepository
	trapRepo     repository.TrapRepository
	backupStore  storage.BackupStore
}

func NewMaintenanceDomain(
	voteRepo repository.VoteRepository,
	confettiRepo repository.ConfettiRepository,
	trapRepo repository.TrapRepository,
	backupStore storage.BackupStore,
) *maintenanceDomain {
	return &maintenanceDomain{
		voteRepo:     voteRepo,
		confettiRepo: confettiRepo,
		trapRepo:     trapRepo,
		backupStore:  backupStore,
	}
}

// RunCleanupCycle backs up the database, purges stale giveaway and vote
// records, compacts storage, and prunes old backups. Transient lock errors
// retry the whole cycle with exponential backoff; exhausting the retries is
// logged at critical severity but never kills the process.
func (d *maintenanceDomain) RunCleanupCycle(
	ctx context.Context, req *model.RunCleanupCycleRequest,
) (*model.RunCleanupCycleResponse, error) {
	cfg := xcontext.Configs(ctx).Cron

	var resp *model.RunCleanupCycleResponse
	var err error
	for attempt := 0; attempt <= cfg.CleanupMaxRetry; attempt++ {
		if attempt > 0 {
			backoff := cfg.CleanupBackoff << (attempt - 1)
			xcontext.Logger(ctx).Warnf(
				"Cleanup hit a lock, retrying in %s (attempt %d/%d)",
				backoff, attempt, cfg.CleanupMaxRetry)
			time.Sleep(backoff)
		}

		resp, err = d.runOnce(ctx)
		if err == nil {
			return resp, nil
		}

		if !repository.IsLockError(err) {
			xcontext.Logger(ctx).Errorf("Cleanup cycle failed: %v", err)
			return nil, errorx.Unknown
		}
	}

	xcontext.Logger(ctx).Criticalf(
		"Cleanup cycle gave up after %d retries: %v", cfg.CleanupMaxRetry, err)
	return nil, errorx.New(errorx.Unavailable, "Cleanup could not acquire the database")
}

func (d *maintenanceDomain) runOnce(ctx context.Context) (*model.RunCleanupCycleResponse, error) {
	backupCfg := xcontext.Configs(ctx).Backup
	now := time.Now()

	// Always snapshot before deleting anything.
	backupFile, err := d.backupStore.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	resp := &model.RunCleanupCycleResponse{BackupFile: backupFile}

	err = func() error {
		ctx := xcontext.WithDBTransaction(ctx)
		defer xcontext.WithRollbackDBTransaction(ctx)

		records, options, err := d.voteRepo.PurgeExpiredBefore(ctx, now.Add(-backupCfg.VoteRetention))
		if err != nil {
			return err
		}
		resp.PurgedBallots = records
		resp.PurgedOptions = options

		deactivated, err := d.voteRepo.DeactivateExpired(ctx, now)
		if err != nil {
			return err
		}
		resp.DeactivatedVotes = deactivated

		claimCutoff := now.Add(-backupCfg.ClaimRetention)
		ballClaims, err := d.confettiRepo.DeleteClaimsBefore(ctx, claimCutoff)
		if err != nil {
			return err
		}

		trapClaims, err := d.trapRepo.DeleteClaimsBefore(ctx, claimCutoff)
		if err != nil {
			return err
		}
		resp.PurgedClaims = ballClaims + trapClaims

		balls, err := d.confettiRepo.DeleteSettledBallsBefore(ctx, now)
		if err != nil {
			return err
		}
		resp.PurgedBalls = balls

		traps, err := d.trapRepo.DeleteSettledTrapsBefore(ctx, now)
		if err != nil {
			return err
		}
		resp.PurgedTraps = traps

		return xcontext.WithCommitDBTransaction(ctx)
	}()
	if err != nil {
		return nil, err
	}

	// Compaction is best effort.
	if err := xcontext.DB(ctx).Exec("VACUUM").Error; err != nil {
		xcontext.Logger(ctx).Warnf("Cannot compact database: %v", err)
	}

	pruned, err := d.backupStore.Prune(ctx, now.Add(-backupCfg.Retention))
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot prune backups: %v", err)
	}
	resp.PrunedBackups = pruned

	return resp, nil
}
