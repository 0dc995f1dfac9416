package cron

import (
	"context"
	"time"

	"github.com/nomorelonelylife/Point-bot/internal/domain"
	"github.com/nomorelonelylife/Point-bot/internal/model"
	"github.com/nomorelonelylife/Point-bot/pkg/dateutil"
	"github.com/nomorelonelylife/Point-bot/pkg/xcontext"
)

// CleanupCronJob runs the daily backup-then-purge cycle. Failures are
// already retried and logged inside the domain; the job itself never
// escalates.
type CleanupCronJob struct {
	maintenanceDomain domain.MaintenanceDomain
}

func NewCleanupCronJob(maintenanceDomain domain.MaintenanceDomain) *CleanupCronJob {
	return &CleanupCronJob{maintenanceDomain: maintenanceDomain}
}

func (job *CleanupCronJob) Do(ctx context.Context) {
	resp, err := job.maintenanceDomain.RunCleanupCycle(ctx, &model.RunCleanupCycleRequest{})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cleanup cycle did not complete: %v", err)
		return
	}

	xcontext.Logger(ctx).Infof(
		"Cleanup done: backup=%s ballots=%d options=%d claims=%d balls=%d traps=%d pruned=%d",
		resp.BackupFile, resp.PurgedBallots, resp.PurgedOptions,
		resp.PurgedClaims, resp.PurgedBalls, resp.PurgedTraps, resp.PrunedBackups)
}

func (job *CleanupCronJob) RunNow() bool {
	return false
}

func (job *CleanupCronJob) Next() time.Time {
	return dateutil.NextDay(time.Now())
}
