package cron

import (
	"context"
	"time"

	"github.com/nomorelonelylife/Point-bot/internal/domain"
	"github.com/nomorelonelylife/Point-bot/internal/model"
	"github.com/nomorelonelylife/Point-bot/pkg/xcontext"
)

// ExpirySweepCronJob settles expired balls and traps so time-boxed
// giveaways finish even when nobody touches them again. Each settlement is
// forwarded as an event for the announcing side.
type ExpirySweepCronJob struct {
	confettiDomain domain.ConfettiDomain
	trapDomain     domain.TrapDomain
	events         chan<- model.Event
	interval       time.Duration
}

func NewExpirySweepCronJob(
	confettiDomain domain.ConfettiDomain,
	trapDomain domain.TrapDomain,
	events chan<- model.Event,
	interval time.Duration,
) *ExpirySweepCronJob {
	return &ExpirySweepCronJob{
		confettiDomain: confettiDomain,
		trapDomain:     trapDomain,
		events:         events,
		interval:       interval,
	}
}

func (job *ExpirySweepCronJob) Do(ctx context.Context) {
	ballResp, err := job.confettiDomain.ProcessExpiredBalls(ctx, &model.ProcessExpiredBallsRequest{})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot process expired balls: %v", err)
	} else {
		for i := range ballResp.Settlements {
			job.emit(ctx, model.Event{
				Type:           model.BallSettledEvent,
				CreatedAt:      time.Now(),
				BallSettlement: &ballResp.Settlements[i],
			})
		}
	}

	trapResp, err := job.trapDomain.ProcessExpiredTraps(ctx, &model.ProcessExpiredTrapsRequest{})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot process expired traps: %v", err)
	} else {
		for i := range trapResp.Settlements {
			job.emit(ctx, model.Event{
				Type:           model.TrapSettledEvent,
				CreatedAt:      time.Now(),
				TrapSettlement: &trapResp.Settlements[i],
			})
		}
	}
}

// emit never blocks the sweep; if nobody drains the channel the event is
// dropped with a warning.
func (job *ExpirySweepCronJob) emit(ctx context.Context, event model.Event) {
	select {
	case job.events <- event:
	default:
		xcontext.Logger(ctx).Warnf("Event channel is full, dropping %s event", event.Type)
	}
}

func (job *ExpirySweepCronJob) RunNow() bool {
	return true
}

func (job *ExpirySweepCronJob) Next() time.Time {
	return time.Now().Add(job.interval)
}
