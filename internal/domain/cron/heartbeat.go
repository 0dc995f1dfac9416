package cron

import (
	"context"
	"net/http"
	"time"

	"github.com/nomorelonelylife/Point-bot/pkg/xcontext"
)

const (
	heartbeatInterval = 5 * time.Minute
	heartbeatTimeout  = 10 * time.Second
)

// HeartbeatCronJob pings an external monitor so someone notices when the
// bot dies. Failures are logged and otherwise ignored.
type HeartbeatCronJob struct {
	url string
}

func NewHeartbeatCronJob(url string) *HeartbeatCronJob {
	return &HeartbeatCronJob{url: url}
}

func (job *HeartbeatCronJob) Do(ctx context.Context) {
	if job.url == "" {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, heartbeatTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, job.url, nil)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot build heartbeat request: %v", err)
		return
	}

	resp, err := xcontext.HTTPClient(ctx).Do(req)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Heartbeat failed: %v", err)
		return
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		xcontext.Logger(ctx).Warnf("Heartbeat got status %d", resp.StatusCode)
	}
}

func (job *HeartbeatCronJob) RunNow() bool {
	return true
}

func (job *HeartbeatCronJob) Next() time.Time {
	return time.Now().Add(heartbeatInterval)
}
