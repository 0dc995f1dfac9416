package cron

import (
	"context"
	"testing"
	"time"

	"github.com/nomorelonelylife/Point-bot/pkg/testutil"
)

type blockingJob struct {
	started chan struct{}
	release chan struct{}
}

func (j *blockingJob) Do(ctx context.Context) {
	close(j.started)
	<-j.release
}

func (j *blockingJob) RunNow() bool { return true }

func (j *blockingJob) Next() time.Time { return time.Now().Add(time.Hour) }

func Test_CronJobManager_CancelDuringFirstRun(t *testing.T) {
	ctx := testutil.MockContext()
	manager := NewCronJobManager()
	job := &blockingJob{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}

	done := make(chan struct{})
	go func() {
		manager.Start(ctx, job)
		close(done)
	}()

	<-job.started
	manager.Cancel(ctx)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("manager did not stop while the first run was in flight")
	}

	close(job.release)
}
