package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/nomorelonelylife/Point-bot/internal/domain/cron"
	"github.com/nomorelonelylife/Point-bot/internal/model"
	"github.com/nomorelonelylife/Point-bot/pkg/xcontext"
)

func (s *srv) startDaemon(cctx *cli.Context) error {
	if err := s.loadBase(cctx); err != nil {
		return err
	}

	s.loadRepos()
	s.loadStorage()
	s.loadEndpoint()
	s.loadDomains()

	s.events = make(chan model.Event, 64)

	cronJobManager := cron.NewCronJobManager()
	managerDone := make(chan struct{})
	go func() {
		defer close(managerDone)
		cronJobManager.Start(
			s.ctx,
			cron.NewExpirySweepCronJob(
				s.confettiDomain, s.trapDomain, s.events, s.configs.Cron.SweepInterval),
			cron.NewCleanupCronJob(s.maintenanceDomain),
			cron.NewHeartbeatCronJob(s.configs.Cron.HeartbeatURL),
		)
	}()

	go s.drainEvents()

	healthServer := &http.Server{
		Addr:    s.configs.Health.Address(),
		Handler: s.healthHandler(),
	}

	go func() {
		xcontext.Logger(s.ctx).Infof("Health endpoint listening on %s", healthServer.Addr)
		if err := healthServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			xcontext.Logger(s.ctx).Errorf("Health server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	xcontext.Logger(s.ctx).Infof("Shutting down...")

	cronJobManager.Cancel(s.ctx)
	<-managerDone

	shutdownCtx, cancel := context.WithTimeout(s.ctx, 10*time.Second)
	defer cancel()
	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		xcontext.Logger(s.ctx).Errorf("Cannot shut down health server: %v", err)
	}

	s.closeDatabase()
	return nil
}

func (s *srv) healthHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return mux
}

// drainEvents forwards settlement events to the log. The chat front-end
// replaces this sink with its own announcer.
func (s *srv) drainEvents() {
	for event := range s.events {
		switch event.Type {
		case model.BallSettledEvent:
			settlement := event.BallSettlement
			xcontext.Logger(s.ctx).Infof(
				"Ball %s settled: %d claims, %s points unclaimed",
				settlement.Ball.ID, len(settlement.Claims), settlement.Unclaimed)
		case model.TrapSettledEvent:
			settlement := event.TrapSettlement
			xcontext.Logger(s.ctx).Infof(
				"Trap %s settled: %d victims, %s points earned",
				settlement.Trap.ID, len(settlement.Claims), settlement.Trap.EarnedPoints)
		}
	}
}
