package main

import (
	"errors"

	"github.com/urfave/cli/v2"

	"github.com/nomorelonelylife/Point-bot/internal/model"
	"github.com/nomorelonelylife/Point-bot/pkg/xcontext"
)

func (s *srv) startCleanup(cctx *cli.Context) error {
	if err := s.loadBase(cctx); err != nil {
		return err
	}
	defer s.closeDatabase()

	s.loadRepos()
	s.loadStorage()
	s.loadEndpoint()
	s.loadDomains()

	resp, err := s.maintenanceDomain.RunCleanupCycle(s.ctx, &model.RunCleanupCycleRequest{})
	if err != nil {
		return err
	}

	xcontext.Logger(s.ctx).Infof("Backup written to %s", resp.BackupFile)
	xcontext.Logger(s.ctx).Infof(
		"Purged %d ballots, %d claims, %d balls, %d traps; deactivated %d votes; pruned %d backups",
		resp.PurgedBallots, resp.PurgedClaims, resp.PurgedBalls,
		resp.PurgedTraps, resp.DeactivatedVotes, resp.PrunedBackups)
	return nil
}

func (s *srv) startBackup(cctx *cli.Context) error {
	if err := s.loadBase(cctx); err != nil {
		return err
	}
	defer s.closeDatabase()

	s.loadStorage()

	path, err := s.backupStore.Snapshot(s.ctx)
	if err != nil {
		return err
	}

	xcontext.Logger(s.ctx).Infof("Backup written to %s", path)
	return nil
}

func (s *srv) startRestore(cctx *cli.Context) error {
	path := cctx.Args().First()
	if path == "" {
		return errors.New("missing backup path")
	}

	if err := s.loadBase(cctx); err != nil {
		return err
	}
	defer s.closeDatabase()

	s.loadStorage()

	if err := s.backupStore.Restore(s.ctx, path); err != nil {
		return err
	}

	xcontext.Logger(s.ctx).Infof("Database restored from %s", path)
	return nil
}
