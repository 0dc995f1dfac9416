package main

import (
	"github.com/urfave/cli/v2"

	"github.com/nomorelonelylife/Point-bot/pkg/xcontext"
)

func (s *srv) startMigrate(cctx *cli.Context) error {
	if err := s.loadBase(cctx); err != nil {
		return err
	}
	defer s.closeDatabase()

	xcontext.Logger(s.ctx).Infof("Migration completed")
	return nil
}
