package main

import "github.com/urfave/cli/v2"

func (s *srv) loadApp() {
	app := cli.NewApp()
	app.Action = cli.ShowAppHelp
	app.Name = "pointbot"
	app.Usage = "Points ledger and giveaway engine"
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "Path of the toml config file",
		},
	}
	app.Commands = []*cli.Command{
		{
			Action:      s.startDaemon,
			Name:        "daemon",
			Usage:       "Start the bot backend",
			Category:    "Service",
			Description: `Runs the expiry sweep, daily cleanup, heartbeat, and health endpoint.`,
		},
		{
			Action:      s.startCleanup,
			Name:        "cleanup",
			Usage:       "Run one cleanup cycle and exit",
			Category:    "Maintenance",
			Description: `Backs up the database, purges stale records, and prunes old backups.`,
		},
		{
			Action:      s.startBackup,
			Name:        "backup",
			Usage:       "Snapshot the database to the backup directory",
			Category:    "Maintenance",
		},
		{
			Action:    s.startRestore,
			Name:      "restore",
			Usage:     "Restore the database from a backup file",
			ArgsUsage: "<backupPath>",
			Category:  "Maintenance",
		},
		{
			Action:   s.startMigrate,
			Name:     "migrate",
			Usage:    "Create or update the database schema",
			Category: "Maintenance",
		},
	}

	s.app = app
}
