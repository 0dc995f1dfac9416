package model

type RunCleanupCycleRequest struct{}

type RunCleanupCycleResponse struct {
	BackupFile     string `json:"backup_file"`
	PurgedBallots  int64  `json:"purged_ballots"`
	PurgedOptions  int64  `json:"purged_options"`
	DeactivatedVotes int64 `json:"deactivated_votes"`
	PurgedClaims   int64  `json:"purged_claims"`
	PurgedBalls    int64  `json:"purged_balls"`
	PurgedTraps    int64  `json:"purged_traps"`
	PrunedBackups  int    `json:"pruned_backups"`
}
