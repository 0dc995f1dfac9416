package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type ConfettiBall struct {
	ID            string          `json:"id"`
	CreatorID     string          `json:"creator_id"`
	TotalPoints   decimal.Decimal `json:"total_points"`
	ClaimedPoints decimal.Decimal `json:"claimed_points"`
	MaxClaims     int             `json:"max_claims"`
	ClaimedCount  int             `json:"claimed_count"`
	Message       string          `json:"message"`
	ChannelRef    string          `json:"channel_ref"`
	Active        bool            `json:"active"`
	ExpiresAt     time.Time       `json:"expires_at"`
}

type ConfettiClaim struct {
	UserID      string          `json:"user_id"`
	DisplayName string          `json:"display_name"`
	Points      decimal.Decimal `json:"points"`
	ClaimedAt   time.Time       `json:"claimed_at"`
}

type CreateBallRequest struct {
	CreatorID   string          `json:"creator_id"`
	TotalPoints decimal.Decimal `json:"total_points"`
	MaxClaims   int             `json:"max_claims"`
	Message     string          `json:"message"`
	ChannelRef  string          `json:"channel_ref"`

	// ExpiresAt is optional. A zero value assigns a random expiry inside
	// the configured bounds.
	ExpiresAt time.Time `json:"expires_at"`
}

type CreateBallResponse struct {
	// Created is false when the creator cannot fund the pool.
	Created bool         `json:"created"`
	Ball    ConfettiBall `json:"ball"`
}

type ClaimBallRequest struct {
	BallID      string `json:"ball_id"`
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
}

type ClaimBallResponse struct {
	// Claimed is false when the ball is gone, expired, out of slots, or
	// the user already claimed it.
	Claimed bool            `json:"claimed"`
	Points  decimal.Decimal `json:"points"`
}

type ProcessExpiredBallsRequest struct{}

// BallSettlement summarizes one expired ball for external announcement.
type BallSettlement struct {
	Ball      ConfettiBall    `json:"ball"`
	Claims    []ConfettiClaim `json:"claims"`
	Unclaimed decimal.Decimal `json:"unclaimed"`
}

type ProcessExpiredBallsResponse struct {
	Settlements []BallSettlement `json:"settlements"`
}
