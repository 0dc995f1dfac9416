package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Vote struct {
	ID           string       `json:"id"`
	CreatorID    string       `json:"creator_id"`
	TargetUserID string       `json:"target_user_id"`
	Description  string       `json:"description"`
	Active       bool         `json:"active"`
	ExpiresAt    time.Time    `json:"expires_at"`
	Options      []VoteOption `json:"options"`
}

type VoteOption struct {
	ID        string          `json:"id"`
	Text      string          `json:"text"`
	Points    decimal.Decimal `json:"points"`
	VoteCount int             `json:"vote_count"`
}

type CreateVoteOption struct {
	Text   string          `json:"text"`
	Points decimal.Decimal `json:"points"`
}

type CreateVoteRequest struct {
	CreatorID    string             `json:"creator_id"`
	TargetUserID string             `json:"target_user_id"`
	Description  string             `json:"description"`
	Options      []CreateVoteOption `json:"options"`
	ExpiresIn    int                `json:"expires_in_days"`
}

type CreateVoteResponse struct {
	Vote Vote `json:"vote"`
}

type CastBallotRequest struct {
	VoteID   string `json:"vote_id"`
	OptionID string `json:"option_id"`
	VoterID  string `json:"voter_id"`
}

type CastBallotResponse struct {
	// Voted is false when the vote is closed or the voter already cast a
	// ballot.
	Voted bool `json:"voted"`

	// Points is what the vote's target user was credited for this ballot.
	Points decimal.Decimal `json:"points"`
}

type GetResultsRequest struct {
	VoteID string `json:"vote_id"`
}

type OptionTally struct {
	Option VoteOption `json:"option"`

	// TotalPoints is VoteCount times the option's point value, the amount
	// this option has paid to the vote's target so far.
	TotalPoints decimal.Decimal `json:"total_points"`
}

type GetResultsResponse struct {
	Vote       Vote          `json:"vote"`
	Tallies    []OptionTally `json:"tallies"`
	TotalVotes int           `json:"total_votes"`
}
