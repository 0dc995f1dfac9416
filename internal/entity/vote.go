package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Vote is a community poll whose ballots pay points to a target user the
// moment they are cast.
type Vote struct {
	Base

	CreatorID    string `gorm:"index"`
	TargetUserID string `gorm:"index"`
	Description  string

	Active    bool      `gorm:"index:idx_votes_sweep"`
	ExpiresAt time.Time `gorm:"index:idx_votes_sweep"`
}

type VoteOption struct {
	Base

	VoteID   string `gorm:"index"`
	Position int
	Text     string

	// Points is credited to the vote's target for every ballot cast on
	// this option.
	Points    decimal.Decimal `gorm:"type:decimal(30,8)"`
	VoteCount int
}

// VoteRecord is one ballot. The composite primary key enforces one ballot
// per voter per vote at the storage level.
type VoteRecord struct {
	CreatedAt time.Time

	VoteID  string `gorm:"primaryKey"`
	VoterID string `gorm:"primaryKey"`

	OptionID string `gorm:"index"`
}
