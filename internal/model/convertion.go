package model

import (
	"github.com/nomorelonelylife/Point-bot/internal/entity"
)

func ConvertAccount(account *entity.Account) Account {
	if account == nil {
		return Account{}
	}

	return Account{
		UserID:      account.UserID,
		DisplayName: account.DisplayName,
		Balance:     account.Balance,
		UpdatedAt:   account.UpdatedAt,
	}
}

func ConvertMonitoredTweet(tweet *entity.MonitoredTweet) MonitoredTweet {
	if tweet == nil {
		return MonitoredTweet{}
	}

	return MonitoredTweet{
		TweetID:       tweet.TweetID,
		Active:        tweet.Active,
		LikePoints:    tweet.LikePoints,
		RetweetPoints: tweet.RetweetPoints,
		ReplyPoints:   tweet.ReplyPoints,
		CreatedAt:     tweet.CreatedAt,
	}
}

func ConvertConfettiBall(ball *entity.ConfettiBall) ConfettiBall {
	if ball == nil {
		return ConfettiBall{}
	}

	return ConfettiBall{
		ID:            ball.ID,
		CreatorID:     ball.CreatorID,
		TotalPoints:   ball.TotalPoints,
		ClaimedPoints: ball.ClaimedPoints,
		MaxClaims:     ball.MaxClaims,
		ClaimedCount:  ball.ClaimedCount,
		Message:       ball.Message,
		ChannelRef:    ball.ChannelRef,
		Active:        ball.Active,
		ExpiresAt:     ball.ExpiresAt,
	}
}

func ConvertConfettiClaims(claims []entity.ConfettiClaim) []ConfettiClaim {
	result := []ConfettiClaim{}
	for _, claim := range claims {
		result = append(result, ConfettiClaim{
			UserID:      claim.UserID,
			DisplayName: claim.DisplayName,
			Points:      claim.Points,
			ClaimedAt:   claim.CreatedAt,
		})
	}

	return result
}

func ConvertConfettiTrap(trap *entity.ConfettiTrap) ConfettiTrap {
	if trap == nil {
		return ConfettiTrap{}
	}

	return ConfettiTrap{
		ID:           trap.ID,
		CreatorID:    trap.CreatorID,
		EarnedPoints: trap.EarnedPoints,
		MaxClaims:    trap.MaxClaims,
		ClaimedCount: trap.ClaimedCount,
		Message:      trap.Message,
		ChannelRef:   trap.ChannelRef,
		Active:       trap.Active,
		ExpiresAt:    trap.ExpiresAt,
	}
}

func ConvertTrapClaims(claims []entity.TrapClaim) []TrapClaim {
	result := []TrapClaim{}
	for _, claim := range claims {
		result = append(result, TrapClaim{
			UserID:      claim.UserID,
			DisplayName: claim.DisplayName,
			Points:      claim.Points,
			ClaimedAt:   claim.CreatedAt,
		})
	}

	return result
}

func ConvertVote(vote *entity.Vote, options []entity.VoteOption) Vote {
	if vote == nil {
		return Vote{}
	}

	clientOptions := []VoteOption{}
	for _, option := range options {
		clientOptions = append(clientOptions, ConvertVoteOption(&option))
	}

	return Vote{
		ID:           vote.ID,
		CreatorID:    vote.CreatorID,
		TargetUserID: vote.TargetUserID,
		Description:  vote.Description,
		Active:       vote.Active,
		ExpiresAt:    vote.ExpiresAt,
		Options:      clientOptions,
	}
}

func ConvertVoteOption(option *entity.VoteOption) VoteOption {
	if option == nil {
		return VoteOption{}
	}

	return VoteOption{
		ID:        option.ID,
		Text:      option.Text,
		Points:    option.Points,
		VoteCount: option.VoteCount,
	}
}
