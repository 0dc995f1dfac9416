package testutil

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/nomorelonelylife/Point-bot/internal/entity"
	"github.com/nomorelonelylife/Point-bot/pkg/xcontext"
)

var (
	Account1 = entity.Account{
		UserID:      "user1",
		DisplayName: "User One",
		Balance:     decimal.NewFromInt(100),
	}

	Account2 = entity.Account{
		UserID:      "user2",
		DisplayName: "User Two",
		Balance:     decimal.NewFromInt(50),
	}

	// Account3 is broke on purpose.
	Account3 = entity.Account{
		UserID:      "user3",
		DisplayName: "User Three",
		Balance:     decimal.Zero,
	}
)

// CreateFixtureDb inserts the sample accounts into the context's database.
func CreateFixtureDb(ctx context.Context) {
	InsertAccounts(ctx)
}

func InsertAccounts(ctx context.Context) {
	for _, account := range []entity.Account{Account1, Account2, Account3} {
		if err := xcontext.DB(ctx).Create(&account).Error; err != nil {
			panic(err)
		}
	}
}
