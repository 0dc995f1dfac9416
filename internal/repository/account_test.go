package repository

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/nomorelonelylife/Point-bot/pkg/testutil"
)

func Test_accountRepository_Deposit(t *testing.T) {
	ctx := testutil.MockContext()
	repo := NewAccountRepository()

	// The first deposit creates the account.
	err := repo.Deposit(ctx, "user1", "User One", decimal.NewFromInt(10))
	require.NoError(t, err)

	account, err := repo.Get(ctx, "user1")
	require.NoError(t, err)
	require.Equal(t, "User One", account.DisplayName)
	require.Equal(t, "10", account.Balance.String())

	// A later deposit refreshes the display name and keeps the stored
	// balance at eight decimals.
	err = repo.Deposit(ctx, "user1", "Renamed", decimal.RequireFromString("0.123456789"))
	require.NoError(t, err)

	account, err = repo.Get(ctx, "user1")
	require.NoError(t, err)
	require.Equal(t, "Renamed", account.DisplayName)
	require.Equal(t, "10.12345679", account.Balance.String())

	// An empty display name leaves the stored one alone.
	err = repo.Deposit(ctx, "user1", "", decimal.NewFromInt(-1))
	require.NoError(t, err)

	account, err = repo.Get(ctx, "user1")
	require.NoError(t, err)
	require.Equal(t, "Renamed", account.DisplayName)
	require.Equal(t, "9.12345679", account.Balance.String())
}

func Test_accountRepository_GetList(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	repo := NewAccountRepository()

	accounts, err := repo.GetList(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, accounts, 3)

	accounts, err = repo.GetList(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
}
