package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalletStoreGet_Unseen(t *testing.T) {
	wallets := NewWalletStore(openTestDB(t))

	wallet, err := wallets.Get(context.Background(), "0xabc")
	require.NoError(t, err)
	assert.Nil(t, wallet)
}

func TestWalletStoreInit(t *testing.T) {
	wallets := NewWalletStore(openTestDB(t))
	ctx := context.Background()

	wallet, err := wallets.Init(ctx, "0xabc", 100.00)
	require.NoError(t, err)
	require.NotNil(t, wallet)
	assert.Equal(t, "0xabc", wallet.Address)
	assert.Equal(t, 100.00, wallet.Balance)
}

func TestWalletStoreInit_KeepsExistingBalance(t *testing.T) {
	wallets := NewWalletStore(openTestDB(t))
	ctx := context.Background()

	_, err := wallets.Init(ctx, "0xabc", 42.50)
	require.NoError(t, err)

	wallet, err := wallets.Init(ctx, "0xabc", 100.00)
	require.NoError(t, err)
	assert.Equal(t, 42.50, wallet.Balance)
}
