package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainmart/chainmart/internal/db"
	"github.com/chainmart/chainmart/internal/domain"
	"github.com/chainmart/chainmart/internal/store"
)

// stubChain is a canned chain.BalanceSource for tests.
type stubChain struct {
	balance float64
	err     error
}

func (s *stubChain) Balance(context.Context, string) (float64, error) {
	return s.balance, s.err
}

func newTestService(t *testing.T, chain *stubChain) *MarketService {
	t.Helper()
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	return NewMarketService(
		store.NewItemStore(d),
		store.NewWalletStore(d),
		store.NewSettlementStore(d),
		chain,
		100.00,
		slog.Default(),
	)
}

func TestCreateItemAppearsInLists(t *testing.T) {
	svc := newTestService(t, &stubChain{})
	ctx := context.Background()

	item, err := svc.CreateItem(ctx, "cricket", "Bat", "40", "", "")
	require.NoError(t, err)

	all, err := svc.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, item.ID, all[0].ID)

	byCategory, err := svc.ListItemsByCategory(ctx, "cricket")
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, item.ID, byCategory[0].ID)
}

func TestCreateItemValidation(t *testing.T) {
	svc := newTestService(t, &stubChain{})
	ctx := context.Background()

	cases := []struct {
		name                  string
		category, label, price string
	}{
		{"missing category", "", "Bat", "40"},
		{"missing name", "cricket", "", "40"},
		{"missing price", "cricket", "Bat", ""},
		{"non-numeric price", "cricket", "Bat", "forty"},
		{"negative price", "cricket", "Bat", "-1"},
		{"zero price", "cricket", "Bat", "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateItem(ctx, tc.category, tc.label, tc.price, "", "")
			assert.True(t, domain.IsValidation(err), "want ValidationError, got %v", err)
		})
	}
}

func TestCreateItemDefaultsImage(t *testing.T) {
	svc := newTestService(t, &stubChain{})

	item, err := svc.CreateItem(context.Background(), "cricket", "Bat", "40", "", "")
	require.NoError(t, err)
	assert.Equal(t, defaultImage, item.Image)
}

func TestGetItemBackfillsSeller(t *testing.T) {
	svc := newTestService(t, &stubChain{})
	ctx := context.Background()

	created, err := svc.CreateItem(ctx, "cricket", "Bat", "40", "", "")
	require.NoError(t, err)
	assert.Empty(t, created.Seller)

	item, err := svc.GetItem(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, demoSeller, item.Seller)

	// The backfill persists.
	item, err = svc.GetItem(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, demoSeller, item.Seller)
}

func TestGetItem_Unknown(t *testing.T) {
	svc := newTestService(t, &stubChain{})

	item, err := svc.GetItem(context.Background(), 999)
	require.NoError(t, err)
	assert.Nil(t, item)
}

func TestBalanceFromChain(t *testing.T) {
	svc := newTestService(t, &stubChain{balance: 2.5})

	balance, err := svc.Balance(context.Background(), "0xabc")
	require.NoError(t, err)
	assert.Equal(t, 2.5, balance)
}

func TestBalanceFallsBackWhenChainUnavailable(t *testing.T) {
	svc := newTestService(t, &stubChain{err: fmt.Errorf("%w: boom", domain.ErrUpstreamUnavailable)})

	balance, err := svc.Balance(context.Background(), "0xabc")
	require.NoError(t, err)
	assert.Equal(t, 100.00, balance)
}

func TestBalanceStickyAcrossLookups(t *testing.T) {
	chain := &stubChain{balance: 2.5}
	svc := newTestService(t, chain)
	ctx := context.Background()

	_, err := svc.Balance(ctx, "0xabc")
	require.NoError(t, err)

	// The tracked balance, not the chain, is authoritative once initialized.
	chain.balance = 9000
	balance, err := svc.Balance(ctx, "0xabc")
	require.NoError(t, err)
	assert.Equal(t, 2.5, balance)
}

func TestBalance_MissingAddress(t *testing.T) {
	svc := newTestService(t, &stubChain{})

	_, err := svc.Balance(context.Background(), "")
	assert.True(t, domain.IsValidation(err))
}

func TestPurchase(t *testing.T) {
	svc := newTestService(t, &stubChain{err: errors.New("no chain in tests")})
	ctx := context.Background()

	item, err := svc.CreateItem(ctx, "cricket", "Bat", "40", "", "")
	require.NoError(t, err)

	settlement, err := svc.Purchase(ctx, item.ID, "40", "0xbuyer")
	require.NoError(t, err)
	assert.True(t, settlement.Item.Sold)
	assert.Equal(t, "0xbuyer", settlement.Item.Buyer)
	assert.Equal(t, 60.00, settlement.NewBalance)
}

func TestPurchaseUsesChainBalanceForFreshWallet(t *testing.T) {
	// Purchase and the balance endpoint share wallet initialization, so a
	// buyer funded on chain starts from their chain balance.
	svc := newTestService(t, &stubChain{balance: 45})
	ctx := context.Background()

	item, err := svc.CreateItem(ctx, "cricket", "Bat", "40", "", "")
	require.NoError(t, err)

	settlement, err := svc.Purchase(ctx, item.ID, "40", "0xbuyer")
	require.NoError(t, err)
	assert.Equal(t, 5.00, settlement.NewBalance)
}

func TestPurchase_AlreadySold(t *testing.T) {
	svc := newTestService(t, &stubChain{err: errors.New("down")})
	ctx := context.Background()

	item, err := svc.CreateItem(ctx, "cricket", "Bat", "40", "", "")
	require.NoError(t, err)

	_, err = svc.Purchase(ctx, item.ID, "40", "0xfirst")
	require.NoError(t, err)

	_, err = svc.Purchase(ctx, item.ID, "40", "0xsecond")
	assert.ErrorIs(t, err, domain.ErrAlreadySold)
}

func TestCompletePurchase(t *testing.T) {
	svc := newTestService(t, &stubChain{})
	ctx := context.Background()

	item, err := svc.CreateItem(ctx, "football", "Jersey", "50", "", "")
	require.NoError(t, err)

	got, err := svc.CompletePurchase(ctx, item.ID, "0xdeadbeef", "0xbuyer")
	require.NoError(t, err)
	assert.True(t, got.Sold)
	assert.Equal(t, "0xdeadbeef", got.TransactionHash)

	// On-chain settlement does not touch the local ledger.
	balance, err := svc.Balance(ctx, "0xbuyer")
	require.NoError(t, err)
	assert.Equal(t, 0.00, balance)
}

func TestSeedDemoCatalog(t *testing.T) {
	svc := newTestService(t, &stubChain{})
	ctx := context.Background()

	require.NoError(t, svc.SeedDemoCatalog(ctx))

	items, err := svc.ListItems(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 3)

	// Seeding again is a no-op.
	require.NoError(t, svc.SeedDemoCatalog(ctx))
	items, err = svc.ListItems(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 3)
}
