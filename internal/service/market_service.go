package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/chainmart/chainmart/internal/chain"
	"github.com/chainmart/chainmart/internal/domain"
)

// defaultImage is used for items created without one, matching the demo
// storefront's placeholder.
const defaultImage = "https://via.placeholder.com/150"

// demoSeller is backfilled on items listed without a seller address.
const demoSeller = "0x123456789abcdef123456789abcdef123456789a"

// itemRepository is the subset of store.ItemStore that MarketService requires.
type itemRepository interface {
	Create(ctx context.Context, category, name, price, description, image string) (*domain.Item, error)
	GetByID(ctx context.Context, id int64) (*domain.Item, error)
	List(ctx context.Context) ([]*domain.Item, error)
	ListByCategory(ctx context.Context, category string) ([]*domain.Item, error)
	SetSeller(ctx context.Context, id int64, seller string) error
	Count(ctx context.Context) (int64, error)
}

// walletRepository is the subset of store.WalletStore that MarketService requires.
type walletRepository interface {
	Get(ctx context.Context, address string) (*domain.Wallet, error)
	Init(ctx context.Context, address string, balance float64) (*domain.Wallet, error)
}

// settlementRepository is the subset of store.SettlementStore that MarketService requires.
type settlementRepository interface {
	Purchase(ctx context.Context, itemID int64, price, buyer string, defaultBalance float64) (*domain.Settlement, error)
	Confirm(ctx context.Context, itemID int64, transactionHash, buyer string) (*domain.Item, error)
}

type MarketService struct {
	items          itemRepository
	wallets        walletRepository
	settlements    settlementRepository
	chainSource    chain.BalanceSource
	defaultBalance float64
	logger         *slog.Logger
}

func NewMarketService(
	items itemRepository,
	wallets walletRepository,
	settlements settlementRepository,
	chainSource chain.BalanceSource,
	defaultBalance float64,
	logger *slog.Logger,
) *MarketService {
	return &MarketService{
		items:          items,
		wallets:        wallets,
		settlements:    settlements,
		chainSource:    chainSource,
		defaultBalance: defaultBalance,
		logger:         logger,
	}
}

func (s *MarketService) ListItems(ctx context.Context) ([]*domain.Item, error) {
	return s.items.List(ctx)
}

func (s *MarketService) ListItemsByCategory(ctx context.Context, category string) ([]*domain.Item, error) {
	return s.items.ListByCategory(ctx, category)
}

// GetItem returns the item or nil when the id is unknown. Items listed
// without a seller get the demo seller address assigned on first read.
func (s *MarketService) GetItem(ctx context.Context, itemID int64) (*domain.Item, error) {
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil || item == nil {
		return item, err
	}

	if item.Seller == "" {
		if err := s.items.SetSeller(ctx, itemID, demoSeller); err != nil {
			return nil, err
		}
		item.Seller = demoSeller
	}

	return item, nil
}

func (s *MarketService) CreateItem(ctx context.Context, category, name, price, description, image string) (*domain.Item, error) {
	switch {
	case category == "":
		return nil, domain.NewValidationError("category")
	case name == "":
		return nil, domain.NewValidationError("name")
	case price == "":
		return nil, domain.NewValidationError("price")
	}

	if v, err := strconv.ParseFloat(price, 64); err != nil || v <= 0 {
		return nil, &domain.ValidationError{Field: "price", Reason: "must be a positive number"}
	}

	if image == "" {
		image = defaultImage
	}

	item, err := s.items.Create(ctx, category, name, price, description, image)
	if err != nil {
		return nil, err
	}
	s.logger.Info("item listed", "item_id", item.ID, "category", item.Category, "price", item.Price)
	return item, nil
}

// Balance returns the tracked balance for address, creating the wallet on
// first access. The starting balance comes from the chain; if the lookup
// fails the wallet starts at the configured default instead, and the failure
// is logged rather than surfaced.
func (s *MarketService) Balance(ctx context.Context, address string) (float64, error) {
	if address == "" {
		return 0, domain.NewValidationError("address")
	}

	wallet, err := s.ensureWallet(ctx, address)
	if err != nil {
		return 0, err
	}
	return wallet.Balance, nil
}

// ensureWallet guarantees a wallet row exists for address. Both the balance
// endpoint and the purchase path go through here so a buyer's starting
// balance is the same no matter which endpoint they hit first.
func (s *MarketService) ensureWallet(ctx context.Context, address string) (*domain.Wallet, error) {
	wallet, err := s.wallets.Get(ctx, address)
	if err != nil {
		return nil, err
	}
	if wallet != nil {
		return wallet, nil
	}

	balance, err := s.chainSource.Balance(ctx, address)
	if err != nil {
		s.logger.Warn("chain balance lookup failed, starting wallet at default",
			"address", address, "default", s.defaultBalance, "error", err)
		balance = s.defaultBalance
	}

	return s.wallets.Init(ctx, address, balance)
}

// Purchase settles a purchase against the local ledger.
func (s *MarketService) Purchase(ctx context.Context, itemID int64, price, address string) (*domain.Settlement, error) {
	if _, err := s.ensureWallet(ctx, address); err != nil {
		return nil, err
	}

	settlement, err := s.settlements.Purchase(ctx, itemID, price, address, s.defaultBalance)
	if err != nil {
		return nil, err
	}

	s.logger.Info("item purchased", "item_id", itemID, "buyer", address,
		"price", settlement.Item.Price, "new_balance", fmt.Sprintf("%.2f", settlement.NewBalance))
	return settlement, nil
}

// CompletePurchase records a purchase that was settled on chain. Funds moved
// on chain, so no price or ledger check happens here; the listed → sold
// transition is still guarded against double sale.
func (s *MarketService) CompletePurchase(ctx context.Context, itemID int64, transactionHash, buyer string) (*domain.Item, error) {
	item, err := s.settlements.Confirm(ctx, itemID, transactionHash, buyer)
	if err != nil {
		return nil, err
	}

	s.logger.Info("on-chain purchase recorded", "item_id", itemID, "buyer", buyer, "tx", transactionHash)
	return item, nil
}

// SeedDemoCatalog inserts the demo storefront items into an empty catalog.
func (s *MarketService) SeedDemoCatalog(ctx context.Context) error {
	n, err := s.items.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	seed := []struct {
		category, name, price, description string
	}{
		{"football", "Football Jersey", "50", "Official team jersey"},
		{"basketball", "Basketball", "30", "Professional basketball"},
		{"cricket", "Cricket Bat", "40", "Professional cricket bat"},
	}
	for _, it := range seed {
		if _, err := s.items.Create(ctx, it.category, it.name, it.price, it.description, defaultImage); err != nil {
			return fmt.Errorf("failed to seed catalog: %w", err)
		}
	}

	s.logger.Info("seeded demo catalog", "items", len(seed))
	return nil
}
