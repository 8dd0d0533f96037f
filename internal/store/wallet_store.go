package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/chainmart/chainmart/internal/domain"
)

type WalletStore struct {
	db *sql.DB
}

func NewWalletStore(db *sql.DB) *WalletStore {
	return &WalletStore{db: db}
}

func (s *WalletStore) Get(ctx context.Context, address string) (*domain.Wallet, error) {
	wallet := &domain.Wallet{}
	err := s.db.QueryRowContext(ctx, `
		SELECT address, balance, created_at FROM wallets WHERE address = ?
	`, address).Scan(&wallet.Address, &wallet.Balance, &wallet.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}

	return wallet, nil
}

// Init creates a wallet row with the given starting balance if the address is
// unseen, and returns the row that ended up in the store. An existing wallet
// keeps its balance.
func (s *WalletStore) Init(ctx context.Context, address string, balance float64) (*domain.Wallet, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO wallets (address, balance) VALUES (?, ?)
	`, address, balance)
	if err != nil {
		return nil, fmt.Errorf("failed to init wallet: %w", err)
	}

	return s.Get(ctx, address)
}
