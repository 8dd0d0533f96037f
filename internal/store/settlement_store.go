package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/chainmart/chainmart/internal/domain"
)

// SettlementStore owns the guarded state transitions that take an item from
// listed to sold. Each transition runs in a single transaction so that the
// sold-check, the balance debit, and the sold-flag write cannot interleave
// with a competing purchase.
type SettlementStore struct {
	db *sql.DB
}

func NewSettlementStore(db *sql.DB) *SettlementStore {
	return &SettlementStore{db: db}
}

// Purchase settles a local-ledger purchase. Inside one transaction it
// verifies the item exists and is unsold, compares the submitted price to the
// listed price, ensures the buyer has a wallet row (created with
// defaultBalance if unseen), debits the price, and marks the item sold.
// Exactly one of two racing purchases for the same item can succeed; the
// loser gets domain.ErrAlreadySold.
func (s *SettlementStore) Purchase(ctx context.Context, itemID int64, price, buyer string, defaultBalance float64) (*domain.Settlement, error) {
	submitted, err := strconv.ParseFloat(price, 64)
	if err != nil {
		return nil, &domain.ValidationError{Field: "price", Reason: "not a number"}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin purchase: %w", err)
	}
	defer rollback(tx)

	var listed string
	var sold bool
	err = tx.QueryRowContext(ctx, `SELECT price, sold FROM items WHERE id = ?`, itemID).Scan(&listed, &sold)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load item: %w", err)
	}
	if sold {
		return nil, domain.ErrAlreadySold
	}

	asking, err := strconv.ParseFloat(listed, 64)
	if err != nil {
		return nil, fmt.Errorf("listed price %q is not a number: %w", listed, err)
	}
	if submitted != asking {
		return nil, domain.ErrPriceMismatch
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT OR IGNORE INTO wallets (address, balance) VALUES (?, ?)
	`, buyer, defaultBalance); err != nil {
		return nil, fmt.Errorf("failed to init wallet: %w", err)
	}

	// The balance >= price guard keeps the ledger non-negative without a
	// separate read-then-write.
	res, err := tx.ExecContext(ctx, `
		UPDATE wallets SET balance = balance - ? WHERE address = ? AND balance >= ?
	`, asking, buyer, asking)
	if err != nil {
		return nil, fmt.Errorf("failed to debit wallet: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	} else if n == 0 {
		return nil, domain.ErrInsufficientBalance
	}

	res, err = tx.ExecContext(ctx, `
		UPDATE items SET sold = 1, buyer = ? WHERE id = ? AND sold = 0
	`, buyer, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to mark item sold: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	} else if n == 0 {
		return nil, domain.ErrAlreadySold
	}

	item, err := scanItem(tx.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE id = ?`, itemID))
	if err != nil {
		return nil, fmt.Errorf("failed to reload item: %w", err)
	}

	var newBalance float64
	if err := tx.QueryRowContext(ctx, `SELECT balance FROM wallets WHERE address = ?`, buyer).Scan(&newBalance); err != nil {
		return nil, fmt.Errorf("failed to read new balance: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit purchase: %w", err)
	}

	return &domain.Settlement{Item: item, NewBalance: newBalance}, nil
}

// Confirm records an on-chain settled purchase. The price and balance were
// handled on chain, so only the listed → sold transition is guarded here: a
// sold item cannot be overwritten by a late confirmation.
func (s *SettlementStore) Confirm(ctx context.Context, itemID int64, transactionHash, buyer string) (*domain.Item, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin confirmation: %w", err)
	}
	defer rollback(tx)

	res, err := tx.ExecContext(ctx, `
		UPDATE items SET sold = 1, buyer = ?, transaction_hash = ? WHERE id = ? AND sold = 0
	`, buyer, transactionHash, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to mark item sold: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	} else if n == 0 {
		var sold bool
		err := tx.QueryRowContext(ctx, `SELECT sold FROM items WHERE id = ?`, itemID).Scan(&sold)
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load item: %w", err)
		}
		return nil, domain.ErrAlreadySold
	}

	item, err := scanItem(tx.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE id = ?`, itemID))
	if err != nil {
		return nil, fmt.Errorf("failed to reload item: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit confirmation: %w", err)
	}

	return item, nil
}

func rollback(tx *sql.Tx) {
	if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
		slog.Error("failed to roll back transaction", "error", err)
	}
}
