package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/chainmart/chainmart/internal/domain"
)

const itemColumns = "id, category, name, price, description, image, seller, sold, buyer, transaction_hash, created_at"

type ItemStore struct {
	db *sql.DB
}

func NewItemStore(db *sql.DB) *ItemStore {
	return &ItemStore{db: db}
}

func (s *ItemStore) Create(ctx context.Context, category, name, price, description, image string) (*domain.Item, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO items (category, name, price, description, image) VALUES (?, ?, ?, ?, ?)
	`, category, name, price, description, image)
	if err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *ItemStore) GetByID(ctx context.Context, id int64) (*domain.Item, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+itemColumns+` FROM items WHERE id = ?
	`, id)

	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return item, nil
}

func (s *ItemStore) List(ctx context.Context) ([]*domain.Item, error) {
	return s.query(ctx, `SELECT `+itemColumns+` FROM items ORDER BY id ASC`)
}

// ListByCategory matches the category exactly but case-insensitively.
func (s *ItemStore) ListByCategory(ctx context.Context, category string) ([]*domain.Item, error) {
	return s.query(ctx, `
		SELECT `+itemColumns+` FROM items WHERE LOWER(category) = LOWER(?) ORDER BY id ASC
	`, category)
}

// SetSeller backfills the seller address on an item that has none. Items
// created without a seller get the demo seller assigned on first detail read.
func (s *ItemStore) SetSeller(ctx context.Context, id int64, seller string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE items SET seller = ? WHERE id = ? AND seller = ''
	`, seller, id)
	if err != nil {
		return fmt.Errorf("failed to set seller: %w", err)
	}
	return nil
}

func (s *ItemStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM items`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}
	return n, nil
}

func (s *ItemStore) query(ctx context.Context, query string, args ...any) ([]*domain.Item, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	var items []*domain.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}

	return items, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*domain.Item, error) {
	item := &domain.Item{}
	err := row.Scan(
		&item.ID, &item.Category, &item.Name, &item.Price, &item.Description,
		&item.Image, &item.Seller, &item.Sold, &item.Buyer, &item.TransactionHash,
		&item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return item, nil
}
