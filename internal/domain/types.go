package domain

import "time"

type Item struct {
	ID              int64
	Category        string
	Name            string
	Price           string
	Description     string
	Image           string
	Seller          string
	Sold            bool
	Buyer           string
	TransactionHash string
	CreatedAt       time.Time
}

type Wallet struct {
	Address   string
	Balance   float64
	CreatedAt time.Time
}

// Settlement is the outcome of a local-ledger purchase: the item in its
// sold state and the buyer's balance after the debit.
type Settlement struct {
	Item       *Item
	NewBalance float64
}
