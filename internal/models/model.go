package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BidStatus is the lifecycle state of a bid
type BidStatus string

const (
	BidPlaced     BidStatus = "placed"
	BidSuperseded BidStatus = "superseded"
	BidWithdrawn  BidStatus = "withdrawn"
)

// Bid represents a bidder's standing bid on a product.
// A bidder holds at most one bid per product, identified by BidID.
type Bid struct {
	BidID     string          `json:"bid_id"`
	ProductID string          `json:"product_id"`
	BidderID  string          `json:"bidder_id"`
	Amount    decimal.Decimal `json:"amount"`
	PlacedAt  time.Time       `json:"placed_at"`
	Status    BidStatus       `json:"status"`
}

// BidIdentity builds the composite key "<productID>:<bidderID>"
func BidIdentity(productID, bidderID string) string {
	return productID + ":" + bidderID
}

// Product represents an auctioned product as seen by the settlement core.
// Products are owned by the product service; they are only read here.
type Product struct {
	ProductID        string          `json:"product_id"`
	BasePrice        decimal.Decimal `json:"base_price"`
	BiddingStartTime time.Time       `json:"bidding_start_time"`
	BiddingEndTime   time.Time       `json:"bidding_end_time"`
}

// Expired reports whether the bidding window has closed at now
func (p Product) Expired(now time.Time) bool {
	return !now.Before(p.BiddingEndTime)
}

// WinnerResult is the outcome of one settlement
type WinnerResult struct {
	BidderID      string          `json:"bidder_id"`
	ProductID     string          `json:"product_id"`
	WinningAmount decimal.Decimal `json:"winning_amount"`
}
