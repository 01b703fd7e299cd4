// Package settlement finds expired products, decides their winners and announces them.
package settlement

import (
	"context"

	"auction-settlement/internal/models"
)

//go:generate mockgen -source=sources.go -destination=mock_sources.go -package=settlement

// BidSource supplies the placed bids of a product
type BidSource interface {
	GetBidsForProduct(ctx context.Context, productID string) ([]models.Bid, error)
}

// LoserArchiver is implemented by bid sources that own their bids. Once a
// winner is announced the other bids on the product are superseded.
type LoserArchiver interface {
	SupersedeLosingBids(ctx context.Context, productID, winnerBidderID string) error
}

// ProductSource lists products whose bidding window closed and records settlement
type ProductSource interface {
	GetExpiredProducts(ctx context.Context) ([]models.Product, error)
	MarkSettled(ctx context.Context, productID string) error
}

// Publisher announces a winner
type Publisher interface {
	Publish(ctx context.Context, winner models.WinnerResult) error
}
