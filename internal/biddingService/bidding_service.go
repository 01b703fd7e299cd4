package bidding

import (
	"auction-settlement/internal/biddingerrors"
	"auction-settlement/internal/metrics"
	"auction-settlement/internal/models"
	"auction-settlement/internal/repository"
	"auction-settlement/utils"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// BiddingService defines the business logic for auction bidding
type BiddingService struct {
	repo repository.BidDB
	now  func() time.Time
}

// Option customizes a BiddingService
type Option func(*BiddingService)

// WithClock overrides the clock used to stamp new bids
func WithClock(now func() time.Time) Option {
	return func(s *BiddingService) { s.now = now }
}

// NewBiddingService creates a new BiddingService instance
func NewBiddingService(repo repository.BidDB, opts ...Option) *BiddingService {
	s := &BiddingService{
		repo: repo,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PlaceBid records a bidder's bid on a product. The first placement creates
// the bid; placing again for the same identity raises the standing bid and
// keeps its original placement time.
func (s *BiddingService) PlaceBid(ctx context.Context, productID, bidderID string, amount decimal.Decimal) (bid models.Bid, err error) {
	defer func() { metrics.ObserveBidMutation("place", err) }()

	if err := validateBid(productID, bidderID, amount); err != nil {
		return models.Bid{}, err
	}

	bid = models.Bid{
		BidID:     models.BidIdentity(productID, bidderID),
		ProductID: productID,
		BidderID:  bidderID,
		Amount:    amount,
		PlacedAt:  s.now().UTC(),
		Status:    models.BidPlaced,
	}

	err = s.repo.InsertBid(ctx, bid)
	switch {
	case err == nil:
		return bid, nil
	case errors.Is(err, biddingerrors.ErrBidDuplicate):
		return s.raise(ctx, bid.BidID, amount, true)
	default:
		return models.Bid{}, fmt.Errorf("service: failed to record bid for product %s by bidder %s: %w", productID, bidderID, err)
	}
}

// UpdateBid raises an existing bid. Lower amounts are rejected, equal ones accepted.
func (s *BiddingService) UpdateBid(ctx context.Context, productID, bidderID string, newAmount decimal.Decimal) (bid models.Bid, err error) {
	defer func() { metrics.ObserveBidMutation("update", err) }()

	if err := validateBid(productID, bidderID, newAmount); err != nil {
		return models.Bid{}, err
	}
	return s.raise(ctx, models.BidIdentity(productID, bidderID), newAmount, false)
}

// raise runs the read-validate-swap cycle until the swap lands on the value it read.
// A lost race only means another writer moved the amount, so the cycle restarts
// against the new value.
func (s *BiddingService) raise(ctx context.Context, bidID string, amount decimal.Decimal, reactivate bool) (models.Bid, error) {
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return models.Bid{}, fmt.Errorf("service: update of bid %s abandoned: %w", bidID, err)
		}

		existing, err := s.repo.GetBid(ctx, bidID)
		if err != nil {
			return models.Bid{}, fmt.Errorf("service: failed to load bid %s: %w", bidID, err)
		}
		if amount.LessThan(existing.Amount) {
			return models.Bid{}, fmt.Errorf("service: %w - amount %s is below standing bid %s", biddingerrors.ErrConflictingUpdate, amount, existing.Amount)
		}

		status := existing.Status
		if reactivate {
			status = models.BidPlaced
		}

		updated, err := s.repo.CompareAndSwapAmount(ctx, bidID, existing.Amount, amount, status)
		if errors.Is(err, biddingerrors.ErrStaleAmount) {
			utils.Debug("bid amount moved concurrently, retrying", map[string]any{"bid_id": bidID, "attempt": attempt})
			continue
		}
		if err != nil {
			return models.Bid{}, fmt.Errorf("service: failed to update bid %s: %w", bidID, err)
		}
		return updated, nil
	}
}

// validateBid checks input validity for bid mutations
func validateBid(productID, bidderID string, amount decimal.Decimal) error {
	if productID == "" || bidderID == "" {
		return fmt.Errorf("service: %w - missing productID or bidderID", biddingerrors.ErrInvalidArgument)
	}
	if !amount.IsPositive() {
		return fmt.Errorf("service: %w - non-positive bid amount", biddingerrors.ErrInvalidArgument)
	}
	return nil
}

// GetBid returns a single bid by its identity
func (s *BiddingService) GetBid(ctx context.Context, bidID string) (models.Bid, error) {
	if bidID == "" {
		return models.Bid{}, fmt.Errorf("service: %w - empty bid ID", biddingerrors.ErrInvalidArgument)
	}

	bid, err := s.repo.GetBid(ctx, bidID)
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to get bid %s: %w", bidID, err)
	}
	return bid, nil
}

// GetBidsForProduct returns the placed bids of a product, oldest first
func (s *BiddingService) GetBidsForProduct(ctx context.Context, productID string) ([]models.Bid, error) {
	if productID == "" {
		return nil, fmt.Errorf("service: %w - empty product ID", biddingerrors.ErrInvalidArgument)
	}

	bids, err := s.repo.GetBidsByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get bids for product %s: %w", productID, err)
	}
	return bids, nil
}

// GetWinningBid returns the highest placed bid for a product
func (s *BiddingService) GetWinningBid(ctx context.Context, productID string) (models.Bid, error) {
	if productID == "" {
		return models.Bid{}, fmt.Errorf("service: %w - empty product ID", biddingerrors.ErrInvalidArgument)
	}

	winningBid, err := s.repo.GetWinningBid(ctx, productID)
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to get winning bid for product %s: %w", productID, err)
	}
	return winningBid, nil
}

// ListBidsByBidder returns the placed bids of a bidder
func (s *BiddingService) ListBidsByBidder(ctx context.Context, bidderID string) ([]models.Bid, error) {
	if bidderID == "" {
		return nil, fmt.Errorf("service: %w - empty bidder ID", biddingerrors.ErrInvalidArgument)
	}

	bids, err := s.repo.GetBidsByBidder(ctx, bidderID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get bids for bidder %s: %w", bidderID, err)
	}
	return bids, nil
}

// WithdrawBid takes a bid out of the running without deleting it
func (s *BiddingService) WithdrawBid(ctx context.Context, bidID string) (bid models.Bid, err error) {
	defer func() { metrics.ObserveBidMutation("withdraw", err) }()

	if bidID == "" {
		return models.Bid{}, fmt.Errorf("service: %w - empty bid ID", biddingerrors.ErrInvalidArgument)
	}

	bid, err = s.repo.SetStatus(ctx, bidID, models.BidWithdrawn)
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to withdraw bid %s: %w", bidID, err)
	}
	return bid, nil
}

// DeleteBid removes a bid permanently. Deleting a missing bid succeeds.
func (s *BiddingService) DeleteBid(ctx context.Context, bidID string) (err error) {
	defer func() { metrics.ObserveBidMutation("delete", err) }()

	if bidID == "" {
		return fmt.Errorf("service: %w - empty bid ID", biddingerrors.ErrInvalidArgument)
	}
	if err := s.repo.DeleteBid(ctx, bidID); err != nil {
		return fmt.Errorf("service: failed to delete bid %s: %w", bidID, err)
	}
	return nil
}

// SupersedeLosingBids marks every placed bid on productID except the winner's
// as superseded. Settled products keep only the winning bid in the running.
func (s *BiddingService) SupersedeLosingBids(ctx context.Context, productID, winnerBidderID string) (err error) {
	defer func() { metrics.ObserveBidMutation("supersede", err) }()

	if productID == "" || winnerBidderID == "" {
		return fmt.Errorf("service: %w - missing productID or winner bidderID", biddingerrors.ErrInvalidArgument)
	}

	bids, err := s.repo.GetBidsByProduct(ctx, productID)
	if err != nil {
		return fmt.Errorf("service: failed to load bids for product %s: %w", productID, err)
	}
	for _, bid := range bids {
		if bid.BidderID == winnerBidderID {
			continue
		}
		if _, err := s.repo.SetStatus(ctx, bid.BidID, models.BidSuperseded); err != nil && !errors.Is(err, biddingerrors.ErrNotFound) {
			return fmt.Errorf("service: failed to supersede bid %s: %w", bid.BidID, err)
		}
	}
	return nil
}
