package repository

import (
	"auction-settlement/internal/biddingerrors"
	"auction-settlement/internal/models"
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=repository

// BidDB defines the bid storage interface for the auction system
type BidDB interface {
	InsertBid(ctx context.Context, bid models.Bid) error
	GetBid(ctx context.Context, bidID string) (models.Bid, error)
	CompareAndSwapAmount(ctx context.Context, bidID string, expected, amount decimal.Decimal, status models.BidStatus) (models.Bid, error)
	SetStatus(ctx context.Context, bidID string, status models.BidStatus) (models.Bid, error)
	GetBidsByProduct(ctx context.Context, productID string) ([]models.Bid, error)
	GetWinningBid(ctx context.Context, productID string) (models.Bid, error)
	GetBidsByBidder(ctx context.Context, bidderID string) ([]models.Bid, error)
	DeleteBid(ctx context.Context, bidID string) error
}

// MemoryRepo is a concurrency-safe in-memory implementation of BidDB
type MemoryRepo struct {
	mu          sync.RWMutex
	bids        map[string]models.Bid          // key: bidID -> value: bid
	productBids map[string]map[string]struct{} // key: productID -> set of bidIDs
	bidderBids  map[string]map[string]struct{} // key: bidderID -> set of bidIDs
}

// NewMemoryRepo creates a new in-memory repository instance
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		bids:        make(map[string]models.Bid),
		productBids: make(map[string]map[string]struct{}),
		bidderBids:  make(map[string]map[string]struct{}),
	}
}

// InsertBid stores a new bid; it fails if a bid with the same identity exists
func (r *MemoryRepo) InsertBid(_ context.Context, bid models.Bid) error {
	if bid.BidID == "" || bid.ProductID == "" || bid.BidderID == "" {
		return fmt.Errorf("insert bid %q: %w", bid.BidID, biddingerrors.ErrInvalidArgument)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.bids[bid.BidID]; ok {
		return fmt.Errorf("insert bid %s: %w", bid.BidID, biddingerrors.ErrBidDuplicate)
	}

	r.bids[bid.BidID] = bid
	addToIndex(r.productBids, bid.ProductID, bid.BidID)
	addToIndex(r.bidderBids, bid.BidderID, bid.BidID)
	return nil
}

// GetBid returns the bid stored under bidID
func (r *MemoryRepo) GetBid(_ context.Context, bidID string) (models.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bid, ok := r.bids[bidID]
	if !ok {
		return models.Bid{}, fmt.Errorf("get bid %s: %w", bidID, biddingerrors.ErrNotFound)
	}
	return bid, nil
}

// CompareAndSwapAmount replaces the amount and status of a bid only if the
// stored amount still equals expected
func (r *MemoryRepo) CompareAndSwapAmount(_ context.Context, bidID string, expected, amount decimal.Decimal, status models.BidStatus) (models.Bid, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	bid, ok := r.bids[bidID]
	if !ok {
		return models.Bid{}, fmt.Errorf("swap amount for bid %s: %w", bidID, biddingerrors.ErrNotFound)
	}
	if !bid.Amount.Equal(expected) {
		return models.Bid{}, fmt.Errorf("swap amount for bid %s: %w", bidID, biddingerrors.ErrStaleAmount)
	}

	bid.Amount = amount
	bid.Status = status
	r.bids[bidID] = bid
	return bid, nil
}

// SetStatus changes the status of a bid
func (r *MemoryRepo) SetStatus(_ context.Context, bidID string, status models.BidStatus) (models.Bid, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	bid, ok := r.bids[bidID]
	if !ok {
		return models.Bid{}, fmt.Errorf("set status for bid %s: %w", bidID, biddingerrors.ErrNotFound)
	}
	bid.Status = status
	r.bids[bidID] = bid
	return bid, nil
}

// GetBidsByProduct returns the placed bids for a product, oldest first
func (r *MemoryRepo) GetBidsByProduct(_ context.Context, productID string) ([]models.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.placedBids(r.productBids[productID]), nil
}

// GetWinningBid returns the highest placed bid for a product.
// Equal amounts resolve to the earliest placement.
func (r *MemoryRepo) GetWinningBid(_ context.Context, productID string) (models.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bids := r.placedBids(r.productBids[productID])
	if len(bids) == 0 {
		return models.Bid{}, fmt.Errorf("get winning bid for product %s: %w", productID, biddingerrors.ErrNoBids)
	}

	winning := bids[0]
	for _, b := range bids[1:] {
		if b.Amount.GreaterThan(winning.Amount) || (b.Amount.Equal(winning.Amount) && b.PlacedAt.Before(winning.PlacedAt)) {
			winning = b
		}
	}
	return winning, nil
}

// GetBidsByBidder returns all placed bids of a bidder
func (r *MemoryRepo) GetBidsByBidder(_ context.Context, bidderID string) ([]models.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.placedBids(r.bidderBids[bidderID]), nil
}

// DeleteBid removes a bid. Deleting an unknown bid is not an error.
func (r *MemoryRepo) DeleteBid(_ context.Context, bidID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	bid, ok := r.bids[bidID]
	if !ok {
		return nil
	}
	delete(r.bids, bidID)
	removeFromIndex(r.productBids, bid.ProductID, bidID)
	removeFromIndex(r.bidderBids, bid.BidderID, bidID)
	return nil
}

// placedBids must be called with r.mu held
func (r *MemoryRepo) placedBids(ids map[string]struct{}) []models.Bid {
	bids := make([]models.Bid, 0, len(ids))
	for id := range ids {
		if b := r.bids[id]; b.Status == models.BidPlaced {
			bids = append(bids, b)
		}
	}
	sortByPlacement(bids)
	return bids
}

func sortByPlacement(bids []models.Bid) {
	sort.Slice(bids, func(i, j int) bool {
		if bids[i].PlacedAt.Equal(bids[j].PlacedAt) {
			return bids[i].BidID < bids[j].BidID
		}
		return bids[i].PlacedAt.Before(bids[j].PlacedAt)
	})
}

func addToIndex(index map[string]map[string]struct{}, key, bidID string) {
	set, ok := index[key]
	if !ok {
		set = make(map[string]struct{})
		index[key] = set
	}
	set[bidID] = struct{}{}
}

func removeFromIndex(index map[string]map[string]struct{}, key, bidID string) {
	set, ok := index[key]
	if !ok {
		return
	}
	delete(set, bidID)
	if len(set) == 0 {
		delete(index, key)
	}
}
