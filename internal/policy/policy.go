// Package policy decides the winner of an expired product from its placed bids.
package policy

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"auction-settlement/internal/biddingerrors"
	"auction-settlement/internal/models"
)

// Policy picks at most one winner. An empty bid list yields (nil, nil).
type Policy interface {
	DetermineWinner(product models.Product, bids []models.Bid) (*models.WinnerResult, error)
}

// Kind names a winner policy in configuration
type Kind string

const (
	KindHighestBid    Kind = "highest_bid"
	KindRandomLottery Kind = "random_lottery"
)

// ParseKind validates a configured policy name
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindHighestBid, KindRandomLottery:
		return k, nil
	default:
		return "", fmt.Errorf("policy: %w - unknown winner policy %q", biddingerrors.ErrInvalidArgument, s)
	}
}

// New builds the policy for kind. rnd is only used by the lottery and may be nil.
func New(kind Kind, rnd RandSource) (Policy, error) {
	switch kind {
	case KindHighestBid:
		return HighestBid{}, nil
	case KindRandomLottery:
		return NewRandomAmongBidders(rnd), nil
	default:
		return nil, fmt.Errorf("policy: %w - unknown winner policy %q", biddingerrors.ErrInvalidArgument, kind)
	}
}

// HighestBid awards the product to the largest amount.
// Ties go to the bid encountered first, so callers pass bids in placement order.
type HighestBid struct{}

func (HighestBid) DetermineWinner(product models.Product, bids []models.Bid) (*models.WinnerResult, error) {
	if len(bids) == 0 {
		return nil, nil
	}

	best := bids[0]
	for _, bid := range bids[1:] {
		if bid.Amount.GreaterThan(best.Amount) {
			best = bid
		}
	}
	return winnerFrom(product, best), nil
}

// RandSource provides random integers for the lottery
type RandSource interface {
	// Intn returns a random integer in [0, n). Panics if n <= 0.
	Intn(n int) int
}

type cryptoRandSource struct{}

func (cryptoRandSource) Intn(n int) int {
	if n <= 0 {
		panic(fmt.Sprintf("cryptoRandSource.Intn: n must be positive, got %d", n))
	}
	// rand.Int does not error with rand.Reader
	nBig, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(nBig.Int64())
}

// RandomAmongBidders draws one bidder uniformly, regardless of amount.
// A bidder with several bids counts once and wins with their highest one.
type RandomAmongBidders struct {
	rnd RandSource
}

// NewRandomAmongBidders uses crypto/rand when rnd is nil
func NewRandomAmongBidders(rnd RandSource) *RandomAmongBidders {
	if rnd == nil {
		rnd = cryptoRandSource{}
	}
	return &RandomAmongBidders{rnd: rnd}
}

func (p *RandomAmongBidders) DetermineWinner(product models.Product, bids []models.Bid) (*models.WinnerResult, error) {
	if len(bids) == 0 {
		return nil, nil
	}

	order := make([]string, 0, len(bids))
	best := make(map[string]models.Bid, len(bids))
	for _, bid := range bids {
		cur, seen := best[bid.BidderID]
		if !seen {
			order = append(order, bid.BidderID)
			best[bid.BidderID] = bid
			continue
		}
		if bid.Amount.GreaterThan(cur.Amount) {
			best[bid.BidderID] = bid
		}
	}

	pick := p.rnd.Intn(len(order))
	if pick < 0 || pick >= len(order) {
		return nil, fmt.Errorf("policy: %w - random source returned %d for %d bidders", biddingerrors.ErrPolicy, pick, len(order))
	}
	return winnerFrom(product, best[order[pick]]), nil
}

func winnerFrom(product models.Product, bid models.Bid) *models.WinnerResult {
	productID := bid.ProductID
	if productID == "" {
		productID = product.ProductID
	}
	return &models.WinnerResult{
		BidderID:      bid.BidderID,
		ProductID:     productID,
		WinningAmount: bid.Amount,
	}
}
