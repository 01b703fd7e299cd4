package policy

import (
	"testing"
	"time"

	"auction-settlement/internal/biddingerrors"
	"auction-settlement/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fixedRand struct {
	n     int
	calls []int
}

func (f *fixedRand) Intn(n int) int {
	f.calls = append(f.calls, n)
	return f.n
}

func bid(productID, bidderID, amount string, offset time.Duration) models.Bid {
	return models.Bid{
		BidID:     models.BidIdentity(productID, bidderID),
		ProductID: productID,
		BidderID:  bidderID,
		Amount:    decimal.RequireFromString(amount),
		PlacedAt:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC).Add(offset),
		Status:    models.BidPlaced,
	}
}

func TestParseKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{in: "highest_bid", want: KindHighestBid},
		{in: " RANDOM_LOTTERY ", want: KindRandomLottery},
		{in: "dutch", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseKind(tc.in)
			if tc.wantErr {
				require.ErrorIs(t, err, biddingerrors.ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	p, err := New(KindHighestBid, nil)
	require.NoError(t, err)
	require.IsType(t, HighestBid{}, p)

	p, err = New(KindRandomLottery, nil)
	require.NoError(t, err)
	require.IsType(t, &RandomAmongBidders{}, p)

	_, err = New(Kind("other"), nil)
	require.ErrorIs(t, err, biddingerrors.ErrInvalidArgument)
}

func TestHighestBid_DetermineWinner(t *testing.T) {
	t.Parallel()

	product := models.Product{ProductID: "1"}

	tests := []struct {
		name       string
		bids       []models.Bid
		wantBidder string
		wantAmount string
	}{
		{
			name:       "two_bidders",
			bids:       []models.Bid{bid("1", "user1", "15", 0), bid("1", "user2", "20", time.Second)},
			wantBidder: "user2",
			wantAmount: "20",
		},
		{
			name:       "single_bid",
			bids:       []models.Bid{bid("1", "user1", "15", 0)},
			wantBidder: "user1",
			wantAmount: "15",
		},
		{
			name: "tie_goes_to_first",
			bids: []models.Bid{
				bid("1", "early", "30.00", 0),
				bid("1", "late", "30", time.Minute),
				bid("1", "low", "29.99", 2*time.Minute),
			},
			wantBidder: "early",
			wantAmount: "30",
		},
		{
			name: "fractional_amounts",
			bids: []models.Bid{
				bid("1", "a", "0.1", 0),
				bid("1", "b", "0.30000000000000001", time.Second),
				bid("1", "c", "0.3", 2*time.Second),
			},
			wantBidder: "b",
			wantAmount: "0.30000000000000001",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			winner, err := HighestBid{}.DetermineWinner(product, tc.bids)
			require.NoError(t, err)
			require.NotNil(t, winner)
			require.Equal(t, tc.wantBidder, winner.BidderID)
			require.Equal(t, "1", winner.ProductID)
			require.True(t, decimal.RequireFromString(tc.wantAmount).Equal(winner.WinningAmount))
		})
	}
}

func TestHighestBid_Deterministic(t *testing.T) {
	t.Parallel()

	bids := []models.Bid{
		bid("p", "a", "10", 0),
		bid("p", "b", "12", time.Second),
		bid("p", "c", "12", 2*time.Second),
		bid("p", "d", "11", 3*time.Second),
	}
	first, err := HighestBid{}.DetermineWinner(models.Product{ProductID: "p"}, bids)
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		again, err := HighestBid{}.DetermineWinner(models.Product{ProductID: "p"}, bids)
		require.NoError(t, err)
		require.Equal(t, first.BidderID, again.BidderID)
		require.True(t, first.WinningAmount.Equal(again.WinningAmount))
	}
	require.Equal(t, "b", first.BidderID)
}

func TestPolicies_NoBids(t *testing.T) {
	t.Parallel()

	for _, p := range []Policy{HighestBid{}, NewRandomAmongBidders(&fixedRand{})} {
		winner, err := p.DetermineWinner(models.Product{ProductID: "1"}, nil)
		require.NoError(t, err)
		require.Nil(t, winner)

		winner, err = p.DetermineWinner(models.Product{ProductID: "1"}, []models.Bid{})
		require.NoError(t, err)
		require.Nil(t, winner)
	}
}

func TestRandomAmongBidders_DetermineWinner(t *testing.T) {
	t.Parallel()

	bids := []models.Bid{
		bid("1", "user1", "15", 0),
		bid("1", "user2", "20", time.Second),
		bid("1", "user1", "18", 2*time.Second),
		bid("1", "user3", "5", 3*time.Second),
	}

	tests := []struct {
		pick       int
		wantBidder string
		wantAmount string
	}{
		{pick: 0, wantBidder: "user1", wantAmount: "18"},
		{pick: 1, wantBidder: "user2", wantAmount: "20"},
		{pick: 2, wantBidder: "user3", wantAmount: "5"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.wantBidder, func(t *testing.T) {
			t.Parallel()

			rnd := &fixedRand{n: tc.pick}
			winner, err := NewRandomAmongBidders(rnd).DetermineWinner(models.Product{ProductID: "1"}, bids)
			require.NoError(t, err)
			require.Equal(t, []int{3}, rnd.calls, "draw is over distinct bidders")
			require.Equal(t, tc.wantBidder, winner.BidderID)
			require.True(t, decimal.RequireFromString(tc.wantAmount).Equal(winner.WinningAmount))
		})
	}
}

func TestRandomAmongBidders_BadSource(t *testing.T) {
	t.Parallel()

	_, err := NewRandomAmongBidders(&fixedRand{n: 7}).DetermineWinner(models.Product{ProductID: "1"}, []models.Bid{bid("1", "a", "1", 0)})
	require.ErrorIs(t, err, biddingerrors.ErrPolicy)
}

func TestRandomAmongBidders_CryptoDefault(t *testing.T) {
	t.Parallel()

	bids := []models.Bid{bid("1", "a", "1", 0), bid("1", "b", "2", time.Second)}
	p := NewRandomAmongBidders(nil)

	for i := 0; i < 100; i++ {
		winner, err := p.DetermineWinner(models.Product{ProductID: "1"}, bids)
		require.NoError(t, err)
		require.Contains(t, []string{"a", "b"}, winner.BidderID)
	}
}
