package clients

import (
	"context"
	"net/http"

	"auction-settlement/internal/models"
)

// BiddingClient reads bids from a remote bidding API
type BiddingClient struct {
	base
}

func NewBiddingClient(baseURL string, hc *http.Client) *BiddingClient {
	return &BiddingClient{base: newBase(baseURL, hc)}
}

func (c *BiddingClient) GetBidsForProduct(ctx context.Context, productID string) ([]models.Bid, error) {
	var resp envelope[[]models.Bid]
	if err := c.do(ctx, http.MethodGet, "/products/"+escape(productID)+"/bids", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return []models.Bid{}, nil
	}
	return resp.Data, nil
}
