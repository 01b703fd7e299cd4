package clients

import (
	"context"
	"net/http"

	"auction-settlement/internal/models"
)

// ProductClient talks to the product service
type ProductClient struct {
	base
}

// NewProductClient uses a client with a short timeout when hc is nil
func NewProductClient(baseURL string, hc *http.Client) *ProductClient {
	return &ProductClient{base: newBase(baseURL, hc)}
}

// GetExpiredProducts lists products whose bidding window closed and that are not yet settled
func (c *ProductClient) GetExpiredProducts(ctx context.Context) ([]models.Product, error) {
	var resp envelope[[]models.Product]
	if err := c.do(ctx, http.MethodGet, "/products/expired", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return []models.Product{}, nil
	}
	return resp.Data, nil
}

// MarkSettled tells the product service that the winner of productID was handled
func (c *ProductClient) MarkSettled(ctx context.Context, productID string) error {
	return c.do(ctx, http.MethodPost, "/products/"+escape(productID)+"/settle", nil, nil)
}
