// Package catalog is an in-process product source for running the settlement core standalone.
package catalog

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"auction-settlement/internal/biddingerrors"
	"auction-settlement/internal/models"
)

type entry struct {
	product models.Product
	settled bool
}

// Catalog keeps products in memory and reports the expired, unsettled ones
type Catalog struct {
	mu       sync.RWMutex
	products map[string]entry
	now      func() time.Time
}

func New(now func() time.Time) *Catalog {
	if now == nil {
		now = time.Now
	}
	return &Catalog{products: make(map[string]entry), now: now}
}

// AddProduct registers or replaces a product. Replacing clears its settled mark.
func (c *Catalog) AddProduct(p models.Product) error {
	if p.ProductID == "" {
		return fmt.Errorf("catalog: %w - empty product ID", biddingerrors.ErrInvalidArgument)
	}
	if p.BiddingEndTime.Before(p.BiddingStartTime) {
		return fmt.Errorf("catalog: %w - bidding window of %s ends before it starts", biddingerrors.ErrInvalidArgument, p.ProductID)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.products[p.ProductID] = entry{product: p}
	return nil
}

// GetExpiredProducts returns unsettled products whose bidding window closed, by end time
func (c *Catalog) GetExpiredProducts(_ context.Context) ([]models.Product, error) {
	now := c.now()

	c.mu.RLock()
	expired := make([]models.Product, 0)
	for _, e := range c.products {
		if !e.settled && e.product.Expired(now) {
			expired = append(expired, e.product)
		}
	}
	c.mu.RUnlock()

	sort.Slice(expired, func(i, j int) bool {
		if !expired[i].BiddingEndTime.Equal(expired[j].BiddingEndTime) {
			return expired[i].BiddingEndTime.Before(expired[j].BiddingEndTime)
		}
		return expired[i].ProductID < expired[j].ProductID
	})
	return expired, nil
}

func (c *Catalog) MarkSettled(_ context.Context, productID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.products[productID]
	if !ok {
		return fmt.Errorf("catalog: product %s: %w", productID, biddingerrors.ErrNotFound)
	}
	e.settled = true
	c.products[productID] = e
	return nil
}
