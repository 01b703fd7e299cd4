package settlement

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"auction-settlement/internal/biddingerrors"
	"auction-settlement/internal/metrics"
	"auction-settlement/internal/models"
	"auction-settlement/internal/policy"
	"auction-settlement/utils"
)

// Status is the result class of settling one product
type Status string

const (
	StatusSettled   Status = "settled"
	StatusNoBids    Status = "no_bids"
	StatusDuplicate Status = "duplicate"
	StatusFailed    Status = "failed"
)

// Stage is the step a product settlement reached
type Stage string

const (
	StageFetchBids   Stage = "fetch_bids"
	StagePolicy      Stage = "policy"
	StagePublish     Stage = "publish"
	StageMarkSettled Stage = "mark_settled"
)

// Outcome describes what happened to one product during a sweep
type Outcome struct {
	ProductID string
	Status    Status
	Stage     Stage
	Winner    *models.WinnerResult
	Err       error
}

// Worker settles a single product
type Worker struct {
	bids      BidSource
	products  ProductSource
	policy    policy.Policy
	publisher Publisher
}

func NewWorker(bids BidSource, products ProductSource, p policy.Policy, publisher Publisher) *Worker {
	return &Worker{bids: bids, products: products, policy: p, publisher: publisher}
}

// Settle fetches the bids of product, applies the winner policy and publishes
// the winner. Failures are reported in the Outcome and never propagate.
func (w *Worker) Settle(ctx context.Context, product models.Product) (out Outcome) {
	out = Outcome{ProductID: product.ProductID}
	defer func() {
		if r := recover(); r != nil {
			out = w.fail(out, out.Stage, fmt.Errorf("settlement: recovered panic: %v", r))
		}
		w.observe(out)
	}()

	out.Stage = StageFetchBids
	bids, err := w.bids.GetBidsForProduct(ctx, product.ProductID)
	if err != nil {
		return w.fail(out, StageFetchBids, err)
	}
	sort.SliceStable(bids, func(i, j int) bool { return bids[i].PlacedAt.Before(bids[j].PlacedAt) })

	out.Stage = StagePolicy
	winner, err := w.decide(product, bids)
	if err != nil {
		return w.fail(out, StagePolicy, err)
	}

	if winner == nil {
		out.Status = StatusNoBids
	} else {
		out.Winner = winner
		out.Stage = StagePublish
		err = w.publisher.Publish(ctx, *winner)
		switch {
		case err == nil:
			out.Status = StatusSettled
		case errors.Is(err, biddingerrors.ErrAlreadyNotified):
			out.Status = StatusDuplicate
		default:
			return w.fail(out, StagePublish, err)
		}
	}

	if out.Winner != nil {
		w.supersedeLosers(ctx, *out.Winner)
	}

	out.Stage = StageMarkSettled
	if err := w.products.MarkSettled(ctx, product.ProductID); err != nil {
		return w.fail(out, StageMarkSettled, err)
	}
	return out
}

// decide isolates the policy so a panicking implementation surfaces as ErrPolicy
func (w *Worker) decide(product models.Product, bids []models.Bid) (winner *models.WinnerResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			winner, err = nil, fmt.Errorf("settlement: %w - panic: %v", biddingerrors.ErrPolicy, r)
		}
	}()
	return w.policy.DetermineWinner(product, bids)
}

// supersedeLosers retires the losing bids when the bid source owns them.
// The winner is already announced, so a failure here only gets logged.
func (w *Worker) supersedeLosers(ctx context.Context, winner models.WinnerResult) {
	archiver, ok := w.bids.(LoserArchiver)
	if !ok {
		return
	}
	if err := archiver.SupersedeLosingBids(ctx, winner.ProductID, winner.BidderID); err != nil {
		utils.Warn("failed to supersede losing bids", map[string]any{
			"product_id": winner.ProductID,
			"error":      err.Error(),
		})
	}
}

func (w *Worker) fail(out Outcome, stage Stage, err error) Outcome {
	out.Status = StatusFailed
	out.Stage = stage
	out.Err = err
	utils.Error("product settlement failed", map[string]any{
		"product_id": out.ProductID,
		"stage":      string(stage),
		"error":      err.Error(),
	})
	return out
}

func (w *Worker) observe(out Outcome) {
	metrics.Settlements.WithLabelValues(string(out.Status), string(out.Stage)).Inc()
	if out.Status == StatusFailed {
		return
	}

	fields := map[string]any{"product_id": out.ProductID, "status": string(out.Status)}
	if out.Winner != nil {
		fields["bidder_id"] = out.Winner.BidderID
		fields["winning_amount"] = out.Winner.WinningAmount.String()
	}
	utils.Info("product settled", fields)
}
