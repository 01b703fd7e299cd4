package settlement

import (
	"context"
	"fmt"
	"time"

	"auction-settlement/internal/metrics"
	"auction-settlement/utils"

	"golang.org/x/sync/errgroup"
)

const defaultConcurrency = 8

// Report summarizes one sweep
type Report struct {
	SweepID    string
	StartedAt  time.Time
	FinishedAt time.Time
	Outcomes   []Outcome
}

// Count returns the number of outcomes with status
func (r Report) Count(status Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}

// Sweep settles every expired product once, with bounded parallelism
type Sweep struct {
	products    ProductSource
	worker      *Worker
	concurrency int
	now         func() time.Time
}

// NewSweep uses a default worker limit when concurrency is not positive
func NewSweep(products ProductSource, worker *Worker, concurrency int) *Sweep {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Sweep{products: products, worker: worker, concurrency: concurrency, now: time.Now}
}

// Run queries the expired products and waits until every one of them has an outcome.
// Only a failure to list products is returned as an error.
func (s *Sweep) Run(ctx context.Context) (Report, error) {
	report := Report{SweepID: utils.GenerateID(), StartedAt: s.now()}
	logFields := map[string]any{"sweep_id": report.SweepID}

	products, err := s.products.GetExpiredProducts(ctx)
	if err != nil {
		report.FinishedAt = s.now()
		metrics.Sweeps.WithLabelValues("failed").Inc()
		return report, fmt.Errorf("settlement: sweep %s could not list expired products: %w", report.SweepID, err)
	}
	metrics.ExpiredProducts.Set(float64(len(products)))

	seen := make(map[string]struct{}, len(products))
	unique := products[:0:0]
	for _, p := range products {
		if _, dup := seen[p.ProductID]; dup {
			continue
		}
		seen[p.ProductID] = struct{}{}
		unique = append(unique, p)
	}

	report.Outcomes = make([]Outcome, len(unique))
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, product := range unique {
		g.Go(func() error {
			report.Outcomes[i] = s.worker.Settle(ctx, product)
			return nil
		})
	}
	_ = g.Wait()

	report.FinishedAt = s.now()
	metrics.Sweeps.WithLabelValues("completed").Inc()
	metrics.SweepDuration.Observe(report.FinishedAt.Sub(report.StartedAt).Seconds())

	logFields["products"] = len(unique)
	logFields["settled"] = report.Count(StatusSettled)
	logFields["no_bids"] = report.Count(StatusNoBids)
	logFields["duplicate"] = report.Count(StatusDuplicate)
	logFields["failed"] = report.Count(StatusFailed)
	logFields["duration_ms"] = report.FinishedAt.Sub(report.StartedAt).Milliseconds()
	utils.Info("settlement sweep finished", logFields)
	return report, nil
}
