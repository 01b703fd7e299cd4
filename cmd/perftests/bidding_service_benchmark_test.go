package perftests

import (
	"context"
	"fmt"
	"math/rand"
	"sync/atomic"
	"testing"
	"time"

	bidding "auction-settlement/internal/biddingService"
	"auction-settlement/internal/catalog"
	"auction-settlement/internal/models"
	"auction-settlement/internal/notification"
	"auction-settlement/internal/policy"
	"auction-settlement/internal/repository"
	"auction-settlement/internal/settlement"

	"github.com/shopspring/decimal"
)

// Benchmark 1: PlaceBid - Isolated Products (Low Contention - Micro Benchmark)
func Benchmark_PlaceBid_Isolated(b *testing.B) {
	svc := bidding.NewBiddingService(repository.NewMemoryRepo())
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		bidderID := fmt.Sprintf("bidder_%d", i)
		productID := fmt.Sprintf("product_%d", i)
		amount := decimal.NewFromInt(int64(50 + rand.Intn(100)))
		if _, err := svc.PlaceBid(ctx, productID, bidderID, amount); err != nil {
			b.Fatalf("failed to place bid: %v", err)
		}
	}
}

// Benchmark 2: UpdateBid - one bid raised by many goroutines (CAS retry path)
func Benchmark_UpdateBid_ConcurrentSameBid(b *testing.B) {
	svc := bidding.NewBiddingService(repository.NewMemoryRepo())
	ctx := context.Background()
	if _, err := svc.PlaceBid(ctx, "shared_product", "bidder", decimal.NewFromInt(1)); err != nil {
		b.Fatalf("seed bid: %v", err)
	}

	b.ReportAllocs()
	b.ResetTimer()

	var level int64 = 1
	b.RunParallel(func(pb *testing.PB) {
		rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
		for pb.Next() {
			next := atomic.AddInt64(&level, int64(rnd.Intn(5)+1))
			_, _ = svc.UpdateBid(ctx, "shared_product", "bidder", decimal.NewFromInt(next))
		}
	})
}

// Benchmark 3: PlaceBid - Shared Product (High Contention)
func Benchmark_PlaceBid_ConcurrentSharedProduct(b *testing.B) {
	svc := bidding.NewBiddingService(repository.NewMemoryRepo())
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()

	var lastBid int64 = 50
	b.RunParallel(func(pb *testing.PB) {
		rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
		for pb.Next() {
			bidderID := fmt.Sprintf("bidder_parallel_%d", rnd.Int())
			nextBid := atomic.AddInt64(&lastBid, int64(rnd.Intn(5)+1))
			_, _ = svc.PlaceBid(ctx, "shared_product", bidderID, decimal.NewFromInt(nextBid))
		}
	})
}

// Benchmark 4: GetWinningBid - Concurrent (High Contention)
func Benchmark_GetWinningBid_ConcurrentSharedProduct(b *testing.B) {
	svc := bidding.NewBiddingService(repository.NewMemoryRepo())
	ctx := context.Background()

	for j := 0; j < 100; j++ {
		_, _ = svc.PlaceBid(ctx, "shared_product", fmt.Sprintf("bidder_%d", j), decimal.NewFromInt(int64(50+j)))
	}

	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := svc.GetWinningBid(ctx, "shared_product"); err != nil {
				b.Errorf("failed to get winning bid: %v", err)
				return
			}
		}
	})
}

type discardBus struct{}

func (discardBus) SendWinnerNotification(context.Context, models.WinnerResult) error { return nil }

// Benchmark 5: one settlement sweep over many expired products
func Benchmark_SettlementSweep(b *testing.B) {
	const products, biddersPerProduct = 500, 20
	ctx := context.Background()
	ended := time.Now().Add(-time.Minute)

	for _, concurrency := range []int{1, 8, 32} {
		b.Run(fmt.Sprintf("concurrency_%d", concurrency), func(b *testing.B) {
			svc := bidding.NewBiddingService(repository.NewMemoryRepo())
			for p := 0; p < products; p++ {
				for u := 0; u < biddersPerProduct; u++ {
					_, _ = svc.PlaceBid(ctx, fmt.Sprintf("product_%d", p), fmt.Sprintf("bidder_%d", u), decimal.NewFromInt(int64(10+u)))
				}
			}

			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				b.StopTimer()
				cat := catalog.New(nil)
				for p := 0; p < products; p++ {
					_ = cat.AddProduct(models.Product{ProductID: fmt.Sprintf("product_%d", p), BiddingStartTime: ended.Add(-time.Hour), BiddingEndTime: ended})
				}
				publisher := notification.NewPublisher(discardBus{}, notification.NewMemoryLedger(0))
				sweep := settlement.NewSweep(cat, settlement.NewWorker(svc, cat, policy.HighestBid{}, publisher), concurrency)
				b.StartTimer()

				report, err := sweep.Run(ctx)
				if err != nil {
					b.Fatalf("sweep failed: %v", err)
				}
				if n := report.Count(settlement.StatusSettled); n != products {
					b.Fatalf("settled %d of %d products", n, products)
				}
			}
		})
	}
}
