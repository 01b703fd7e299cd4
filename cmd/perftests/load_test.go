package perftests

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	bidding "auction-settlement/internal/biddingService"
	"auction-settlement/internal/repository"

	"github.com/shopspring/decimal"
)

// LoadScenario defines configurable benchmark parameters
type LoadScenario struct {
	Name            string
	NumBidders      int
	NumProducts     int
	ReadRatio       int
	MaxBidIncrement int
	Burst           bool // if true, no delay between ops
}

// OperationMetrics collects latencies safely
type OperationMetrics struct {
	mu        sync.Mutex
	latencies []time.Duration
}

func (om *OperationMetrics) Record(d time.Duration) {
	om.mu.Lock()
	om.latencies = append(om.latencies, d)
	om.mu.Unlock()
}

func (om *OperationMetrics) Stats() (min, max, avg, p95, p99 time.Duration) {
	om.mu.Lock()
	latencies := append([]time.Duration(nil), om.latencies...)
	om.mu.Unlock()
	if len(latencies) == 0 {
		return
	}
	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	min = latencies[0]
	max = latencies[len(latencies)-1]

	var total time.Duration
	for _, d := range latencies {
		total += d
	}
	avg = total / time.Duration(len(latencies))
	p95 = latencies[int(0.95*float64(len(latencies)))]
	p99 = latencies[int(0.99*float64(len(latencies)))]
	return
}

// Benchmark_Load_BiddingSystem runs multiple scenarios. Bidders are drawn from a
// fixed pool, so repeated placements hit the raise path and compete on the same bid.
func Benchmark_Load_BiddingSystem(b *testing.B) {
	scenarios := []LoadScenario{
		{"Low-Contention-WriteHeavy", 2000, 200, 0, 50, false},
		{"High-Contention-WriteHeavy", 20, 5, 0, 20, false},
		{"Mixed-Workload", 300, 50, 7, 30, false},
		{"ReadHeavy", 200, 50, 9, 20, false},
		{"Edge-Case-SingleProduct", 10, 1, 5, 10, false},
		{"Peak-Burst", 500, 50, 0, 20, true},
	}

	for _, s := range scenarios {
		b.Run(s.Name, func(b *testing.B) {
			runParallelScenario(b, s)
		})
	}
}

func runParallelScenario(b *testing.B, s LoadScenario) {
	b.ReportAllocs()

	svc := bidding.NewBiddingService(repository.NewMemoryRepo())
	ctx := context.Background()

	var totalOps, acceptedBids, rejectedBids, totalReads int64
	var level int64 = 100
	productAccepted := make([]int64, s.NumProducts)
	metrics := &OperationMetrics{}

	start := time.Now()

	b.RunParallel(func(pb *testing.PB) {
		rnd := rand.New(rand.NewSource(time.Now().UnixNano()))

		for pb.Next() {
			productIndex := rnd.Intn(s.NumProducts)
			productID := fmt.Sprintf("product_%d", productIndex)

			opStart := time.Now()
			if rnd.Intn(10) < s.ReadRatio {
				_, _ = svc.GetWinningBid(ctx, productID)
				atomic.AddInt64(&totalReads, 1)
			} else {
				amount := decimal.NewFromInt(atomic.AddInt64(&level, int64(rnd.Intn(s.MaxBidIncrement)+1)))
				bidderID := fmt.Sprintf("bidder_%d", rnd.Intn(s.NumBidders))
				if _, err := svc.PlaceBid(ctx, productID, bidderID, amount); err != nil {
					// a concurrent higher raise of the same bid wins
					atomic.AddInt64(&rejectedBids, 1)
				} else {
					atomic.AddInt64(&acceptedBids, 1)
					atomic.AddInt64(&productAccepted[productIndex], 1)
				}
			}

			metrics.Record(time.Since(opStart))
			atomic.AddInt64(&totalOps, 1)

			if !s.Burst {
				time.Sleep(time.Millisecond)
			}
		}
	})

	elapsed := time.Since(start)
	throughput := float64(totalOps) / elapsed.Seconds()
	min, max, avg, p95, p99 := metrics.Stats()

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	b.Logf(
		"Scenario: %s | Products: %d | Total Ops: %d | Accepted: %d | Rejected: %d | Reads: %d | Elapsed: %s | Throughput: %.2f ops/sec | Latency(us) min: %.2f avg: %.2f max: %.2f p95: %.2f p99: %.2f | Memory Alloc: %.2f MB",
		s.Name, s.NumProducts, totalOps, acceptedBids, rejectedBids, totalReads, elapsed,
		throughput,
		float64(min.Microseconds()), float64(avg.Microseconds()), float64(max.Microseconds()),
		float64(p95.Microseconds()), float64(p99.Microseconds()),
		float64(mem.Alloc)/1024/1024,
	)
}
