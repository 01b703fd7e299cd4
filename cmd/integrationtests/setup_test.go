package integrationtests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	bidding "auction-settlement/internal/biddingService"
	"auction-settlement/internal/catalog"
	"auction-settlement/internal/models"
	"auction-settlement/internal/notification"
	"auction-settlement/internal/policy"
	"auction-settlement/internal/repository"
	"auction-settlement/internal/server"
	"auction-settlement/internal/settlement"

	"github.com/gin-gonic/gin"
)

// recordingBus captures winner notifications instead of sending them
type recordingBus struct {
	mu      sync.Mutex
	winners []models.WinnerResult
}

func (b *recordingBus) SendWinnerNotification(_ context.Context, w models.WinnerResult) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.winners = append(b.winners, w)
	return nil
}

func (b *recordingBus) Sent() []models.WinnerResult {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.WinnerResult(nil), b.winners...)
}

// testClock is a settable clock shared by the catalog
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testApp struct {
	router  *gin.Engine
	catalog *catalog.Catalog
	clock   *testClock
	bus     *recordingBus
}

// SetupTestApp wires the in-memory bid store, a catalog holding products,
// the highest-bid policy and a recording bus behind the real router.
func SetupTestApp(t *testing.T, products ...models.Product) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	clock := &testClock{now: time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)}
	cat := catalog.New(clock.Now)
	for _, p := range products {
		if err := cat.AddProduct(p); err != nil {
			t.Fatalf("seed product %s: %v", p.ProductID, err)
		}
	}

	service := bidding.NewBiddingService(repository.NewMemoryRepo())
	bus := &recordingBus{}
	publisher := notification.NewPublisher(bus, notification.NewMemoryLedger(0), notification.WithRetry(1, 0))
	worker := settlement.NewWorker(service, cat, policy.HighestBid{}, publisher)
	scheduler := settlement.NewScheduler(settlement.NewSweep(cat, worker, 4), time.Hour)

	return &testApp{
		router:  server.SetupRouter(service, scheduler, nil),
		catalog: cat,
		clock:   clock,
		bus:     bus,
	}
}

// ExecuteRequestAndParse executes an HTTP request on the given router and parses the response
func ExecuteRequestAndParse(t *testing.T, router *gin.Engine, method, url string, body any) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()

	var reqBody []byte
	var err error

	switch v := body.(type) {
	case nil:
	case []byte:
		reqBody = v
	case string:
		reqBody = []byte(v)
	default:
		reqBody, err = json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
	}
	return resp, w
}

func product(id string, start time.Time, window time.Duration) models.Product {
	return models.Product{ProductID: id, BiddingStartTime: start, BiddingEndTime: start.Add(window)}
}
