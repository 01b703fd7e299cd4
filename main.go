package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	bidding "auction-settlement/internal/biddingService"
	"auction-settlement/internal/catalog"
	"auction-settlement/internal/clients"
	"auction-settlement/internal/config"
	"auction-settlement/internal/models"
	"auction-settlement/internal/notification"
	"auction-settlement/internal/policy"
	"auction-settlement/internal/repository"
	"auction-settlement/internal/repository/postgres"
	"auction-settlement/internal/server"
	"auction-settlement/internal/settlement"
	"auction-settlement/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.Fatal("invalid configuration", map[string]any{"error": err.Error()})
	}
	utils.SetLogLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var closers []func()
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}()

	repo, health, closeRepo := openBidStore(ctx, cfg)
	closers = append(closers, closeRepo)

	biddingSvc := bidding.NewBiddingService(repo)

	products := productSource(cfg)
	bids := bidSource(cfg, biddingSvc)

	winnerPolicy, err := winnerPolicyFor(cfg.WinnerPolicy)
	if err != nil {
		utils.Fatal("invalid winner policy", map[string]any{"error": err.Error()})
	}

	bus, closeBus := messageBus(cfg)
	closers = append(closers, closeBus)
	ledger, closeLedger := notificationLedger(ctx, cfg)
	closers = append(closers, closeLedger)

	publisher := notification.NewPublisher(bus, ledger, notification.WithRetry(cfg.NotifyAttempts, cfg.NotifyBackoff))
	worker := settlement.NewWorker(bids, products, winnerPolicy, publisher)
	scheduler := settlement.NewScheduler(settlement.NewSweep(products, worker, cfg.SweepConcurrency), cfg.SweepInterval)
	if cfg.SchedulerEnabled {
		scheduler.Start(ctx)
		closers = append(closers, scheduler.Stop)
	}

	router := server.SetupRouter(biddingSvc, scheduler, health)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		utils.Info("starting auction server", map[string]any{"addr": cfg.HTTPAddr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Error("HTTP server failed", map[string]any{"error": err.Error()})
			stop()
		}
	}()

	<-ctx.Done()
	utils.Info("shutting down", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.Error("HTTP server shutdown failed", map[string]any{"error": err.Error()})
	}
}

// openBidStore returns the configured bid store and its health check
func openBidStore(ctx context.Context, cfg config.Config) (repository.BidDB, server.HealthFunc, func()) {
	if cfg.StoreDriver != "postgres" {
		utils.Info("using in-memory bid store", nil)
		return repository.NewMemoryRepo(), nil, func() {}
	}

	if err := postgres.RunMigrations(cfg.PostgresDSN); err != nil {
		utils.Fatal("database migration failed", map[string]any{"error": err.Error()})
	}
	pool, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		utils.Fatal("database connection failed", map[string]any{"error": err.Error()})
	}
	utils.Info("using postgres bid store", nil)

	health := func(c *gin.Context) error { return pool.Ping(c.Request.Context()) }
	return postgres.NewBidRepository(pool), health, pool.Close
}

func productSource(cfg config.Config) settlement.ProductSource {
	if cfg.ProductServiceURL != "" {
		utils.Info("reading expired products from product service", map[string]any{"url": cfg.ProductServiceURL})
		return clients.NewProductClient(cfg.ProductServiceURL, nil)
	}

	c := catalog.New(time.Now)
	if cfg.SeedDemoProducts {
		prepopulateProducts(c)
	}
	return c
}

func bidSource(cfg config.Config, local *bidding.BiddingService) settlement.BidSource {
	if cfg.BiddingServiceURL != "" {
		return clients.NewBiddingClient(cfg.BiddingServiceURL, nil)
	}
	return local
}

func messageBus(cfg config.Config) (notification.MessageBus, func()) {
	if len(cfg.KafkaBrokers) == 0 {
		utils.Warn("no Kafka brokers configured, winner notifications are only logged", nil)
		return notification.NewLogBus(), func() {}
	}

	bus := notification.NewKafkaBus(notification.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaTopic))
	utils.Info("publishing winners to Kafka", map[string]any{"brokers": cfg.KafkaBrokers, "topic": cfg.KafkaTopic})
	return bus, func() {
		if err := bus.Close(); err != nil {
			utils.Error("failed to close Kafka writer", map[string]any{"error": err.Error()})
		}
	}
}

// winnerPolicyFor builds the configured policy and announces it. A lottery is
// logged as a warning so operators notice the highest bid may not win.
func winnerPolicyFor(kind policy.Kind) (policy.Policy, error) {
	p, err := policy.New(kind, nil)
	if err != nil {
		return nil, err
	}
	if kind == policy.KindRandomLottery {
		utils.Warn("winner policy is a lottery, winners are drawn at random among bidders", map[string]any{"policy": string(kind)})
	} else {
		utils.Info("winner policy selected", map[string]any{"policy": string(kind)})
	}
	return p, nil
}

func notificationLedger(ctx context.Context, cfg config.Config) (notification.Ledger, func()) {
	if cfg.RedisAddr == "" {
		return notification.NewMemoryLedger(cfg.LedgerTTL), func() {}
	}

	rdb, err := notification.ConnectRedis(ctx, cfg.RedisAddr)
	if err != nil {
		utils.Fatal("redis connection failed", map[string]any{"error": err.Error()})
	}
	return notification.NewRedisLedger(rdb, cfg.LedgerTTL), func() { _ = rdb.Close() }
}

// prepopulateProducts adds sample products to the in-memory catalog
func prepopulateProducts(c *catalog.Catalog) {
	now := time.Now().UTC()
	products := []models.Product{
		{ProductID: "1", BasePrice: decimal.NewFromInt(100), BiddingStartTime: now, BiddingEndTime: now.Add(2 * time.Minute)},
		{ProductID: "2", BasePrice: decimal.NewFromInt(200), BiddingStartTime: now, BiddingEndTime: now.Add(5 * time.Minute)},
		{ProductID: "3", BasePrice: decimal.NewFromInt(150), BiddingStartTime: now, BiddingEndTime: now.Add(10 * time.Minute)},
	}

	for _, p := range products {
		if err := c.AddProduct(p); err != nil {
			utils.Warn("failed to seed product", map[string]any{"product_id": p.ProductID, "error": err.Error()})
		}
	}
}
