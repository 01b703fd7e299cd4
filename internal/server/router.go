package server

import (
	"net/http"

	handler "auction-settlement/services/bidding/handler"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthFunc reports whether the backing stores are reachable
type HealthFunc func(c *gin.Context) error

// SetupRouter configures all Gin routes for the application
func SetupRouter(biddingService handler.BiddingServiceInterface, sweeps handler.SweepTrigger, health HealthFunc) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging

	biddingHandler := handler.NewBiddingHandler(biddingService)

	bids := router.Group("/bids")
	{
		bids.POST("", biddingHandler.RecordBidHandler)
		bids.PUT("", biddingHandler.UpdateBidHandler)
		bids.GET("/:bid_id", biddingHandler.GetBidHandler)
		bids.DELETE("/:bid_id", biddingHandler.DeleteBidHandler)
		bids.POST("/:bid_id/withdraw", biddingHandler.WithdrawBidHandler)
	}

	products := router.Group("/products")
	{
		products.GET("/:product_id/bids", biddingHandler.GetBidsByProductHandler)
		products.GET("/:product_id/winning", biddingHandler.GetWinningBidHandler)
	}

	bidders := router.Group("/bidders")
	{
		bidders.GET("/:bidder_id/bids", biddingHandler.GetBidsByBidderHandler)
	}

	if sweeps != nil {
		router.POST("/settlements/sweep", handler.NewSettlementHandler(sweeps).TriggerSweepHandler)
	}

	router.GET("/healthz", func(c *gin.Context) {
		if health != nil {
			if err := health(c); err != nil {
				c.String(http.StatusServiceUnavailable, "unhealthy: %v", err)
				return
			}
		}
		c.String(http.StatusOK, "ok")
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
