package handler

import (
	"context"
	"net/http"

	"auction-settlement/internal/models"
	"auction-settlement/services/bidding/helpers"
	"auction-settlement/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=bidding_handler.go -destination=mock_bidding_handler.go -package=handler

type BiddingServiceInterface interface {
	PlaceBid(ctx context.Context, productID, bidderID string, amount decimal.Decimal) (models.Bid, error)
	UpdateBid(ctx context.Context, productID, bidderID string, newAmount decimal.Decimal) (models.Bid, error)
	GetBid(ctx context.Context, bidID string) (models.Bid, error)
	GetBidsForProduct(ctx context.Context, productID string) ([]models.Bid, error)
	GetWinningBid(ctx context.Context, productID string) (models.Bid, error)
	ListBidsByBidder(ctx context.Context, bidderID string) ([]models.Bid, error)
	WithdrawBid(ctx context.Context, bidID string) (models.Bid, error)
	DeleteBid(ctx context.Context, bidID string) error
}

type BiddingHandler struct {
	service BiddingServiceInterface
}

func NewBiddingHandler(service BiddingServiceInterface) *BiddingHandler {
	return &BiddingHandler{service: service}
}

// RecordBidHandler handles POST /bids
func (h *BiddingHandler) RecordBidHandler(c *gin.Context) {
	var req helpers.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "RecordBidHandler", err)
		return
	}

	bid, err := h.service.PlaceBid(c.Request.Context(), req.ProductID, req.BidderID, req.Amount)
	if err != nil {
		helpers.RespondError(c, "RecordBidHandler", err, map[string]any{
			"product_id": req.ProductID,
			"bidder_id":  req.BidderID,
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.NewBidResponse(bid), "bid recorded successfully")
	helpers.LogSuccess("RecordBidHandler", "bid recorded successfully", map[string]any{
		"bid_id":     bid.BidID,
		"product_id": bid.ProductID,
		"bidder_id":  bid.BidderID,
		"amount":     bid.Amount.String(),
	})
}

// UpdateBidHandler handles PUT /bids
func (h *BiddingHandler) UpdateBidHandler(c *gin.Context) {
	var req helpers.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "UpdateBidHandler", err)
		return
	}

	bid, err := h.service.UpdateBid(c.Request.Context(), req.ProductID, req.BidderID, req.Amount)
	if err != nil {
		helpers.RespondError(c, "UpdateBidHandler", err, map[string]any{
			"product_id": req.ProductID,
			"bidder_id":  req.BidderID,
			"amount":     req.Amount.String(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewBidResponse(bid), "bid updated successfully")
	helpers.LogSuccess("UpdateBidHandler", "bid updated successfully", map[string]any{
		"bid_id": bid.BidID,
		"amount": bid.Amount.String(),
	})
}

// GetBidHandler handles GET /bids/:bid_id
func (h *BiddingHandler) GetBidHandler(c *gin.Context) {
	bidID := c.Param("bid_id")
	bid, err := h.service.GetBid(c.Request.Context(), bidID)
	if err != nil {
		helpers.RespondError(c, "GetBidHandler", err, map[string]any{"bid_id": bidID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewBidResponse(bid), "bid retrieved successfully")
}

// DeleteBidHandler handles DELETE /bids/:bid_id
func (h *BiddingHandler) DeleteBidHandler(c *gin.Context) {
	bidID := c.Param("bid_id")
	if err := h.service.DeleteBid(c.Request.Context(), bidID); err != nil {
		helpers.RespondError(c, "DeleteBidHandler", err, map[string]any{"bid_id": bidID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, nil, "bid deleted successfully")
	helpers.LogSuccess("DeleteBidHandler", "bid deleted successfully", map[string]any{"bid_id": bidID})
}

// WithdrawBidHandler handles POST /bids/:bid_id/withdraw
func (h *BiddingHandler) WithdrawBidHandler(c *gin.Context) {
	bidID := c.Param("bid_id")
	bid, err := h.service.WithdrawBid(c.Request.Context(), bidID)
	if err != nil {
		helpers.RespondError(c, "WithdrawBidHandler", err, map[string]any{"bid_id": bidID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewBidResponse(bid), "bid withdrawn successfully")
	helpers.LogSuccess("WithdrawBidHandler", "bid withdrawn successfully", map[string]any{"bid_id": bidID})
}

// GetBidsByProductHandler handles GET /products/:product_id/bids
func (h *BiddingHandler) GetBidsByProductHandler(c *gin.Context) {
	productID := c.Param("product_id")
	bids, err := h.service.GetBidsForProduct(c.Request.Context(), productID)
	if err != nil {
		helpers.RespondError(c, "GetBidsByProductHandler", err, map[string]any{"product_id": productID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewBidResponses(bids), "bids retrieved successfully")
	helpers.LogSuccess("GetBidsByProductHandler", "bids retrieved successfully", map[string]any{
		"product_id": productID,
		"count":      len(bids),
	})
}

// GetWinningBidHandler handles GET /products/:product_id/winning
func (h *BiddingHandler) GetWinningBidHandler(c *gin.Context) {
	productID := c.Param("product_id")
	bid, err := h.service.GetWinningBid(c.Request.Context(), productID)
	if err != nil {
		helpers.RespondError(c, "GetWinningBidHandler", err, map[string]any{"product_id": productID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewBidResponse(bid), "winning bid retrieved successfully")
	helpers.LogSuccess("GetWinningBidHandler", "winning bid retrieved successfully", map[string]any{
		"bid_id":     bid.BidID,
		"product_id": bid.ProductID,
		"bidder_id":  bid.BidderID,
		"amount":     bid.Amount.String(),
	})
}

// GetBidsByBidderHandler handles GET /bidders/:bidder_id/bids
func (h *BiddingHandler) GetBidsByBidderHandler(c *gin.Context) {
	bidderID := c.Param("bidder_id")
	bids, err := h.service.ListBidsByBidder(c.Request.Context(), bidderID)
	if err != nil {
		helpers.RespondError(c, "GetBidsByBidderHandler", err, map[string]any{"bidder_id": bidderID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewBidResponses(bids), "bids retrieved successfully")
	helpers.LogSuccess("GetBidsByBidderHandler", "bids retrieved successfully", map[string]any{
		"bidder_id": bidderID,
		"count":     len(bids),
	})
}
