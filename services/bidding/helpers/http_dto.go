package helpers

import (
	"time"

	"auction-settlement/internal/models"
	"auction-settlement/internal/settlement"

	"github.com/shopspring/decimal"
)

// Request/Response DTOs

// PlaceBidRequest is the body of POST /bids and PUT /bids.
// Amount accepts a JSON number or a decimal string.
type PlaceBidRequest struct {
	ProductID string          `json:"product_id" binding:"required"`
	BidderID  string          `json:"bidder_id" binding:"required"`
	Amount    decimal.Decimal `json:"amount"`
}

type BidResponse struct {
	BidID     string           `json:"bid_id"`
	ProductID string           `json:"product_id"`
	BidderID  string           `json:"bidder_id"`
	Amount    decimal.Decimal  `json:"amount"`
	PlacedAt  string           `json:"placed_at"`
	Status    models.BidStatus `json:"status"`
}

func NewBidResponse(bid models.Bid) BidResponse {
	return BidResponse{
		BidID:     bid.BidID,
		ProductID: bid.ProductID,
		BidderID:  bid.BidderID,
		Amount:    bid.Amount,
		PlacedAt:  bid.PlacedAt.UTC().Format(time.RFC3339Nano),
		Status:    bid.Status,
	}
}

func NewBidResponses(bids []models.Bid) []BidResponse {
	out := make([]BidResponse, 0, len(bids))
	for _, bid := range bids {
		out = append(out, NewBidResponse(bid))
	}
	return out
}

type OutcomeResponse struct {
	ProductID     string           `json:"product_id"`
	Status        string           `json:"status"`
	Stage         string           `json:"stage,omitempty"`
	BidderID      string           `json:"bidder_id,omitempty"`
	WinningAmount *decimal.Decimal `json:"winning_amount,omitempty"`
	Error         string           `json:"error,omitempty"`
}

type SweepResponse struct {
	SweepID    string            `json:"sweep_id"`
	StartedAt  string            `json:"started_at"`
	FinishedAt string            `json:"finished_at"`
	Settled    int               `json:"settled"`
	NoBids     int               `json:"no_bids"`
	Duplicate  int               `json:"duplicate"`
	Failed     int               `json:"failed"`
	Outcomes   []OutcomeResponse `json:"outcomes"`
}

func NewSweepResponse(r settlement.Report) SweepResponse {
	resp := SweepResponse{
		SweepID:    r.SweepID,
		StartedAt:  r.StartedAt.UTC().Format(time.RFC3339Nano),
		FinishedAt: r.FinishedAt.UTC().Format(time.RFC3339Nano),
		Settled:    r.Count(settlement.StatusSettled),
		NoBids:     r.Count(settlement.StatusNoBids),
		Duplicate:  r.Count(settlement.StatusDuplicate),
		Failed:     r.Count(settlement.StatusFailed),
		Outcomes:   make([]OutcomeResponse, 0, len(r.Outcomes)),
	}
	for _, o := range r.Outcomes {
		out := OutcomeResponse{ProductID: o.ProductID, Status: string(o.Status)}
		if o.Status == settlement.StatusFailed {
			out.Stage = string(o.Stage)
		}
		if o.Winner != nil {
			out.BidderID = o.Winner.BidderID
			amount := o.Winner.WinningAmount
			out.WinningAmount = &amount
		}
		if o.Err != nil {
			out.Error = o.Err.Error()
		}
		resp.Outcomes = append(resp.Outcomes, out)
	}
	return resp
}
