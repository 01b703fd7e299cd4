package handler

import (
	"context"
	"net/http"

	"auction-settlement/internal/settlement"
	"auction-settlement/services/bidding/helpers"
	"auction-settlement/utils"

	"github.com/gin-gonic/gin"
)

// SweepTrigger starts a settlement sweep on demand
type SweepTrigger interface {
	Trigger(ctx context.Context) (settlement.Report, error)
}

type SettlementHandler struct {
	trigger SweepTrigger
}

func NewSettlementHandler(trigger SweepTrigger) *SettlementHandler {
	return &SettlementHandler{trigger: trigger}
}

// TriggerSweepHandler handles POST /settlements/sweep
func (h *SettlementHandler) TriggerSweepHandler(c *gin.Context) {
	// the sweep outlives a disconnecting caller
	report, err := h.trigger.Trigger(context.WithoutCancel(c.Request.Context()))
	if err != nil {
		helpers.RespondError(c, "TriggerSweepHandler", err, nil)
		return
	}

	resp := helpers.NewSweepResponse(report)
	utils.JSONResponse(c, http.StatusOK, resp, "settlement sweep completed")
	helpers.LogSuccess("TriggerSweepHandler", "settlement sweep completed", map[string]any{
		"sweep_id": resp.SweepID,
		"settled":  resp.Settled,
		"failed":   resp.Failed,
	})
}
