package helpers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"auction-settlement/internal/biddingerrors"
	"auction-settlement/internal/models"
	"auction-settlement/internal/settlement"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestMapErrorToHTTP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want int
	}{
		{err: fmt.Errorf("service: %w", biddingerrors.ErrInvalidArgument), want: http.StatusBadRequest},
		{err: fmt.Errorf("get: %w", biddingerrors.ErrNotFound), want: http.StatusNotFound},
		{err: biddingerrors.ErrNoBids, want: http.StatusNotFound},
		{err: fmt.Errorf("service: %w", biddingerrors.ErrConflictingUpdate), want: http.StatusConflict},
		{err: biddingerrors.ErrSweepInProgress, want: http.StatusConflict},
		{err: biddingerrors.ErrUpstreamUnavailable, want: http.StatusServiceUnavailable},
		{err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.err.Error(), func(t *testing.T) {
			t.Parallel()
			status, message := MapErrorToHTTP(tc.err)
			require.Equal(t, tc.want, status)
			require.NotEmpty(t, message)
		})
	}
}

func TestNewSweepResponse(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	report := settlement.Report{
		SweepID:    "sweep-1",
		StartedAt:  start,
		FinishedAt: start.Add(time.Second),
		Outcomes: []settlement.Outcome{
			{ProductID: "1", Status: settlement.StatusSettled, Stage: settlement.StageMarkSettled, Winner: &models.WinnerResult{BidderID: "user2", ProductID: "1", WinningAmount: decimal.NewFromInt(20)}},
			{ProductID: "2", Status: settlement.StatusFailed, Stage: settlement.StageFetchBids, Err: biddingerrors.ErrUpstreamUnavailable},
			{ProductID: "3", Status: settlement.StatusNoBids, Stage: settlement.StageMarkSettled},
		},
	}

	resp := NewSweepResponse(report)
	require.Equal(t, "sweep-1", resp.SweepID)
	require.Equal(t, 1, resp.Settled)
	require.Equal(t, 1, resp.Failed)
	require.Equal(t, 1, resp.NoBids)
	require.Equal(t, "user2", resp.Outcomes[0].BidderID)
	require.Equal(t, "20", resp.Outcomes[0].WinningAmount.String())
	require.Empty(t, resp.Outcomes[0].Stage)
	require.Equal(t, "fetch_bids", resp.Outcomes[1].Stage)
	require.NotEmpty(t, resp.Outcomes[1].Error)
}
