// Package clients holds typed HTTP clients for the product and bidding services.
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"auction-settlement/internal/biddingerrors"
)

const defaultTimeout = 5 * time.Second

// envelope mirrors utils.JSONResponse
type envelope[T any] struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
}

type base struct {
	baseURL string
	http    *http.Client
}

func newBase(baseURL string, hc *http.Client) base {
	if hc == nil {
		hc = &http.Client{Timeout: defaultTimeout}
	}
	return base{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

// do sends the request and decodes the enveloped response into out.
// Transport failures and 5xx responses are reported as ErrUpstreamUnavailable,
// 404 as ErrNotFound and other 4xx as ErrInvalidArgument.
func (b base) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := b.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w - %w", method, path, biddingerrors.ErrUpstreamUnavailable, err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode >= 500:
		return fmt.Errorf("%s %s: %w - http %d", method, path, biddingerrors.ErrUpstreamUnavailable, res.StatusCode)
	case res.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s %s: %w", method, path, biddingerrors.ErrNotFound)
	case res.StatusCode >= 400:
		return fmt.Errorf("%s %s: %w - http %d", method, path, biddingerrors.ErrInvalidArgument, res.StatusCode)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: %w - decode response: %w", method, path, biddingerrors.ErrUpstreamUnavailable, err)
	}
	return nil
}

func escape(id string) string { return url.PathEscape(id) }
