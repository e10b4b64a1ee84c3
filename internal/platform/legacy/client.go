// Package legacy talks to the lab's original booking backend. The backend is
// treated as an opaque HTTP API: reads come back as reference-preserving JSON
// (handed to refjson for normalization) and status writes have historically
// been accepted through more than one wire shape, so the commit path walks an
// ordered list of request encoders before giving up.
package legacy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ErrNotConfigured is returned by reads when no backend URL is configured.
// Status pushes degrade to no-ops instead; a deployment without the legacy
// backend keeps booking state only in this service.
var ErrNotConfigured = errors.New("legacy backend not configured")

// Encoder builds one wire shape for a booking status update.
type Encoder interface {
	Name() string
	NewRequest(ctx context.Context, baseURL, bookingID, rawStatus string) (*http.Request, error)
}

// Client wraps the legacy backend endpoint.
type Client struct {
	baseURL  string
	http     *http.Client
	encoders []Encoder
	logger   zerolog.Logger
}

// NewClient builds a Client against baseURL. An empty baseURL disables the
// client: pushes become no-ops and reads fail with ErrNotConfigured. The
// default encoder order matches what the backend has been observed to accept:
// JSON body first, then query-string, then form-encoded.
func NewClient(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		encoders: []Encoder{
			jsonBodyEncoder{},
			queryParamEncoder{},
			formEncoder{},
		},
		logger: logger,
	}
}

// SetEncoders overrides the encoder order. Intended for tests.
func (c *Client) SetEncoders(encoders ...Encoder) {
	c.encoders = encoders
}

// FetchBookingGraph retrieves the raw (possibly reference-preserving) JSON
// document for a booking. The caller normalizes it with refjson.
func (c *Client) FetchBookingGraph(ctx context.Context, bookingID string) (any, error) {
	if c.baseURL == "" {
		return nil, ErrNotConfigured
	}
	u := fmt.Sprintf("%s/api/bookings/%s", c.baseURL, url.PathEscape(bookingID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build booking fetch request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch booking %s: %w", bookingID, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch booking %s: backend returned %d", bookingID, resp.StatusCode)
	}
	var doc any
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode booking %s payload: %w", bookingID, err)
	}
	return doc, nil
}

// PushBookingStatus commits a booking's raw backend status. Each encoder is
// tried in order until one succeeds; the attempt count is bounded by the
// encoder list. All attempt errors are joined into the terminal failure.
func (c *Client) PushBookingStatus(ctx context.Context, bookingID, rawStatus string) error {
	if c.baseURL == "" {
		c.logger.Debug().
			Str("booking_id", bookingID).
			Msg("no legacy backend configured, skipping status push")
		return nil
	}
	var attempts []error
	for _, enc := range c.encoders {
		req, err := enc.NewRequest(ctx, c.baseURL, bookingID, rawStatus)
		if err != nil {
			attempts = append(attempts, fmt.Errorf("%s: build request: %w", enc.Name(), err))
			continue
		}
		resp, err := c.http.Do(req)
		if err != nil {
			attempts = append(attempts, fmt.Errorf("%s: %w", enc.Name(), err))
			continue
		}
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return nil
		}
		c.logger.Warn().
			Str("booking_id", bookingID).
			Str("encoding", enc.Name()).
			Int("status_code", resp.StatusCode).
			Msg("status update rejected, trying next encoding")
		attempts = append(attempts, fmt.Errorf("%s: backend returned %d: %s", enc.Name(), resp.StatusCode, strings.TrimSpace(string(body))))
	}
	return fmt.Errorf("push status for booking %s: all encodings rejected: %w", bookingID, errors.Join(attempts...))
}

// jsonBodyEncoder: PUT /api/bookings/{id}/status with {"status": "..."}.
type jsonBodyEncoder struct{}

func (jsonBodyEncoder) Name() string { return "json-body" }

func (jsonBodyEncoder) NewRequest(ctx context.Context, baseURL, bookingID, rawStatus string) (*http.Request, error) {
	payload, err := json.Marshal(map[string]string{"status": rawStatus})
	if err != nil {
		return nil, err
	}
	u := fmt.Sprintf("%s/api/bookings/%s/status", baseURL, url.PathEscape(bookingID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, u, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// queryParamEncoder: PUT /api/bookings/{id}/status?status=... with no body.
type queryParamEncoder struct{}

func (queryParamEncoder) Name() string { return "query-param" }

func (queryParamEncoder) NewRequest(ctx context.Context, baseURL, bookingID, rawStatus string) (*http.Request, error) {
	u := fmt.Sprintf("%s/api/bookings/%s/status?status=%s",
		baseURL, url.PathEscape(bookingID), url.QueryEscape(rawStatus))
	return http.NewRequestWithContext(ctx, http.MethodPut, u, nil)
}

// formEncoder: POST /api/bookings/{id}/status as a form.
type formEncoder struct{}

func (formEncoder) Name() string { return "form" }

func (formEncoder) NewRequest(ctx context.Context, baseURL, bookingID, rawStatus string) (*http.Request, error) {
	form := url.Values{"status": {rawStatus}}
	u := fmt.Sprintf("%s/api/bookings/%s/status", baseURL, url.PathEscape(bookingID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req, nil
}
