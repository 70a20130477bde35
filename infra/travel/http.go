package travel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fleetops/routeplan/core/model"
	coretravel "github.com/fleetops/routeplan/core/travel"
	"github.com/fleetops/routeplan/infra/logger"
)

// Config describes the external distance-matrix service.
type Config struct {
	// BaseURL of the distance-matrix endpoint.
	BaseURL string `json:"base_url"`
	// APIKey passed as the key query parameter.
	APIKey string `json:"api_key"`
	// TimeoutSeconds bounds one lookup round-trip.
	TimeoutSeconds int `json:"timeout_seconds"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 10
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	return nil
}

// HTTPEstimator resolves per-leg distance and duration from a distance-matrix
// HTTP API. Lookups happen one leg at a time in route order; transient
// failures (5xx, 429, network errors) are retried with exponential backoff,
// anything else surfaces immediately as a LookupError.
type HTTPEstimator struct {
	cfg     Config
	session *http.Client
	log     logger.Logger
}

// NewHTTPEstimator creates an estimator for the configured endpoint.
func NewHTTPEstimator(cfg Config) *HTTPEstimator {
	cfg.SetDefaults()
	return &HTTPEstimator{
		cfg:     cfg,
		session: &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		log:     logger.New("travel-http"),
	}
}

// matrixResponse is the subset of the service response the estimator reads.
type matrixResponse struct {
	Rows []struct {
		Elements []struct {
			Status   string `json:"status"`
			Distance struct {
				Value int `json:"value"` // meters
			} `json:"distance"`
			Duration struct {
				Value int `json:"value"` // seconds
			} `json:"duration"`
		} `json:"elements"`
	} `json:"rows"`
}

// Leg implements travel.Estimator.
func (e *HTTPEstimator) Leg(ctx context.Context, from, to model.Location) (coretravel.Leg, error) {
	q := url.Values{}
	q.Set("units", "metric")
	q.Set("origins", fmt.Sprintf("%f,%f", from.Lat, from.Lon))
	q.Set("destinations", fmt.Sprintf("%f,%f", to.Lat, to.Lon))
	if e.cfg.APIKey != "" {
		q.Set("key", e.cfg.APIKey)
	}
	reqURL := e.cfg.BaseURL + "?" + q.Encode()

	body, err := e.getWithRetry(ctx, reqURL)
	if err != nil {
		return coretravel.Leg{}, &coretravel.LookupError{From: from, To: to, Err: err}
	}

	var mr matrixResponse
	if err := json.Unmarshal(body, &mr); err != nil {
		return coretravel.Leg{}, &coretravel.LookupError{From: from, To: to, Err: fmt.Errorf("decode response: %w", err)}
	}
	if len(mr.Rows) == 0 || len(mr.Rows[0].Elements) == 0 {
		return coretravel.Leg{}, &coretravel.LookupError{From: from, To: to, Err: errors.New("empty matrix response")}
	}
	el := mr.Rows[0].Elements[0]
	if el.Status != "" && el.Status != "OK" {
		return coretravel.Leg{}, &coretravel.LookupError{From: from, To: to, Err: fmt.Errorf("element status %s", el.Status)}
	}
	return coretravel.Leg{
		DistanceKm: float64(el.Distance.Value) / 1000,
		Minutes:    (el.Duration.Value + 30) / 60,
	}, nil
}

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Code, e.Body)
}

// getWithRetry fetches the URL, retrying transient failures with exponential
// backoff while respecting context cancellation.
func (e *HTTPEstimator) getWithRetry(ctx context.Context, reqURL string) ([]byte, error) {
	const maxAttempts = 3
	backoff := 200 * time.Millisecond

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		body, err := e.get(ctx, reqURL)
		if err == nil {
			return body, nil
		}
		lastErr = err

		retry := false
		var he *httpStatusError
		if errors.As(err, &he) {
			switch he.Code {
			case http.StatusTooManyRequests,
				http.StatusInternalServerError,
				http.StatusBadGateway,
				http.StatusServiceUnavailable,
				http.StatusGatewayTimeout:
				retry = true
			}
		}
		var netErr net.Error
		if !retry && errors.As(err, &netErr) {
			retry = true
		}
		if !retry || attempt == maxAttempts {
			return nil, lastErr
		}

		e.log.Warnf("travel lookup attempt %d failed, retrying: %v", attempt, err)
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		backoff *= 2
	}
	return nil, lastErr
}

func (e *HTTPEstimator) get(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := e.session.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, &httpStatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	return b, nil
}
