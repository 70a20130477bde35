package travel

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetops/routeplan/core/model"
	coretravel "github.com/fleetops/routeplan/core/travel"
)

func matrixBody(meters, seconds int) string {
	return fmt.Sprintf(`{"rows":[{"elements":[{"status":"OK","distance":{"value":%d},"duration":{"value":%d}}]}]}`, meters, seconds)
}

func TestHTTPEstimatorLeg(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		fmt.Fprint(w, matrixBody(12500, 900))
	}))
	defer srv.Close()

	est := NewHTTPEstimator(Config{BaseURL: srv.URL, APIKey: "secret"})
	leg, err := est.Leg(context.Background(), model.Location{Lat: 28.7, Lon: 77.1}, model.Location{Lat: 28.6, Lon: 77.2})
	require.NoError(t, err)
	assert.Equal(t, 12.5, leg.DistanceKm)
	assert.Equal(t, 15, leg.Minutes)

	assert.Equal(t, []string{"metric"}, gotQuery["units"])
	assert.Equal(t, []string{"secret"}, gotQuery["key"])
	require.Len(t, gotQuery["origins"], 1)
	assert.Contains(t, gotQuery["origins"][0], "28.7")
}

func TestHTTPEstimatorRoundsSeconds(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 89 s rounds to 1 min, 90 s would round to 2.
		fmt.Fprint(w, matrixBody(1000, 89))
	}))
	defer srv.Close()

	est := NewHTTPEstimator(Config{BaseURL: srv.URL})
	leg, err := est.Leg(context.Background(), model.Location{}, model.Location{})
	require.NoError(t, err)
	assert.Equal(t, 1, leg.Minutes)
}

func TestHTTPEstimatorRetriesTransientFailures(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, matrixBody(5000, 300))
	}))
	defer srv.Close()

	est := NewHTTPEstimator(Config{BaseURL: srv.URL})
	leg, err := est.Leg(context.Background(), model.Location{}, model.Location{})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, 5.0, leg.DistanceKm)
}

func TestHTTPEstimatorGivesUpAfterMaxAttempts(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	est := NewHTTPEstimator(Config{BaseURL: srv.URL})
	_, err := est.Leg(context.Background(), model.Location{}, model.Location{})
	require.Error(t, err)
	assert.Equal(t, 3, attempts)

	var le *coretravel.LookupError
	require.True(t, errors.As(err, &le))
}

func TestHTTPEstimatorNoRetryOnClientError(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	est := NewHTTPEstimator(Config{BaseURL: srv.URL})
	_, err := est.Leg(context.Background(), model.Location{}, model.Location{})
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestHTTPEstimatorElementStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"rows":[{"elements":[{"status":"ZERO_RESULTS"}]}]}`)
	}))
	defer srv.Close()

	est := NewHTTPEstimator(Config{BaseURL: srv.URL})
	_, err := est.Leg(context.Background(), model.Location{}, model.Location{})
	var le *coretravel.LookupError
	require.True(t, errors.As(err, &le))
	assert.Contains(t, err.Error(), "ZERO_RESULTS")
}

func TestHTTPEstimatorEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"rows":[]}`)
	}))
	defer srv.Close()

	est := NewHTTPEstimator(Config{BaseURL: srv.URL})
	_, err := est.Leg(context.Background(), model.Location{}, model.Location{})
	require.Error(t, err)
}

func TestConfigDefaultsAndValidate(t *testing.T) {
	var c Config
	c.SetDefaults()
	assert.Equal(t, 10, c.TimeoutSeconds)
	assert.Error(t, c.Validate())
	c.BaseURL = "http://example.com"
	assert.NoError(t, c.Validate())
}
