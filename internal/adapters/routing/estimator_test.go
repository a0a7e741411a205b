package routing

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"

	"install-scheduling-service/internal/domain"
)

func directionsPayload(meters, seconds float64) string {
	return fmt.Sprintf(
		`{"features":[{"properties":{"summary":{"distance":%f,"duration":%f}}}]}`,
		meters, seconds,
	)
}

func newTestEstimator(t *testing.T, baseURL string) *Estimator {
	t.Helper()
	e, err := NewEstimator(Config{APIKey: "test-key", BaseURL: baseURL}, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return e
}

func TestNewEstimatorRequiresAPIKey(t *testing.T) {
	if _, err := NewEstimator(Config{}, nil, zerolog.Nop()); err == nil {
		t.Fatal("expected error for empty api key")
	}
}

func TestEstimateUsesRoutedResult(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Query().Get("start") == "" || r.URL.Query().Get("end") == "" {
			t.Errorf("missing start/end query params: %s", r.URL.RawQuery)
		}
		fmt.Fprint(w, directionsPayload(12500, 1500))
	}))
	defer srv.Close()

	e := newTestEstimator(t, srv.URL)
	got := e.Estimate(context.Background(),
		domain.Coordinates{Lon: 103.82, Lat: 1.35},
		domain.Coordinates{Lon: 103.99, Lat: 1.36})

	if gotAuth != "test-key" {
		t.Fatalf("expected api key header, got %q", gotAuth)
	}
	if got.DistanceKm != 12.5 {
		t.Fatalf("expected 12.5km, got %f", got.DistanceKm)
	}
	if got.DurationMinutes != 25 {
		t.Fatalf("expected 25 minutes, got %d", got.DurationMinutes)
	}
}

func TestEstimateRoundsDurationUp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, directionsPayload(1000, 61))
	}))
	defer srv.Close()

	e := newTestEstimator(t, srv.URL)
	got := e.Estimate(context.Background(),
		domain.Coordinates{Lon: 103.82, Lat: 1.35},
		domain.Coordinates{Lon: 103.99, Lat: 1.36})

	if got.DurationMinutes != 2 {
		t.Fatalf("expected 61s to round up to 2 minutes, got %d", got.DurationMinutes)
	}
}

func TestEstimateFallsBackOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	from := domain.Coordinates{Lon: 103.82, Lat: 1.35}
	to := domain.Coordinates{Lon: 103.99, Lat: 1.36}

	e := newTestEstimator(t, srv.URL)
	got := e.Estimate(context.Background(), from, to)
	want := GreatCircle(from, to, DefaultAvgSpeedKmh)

	if got != want {
		t.Fatalf("expected offline fallback %+v, got %+v", want, got)
	}
}

func TestEstimateFallsBackOnEmptyRoutes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"features":[]}`)
	}))
	defer srv.Close()

	from := domain.Coordinates{Lon: 103.82, Lat: 1.35}
	to := domain.Coordinates{Lon: 103.99, Lat: 1.36}

	e := newTestEstimator(t, srv.URL)
	got := e.Estimate(context.Background(), from, to)
	want := GreatCircle(from, to, DefaultAvgSpeedKmh)

	if got != want {
		t.Fatalf("expected offline fallback %+v, got %+v", want, got)
	}
}

func TestEstimateRetriesTransientFailure(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "try later", http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, directionsPayload(3000, 600))
	}))
	defer srv.Close()

	e := newTestEstimator(t, srv.URL)
	got := e.Estimate(context.Background(),
		domain.Coordinates{Lon: 103.82, Lat: 1.35},
		domain.Coordinates{Lon: 103.99, Lat: 1.36})

	if calls.Load() != 2 {
		t.Fatalf("expected 2 attempts, got %d", calls.Load())
	}
	if got.DistanceKm != 3 || got.DurationMinutes != 10 {
		t.Fatalf("unexpected estimate after retry: %+v", got)
	}
}

func TestStaticEstimatorScriptedAndFallback(t *testing.T) {
	a := domain.Coordinates{Lon: 103.82, Lat: 1.35}
	b := domain.Coordinates{Lon: 103.99, Lat: 1.36}
	c := domain.Coordinates{Lon: 103.70, Lat: 1.34}

	s := NewStaticEstimator([]StaticPair{{From: a, To: b, Km: 15, Minutes: 28}})

	if got := s.Estimate(context.Background(), a, b); got.DurationMinutes != 28 {
		t.Fatalf("expected scripted 28 minutes, got %d", got.DurationMinutes)
	}
	if got := s.Estimate(context.Background(), b, a); got.DurationMinutes != 28 {
		t.Fatalf("expected reverse lookup to hit, got %d", got.DurationMinutes)
	}

	want := GreatCircle(a, c, DefaultAvgSpeedKmh)
	if got := s.Estimate(context.Background(), a, c); got != want {
		t.Fatalf("expected fallback %+v, got %+v", want, got)
	}
}
