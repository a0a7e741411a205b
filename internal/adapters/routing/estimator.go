package routing

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"install-scheduling-service/internal/adapters/cache"
	"install-scheduling-service/internal/domain"
	"install-scheduling-service/internal/metrics"
)

// Estimator implements ports.DistanceEstimator against an
// OpenRouteService-style directions endpoint.
//
// The external call is the primary path. On any transport error, non-2xx
// response or malformed payload the estimator degrades to the offline
// great-circle model, so an estimate is always produced and a slow or
// broken routing service can never stall a scheduling run beyond the
// per-call timeout.
//
// The estimator is safe for concurrent use.
type Estimator struct {
	session     *http.Client
	apiKey      string
	baseURL     string
	profile     string
	avgSpeedKmh float64
	cache       *cache.SQLTravelCache
	log         zerolog.Logger
}

type Config struct {
	APIKey      string
	BaseURL     string
	Profile     string
	Timeout     time.Duration
	AvgSpeedKmh float64
}

// NewEstimator builds the routing estimator. The travel cache is optional;
// pass nil to always hit the routing service.
func NewEstimator(cfg Config, travelCache *cache.SQLTravelCache, log zerolog.Logger) (*Estimator, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("routing estimator: api key is empty")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openrouteservice.org"
	}
	profile := cfg.Profile
	if profile == "" {
		profile = "driving-car"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	speed := cfg.AvgSpeedKmh
	if speed <= 0 {
		speed = DefaultAvgSpeedKmh
	}

	return &Estimator{
		session:     &http.Client{Timeout: timeout},
		apiKey:      cfg.APIKey,
		baseURL:     baseURL,
		profile:     profile,
		avgSpeedKmh: speed,
		cache:       travelCache,
		log:         log,
	}, nil
}

// Estimate returns travel distance and duration between two coordinate
// pairs. It never fails: estimation degradation is handled locally and is
// not an error.
func (e *Estimator) Estimate(ctx context.Context, from, to domain.Coordinates) domain.TravelEstimate {
	if e.cache != nil {
		if est, ok, err := e.cache.Get(ctx, from, to); err == nil && ok {
			return est
		} else if err != nil {
			e.log.Warn().Err(err).Msg("travel cache read failed")
		}
	}

	est, err := e.fetchDirections(ctx, from, to)
	if err != nil {
		e.log.Debug().Err(err).
			Float64("from_lat", from.Lat).Float64("from_lon", from.Lon).
			Float64("to_lat", to.Lat).Float64("to_lon", to.Lon).
			Msg("routing service unavailable, using offline estimate")
		metrics.RoutingFallbacks.Inc()
		return GreatCircle(from, to, e.avgSpeedKmh)
	}

	// Only routed results are worth caching; offline estimates are cheap
	// to recompute.
	if e.cache != nil {
		if err := e.cache.Put(ctx, from, to, est); err != nil {
			e.log.Warn().Err(err).Msg("travel cache write failed")
		}
	}
	return est
}
