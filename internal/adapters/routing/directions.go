package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"

	"install-scheduling-service/internal/domain"
)

type directionsResponse struct {
	Features []struct {
		Properties struct {
			Summary struct {
				Distance float64 `json:"distance"` // meters
				Duration float64 `json:"duration"` // seconds
			} `json:"summary"`
		} `json:"properties"`
	} `json:"features"`
}

// fetchDirections asks the routing service for the driving distance and
// duration between two points. Only the first route's summary is used.
func (e *Estimator) fetchDirections(ctx context.Context, from, to domain.Coordinates) (domain.TravelEstimate, error) {
	endpoint := fmt.Sprintf("%s/v2/directions/%s", e.baseURL, e.profile)

	makeReq := func() (*http.Request, error) {
		req, err := e.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("start", fmt.Sprintf("%f,%f", from.Lon, from.Lat))
		q.Set("end", fmt.Sprintf("%f,%f", to.Lon, to.Lat))
		req.URL.RawQuery = q.Encode()
		return req, nil
	}

	resp, err := e.doWithRetry(ctx, makeReq)
	if err != nil {
		return domain.TravelEstimate{}, fmt.Errorf("directions request: %w", err)
	}
	defer resp.Body.Close()

	var decoded directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.TravelEstimate{}, fmt.Errorf("decode directions response: %w", err)
	}

	if len(decoded.Features) == 0 {
		return domain.TravelEstimate{}, errors.New("directions response has no routes")
	}

	summary := decoded.Features[0].Properties.Summary
	if summary.Distance < 0 || summary.Duration < 0 {
		return domain.TravelEstimate{}, fmt.Errorf(
			"directions response has invalid metrics: distance=%f duration=%f",
			summary.Distance, summary.Duration,
		)
	}

	return domain.TravelEstimate{
		DistanceKm:      summary.Distance / 1000,
		DurationMinutes: int(math.Ceil(summary.Duration / 60)),
	}, nil
}
