package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"install-scheduling-service/internal/domain"
)

// SQLTravelCache is a SQL-backed cache of routed travel estimates between
// coordinate pairs. Coordinates are keyed at five decimal places (about a
// meter of precision), which collapses jitter from repeated lookups of the
// same building.
type SQLTravelCache struct {
	DB *sql.DB
}

func NewSQLTravelCache(db *sql.DB) *SQLTravelCache {
	return &SQLTravelCache{DB: db}
}

func coordKey(c domain.Coordinates) string {
	return fmt.Sprintf("%.5f,%.5f", c.Lat, c.Lon)
}

// Get fetches a cached estimate for the pair, reporting whether one exists.
func (s *SQLTravelCache) Get(ctx context.Context, from, to domain.Coordinates) (domain.TravelEstimate, bool, error) {
	if s.DB == nil {
		return domain.TravelEstimate{}, false, errors.New("travel cache: db is nil")
	}

	q := `
	SELECT distance_km, duration_minutes
	FROM travel_cache
	WHERE origin = $1 AND destination = $2;
	`

	var est domain.TravelEstimate
	err := s.DB.QueryRowContext(ctx, q, coordKey(from), coordKey(to)).
		Scan(&est.DistanceKm, &est.DurationMinutes)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.TravelEstimate{}, false, nil
	}
	if err != nil {
		return domain.TravelEstimate{}, false, fmt.Errorf("get travel cache: query travel_cache table: %w", err)
	}

	return est, true, nil
}

// Put stores an estimate for the pair in both directions; routed travel is
// treated as symmetric by the engine.
func (s *SQLTravelCache) Put(ctx context.Context, from, to domain.Coordinates, est domain.TravelEstimate) error {
	if s.DB == nil {
		return errors.New("travel cache: db is nil")
	}

	origin, dest := coordKey(from), coordKey(to)
	q := `
	INSERT INTO travel_cache (origin, destination, distance_km, duration_minutes)
	VALUES ($1, $2, $3, $4), ($2, $1, $3, $4)
	ON CONFLICT (origin, destination) DO UPDATE
	SET distance_km = EXCLUDED.distance_km,
		duration_minutes = EXCLUDED.duration_minutes;
	`
	if origin == dest {
		// A self-pair would make the two rows conflict within one statement.
		q = `
	INSERT INTO travel_cache (origin, destination, distance_km, duration_minutes)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (origin, destination) DO UPDATE
	SET distance_km = EXCLUDED.distance_km,
		duration_minutes = EXCLUDED.duration_minutes;
	`
	}

	if _, err := s.DB.ExecContext(ctx, q, origin, dest, est.DistanceKm, est.DurationMinutes); err != nil {
		return fmt.Errorf("insert travel cache: %w", err)
	}
	return nil
}
