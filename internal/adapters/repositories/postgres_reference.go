package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"install-scheduling-service/internal/domain"
	"install-scheduling-service/internal/ports"
)

// Postgres-backed reference data: buildings, products and trucks. All
// reads only; this data is owned by external administrative processes.
type PostgresReferenceRepository struct{ DB *sql.DB }

func NewPostgresReferenceRepository(db *sql.DB) *PostgresReferenceRepository {
	return &PostgresReferenceRepository{DB: db}
}

func (r *PostgresReferenceRepository) GetBuilding(ctx context.Context, buildingID string) (*domain.Building, error) {
	if r.DB == nil {
		return nil, errors.New("reference repository: DB is nil")
	}

	query := `
	SELECT building_id, name, address, lon, lat, location_type, access_start_minute, access_end_minute, overrides
	FROM buildings
	WHERE building_id = $1;
	`

	b := &domain.Building{}
	var (
		locationType         string
		accessStart, accessEnd sql.NullInt64
		overrides            []byte
	)
	err := r.DB.QueryRowContext(ctx, query, buildingID).Scan(
		&b.ID, &b.Name, &b.Address, &b.Location.Lon, &b.Location.Lat,
		&locationType, &accessStart, &accessEnd, &overrides)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get building %q: %w", buildingID, ports.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get building %q: %w", buildingID, err)
	}

	b.Type = domain.LocationType(locationType)
	if accessStart.Valid && accessEnd.Valid {
		b.Access = &domain.DayWindow{
			StartMinute: int(accessStart.Int64),
			EndMinute:   int(accessEnd.Int64),
		}
	}
	if len(overrides) > 0 {
		var c domain.BuildingConstraints
		if err := json.Unmarshal(overrides, &c); err != nil {
			return nil, fmt.Errorf("get building %q: parse overrides: %w", buildingID, err)
		}
		b.Overrides = &c
	}

	return b, nil
}

func (r *PostgresReferenceRepository) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	if r.DB == nil {
		return nil, errors.New("reference repository: DB is nil")
	}

	query := `
	SELECT product_id, name, category, install_minutes, dismantle_minutes, fragile, team_required, weight_kg, volume_m3, height_cm, upright_only
	FROM products
	WHERE product_id = $1;
	`

	p := &domain.Product{}
	var category string
	err := r.DB.QueryRowContext(ctx, query, productID).Scan(
		&p.ID, &p.Name, &category, &p.InstallMinutes, &p.DismantleMinutes,
		&p.Fragile, &p.TeamRequired, &p.WeightKg, &p.VolumeM3, &p.HeightCm, &p.UprightOnly)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get product %q: %w", productID, ports.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get product %q: %w", productID, err)
	}

	p.Category = domain.ProductCategory(category)
	return p, nil
}

func (r *PostgresReferenceRepository) ListAvailable(ctx context.Context) ([]*domain.Truck, error) {
	if r.DB == nil {
		return nil, errors.New("reference repository: DB is nil")
	}

	query := `
	SELECT truck_id, name, max_weight_kg, max_volume_m3, height_cm, covered
	FROM trucks
	WHERE available
	ORDER BY truck_id;
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list available trucks: query trucks table: %w", err)
	}
	defer rows.Close()

	var trucks []*domain.Truck
	for rows.Next() {
		t := &domain.Truck{}
		if err := rows.Scan(&t.ID, &t.Name, &t.MaxWeightKg, &t.MaxVolumeM3, &t.HeightCm, &t.Covered); err != nil {
			return nil, fmt.Errorf("list available trucks: scan row: %w", err)
		}
		trucks = append(trucks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list available trucks: row iteration: %w", err)
	}

	return trucks, nil
}
