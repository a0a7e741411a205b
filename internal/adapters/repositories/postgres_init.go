package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"install-scheduling-service/internal/domain"
)

// InitSchema creates the service's tables. The unique index on
// (slot_date, start_minute) is what makes slot creation safe under
// concurrent callers: inserts are insert-or-ignore against it, so the
// check-then-act in the inventory can never produce duplicates.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	statements := []string{
		`CREATE TABLE IF NOT EXISTS buildings (
			building_id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			address TEXT NOT NULL,
			lon DOUBLE PRECISION NOT NULL DEFAULT 0,
			lat DOUBLE PRECISION NOT NULL DEFAULT 0,
			location_type TEXT NOT NULL DEFAULT 'hdb',
			access_start_minute INTEGER,
			access_end_minute INTEGER,
			overrides JSONB
		);`,
		`CREATE TABLE IF NOT EXISTS products (
			product_id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT 'general',
			install_minutes INTEGER NOT NULL,
			dismantle_minutes INTEGER NOT NULL DEFAULT 0,
			fragile BOOLEAN NOT NULL DEFAULT FALSE,
			team_required BOOLEAN NOT NULL DEFAULT FALSE,
			weight_kg DOUBLE PRECISION NOT NULL DEFAULT 0,
			volume_m3 DOUBLE PRECISION NOT NULL DEFAULT 0,
			height_cm INTEGER NOT NULL DEFAULT 0,
			upright_only BOOLEAN NOT NULL DEFAULT FALSE
		);`,
		`CREATE TABLE IF NOT EXISTS trucks (
			truck_id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			max_weight_kg DOUBLE PRECISION NOT NULL,
			max_volume_m3 DOUBLE PRECISION NOT NULL,
			height_cm INTEGER NOT NULL DEFAULT 0,
			covered BOOLEAN NOT NULL DEFAULT TRUE,
			available BOOLEAN NOT NULL DEFAULT TRUE
		);`,
		`CREATE TABLE IF NOT EXISTS orders (
			order_id TEXT PRIMARY KEY,
			status TEXT NOT NULL DEFAULT 'pending',
			building_id TEXT NOT NULL REFERENCES buildings(building_id),
			slot_id TEXT,
			sequence INTEGER NOT NULL DEFAULT 0,
			scheduled_start TIMESTAMPTZ,
			scheduled_end TIMESTAMPTZ,
			travel_minutes INTEGER NOT NULL DEFAULT 0,
			travel_km DOUBLE PRECISION NOT NULL DEFAULT 0,
			attempts INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS order_items (
			order_id TEXT NOT NULL REFERENCES orders(order_id),
			product_id TEXT NOT NULL REFERENCES products(product_id),
			quantity INTEGER NOT NULL DEFAULT 1,
			dismantle BOOLEAN NOT NULL DEFAULT FALSE
		);`,
		`CREATE TABLE IF NOT EXISTS time_slots (
			slot_id TEXT PRIMARY KEY,
			slot_date DATE NOT NULL,
			start_minute INTEGER NOT NULL,
			end_minute INTEGER NOT NULL,
			available BOOLEAN NOT NULL DEFAULT TRUE
		);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_time_slots_date_start
			ON time_slots(slot_date, start_minute);`,
		`CREATE TABLE IF NOT EXISTS travel_cache (
			origin TEXT NOT NULL,
			destination TEXT NOT NULL,
			distance_km DOUBLE PRECISION NOT NULL,
			duration_minutes INTEGER NOT NULL,
			PRIMARY KEY (origin, destination)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status);`,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type buildingSeed struct {
	BuildingID        string                      `json:"building_id"`
	Name              string                      `json:"name"`
	Address           string                      `json:"address"`
	Lon               float64                     `json:"lon"`
	Lat               float64                     `json:"lat"`
	LocationType      string                      `json:"location_type"`
	AccessStartMinute *int                        `json:"access_start_minute"`
	AccessEndMinute   *int                        `json:"access_end_minute"`
	Overrides         *domain.BuildingConstraints `json:"overrides"`
}

type productSeed struct {
	ProductID        string  `json:"product_id"`
	Name             string  `json:"name"`
	Category         string  `json:"category"`
	InstallMinutes   int     `json:"install_minutes"`
	DismantleMinutes int     `json:"dismantle_minutes"`
	Fragile          bool    `json:"fragile"`
	TeamRequired     bool    `json:"team_required"`
	WeightKg         float64 `json:"weight_kg"`
	VolumeM3         float64 `json:"volume_m3"`
	HeightCm         int     `json:"height_cm"`
	UprightOnly      bool    `json:"upright_only"`
}

type truckSeed struct {
	TruckID     string  `json:"truck_id"`
	Name        string  `json:"name"`
	MaxWeightKg float64 `json:"max_weight_kg"`
	MaxVolumeM3 float64 `json:"max_volume_m3"`
	HeightCm    int     `json:"height_cm"`
	Covered     bool    `json:"covered"`
}

type orderSeed struct {
	OrderID    string `json:"order_id"`
	BuildingID string `json:"building_id"`
	Items      []struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
		Dismantle bool   `json:"dismantle"`
	} `json:"items"`
}

type seedFile struct {
	Buildings []buildingSeed `json:"buildings"`
	Products  []productSeed  `json:"products"`
	Trucks    []truckSeed    `json:"trucks"`
	Orders    []orderSeed    `json:"orders"`
}

// SeedFromJSON populates reference data and pending orders from a JSON
// file, for local runs and demos. Existing rows are replaced.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed: read %q: %w", jsonPath, err)
	}

	var data seedFile
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("seed: parse json: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, b := range data.Buildings {
		if strings.TrimSpace(b.BuildingID) == "" {
			return fmt.Errorf("seed: building at index %d has empty id", i)
		}
		var overrides any
		if b.Overrides != nil {
			encoded, err := json.Marshal(b.Overrides)
			if err != nil {
				return fmt.Errorf("seed: building %q overrides: %w", b.BuildingID, err)
			}
			overrides = encoded
		}
		_, err := tx.Exec(`
			INSERT INTO buildings (building_id, name, address, lon, lat, location_type, access_start_minute, access_end_minute, overrides)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (building_id) DO UPDATE
			SET name = EXCLUDED.name, address = EXCLUDED.address, lon = EXCLUDED.lon, lat = EXCLUDED.lat,
				location_type = EXCLUDED.location_type, access_start_minute = EXCLUDED.access_start_minute,
				access_end_minute = EXCLUDED.access_end_minute, overrides = EXCLUDED.overrides;`,
			b.BuildingID, b.Name, b.Address, b.Lon, b.Lat, b.LocationType, b.AccessStartMinute, b.AccessEndMinute, overrides)
		if err != nil {
			return fmt.Errorf("seed: insert building %q: %w", b.BuildingID, err)
		}
	}

	for i, p := range data.Products {
		if strings.TrimSpace(p.ProductID) == "" {
			return fmt.Errorf("seed: product at index %d has empty id", i)
		}
		_, err := tx.Exec(`
			INSERT INTO products (product_id, name, category, install_minutes, dismantle_minutes, fragile, team_required, weight_kg, volume_m3, height_cm, upright_only)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			ON CONFLICT (product_id) DO UPDATE
			SET name = EXCLUDED.name, category = EXCLUDED.category, install_minutes = EXCLUDED.install_minutes,
				dismantle_minutes = EXCLUDED.dismantle_minutes, fragile = EXCLUDED.fragile,
				team_required = EXCLUDED.team_required, weight_kg = EXCLUDED.weight_kg,
				volume_m3 = EXCLUDED.volume_m3, height_cm = EXCLUDED.height_cm, upright_only = EXCLUDED.upright_only;`,
			p.ProductID, p.Name, p.Category, p.InstallMinutes, p.DismantleMinutes, p.Fragile,
			p.TeamRequired, p.WeightKg, p.VolumeM3, p.HeightCm, p.UprightOnly)
		if err != nil {
			return fmt.Errorf("seed: insert product %q: %w", p.ProductID, err)
		}
	}

	for i, t := range data.Trucks {
		if strings.TrimSpace(t.TruckID) == "" {
			return fmt.Errorf("seed: truck at index %d has empty id", i)
		}
		_, err := tx.Exec(`
			INSERT INTO trucks (truck_id, name, max_weight_kg, max_volume_m3, height_cm, covered)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (truck_id) DO UPDATE
			SET name = EXCLUDED.name, max_weight_kg = EXCLUDED.max_weight_kg,
				max_volume_m3 = EXCLUDED.max_volume_m3, height_cm = EXCLUDED.height_cm, covered = EXCLUDED.covered;`,
			t.TruckID, t.Name, t.MaxWeightKg, t.MaxVolumeM3, t.HeightCm, t.Covered)
		if err != nil {
			return fmt.Errorf("seed: insert truck %q: %w", t.TruckID, err)
		}
	}

	for i, o := range data.Orders {
		if strings.TrimSpace(o.OrderID) == "" {
			return fmt.Errorf("seed: order at index %d has empty id", i)
		}
		_, err := tx.Exec(`
			INSERT INTO orders (order_id, status, building_id)
			VALUES ($1, $2, $3)
			ON CONFLICT (order_id) DO NOTHING;`,
			o.OrderID, string(domain.OrderPending), o.BuildingID)
		if err != nil {
			return fmt.Errorf("seed: insert order %q: %w", o.OrderID, err)
		}
		if _, err := tx.Exec(`DELETE FROM order_items WHERE order_id = $1;`, o.OrderID); err != nil {
			return fmt.Errorf("seed: reset items for order %q: %w", o.OrderID, err)
		}
		for _, item := range o.Items {
			_, err := tx.Exec(`
				INSERT INTO order_items (order_id, product_id, quantity, dismantle)
				VALUES ($1, $2, $3, $4);`,
				o.OrderID, item.ProductID, item.Quantity, item.Dismantle)
			if err != nil {
				return fmt.Errorf("seed: insert item for order %q: %w", o.OrderID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed: commit tx: %w", err)
	}

	return nil
}
