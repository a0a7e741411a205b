package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"install-scheduling-service/internal/domain"
	"install-scheduling-service/internal/ports"
)

// Postgres-backed implementation of the TimeSlotRepository port.
type PostgresTimeSlotRepository struct{ DB *sql.DB }

func NewPostgresTimeSlotRepository(db *sql.DB) *PostgresTimeSlotRepository {
	return &PostgresTimeSlotRepository{DB: db}
}

func (r *PostgresTimeSlotRepository) ListUpcoming(ctx context.Context, from time.Time) ([]*domain.TimeSlot, error) {
	if r.DB == nil {
		return nil, errors.New("time slot repository: DB is nil")
	}

	query := `
	SELECT slot_id, slot_date, start_minute, end_minute, available
	FROM time_slots
	WHERE slot_date + start_minute * interval '1 minute' >= $1
	ORDER BY slot_date, start_minute;
	`
	rows, err := r.DB.QueryContext(ctx, query, from)
	if err != nil {
		return nil, fmt.Errorf("list upcoming slots: query time_slots table: %w", err)
	}
	defer rows.Close()

	var slots []*domain.TimeSlot
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("list upcoming slots: %w", err)
		}
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list upcoming slots: row iteration: %w", err)
	}

	return slots, nil
}

func (r *PostgresTimeSlotRepository) SlotExists(ctx context.Context, date time.Time, startMinute int) (bool, error) {
	if r.DB == nil {
		return false, errors.New("time slot repository: DB is nil")
	}

	var exists bool
	err := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM time_slots WHERE slot_date = $1 AND start_minute = $2);`,
		date, startMinute).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("slot exists check: %w", err)
	}
	return exists, nil
}

// CreateSlot inserts with insert-or-ignore semantics against the unique
// (slot_date, start_minute) index, so concurrent inventory runs cannot
// produce duplicates.
func (r *PostgresTimeSlotRepository) CreateSlot(ctx context.Context, slot *domain.TimeSlot) error {
	if r.DB == nil {
		return errors.New("time slot repository: DB is nil")
	}

	_, err := r.DB.ExecContext(ctx, `
	INSERT INTO time_slots (slot_id, slot_date, start_minute, end_minute, available)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (slot_date, start_minute) DO NOTHING;`,
		slot.ID, slot.Date, slot.Window.StartMinute, slot.Window.EndMinute, slot.Available)
	if err != nil {
		return fmt.Errorf("create slot %q: %w", slot.ID, err)
	}
	return nil
}

func (r *PostgresTimeSlotRepository) NextAvailableAfter(ctx context.Context, after time.Time) (*domain.TimeSlot, error) {
	if r.DB == nil {
		return nil, errors.New("time slot repository: DB is nil")
	}

	row := r.DB.QueryRowContext(ctx, `
	SELECT slot_id, slot_date, start_minute, end_minute, available
	FROM time_slots
	WHERE available AND slot_date + start_minute * interval '1 minute' > $1
	ORDER BY slot_date, start_minute
	LIMIT 1;`, after)

	slot, err := scanSlot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("next available slot after %s: %w", after.Format(time.RFC3339), ports.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("next available slot: %w", err)
	}
	return slot, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSlot(row rowScanner) (*domain.TimeSlot, error) {
	slot := &domain.TimeSlot{}
	if err := row.Scan(&slot.ID, &slot.Date, &slot.Window.StartMinute, &slot.Window.EndMinute, &slot.Available); err != nil {
		return nil, err
	}
	return slot, nil
}
