package postgresql

import (
	"context"
	"fmt"

	"github.com/presencehq/presence-backend-go/internal/domain/schedule"
	"github.com/presencehq/presence-backend-go/internal/pkg/database"
)

type slotStore struct {
	db *database.DB
}

// SlotsForUser implements schedule.SlotStore.
func (r *slotStore) SlotsForUser(ctx context.Context, userID string) ([]schedule.Slot, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, day_of_week, period, start_time, end_time, created_at, updated_at
		FROM schedule_slots
		WHERE user_id = $1
		ORDER BY day_of_week, period
	`

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule slots: %w", err)
	}
	defer rows.Close()

	var slots []schedule.Slot
	for rows.Next() {
		var s schedule.Slot
		err := rows.Scan(
			&s.ID, &s.UserID, &s.DayOfWeek, &s.Period, &s.StartTime, &s.EndTime,
			&s.CreatedAt, &s.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan schedule slot: %w", err)
		}
		slots = append(slots, s)
	}

	return slots, nil
}

func NewSlotStore(db *database.DB) schedule.SlotStore {
	return &slotStore{db: db}
}
