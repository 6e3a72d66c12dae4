package schedule

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aarogya-webinar/backend/internal/models"
)

// Repository handles the singleton webinar schedule record.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a schedule repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Get returns the schedule record, or nil if none has been saved yet.
func (r *Repository) Get(ctx context.Context) (*models.WebinarSchedule, error) {
	const q = `SELECT date, day, time, language, price, updated_at FROM webinar_schedule WHERE id = 1`
	var w models.WebinarSchedule
	err := r.pool.QueryRow(ctx, q).Scan(&w.Date, &w.Day, &w.Time, &w.Language, &w.Price, &w.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// Upsert creates the schedule record or overwrites it in place. The id = 1
// constraint makes this a single atomic statement, so concurrent admin saves
// cannot interleave a find-then-save race.
func (r *Repository) Upsert(ctx context.Context, w *models.WebinarSchedule) error {
	const q = `INSERT INTO webinar_schedule (id, date, day, time, language, price, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, NOW())
		ON CONFLICT (id) DO UPDATE SET
			date = EXCLUDED.date,
			day = EXCLUDED.day,
			time = EXCLUDED.time,
			language = EXCLUDED.language,
			price = EXCLUDED.price,
			updated_at = NOW()
		RETURNING updated_at`
	return r.pool.QueryRow(ctx, q, w.Date, w.Day, w.Time, w.Language, w.Price).Scan(&w.UpdatedAt)
}
