package testimonials

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aarogya-webinar/backend/internal/models"
)

// ErrNotFound is returned when an id does not resolve to a testimonial in
// the requested collection.
var ErrNotFound = errors.New("testimonial not found")

// Repository handles testimonial persistence for both collections; the
// category column discriminates them.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a testimonial repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List returns all testimonials in a collection, newest first.
func (r *Repository) List(ctx context.Context, category models.TestimonialCategory) ([]models.Testimonial, error) {
	const q = `SELECT id, category, name, city, review, photo_url, created_at, updated_at
		FROM testimonials WHERE category = $1 ORDER BY created_at DESC, id DESC`
	rows, err := r.pool.Query(ctx, q, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Testimonial
	for rows.Next() {
		var t models.Testimonial
		if err := rows.Scan(&t.ID, &t.Category, &t.Name, &t.City, &t.Review, &t.PhotoURL, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// Create inserts a new testimonial.
func (r *Repository) Create(ctx context.Context, t *models.Testimonial) error {
	const q = `INSERT INTO testimonials (id, category, name, city, review, photo_url)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, t.Category, t.Name, t.City, t.Review, t.PhotoURL).
		Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

// Update replaces name, city and review; the photo is replaced only when
// photoURL is non-nil, else retained. Returns the updated record.
func (r *Repository) Update(ctx context.Context, category models.TestimonialCategory, id uuid.UUID, name, city, review string, photoURL *string) (*models.Testimonial, error) {
	const q = `UPDATE testimonials
		SET name = $1, city = $2, review = $3, photo_url = COALESCE($4, photo_url), updated_at = NOW()
		WHERE id = $5 AND category = $6
		RETURNING id, category, name, city, review, photo_url, created_at, updated_at`
	var t models.Testimonial
	err := r.pool.QueryRow(ctx, q, name, city, review, photoURL, id, category).
		Scan(&t.ID, &t.Category, &t.Name, &t.City, &t.Review, &t.PhotoURL, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Delete removes a testimonial by id within a collection, returning the
// photo URL it carried (nil when it had none) so the stored photo can be
// cleaned up.
func (r *Repository) Delete(ctx context.Context, category models.TestimonialCategory, id uuid.UUID) (*string, error) {
	const q = `DELETE FROM testimonials WHERE id = $1 AND category = $2 RETURNING photo_url`
	var photoURL *string
	err := r.pool.QueryRow(ctx, q, id, category).Scan(&photoURL)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return photoURL, nil
}
