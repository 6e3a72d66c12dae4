package bookings

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aarogya-webinar/backend/internal/models"
)

// ErrNotFound is returned when a booking id does not resolve to a record.
var ErrNotFound = errors.New("booking not found")

const bookingColumns = `id, name, email, phone, session_type, scheduled_at, whatsapp_group_link,
		paid, razorpay_order_id, razorpay_payment_id, paid_at, created_at, updated_at`

// Repository handles booking persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a booking repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new booking with paid = false.
func (r *Repository) Create(ctx context.Context, b *models.Booking) error {
	const q = `INSERT INTO bookings (id, name, email, phone, session_type, scheduled_at, whatsapp_group_link, razorpay_order_id)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7)
		RETURNING id, paid, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, b.Name, b.Email, b.Phone, b.SessionType, b.ScheduledAt, b.WhatsAppGroupLink, b.RazorpayOrderID).
		Scan(&b.ID, &b.Paid, &b.CreatedAt, &b.UpdatedAt)
}

// GetByID returns a booking by id.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	b, err := r.scanOne(r.pool.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return b, err
}

// List returns all bookings ordered by scheduled date.
func (r *Repository) List(ctx context.Context) ([]models.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings ORDER BY scheduled_at ASC, created_at ASC`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Booking
	for rows.Next() {
		var b models.Booking
		if err := rows.Scan(&b.ID, &b.Name, &b.Email, &b.Phone, &b.SessionType, &b.ScheduledAt, &b.WhatsAppGroupLink,
			&b.Paid, &b.RazorpayOrderID, &b.RazorpayPaymentID, &b.PaidAt, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

// MarkPaid flips paid false -> true, recording the payment id when supplied.
// The WHERE paid = FALSE guard enforces the exactly-once transition: a booking
// already paid is returned unchanged with changed = false.
func (r *Repository) MarkPaid(ctx context.Context, id uuid.UUID, paymentID string) (b *models.Booking, changed bool, err error) {
	const q = `UPDATE bookings
		SET paid = TRUE,
			razorpay_payment_id = CASE WHEN $2 = '' THEN razorpay_payment_id ELSE $2 END,
			paid_at = NOW(),
			updated_at = NOW()
		WHERE id = $1 AND paid = FALSE
		RETURNING ` + bookingColumns
	b, err = r.scanOne(r.pool.QueryRow(ctx, q, id, paymentID))
	if err == nil {
		return b, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, err
	}
	// Either unknown id or already paid; GetByID tells which.
	b, err = r.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return b, false, nil
}

func (r *Repository) scanOne(row pgx.Row) (*models.Booking, error) {
	var b models.Booking
	err := row.Scan(&b.ID, &b.Name, &b.Email, &b.Phone, &b.SessionType, &b.ScheduledAt, &b.WhatsAppGroupLink,
		&b.Paid, &b.RazorpayOrderID, &b.RazorpayPaymentID, &b.PaidAt, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
