package models

import (
	"time"

	"github.com/google/uuid"
)

// Booking is a consult/webinar seat booked from the public site.
// Paid transitions false -> true exactly once, either via the admin-gated
// trusted update or via signature-verified payment confirmation.
type Booking struct {
	ID                uuid.UUID  `json:"id"`
	Name              string     `json:"name"`
	Email             string     `json:"email"`
	Phone             string     `json:"phone"`
	SessionType       string     `json:"session_type"`
	ScheduledAt       time.Time  `json:"scheduled_at"`
	WhatsAppGroupLink string     `json:"whatsapp_group_link,omitempty"`
	Paid              bool       `json:"paid"`
	RazorpayOrderID   string     `json:"razorpay_order_id,omitempty"`
	RazorpayPaymentID string     `json:"razorpay_payment_id,omitempty"`
	PaidAt            *time.Time `json:"paid_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}
