package models

import (
	"time"

	"github.com/google/uuid"
)

// TestimonialCategory discriminates the two independent testimonial collections.
type TestimonialCategory string

const (
	CategoryGeneral TestimonialCategory = "general"
	CategoryPCOS    TestimonialCategory = "pcos"
)

// Valid reports whether c is a known category.
func (c TestimonialCategory) Valid() bool {
	return c == CategoryGeneral || c == CategoryPCOS
}

// Testimonial is a customer review shown in the landing page carousel.
// PhotoURL is nil when no photo was uploaded.
type Testimonial struct {
	ID        uuid.UUID           `json:"id"`
	Category  TestimonialCategory `json:"category"`
	Name      string              `json:"name"`
	City      string              `json:"city"`
	Review    string              `json:"review"`
	PhotoURL  *string             `json:"photo,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}
