package models

import "time"

// DefaultWebinarPrice is used when an admin submits a missing or non-numeric price.
const DefaultWebinarPrice = 99

// WebinarSchedule is the single upcoming-session record shown on the landing page.
// At most one row exists; admin saves overwrite it in place.
type WebinarSchedule struct {
	Date      string    `json:"date"`
	Day       string    `json:"day"`
	Time      string    `json:"time"`
	Language  string    `json:"language"`
	Price     int       `json:"price"`
	UpdatedAt time.Time `json:"updated_at"`
}
