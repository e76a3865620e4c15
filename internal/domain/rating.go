package domain

import "time"

// Rating is unique per (user, product); submitting again overwrites the
// previous value and review.
type Rating struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	UserID    string    `json:"user_id"`
	Value     int       `json:"value"`
	Review    string    `json:"review,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// RatingSummary is derived, never stored. Average is 0 when no ratings
// exist.
type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

type WishlistEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ProductID string    `json:"product_id"`
	AddedAt   time.Time `json:"added_at"`
}

type ViewRecord struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ProductID string    `json:"product_id"`
	ViewedAt  time.Time `json:"viewed_at"`
}
