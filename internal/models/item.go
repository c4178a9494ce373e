package models

import "time"

type Item struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Available   bool      `json:"available"`
	OwnerID     int64     `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewItem is the creation payload. Available is a pointer so a missing
// flag can be told apart from an explicit false; nil is stored as false.
type NewItem struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   *bool  `json:"available"`
}

// ItemUpdate is a partial update; nil or empty fields are left untouched.
type ItemUpdate struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   *bool  `json:"available"`
}

// ItemDetails is an item annotated with its most recent past booking,
// its nearest future booking and the comments left on it. The booking
// slots are only filled for the item's owner.
type ItemDetails struct {
	Item
	LastBooking *Booking  `json:"last_booking,omitempty"`
	NextBooking *Booking  `json:"next_booking,omitempty"`
	Comments    []Comment `json:"comments"`
}
