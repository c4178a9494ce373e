package models

import "time"

type Booking struct {
	ID        int64     `json:"id"`
	ItemID    int64     `json:"item_id"`
	BookerID  int64     `json:"booker_id"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BookingRequest is the caller-supplied payload for creating a booking.
// Start and End are pointers so absent timestamps are distinguishable
// from zero values. Status and BookerID are accepted on the wire but
// always overwritten by the service.
type BookingRequest struct {
	ItemID   int64      `json:"item_id"`
	Start    *time.Time `json:"start"`
	End      *time.Time `json:"end"`
	Status   string     `json:"status,omitempty"`
	BookerID int64      `json:"booker_id,omitempty"`
}

// BookingDetails embeds the resolved item and booker snapshots instead
// of referencing them by id.
type BookingDetails struct {
	ID     int64     `json:"id"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Status string    `json:"status"`
	Item   Item      `json:"item"`
	Booker User      `json:"booker"`
}
