package models

import "time"

type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserUpdate is a partial update; empty fields are left untouched.
type UserUpdate struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}
