package domain

import "time"

// Customer lifecycle is managed outside this service; rows are read-only here.
type Customer struct {
	ID        string    `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
