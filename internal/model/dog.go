package model

import "time"

// Dog represents one catalog entry. A dog may appear in any number of
// adoption records over its lifetime, though at most one is typically
// active.
type Dog struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Breed       string    `json:"breed"`
	IsAdoptable bool      `json:"is_adoptable"`
	CreatedAt   time.Time `json:"created_at"`
}
