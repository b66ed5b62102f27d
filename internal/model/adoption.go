package model

import "time"

// Adoption is the join entity recording a single association event
// between one Dog and one User. Responses never embed the full dog or
// user graph, so there is no cyclic expansion to guard against.
type Adoption struct {
	ID        int64     `json:"id"`
	DogID     int64     `json:"dog_id"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
