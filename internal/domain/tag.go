package domain

import "time"

// Tag is an admin-defined label applied to thread messages for later
// retrieval and export. Name uniqueness is the caller's job; the store
// itself only knows ids.
type Tag struct {
	ID        string    `json:"id" bson:"id"`
	Name      string    `json:"name" bson:"name"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}
