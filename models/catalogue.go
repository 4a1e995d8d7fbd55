package models

import "time"

// Catalogue groups designs under a name, per user.
type Catalogue struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}
