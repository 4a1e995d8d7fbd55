package models

import "time"

// User is an account owning designs, catalogues, and groups.
// FirmName, when set, is rendered into branded images.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name,omitempty"`
	FirmName     string    `json:"firmName,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
