package models

import "time"

// Design represents one textile design record owned by a user.
// Image holds the image reference: a base64 data URI, bare base64 payload,
// or an http(s) URL.
type Design struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	CatalogueID    string    `json:"catalogueId,omitempty"`
	CatalogueName  string    `json:"catalogueName,omitempty"`
	Name           string    `json:"name"`
	Image          string    `json:"image"`
	WholesalePrice float64   `json:"wholesalePrice"`
	RetailPrice    float64   `json:"retailPrice"`
	Fabric         string    `json:"fabric"`
	Description    string    `json:"description"`
	SourceRef      string    `json:"-"` // external import reference (e.g. Drive file ID)
	CreatedAt      time.Time `json:"createdAt"`
}

// DesignFilters are the optional query parameters for listing designs.
type DesignFilters struct {
	Fabric    string
	Catalogue string
	Search    string
	MinPrice  *float64
	MaxPrice  *float64
	SortBy    string // "newest" (default), "price-low", "price-high"
	Page      int
	Limit     int
}

// DesignUpdateRequest carries the mutable fields for a partial update.
// Nil pointers mean "leave unchanged".
type DesignUpdateRequest struct {
	Name           *string  `json:"name"`
	Image          *string  `json:"image"`
	WholesalePrice *float64 `json:"wholesalePrice"`
	RetailPrice    *float64 `json:"retailPrice"`
	Fabric         *string  `json:"fabric"`
	Description    *string  `json:"description"`
	CatalogueID    *string  `json:"catalogueId"`
}
