package models

import "time"

// Product statuses.
const (
	ProductStatusNew         = "new"
	ProductStatusLikeNew     = "like-new"
	ProductStatusRefurbished = "refurbished"
	ProductStatusSecondhand  = "secondhand"
)

// ProductStatuses lists every accepted status value.
var ProductStatuses = []string{
	ProductStatusNew,
	ProductStatusLikeNew,
	ProductStatusRefurbished,
	ProductStatusSecondhand,
}

// Product is a marketplace listing owned by UserID.
type Product struct {
	ID          string
	UserID      string
	Name        string
	Description string
	// Price is kept as the decimal string stored in NUMERIC(12,2).
	Price           string
	Quantity        int
	Location        string
	Status          string
	PreviewImageURL string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Owner is populated only by detail lookups.
	Owner *ProductOwner
}

// ProductOwner is the public part of the owning user shown with details.
type ProductOwner struct {
	UserName  string
	CreatedAt time.Time
}

// ProductFields are the user-editable attributes of a product.
type ProductFields struct {
	Name        string
	Description string
	Price       string
	Quantity    int
	Location    string
	Status      string
}

// ProductFilter narrows product listings. Empty fields are ignored.
type ProductFilter struct {
	Search   string
	UserName string
}
