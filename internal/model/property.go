package model

import "time"

// Property type closed set
const (
	PropertyTypeApartment = "apartment"
	PropertyTypeHouse     = "house"
	PropertyTypeDuplex    = "duplex"
	PropertyTypeRoom      = "room"
)

// IsValidPropertyType reports whether t is one of the known property types.
func IsValidPropertyType(t string) bool {
	switch t {
	case PropertyTypeApartment, PropertyTypeHouse, PropertyTypeDuplex, PropertyTypeRoom:
		return true
	}
	return false
}

// Property represents a rental property listing
type Property struct {
	ID           int64      `json:"id" db:"id"`
	LandlordID   *int64     `json:"landlord_id,omitempty" db:"landlord_id"`
	Title        string     `json:"title" db:"title"`
	Description  *string    `json:"description,omitempty" db:"description"`
	Area         string     `json:"area" db:"area"`
	Address      *string    `json:"address,omitempty" db:"address"`
	PropertyType string     `json:"property_type" db:"property_type"`
	Bedrooms     int        `json:"bedrooms" db:"bedrooms"`
	Bathrooms    int        `json:"bathrooms" db:"bathrooms"`
	RentPrice    float64    `json:"rent_price" db:"rent_price"` // Annual rent in Naira
	IsAvailable  bool       `json:"is_available" db:"is_available"`
	Latitude     *float64   `json:"latitude,omitempty" db:"latitude"`
	Longitude    *float64   `json:"longitude,omitempty" db:"longitude"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty" db:"updated_at"`

	// Eagerly attached relations (not columns of the properties table)
	Images   []PropertyImage  `json:"images"`
	Landlord *LandlordContact `json:"landlord,omitempty"`
}

// PropertyImage represents a photo attached to a property.
// Images are owned by their property and cascade-deleted with it.
type PropertyImage struct {
	ID         int64     `json:"id" db:"id"`
	PropertyID int64     `json:"property_id" db:"property_id"`
	ImageURL   string    `json:"image_url" db:"image_url"`
	IsPrimary  bool      `json:"is_primary" db:"is_primary"`
	UploadedAt time.Time `json:"uploaded_at" db:"uploaded_at"`
}

// LandlordContact is the contact subset of a User exposed on property payloads
type LandlordContact struct {
	FullName    string  `json:"full_name" db:"full_name"`
	PhoneNumber *string `json:"phone_number,omitempty" db:"phone_number"`
	Email       string  `json:"email" db:"email"`
}
