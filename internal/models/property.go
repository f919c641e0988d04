package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PropertyType is the kind of rentable unit.
type PropertyType string

const (
	PropertyTypeApartment PropertyType = "apartment"
	PropertyTypeHouse     PropertyType = "house"
	PropertyTypeRoom      PropertyType = "room"
	PropertyTypeStudio    PropertyType = "studio"
)

// ValidPropertyType reports whether s is one of the known property types.
func ValidPropertyType(s PropertyType) bool {
	switch s {
	case PropertyTypeApartment, PropertyTypeHouse, PropertyTypeRoom, PropertyTypeStudio:
		return true
	}
	return false
}

// PropertyStatus is the listing lifecycle status. Any status may be set from
// any other status by an authorized actor; there is no transition graph.
type PropertyStatus string

const (
	PropertyStatusAvailable PropertyStatus = "available"
	PropertyStatusRented    PropertyStatus = "rented"
	PropertyStatusPending   PropertyStatus = "pending"
	PropertyStatusInactive  PropertyStatus = "inactive"
)

// ValidPropertyStatus reports whether s is one of the known listing statuses.
func ValidPropertyStatus(s PropertyStatus) bool {
	switch s {
	case PropertyStatusAvailable, PropertyStatusRented, PropertyStatusPending, PropertyStatusInactive:
		return true
	}
	return false
}

// Coordinates is a lat/lng pair.
type Coordinates struct {
	Lat float64 `bson:"lat" json:"lat"`
	Lng float64 `bson:"lng" json:"lng"`
}

// Location is the address of a property.
type Location struct {
	Address     string       `bson:"address" json:"address"`
	City        string       `bson:"city" json:"city"`
	State       string       `bson:"state" json:"state"`
	ZipCode     string       `bson:"zip_code" json:"zipCode"`
	Coordinates *Coordinates `bson:"coordinates,omitempty" json:"coordinates,omitempty"`
}

// Image is a stored property photo.
type Image struct {
	URL       string `bson:"url" json:"url"`
	Caption   string `bson:"caption,omitempty" json:"caption,omitempty"`
	IsPrimary bool   `bson:"is_primary" json:"isPrimary"`
}

// Availability describes when and how long the property can be leased.
type Availability struct {
	AvailableFrom *time.Time `bson:"available_from,omitempty" json:"availableFrom,omitempty"`
	LeaseTerm     string     `bson:"lease_term,omitempty" json:"leaseTerm,omitempty"` // monthly, 6months, 1year, flexible
}

// Rules are the house rules set by the owner.
type Rules struct {
	PetsAllowed    bool `bson:"pets_allowed" json:"petsAllowed"`
	SmokingAllowed bool `bson:"smoking_allowed" json:"smokingAllowed"`
	MaxOccupants   int  `bson:"max_occupants,omitempty" json:"maxOccupants,omitempty"`
}

// Utilities describes which utilities the rent covers.
type Utilities struct {
	Included      []string `bson:"included,omitempty" json:"included,omitempty"`
	Excluded      []string `bson:"excluded,omitempty" json:"excluded,omitempty"`
	EstimatedCost float64  `bson:"estimated_cost,omitempty" json:"estimatedCost,omitempty"`
}

// Property represents a rental listing owned by exactly one user.
type Property struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Title        string             `bson:"title" json:"title"`
	Description  string             `bson:"description" json:"description"`
	Location     Location           `bson:"location" json:"location"`
	Price        float64            `bson:"price" json:"price"`
	Type         PropertyType       `bson:"type" json:"type"`
	Bedrooms     int                `bson:"bedrooms" json:"bedrooms"`
	Bathrooms    int                `bson:"bathrooms" json:"bathrooms"`
	Area         float64            `bson:"area" json:"area"`
	Images       []Image            `bson:"images" json:"images"`
	Amenities    []string           `bson:"amenities" json:"amenities"`
	OwnerID      primitive.ObjectID `bson:"owner" json:"owner"`
	Status       PropertyStatus     `bson:"status" json:"status"`
	Featured     bool               `bson:"featured" json:"featured"`
	Views        int64              `bson:"views" json:"views"`
	Availability *Availability      `bson:"availability,omitempty" json:"availability,omitempty"`
	Rules        *Rules             `bson:"rules,omitempty" json:"rules,omitempty"`
	Utilities    *Utilities         `bson:"utilities,omitempty" json:"utilities,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updatedAt"`
}
