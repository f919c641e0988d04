package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role defines the access level of a user account.
type Role string

const (
	RoleRenter Role = "renter"
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
)

// ValidRole reports whether s is one of the known roles.
func ValidRole(s Role) bool {
	switch s {
	case RoleRenter, RoleOwner, RoleAdmin:
		return true
	}
	return false
}

// UserStatus is the lifecycle status of an account.
type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusPending   UserStatus = "pending"
	UserStatusSuspended UserStatus = "suspended"
)

// ValidUserStatus reports whether s is one of the known account statuses.
func ValidUserStatus(s UserStatus) bool {
	switch s {
	case UserStatusActive, UserStatusPending, UserStatusSuspended:
		return true
	}
	return false
}

// RenterPreferences holds a renter's saved search preferences.
type RenterPreferences struct {
	MaxRent            float64  `bson:"max_rent,omitempty" json:"maxRent,omitempty"`
	PreferredLocations []string `bson:"preferred_locations,omitempty" json:"preferredLocations,omitempty"`
	PropertyTypes      []string `bson:"property_types,omitempty" json:"propertyTypes,omitempty"`
}

// Profile holds optional free-form profile data.
type Profile struct {
	Bio         string             `bson:"bio,omitempty" json:"bio,omitempty"`
	Occupation  string             `bson:"occupation,omitempty" json:"occupation,omitempty"`
	Preferences *RenterPreferences `bson:"preferences,omitempty" json:"preferences,omitempty"`
}

// User represents a marketplace account.
type User struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id,omitempty"`
	FirstName    string               `bson:"first_name" json:"firstName"`
	LastName     string               `bson:"last_name" json:"lastName"`
	Email        string               `bson:"email" json:"email"`
	PasswordHash string               `bson:"password" json:"-"`
	Phone        string               `bson:"phone" json:"phone"`
	Role         Role                 `bson:"role" json:"role"`
	Avatar       string               `bson:"avatar,omitempty" json:"avatar,omitempty"`
	IsVerified   bool                 `bson:"is_verified" json:"isVerified"`
	Status       UserStatus           `bson:"status" json:"status"`
	Profile      *Profile             `bson:"profile,omitempty" json:"profile,omitempty"`
	Favorites    []primitive.ObjectID `bson:"favorites" json:"favorites"`
	CreatedAt    time.Time            `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time            `bson:"updated_at" json:"updatedAt"`
}
