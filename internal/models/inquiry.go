package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InquiryStatus is the lifecycle status of an inquiry. As with property
// statuses, any value may be set from any other by an authorized actor.
type InquiryStatus string

const (
	InquiryStatusNew       InquiryStatus = "new"
	InquiryStatusRead      InquiryStatus = "read"
	InquiryStatusResponded InquiryStatus = "responded"
	InquiryStatusClosed    InquiryStatus = "closed"
)

// ValidInquiryStatus reports whether s is one of the known inquiry statuses.
func ValidInquiryStatus(s InquiryStatus) bool {
	switch s {
	case InquiryStatusNew, InquiryStatusRead, InquiryStatusResponded, InquiryStatusClosed:
		return true
	}
	return false
}

// ContactInfo is the reply contact the renter provided with the inquiry.
type ContactInfo struct {
	Email string `bson:"email,omitempty" json:"email,omitempty"`
	Phone string `bson:"phone,omitempty" json:"phone,omitempty"`
}

// InquiryResponse is the owner's reply embedded in the inquiry.
type InquiryResponse struct {
	Message     string    `bson:"message" json:"message"`
	RespondedAt time.Time `bson:"responded_at" json:"respondedAt"`
}

// Inquiry is a renter's message about a property, addressed to its owner.
// At most one inquiry exists per (property, renter) pair; the uniqueness is
// enforced by a pre-insert existence check, not a storage constraint.
type Inquiry struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	PropertyID       primitive.ObjectID `bson:"property" json:"property"`
	RenterID         primitive.ObjectID `bson:"renter" json:"renter"`
	OwnerID          primitive.ObjectID `bson:"owner" json:"owner"`
	Message          string             `bson:"message" json:"message"`
	ContactInfo      *ContactInfo       `bson:"contact_info,omitempty" json:"contactInfo,omitempty"`
	Status           InquiryStatus      `bson:"status" json:"status"`
	Response         *InquiryResponse   `bson:"response,omitempty" json:"response,omitempty"`
	ViewingScheduled bool               `bson:"viewing_scheduled" json:"viewingScheduled"`
	ViewingDate      *time.Time         `bson:"viewing_date,omitempty" json:"viewingDate,omitempty"`
	CreatedAt        time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updated_at" json:"updatedAt"`
}
