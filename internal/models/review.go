package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReviewResponse is the property owner's reply to a review.
type ReviewResponse struct {
	Message     string             `bson:"message" json:"message"`
	RespondedAt time.Time          `bson:"responded_at" json:"respondedAt"`
	RespondedBy primitive.ObjectID `bson:"responded_by" json:"respondedBy"`
}

// Review is a renter's rating of a property. At most one review exists per
// (property, reviewer) pair, enforced the same way as inquiries. The helpful
// counter mirrors the size of HelpfulBy.
type Review struct {
	ID         primitive.ObjectID   `bson:"_id,omitempty" json:"id,omitempty"`
	PropertyID primitive.ObjectID   `bson:"property" json:"property"`
	ReviewerID primitive.ObjectID   `bson:"reviewer" json:"reviewer"`
	OwnerID    primitive.ObjectID   `bson:"owner" json:"owner"`
	Rating     int                  `bson:"rating" json:"rating"`
	Title      string               `bson:"title" json:"title"`
	Content    string               `bson:"content" json:"content"`
	Tags       []string             `bson:"tags" json:"tags"`
	Helpful    int                  `bson:"helpful" json:"helpful"`
	HelpfulBy  []primitive.ObjectID `bson:"helpful_by" json:"helpfulBy"`
	Verified   bool                 `bson:"verified" json:"verified"`
	Response   *ReviewResponse      `bson:"response,omitempty" json:"response,omitempty"`
	CreatedAt  time.Time            `bson:"created_at" json:"createdAt"`
	UpdatedAt  time.Time            `bson:"updated_at" json:"updatedAt"`
}

// HasHelpfulVote reports whether userID is in the helpful-voter set.
func (r *Review) HasHelpfulVote(userID primitive.ObjectID) bool {
	for _, id := range r.HelpfulBy {
		if id == userID {
			return true
		}
	}
	return false
}
