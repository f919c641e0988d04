package auth

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"househunt/api/internal/models"
)

// Identity is the resolved caller derived from a validated credential.
// It is passed explicitly to every guarded operation; handlers obtain it
// from the identity middleware, services never reach into request state.
type Identity struct {
	UserID primitive.ObjectID
	Role   models.Role
}

// IsAdmin reports whether the identity has the admin role.
func (id Identity) IsAdmin() bool {
	return id.Role == models.RoleAdmin
}

// IsSelfOrAdmin reports whether the identity is the given user or an admin.
// Gates profile and stats reads.
func (id Identity) IsSelfOrAdmin(userID primitive.ObjectID) bool {
	return id.UserID == userID || id.IsAdmin()
}

// IsOwnerOrAdmin reports whether the identity owns the resource or is an
// admin. Gates property update/delete, inquiry status/response updates and
// review responses.
func (id Identity) IsOwnerOrAdmin(ownerID primitive.ObjectID) bool {
	return id.UserID == ownerID || id.IsAdmin()
}

// IsReviewerOrAdmin reports whether the identity wrote the review or is an
// admin. Gates review update/delete.
func (id Identity) IsReviewerOrAdmin(reviewerID primitive.ObjectID) bool {
	return id.UserID == reviewerID || id.IsAdmin()
}

// IsInvolvedParty reports whether the identity is the inquiry's owner or
// renter, or an admin. Gates viewing-schedule mutation.
func (id Identity) IsInvolvedParty(inq *models.Inquiry) bool {
	return id.UserID == inq.OwnerID || id.UserID == inq.RenterID || id.IsAdmin()
}

// CanManageListings reports whether the identity's role allows creating
// property listings and viewing received inquiries.
func (id Identity) CanManageListings() bool {
	return id.Role == models.RoleOwner || id.Role == models.RoleAdmin
}
