package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"househunt/api/internal/models"
)

func TestIdentity_IsAdmin(t *testing.T) {
	admin := Identity{UserID: primitive.NewObjectID(), Role: models.RoleAdmin}
	renter := Identity{UserID: primitive.NewObjectID(), Role: models.RoleRenter}
	owner := Identity{UserID: primitive.NewObjectID(), Role: models.RoleOwner}

	assert.True(t, admin.IsAdmin())
	assert.False(t, renter.IsAdmin())
	assert.False(t, owner.IsAdmin())
}

func TestIdentity_IsSelfOrAdmin(t *testing.T) {
	userID := primitive.NewObjectID()
	otherID := primitive.NewObjectID()

	self := Identity{UserID: userID, Role: models.RoleRenter}
	other := Identity{UserID: otherID, Role: models.RoleRenter}
	admin := Identity{UserID: otherID, Role: models.RoleAdmin}

	assert.True(t, self.IsSelfOrAdmin(userID))
	assert.False(t, other.IsSelfOrAdmin(userID))
	assert.True(t, admin.IsSelfOrAdmin(userID))
}

func TestIdentity_IsOwnerOrAdmin(t *testing.T) {
	ownerID := primitive.NewObjectID()

	owner := Identity{UserID: ownerID, Role: models.RoleOwner}
	stranger := Identity{UserID: primitive.NewObjectID(), Role: models.RoleOwner}
	admin := Identity{UserID: primitive.NewObjectID(), Role: models.RoleAdmin}

	assert.True(t, owner.IsOwnerOrAdmin(ownerID))
	assert.False(t, stranger.IsOwnerOrAdmin(ownerID))
	assert.True(t, admin.IsOwnerOrAdmin(ownerID))
}

func TestIdentity_IsReviewerOrAdmin(t *testing.T) {
	reviewerID := primitive.NewObjectID()

	reviewer := Identity{UserID: reviewerID, Role: models.RoleRenter}
	propertyOwner := Identity{UserID: primitive.NewObjectID(), Role: models.RoleOwner}
	admin := Identity{UserID: primitive.NewObjectID(), Role: models.RoleAdmin}

	assert.True(t, reviewer.IsReviewerOrAdmin(reviewerID))
	// Owning the property does not grant edit rights over someone else's review.
	assert.False(t, propertyOwner.IsReviewerOrAdmin(reviewerID))
	assert.True(t, admin.IsReviewerOrAdmin(reviewerID))
}

func TestIdentity_IsInvolvedParty(t *testing.T) {
	renterID := primitive.NewObjectID()
	ownerID := primitive.NewObjectID()
	inq := &models.Inquiry{RenterID: renterID, OwnerID: ownerID}

	renter := Identity{UserID: renterID, Role: models.RoleRenter}
	owner := Identity{UserID: ownerID, Role: models.RoleOwner}
	stranger := Identity{UserID: primitive.NewObjectID(), Role: models.RoleRenter}
	admin := Identity{UserID: primitive.NewObjectID(), Role: models.RoleAdmin}

	assert.True(t, renter.IsInvolvedParty(inq))
	assert.True(t, owner.IsInvolvedParty(inq))
	assert.False(t, stranger.IsInvolvedParty(inq))
	assert.True(t, admin.IsInvolvedParty(inq))
}

func TestIdentity_CanManageListings(t *testing.T) {
	assert.True(t, Identity{Role: models.RoleOwner}.CanManageListings())
	assert.True(t, Identity{Role: models.RoleAdmin}.CanManageListings())
	assert.False(t, Identity{Role: models.RoleRenter}.CanManageListings())
}
