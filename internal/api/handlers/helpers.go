package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"househunt/api/internal/api/middleware"
	"househunt/api/internal/auth"
)

// objectIDParam parses a hex ObjectID path parameter, writing a 400 response
// on failure.
func objectIDParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id format"})
		return primitive.NilObjectID, false
	}
	return id, true
}

// mustIdentity fetches the authenticated identity, writing a 401 response
// when the auth middleware did not run.
func mustIdentity(c *gin.Context) (auth.Identity, bool) {
	ident, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return auth.Identity{}, false
	}
	return ident, true
}
