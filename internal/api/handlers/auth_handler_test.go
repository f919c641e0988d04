package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"househunt/api/internal/auth"
	"househunt/api/internal/config"
	"househunt/api/internal/models"
	"househunt/api/internal/services"
)

func authTestConfig() *config.Config {
	return &config.Config{JwtSecret: "test-secret", JwtTTL: 3600000000000}
}

func newAuthRouter(userSvc *MockUserService, ident *auth.Identity) *gin.Engine {
	handler := NewAuthHandler(userSvc, authTestConfig())
	router := gin.New()
	group := router.Group("/api/auth")
	group.POST("/register", handler.Register)
	group.POST("/login", handler.Login)
	if ident != nil {
		group.Use(withIdentity(*ident))
	}
	group.GET("/me", handler.Me)
	group.PUT("/profile", handler.UpdateProfile)
	group.PUT("/change-password", handler.ChangePassword)
	return router
}

func TestAuthHandler_Register(t *testing.T) {
	user := &models.User{
		ID:        primitive.NewObjectID(),
		FirstName: "Alice",
		LastName:  "Smith",
		Email:     "alice@example.com",
		Role:      models.RoleRenter,
		Status:    models.UserStatusActive,
	}

	userSvc := new(MockUserService)
	userSvc.On("Register", mock.Anything, mock.MatchedBy(func(input services.RegisterInput) bool {
		return input.Email == "alice@example.com" && input.Role == models.RoleRenter
	})).Return(user, nil)

	router := newAuthRouter(userSvc, nil)
	w := performRequest(t, router, http.MethodPost, "/api/auth/register", gin.H{
		"firstName": "Alice",
		"lastName":  "Smith",
		"email":     "alice@example.com",
		"password":  "secret123",
		"role":      "renter",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	assert.NotEmpty(t, body["token"])
	assert.NotNil(t, body["user"])
}

func TestAuthHandler_RegisterDuplicateEmail(t *testing.T) {
	userSvc := new(MockUserService)
	userSvc.On("Register", mock.Anything, mock.Anything).Return(nil, services.ErrConflict)

	router := newAuthRouter(userSvc, nil)
	w := performRequest(t, router, http.MethodPost, "/api/auth/register", gin.H{
		"firstName": "Bob",
		"lastName":  "Jones",
		"email":     "bob@example.com",
		"password":  "secret123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_RegisterMissingFields(t *testing.T) {
	router := newAuthRouter(new(MockUserService), nil)
	w := performRequest(t, router, http.MethodPost, "/api/auth/register", gin.H{
		"email": "incomplete@example.com",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_LoginInvalidCredentials(t *testing.T) {
	userSvc := new(MockUserService)
	userSvc.On("Authenticate", mock.Anything, "alice@example.com", "wrong").Return(nil, services.ErrInvalidCredentials)

	router := newAuthRouter(userSvc, nil)
	w := performRequest(t, router, http.MethodPost, "/api/auth/login", gin.H{
		"email":    "alice@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_LoginSuccessIssuesToken(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID(), Email: "alice@example.com", Role: models.RoleOwner}

	userSvc := new(MockUserService)
	userSvc.On("Authenticate", mock.Anything, "alice@example.com", "secret123").Return(user, nil)

	router := newAuthRouter(userSvc, nil)
	w := performRequest(t, router, http.MethodPost, "/api/auth/login", gin.H{
		"email":    "alice@example.com",
		"password": "secret123",
	})

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	claims, err := auth.ValidateJWT(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
	assert.Equal(t, string(models.RoleOwner), claims.Role)
}

func TestAuthHandler_Me(t *testing.T) {
	ident := auth.Identity{UserID: primitive.NewObjectID(), Role: models.RoleRenter}
	user := &models.User{ID: ident.UserID, Email: "me@example.com"}

	userSvc := new(MockUserService)
	userSvc.On("FindByID", mock.Anything, ident.UserID).Return(user, nil)

	router := newAuthRouter(userSvc, &ident)
	w := performRequest(t, router, http.MethodGet, "/api/auth/me", nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	userBody, _ := body["user"].(map[string]interface{})
	require.NotNil(t, userBody)
	assert.Equal(t, "me@example.com", userBody["email"])
	// The password hash never leaves the API.
	_, hasPassword := userBody["password"]
	assert.False(t, hasPassword)
}

func TestAuthHandler_ChangePasswordWrongCurrent(t *testing.T) {
	ident := auth.Identity{UserID: primitive.NewObjectID(), Role: models.RoleRenter}

	userSvc := new(MockUserService)
	userSvc.On("ChangePassword", mock.Anything, ident.UserID, "wrong", "newsecret1").Return(services.ErrValidation)

	router := newAuthRouter(userSvc, &ident)
	w := performRequest(t, router, http.MethodPut, "/api/auth/change-password", gin.H{
		"currentPassword": "wrong",
		"newPassword":     "newsecret1",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
