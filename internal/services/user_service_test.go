package services

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"househunt/api/internal/auth"
	"househunt/api/internal/config"
	"househunt/api/internal/db"
	"househunt/api/internal/models"
	"househunt/api/internal/utils"
)

func testConfig() *config.Config {
	return &config.Config{
		PropertyPageLimit: 12,
		ReviewPageLimit:   10,
		UserPageLimit:     10,
	}
}

func setupUserTestDB(t *testing.T) *mongo.Database {
	database := utils.SetupTestDB(t, "househunt_test_users", "users", "properties", "inquiries", "reviews")
	require.NoError(t, db.EnsureIndexes(context.Background(), database))
	return database
}

func registerTestUser(t *testing.T, svc IUserService, email string, role models.Role) *models.User {
	user, err := svc.Register(context.Background(), RegisterInput{
		FirstName: "Test",
		LastName:  "User",
		Email:     email,
		Password:  "secret123",
		Role:      role,
	})
	require.NoError(t, err)
	return user
}

func TestUserService_RegisterAndAuthenticate(t *testing.T) {
	database := setupUserTestDB(t)
	svc := NewUserService(database, testConfig())
	ctx := context.Background()

	user := registerTestUser(t, svc, "alice@example.com", models.RoleRenter)
	// New accounts start as pending; only suspension blocks access.
	assert.Equal(t, models.UserStatusPending, user.Status)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "secret123", user.PasswordHash)

	authed, err := svc.Authenticate(ctx, "Alice@Example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, authed.ID)

	_, err = svc.Authenticate(ctx, "alice@example.com", "wrongpass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserService_RegisterDuplicateEmail(t *testing.T) {
	database := setupUserTestDB(t)
	svc := NewUserService(database, testConfig())

	registerTestUser(t, svc, "bob@example.com", models.RoleOwner)

	_, err := svc.Register(context.Background(), RegisterInput{
		FirstName: "Other",
		LastName:  "Bob",
		Email:     "bob@example.com",
		Password:  "different1",
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestUserService_RegisterValidation(t *testing.T) {
	database := setupUserTestDB(t)
	svc := NewUserService(database, testConfig())
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "x@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Register(ctx, RegisterInput{
		FirstName: "A", LastName: "B", Email: "short@example.com", Password: "abc",
	})
	assert.ErrorIs(t, err, ErrValidation)

	// Nobody self-registers as admin.
	_, err = svc.Register(ctx, RegisterInput{
		FirstName: "A", LastName: "B", Email: "admin@example.com",
		Password: "secret123", Role: models.RoleAdmin,
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUserService_ListUsersAdminOnly(t *testing.T) {
	database := setupUserTestDB(t)
	svc := NewUserService(database, testConfig())
	ctx := context.Background()

	renter := registerTestUser(t, svc, "renter@example.com", models.RoleRenter)
	registerTestUser(t, svc, "owner@example.com", models.RoleOwner)

	_, err := svc.ListUsers(ctx, auth.Identity{UserID: renter.ID, Role: models.RoleRenter}, url.Values{})
	assert.ErrorIs(t, err, ErrUnauthorized)

	admin := auth.Identity{UserID: primitive.NewObjectID(), Role: models.RoleAdmin}
	page, err := svc.ListUsers(ctx, admin, url.Values{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Equal(t, 1, page.TotalPages)

	filtered, err := svc.ListUsers(ctx, admin, url.Values{"role": {"owner"}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), filtered.Total)

	// Sentinel role means no filter at all.
	all, err := svc.ListUsers(ctx, admin, url.Values{"role": {"all"}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.Total)

	searched, err := svc.ListUsers(ctx, admin, url.Values{"search": {"RENTER@"}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), searched.Total)
}

func TestUserService_GetUserAccessControl(t *testing.T) {
	database := setupUserTestDB(t)
	svc := NewUserService(database, testConfig())
	ctx := context.Background()

	alice := registerTestUser(t, svc, "alice2@example.com", models.RoleRenter)
	bob := registerTestUser(t, svc, "bob2@example.com", models.RoleRenter)

	_, err := svc.GetUser(ctx, auth.Identity{UserID: bob.ID, Role: models.RoleRenter}, alice.ID)
	assert.ErrorIs(t, err, ErrUnauthorized)

	// A missing user reports not found even to a caller who could not
	// have accessed it, so ids cannot be probed for existence.
	_, err = svc.GetUser(ctx, auth.Identity{UserID: bob.ID, Role: models.RoleRenter}, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := svc.GetUser(ctx, auth.Identity{UserID: alice.ID, Role: models.RoleRenter}, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.Email, got.Email)
}

func TestUserService_ChangePassword(t *testing.T) {
	database := setupUserTestDB(t)
	svc := NewUserService(database, testConfig())
	ctx := context.Background()

	user := registerTestUser(t, svc, "pw@example.com", models.RoleRenter)

	err := svc.ChangePassword(ctx, user.ID, "wrong", "newsecret1")
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, svc.ChangePassword(ctx, user.ID, "secret123", "newsecret1"))

	_, err = svc.Authenticate(ctx, "pw@example.com", "newsecret1")
	assert.NoError(t, err)
}

func TestUserService_ToggleFavorite(t *testing.T) {
	database := setupUserTestDB(t)
	cfg := testConfig()
	users := NewUserService(database, cfg)
	properties := NewPropertyService(database, cfg)
	ctx := context.Background()

	owner := registerTestUser(t, users, "fav-owner@example.com", models.RoleOwner)
	renter := registerTestUser(t, users, "fav-renter@example.com", models.RoleRenter)

	property, err := properties.Create(ctx, auth.Identity{UserID: owner.ID, Role: models.RoleOwner}, PropertyInput{
		Title:       "Cozy studio",
		Description: "Near the river",
		Location:    models.Location{Address: "1 Main St", City: "Austin", State: "TX"},
		Price:       900,
		Type:        models.PropertyTypeStudio,
	})
	require.NoError(t, err)

	_, err = users.ToggleFavorite(ctx, renter.ID, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrNotFound)

	favorited, err := users.ToggleFavorite(ctx, renter.ID, property.ID)
	require.NoError(t, err)
	assert.True(t, favorited)

	favorited, err = users.ToggleFavorite(ctx, renter.ID, property.ID)
	require.NoError(t, err)
	assert.False(t, favorited)

	got, err := users.FindByID(ctx, renter.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Favorites)
}

func TestUserService_DeleteOwnerDeactivatesProperties(t *testing.T) {
	database := setupUserTestDB(t)
	cfg := testConfig()
	users := NewUserService(database, cfg)
	properties := NewPropertyService(database, cfg)
	ctx := context.Background()

	owner := registerTestUser(t, users, "del-owner@example.com", models.RoleOwner)
	ownerIdent := auth.Identity{UserID: owner.ID, Role: models.RoleOwner}

	property, err := properties.Create(ctx, ownerIdent, PropertyInput{
		Title:       "Soon gone",
		Description: "Owner leaving",
		Location:    models.Location{Address: "2 Oak Ave", City: "Denver"},
		Price:       1200,
		Type:        models.PropertyTypeApartment,
	})
	require.NoError(t, err)

	adminIdent := auth.Identity{UserID: primitive.NewObjectID(), Role: models.RoleAdmin}
	require.ErrorIs(t, users.DeleteUser(ctx, ownerIdent, owner.ID), ErrUnauthorized)
	require.NoError(t, users.DeleteUser(ctx, adminIdent, owner.ID))

	remaining, err := properties.ListByOwner(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, models.PropertyStatusInactive, remaining[0].Status)
	assert.Equal(t, property.ID, remaining[0].ID)

	_, err = users.FindByID(ctx, owner.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserService_Stats(t *testing.T) {
	database := setupUserTestDB(t)
	cfg := testConfig()
	users := NewUserService(database, cfg)
	properties := NewPropertyService(database, cfg)
	ctx := context.Background()

	owner := registerTestUser(t, users, "stats-owner@example.com", models.RoleOwner)
	ownerIdent := auth.Identity{UserID: owner.ID, Role: models.RoleOwner}

	first, err := properties.Create(ctx, ownerIdent, PropertyInput{
		Title:       "Counted",
		Description: "Shows in stats",
		Location:    models.Location{Address: "3 Pine Rd", City: "Boise"},
		Price:       800,
		Type:        models.PropertyTypeHouse,
	})
	require.NoError(t, err)

	second, err := properties.Create(ctx, ownerIdent, PropertyInput{
		Title:       "Also counted",
		Description: "Rented out",
		Location:    models.Location{Address: "4 Pine Rd", City: "Boise"},
		Price:       1000,
		Type:        models.PropertyTypeHouse,
	})
	require.NoError(t, err)
	rented := models.PropertyStatusRented
	_, err = properties.Update(ctx, ownerIdent, second.ID, PropertyUpdate{Status: &rented})
	require.NoError(t, err)

	// Bump the view counter on the first listing.
	_, err = properties.Get(ctx, first.ID)
	require.NoError(t, err)

	stats, err := users.Stats(ctx, ownerIdent, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.PropertyCount)
	assert.Equal(t, int64(1), stats.ActiveProperties)
	assert.Equal(t, int64(1), stats.RentedProperties)
	assert.Equal(t, int64(1), stats.TotalViews)
	assert.Equal(t, 900.0, stats.AveragePrice)
	assert.False(t, stats.MemberSince.IsZero())
}
