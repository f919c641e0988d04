package services

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"househunt/api/internal/auth"
	"househunt/api/internal/config"
	"househunt/api/internal/db"
	"househunt/api/internal/models"
	"househunt/api/internal/query"
)

type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Phone     string
	Role      models.Role
}

type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	Phone     *string
	Avatar    *string
	Profile   *models.Profile
}

// UserPage is the envelope returned by ListUsers.
type UserPage struct {
	Users       []models.User `json:"users"`
	TotalPages  int           `json:"totalPages"`
	CurrentPage int           `json:"currentPage"`
	Total       int64         `json:"total"`
}

// UserStats aggregates role-dependent activity counts for a single user.
type UserStats struct {
	PropertyCount    int64     `json:"propertyCount,omitempty"`
	ActiveProperties int64     `json:"activeProperties,omitempty"`
	RentedProperties int64     `json:"rentedProperties,omitempty"`
	TotalViews       int64     `json:"totalViews,omitempty"`
	AveragePrice     float64   `json:"averagePrice,omitempty"`
	InquiriesSent    int64     `json:"inquiriesSent,omitempty"`
	InquiriesGot     int64     `json:"inquiriesReceived,omitempty"`
	ReviewsWritten   int64     `json:"reviewsWritten,omitempty"`
	ReviewsReceived  int64     `json:"reviewsReceived,omitempty"`
	FavoritesCount   int       `json:"favoritesCount"`
	MemberSince      time.Time `json:"memberSince"`
}

type IUserService interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID primitive.ObjectID, update ProfileUpdate) (*models.User, error)
	ChangePassword(ctx context.Context, userID primitive.ObjectID, current, next string) error
	ListUsers(ctx context.Context, ident auth.Identity, params url.Values) (*UserPage, error)
	GetUser(ctx context.Context, ident auth.Identity, id primitive.ObjectID) (*models.User, error)
	UpdateStatus(ctx context.Context, ident auth.Identity, id primitive.ObjectID, status models.UserStatus) (*models.User, error)
	DeleteUser(ctx context.Context, ident auth.Identity, id primitive.ObjectID) error
	Stats(ctx context.Context, ident auth.Identity, id primitive.ObjectID) (*UserStats, error)
	ToggleFavorite(ctx context.Context, userID, propertyID primitive.ObjectID) (bool, error)
}

type userService struct {
	db  *mongo.Database
	cfg *config.Config
}

func NewUserService(db *mongo.Database, cfg *config.Config) IUserService {
	return &userService{db: db, cfg: cfg}
}

func (s *userService) users() *mongo.Collection {
	return s.db.Collection("users")
}

func (s *userService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if input.FirstName == "" || input.LastName == "" || input.Email == "" {
		return nil, fmt.Errorf("%w: first name, last name and email are required", ErrValidation)
	}
	if len(input.Password) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", ErrValidation)
	}
	if input.Role == "" {
		input.Role = models.RoleRenter
	}
	if !models.ValidRole(input.Role) || input.Role == models.RoleAdmin {
		return nil, fmt.Errorf("%w: invalid role", ErrValidation)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := models.User{
		ID:           primitive.NewObjectID(),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		PasswordHash: hash,
		Phone:        input.Phone,
		Role:         input.Role,
		Status:       models.UserStatusPending,
		Favorites:    []primitive.ObjectID{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := s.users().InsertOne(ctx, user); err != nil {
		if db.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: user with this email already exists", ErrConflict)
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	return &user, nil
}

func (s *userService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var user models.User
	err := s.users().FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if !auth.VerifyPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	if user.Status == models.UserStatusSuspended {
		return nil, fmt.Errorf("%w: account is suspended", ErrUnauthorized)
	}
	return &user, nil
}

func (s *userService) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := s.users().FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, update ProfileUpdate) (*models.User, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if update.FirstName != nil {
		set["first_name"] = *update.FirstName
	}
	if update.LastName != nil {
		set["last_name"] = *update.LastName
	}
	if update.Phone != nil {
		set["phone"] = *update.Phone
	}
	if update.Avatar != nil {
		set["avatar"] = *update.Avatar
	}
	if update.Profile != nil {
		set["profile"] = update.Profile
	}

	var user models.User
	err := s.users().FindOneAndUpdate(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": set},
		findAfter(),
	).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return &user, nil
}

func (s *userService) ChangePassword(ctx context.Context, userID primitive.ObjectID, current, next string) error {
	if len(next) < 6 {
		return fmt.Errorf("%w: new password must be at least 6 characters", ErrValidation)
	}
	user, err := s.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !auth.VerifyPassword(user.PasswordHash, current) {
		return fmt.Errorf("%w: current password is incorrect", ErrValidation)
	}
	hash, err := auth.HashPassword(next)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	_, err = s.users().UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"password": hash, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

func (s *userService) ListUsers(ctx context.Context, ident auth.Identity, params url.Values) (*UserPage, error) {
	if !ident.IsAdmin() {
		return nil, ErrUnauthorized
	}

	p := query.ParsePagination(params, s.cfg.UserPageLimit)
	filter := bson.M{}

	if role := params.Get("role"); !query.IsSentinel(role) {
		filter["role"] = role
	}
	if status := params.Get("status"); !query.IsSentinel(status) {
		filter["status"] = status
	}
	if search := params.Get("search"); search != "" {
		rx := query.CaseInsensitive(search)
		filter["$or"] = []bson.M{
			{"first_name": rx},
			{"last_name": rx},
			{"email": rx},
		}
	}

	sort := query.SortSpec(params.Get("sortBy"), params.Get("sortOrder"), "created_at")

	users := []models.User{}
	total, err := query.FindPage(ctx, s.users(), filter, sort, p, &users)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return &UserPage{
		Users:       users,
		TotalPages:  p.TotalPages(total),
		CurrentPage: p.Page,
		Total:       total,
	}, nil
}

func (s *userService) GetUser(ctx context.Context, ident auth.Identity, id primitive.ObjectID) (*models.User, error) {
	user, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ident.IsSelfOrAdmin(id) {
		return nil, ErrUnauthorized
	}
	return user, nil
}

func (s *userService) UpdateStatus(ctx context.Context, ident auth.Identity, id primitive.ObjectID, status models.UserStatus) (*models.User, error) {
	if !ident.IsAdmin() {
		return nil, ErrUnauthorized
	}
	if !models.ValidUserStatus(status) {
		return nil, fmt.Errorf("%w: invalid status", ErrValidation)
	}
	var user models.User
	err := s.users().FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}},
		findAfter(),
	).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update user status: %w", err)
	}
	return &user, nil
}

// DeleteUser removes a user account. When the user is an owner, their
// listings are marked inactive first so they stop appearing in search.
func (s *userService) DeleteUser(ctx context.Context, ident auth.Identity, id primitive.ObjectID) error {
	user, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !ident.IsAdmin() {
		return ErrUnauthorized
	}
	if user.Role == models.RoleOwner {
		_, err := s.db.Collection("properties").UpdateMany(ctx,
			bson.M{"owner": id},
			bson.M{"$set": bson.M{"status": models.PropertyStatusInactive, "updated_at": time.Now().UTC()}},
		)
		if err != nil {
			return fmt.Errorf("failed to deactivate owner properties: %w", err)
		}
	}
	res, err := s.users().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *userService) Stats(ctx context.Context, ident auth.Identity, id primitive.ObjectID) (*UserStats, error) {
	user, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ident.IsSelfOrAdmin(id) {
		return nil, ErrUnauthorized
	}

	stats := UserStats{
		FavoritesCount: len(user.Favorites),
		MemberSince:    user.CreatedAt,
	}

	switch user.Role {
	case models.RoleOwner:
		cursor, err := s.db.Collection("properties").Find(ctx, bson.M{"owner": id})
		if err != nil {
			return nil, fmt.Errorf("failed to load owner properties: %w", err)
		}
		properties := []models.Property{}
		if err := cursor.All(ctx, &properties); err != nil {
			return nil, fmt.Errorf("failed to decode owner properties: %w", err)
		}
		var totalPrice float64
		for _, property := range properties {
			stats.TotalViews += property.Views
			totalPrice += property.Price
			switch property.Status {
			case models.PropertyStatusAvailable:
				stats.ActiveProperties++
			case models.PropertyStatusRented:
				stats.RentedProperties++
			}
		}
		stats.PropertyCount = int64(len(properties))
		if len(properties) > 0 {
			stats.AveragePrice = math.Round(totalPrice / float64(len(properties)))
		}
		if stats.InquiriesGot, err = s.db.Collection("inquiries").CountDocuments(ctx, bson.M{"owner": id}); err != nil {
			return nil, fmt.Errorf("failed to count inquiries: %w", err)
		}
		if stats.ReviewsReceived, err = s.db.Collection("reviews").CountDocuments(ctx, bson.M{"owner": id}); err != nil {
			return nil, fmt.Errorf("failed to count reviews: %w", err)
		}
	case models.RoleRenter:
		if stats.InquiriesSent, err = s.db.Collection("inquiries").CountDocuments(ctx, bson.M{"renter": id}); err != nil {
			return nil, fmt.Errorf("failed to count inquiries: %w", err)
		}
		if stats.ReviewsWritten, err = s.db.Collection("reviews").CountDocuments(ctx, bson.M{"reviewer": id}); err != nil {
			return nil, fmt.Errorf("failed to count reviews: %w", err)
		}
	}
	return &stats, nil
}

// ToggleFavorite adds the property to the user's favorites, or removes it if
// already present. Returns true when the property ended up favorited.
func (s *userService) ToggleFavorite(ctx context.Context, userID, propertyID primitive.ObjectID) (bool, error) {
	count, err := s.db.Collection("properties").CountDocuments(ctx, bson.M{"_id": propertyID})
	if err != nil {
		return false, fmt.Errorf("failed to check property: %w", err)
	}
	if count == 0 {
		return false, ErrNotFound
	}

	user, err := s.FindByID(ctx, userID)
	if err != nil {
		return false, err
	}

	favorited := false
	for _, fav := range user.Favorites {
		if fav == propertyID {
			favorited = true
			break
		}
	}

	update := bson.M{"$addToSet": bson.M{"favorites": propertyID}}
	if favorited {
		update = bson.M{"$pull": bson.M{"favorites": propertyID}}
	}
	if _, err := s.users().UpdateOne(ctx, bson.M{"_id": userID}, update); err != nil {
		return false, fmt.Errorf("failed to toggle favorite: %w", err)
	}
	return !favorited, nil
}
