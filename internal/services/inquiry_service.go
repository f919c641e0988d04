package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"househunt/api/internal/auth"
	"househunt/api/internal/config"
	"househunt/api/internal/models"
)

type InquiryInput struct {
	PropertyID primitive.ObjectID
	Message    string
	Contact    *models.ContactInfo
}

type IInquiryService interface {
	Create(ctx context.Context, ident auth.Identity, input InquiryInput) (*models.Inquiry, error)
	ListByRenter(ctx context.Context, renterID primitive.ObjectID) ([]models.Inquiry, error)
	ListReceived(ctx context.Context, ident auth.Identity) ([]models.Inquiry, error)
	Get(ctx context.Context, ident auth.Identity, id primitive.ObjectID) (*models.Inquiry, error)
	UpdateStatus(ctx context.Context, ident auth.Identity, id primitive.ObjectID, status models.InquiryStatus) (*models.Inquiry, error)
	Respond(ctx context.Context, ident auth.Identity, id primitive.ObjectID, message string) (*models.Inquiry, error)
	ScheduleViewing(ctx context.Context, ident auth.Identity, id primitive.ObjectID, viewingDate time.Time) (*models.Inquiry, error)
}

type inquiryService struct {
	db  *mongo.Database
	cfg *config.Config
}

func NewInquiryService(db *mongo.Database, cfg *config.Config) IInquiryService {
	return &inquiryService{db: db, cfg: cfg}
}

func (s *inquiryService) inquiries() *mongo.Collection {
	return s.db.Collection("inquiries")
}

// Create records a renter's inquiry against a property. One inquiry per
// renter per property; the duplicate check is a separate read, so two
// simultaneous requests can both pass it. The result is a second inquiry
// rather than corruption, which we accept.
func (s *inquiryService) Create(ctx context.Context, ident auth.Identity, input InquiryInput) (*models.Inquiry, error) {
	if input.Message == "" {
		return nil, fmt.Errorf("%w: message is required", ErrValidation)
	}

	var property models.Property
	err := s.db.Collection("properties").FindOne(ctx, bson.M{"_id": input.PropertyID}).Decode(&property)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find property: %w", err)
	}

	count, err := s.inquiries().CountDocuments(ctx, bson.M{
		"property": input.PropertyID,
		"renter":   ident.UserID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to check existing inquiry: %w", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: you already have an inquiry for this property", ErrConflict)
	}

	now := time.Now().UTC()
	inquiry := models.Inquiry{
		ID:          primitive.NewObjectID(),
		PropertyID:  input.PropertyID,
		RenterID:    ident.UserID,
		OwnerID:     property.OwnerID,
		Message:     input.Message,
		ContactInfo: input.Contact,
		Status:      models.InquiryStatusNew,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := s.inquiries().InsertOne(ctx, inquiry); err != nil {
		return nil, fmt.Errorf("failed to insert inquiry: %w", err)
	}
	return &inquiry, nil
}

func (s *inquiryService) ListByRenter(ctx context.Context, renterID primitive.ObjectID) ([]models.Inquiry, error) {
	return s.find(ctx, bson.M{"renter": renterID})
}

func (s *inquiryService) ListReceived(ctx context.Context, ident auth.Identity) ([]models.Inquiry, error) {
	if !ident.CanManageListings() {
		return nil, ErrUnauthorized
	}
	return s.find(ctx, bson.M{"owner": ident.UserID})
}

func (s *inquiryService) find(ctx context.Context, filter bson.M) ([]models.Inquiry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.inquiries().Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list inquiries: %w", err)
	}
	inquiries := []models.Inquiry{}
	if err := cursor.All(ctx, &inquiries); err != nil {
		return nil, fmt.Errorf("failed to decode inquiries: %w", err)
	}
	return inquiries, nil
}

func (s *inquiryService) Get(ctx context.Context, ident auth.Identity, id primitive.ObjectID) (*models.Inquiry, error) {
	var inquiry models.Inquiry
	err := s.inquiries().FindOne(ctx, bson.M{"_id": id}).Decode(&inquiry)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find inquiry: %w", err)
	}
	if !ident.IsInvolvedParty(&inquiry) {
		return nil, ErrUnauthorized
	}
	return &inquiry, nil
}

func (s *inquiryService) UpdateStatus(ctx context.Context, ident auth.Identity, id primitive.ObjectID, status models.InquiryStatus) (*models.Inquiry, error) {
	if !models.ValidInquiryStatus(status) {
		return nil, fmt.Errorf("%w: invalid inquiry status", ErrValidation)
	}
	inquiry, err := s.Get(ctx, ident, id)
	if err != nil {
		return nil, err
	}
	// Only the receiving owner (or an admin) manages inquiry state.
	if !ident.IsOwnerOrAdmin(inquiry.OwnerID) {
		return nil, ErrUnauthorized
	}
	return s.update(ctx, id, bson.M{"status": status})
}

func (s *inquiryService) Respond(ctx context.Context, ident auth.Identity, id primitive.ObjectID, message string) (*models.Inquiry, error) {
	if message == "" {
		return nil, fmt.Errorf("%w: response message is required", ErrValidation)
	}
	inquiry, err := s.Get(ctx, ident, id)
	if err != nil {
		return nil, err
	}
	if !ident.IsOwnerOrAdmin(inquiry.OwnerID) {
		return nil, ErrUnauthorized
	}
	return s.update(ctx, id, bson.M{
		"response": models.InquiryResponse{
			Message:     message,
			RespondedAt: time.Now().UTC(),
		},
		"status": models.InquiryStatusResponded,
	})
}

// ScheduleViewing can be set by either side of the inquiry.
func (s *inquiryService) ScheduleViewing(ctx context.Context, ident auth.Identity, id primitive.ObjectID, viewingDate time.Time) (*models.Inquiry, error) {
	if _, err := s.Get(ctx, ident, id); err != nil {
		return nil, err
	}
	return s.update(ctx, id, bson.M{
		"viewing_scheduled": true,
		"viewing_date":      viewingDate,
		"status":            models.InquiryStatusResponded,
	})
}

func (s *inquiryService) update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Inquiry, error) {
	set["updated_at"] = time.Now().UTC()
	var inquiry models.Inquiry
	err := s.inquiries().FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		findAfter(),
	).Decode(&inquiry)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update inquiry: %w", err)
	}
	return &inquiry, nil
}
