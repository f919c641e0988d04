package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"househunt/api/internal/auth"
	"househunt/api/internal/config"
	"househunt/api/internal/models"
	"househunt/api/internal/query"
)

type ReviewInput struct {
	PropertyID primitive.ObjectID
	Rating     int
	Title      string
	Content    string
	Tags       []string
}

type ReviewUpdate struct {
	Rating  *int
	Title   *string
	Content *string
	Tags    []string
}

// ReviewPage is the envelope returned by List.
type ReviewPage struct {
	Reviews     []models.Review `json:"reviews"`
	TotalPages  int             `json:"totalPages"`
	CurrentPage int             `json:"currentPage"`
	Total       int64           `json:"total"`
}

type IReviewService interface {
	List(ctx context.Context, params url.Values) (*ReviewPage, error)
	Create(ctx context.Context, ident auth.Identity, input ReviewInput) (*models.Review, error)
	Update(ctx context.Context, ident auth.Identity, id primitive.ObjectID, update ReviewUpdate) (*models.Review, error)
	Delete(ctx context.Context, ident auth.Identity, id primitive.ObjectID) error
	ToggleHelpful(ctx context.Context, ident auth.Identity, id primitive.ObjectID) (*models.Review, bool, error)
	Respond(ctx context.Context, ident auth.Identity, id primitive.ObjectID, message string) (*models.Review, error)
}

type reviewService struct {
	db  *mongo.Database
	cfg *config.Config
}

func NewReviewService(db *mongo.Database, cfg *config.Config) IReviewService {
	return &reviewService{db: db, cfg: cfg}
}

func (s *reviewService) reviews() *mongo.Collection {
	return s.db.Collection("reviews")
}

func (s *reviewService) List(ctx context.Context, params url.Values) (*ReviewPage, error) {
	p := query.ParsePagination(params, s.cfg.ReviewPageLimit)
	filter := bson.M{}

	property := params.Get("propertyId")
	if property == "" {
		property = params.Get("property")
	}
	if property != "" {
		id, err := primitive.ObjectIDFromHex(property)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid property id", ErrValidation)
		}
		filter["property"] = id
	}
	owner := params.Get("ownerId")
	if owner == "" {
		owner = params.Get("owner")
	}
	if owner != "" {
		id, err := primitive.ObjectIDFromHex(owner)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid owner id", ErrValidation)
		}
		filter["owner"] = id
	}
	if rating := params.Get("rating"); !query.IsSentinel(rating) {
		if n, err := strconv.Atoi(rating); err == nil {
			filter["rating"] = n
		}
	}

	sort := query.SortSpec(params.Get("sortBy"), params.Get("sortOrder"), "created_at")

	reviews := []models.Review{}
	total, err := query.FindPage(ctx, s.reviews(), filter, sort, p, &reviews)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return &ReviewPage{
		Reviews:     reviews,
		TotalPages:  p.TotalPages(total),
		CurrentPage: p.Page,
		Total:       total,
	}, nil
}

// Create records a review for a property. One review per reviewer per
// property; like inquiries, the duplicate check is a pre-read and a
// narrow race window between two simultaneous submissions remains.
func (s *reviewService) Create(ctx context.Context, ident auth.Identity, input ReviewInput) (*models.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}
	if input.Title == "" || input.Content == "" {
		return nil, fmt.Errorf("%w: title and content are required", ErrValidation)
	}

	var property models.Property
	err := s.db.Collection("properties").FindOne(ctx, bson.M{"_id": input.PropertyID}).Decode(&property)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find property: %w", err)
	}

	count, err := s.reviews().CountDocuments(ctx, bson.M{
		"property": input.PropertyID,
		"reviewer": ident.UserID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to check existing review: %w", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: you have already reviewed this property", ErrConflict)
	}

	// A reviewer with a responded inquiry on the property counts as a
	// verified stay.
	verified := false
	inqCount, err := s.db.Collection("inquiries").CountDocuments(ctx, bson.M{
		"property": input.PropertyID,
		"renter":   ident.UserID,
		"status":   models.InquiryStatusResponded,
	})
	if err == nil && inqCount > 0 {
		verified = true
	}

	now := time.Now().UTC()
	review := models.Review{
		ID:         primitive.NewObjectID(),
		PropertyID: input.PropertyID,
		ReviewerID: ident.UserID,
		OwnerID:    property.OwnerID,
		Rating:     input.Rating,
		Title:      input.Title,
		Content:    input.Content,
		Tags:       input.Tags,
		HelpfulBy:  []primitive.ObjectID{},
		Verified:   verified,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if review.Tags == nil {
		review.Tags = []string{}
	}
	if _, err := s.reviews().InsertOne(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to insert review: %w", err)
	}
	return &review, nil
}

func (s *reviewService) Update(ctx context.Context, ident auth.Identity, id primitive.ObjectID, update ReviewUpdate) (*models.Review, error) {
	existing, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ident.IsReviewerOrAdmin(existing.ReviewerID) {
		return nil, ErrUnauthorized
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if update.Rating != nil {
		if *update.Rating < 1 || *update.Rating > 5 {
			return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
		}
		set["rating"] = *update.Rating
	}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.Content != nil {
		set["content"] = *update.Content
	}
	if update.Tags != nil {
		set["tags"] = update.Tags
	}

	var review models.Review
	err = s.reviews().FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		findAfter(),
	).Decode(&review)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update review: %w", err)
	}
	return &review, nil
}

func (s *reviewService) Delete(ctx context.Context, ident auth.Identity, id primitive.ObjectID) error {
	existing, err := s.findByID(ctx, id)
	if err != nil {
		return err
	}
	if !ident.IsReviewerOrAdmin(existing.ReviewerID) {
		return ErrUnauthorized
	}
	if _, err := s.reviews().DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	return nil
}

// ToggleHelpful flips the caller's helpful vote on a review. Returns the
// updated review and whether the vote ended up set. The read and the
// write are separate operations, so rapid double-clicks can land on the
// same branch twice; the counter is clamped at zero.
func (s *reviewService) ToggleHelpful(ctx context.Context, ident auth.Identity, id primitive.ObjectID) (*models.Review, bool, error) {
	existing, err := s.findByID(ctx, id)
	if err != nil {
		return nil, false, err
	}

	var update bson.M
	voted := existing.HasHelpfulVote(ident.UserID)
	if voted {
		dec := int32(-1)
		if existing.Helpful <= 0 {
			dec = 0
		}
		update = bson.M{
			"$pull": bson.M{"helpful_by": ident.UserID},
			"$inc":  bson.M{"helpful": dec},
		}
	} else {
		update = bson.M{
			"$addToSet": bson.M{"helpful_by": ident.UserID},
			"$inc":      bson.M{"helpful": 1},
		}
	}

	var review models.Review
	err = s.reviews().FindOneAndUpdate(ctx, bson.M{"_id": id}, update, findAfter()).Decode(&review)
	if err == mongo.ErrNoDocuments {
		return nil, false, ErrNotFound
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to toggle helpful vote: %w", err)
	}
	return &review, !voted, nil
}

// Respond attaches the property owner's reply to a review.
func (s *reviewService) Respond(ctx context.Context, ident auth.Identity, id primitive.ObjectID, message string) (*models.Review, error) {
	if message == "" {
		return nil, fmt.Errorf("%w: response message is required", ErrValidation)
	}
	existing, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ident.IsOwnerOrAdmin(existing.OwnerID) {
		return nil, ErrUnauthorized
	}

	var review models.Review
	err = s.reviews().FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"response": models.ReviewResponse{
				Message:     message,
				RespondedAt: time.Now().UTC(),
				RespondedBy: ident.UserID,
			},
			"updated_at": time.Now().UTC(),
		}},
		findAfter(),
	).Decode(&review)
	if err != nil {
		return nil, fmt.Errorf("failed to respond to review: %w", err)
	}
	return &review, nil
}

func (s *reviewService) findByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error) {
	var review models.Review
	err := s.reviews().FindOne(ctx, bson.M{"_id": id}).Decode(&review)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find review: %w", err)
	}
	return &review, nil
}
