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
	"go.mongodb.org/mongo-driver/mongo/options"

	"househunt/api/internal/auth"
	"househunt/api/internal/config"
	"househunt/api/internal/models"
	"househunt/api/internal/query"
)

type PropertyInput struct {
	Title        string
	Description  string
	Location     models.Location
	Price        float64
	Type         models.PropertyType
	Bedrooms     int
	Bathrooms    int
	Area         float64
	Images       []models.Image
	Amenities    []string
	Availability *models.Availability
	Rules        *models.Rules
	Utilities    *models.Utilities
}

// PropertyUpdate carries the fields an owner may change. Nil means leave
// the stored value alone. Ownership and view counts are not updatable.
type PropertyUpdate struct {
	Title        *string
	Description  *string
	Location     *models.Location
	Price        *float64
	Type         *models.PropertyType
	Bedrooms     *int
	Bathrooms    *int
	Area         *float64
	Images       []models.Image
	Amenities    []string
	Status       *models.PropertyStatus
	Availability *models.Availability
	Rules        *models.Rules
	Utilities    *models.Utilities
}

// PropertyPage is the envelope returned by List.
type PropertyPage struct {
	Properties  []models.Property `json:"properties"`
	TotalPages  int               `json:"totalPages"`
	CurrentPage int               `json:"currentPage"`
	Total       int64             `json:"total"`
}

type IPropertyService interface {
	List(ctx context.Context, params url.Values) (*PropertyPage, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.Property, error)
	GetForOwner(ctx context.Context, ident auth.Identity, id primitive.ObjectID) (*models.Property, error)
	Create(ctx context.Context, ident auth.Identity, input PropertyInput) (*models.Property, error)
	Update(ctx context.Context, ident auth.Identity, id primitive.ObjectID, update PropertyUpdate) (*models.Property, error)
	Delete(ctx context.Context, ident auth.Identity, id primitive.ObjectID) error
	ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Property, error)
	AddImage(ctx context.Context, ident auth.Identity, id primitive.ObjectID, image models.Image) (*models.Property, error)
}

type propertyService struct {
	db  *mongo.Database
	cfg *config.Config
}

func NewPropertyService(db *mongo.Database, cfg *config.Config) IPropertyService {
	return &propertyService{db: db, cfg: cfg}
}

func (s *propertyService) properties() *mongo.Collection {
	return s.db.Collection("properties")
}

func (s *propertyService) List(ctx context.Context, params url.Values) (*PropertyPage, error) {
	p := query.ParsePagination(params, s.cfg.PropertyPageLimit)
	filter := bson.M{"status": models.PropertyStatusAvailable}

	if location := params.Get("location"); location != "" {
		rx := query.CaseInsensitive(location)
		filter["$or"] = []bson.M{
			{"location.city": rx},
			{"location.state": rx},
			{"location.address": rx},
		}
	}
	if typ := params.Get("type"); !query.IsSentinel(typ) {
		filter["type"] = typ
	}
	if bedrooms := params.Get("bedrooms"); !query.IsSentinel(bedrooms) {
		if n, err := strconv.Atoi(bedrooms); err == nil {
			filter["bedrooms"] = n
		}
	}
	if priceRange, ok := query.FloatRange(params.Get("minPrice"), params.Get("maxPrice")); ok {
		filter["price"] = priceRange
	}
	if search := params.Get("search"); search != "" {
		filter["$text"] = bson.M{"$search": search}
	}
	if params.Get("featured") == "true" {
		filter["featured"] = true
	}

	sort := query.SortSpec(params.Get("sortBy"), params.Get("sortOrder"), "created_at")

	properties := []models.Property{}
	total, err := query.FindPage(ctx, s.properties(), filter, sort, p, &properties)
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	return &PropertyPage{
		Properties:  properties,
		TotalPages:  p.TotalPages(total),
		CurrentPage: p.Page,
		Total:       total,
	}, nil
}

// Get fetches a single property and increments its view counter in the
// same operation, so concurrent reads never lose a count.
func (s *propertyService) Get(ctx context.Context, id primitive.ObjectID) (*models.Property, error) {
	var property models.Property
	err := s.properties().FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"views": 1}},
		findAfter(),
	).Decode(&property)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get property: %w", err)
	}
	return &property, nil
}

// GetForOwner fetches a property without touching the view counter,
// rejecting callers who do not manage the listing.
func (s *propertyService) GetForOwner(ctx context.Context, ident auth.Identity, id primitive.ObjectID) (*models.Property, error) {
	var property models.Property
	err := s.properties().FindOne(ctx, bson.M{"_id": id}).Decode(&property)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find property: %w", err)
	}
	if !ident.IsOwnerOrAdmin(property.OwnerID) {
		return nil, ErrUnauthorized
	}
	return &property, nil
}

func (s *propertyService) Create(ctx context.Context, ident auth.Identity, input PropertyInput) (*models.Property, error) {
	if !ident.CanManageListings() {
		return nil, ErrUnauthorized
	}
	if input.Title == "" || input.Description == "" {
		return nil, fmt.Errorf("%w: title and description are required", ErrValidation)
	}
	if input.Location.Address == "" || input.Location.City == "" {
		return nil, fmt.Errorf("%w: address and city are required", ErrValidation)
	}
	if input.Price <= 0 {
		return nil, fmt.Errorf("%w: price must be positive", ErrValidation)
	}
	if !models.ValidPropertyType(input.Type) {
		return nil, fmt.Errorf("%w: invalid property type", ErrValidation)
	}

	now := time.Now().UTC()
	property := models.Property{
		ID:           primitive.NewObjectID(),
		Title:        input.Title,
		Description:  input.Description,
		Location:     input.Location,
		Price:        input.Price,
		Type:         input.Type,
		Bedrooms:     input.Bedrooms,
		Bathrooms:    input.Bathrooms,
		Area:         input.Area,
		Images:       input.Images,
		Amenities:    input.Amenities,
		OwnerID:      ident.UserID,
		Status:       models.PropertyStatusAvailable,
		Availability: input.Availability,
		Rules:        input.Rules,
		Utilities:    input.Utilities,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if property.Images == nil {
		property.Images = []models.Image{}
	}
	if property.Amenities == nil {
		property.Amenities = []string{}
	}

	if _, err := s.properties().InsertOne(ctx, property); err != nil {
		return nil, fmt.Errorf("failed to insert property: %w", err)
	}
	return &property, nil
}

func (s *propertyService) Update(ctx context.Context, ident auth.Identity, id primitive.ObjectID, update PropertyUpdate) (*models.Property, error) {
	var existing models.Property
	err := s.properties().FindOne(ctx, bson.M{"_id": id}).Decode(&existing)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find property: %w", err)
	}
	if !ident.IsOwnerOrAdmin(existing.OwnerID) {
		return nil, ErrUnauthorized
	}

	// Typed values marshal through the model's bson tags, so nested
	// documents keep their stored field names.
	set := bson.M{"updated_at": time.Now().UTC()}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Location != nil {
		set["location"] = update.Location
	}
	if update.Price != nil {
		set["price"] = *update.Price
	}
	if update.Type != nil {
		if !models.ValidPropertyType(*update.Type) {
			return nil, fmt.Errorf("%w: invalid property type", ErrValidation)
		}
		set["type"] = *update.Type
	}
	if update.Bedrooms != nil {
		set["bedrooms"] = *update.Bedrooms
	}
	if update.Bathrooms != nil {
		set["bathrooms"] = *update.Bathrooms
	}
	if update.Area != nil {
		set["area"] = *update.Area
	}
	if update.Images != nil {
		set["images"] = update.Images
	}
	if update.Amenities != nil {
		set["amenities"] = update.Amenities
	}
	if update.Status != nil {
		if !models.ValidPropertyStatus(*update.Status) {
			return nil, fmt.Errorf("%w: invalid property status", ErrValidation)
		}
		set["status"] = *update.Status
	}
	if update.Availability != nil {
		set["availability"] = update.Availability
	}
	if update.Rules != nil {
		set["rules"] = update.Rules
	}
	if update.Utilities != nil {
		set["utilities"] = update.Utilities
	}

	var property models.Property
	err = s.properties().FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		findAfter(),
	).Decode(&property)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update property: %w", err)
	}
	return &property, nil
}

func (s *propertyService) Delete(ctx context.Context, ident auth.Identity, id primitive.ObjectID) error {
	var existing models.Property
	err := s.properties().FindOne(ctx, bson.M{"_id": id}).Decode(&existing)
	if err == mongo.ErrNoDocuments {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to find property: %w", err)
	}
	if !ident.IsOwnerOrAdmin(existing.OwnerID) {
		return ErrUnauthorized
	}
	if _, err := s.properties().DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete property: %w", err)
	}
	return nil
}

func (s *propertyService) ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Property, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.properties().Find(ctx, bson.M{"owner": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list owner properties: %w", err)
	}
	properties := []models.Property{}
	if err := cursor.All(ctx, &properties); err != nil {
		return nil, fmt.Errorf("failed to decode properties: %w", err)
	}
	return properties, nil
}

func (s *propertyService) AddImage(ctx context.Context, ident auth.Identity, id primitive.ObjectID, image models.Image) (*models.Property, error) {
	if image.URL == "" {
		return nil, fmt.Errorf("%w: image url is required", ErrValidation)
	}
	var existing models.Property
	err := s.properties().FindOne(ctx, bson.M{"_id": id}).Decode(&existing)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find property: %w", err)
	}
	if !ident.IsOwnerOrAdmin(existing.OwnerID) {
		return nil, ErrUnauthorized
	}

	var property models.Property
	err = s.properties().FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{
			"$push": bson.M{"images": image},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
		findAfter(),
	).Decode(&property)
	if err != nil {
		return nil, fmt.Errorf("failed to add image: %w", err)
	}
	return &property, nil
}
