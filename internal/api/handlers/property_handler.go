package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"househunt/api/internal/models"
	"househunt/api/internal/services"
	"househunt/api/internal/storage"
)

// PropertyHandler handles REST requests for property listings.
type PropertyHandler struct {
	propertyService services.IPropertyService
	userService     services.IUserService
	storage         storage.IS3Storage
}

func NewPropertyHandler(propertyService services.IPropertyService, userService services.IUserService, s3 storage.IS3Storage) *PropertyHandler {
	return &PropertyHandler{
		propertyService: propertyService,
		userService:     userService,
		storage:         s3,
	}
}

type propertyRequest struct {
	Title        string               `json:"title" binding:"required"`
	Description  string               `json:"description" binding:"required"`
	Location     models.Location      `json:"location" binding:"required"`
	Price        float64              `json:"price" binding:"required"`
	Type         string               `json:"type" binding:"required"`
	Bedrooms     int                  `json:"bedrooms"`
	Bathrooms    int                  `json:"bathrooms"`
	Area         float64              `json:"area"`
	Images       []models.Image       `json:"images"`
	Amenities    []string             `json:"amenities"`
	Availability *models.Availability `json:"availability"`
	Rules        *models.Rules        `json:"rules"`
	Utilities    *models.Utilities    `json:"utilities"`
}

type propertyUpdateRequest struct {
	Title        *string                `json:"title"`
	Description  *string                `json:"description"`
	Location     *models.Location       `json:"location"`
	Price        *float64               `json:"price"`
	Type         *models.PropertyType   `json:"type"`
	Bedrooms     *int                   `json:"bedrooms"`
	Bathrooms    *int                   `json:"bathrooms"`
	Area         *float64               `json:"area"`
	Images       []models.Image         `json:"images"`
	Amenities    []string               `json:"amenities"`
	Status       *models.PropertyStatus `json:"status"`
	Availability *models.Availability   `json:"availability"`
	Rules        *models.Rules          `json:"rules"`
	Utilities    *models.Utilities      `json:"utilities"`
}

type uploadURLRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
}

// List handles GET /api/properties
func (h *PropertyHandler) List(c *gin.Context) {
	page, err := h.propertyService.List(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Get handles GET /api/properties/:id
func (h *PropertyHandler) Get(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	property, err := h.propertyService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"property": property})
}

// Create handles POST /api/properties
func (h *PropertyHandler) Create(c *gin.Context) {
	ident, ok := mustIdentity(c)
	if !ok {
		return
	}

	var req propertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	property, err := h.propertyService.Create(c.Request.Context(), ident, services.PropertyInput{
		Title:        req.Title,
		Description:  req.Description,
		Location:     req.Location,
		Price:        req.Price,
		Type:         models.PropertyType(req.Type),
		Bedrooms:     req.Bedrooms,
		Bathrooms:    req.Bathrooms,
		Area:         req.Area,
		Images:       req.Images,
		Amenities:    req.Amenities,
		Availability: req.Availability,
		Rules:        req.Rules,
		Utilities:    req.Utilities,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"property": property})
}

// Update handles PUT /api/properties/:id
func (h *PropertyHandler) Update(c *gin.Context) {
	ident, ok := mustIdentity(c)
	if !ok {
		return
	}
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var req propertyUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	property, err := h.propertyService.Update(c.Request.Context(), ident, id, services.PropertyUpdate{
		Title:        req.Title,
		Description:  req.Description,
		Location:     req.Location,
		Price:        req.Price,
		Type:         req.Type,
		Bedrooms:     req.Bedrooms,
		Bathrooms:    req.Bathrooms,
		Area:         req.Area,
		Images:       req.Images,
		Amenities:    req.Amenities,
		Status:       req.Status,
		Availability: req.Availability,
		Rules:        req.Rules,
		Utilities:    req.Utilities,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"property": property})
}

// Delete handles DELETE /api/properties/:id
func (h *PropertyHandler) Delete(c *gin.Context) {
	ident, ok := mustIdentity(c)
	if !ok {
		return
	}
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.propertyService.Delete(c.Request.Context(), ident, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Property deleted successfully"})
}

// ListByOwner handles GET /api/properties/owner/:ownerId
func (h *PropertyHandler) ListByOwner(c *gin.Context) {
	ownerID, ok := objectIDParam(c, "ownerId")
	if !ok {
		return
	}
	properties, err := h.propertyService.ListByOwner(c.Request.Context(), ownerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"properties": properties})
}

// ToggleFavorite handles POST /api/properties/:id/favorite
func (h *PropertyHandler) ToggleFavorite(c *gin.Context) {
	ident, ok := mustIdentity(c)
	if !ok {
		return
	}
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	favorited, err := h.userService.ToggleFavorite(c.Request.Context(), ident.UserID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorited": favorited})
}

// ImageUploadURL handles POST /api/properties/:id/images/upload-url
func (h *PropertyHandler) ImageUploadURL(c *gin.Context) {
	ident, ok := mustIdentity(c)
	if !ok {
		return
	}
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var req uploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	property, err := h.propertyService.GetForOwner(c.Request.Context(), ident, id)
	if err != nil {
		respondError(c, err)
		return
	}

	url, key, err := h.storage.GeneratePresignedPutURL(c.Request.Context(), property.ID.Hex(), req.Filename, req.ContentType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"uploadUrl": url,
		"key":       key,
		"publicUrl": h.storage.ObjectURL(key),
	})
}

// AddImage handles POST /api/properties/:id/images
func (h *PropertyHandler) AddImage(c *gin.Context) {
	ident, ok := mustIdentity(c)
	if !ok {
		return
	}
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var image models.Image
	if err := c.ShouldBindJSON(&image); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	property, err := h.propertyService.AddImage(c.Request.Context(), ident, id, image)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"property": property})
}
