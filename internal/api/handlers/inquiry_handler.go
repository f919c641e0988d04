package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"househunt/api/internal/models"
	"househunt/api/internal/services"
	"househunt/api/internal/tasks"
)

// IAsynqClient abstracts the asynq client for enqueueing tasks, mockable
// in tests.
type IAsynqClient interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// InquiryHandler handles REST requests for rental inquiries.
type InquiryHandler struct {
	inquiryService services.IInquiryService
	taskClient     IAsynqClient
}

func NewInquiryHandler(inquiryService services.IInquiryService, taskClient IAsynqClient) *InquiryHandler {
	return &InquiryHandler{
		inquiryService: inquiryService,
		taskClient:     taskClient,
	}
}

type inquiryRequest struct {
	PropertyID string              `json:"propertyId" binding:"required"`
	Message    string              `json:"message" binding:"required"`
	Contact    *models.ContactInfo `json:"contact"`
}

type inquiryStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type inquiryRespondRequest struct {
	Message string `json:"message" binding:"required"`
}

type scheduleViewingRequest struct {
	ViewingDate time.Time `json:"viewingDate" binding:"required"`
}

// Create handles POST /api/inquiries
func (h *InquiryHandler) Create(c *gin.Context) {
	ident, ok := mustIdentity(c)
	if !ok {
		return
	}

	var req inquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	propertyID, err := primitive.ObjectIDFromHex(req.PropertyID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid property id format"})
		return
	}

	inquiry, err := h.inquiryService.Create(c.Request.Context(), ident, services.InquiryInput{
		PropertyID: propertyID,
		Message:    req.Message,
		Contact:    req.Contact,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.enqueueNotify(c.Request.Context(), inquiry.ID, tasks.KindNewInquiry)

	c.JSON(http.StatusCreated, gin.H{"inquiry": inquiry})
}

// MyInquiries handles GET /api/inquiries/my-inquiries
func (h *InquiryHandler) MyInquiries(c *gin.Context) {
	ident, ok := mustIdentity(c)
	if !ok {
		return
	}
	inquiries, err := h.inquiryService.ListByRenter(c.Request.Context(), ident.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"inquiries": inquiries})
}

// Received handles GET /api/inquiries/received
func (h *InquiryHandler) Received(c *gin.Context) {
	ident, ok := mustIdentity(c)
	if !ok {
		return
	}
	inquiries, err := h.inquiryService.ListReceived(c.Request.Context(), ident)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"inquiries": inquiries})
}

// UpdateStatus handles PUT /api/inquiries/:id/status
func (h *InquiryHandler) UpdateStatus(c *gin.Context) {
	ident, ok := mustIdentity(c)
	if !ok {
		return
	}
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var req inquiryStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	inquiry, err := h.inquiryService.UpdateStatus(c.Request.Context(), ident, id, models.InquiryStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"inquiry": inquiry})
}

// Respond handles PUT /api/inquiries/:id/respond
func (h *InquiryHandler) Respond(c *gin.Context) {
	ident, ok := mustIdentity(c)
	if !ok {
		return
	}
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var req inquiryRespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	inquiry, err := h.inquiryService.Respond(c.Request.Context(), ident, id, req.Message)
	if err != nil {
		respondError(c, err)
		return
	}

	h.enqueueNotify(c.Request.Context(), inquiry.ID, tasks.KindInquiryResponse)

	c.JSON(http.StatusOK, gin.H{"inquiry": inquiry})
}

// ScheduleViewing handles PUT /api/inquiries/:id/schedule-viewing
func (h *InquiryHandler) ScheduleViewing(c *gin.Context) {
	ident, ok := mustIdentity(c)
	if !ok {
		return
	}
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var req scheduleViewingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	inquiry, err := h.inquiryService.ScheduleViewing(c.Request.Context(), ident, id, req.ViewingDate)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"inquiry": inquiry})
}

// enqueueNotify fires the notification task. Failures are logged, not
// surfaced; the inquiry write already succeeded.
func (h *InquiryHandler) enqueueNotify(ctx context.Context, inquiryID primitive.ObjectID, kind string) {
	if h.taskClient == nil {
		return
	}
	task, err := tasks.NewInquiryNotifyTask(inquiryID, kind)
	if err != nil {
		log.Printf("Failed to build inquiry notify task: %v", err)
		return
	}
	if _, err := h.taskClient.EnqueueContext(ctx, task, asynq.Queue("default")); err != nil {
		log.Printf("Failed to enqueue inquiry notify task for %s: %v", inquiryID.Hex(), err)
	}
}
