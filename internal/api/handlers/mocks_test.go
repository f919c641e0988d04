package handlers

import (
	"context"
	"net/url"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"househunt/api/internal/auth"
	"househunt/api/internal/models"
	"househunt/api/internal/services"
)

// --- MockUserService ---

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, input services.RegisterInput) (*models.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, update services.ProfileUpdate) (*models.User, error) {
	args := m.Called(ctx, userID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) ChangePassword(ctx context.Context, userID primitive.ObjectID, current, next string) error {
	args := m.Called(ctx, userID, current, next)
	return args.Error(0)
}

func (m *MockUserService) ListUsers(ctx context.Context, ident auth.Identity, params url.Values) (*services.UserPage, error) {
	args := m.Called(ctx, ident, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.UserPage), args.Error(1)
}

func (m *MockUserService) GetUser(ctx context.Context, ident auth.Identity, id primitive.ObjectID) (*models.User, error) {
	args := m.Called(ctx, ident, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) UpdateStatus(ctx context.Context, ident auth.Identity, id primitive.ObjectID, status models.UserStatus) (*models.User, error) {
	args := m.Called(ctx, ident, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) DeleteUser(ctx context.Context, ident auth.Identity, id primitive.ObjectID) error {
	args := m.Called(ctx, ident, id)
	return args.Error(0)
}

func (m *MockUserService) Stats(ctx context.Context, ident auth.Identity, id primitive.ObjectID) (*services.UserStats, error) {
	args := m.Called(ctx, ident, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.UserStats), args.Error(1)
}

func (m *MockUserService) ToggleFavorite(ctx context.Context, userID, propertyID primitive.ObjectID) (bool, error) {
	args := m.Called(ctx, userID, propertyID)
	return args.Bool(0), args.Error(1)
}

// --- MockPropertyService ---

type MockPropertyService struct {
	mock.Mock
}

func (m *MockPropertyService) List(ctx context.Context, params url.Values) (*services.PropertyPage, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.PropertyPage), args.Error(1)
}

func (m *MockPropertyService) Get(ctx context.Context, id primitive.ObjectID) (*models.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockPropertyService) GetForOwner(ctx context.Context, ident auth.Identity, id primitive.ObjectID) (*models.Property, error) {
	args := m.Called(ctx, ident, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockPropertyService) Create(ctx context.Context, ident auth.Identity, input services.PropertyInput) (*models.Property, error) {
	args := m.Called(ctx, ident, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockPropertyService) Update(ctx context.Context, ident auth.Identity, id primitive.ObjectID, update services.PropertyUpdate) (*models.Property, error) {
	args := m.Called(ctx, ident, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockPropertyService) Delete(ctx context.Context, ident auth.Identity, id primitive.ObjectID) error {
	args := m.Called(ctx, ident, id)
	return args.Error(0)
}

func (m *MockPropertyService) ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Property, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Property), args.Error(1)
}

func (m *MockPropertyService) AddImage(ctx context.Context, ident auth.Identity, id primitive.ObjectID, image models.Image) (*models.Property, error) {
	args := m.Called(ctx, ident, id, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

// --- MockInquiryService ---

type MockInquiryService struct {
	mock.Mock
}

func (m *MockInquiryService) Create(ctx context.Context, ident auth.Identity, input services.InquiryInput) (*models.Inquiry, error) {
	args := m.Called(ctx, ident, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Inquiry), args.Error(1)
}

func (m *MockInquiryService) ListByRenter(ctx context.Context, renterID primitive.ObjectID) ([]models.Inquiry, error) {
	args := m.Called(ctx, renterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Inquiry), args.Error(1)
}

func (m *MockInquiryService) ListReceived(ctx context.Context, ident auth.Identity) ([]models.Inquiry, error) {
	args := m.Called(ctx, ident)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Inquiry), args.Error(1)
}

func (m *MockInquiryService) Get(ctx context.Context, ident auth.Identity, id primitive.ObjectID) (*models.Inquiry, error) {
	args := m.Called(ctx, ident, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Inquiry), args.Error(1)
}

func (m *MockInquiryService) UpdateStatus(ctx context.Context, ident auth.Identity, id primitive.ObjectID, status models.InquiryStatus) (*models.Inquiry, error) {
	args := m.Called(ctx, ident, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Inquiry), args.Error(1)
}

func (m *MockInquiryService) Respond(ctx context.Context, ident auth.Identity, id primitive.ObjectID, message string) (*models.Inquiry, error) {
	args := m.Called(ctx, ident, id, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Inquiry), args.Error(1)
}

func (m *MockInquiryService) ScheduleViewing(ctx context.Context, ident auth.Identity, id primitive.ObjectID, viewingDate time.Time) (*models.Inquiry, error) {
	args := m.Called(ctx, ident, id, viewingDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Inquiry), args.Error(1)
}

// --- MockReviewService ---

type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) List(ctx context.Context, params url.Values) (*services.ReviewPage, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ReviewPage), args.Error(1)
}

func (m *MockReviewService) Create(ctx context.Context, ident auth.Identity, input services.ReviewInput) (*models.Review, error) {
	args := m.Called(ctx, ident, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewService) Update(ctx context.Context, ident auth.Identity, id primitive.ObjectID, update services.ReviewUpdate) (*models.Review, error) {
	args := m.Called(ctx, ident, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewService) Delete(ctx context.Context, ident auth.Identity, id primitive.ObjectID) error {
	args := m.Called(ctx, ident, id)
	return args.Error(0)
}

func (m *MockReviewService) ToggleHelpful(ctx context.Context, ident auth.Identity, id primitive.ObjectID) (*models.Review, bool, error) {
	args := m.Called(ctx, ident, id)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.Review), args.Bool(1), args.Error(2)
}

func (m *MockReviewService) Respond(ctx context.Context, ident auth.Identity, id primitive.ObjectID, message string) (*models.Review, error) {
	args := m.Called(ctx, ident, id, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

// --- MockAsynqClient ---

type MockAsynqClient struct {
	mock.Mock
}

func (m *MockAsynqClient) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	args := m.Called(ctx, task, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*asynq.TaskInfo), args.Error(1)
}

// --- MockS3Storage ---

type MockS3Storage struct {
	mock.Mock
}

func (m *MockS3Storage) GeneratePresignedPutURL(ctx context.Context, propertyID, filename, contentType string) (string, string, error) {
	args := m.Called(ctx, propertyID, filename, contentType)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockS3Storage) ObjectURL(key string) string {
	args := m.Called(key)
	return args.String(0)
}
