package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"househunt/api/internal/config"
	"househunt/api/internal/email"
	"househunt/api/internal/models"
)

const (
	TypeInquiryNotify = "inquiry:notify"
)

// Inquiry notification kinds.
const (
	KindNewInquiry      = "new"
	KindInquiryResponse = "response"
)

// InquiryNotifyPayload is the payload for TypeInquiryNotify tasks.
type InquiryNotifyPayload struct {
	InquiryID string `json:"inquiry_id"`
	Kind      string `json:"kind"`
}

// NewInquiryNotifyTask builds the asynq task announcing inquiry activity.
func NewInquiryNotifyTask(inquiryID primitive.ObjectID, kind string) (*asynq.Task, error) {
	payload, err := json.Marshal(InquiryNotifyPayload{InquiryID: inquiryID.Hex(), Kind: kind})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal inquiry notify payload: %w", err)
	}
	return asynq.NewTask(TypeInquiryNotify, payload), nil
}

// --- Task Client (Enqueuing tasks) ---

func NewClient(rdb *redis.Client) *asynq.Client {
	clientOpt := asynq.RedisClientOpt{
		Addr:     rdb.Options().Addr,
		Password: rdb.Options().Password,
		DB:       rdb.Options().DB,
	}
	return asynq.NewClient(clientOpt)
}

// --- Task Server (Processing tasks) ---

// TaskProcessor holds the dependencies task handlers need.
type TaskProcessor struct {
	cfg         *config.Config
	emailSender email.Sender
	db          *mongo.Database
}

func NewTaskProcessor(cfg *config.Config, emailSender email.Sender, db *mongo.Database) *TaskProcessor {
	return &TaskProcessor{
		cfg:         cfg,
		emailSender: emailSender,
		db:          db,
	}
}

// SetupServer configures, starts and returns an Asynq server. Returns nil
// when the run mode does not include background processing.
func SetupServer(rdb *redis.Client, processor *TaskProcessor, isBgWorker bool) *asynq.Server {
	if !isBgWorker {
		log.Println("Running in API mode, no task server started.")
		return nil
	}

	serverOpt := asynq.RedisClientOpt{
		Addr:     rdb.Options().Addr,
		Password: rdb.Options().Password,
		DB:       rdb.Options().DB,
	}

	srv := asynq.NewServer(
		serverOpt,
		asynq.Config{
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Printf("[Asynq Error] Task Type: %s, Payload: %s, Error: %v", task.Type(), string(task.Payload()), err)
			}),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeInquiryNotify, processor.HandleInquiryNotifyTask)
	log.Println("Registered background task handlers.")

	if err := srv.Start(mux); err != nil {
		log.Fatalf("Could not start Asynq server: %v", err)
	}

	return srv
}

// --- Task Handlers ---

// HandleInquiryNotifyTask emails the party on the other side of an inquiry:
// the owner when a renter asks, the renter when the owner replies.
func (p *TaskProcessor) HandleInquiryNotifyTask(ctx context.Context, t *asynq.Task) error {
	var payload InquiryNotifyPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal inquiry notify payload: %v: %w", err, asynq.SkipRetry)
	}

	inquiryID, err := primitive.ObjectIDFromHex(payload.InquiryID)
	if err != nil {
		return fmt.Errorf("invalid inquiry id %q: %w", payload.InquiryID, asynq.SkipRetry)
	}

	var inquiry models.Inquiry
	err = p.db.Collection("inquiries").FindOne(ctx, bson.M{"_id": inquiryID}).Decode(&inquiry)
	if err == mongo.ErrNoDocuments {
		// Deleted before the task ran, nothing left to notify about.
		return fmt.Errorf("inquiry %s no longer exists: %w", payload.InquiryID, asynq.SkipRetry)
	}
	if err != nil {
		return fmt.Errorf("failed to load inquiry %s: %w", payload.InquiryID, err)
	}

	var property models.Property
	err = p.db.Collection("properties").FindOne(ctx, bson.M{"_id": inquiry.PropertyID}).Decode(&property)
	if err != nil {
		return fmt.Errorf("failed to load property for inquiry %s: %w", payload.InquiryID, err)
	}

	var recipientID primitive.ObjectID
	var subject, body string
	switch payload.Kind {
	case KindNewInquiry:
		recipientID = inquiry.OwnerID
		subject = fmt.Sprintf("New inquiry about %s", property.Title)
		body = fmt.Sprintf("You have a new inquiry about your listing %q:\r\n\r\n%s\r\n", property.Title, inquiry.Message)
	case KindInquiryResponse:
		recipientID = inquiry.RenterID
		subject = fmt.Sprintf("The owner of %s replied to your inquiry", property.Title)
		message := ""
		if inquiry.Response != nil {
			message = inquiry.Response.Message
		}
		body = fmt.Sprintf("The owner of %q replied to your inquiry:\r\n\r\n%s\r\n", property.Title, message)
	default:
		return fmt.Errorf("unknown inquiry notify kind %q: %w", payload.Kind, asynq.SkipRetry)
	}

	var recipient models.User
	err = p.db.Collection("users").FindOne(ctx, bson.M{"_id": recipientID}).Decode(&recipient)
	if err == mongo.ErrNoDocuments {
		return fmt.Errorf("recipient for inquiry %s no longer exists: %w", payload.InquiryID, asynq.SkipRetry)
	}
	if err != nil {
		return fmt.Errorf("failed to load recipient: %w", err)
	}

	fromAddress := p.cfg.SmtpFromAddress
	if fromAddress == "" {
		fromAddress = "noreply@example.com"
		log.Printf("Warning: SmtpFromAddress not configured, using fallback %s", fromAddress)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("To: %s\r\n", recipient.Email))
	sb.WriteString(fmt.Sprintf("From: %s\r\n", fromAddress))
	sb.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	sb.WriteString("Date: " + time.Now().Format(time.RFC1123Z) + "\r\n")
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(body)

	if err := p.emailSender.Send(ctx, []string{recipient.Email}, subject, []byte(sb.String())); err != nil {
		log.Printf("Inquiry notification failed (will retry): %v", err)
		return err
	}

	log.Printf("Inquiry notification sent: inquiry=%s kind=%s to=%s", payload.InquiryID, payload.Kind, recipient.Email)
	return nil
}
