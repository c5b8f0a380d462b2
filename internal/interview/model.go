// File: internal/interview/model.go
package interview

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message roles.
const (
	RoleUser  = "user"
	RoleAgent = "agent"
)

// Message is a single turn of an interview conversation.
type Message struct {
	Role    string `bson:"role" json:"role"`
	Content string `bson:"content" json:"content"`
}

// CVDocument stores the structured profile the model extracted from an
// uploaded résumé.
type CVDocument struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     string             `bson:"user_id" json:"user_id"`
	FileName   string             `bson:"file_name" json:"file_name"`
	StoredPath string             `bson:"stored_path,omitempty" json:"-"`
	Profile    bson.M             `bson:"profile" json:"profile"`
	UploadedAt time.Time          `bson:"uploaded_at" json:"uploaded_at"`
}

// InterviewDocument stores a simulated interview. The conversation holds the
// full ordered transcript, starting with the candidate's opening prompt.
type InterviewDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       string             `bson:"user_id" json:"user_id"`
	CVID         string             `bson:"cv_id,omitempty" json:"cv_id,omitempty"`
	Conversation []Message          `bson:"conversation" json:"conversation"`
	StartTime    time.Time          `bson:"start_time" json:"start_time"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

// FeedbackDocument stores feedback attached to an interview.
type FeedbackDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	InterviewID string             `bson:"interview_id" json:"interview_id"`
	UserID      string             `bson:"user_id" json:"user_id"`
	Feedback    bson.M             `bson:"feedback" json:"feedback"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}

// --- DTOs (Data Transfer Objects) for API requests/responses ---

// StartSimulationRequest opens a new simulated interview.
type StartSimulationRequest struct {
	Prompt string `json:"prompt" binding:"required"`
	CVID   string `json:"cv_id,omitempty"`
}

// ContinueSimulationRequest adds a candidate reply to a running interview.
type ContinueSimulationRequest struct {
	Message string `json:"message" binding:"required"`
}

// SubmitFeedbackRequest attaches feedback to an interview.
type SubmitFeedbackRequest struct {
	InterviewID string                 `json:"interview_id" binding:"required"`
	Feedback    map[string]interface{} `json:"feedback" binding:"required"`
}

// CVUploadResponse is returned after a résumé was parsed and stored.
type CVUploadResponse struct {
	CVID     string `json:"cv_id"`
	FileName string `json:"file_name"`
	Profile  bson.M `json:"profile"`
}

// InterviewResponse is the public projection of an interview.
type InterviewResponse struct {
	ID           string    `json:"id"`
	CVID         string    `json:"cv_id,omitempty"`
	Conversation []Message `json:"conversation"`
	StartTime    time.Time `json:"start_time"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FeedbackResponse is returned after feedback was stored.
type FeedbackResponse struct {
	ID          string    `json:"id"`
	InterviewID string    `json:"interview_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToInterviewResponse converts an InterviewDocument to its public projection.
func ToInterviewResponse(doc *InterviewDocument) InterviewResponse {
	return InterviewResponse{
		ID:           doc.ID.Hex(),
		CVID:         doc.CVID,
		Conversation: doc.Conversation,
		StartTime:    doc.StartTime,
		UpdatedAt:    doc.UpdatedAt,
	}
}
