// File: internal/interview/service.go
package interview

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/quentinL52/ai-interview-back/internal/agent"
	"github.com/quentinL52/ai-interview-back/internal/common"
)

// CVStore retains the raw bytes of uploaded résumés.
type CVStore interface {
	SaveCV(originalFilename string, content []byte) (string, error)
}

// CandidateProfileStore records which parsed CV document belongs to a user.
type CandidateProfileStore interface {
	SetCandidateDocID(ctx context.Context, userID uuid.UUID, docID string) error
}

// Service defines the interface for interview business logic.
type Service interface {
	ProcessCVUpload(ctx context.Context, userID uuid.UUID, filename string, content []byte) (*CVUploadResponse, error)
	StartSimulation(ctx context.Context, userID uuid.UUID, req StartSimulationRequest) (*InterviewResponse, error)
	ContinueSimulation(ctx context.Context, userID uuid.UUID, interviewID string, req ContinueSimulationRequest) (*InterviewResponse, error)
	SubmitFeedback(ctx context.Context, userID uuid.UUID, req SubmitFeedbackRequest) (*FeedbackResponse, error)
	GetInterview(ctx context.Context, userID uuid.UUID, interviewID string) (*InterviewResponse, error)
	SearchTranscripts(ctx context.Context, userID uuid.UUID, query string, size int) ([]TranscriptHit, error)
}

type service struct {
	repo         Repository
	agentClient  agent.Client
	cvStore      CVStore
	profileStore CandidateProfileStore
	searcher     *Searcher
	logger       *zap.Logger
}

// NewService creates a new interview service.
// THIS MUST RETURN THE INTERFACE TYPE: interview.Service
func NewService(
	repo Repository,
	agentClient agent.Client,
	cvStore CVStore,
	profileStore CandidateProfileStore,
	searcher *Searcher,
	logger *zap.Logger,
) Service {
	return &service{
		repo:         repo,
		agentClient:  agentClient,
		cvStore:      cvStore,
		profileStore: profileStore,
		searcher:     searcher,
		logger:       logger.Named("InterviewService"),
	}
}

// upstreamError hides the upstream failure detail behind an opaque 502. The
// cause is logged server-side only.
func (s *service) upstreamError(operation string, err error) error {
	s.logger.Error("Model API call failed", zap.String("operation", operation), zap.Error(err))
	return common.ErrBadGateway.WithDetails("The interview engine is currently unavailable.")
}

// ProcessCVUpload retains the raw résumé, has the model parse it and stores
// the extracted profile as the user's candidate document.
func (s *service) ProcessCVUpload(ctx context.Context, userID uuid.UUID, filename string, content []byte) (*CVUploadResponse, error) {
	if len(content) == 0 {
		return nil, common.ErrBadRequest.WithDetails("Uploaded file is empty.")
	}

	storedPath, err := s.cvStore.SaveCV(filename, content)
	if err != nil {
		s.logger.Error("Failed to retain raw CV", zap.Error(err), zap.String("userID", userID.String()))
		return nil, common.ErrInternalServer.WithDetails("Could not store the uploaded file.")
	}

	parsedJSON, err := s.agentClient.ParseCV(ctx, filename, content)
	if err != nil {
		return nil, s.upstreamError("parse", err)
	}

	var profile bson.M
	if err := json.Unmarshal(parsedJSON, &profile); err != nil {
		s.logger.Error("Model API returned a profile that is not a JSON object", zap.Error(err))
		return nil, common.ErrBadGateway.WithDetails("The interview engine is currently unavailable.")
	}

	doc := &CVDocument{
		UserID:     userID.String(),
		FileName:   filename,
		StoredPath: storedPath,
		Profile:    profile,
		UploadedAt: time.Now().UTC(),
	}
	cvID, err := s.repo.InsertCV(ctx, doc)
	if err != nil {
		s.logger.Error("Failed to store parsed CV document", zap.Error(err), zap.String("userID", userID.String()))
		return nil, common.ErrInternalServer.WithDetails("Could not store the parsed CV.")
	}

	if err := s.profileStore.SetCandidateDocID(ctx, userID, cvID); err != nil {
		// The CV document exists either way; the user record just lost the
		// pointer. Log and keep going.
		s.logger.Error("Failed to link CV document to user", zap.Error(err),
			zap.String("userID", userID.String()), zap.String("cvID", cvID))
	}

	s.logger.Info("CV processed", zap.String("userID", userID.String()), zap.String("cvID", cvID))
	return &CVUploadResponse{
		CVID:     cvID,
		FileName: filename,
		Profile:  profile,
	}, nil
}

// StartSimulation opens a new interview. The stored conversation always has
// exactly two messages afterwards: the candidate's prompt and the
// interviewer's first reply.
func (s *service) StartSimulation(ctx context.Context, userID uuid.UUID, req StartSimulationRequest) (*InterviewResponse, error) {
	if req.CVID != "" {
		cv, err := s.repo.FindCVByID(ctx, req.CVID)
		if err != nil {
			return nil, err
		}
		if cv.UserID != userID.String() {
			return nil, common.ErrForbidden.WithDetails("You do not have access to this CV.")
		}
	}

	reply, err := s.agentClient.Simulate(ctx, req.Prompt)
	if err != nil {
		return nil, s.upstreamError("simulate", err)
	}

	now := time.Now().UTC()
	doc := &InterviewDocument{
		UserID: userID.String(),
		CVID:   req.CVID,
		Conversation: []Message{
			{Role: RoleUser, Content: req.Prompt},
			{Role: RoleAgent, Content: reply},
		},
		StartTime: now,
		UpdatedAt: now,
	}
	interviewID, err := s.repo.InsertInterview(ctx, doc)
	if err != nil {
		s.logger.Error("Failed to store new interview", zap.Error(err), zap.String("userID", userID.String()))
		return nil, common.ErrInternalServer.WithDetails("Could not store the interview.")
	}

	s.indexTranscript(ctx, doc)

	s.logger.Info("Interview started", zap.String("userID", userID.String()), zap.String("interviewID", interviewID))
	resp := ToInterviewResponse(doc)
	return &resp, nil
}

// ContinueSimulation adds the candidate's message, asks the model for the next
// interviewer turn and writes the whole transcript back. Each call grows the
// conversation by exactly two messages.
func (s *service) ContinueSimulation(ctx context.Context, userID uuid.UUID, interviewID string, req ContinueSimulationRequest) (*InterviewResponse, error) {
	doc, err := s.repo.FindInterviewByID(ctx, interviewID)
	if err != nil {
		return nil, err
	}
	if doc.UserID != userID.String() {
		return nil, common.ErrForbidden.WithDetails("You do not have access to this interview.")
	}

	doc.Conversation = append(doc.Conversation, Message{Role: RoleUser, Content: req.Message})

	// The prompt sent upstream is the transcript contents joined by
	// newlines. Role labels are not part of the prompt.
	contents := make([]string, len(doc.Conversation))
	for i, msg := range doc.Conversation {
		contents[i] = msg.Content
	}
	prompt := strings.Join(contents, "\n")

	reply, err := s.agentClient.Simulate(ctx, prompt)
	if err != nil {
		return nil, s.upstreamError("simulate", err)
	}

	doc.Conversation = append(doc.Conversation, Message{Role: RoleAgent, Content: reply})
	doc.UpdatedAt = time.Now().UTC()

	if err := s.repo.ReplaceConversation(ctx, interviewID, doc.Conversation, doc.UpdatedAt); err != nil {
		if _, ok := common.IsAPIError(err); ok {
			return nil, err
		}
		s.logger.Error("Failed to update interview conversation", zap.Error(err), zap.String("interviewID", interviewID))
		return nil, common.ErrInternalServer.WithDetails("Could not update the interview.")
	}

	s.indexTranscript(ctx, doc)

	resp := ToInterviewResponse(doc)
	return &resp, nil
}

// SubmitFeedback stores feedback for an interview. The interview itself is
// not looked up; feedback for an unknown ID is stored as-is.
func (s *service) SubmitFeedback(ctx context.Context, userID uuid.UUID, req SubmitFeedbackRequest) (*FeedbackResponse, error) {
	doc := &FeedbackDocument{
		InterviewID: req.InterviewID,
		UserID:      userID.String(),
		Feedback:    bson.M(req.Feedback),
		CreatedAt:   time.Now().UTC(),
	}
	feedbackID, err := s.repo.InsertFeedback(ctx, doc)
	if err != nil {
		s.logger.Error("Failed to store feedback", zap.Error(err),
			zap.String("userID", userID.String()), zap.String("interviewID", req.InterviewID))
		return nil, common.ErrInternalServer.WithDetails("Could not store the feedback.")
	}

	s.logger.Info("Feedback stored",
		zap.String("userID", userID.String()),
		zap.String("interviewID", req.InterviewID),
		zap.String("feedbackID", feedbackID))
	return &FeedbackResponse{
		ID:          feedbackID,
		InterviewID: req.InterviewID,
		CreatedAt:   doc.CreatedAt,
	}, nil
}

// GetInterview returns a single interview owned by the caller.
func (s *service) GetInterview(ctx context.Context, userID uuid.UUID, interviewID string) (*InterviewResponse, error) {
	doc, err := s.repo.FindInterviewByID(ctx, interviewID)
	if err != nil {
		return nil, err
	}
	if doc.UserID != userID.String() {
		return nil, common.ErrForbidden.WithDetails("You do not have access to this interview.")
	}
	resp := ToInterviewResponse(doc)
	return &resp, nil
}

// SearchTranscripts runs a full-text query over the caller's transcripts.
func (s *service) SearchTranscripts(ctx context.Context, userID uuid.UUID, query string, size int) ([]TranscriptHit, error) {
	if strings.TrimSpace(query) == "" {
		return nil, common.ErrBadRequest.WithDetails("Search query cannot be empty.")
	}
	return s.searcher.Search(ctx, userID.String(), query, size)
}

// indexTranscript pushes the transcript to the search index. Search is a
// secondary concern, so indexing failures never fail the request.
func (s *service) indexTranscript(ctx context.Context, doc *InterviewDocument) {
	if !s.searcher.Enabled() {
		return
	}
	if err := s.searcher.Index(ctx, doc); err != nil {
		s.logger.Warn("Failed to index interview transcript",
			zap.Error(err), zap.String("interviewID", doc.ID.Hex()))
	}
}
