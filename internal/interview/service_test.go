package interview

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/quentinL52/ai-interview-back/internal/common"
	"github.com/quentinL52/ai-interview-back/internal/platform/elasticsearch"
)

// fakeRepository is an in-memory Repository for service tests.
type fakeRepository struct {
	cvs        map[string]*CVDocument
	interviews map[string]*InterviewDocument
	feedback   map[string]*FeedbackDocument
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		cvs:        make(map[string]*CVDocument),
		interviews: make(map[string]*InterviewDocument),
		feedback:   make(map[string]*FeedbackDocument),
	}
}

func (f *fakeRepository) InsertCV(ctx context.Context, doc *CVDocument) (string, error) {
	doc.ID = primitive.NewObjectID()
	copied := *doc
	f.cvs[doc.ID.Hex()] = &copied
	return doc.ID.Hex(), nil
}

func (f *fakeRepository) FindCVByID(ctx context.Context, id string) (*CVDocument, error) {
	if doc, ok := f.cvs[id]; ok {
		copied := *doc
		return &copied, nil
	}
	return nil, common.ErrNotFound.WithDetails("CV not found with this ID.")
}

func (f *fakeRepository) InsertInterview(ctx context.Context, doc *InterviewDocument) (string, error) {
	doc.ID = primitive.NewObjectID()
	copied := *doc
	copied.Conversation = append([]Message(nil), doc.Conversation...)
	f.interviews[doc.ID.Hex()] = &copied
	return doc.ID.Hex(), nil
}

func (f *fakeRepository) FindInterviewByID(ctx context.Context, id string) (*InterviewDocument, error) {
	if doc, ok := f.interviews[id]; ok {
		copied := *doc
		copied.Conversation = append([]Message(nil), doc.Conversation...)
		return &copied, nil
	}
	return nil, common.ErrNotFound.WithDetails("Interview not found with this ID.")
}

func (f *fakeRepository) ReplaceConversation(ctx context.Context, id string, conversation []Message, updatedAt time.Time) error {
	doc, ok := f.interviews[id]
	if !ok {
		return common.ErrNotFound.WithDetails("Interview not found with this ID.")
	}
	doc.Conversation = append([]Message(nil), conversation...)
	doc.UpdatedAt = updatedAt
	return nil
}

func (f *fakeRepository) InsertFeedback(ctx context.Context, doc *FeedbackDocument) (string, error) {
	doc.ID = primitive.NewObjectID()
	copied := *doc
	f.feedback[doc.ID.Hex()] = &copied
	return doc.ID.Hex(), nil
}

// fakeAgent records the prompts it receives and replies with canned text.
type fakeAgent struct {
	parseResult []byte
	parseErr    error
	replies     []string
	simulateErr error
	prompts     []string
}

func (f *fakeAgent) ParseCV(ctx context.Context, filename string, content []byte) ([]byte, error) {
	if f.parseErr != nil {
		return nil, f.parseErr
	}
	return f.parseResult, nil
}

func (f *fakeAgent) Simulate(ctx context.Context, prompt string) (string, error) {
	if f.simulateErr != nil {
		return "", f.simulateErr
	}
	f.prompts = append(f.prompts, prompt)
	reply := "default reply"
	if len(f.replies) > 0 {
		reply = f.replies[0]
		f.replies = f.replies[1:]
	}
	return reply, nil
}

type fakeCVStore struct {
	saved map[string][]byte
}

func (f *fakeCVStore) SaveCV(originalFilename string, content []byte) (string, error) {
	if f.saved == nil {
		f.saved = make(map[string][]byte)
	}
	path := "cvs/" + originalFilename
	f.saved[path] = content
	return path, nil
}

type fakeProfileStore struct {
	links map[uuid.UUID]string
}

func (f *fakeProfileStore) SetCandidateDocID(ctx context.Context, userID uuid.UUID, docID string) error {
	if f.links == nil {
		f.links = make(map[uuid.UUID]string)
	}
	f.links[userID] = docID
	return nil
}

func newTestService(repo Repository, agentClient *fakeAgent) (Service, *fakeCVStore, *fakeProfileStore) {
	cvStore := &fakeCVStore{}
	profileStore := &fakeProfileStore{}
	searcher := NewSearcher(&elasticsearch.ESClientWrapper{}, zap.NewNop())
	svc := NewService(repo, agentClient, cvStore, profileStore, searcher, zap.NewNop())
	return svc, cvStore, profileStore
}

func TestProcessCVUpload(t *testing.T) {
	repo := newFakeRepository()
	agentClient := &fakeAgent{parseResult: []byte(`{"name":"Alice","skills":["go"]}`)}
	svc, cvStore, profileStore := newTestService(repo, agentClient)
	userID := uuid.New()

	resp, err := svc.ProcessCVUpload(context.Background(), userID, "alice-cv.pdf", []byte("raw pdf"))
	require.NoError(t, err)
	require.NotEmpty(t, resp.CVID)
	assert.Equal(t, "alice-cv.pdf", resp.FileName)
	assert.Equal(t, "Alice", resp.Profile["name"])

	// Raw bytes retained and user linked to the parsed document.
	assert.Equal(t, []byte("raw pdf"), cvStore.saved["cvs/alice-cv.pdf"])
	assert.Equal(t, resp.CVID, profileStore.links[userID])

	stored, err := repo.FindCVByID(context.Background(), resp.CVID)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), stored.UserID)
}

func TestProcessCVUploadUpstreamFailure(t *testing.T) {
	repo := newFakeRepository()
	agentClient := &fakeAgent{parseErr: errors.New("connection refused")}
	svc, _, _ := newTestService(repo, agentClient)

	_, err := svc.ProcessCVUpload(context.Background(), uuid.New(), "cv.pdf", []byte("raw"))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrBadGateway)
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.NotContains(t, apiErr.Message, "connection refused", "upstream detail must stay opaque")
	assert.Empty(t, repo.cvs, "no CV document stored on failure")
}

func TestProcessCVUploadEmptyFile(t *testing.T) {
	svc, _, _ := newTestService(newFakeRepository(), &fakeAgent{})

	_, err := svc.ProcessCVUpload(context.Background(), uuid.New(), "cv.pdf", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrBadRequest)
}

func TestStartSimulation(t *testing.T) {
	repo := newFakeRepository()
	agentClient := &fakeAgent{replies: []string{"Welcome. Tell me about your last project."}}
	svc, _, _ := newTestService(repo, agentClient)
	userID := uuid.New()

	resp, err := svc.StartSimulation(context.Background(), userID, StartSimulationRequest{
		Prompt: "Hello, I am ready for the interview.",
	})
	require.NoError(t, err)
	require.Len(t, resp.Conversation, 2, "a fresh interview holds exactly two messages")
	assert.Equal(t, RoleUser, resp.Conversation[0].Role)
	assert.Equal(t, "Hello, I am ready for the interview.", resp.Conversation[0].Content)
	assert.Equal(t, RoleAgent, resp.Conversation[1].Role)
	assert.Equal(t, "Welcome. Tell me about your last project.", resp.Conversation[1].Content)
	assert.Equal(t, []string{"Hello, I am ready for the interview."}, agentClient.prompts)
}

func TestStartSimulationUpstreamFailure(t *testing.T) {
	repo := newFakeRepository()
	agentClient := &fakeAgent{simulateErr: errors.New("timeout")}
	svc, _, _ := newTestService(repo, agentClient)

	_, err := svc.StartSimulation(context.Background(), uuid.New(), StartSimulationRequest{Prompt: "hi"})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrBadGateway)
	assert.Empty(t, repo.interviews, "no interview stored when the first turn fails")
}

func TestStartSimulationWithForeignCV(t *testing.T) {
	repo := newFakeRepository()
	svc, _, _ := newTestService(repo, &fakeAgent{})

	otherUser := uuid.New()
	cvID, err := repo.InsertCV(context.Background(), &CVDocument{UserID: otherUser.String()})
	require.NoError(t, err)

	_, err = svc.StartSimulation(context.Background(), uuid.New(), StartSimulationRequest{
		Prompt: "hi",
		CVID:   cvID,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrForbidden)
}

func TestContinueSimulation(t *testing.T) {
	repo := newFakeRepository()
	agentClient := &fakeAgent{replies: []string{"First reply.", "Second reply."}}
	svc, _, _ := newTestService(repo, agentClient)
	userID := uuid.New()

	started, err := svc.StartSimulation(context.Background(), userID, StartSimulationRequest{Prompt: "Opening."})
	require.NoError(t, err)

	continued, err := svc.ContinueSimulation(context.Background(), userID, started.ID, ContinueSimulationRequest{
		Message: "My answer.",
	})
	require.NoError(t, err)
	require.Len(t, continued.Conversation, 4, "each turn adds exactly two messages")
	assert.Equal(t, RoleUser, continued.Conversation[2].Role)
	assert.Equal(t, "My answer.", continued.Conversation[2].Content)
	assert.Equal(t, RoleAgent, continued.Conversation[3].Role)
	assert.Equal(t, "Second reply.", continued.Conversation[3].Content)

	// The upstream prompt is the transcript contents joined by newlines,
	// without role labels, including the just-added answer.
	require.Len(t, agentClient.prompts, 2)
	assert.Equal(t, "Opening.\nFirst reply.\nMy answer.", agentClient.prompts[1])

	// The update is persisted.
	stored, err := repo.FindInterviewByID(context.Background(), started.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Conversation, 4)
}

func TestContinueSimulationUnknownID(t *testing.T) {
	repo := newFakeRepository()
	svc, _, _ := newTestService(repo, &fakeAgent{})

	_, err := svc.ContinueSimulation(context.Background(), uuid.New(),
		primitive.NewObjectID().Hex(), ContinueSimulationRequest{Message: "hello"})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.Empty(t, repo.interviews, "continuing an unknown interview must not create one")
}

func TestContinueSimulationForeignInterview(t *testing.T) {
	repo := newFakeRepository()
	agentClient := &fakeAgent{}
	svc, _, _ := newTestService(repo, agentClient)

	owner := uuid.New()
	started, err := svc.StartSimulation(context.Background(), owner, StartSimulationRequest{Prompt: "Opening."})
	require.NoError(t, err)

	_, err = svc.ContinueSimulation(context.Background(), uuid.New(), started.ID,
		ContinueSimulationRequest{Message: "not mine"})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrForbidden)
}

func TestContinueSimulationUpstreamFailureLeavesTranscriptUntouched(t *testing.T) {
	repo := newFakeRepository()
	agentClient := &fakeAgent{replies: []string{"First reply."}}
	svc, _, _ := newTestService(repo, agentClient)
	userID := uuid.New()

	started, err := svc.StartSimulation(context.Background(), userID, StartSimulationRequest{Prompt: "Opening."})
	require.NoError(t, err)

	agentClient.simulateErr = errors.New("upstream down")
	_, err = svc.ContinueSimulation(context.Background(), userID, started.ID,
		ContinueSimulationRequest{Message: "My answer."})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrBadGateway)

	stored, err := repo.FindInterviewByID(context.Background(), started.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Conversation, 2, "failed turn must not persist a partial transcript")
}

func TestSubmitFeedbackWithoutExistenceCheck(t *testing.T) {
	repo := newFakeRepository()
	svc, _, _ := newTestService(repo, &fakeAgent{})

	resp, err := svc.SubmitFeedback(context.Background(), uuid.New(), SubmitFeedbackRequest{
		InterviewID: primitive.NewObjectID().Hex(),
		Feedback:    map[string]interface{}{"rating": 4, "notes": "solid answers"},
	})
	require.NoError(t, err, "feedback is stored even for an unknown interview")
	assert.NotEmpty(t, resp.ID)
	assert.Len(t, repo.feedback, 1)
}

func TestGetInterview(t *testing.T) {
	repo := newFakeRepository()
	agentClient := &fakeAgent{}
	svc, _, _ := newTestService(repo, agentClient)
	userID := uuid.New()

	started, err := svc.StartSimulation(context.Background(), userID, StartSimulationRequest{Prompt: "Opening."})
	require.NoError(t, err)

	fetched, err := svc.GetInterview(context.Background(), userID, started.ID)
	require.NoError(t, err)
	assert.Equal(t, started.ID, fetched.ID)
	assert.Len(t, fetched.Conversation, 2)

	_, err = svc.GetInterview(context.Background(), uuid.New(), started.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrForbidden)
}

func TestSearchTranscriptsDisabled(t *testing.T) {
	svc, _, _ := newTestService(newFakeRepository(), &fakeAgent{})

	_, err := svc.SearchTranscripts(context.Background(), uuid.New(), "golang", 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrServiceUnavailable)
}

func TestSearchTranscriptsEmptyQuery(t *testing.T) {
	svc, _, _ := newTestService(newFakeRepository(), &fakeAgent{})

	_, err := svc.SearchTranscripts(context.Background(), uuid.New(), "   ", 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrBadRequest)
}
