// File: internal/interview/repository.go
package interview

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/quentinL52/ai-interview-back/internal/common"
	"github.com/quentinL52/ai-interview-back/internal/config"
	platformmongo "github.com/quentinL52/ai-interview-back/internal/platform/mongo"
)

// Repository defines the interface for interview document operations.
type Repository interface {
	InsertCV(ctx context.Context, doc *CVDocument) (string, error)
	FindCVByID(ctx context.Context, id string) (*CVDocument, error)
	InsertInterview(ctx context.Context, doc *InterviewDocument) (string, error)
	FindInterviewByID(ctx context.Context, id string) (*InterviewDocument, error)
	ReplaceConversation(ctx context.Context, id string, conversation []Message, updatedAt time.Time) error
	InsertFeedback(ctx context.Context, doc *FeedbackDocument) (string, error)
}

type mongoRepository struct {
	cvs        *mongo.Collection
	interviews *mongo.Collection
	feedback   *mongo.Collection
}

// NewMongoRepository creates a new MongoDB interview repository.
// THIS MUST RETURN THE INTERFACE TYPE: interview.Repository
func NewMongoRepository(db *platformmongo.Database, cfg *config.Config) Repository {
	return &mongoRepository{
		cvs:        db.Collection(cfg.MongoCVCollection),
		interviews: db.Collection(cfg.MongoInterviewCollection),
		feedback:   db.Collection(cfg.MongoFeedbackCollection),
	}
}

// InsertCV stores a parsed CV document and returns its hex ID.
func (r *mongoRepository) InsertCV(ctx context.Context, doc *CVDocument) (string, error) {
	res, err := r.cvs.InsertOne(ctx, doc)
	if err != nil {
		return "", err
	}
	oid := res.InsertedID.(primitive.ObjectID)
	doc.ID = oid
	return oid.Hex(), nil
}

// FindCVByID retrieves a CV document by its hex ID.
func (r *mongoRepository) FindCVByID(ctx context.Context, id string) (*CVDocument, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, common.ErrNotFound.WithDetails("CV not found with this ID.")
	}
	var doc CVDocument
	err = r.cvs.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrNotFound.WithDetails("CV not found with this ID.")
		}
		return nil, err
	}
	return &doc, nil
}

// InsertInterview stores a new interview document and returns its hex ID.
func (r *mongoRepository) InsertInterview(ctx context.Context, doc *InterviewDocument) (string, error) {
	res, err := r.interviews.InsertOne(ctx, doc)
	if err != nil {
		return "", err
	}
	oid := res.InsertedID.(primitive.ObjectID)
	doc.ID = oid
	return oid.Hex(), nil
}

// FindInterviewByID retrieves an interview document by its hex ID. A
// malformed ID is reported the same way as a missing document.
func (r *mongoRepository) FindInterviewByID(ctx context.Context, id string) (*InterviewDocument, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, common.ErrNotFound.WithDetails("Interview not found with this ID.")
	}
	var doc InterviewDocument
	err = r.interviews.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrNotFound.WithDetails("Interview not found with this ID.")
		}
		return nil, err
	}
	return &doc, nil
}

// ReplaceConversation overwrites the full conversation of an interview. The
// whole transcript is written back each turn; there is no per-message append.
func (r *mongoRepository) ReplaceConversation(ctx context.Context, id string, conversation []Message, updatedAt time.Time) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return common.ErrNotFound.WithDetails("Interview not found with this ID.")
	}
	res, err := r.interviews.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"conversation": conversation, "updated_at": updatedAt}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return common.ErrNotFound.WithDetails("Interview not found with this ID.")
	}
	return nil
}

// InsertFeedback stores a feedback document and returns its hex ID. The
// referenced interview is not checked for existence.
func (r *mongoRepository) InsertFeedback(ctx context.Context, doc *FeedbackDocument) (string, error) {
	res, err := r.feedback.InsertOne(ctx, doc)
	if err != nil {
		return "", err
	}
	oid := res.InsertedID.(primitive.ObjectID)
	doc.ID = oid
	return oid.Hex(), nil
}
