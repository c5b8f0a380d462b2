// File: internal/interview/search.go
package interview

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"

	"github.com/quentinL52/ai-interview-back/internal/common"
	"github.com/quentinL52/ai-interview-back/internal/platform/elasticsearch"
)

// TranscriptHit is a single transcript search result.
type TranscriptHit struct {
	InterviewID string  `json:"interview_id"`
	CVID        string  `json:"cv_id,omitempty"`
	Score       float64 `json:"score"`
	Snippet     string  `json:"snippet,omitempty"`
}

// Searcher indexes interview transcripts and answers full-text queries over
// them. When the backing client is disabled every index call is a no-op and
// searches fail with a service-unavailable error.
type Searcher struct {
	es     *elasticsearch.ESClientWrapper
	logger *zap.Logger
}

// NewSearcher creates a transcript searcher.
func NewSearcher(es *elasticsearch.ESClientWrapper, logger *zap.Logger) *Searcher {
	return &Searcher{es: es, logger: logger.Named("transcript_search")}
}

// Enabled reports whether transcript search is configured.
func (s *Searcher) Enabled() bool {
	return s.es.Enabled()
}

type transcriptIndexDoc struct {
	InterviewID  string `json:"interview_id"`
	UserID       string `json:"user_id"`
	CVID         string `json:"cv_id,omitempty"`
	Conversation string `json:"conversation"`
	StartTime    string `json:"start_time"`
}

// Index writes the current transcript of an interview into the search index.
// The document ID is the interview ID, so re-indexing after each turn
// overwrites the previous version.
func (s *Searcher) Index(ctx context.Context, doc *InterviewDocument) error {
	if !s.es.Enabled() {
		return nil
	}

	var sb strings.Builder
	for i, msg := range doc.Conversation {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(msg.Role)
		sb.WriteString(": ")
		sb.WriteString(msg.Content)
	}

	indexDoc := transcriptIndexDoc{
		InterviewID:  doc.ID.Hex(),
		UserID:       doc.UserID,
		CVID:         doc.CVID,
		Conversation: sb.String(),
		StartTime:    doc.StartTime.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
	payload, err := json.Marshal(indexDoc)
	if err != nil {
		return fmt.Errorf("error marshalling transcript for indexing: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      elasticsearch.InterviewsIndexName,
		DocumentID: indexDoc.InterviewID,
		Body:       bytes.NewReader(payload),
	}
	res, err := req.Do(ctx, s.es.Client)
	if err != nil {
		return fmt.Errorf("error indexing transcript %s: %w", indexDoc.InterviewID, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("failed to index transcript %s: status %s", indexDoc.InterviewID, res.Status())
	}
	return nil
}

// Search runs a full-text query over the caller's own transcripts.
func (s *Searcher) Search(ctx context.Context, userID, query string, size int) ([]TranscriptHit, error) {
	if !s.es.Enabled() {
		return nil, common.ErrServiceUnavailable.WithDetails("Transcript search is not enabled.")
	}
	if size <= 0 || size > 50 {
		size = 10
	}

	searchBody := map[string]interface{}{
		"size": size,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": map[string]interface{}{
					"match": map[string]interface{}{
						"conversation": query,
					},
				},
				"filter": map[string]interface{}{
					"term": map[string]interface{}{
						"user_id": userID,
					},
				},
			},
		},
		"highlight": map[string]interface{}{
			"fields": map[string]interface{}{
				"conversation": map[string]interface{}{},
			},
		},
	}
	payload, err := json.Marshal(searchBody)
	if err != nil {
		return nil, fmt.Errorf("error marshalling transcript search query: %w", err)
	}

	res, err := s.es.Search(
		s.es.Search.WithContext(ctx),
		s.es.Search.WithIndex(elasticsearch.InterviewsIndexName),
		s.es.Search.WithBody(bytes.NewReader(payload)),
	)
	if err != nil {
		s.logger.Error("Transcript search request failed", zap.Error(err))
		return nil, common.ErrServiceUnavailable.WithDetails("Transcript search is currently unavailable.")
	}
	defer res.Body.Close()

	if res.IsError() {
		s.logger.Error("Transcript search returned an error status", zap.String("status", res.Status()))
		return nil, common.ErrServiceUnavailable.WithDetails("Transcript search is currently unavailable.")
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Score     float64            `json:"_score"`
				Source    transcriptIndexDoc `json:"_source"`
				Highlight struct {
					Conversation []string `json:"conversation"`
				} `json:"highlight"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		s.logger.Error("Failed to decode transcript search response", zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not process search results.")
	}

	hits := make([]TranscriptHit, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		hit := TranscriptHit{
			InterviewID: h.Source.InterviewID,
			CVID:        h.Source.CVID,
			Score:       h.Score,
		}
		if len(h.Highlight.Conversation) > 0 {
			hit.Snippet = h.Highlight.Conversation[0]
		}
		hits = append(hits, hit)
	}
	return hits, nil
}
