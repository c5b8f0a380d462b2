// File: internal/platform/elasticsearch/index.go
package elasticsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"
)

const InterviewsIndexName = "interviews"

// defineInterviewsMapping returns the JSON string for the interviews index mapping.
func defineInterviewsMapping() (string, error) {
	mapping := map[string]interface{}{
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"interview_id": map[string]interface{}{"type": "keyword"},
				"user_id":      map[string]interface{}{"type": "keyword"},
				"cv_id":        map[string]interface{}{"type": "keyword"},
				"conversation": map[string]interface{}{"type": "text"},
				"start_time":   map[string]interface{}{"type": "date"},
			},
		},
	}
	mappingBytes, err := json.Marshal(mapping)
	if err != nil {
		return "", fmt.Errorf("error marshalling interviews mapping to JSON: %w", err)
	}
	return string(mappingBytes), nil
}

// CreateInterviewsIndexIfNotExists creates the interviews index with the
// defined mapping if it does not already exist.
func CreateInterviewsIndexIfNotExists(client *ESClientWrapper, logger *zap.Logger) error {
	if !client.Enabled() {
		return nil
	}

	ctx := context.Background()
	log := logger.Named("elasticsearch_index_setup")

	req := esapi.IndicesExistsRequest{
		Index: []string{InterviewsIndexName},
	}
	res, err := req.Do(ctx, client.Client)
	if err != nil {
		return fmt.Errorf("error checking if interviews index exists: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		log.Info("Interviews index already exists", zap.String("index_name", InterviewsIndexName))
		return nil
	}
	if res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("error checking if interviews index exists: status %s", res.Status())
	}

	mappingJSON, err := defineInterviewsMapping()
	if err != nil {
		return err
	}

	createReq := esapi.IndicesCreateRequest{
		Index: InterviewsIndexName,
		Body:  strings.NewReader(mappingJSON),
	}
	createRes, err := createReq.Do(ctx, client.Client)
	if err != nil {
		return fmt.Errorf("error creating interviews index %s: %w", InterviewsIndexName, err)
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		return fmt.Errorf("failed to create interviews index %s: status %s", InterviewsIndexName, createRes.Status())
	}

	log.Info("Interviews index created successfully", zap.String("index_name", InterviewsIndexName))
	return nil
}
