// File: internal/platform/elasticsearch/client.go
package elasticsearch

import (
	"net/http"
	"time"

	"github.com/elastic/elastic-transport-go/v8/elastictransport"
	"github.com/elastic/go-elasticsearch/v8"
	"go.uber.org/zap"

	"github.com/quentinL52/ai-interview-back/internal/config"
)

// ESClientWrapper wraps the elasticsearch.Client.
// This helps Wire disambiguate types from external modules, and lets the
// client be nil when search is disabled.
type ESClientWrapper struct {
	*elasticsearch.Client
}

// Enabled reports whether a usable client is present.
func (w *ESClientWrapper) Enabled() bool {
	return w != nil && w.Client != nil
}

// zapTransportLogger adapts zap.Logger to elastictransport.Logger.
type zapTransportLogger struct {
	logger *zap.Logger
}

var _ elastictransport.Logger = (*zapTransportLogger)(nil)

// LogRoundTrip logs request-response metrics at debug level.
func (l *zapTransportLogger) LogRoundTrip(req *http.Request, res *http.Response, err error, start time.Time, dur time.Duration) error {
	var statusCode int
	if res != nil {
		statusCode = res.StatusCode
	}
	l.logger.Debug("Elasticsearch round trip",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.Int("status_code", statusCode),
		zap.Duration("duration", dur),
		zap.Error(err),
	)
	return nil
}

func (l *zapTransportLogger) RequestBodyEnabled() bool  { return false }
func (l *zapTransportLogger) ResponseBodyEnabled() bool { return false }

// NewClient creates a new Elasticsearch client wrapper. Transcript search is
// optional: an empty ELASTICSEARCH_URL yields a disabled wrapper, not an error.
func NewClient(cfg *config.Config, logger *zap.Logger) (*ESClientWrapper, error) {
	if cfg.ElasticsearchURL == "" {
		logger.Info("Elasticsearch URL not configured, transcript search disabled")
		return &ESClientWrapper{}, nil
	}

	retryBackoff := func(i int) time.Duration {
		return time.Duration(i) * 100 * time.Millisecond
	}

	esCfg := elasticsearch.Config{
		Addresses:     []string{cfg.ElasticsearchURL},
		Logger:        &zapTransportLogger{logger: logger.Named("elasticsearch_client")},
		RetryOnStatus: []int{502, 503, 504, 429},
		RetryBackoff:  retryBackoff,
		MaxRetries:    5,
	}

	esClient, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		logger.Error("Error creating Elasticsearch client", zap.Error(err))
		return nil, err
	}

	logger.Info("Elasticsearch client initialized", zap.String("url", cfg.ElasticsearchURL))
	return &ESClientWrapper{Client: esClient}, nil
}
