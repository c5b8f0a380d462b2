// File: internal/platform/mongo/client.go
package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/quentinL52/ai-interview-back/internal/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Database wraps the mongo database handle so Wire can disambiguate the type.
type Database struct {
	*mongo.Database
	client *mongo.Client
}

// NewDatabase connects to MongoDB and returns a handle on the configured database.
func NewDatabase(cfg *config.Config, logger *zap.Logger) (*Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	logger.Info("MongoDB client initialized", zap.String("database", cfg.MongoDBName))
	return &Database{Database: client.Database(cfg.MongoDBName), client: client}, nil
}

// Close disconnects the underlying client.
func (d *Database) Close(ctx context.Context) error {
	if d == nil || d.client == nil {
		return nil
	}
	return d.client.Disconnect(ctx)
}
