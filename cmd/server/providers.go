// File: cmd/server/providers.go
package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/quentinL52/ai-interview-back/internal/auth"
	"github.com/quentinL52/ai-interview-back/internal/config"
	"github.com/quentinL52/ai-interview-back/internal/filestorage"
	"github.com/quentinL52/ai-interview-back/internal/platform/database"
	platformmongo "github.com/quentinL52/ai-interview-back/internal/platform/mongo"
)

// provideStateStore builds the in-memory OAuth state store from config.
func provideStateStore(cfg *config.Config) *auth.InMemoryStateStore {
	return auth.NewInMemoryStateStore(auth.InMemoryStateStoreConfig{
		TTL:             cfg.OAuthStateTTL,
		CleanupInterval: cfg.OAuthStateTTL,
	})
}

// provideFileStorage builds the CV retention store rooted at CV_STORAGE_PATH.
func provideFileStorage(cfg *config.Config, logger *zap.Logger) (*filestorage.Service, error) {
	return filestorage.NewService(cfg.CVStoragePath, logger)
}

// provideCleanup closes the database handles and flushes the logger.
func provideCleanup(logger *zap.Logger, db *gorm.DB, mongoDB *platformmongo.Database) func() {
	return func() {
		logger.Info("Executing cleanup tasks...")
		database.CloseGORMDB(db)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := mongoDB.Close(ctx); err != nil {
			log.Printf("ERROR: Failed to close MongoDB connection during cleanup: %v", err)
		}

		if err := logger.Sync(); err != nil {
			log.Printf("ERROR: Failed to sync logger during cleanup: %v", err)
		}
		log.Println("Cleanup finished.")
	}
}
