// File: cmd/server/wire.go
//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/quentinL52/ai-interview-back/internal/agent"
	"github.com/quentinL52/ai-interview-back/internal/app"
	"github.com/quentinL52/ai-interview-back/internal/auth"
	"github.com/quentinL52/ai-interview-back/internal/config"
	"github.com/quentinL52/ai-interview-back/internal/filestorage"
	"github.com/quentinL52/ai-interview-back/internal/interview"
	"github.com/quentinL52/ai-interview-back/internal/jobs"
	"github.com/quentinL52/ai-interview-back/internal/platform/database"
	"github.com/quentinL52/ai-interview-back/internal/platform/elasticsearch"
	"github.com/quentinL52/ai-interview-back/internal/platform/logger"
	platformmongo "github.com/quentinL52/ai-interview-back/internal/platform/mongo"
	"github.com/quentinL52/ai-interview-back/internal/shared"
	"github.com/quentinL52/ai-interview-back/internal/user"
)

// initializeServer is the main Wire injector.
func initializeServer(cfg *config.Config) (*app.Server, func(), error) {
	wire.Build(
		// Platform Layer
		logger.New,
		database.NewGORM,
		platformmongo.NewDatabase,
		elasticsearch.NewClient,

		// Auth
		auth.NewJWTService, // Provides shared.TokenService
		provideStateStore,
		wire.Bind(new(auth.StateStore), new(*auth.InMemoryStateStore)),
		auth.NewOAuthService,
		auth.NewHandler,

		// Core User Services
		user.NewGORMRepository, // Provides user.Repository
		user.NewService,        // Provides *user.ServiceImplementation
		wire.Bind(new(shared.Service), new(*user.ServiceImplementation)),
		wire.Bind(new(shared.OAuthUserProvider), new(*user.ServiceImplementation)),
		wire.Bind(new(interview.CandidateProfileStore), new(*user.ServiceImplementation)),
		wire.Bind(new(jobs.DormantUserDeactivator), new(*user.ServiceImplementation)),
		user.NewHandler,

		// Interview Domain
		agent.NewClient,
		provideFileStorage,
		wire.Bind(new(interview.CVStore), new(*filestorage.Service)),
		interview.NewMongoRepository,
		interview.NewSearcher,
		interview.NewService,
		interview.NewHandler,

		// Jobs
		jobs.NewUserDeactivationJob,

		// Application Layer
		app.NewServer,
	)
	return nil, nil, nil
}
