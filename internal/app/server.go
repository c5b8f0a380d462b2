// File: internal/app/server.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/quentinL52/ai-interview-back/internal/auth"
	"github.com/quentinL52/ai-interview-back/internal/config"
	"github.com/quentinL52/ai-interview-back/internal/interview"
	"github.com/quentinL52/ai-interview-back/internal/jobs"
	"github.com/quentinL52/ai-interview-back/internal/middleware"
	"github.com/quentinL52/ai-interview-back/internal/platform/elasticsearch"
	"github.com/quentinL52/ai-interview-back/internal/shared"
	"github.com/quentinL52/ai-interview-back/internal/user"
)

// Server struct holds the dependencies for the HTTP server.
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	cfg        *config.Config
	logger     *zap.Logger

	// Exposed for startup tasks such as search index creation.
	ESClient  *elasticsearch.ESClientWrapper
	AppLogger *zap.Logger

	// Handlers
	userHandler      *user.Handler
	authHandler      *auth.Handler
	interviewHandler *interview.Handler

	// Jobs
	userDeactivationJob *jobs.UserDeactivationJob

	// Middleware instances
	authMW gin.HandlerFunc
}

// NewServer creates a new instance of our application server.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	userHandler *user.Handler,
	authHandler *auth.Handler,
	interviewHandler *interview.Handler,
	userDeactivationJob *jobs.UserDeactivationJob,
	tokenService shared.TokenService,
	esClient *elasticsearch.ESClientWrapper,
) (*Server, error) {
	gin.SetMode(cfg.GinMode)
	router := gin.New()

	// --- Global Middleware ---
	router.Use(middleware.ZapLogger(logger, cfg))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(gin.Recovery())

	// CORS Middleware. Only the configured frontend origin may call the API
	// with credentials.
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.FrontendURL}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader}
	corsConfig.AllowCredentials = true
	corsConfig.ExposeHeaders = []string{"Content-Length", middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	authMW := middleware.AuthMiddleware(tokenService, logger.Named("AuthMiddleware"))

	// --- Setup Routes ---
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Welcome to the AI Interview API."})
	})
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "AI Interview API is healthy!"})
	})

	v1 := router.Group("/api/v1")

	authHandler.RegisterRoutes(v1)
	userHandler.RegisterRoutes(v1, authMW)
	interviewHandler.RegisterRoutes(v1, authMW)

	addr := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer:          httpServer,
		router:              router,
		cfg:                 cfg,
		logger:              logger,
		ESClient:            esClient,
		AppLogger:           logger,
		userHandler:         userHandler,
		authHandler:         authHandler,
		interviewHandler:    interviewHandler,
		userDeactivationJob: userDeactivationJob,
		authMW:              authMW,
	}, nil
}

func (s *Server) Start() error {
	if s.userDeactivationJob != nil {
		err := s.userDeactivationJob.SetupAndStart()
		if err != nil {
			s.logger.Error("Failed to setup and start user deactivation job", zap.Error(err))
		}
	} else {
		s.logger.Info("User deactivation job is not configured, skipping start.")
	}

	s.logger.Info("HTTP Server starting",
		zap.String("address", s.httpServer.Addr),
		zap.String("gin_mode", s.cfg.GinMode),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Failed to start HTTP server", zap.Error(err))
		return err
	}
	s.logger.Info("HTTP Server stopped gracefully or an error occurred")
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Attempting graceful server shutdown...")
	if s.userDeactivationJob != nil {
		s.userDeactivationJob.Stop()
	}
	return s.httpServer.Shutdown(ctx)
}
