// File: internal/user/service.go
package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/quentinL52/ai-interview-back/internal/common"
	"github.com/quentinL52/ai-interview-back/internal/config"
	"github.com/quentinL52/ai-interview-back/internal/shared"
)

// ServiceImplementation implements the shared.Service interface.
type ServiceImplementation struct {
	repo         Repository
	tokenService shared.TokenService
	cfg          *config.Config
	logger       *zap.Logger
}

var _ shared.Service = (*ServiceImplementation)(nil)
var _ shared.OAuthUserProvider = (*ServiceImplementation)(nil)

// NewService creates a new user service.
func NewService(
	repo Repository,
	tokenService shared.TokenService,
	cfg *config.Config,
	logger *zap.Logger,
) *ServiceImplementation {
	return &ServiceImplementation{
		repo:         repo,
		tokenService: tokenService,
		cfg:          cfg,
		logger:       logger,
	}
}

// Register creates a new password-based user account.
func (s *ServiceImplementation) Register(ctx context.Context, req shared.CreateUserRequest) (*shared.User, *shared.TokenResponse, error) {
	_, err := s.repo.FindByEmail(ctx, req.Email)
	if err == nil {
		return nil, nil, common.ErrConflict.WithDetails("User with this email already exists.")
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, nil, fmt.Errorf("failed to check existing user by email: %w", err)
	}
	// Email is available.

	hashedPassword, err := common.HashPassword(req.Password)
	if err != nil {
		s.logger.Error("Failed to hash password during registration", zap.Error(err))
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	dbUser := CreateRequestToDB(&req, hashedPassword)

	if err := s.repo.Create(ctx, dbUser); err != nil {
		s.logger.Error("Failed to create user in repository", zap.Error(err), zap.String("email", req.Email))
		if apiErr, ok := common.IsAPIError(err); ok {
			return nil, nil, apiErr
		}
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}

	accessToken, accessExpiresAt, err := s.tokenService.GenerateAccessToken(dbUser)
	if err != nil {
		s.logger.Error("Failed to generate access token after registration", zap.Error(err), zap.String("userID", dbUser.ID.String()))
		return nil, nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	tokenResponse := &shared.TokenResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
		ExpiresAt:   accessExpiresAt,
	}

	s.logger.Info("User registered successfully", zap.String("userID", dbUser.ID.String()))
	return ToSharedUser(dbUser), tokenResponse, nil
}

// Login verifies email/password credentials and issues an access token.
func (s *ServiceImplementation) Login(ctx context.Context, email, password string) (*shared.User, *shared.TokenResponse, error) {
	dbUser, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.logger.Info("User not found during login", zap.String("email", email))
			return nil, nil, common.ErrUnauthorized.WithDetails("Invalid email or password.")
		}
		s.logger.Error("Error finding user by email during login", zap.Error(err), zap.String("email", email))
		return nil, nil, common.ErrInternalServer.WithDetails("Login failed due to an internal error.")
	}

	if dbUser.PasswordHash == nil || *dbUser.PasswordHash == "" {
		s.logger.Warn("Password login attempted for account without a password hash",
			zap.String("userID", dbUser.ID.String()))
		return nil, nil, common.ErrUnauthorized.WithDetails("Login with email/password not configured for this account.")
	}

	if !common.CheckPasswordHash(password, *dbUser.PasswordHash) {
		s.logger.Warn("Invalid password attempt", zap.String("userID", dbUser.ID.String()))
		return nil, nil, common.ErrUnauthorized.WithDetails("Invalid email or password.")
	}

	now := time.Now()
	dbUser.LastLoginAt = &now
	if err := s.repo.Update(ctx, dbUser); err != nil {
		// Not fatal for the login itself.
		s.logger.Error("Failed to update last login time", zap.Error(err), zap.String("userID", dbUser.ID.String()))
	}

	accessToken, accessExpiresAt, err := s.tokenService.GenerateAccessToken(dbUser)
	if err != nil {
		s.logger.Error("Failed to generate access token on login", zap.Error(err), zap.String("userID", dbUser.ID.String()))
		return nil, nil, common.ErrInternalServer.WithDetails("Could not generate access token.")
	}

	tokenResponse := &shared.TokenResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
		ExpiresAt:   accessExpiresAt,
	}

	s.logger.Info("User logged in successfully", zap.String("userID", dbUser.ID.String()))
	return ToSharedUser(dbUser), tokenResponse, nil
}

func (s *ServiceImplementation) GetUserByID(ctx context.Context, id uuid.UUID) (*shared.User, error) {
	dbUser, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.logger.Info("User not found by ID", zap.String("userID", id.String()))
		} else {
			s.logger.Error("Error finding user by ID", zap.Error(err), zap.String("userID", id.String()))
		}
		return nil, err
	}
	return ToSharedUser(dbUser), nil
}

func (s *ServiceImplementation) GetUserByEmail(ctx context.Context, email string) (*shared.User, error) {
	dbUser, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.logger.Info("User not found by email", zap.String("email", email))
		} else {
			s.logger.Error("Error finding user by email", zap.Error(err), zap.String("email", email))
		}
		return nil, err
	}
	return ToSharedUser(dbUser), nil
}

// SetCandidateDocID stores the reference to the user's parsed CV document.
func (s *ServiceImplementation) SetCandidateDocID(ctx context.Context, userID uuid.UUID, docID string) error {
	dbUser, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	dbUser.CandidateDocID = &docID
	if err := s.repo.Update(ctx, dbUser); err != nil {
		s.logger.Error("Failed to store candidate document reference",
			zap.Error(err), zap.String("userID", userID.String()))
		return err
	}
	return nil
}

// FindOrCreateOrLinkOAuthUser reconciles a Google profile against the user
// store. Lookup order is Google ID first, then email. Profile name and picture
// are refreshed on every login, the provider list gains "google" when the
// account is linked for the first time, and last_login_at is always advanced.
func (s *ServiceImplementation) FindOrCreateOrLinkOAuthUser(ctx context.Context, profile shared.OAuthUserProfile) (*shared.User, bool, error) {
	s.logger.Info("Processing OAuth user profile",
		zap.String("provider", profile.Provider),
		zap.String("providerID", profile.ProviderID),
		zap.String("email", profile.Email),
	)

	dbUser, err := s.repo.FindByGoogleID(ctx, profile.ProviderID)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		s.logger.Error("Error finding user by Google ID", zap.Error(err),
			zap.String("providerID", profile.ProviderID))
		return nil, false, err
	}

	if dbUser == nil && profile.Email != "" {
		// Not known by Google ID. Link by email when an account exists.
		emailLower := strings.ToLower(strings.TrimSpace(profile.Email))
		byEmail, emailErr := s.repo.FindByEmail(ctx, emailLower)
		if emailErr != nil && !errors.Is(emailErr, common.ErrNotFound) {
			s.logger.Error("Error finding user by email for OAuth linking",
				zap.Error(emailErr), zap.String("email", profile.Email))
			return nil, false, emailErr
		}
		if byEmail != nil {
			s.logger.Info("Linking Google identity to existing email user",
				zap.String("userID", byEmail.ID.String()))
			dbUser = byEmail
		}
	}

	if dbUser != nil {
		applyProfileToDB(&profile, dbUser)
		now := time.Now()
		dbUser.LastLoginAt = &now
		if err := s.repo.Update(ctx, dbUser); err != nil {
			s.logger.Error("Failed to update OAuth user profile", zap.Error(err), zap.String("userID", dbUser.ID.String()))
			if apiErr, ok := common.IsAPIError(err); ok {
				return nil, false, apiErr
			}
			return nil, false, common.ErrInternalServer.WithDetails("Could not update user profile.")
		}
		s.logger.Info("OAuth user profile processed", zap.String("userID", dbUser.ID.String()))
		return ToSharedUser(dbUser), false, nil
	}

	// No match by Google ID or email: create a new account.
	s.logger.Info("Creating new user from OAuth profile",
		zap.String("provider", profile.Provider), zap.String("email", profile.Email))

	now := time.Now()
	dbNewUser := &User{
		BaseModel: common.BaseModel{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		AuthProviders: []string{profile.Provider},
		IsActive:      true,
		LastLoginAt:   &now,
	}
	applyProfileToDB(&profile, dbNewUser)
	if profile.Email != "" {
		emailCopy := strings.ToLower(strings.TrimSpace(profile.Email))
		dbNewUser.Email = &emailCopy
	}

	if err := s.repo.Create(ctx, dbNewUser); err != nil {
		s.logger.Error("Failed to create new OAuth user in repository", zap.Error(err), zap.String("email", profile.Email))
		if apiErr, ok := common.IsAPIError(err); ok {
			return nil, false, apiErr
		}
		return nil, false, common.ErrInternalServer.WithDetails("Could not create new user account.")
	}

	s.logger.Info("New OAuth user created successfully", zap.String("userID", dbNewUser.ID.String()))
	return ToSharedUser(dbNewUser), true, nil
}

// DeactivateDormantUsers flags accounts whose last login predates the dormancy
// window. Returns the number of accounts deactivated.
func (s *ServiceImplementation) DeactivateDormantUsers(ctx context.Context) (int64, error) {
	cutoff := time.Now().AddDate(0, -s.cfg.UserDormantMonths, 0)
	count, err := s.repo.DeactivateDormant(ctx, cutoff.Format(time.RFC3339))
	if err != nil {
		s.logger.Error("Failed to deactivate dormant users", zap.Error(err))
		return 0, err
	}
	if count > 0 {
		s.logger.Info("Deactivated dormant users", zap.Int64("count", count))
	}
	return count, nil
}
