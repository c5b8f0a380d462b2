package shared

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// User represents a user in the system, independent of the storage model.
type User struct {
	ID             uuid.UUID
	Email          *string
	Name           *string
	PictureURL     *string
	GoogleID       *string
	AuthProviders  []string
	IsActive       bool
	CandidateDocID *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	LastLoginAt    *time.Time
}

// CreateUserRequest represents a request to register a new user with a password.
type CreateUserRequest struct {
	Email    string
	Password string
	Name     string
}

// TokenResponse represents the response containing the issued bearer token.
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Service defines the interface for user-related business logic.
type Service interface {
	Register(ctx context.Context, req CreateUserRequest) (*User, *TokenResponse, error)
	Login(ctx context.Context, email, password string) (*User, *TokenResponse, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
}

// OAuthUserProvider reconciles an OAuth profile against the user store. The
// boolean result reports whether a new account was created.
type OAuthUserProvider interface {
	FindOrCreateOrLinkOAuthUser(ctx context.Context, profile OAuthUserProfile) (*User, bool, error)
}

// OAuthUserProfile holds the profile data fetched from an OAuth provider.
type OAuthUserProfile struct {
	Provider   string
	ProviderID string
	Email      string
	Name       string
	PictureURL string
}

// UserDataForToken abstracts the user data needed for token generation.
type UserDataForToken interface {
	GetID() uuid.UUID
	GetEmail() *string
}

// TokenService defines the interface for JWT operations.
type TokenService interface {
	GenerateAccessToken(userData UserDataForToken) (string, time.Time, error)
	ValidateToken(tokenString string) (*Claims, error)
}

// Claims represents the JWT claims structure. The subject carries the user's
// email; validation rejects tokens without it.
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	jwt.RegisteredClaims
}
