// File: internal/auth/oauth_service.go
package auth

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/quentinL52/ai-interview-back/internal/common"
	"github.com/quentinL52/ai-interview-back/internal/config"
	"github.com/quentinL52/ai-interview-back/internal/shared"
)

// OAuthProvider represents an OAuth provider type.
type OAuthProvider string

const (
	ProviderGoogle OAuthProvider = "google"
)

// googleUserInfoURL is a variable for testing.
var googleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

// ParseProvider maps a path segment onto a known provider. Unknown values get
// a 400 with an UNSUPPORTED_PROVIDER code rather than a 404.
func ParseProvider(raw string) (OAuthProvider, error) {
	switch OAuthProvider(strings.ToLower(strings.TrimSpace(raw))) {
	case ProviderGoogle:
		return ProviderGoogle, nil
	default:
		return "", common.ErrUnsupportedProvider.WithDetails("Provider '" + raw + "' is not supported.")
	}
}

// OAuthService defines the interface for OAuth login flows.
type OAuthService interface {
	LoginURL(ctx context.Context, provider OAuthProvider) (string, error)
	HandleCallback(ctx context.Context, provider OAuthProvider, code, state string) (*shared.User, *shared.TokenResponse, error)
}

type oauthService struct {
	cfg               *config.Config
	oauthUserProvider shared.OAuthUserProvider
	tokenService      shared.TokenService
	stateStore        StateStore
	logger            *zap.Logger
}

// NewOAuthService creates a new OAuth service.
func NewOAuthService(
	cfg *config.Config,
	oauthUserProvider shared.OAuthUserProvider,
	tokenService shared.TokenService,
	stateStore StateStore,
	logger *zap.Logger,
) OAuthService {
	return &oauthService{
		cfg:               cfg,
		oauthUserProvider: oauthUserProvider,
		tokenService:      tokenService,
		stateStore:        stateStore,
		logger:            logger.Named("OAuthService"),
	}
}

func getGoogleOAuthConfig(cfg *config.Config) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURI,
		Scopes:       []string{"openid", "profile", "email"},
		Endpoint:     google.Endpoint,
	}
}

// LoginURL generates the provider's authorization URL with a fresh state.
func (s *oauthService) LoginURL(ctx context.Context, provider OAuthProvider) (string, error) {
	if provider != ProviderGoogle {
		return "", common.ErrUnsupportedProvider.WithDetails("Provider '" + string(provider) + "' is not supported.")
	}

	state, err := s.stateStore.Generate(ctx)
	if err != nil {
		s.logger.Error("Failed to generate OAuth state for Google", zap.Error(err))
		return "", common.ErrInternalServer.WithDetails("Could not initiate Google login.")
	}

	googleCfg := getGoogleOAuthConfig(s.cfg)
	authURL := googleCfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	s.logger.Info("Generated Google login URL", zap.String("url", authURL))
	return authURL, nil
}

// HandleCallback verifies the state, exchanges the authorization code, fetches
// the provider profile and reconciles it against the user store.
func (s *oauthService) HandleCallback(ctx context.Context, provider OAuthProvider, code, state string) (*shared.User, *shared.TokenResponse, error) {
	if provider != ProviderGoogle {
		return nil, nil, common.ErrUnsupportedProvider.WithDetails("Provider '" + string(provider) + "' is not supported.")
	}

	valid, err := s.stateStore.Consume(ctx, state)
	if err != nil {
		s.logger.Error("Failed to check OAuth state", zap.Error(err))
		return nil, nil, common.ErrInternalServer.WithDetails("Could not verify login state.")
	}
	if !valid {
		s.logger.Warn("Google OAuth state mismatch or expired", zap.String("received_state", state))
		return nil, nil, common.ErrBadRequest.WithDetails("OAuth state mismatch or expired. Please retry the login.")
	}

	googleCfg := getGoogleOAuthConfig(s.cfg)
	token, err := googleCfg.Exchange(ctx, code)
	if err != nil {
		s.logger.Error("Failed to exchange Google auth code for token", zap.Error(err))
		return nil, nil, common.ErrBadGateway.WithDetails("Could not complete Google login.")
	}
	if !token.Valid() {
		s.logger.Error("Google token received is invalid")
		return nil, nil, common.ErrBadGateway.WithDetails("Could not complete Google login.")
	}

	profile, err := s.fetchGoogleProfile(ctx, googleCfg, token)
	if err != nil {
		return nil, nil, err
	}

	appUser, created, err := s.oauthUserProvider.FindOrCreateOrLinkOAuthUser(ctx, *profile)
	if err != nil {
		s.logger.Error("Failed to reconcile user from Google profile", zap.Error(err))
		if _, ok := common.IsAPIError(err); ok {
			return nil, nil, err
		}
		return nil, nil, common.ErrInternalServer.WithDetails("Failed to process user account after Google login.")
	}

	accessToken, accessExpiresAt, err := s.tokenService.GenerateAccessToken(sharedUserTokenData{appUser})
	if err != nil {
		s.logger.Error("Failed to generate access token after Google login", zap.Error(err), zap.String("userID", appUser.ID.String()))
		return nil, nil, common.ErrInternalServer.WithDetails("Could not generate access token.")
	}

	tokenResponse := &shared.TokenResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
		ExpiresAt:   accessExpiresAt,
	}

	s.logger.Info("Google OAuth login successful",
		zap.String("userID", appUser.ID.String()),
		zap.Bool("created", created),
		zap.Stringp("email", appUser.Email))
	return appUser, tokenResponse, nil
}

func (s *oauthService) fetchGoogleProfile(ctx context.Context, googleCfg *oauth2.Config, token *oauth2.Token) (*shared.OAuthUserProfile, error) {
	client := googleCfg.Client(ctx, token)
	resp, err := client.Get(googleUserInfoURL)
	if err != nil {
		s.logger.Error("Failed to fetch user info from Google", zap.Error(err))
		return nil, common.ErrBadGateway.WithDetails("Could not fetch user info from Google.")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		s.logger.Error("Google user info request failed",
			zap.Int("status", resp.StatusCode), zap.String("body", string(bodyBytes)))
		return nil, common.ErrBadGateway.WithDetails("Could not fetch user info from Google.")
	}

	var googleUser struct {
		Sub     string `json:"sub"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&googleUser); err != nil {
		s.logger.Error("Failed to decode Google user info", zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not process Google user information.")
	}
	if googleUser.Sub == "" {
		s.logger.Error("Google user info is missing the subject identifier")
		return nil, common.ErrBadGateway.WithDetails("Could not fetch user info from Google.")
	}

	return &shared.OAuthUserProfile{
		Provider:   string(ProviderGoogle),
		ProviderID: googleUser.Sub,
		Email:      strings.ToLower(googleUser.Email),
		Name:       googleUser.Name,
		PictureURL: googleUser.Picture,
	}, nil
}

// sharedUserTokenData adapts shared.User to the token generation interface.
type sharedUserTokenData struct {
	user *shared.User
}

func (d sharedUserTokenData) GetID() uuid.UUID  { return d.user.ID }
func (d sharedUserTokenData) GetEmail() *string { return d.user.Email }
