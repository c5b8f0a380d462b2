// File: internal/auth/handler_test.go
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/quentinL52/ai-interview-back/internal/common"
	"github.com/quentinL52/ai-interview-back/internal/config"
	"github.com/quentinL52/ai-interview-back/internal/shared"
)

type fakeUserService struct {
	usersByEmail map[string]*shared.User
	loginToken   *shared.TokenResponse
	loginErr     error
}

func (s *fakeUserService) Register(ctx context.Context, req shared.CreateUserRequest) (*shared.User, *shared.TokenResponse, error) {
	return nil, nil, errors.New("not implemented")
}

func (s *fakeUserService) Login(ctx context.Context, email, password string) (*shared.User, *shared.TokenResponse, error) {
	if s.loginErr != nil {
		return nil, nil, s.loginErr
	}
	usr, ok := s.usersByEmail[strings.ToLower(email)]
	if !ok {
		return nil, nil, common.ErrUnauthorized
	}
	return usr, s.loginToken, nil
}

func (s *fakeUserService) GetUserByID(ctx context.Context, id uuid.UUID) (*shared.User, error) {
	for _, usr := range s.usersByEmail {
		if usr.ID == id {
			return usr, nil
		}
	}
	return nil, common.ErrNotFound
}

func (s *fakeUserService) GetUserByEmail(ctx context.Context, email string) (*shared.User, error) {
	usr, ok := s.usersByEmail[strings.ToLower(email)]
	if !ok {
		return nil, common.ErrNotFound
	}
	return usr, nil
}

type fakeOAuthService struct {
	loginURL    string
	callbackErr error
	user        *shared.User
	token       *shared.TokenResponse
}

func (s *fakeOAuthService) LoginURL(ctx context.Context, provider OAuthProvider) (string, error) {
	return s.loginURL, nil
}

func (s *fakeOAuthService) HandleCallback(ctx context.Context, provider OAuthProvider, code, state string) (*shared.User, *shared.TokenResponse, error) {
	if s.callbackErr != nil {
		return nil, nil, s.callbackErr
	}
	return s.user, s.token, nil
}

func newTestRouter(t *testing.T, userService shared.Service, tokenService shared.TokenService, oauthService OAuthService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		FrontendSuccessURL: "http://frontend.test/auth/success",
		FrontendErrorURL:   "http://frontend.test/auth/error",
	}
	handler := NewHandler(cfg, userService, tokenService, oauthService, zap.NewNop())

	router := gin.New()
	handler.RegisterRoutes(router.Group("/api/v1"))
	return router
}

type validateEnvelope struct {
	Status string `json:"status"`
	Data   struct {
		Valid bool                 `json:"valid"`
		User  *shared.UserResponse `json:"user"`
	} `json:"data"`
}

func TestValidateAlwaysAnswersOK(t *testing.T) {
	tokenService := newTestJWTService("test-secret", 30*time.Minute)
	email := "alice@example.com"
	usr := &shared.User{ID: uuid.New(), Email: &email, AuthProviders: []string{"password"}, IsActive: true}
	userService := &fakeUserService{usersByEmail: map[string]*shared.User{email: usr}}
	router := newTestRouter(t, userService, tokenService, &fakeOAuthService{})

	goodToken, _, err := tokenService.GenerateAccessToken(tokenUser{id: usr.ID, email: &email})
	require.NoError(t, err)

	orphanEmail := "gone@example.com"
	orphanToken, _, err := tokenService.GenerateAccessToken(tokenUser{id: uuid.New(), email: &orphanEmail})
	require.NoError(t, err)

	cases := []struct {
		name      string
		body      string
		wantValid bool
	}{
		{name: "valid token", body: `{"token": "` + goodToken + `"}`, wantValid: true},
		{name: "garbage token", body: `{"token": "not-a-token"}`, wantValid: false},
		{name: "token for deleted user", body: `{"token": "` + orphanToken + `"}`, wantValid: false},
		{name: "empty token", body: `{"token": ""}`, wantValid: false},
		{name: "malformed body", body: `{`, wantValid: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodPost, "/api/v1/auth/validate", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(rr, req)

			// Never an error status, regardless of the token.
			require.Equal(t, http.StatusOK, rr.Code)

			var resp validateEnvelope
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, tc.wantValid, resp.Data.Valid)
			if tc.wantValid {
				require.NotNil(t, resp.Data.User)
				assert.Equal(t, usr.ID, resp.Data.User.ID)
			} else {
				assert.Nil(t, resp.Data.User)
			}
		})
	}
}

func TestTokenEndpoint(t *testing.T) {
	tokenService := newTestJWTService("test-secret", 30*time.Minute)
	email := "bob@example.com"
	usr := &shared.User{ID: uuid.New(), Email: &email}
	userService := &fakeUserService{
		usersByEmail: map[string]*shared.User{email: usr},
		loginToken:   &shared.TokenResponse{AccessToken: "issued-token", TokenType: "bearer", ExpiresAt: time.Now().Add(time.Hour)},
	}
	router := newTestRouter(t, userService, tokenService, &fakeOAuthService{})

	t.Run("successful login returns the token", func(t *testing.T) {
		form := url.Values{"username": {email}, "password": {"secret123"}}
		rr := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/api/v1/auth/token", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "issued-token")
	})

	t.Run("bad credentials yield 401", func(t *testing.T) {
		form := url.Values{"username": {"nobody@example.com"}, "password": {"secret123"}}
		rr := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/api/v1/auth/token", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("username must be an email", func(t *testing.T) {
		form := url.Values{"username": {"not-an-email"}, "password": {"secret123"}}
		rr := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/api/v1/auth/token", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})
}

func TestOAuthCallbackRedirects(t *testing.T) {
	tokenService := newTestJWTService("test-secret", 30*time.Minute)
	email := "carol@example.com"
	usr := &shared.User{ID: uuid.New(), Email: &email, AuthProviders: []string{"google"}, IsActive: true}

	t.Run("success redirects to the frontend with token and user", func(t *testing.T) {
		oauth := &fakeOAuthService{
			user:  usr,
			token: &shared.TokenResponse{AccessToken: "oauth-token", TokenType: "bearer", ExpiresAt: time.Now().Add(time.Hour)},
		}
		router := newTestRouter(t, &fakeUserService{}, tokenService, oauth)

		rr := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/v1/auth/oauth/google/callback?code=abc&state=xyz", nil)
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusTemporaryRedirect, rr.Code)
		location, err := url.Parse(rr.Header().Get("Location"))
		require.NoError(t, err)
		assert.Equal(t, "/auth/success", location.Path)
		assert.Equal(t, "oauth-token", location.Query().Get("token"))

		var userPayload shared.UserResponse
		require.NoError(t, json.Unmarshal([]byte(location.Query().Get("user")), &userPayload))
		assert.Equal(t, usr.ID, userPayload.ID)
	})

	t.Run("failed callback redirects with login_failed", func(t *testing.T) {
		oauth := &fakeOAuthService{callbackErr: common.ErrBadGateway}
		router := newTestRouter(t, &fakeUserService{}, tokenService, oauth)

		rr := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/v1/auth/oauth/google/callback?code=abc&state=xyz", nil)
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusTemporaryRedirect, rr.Code)
		assert.Contains(t, rr.Header().Get("Location"), "error=login_failed")
	})

	t.Run("missing code redirects with missing_code_or_state", func(t *testing.T) {
		router := newTestRouter(t, &fakeUserService{}, tokenService, &fakeOAuthService{})

		rr := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/v1/auth/oauth/google/callback?state=xyz", nil)
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusTemporaryRedirect, rr.Code)
		assert.Contains(t, rr.Header().Get("Location"), "error=missing_code_or_state")
	})

	t.Run("unknown provider redirects with unsupported_provider", func(t *testing.T) {
		router := newTestRouter(t, &fakeUserService{}, tokenService, &fakeOAuthService{})

		rr := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/v1/auth/oauth/github/callback?code=abc&state=xyz", nil)
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusTemporaryRedirect, rr.Code)
		assert.Contains(t, rr.Header().Get("Location"), "error=unsupported_provider")
	})

	t.Run("provider error redirects with provider_denied", func(t *testing.T) {
		router := newTestRouter(t, &fakeUserService{}, tokenService, &fakeOAuthService{})

		rr := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/v1/auth/oauth/google/callback?error=access_denied", nil)
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusTemporaryRedirect, rr.Code)
		assert.Contains(t, rr.Header().Get("Location"), "error=provider_denied")
	})
}

func TestOAuthLoginRedirectsToProvider(t *testing.T) {
	tokenService := newTestJWTService("test-secret", 30*time.Minute)
	oauth := &fakeOAuthService{loginURL: "https://accounts.google.com/o/oauth2/auth?state=abc"}
	router := newTestRouter(t, &fakeUserService{}, tokenService, oauth)

	rr := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/auth/oauth/google", nil)
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusTemporaryRedirect, rr.Code)
	assert.Equal(t, oauth.loginURL, rr.Header().Get("Location"))

	rr = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/api/v1/auth/oauth/github", nil)
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
