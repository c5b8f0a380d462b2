// File: internal/auth/handler.go
package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/quentinL52/ai-interview-back/internal/common"
	"github.com/quentinL52/ai-interview-back/internal/config"
	"github.com/quentinL52/ai-interview-back/internal/shared"
)

// Handler struct holds dependencies for auth handlers.
type Handler struct {
	cfg          *config.Config
	userService  shared.Service
	tokenService shared.TokenService
	oauthService OAuthService
	logger       *zap.Logger
}

// NewHandler creates a new auth handler.
func NewHandler(
	cfg *config.Config,
	userService shared.Service,
	tokenService shared.TokenService,
	oauthService OAuthService,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		cfg:          cfg,
		userService:  userService,
		tokenService: tokenService,
		oauthService: oauthService,
		logger:       logger,
	}
}

// RegisterRoutes sets up the routes for authentication operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/token", h.token)
		authGroup.POST("/validate", h.validate)
		authGroup.GET("/oauth/:provider", h.oauthLogin)
		authGroup.GET("/oauth/:provider/callback", h.oauthCallback)
	}
}

// token handles password logins submitted as an HTML form. The username field
// carries the email.
func (h *Handler) token(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBind(&req); err != nil {
		h.logger.Warn("Token: Invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	_, tokenResponse, err := h.userService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Login successful.", tokenResponse)
}

// validate reports whether a token is currently valid. It always answers 200:
// a bad token yields {"valid": false, "user": null}, never an error status.
func (h *Handler) validate(c *gin.Context) {
	var req ValidateTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondOK(c, "Token validation result.", gin.H{"valid": false, "user": nil})
		return
	}

	claims, err := h.tokenService.ValidateToken(req.Token)
	if err != nil {
		common.RespondOK(c, "Token validation result.", gin.H{"valid": false, "user": nil})
		return
	}

	usr, err := h.userService.GetUserByEmail(c.Request.Context(), claims.Subject)
	if err != nil {
		common.RespondOK(c, "Token validation result.", gin.H{"valid": false, "user": nil})
		return
	}

	common.RespondOK(c, "Token validation result.", gin.H{
		"valid": true,
		"user":  shared.ToUserResponse(usr),
	})
}

func (h *Handler) oauthLogin(c *gin.Context) {
	provider, err := ParseProvider(c.Param("provider"))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	authURL, err := h.oauthService.LoginURL(c.Request.Context(), provider)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, authURL)
}

// oauthCallback finishes the OAuth flow and hands the result to the frontend
// via redirect, since the browser lands here directly from the provider.
func (h *Handler) oauthCallback(c *gin.Context) {
	provider, err := ParseProvider(c.Param("provider"))
	if err != nil {
		h.redirectWithError(c, "unsupported_provider")
		return
	}

	if errorParam := c.Query("error"); errorParam != "" {
		h.logger.Error("OAuth callback error from provider",
			zap.String("provider", string(provider)),
			zap.String("error", errorParam),
			zap.String("description", c.Query("error_description")))
		h.redirectWithError(c, "provider_denied")
		return
	}

	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		h.logger.Warn("OAuth callback missing code or state", zap.String("provider", string(provider)))
		h.redirectWithError(c, "missing_code_or_state")
		return
	}

	appUser, tokenResponse, err := h.oauthService.HandleCallback(c.Request.Context(), provider, code, state)
	if err != nil {
		h.logger.Error("OAuth callback processing failed", zap.Error(err))
		h.redirectWithError(c, "login_failed")
		return
	}

	userJSON, err := json.Marshal(shared.ToUserResponse(appUser))
	if err != nil {
		h.logger.Error("Failed to serialize user for OAuth redirect", zap.Error(err))
		h.redirectWithError(c, "login_failed")
		return
	}

	redirectURL := h.cfg.FrontendSuccessURL +
		"?token=" + url.QueryEscape(tokenResponse.AccessToken) +
		"&user=" + url.QueryEscape(string(userJSON))
	c.Redirect(http.StatusTemporaryRedirect, redirectURL)
}

func (h *Handler) redirectWithError(c *gin.Context, code string) {
	c.Redirect(http.StatusTemporaryRedirect, h.cfg.FrontendErrorURL+"?error="+url.QueryEscape(code))
}
