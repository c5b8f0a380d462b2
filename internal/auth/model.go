// File: internal/auth/model.go
package auth

// TokenRequest is the form body for the password token endpoint.
type TokenRequest struct {
	Username string `form:"username" binding:"required,email"`
	Password string `form:"password" binding:"required"`
}

// ValidateTokenRequest is the JSON body for token validation.
type ValidateTokenRequest struct {
	Token string `json:"token" binding:"required"`
}
