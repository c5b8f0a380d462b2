// File: internal/shared/user_response.go
package shared

import (
	"time"

	"github.com/google/uuid"
)

// UserResponse defines the public user projection sent in API responses.
type UserResponse struct {
	ID             uuid.UUID  `json:"id"`
	Email          *string    `json:"email,omitempty"`
	Name           *string    `json:"name,omitempty"`
	PictureURL     *string    `json:"picture_url,omitempty"`
	GoogleID       *string    `json:"google_id,omitempty"`
	AuthProviders  []string   `json:"auth_providers"`
	IsActive       bool       `json:"is_active"`
	CandidateDocID *string    `json:"candidate_doc_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	LastLoginAt    *time.Time `json:"last_login_at,omitempty"`
}

// ToUserResponse converts a shared.User to a UserResponse DTO.
func ToUserResponse(svUser *User) UserResponse {
	return UserResponse{
		ID:             svUser.ID,
		Email:          svUser.Email,
		Name:           svUser.Name,
		PictureURL:     svUser.PictureURL,
		GoogleID:       svUser.GoogleID,
		AuthProviders:  svUser.AuthProviders,
		IsActive:       svUser.IsActive,
		CandidateDocID: svUser.CandidateDocID,
		CreatedAt:      svUser.CreatedAt,
		LastLoginAt:    svUser.LastLoginAt,
	}
}
