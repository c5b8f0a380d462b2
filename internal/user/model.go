// File: internal/user/model.go
package user

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/quentinL52/ai-interview-back/internal/common"
	"github.com/quentinL52/ai-interview-back/internal/shared"
)

// User represents the user model in the database.
type User struct {
	common.BaseModel                // Embeds ID, CreatedAt, UpdatedAt
	Email            *string        `gorm:"type:varchar(255);uniqueIndex"` // Pointer to allow NULL
	PasswordHash     *string        `gorm:"type:varchar(255)"`             // Pointer to allow NULL (OAuth-only accounts)
	Name             *string        `gorm:"type:varchar(255)"`
	PictureURL       *string        `gorm:"type:text"`
	GoogleID         *string        `gorm:"type:varchar(255);uniqueIndex:idx_users_google_id"`
	AuthProviders    pq.StringArray `gorm:"type:text[];not null;default:'{}'"`
	IsActive         bool           `gorm:"not null;default:true"`
	CandidateDocID   *string        `gorm:"type:varchar(24)"` // Hex ID of the parsed CV document
	LastLoginAt      *time.Time
}

// TableName specifies the table name for the User model.
func (User) TableName() string {
	return "users"
}

// Sanitize removes sensitive information like password hash.
func (u *User) Sanitize() {
	u.PasswordHash = nil
}

// HasProvider reports whether the given auth provider is already linked.
func (u *User) HasProvider(provider string) bool {
	for _, p := range u.AuthProviders {
		if p == provider {
			return true
		}
	}
	return false
}

// --- DTOs (Data Transfer Objects) for API requests/responses ---

// CreateUserRequest defines the structure for registering a new user.
type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"` // bcrypt max is 72 bytes
	Name     string `json:"name,omitempty" binding:"omitempty,max=255"`
}

// ToSharedUser converts a User model to the shared.User representation.
func ToSharedUser(u *User) *shared.User {
	if u == nil {
		return nil
	}
	return &shared.User{
		ID:             u.ID,
		Email:          u.Email,
		Name:           u.Name,
		PictureURL:     u.PictureURL,
		GoogleID:       u.GoogleID,
		AuthProviders:  u.AuthProviders,
		IsActive:       u.IsActive,
		CandidateDocID: u.CandidateDocID,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
		LastLoginAt:    u.LastLoginAt,
	}
}

func (u *User) GetID() uuid.UUID {
	return u.ID
}

func (u *User) GetEmail() *string { // Return pointer to handle nil
	return u.Email
}
