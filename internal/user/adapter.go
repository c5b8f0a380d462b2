// File: internal/user/adapter.go
package user

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/quentinL52/ai-interview-back/internal/common"
	"github.com/quentinL52/ai-interview-back/internal/shared"
)

// CreateRequestToDB builds a GORM User model from a registration request.
func CreateRequestToDB(req *shared.CreateUserRequest, passwordHash string) *User {
	now := time.Now()
	email := strings.ToLower(strings.TrimSpace(req.Email))
	dbUser := &User{
		BaseModel: common.BaseModel{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Email:         &email,
		PasswordHash:  &passwordHash,
		AuthProviders: []string{"password"},
		IsActive:      true,
	}
	if req.Name != "" {
		nameCopy := req.Name
		dbUser.Name = &nameCopy
	}
	return dbUser
}

// applyProfileToDB refreshes a GORM User model from an OAuth profile. Name and
// picture follow the provider's latest values; the provider ID and the linked
// provider list are only ever added, never removed.
func applyProfileToDB(profile *shared.OAuthUserProfile, dbUser *User) {
	if dbUser == nil || profile == nil {
		return
	}

	if profile.Name != "" {
		nameCopy := profile.Name
		dbUser.Name = &nameCopy
	}
	if profile.PictureURL != "" {
		pictureCopy := profile.PictureURL
		dbUser.PictureURL = &pictureCopy
	}
	if profile.ProviderID != "" {
		idCopy := profile.ProviderID
		dbUser.GoogleID = &idCopy
	}
	if !dbUser.HasProvider(profile.Provider) {
		dbUser.AuthProviders = append(dbUser.AuthProviders, profile.Provider)
	}

	dbUser.UpdatedAt = time.Now()
}
