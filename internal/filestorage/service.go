// File: internal/filestorage/service.go
package filestorage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

const cvSubDir = "cvs"

// Service retains the raw bytes of uploaded résumés on disk. The parsed
// profile lives in the document store; the original file is kept so it can be
// re-parsed later without asking the candidate to upload again.
type Service struct {
	storagePath string
	logger      *zap.Logger
}

// NewService creates a new file storage service rooted at storagePath.
func NewService(storagePath string, logger *zap.Logger) (*Service, error) {
	if storagePath == "" {
		return nil, fmt.Errorf("storage path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Join(storagePath, cvSubDir), os.ModePerm); err != nil {
		logger.Error("Failed to create storage path directory", zap.String("path", storagePath), zap.Error(err))
		return nil, fmt.Errorf("failed to create storage path %s: %w", storagePath, err)
	}
	logger.Info("File storage initialized", zap.String("storagePath", storagePath))
	return &Service{storagePath: storagePath, logger: logger}, nil
}

// SaveCV writes the raw résumé bytes to disk under a unique, slugged name and
// returns the path relative to the storage root, e.g. "cvs/jane-doe-cv-<uuid>.pdf".
func (s *Service) SaveCV(originalFilename string, content []byte) (string, error) {
	base := filepath.Base(originalFilename)
	extension := filepath.Ext(base)
	name := strings.TrimSuffix(base, extension)

	slugged := slug.Make(name)
	if slugged == "" {
		slugged = "cv"
	}
	uniqueFilename := slugged + "-" + uuid.New().String() + strings.ToLower(extension)

	destinationPath := filepath.Join(s.storagePath, cvSubDir, uniqueFilename)
	if err := os.WriteFile(destinationPath, content, 0o644); err != nil {
		s.logger.Error("Failed to write CV file", zap.String("path", destinationPath), zap.Error(err))
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	s.logger.Info("CV file saved", zap.String("path", destinationPath))
	return filepath.ToSlash(filepath.Join(cvSubDir, uniqueFilename)), nil
}

// DeleteFile deletes a file given its path relative to the storage root.
// Deleting a file that is already gone is not an error.
func (s *Service) DeleteFile(relativePath string) error {
	if relativePath == "" {
		return fmt.Errorf("relative path cannot be empty")
	}

	cleanRelativePath := filepath.Clean(relativePath)
	if strings.Contains(cleanRelativePath, "..") {
		s.logger.Warn("Attempt to delete file with path traversal", zap.String("relativePath", relativePath))
		return fmt.Errorf("invalid file path for deletion")
	}

	fullPath := filepath.Join(s.storagePath, cleanRelativePath)
	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		s.logger.Warn("Attempt to delete non-existent file", zap.String("path", fullPath))
		return nil
	}

	if err := os.Remove(fullPath); err != nil {
		s.logger.Error("Failed to delete file", zap.String("path", fullPath), zap.Error(err))
		return fmt.Errorf("failed to delete file %s: %w", fullPath, err)
	}

	s.logger.Info("File deleted", zap.String("path", fullPath))
	return nil
}
