package filestorage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupService(t *testing.T) *Service {
	svc, err := NewService(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, svc)
	return svc
}

func TestSaveCV(t *testing.T) {
	svc := setupService(t)

	content := []byte("%PDF-1.4 fake resume bytes")
	relativePath, err := svc.SaveCV("Jane Doe CV.PDF", content)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(relativePath, "cvs/"), "files land in the cvs subdirectory")
	assert.True(t, strings.HasPrefix(filepath.Base(relativePath), "jane-doe-cv-"), "filename is slugged")
	assert.True(t, strings.HasSuffix(relativePath, ".pdf"), "extension is lowercased")

	saved, err := os.ReadFile(filepath.Join(svc.storagePath, relativePath))
	require.NoError(t, err)
	assert.Equal(t, content, saved)
}

func TestSaveCVUniqueNames(t *testing.T) {
	svc := setupService(t)

	first, err := svc.SaveCV("resume.pdf", []byte("one"))
	require.NoError(t, err)
	second, err := svc.SaveCV("resume.pdf", []byte("two"))
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "same original name must not collide")
}

func TestSaveCVUnsluggableName(t *testing.T) {
	svc := setupService(t)

	relativePath, err := svc.SaveCV("###.pdf", []byte("bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(relativePath), "cv-"), "falls back to a generic name")
}

func TestDeleteFile(t *testing.T) {
	svc := setupService(t)

	relativePath, err := svc.SaveCV("resume.pdf", []byte("bytes"))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteFile(relativePath))

	_, err = os.Stat(filepath.Join(svc.storagePath, relativePath))
	assert.True(t, os.IsNotExist(err), "file should be gone after deletion")
}

func TestDeleteFileNonExistent(t *testing.T) {
	svc := setupService(t)

	assert.NoError(t, svc.DeleteFile("cvs/never-saved.pdf"))
}

func TestDeleteFilePathTraversal(t *testing.T) {
	svc := setupService(t)

	err := svc.DeleteFile("../../etc/passwd")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid file path for deletion")
}
