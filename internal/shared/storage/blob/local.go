package blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adarshsingh05/paperly-backend/internal/shared/util"
)

// LocalStore implements Store on the local filesystem. It exists for dev
// and tests; public URLs are file paths.
type LocalStore struct {
	baseDir string
}

// NewLocal creates a local blob store rooted at baseDir.
func NewLocal(baseDir string) *LocalStore {
	return &LocalStore{baseDir: baseDir}
}

// Upload writes data to disk under the sanitized name.
func (s *LocalStore) Upload(ctx context.Context, name, contentType string, data []byte) (string, error) {
	_ = contentType

	if err := ctx.Err(); err != nil {
		return "", err
	}

	sanitized, err := util.SanitizeFileName(name)
	if err != nil {
		return "", fmt.Errorf("sanitize file name: %w", err)
	}

	if err := os.MkdirAll(s.baseDir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir: %w", err)
	}

	fullPath := filepath.Join(s.baseDir, sanitized)
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return fullPath, nil
}

// Delete removes the named file.
func (s *LocalStore) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	sanitized, err := util.SanitizeFileName(name)
	if err != nil {
		return fmt.Errorf("sanitize file name: %w", err)
	}

	fullPath := filepath.Join(s.baseDir, sanitized)
	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}

var _ Store = (*LocalStore)(nil)
