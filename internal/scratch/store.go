// Package scratch owns the temporary on-disk copy of an uploaded bill.
// A scratch file belongs to exactly one request: the request that saved it
// removes it on every exit path.
package scratch

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/tanmodi/oorja-backend/constants"
)

type Store struct {
	dir    string
	logger *slog.Logger
}

func NewStore(dir string, logger *slog.Logger) (*Store, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

// Save copies the upload into the scratch directory under a UUID name,
// keeping the original extension. The size cap is enforced again here so a
// caller bypassing the HTTP boundary cannot overfill the directory.
func (s *Store) Save(r io.Reader, originalName string) (string, error) {
	ext := constants.NormalizeExt(filepath.Ext(originalName))
	if ext == "" {
		ext = "pdf"
	}
	path := filepath.Join(s.dir, uuid.New().String()+"."+ext)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create scratch file: %w", err)
	}
	n, err := io.Copy(f, io.LimitReader(r, constants.MaxUploadBytes+1))
	cerr := f.Close()
	if err == nil {
		err = cerr
	}
	if err != nil {
		s.Remove(path)
		return "", fmt.Errorf("write scratch file: %w", err)
	}
	if n > constants.MaxUploadBytes {
		s.Remove(path)
		return "", fmt.Errorf("upload exceeds %d bytes", constants.MaxUploadBytes)
	}

	s.logger.Debug("scratch.saved", "path", path, "bytes", n, "original", originalName)
	return path, nil
}

// Remove deletes a scratch file. Failure is logged and swallowed so cleanup
// never masks the request's primary error.
func (s *Store) Remove(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("scratch.remove_failed", "path", path, "error", err)
		return
	}
	s.logger.Debug("scratch.removed", "path", path)
}
