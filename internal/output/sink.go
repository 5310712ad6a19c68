package output

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/animus-coder/readmeart/internal/logging"
)

// Sink writes generated artifacts (README, images, saved text) under one root.
type Sink struct {
	guard  *PathGuard
	logger *zap.Logger
}

// NewSink builds a sink rooted at root.
func NewSink(root string, logger *zap.Logger) (*Sink, error) {
	guard, err := NewPathGuard(root)
	if err != nil {
		return nil, err
	}
	return &Sink{guard: guard, logger: logging.OrNop(logger)}, nil
}

// Root returns the absolute output root.
func (s *Sink) Root() string {
	return s.guard.BaseDir
}

// WriteFile writes data to a path relative to the root, creating parent
// directories, and returns the absolute path written.
func (s *Sink) WriteFile(path string, data []byte) (string, error) {
	resolved, err := s.guard.Resolve(path)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return "", fmt.Errorf("create dir for %s: %w", path, err)
	}
	if err := os.WriteFile(resolved, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	s.logger.Debug("wrote file", zap.String("path", resolved), zap.Int("bytes", len(data)))
	return resolved, nil
}

// WriteText is WriteFile for string content.
func (s *Sink) WriteText(path, content string) (string, error) {
	return s.WriteFile(path, []byte(content))
}

// ClearDir removes the regular files directly inside dir and returns how many
// were removed. The directory is created when missing; subdirectories are kept.
func (s *Sink) ClearDir(dir string) (int, error) {
	resolved, err := s.guard.Resolve(dir)
	if err != nil {
		return 0, err
	}
	if resolved == s.guard.BaseDir {
		return 0, fmt.Errorf("refusing to clear output root")
	}
	if err := os.MkdirAll(resolved, 0o755); err != nil {
		return 0, fmt.Errorf("create %s: %w", dir, err)
	}
	entries, err := os.ReadDir(resolved)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if err := os.Remove(filepath.Join(resolved, e.Name())); err != nil {
			return removed, fmt.Errorf("remove %s: %w", e.Name(), err)
		}
		removed++
	}
	s.logger.Debug("cleared dir", zap.String("path", resolved), zap.Int("removed", removed))
	return removed, nil
}
