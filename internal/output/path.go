package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PathGuard keeps generated files inside the output root.
type PathGuard struct {
	BaseDir string
}

// NewPathGuard constructs a guard rooted at baseDir (defaults to current working directory).
func NewPathGuard(baseDir string) (*PathGuard, error) {
	if baseDir == "" || baseDir == "." {
		var err error
		baseDir, err = os.Getwd()
		if err != nil {
			return nil, err
		}
	}
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, err
	}
	return &PathGuard{BaseDir: absBase}, nil
}

// Resolve validates a relative path and returns it joined onto BaseDir.
func (g *PathGuard) Resolve(p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		return "", fmt.Errorf("path is required")
	}
	clean := filepath.Clean(p)
	if filepath.IsAbs(clean) {
		return "", fmt.Errorf("absolute output path %q is not allowed", p)
	}
	abs := filepath.Clean(filepath.Join(g.BaseDir, clean))
	if abs != g.BaseDir && !strings.HasPrefix(abs, g.BaseDir+string(os.PathSeparator)) {
		return "", fmt.Errorf("output path %q escapes %s", p, g.BaseDir)
	}
	return abs, nil
}
