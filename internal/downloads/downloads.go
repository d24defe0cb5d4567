package downloads

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Dir saves downloaded artifacts (tickets, spreadsheets) under a directory.
type Dir struct {
	root string
}

// NewDir builds a downloads sink rooted at root.
func NewDir(root string) *Dir {
	return &Dir{root: root}
}

// Save writes data as name and returns the full path. Names are flattened to
// a single path element.
func (d *Dir) Save(name string, data []byte) (string, error) {
	base := filepath.Base(strings.TrimSpace(name))
	if base == "." || base == string(filepath.Separator) || base == "" {
		return "", errors.New("download name must not be empty")
	}

	if err := os.MkdirAll(d.root, 0o755); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}

	path := filepath.Join(d.root, base)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", base, err)
	}
	return path, nil
}
