package api

import (
	"fmt"
	"path/filepath"
	"strings"
)

// pathResolver turns request paths into filesystem paths.
type pathResolver struct {
	base string
}

func (p pathResolver) resolve(path string) (string, error) {
	if p.base == "" {
		return filepath.Clean(path), nil
	}
	base, err := filepath.Abs(p.base)
	if err != nil {
		return "", err
	}
	full := path
	if !filepath.IsAbs(full) {
		full = filepath.Join(base, full)
	}
	full = filepath.Clean(full)
	rel, err := filepath.Rel(base, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideBaseDir, path)
	}
	return full, nil
}
