package splitter

import (
	"path/filepath"
	"strconv"
	"strings"
)

// Layout names the directory and files a split is written to.
type Layout struct {
	// DirSuffix is appended to the input base name to form the output directory.
	DirSuffix string
	// FilePrefix and FileExt frame the 1-based chunk number.
	FilePrefix string
	FileExt    string
}

// DefaultLayout writes <base>_split/output_1.csv … output_N.csv.
func DefaultLayout() Layout {
	return Layout{DirSuffix: "_split", FilePrefix: "output_", FileExt: ".csv"}
}

// OutputDir returns the sibling directory for inputPath.
func (l Layout) OutputDir(inputPath string) string {
	base := filepath.Base(inputPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(inputPath), base+l.DirSuffix)
}

// FileName returns the name of the chunk at 0-based index i.
func (l Layout) FileName(i int) string {
	return l.FilePrefix + strconv.Itoa(i+1) + l.FileExt
}
