package tabular

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"

	"github.com/okian/rankmerge/internal/domain/table"
)

// Writer serialises rows as delimited text.
type Writer struct {
	delimiter rune
	crlf      bool
}

// NewWriter creates a Writer; the default delimiter is a comma.
func NewWriter(opts ...WriterOption) *Writer {
	w := &Writer{delimiter: ','}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// EnsureDir creates dir and its parents if absent.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &IOError{Op: "mkdir", Path: dir, Err: err}
	}
	return nil
}

// WriteTable writes the header followed by the rows of t.
func (w *Writer) WriteTable(ctx context.Context, path string, t table.Table) error {
	return w.WriteRows(ctx, path, tableRows(t))
}

// WriteRows writes rows to path, replacing any existing file. A failed write
// never leaves a truncated file behind.
func (w *Writer) WriteRows(ctx context.Context, path string, rows []table.Row) error {
	b := w.Batch()
	defer b.Discard()
	if err := b.Add(ctx, path, rows); err != nil {
		return err
	}
	return b.Commit()
}

// Batch creates an empty set of staged files written by w.
func (w *Writer) Batch() *Batch {
	return &Batch{w: w}
}

// Batch stages several output files next to their destinations and moves
// them into place together, so a failure while writing any of them leaves
// none behind.
type Batch struct {
	w      *Writer
	staged []staged
}

type staged struct {
	tmp  string
	path string
}

// AddTable stages the header followed by the rows of t for path.
func (b *Batch) AddTable(ctx context.Context, path string, t table.Table) error {
	return b.Add(ctx, path, tableRows(t))
}

// Add writes rows to a temporary file in the directory of path.
func (b *Batch) Add(ctx context.Context, path string, rows []table.Row) error {
	tmp, err := b.w.stage(ctx, path, rows)
	if err != nil {
		return err
	}
	b.staged = append(b.staged, staged{tmp: tmp, path: path})
	return nil
}

// Commit renames every staged file to its destination, in the order added.
func (b *Batch) Commit() error {
	for i, s := range b.staged {
		if err := os.Rename(s.tmp, s.path); err != nil {
			b.staged = b.staged[i:]
			return &IOError{Op: "rename", Path: s.path, Err: err}
		}
	}
	b.staged = nil
	return nil
}

// Discard removes files staged but not committed. It is safe to call after
// Commit.
func (b *Batch) Discard() {
	for _, s := range b.staged {
		_ = os.Remove(s.tmp)
	}
	b.staged = nil
}

func (w *Writer) stage(ctx context.Context, path string, rows []table.Row) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return "", &IOError{Op: "create", Path: path, Err: err}
	}
	ok := false
	defer func() {
		if !ok {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	cw := csv.NewWriter(tmp)
	cw.Comma = w.delimiter
	cw.UseCRLF = w.crlf
	for i, r := range rows {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return "", err
			}
		}
		if err := cw.Write(r); err != nil {
			return "", &IOError{Op: "write", Path: path, Err: err}
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", &IOError{Op: "write", Path: path, Err: err}
	}
	if err := tmp.Chmod(0o644); err != nil {
		return "", &IOError{Op: "chmod", Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		ok = true
		_ = os.Remove(tmp.Name())
		return "", &IOError{Op: "close", Path: path, Err: err}
	}
	ok = true
	return tmp.Name(), nil
}

func tableRows(t table.Table) []table.Row {
	rows := make([]table.Row, 0, len(t.Rows)+1)
	rows = append(rows, t.Header)
	return append(rows, t.Rows...)
}
