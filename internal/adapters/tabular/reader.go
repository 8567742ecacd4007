// Package tabular reads and writes the delimited text and spreadsheet files
// both pipelines consume and produce.
package tabular

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/okian/rankmerge/internal/domain/table"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// checkEvery is how many records are processed between context checks.
const checkEvery = 1024

// Reader loads .csv, .tsv and .xlsx files into rows.
type Reader struct {
	delimiter rune
	ragged    bool
	blankRows bool
	keepBOM   bool
	sheet     string
}

// NewReader creates a Reader.
func NewReader(opts ...ReaderOption) *Reader {
	r := &Reader{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Delimiter returns the delimiter used for path.
func (r *Reader) Delimiter(path string) rune {
	if r.delimiter != 0 {
		return r.delimiter
	}
	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		return '\t'
	}
	return ','
}

// ReadRows returns every record of path, the first line included. Blank lines
// are skipped unless WithBlankRows is set.
func (r *Reader) ReadRows(ctx context.Context, path string) ([]table.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return r.readSheet(ctx, path)
	case ".xls":
		return nil, &MalformedFileError{Path: path, Err: ErrUnsupportedFormat}
	default:
		return r.readDelimited(ctx, path)
	}
}

// ReadTable reads path and treats its first record as the header.
func (r *Reader) ReadTable(ctx context.Context, path string) (table.Table, error) {
	rows, err := r.ReadRows(ctx, path)
	if err != nil {
		return table.Table{}, err
	}
	if len(rows) == 0 {
		return table.Table{}, nil
	}
	return table.New(rows[0], rows[1:]...), nil
}

func (r *Reader) readDelimited(ctx context.Context, path string) ([]table.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	var src io.Reader = f
	if !r.keepBOM {
		// A leading UTF-8 BOM would otherwise end up in the first header name.
		src = transform.NewReader(f, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = r.Delimiter(path)
	cr.LazyQuotes = true
	if r.ragged {
		cr.FieldsPerRecord = -1
	}

	var (
		rows []table.Row
		prev int64
	)
	for n := 0; ; n++ {
		if n%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, &MalformedFileError{Path: path, Err: err}
			}
			return nil, &IOError{Op: "read", Path: path, Err: err}
		}
		// csv.Reader skips empty lines; they sit between the previous record
		// and this one.
		end := cr.InputOffset()
		if r.blankRows {
			rows = appendBlank(rows, blankLines(data[prev:end]))
		}
		prev = end
		rows = append(rows, table.Row(rec))
	}
	if r.blankRows {
		rows = appendBlank(rows, blankLines(data[prev:]))
	}
	return rows, nil
}

// blankLines counts the empty lines at the start of b.
func blankLines(b []byte) int {
	n := 0
	for {
		switch {
		case bytes.HasPrefix(b, []byte("\n")):
			b = b[1:]
		case bytes.HasPrefix(b, []byte("\r\n")):
			b = b[2:]
		default:
			return n
		}
		n++
	}
}

func appendBlank(rows []table.Row, n int) []table.Row {
	for ; n > 0; n-- {
		rows = append(rows, table.Row{})
	}
	return rows
}

func (r *Reader) readSheet(ctx context.Context, path string) ([]table.Row, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	sheet := r.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, nil
		}
		sheet = sheets[0]
	}
	recs, err := f.GetRows(sheet)
	if err != nil {
		return nil, &MalformedFileError{Path: path, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows := make([]table.Row, 0, len(recs))
	for _, rec := range recs {
		if len(rec) == 0 && !r.blankRows {
			continue
		}
		rows = append(rows, table.Row(rec))
	}
	return rows, nil
}
