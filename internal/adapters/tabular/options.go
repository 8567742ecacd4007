package tabular

// ReaderOption applies a configuration option to a Reader.
type ReaderOption func(*Reader)

// WithDelimiter forces the field delimiter for delimited text. Zero keeps
// detection by extension: tab for .tsv, comma otherwise.
func WithDelimiter(d rune) ReaderOption {
	return func(r *Reader) {
		r.delimiter = d
	}
}

// WithRaggedRows accepts records of any width. Without it every record must
// have as many fields as the first one.
func WithRaggedRows() ReaderOption {
	return func(r *Reader) {
		r.ragged = true
	}
}

// WithBlankRows returns each empty line as an empty row instead of skipping it.
func WithBlankRows() ReaderOption {
	return func(r *Reader) {
		r.blankRows = true
	}
}

// WithBOM keeps a leading UTF-8 byte order mark as part of the first field.
func WithBOM() ReaderOption {
	return func(r *Reader) {
		r.keepBOM = true
	}
}

// WithSheet selects the worksheet read from .xlsx files. Empty selects the
// first sheet.
func WithSheet(name string) ReaderOption {
	return func(r *Reader) {
		r.sheet = name
	}
}

// WriterOption applies a configuration option to a Writer.
type WriterOption func(*Writer)

// WithOutputDelimiter sets the field delimiter for written files.
func WithOutputDelimiter(d rune) WriterOption {
	return func(w *Writer) {
		if d != 0 {
			w.delimiter = d
		}
	}
}

// WithCRLF ends every written record with \r\n.
func WithCRLF() WriterOption {
	return func(w *Writer) {
		w.crlf = true
	}
}
