package sink

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/octobees/outreach-drafter/internal/entity"
)

// ResolveDestination returns requested if it does not exist yet, otherwise the
// first free name_1.ext, name_2.ext, ... sibling. The probe is not atomic with
// respect to other processes resolving the same name.
func ResolveDestination(requested string) (string, error) {
	requested = strings.TrimSpace(requested)
	if requested == "" {
		return "", errors.New("destination path must not be empty")
	}

	exists, err := pathExists(requested)
	if err != nil {
		return "", err
	}
	if !exists {
		return requested, nil
	}

	ext := filepath.Ext(requested)
	base := strings.TrimSuffix(requested, ext)
	for counter := 1; ; counter++ {
		candidate := fmt.Sprintf("%s_%d%s", base, counter, ext)
		exists, err := pathExists(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
}

func pathExists(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("probe %s: %w", path, err)
	}
}

// CSVFile appends records to a resolved destination, one open/close per record.
type CSVFile struct {
	path          string
	headerWritten bool

	// wrap, when set, decorates the open file before rows are written.
	wrap func(io.Writer) io.Writer
}

// NewCSVFile binds a sink to path. Whether the header is still owed is decided
// here, once, not on every append.
func NewCSVFile(path string) (*CSVFile, error) {
	exists, err := pathExists(path)
	if err != nil {
		return nil, err
	}
	return &CSVFile{path: path, headerWritten: exists}, nil
}

// Path returns the destination the sink writes to.
func (f *CSVFile) Path() string {
	return f.path
}

// Append writes one record, preceded by the header on the first write to a fresh file.
func (f *CSVFile) Append(_ context.Context, record entity.EnrichedRecord) (err error) {
	file, err := os.OpenFile(f.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", f.path, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", f.path, closeErr)
		}
	}()

	var out io.Writer = file
	if f.wrap != nil {
		out = f.wrap(file)
	}

	w := NewRecordWriter(out)
	if !f.headerWritten {
		err := w.WriteHeader()
		// A partial header still occupies the top of the file.
		if err == nil || hasData(file) {
			f.headerWritten = true
		}
		if err != nil {
			return fmt.Errorf("write header to %s: %w", f.path, err)
		}
	}
	if err := w.Write(record); err != nil {
		return fmt.Errorf("write record to %s: %w", f.path, err)
	}
	return nil
}

func hasData(file *os.File) bool {
	info, err := file.Stat()
	return err == nil && info.Size() > 0
}

// RecordWriter encodes records as CSV with every field double-quoted.
type RecordWriter struct {
	w io.Writer
}

// NewRecordWriter wraps w.
func NewRecordWriter(w io.Writer) *RecordWriter {
	return &RecordWriter{w: w}
}

// WriteHeader writes the fixed column header.
func (rw *RecordWriter) WriteHeader() error {
	return rw.writeRow(entity.CSVHeader)
}

// Write writes one data row.
func (rw *RecordWriter) Write(record entity.EnrichedRecord) error {
	return rw.writeRow(record.Columns())
}

// WriteAll writes the header followed by every record.
func (rw *RecordWriter) WriteAll(records []entity.EnrichedRecord) error {
	if err := rw.WriteHeader(); err != nil {
		return err
	}
	for _, record := range records {
		if err := rw.Write(record); err != nil {
			return err
		}
	}
	return nil
}

func (rw *RecordWriter) writeRow(fields []string) error {
	var b strings.Builder
	for i, field := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(field, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteString("\r\n")
	_, err := io.WriteString(rw.w, b.String())
	return err
}
