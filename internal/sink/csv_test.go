package sink

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/octobees/outreach-drafter/internal/entity"
)

func TestResolveDestination(t *testing.T) {
	dir := t.TempDir()
	requested := filepath.Join(dir, "result.csv")

	got, err := ResolveDestination(requested)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != requested {
		t.Fatalf("expected unused path to be kept, got %s", got)
	}

	touch(t, requested)
	got, err = ResolveDestination(requested)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != filepath.Join(dir, "result_1.csv") {
		t.Fatalf("expected result_1.csv, got %s", got)
	}

	touch(t, filepath.Join(dir, "result_1.csv"))
	got, err = ResolveDestination(requested)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != filepath.Join(dir, "result_2.csv") {
		t.Fatalf("expected result_2.csv, got %s", got)
	}

	if _, err := ResolveDestination("  "); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestResolveDestinationWithoutExtension(t *testing.T) {
	dir := t.TempDir()
	requested := filepath.Join(dir, "export")
	touch(t, requested)

	got, err := ResolveDestination(requested)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != filepath.Join(dir, "export_1") {
		t.Fatalf("expected export_1, got %s", got)
	}
}

func TestCSVFileAppendWritesHeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.csv")
	f, err := NewCSVFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records := []entity.EnrichedRecord{
		{Email: "a@acme.io", FirstName: "Ada", DraftFields: entity.DraftFields{PrimarySubject: `Say "hi"`}},
		{Email: "b@acme.io", FirstName: "Bob"},
	}
	for _, r := range records {
		if err := f.Append(context.Background(), r); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	rows := readCSV(t, path)
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
	if strings.Join(rows[0], "|") != strings.Join(entity.CSVHeader, "|") {
		t.Fatalf("unexpected header: %v", rows[0])
	}
	if rows[1][0] != "a@acme.io" || rows[1][6] != `Say "hi"` {
		t.Fatalf("unexpected first row: %v", rows[1])
	}

	raw, _ := os.ReadFile(path)
	if !strings.HasPrefix(string(raw), `"EMAIL","Website"`) {
		t.Fatalf("expected every field quoted, got %s", raw)
	}
	if !strings.Contains(string(raw), `"","",""`) {
		t.Fatalf("expected empty fields to be quoted, got %s", raw)
	}
}

func TestCSVFileSkipsHeaderForExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.csv")
	if err := os.WriteFile(path, []byte("\"EMAIL\"\r\n"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	f, err := NewCSVFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.Append(context.Background(), entity.EnrichedRecord{Email: "x@y.z"}); err != nil {
		t.Fatalf("append: %v", err)
	}

	raw, _ := os.ReadFile(path)
	if strings.Count(string(raw), "EMAIL") != 1 {
		t.Fatalf("expected no second header, got %s", raw)
	}
}

func TestCSVFileAppendFailure(t *testing.T) {
	f, err := NewCSVFile(filepath.Join(t.TempDir(), "missing-dir", "result.csv"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.Append(context.Background(), entity.EnrichedRecord{}); err == nil {
		t.Fatalf("expected error when parent directory is missing")
	}
	if f.headerWritten {
		t.Fatalf("header must still be owed after a failed open")
	}
}

type shortWriter struct {
	w     io.Writer
	limit int
}

func (s *shortWriter) Write(p []byte) (int, error) {
	if len(p) <= s.limit {
		return s.w.Write(p)
	}
	n, _ := s.w.Write(p[:s.limit])
	return n, errors.New("disk full")
}

func TestCSVFilePartialHeaderIsNotRepeated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.csv")
	f, err := NewCSVFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f.wrap = func(w io.Writer) io.Writer { return &shortWriter{w: w, limit: 5} }
	if err := f.Append(context.Background(), entity.EnrichedRecord{Email: "a@acme.io"}); err == nil {
		t.Fatalf("expected short write to fail")
	}
	if !f.headerWritten {
		t.Fatalf("expected partial header to count as written")
	}

	f.wrap = nil
	if err := f.Append(context.Background(), entity.EnrichedRecord{Email: "b@acme.io"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	raw, _ := os.ReadFile(path)
	if strings.Count(string(raw), `"EMAI`) != 1 {
		t.Fatalf("expected header bytes once, got %q", raw)
	}
	if !strings.Contains(string(raw), `"b@acme.io"`) {
		t.Fatalf("expected second record, got %q", raw)
	}
}

func TestRecordWriterWriteAll(t *testing.T) {
	var buf bytes.Buffer
	err := NewRecordWriter(&buf).WriteAll([]entity.EnrichedRecord{{Email: "a@b.c", Company: "Acme, Inc."}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(rows) != 2 || rows[1][5] != "Acme, Inc." {
		t.Fatalf("unexpected rows: %v", rows)
	}
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("touch %s: %v", path, err)
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer file.Close()
	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return rows
}

func TestCollector(t *testing.T) {
	var c Collector
	_ = c.Append(context.Background(), entity.EnrichedRecord{Email: "a"})
	_ = c.Append(context.Background(), entity.EnrichedRecord{Email: "b"})

	got := c.Records()
	if len(got) != 2 || got[0].Email != "a" || got[1].Email != "b" {
		t.Fatalf("unexpected records: %+v", got)
	}
	got[0].Email = "changed"
	if c.Records()[0].Email != "a" {
		t.Fatalf("expected Records to return a copy")
	}
}
