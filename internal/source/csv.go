package source

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"rfa-explorer/internal/domain"
	"rfa-explorer/internal/observability"
)

const utf8BOM = "\ufeff"

// ParseResult is the outcome of parsing delimited text.
type ParseResult struct {
	Header  []string
	Rows    []map[string]string
	Skipped int // rows the reader could not tokenize
}

// ParseCSV parses delimited text with a header row.
//
// Parsing is tolerant: empty input yields no rows, rows with too few
// fields are padded with "", extra fields are ignored, values are trimmed,
// and rows that cannot be tokenized (a bare or unbalanced quote) are
// skipped and counted. An unterminated quoted field consumes the rest of
// the input, so it counts as one skipped row.
func ParseCSV(data []byte) ParseResult {
	var result ParseResult

	data = bytes.TrimPrefix(data, []byte(utf8BOM))
	if len(bytes.TrimSpace(data)) == 0 {
		return result
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				result.Skipped++
				continue
			}
			break
		}

		if result.Header == nil {
			result.Header = trimAll(record)
			continue
		}

		values := trimAll(record)
		if allEmpty(values) {
			continue
		}

		row := make(map[string]string, len(result.Header))
		for i, name := range result.Header {
			if name == "" {
				continue
			}
			if i < len(values) {
				row[name] = values[i]
			} else {
				row[name] = ""
			}
		}
		result.Rows = append(result.Rows, row)
	}

	return result
}

func trimAll(fields []string) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = strings.TrimSpace(f)
	}
	return out
}

func allEmpty(fields []string) bool {
	for _, f := range fields {
		if f != "" {
			return false
		}
	}
	return true
}

// FileSource reads allocations from a CSV file on disk.
type FileSource struct {
	path   string
	logger logrus.FieldLogger
}

// NewFileSource creates a CSV file source.
func NewFileSource(path string, logger logrus.FieldLogger) *FileSource {
	return &FileSource{
		path:   path,
		logger: logger.WithField("source", "csv"),
	}
}

// Kind returns "csv".
func (s *FileSource) Kind() string {
	return "csv"
}

// Path returns the file path read by Load.
func (s *FileSource) Path() string {
	return s.path
}

// Load reads and parses the file. A missing, unreadable or empty file is
// logged and yields an empty list; Load never returns an error.
func (s *FileSource) Load(_ context.Context) ([]domain.RawRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.WithField("path", s.path).Error("CSV file not found")
			observability.RecordSourceLoad(s.Kind(), "missing", 0)
		} else {
			s.logger.WithError(err).WithField("path", s.path).Error("CSV file unreadable")
			observability.RecordSourceLoad(s.Kind(), "unreadable", 0)
		}
		return []domain.RawRecord{}, nil
	}

	result := ParseCSV(data)
	if result.Skipped > 0 {
		s.logger.WithField("skipped", result.Skipped).Warn("Skipped malformed CSV rows")
		observability.RecordRowsDropped("malformed", result.Skipped)
	}

	if len(result.Rows) == 0 {
		s.logger.WithField("path", s.path).Warn("No valid records found in CSV")
		observability.RecordSourceLoad(s.Kind(), "empty", 0)
		return []domain.RawRecord{}, nil
	}

	if !hasColumn(result.Header, ColumnProjectName) {
		s.logger.WithField("header", result.Header).Warn("CSV header has no project_name column")
	}

	records := ToRawRecords(result.Rows)
	observability.RecordSourceLoad(s.Kind(), "ok", len(records))
	return records, nil
}

func hasColumn(header []string, name string) bool {
	for _, h := range header {
		if h == name {
			return true
		}
	}
	return false
}

var _ AllocationSource = (*FileSource)(nil)
