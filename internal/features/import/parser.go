package import_feature

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	// PreviewParseLimit bounds the rows kept from the parse pass.
	PreviewParseLimit = 100
	// PreviewDisplayRows is what the Preview step shows.
	PreviewDisplayRows = 10
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrEmptyFile         = errors.New("file has no header row")
	ErrDuplicateHeader   = errors.New("duplicate column header")
)

// ParsedFile is the result of the Upload step's parse.
type ParsedFile struct {
	Headers   []string            `json:"headers"`
	Rows      []map[string]string `json:"rows"`
	TotalRows int                 `json:"total_rows"`
}

// ParseSource reads headers, a bounded row sample and the full data-row count
// in a single pass. Blank lines are skipped and not counted.
func ParseSource(filename string, content []byte) (*ParsedFile, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return parseCSV(bytes.NewReader(content))
	case ".xlsx":
		return parseExcel(bytes.NewReader(content))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(filename))
	}
}

type rowCollector struct {
	parsed *ParsedFile
}

func newRowCollector(header []string) (*rowCollector, error) {
	headers := make([]string, len(header))
	seen := map[string]bool{}
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if h == "" {
			h = fmt.Sprintf("column_%d", i+1)
		}
		if seen[h] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateHeader, h)
		}
		seen[h] = true
		headers[i] = h
	}
	return &rowCollector{parsed: &ParsedFile{Headers: headers, Rows: []map[string]string{}}}, nil
}

func (c *rowCollector) add(record []string) {
	if isBlank(record) {
		return
	}
	c.parsed.TotalRows++
	if len(c.parsed.Rows) >= PreviewParseLimit {
		return
	}
	row := make(map[string]string, len(c.parsed.Headers))
	for i, h := range c.parsed.Headers {
		if i < len(record) {
			row[h] = record[i]
		} else {
			row[h] = ""
		}
	}
	c.parsed.Rows = append(c.parsed.Rows, row)
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func parseCSV(file io.Reader) (*ParsedFile, error) {
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var collector *rowCollector
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}
		if collector == nil {
			if isBlank(rec) {
				continue
			}
			if collector, err = newRowCollector(rec); err != nil {
				return nil, err
			}
			continue
		}
		collector.add(rec)
	}

	if collector == nil {
		return nil, ErrEmptyFile
	}
	return collector.parsed, nil
}

func parseExcel(file io.Reader) (*ParsedFile, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets found in Excel file")
	}

	rows, err := f.Rows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read Excel rows: %w", err)
	}
	defer rows.Close()

	var collector *rowCollector
	for rows.Next() {
		rec, err := rows.Columns()
		if err != nil {
			return nil, fmt.Errorf("failed to read Excel row: %w", err)
		}
		if collector == nil {
			if isBlank(rec) {
				continue
			}
			if collector, err = newRowCollector(rec); err != nil {
				return nil, err
			}
			continue
		}
		collector.add(rec)
	}

	if collector == nil {
		return nil, ErrEmptyFile
	}
	return collector.parsed, nil
}

// PreviewRows returns at most PreviewDisplayRows rows of the sample.
func (p *ParsedFile) PreviewRows() []map[string]string {
	if p == nil {
		return nil
	}
	if len(p.Rows) > PreviewDisplayRows {
		return p.Rows[:PreviewDisplayRows]
	}
	return p.Rows
}
