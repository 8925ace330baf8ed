// Package rowsource reads tabular import files into ordered header-keyed
// records. It does no validation beyond what is needed to parse the file.
package rowsource

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const utf8BOM = "\ufeff"

var (
	// ErrUnsupportedFormat is returned for files that are neither CSV nor XLSX.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrUnreadable wraps any failure to open or parse the file.
	ErrUnreadable = errors.New("file unreadable")
)

// Row maps trimmed header names to raw cell values.
type Row map[string]string

// Record is one data row plus its 1-based line number in the source file.
type Record struct {
	Line   int
	Fields Row
}

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// DetectFormat picks a reader from the MIME type, falling back to the file
// extension because browsers report CSV under several types.
func DetectFormat(path, mimeType string) (Format, error) {
	mt := strings.ToLower(mimeType)
	switch {
	case strings.Contains(mt, "csv"):
		return FormatCSV, nil
	case strings.Contains(mt, "spreadsheetml"):
		return FormatXLSX, nil
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	}
	return "", errors.Wrapf(ErrUnsupportedFormat, "%s (%s)", filepath.Base(path), mimeType)
}

// Read opens path and returns its data rows in file order.
func Read(path, mimeType string) ([]Record, error) {
	format, err := DetectFormat(path, mimeType)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatXLSX:
		return readXLSX(path)
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrapf(ErrUnreadable, "open %s: %v", filepath.Base(path), err)
		}
		defer f.Close()
		return ReadCSV(f)
	}
}

// ReadCSV parses CSV text whose first record is the header.
func ReadCSV(r io.Reader) ([]Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(ErrUnreadable, "read csv: %v", err)
	}
	data = bytes.TrimPrefix(data, []byte(utf8BOM))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var (
		header  []string
		records []Record
	)
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(ErrUnreadable, "parse csv: %v", err)
		}

		if header == nil {
			header = cleanHeader(fields)
			continue
		}

		line, _ := reader.FieldPos(0)
		if rec, ok := buildRecord(header, fields, line); ok {
			records = append(records, rec)
		}
	}

	if header == nil {
		return nil, errors.Wrap(ErrUnreadable, "csv has no header row")
	}
	return records, nil
}

func readXLSX(path string) ([]Record, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrapf(ErrUnreadable, "open %s: %v", filepath.Base(path), err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.Wrap(ErrUnreadable, "workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrapf(ErrUnreadable, "read sheet %s: %v", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, errors.Wrap(ErrUnreadable, "sheet has no header row")
	}

	header := cleanHeader(rows[0])
	records := make([]Record, 0, len(rows)-1)
	for i, fields := range rows[1:] {
		if rec, ok := buildRecord(header, fields, i+2); ok {
			records = append(records, rec)
		}
	}
	return records, nil
}

func cleanHeader(fields []string) []string {
	header := make([]string, len(fields))
	for i, h := range fields {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, utf8BOM))
	}
	return header
}

// buildRecord keys fields by header. Blank rows are reported as !ok. Cells
// beyond the header width and blank header names are ignored.
func buildRecord(header, fields []string, line int) (Record, bool) {
	blank := true
	row := make(Row, len(header))
	for i, name := range header {
		if name == "" {
			continue
		}
		value := ""
		if i < len(fields) {
			value = fields[i]
		}
		if strings.TrimSpace(value) != "" {
			blank = false
		}
		row[name] = value
	}
	if blank {
		return Record{}, false
	}
	return Record{Line: line, Fields: row}, true
}
