package churn

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/samber/lo"

	"genrecheck/internal/fileutil"
	"genrecheck/internal/services"
)

// Table is a CSV file held in memory.
type Table struct {
	Header []string
	Rows   [][]string
}

// Column returns the index of name in the header, or -1.
func (t *Table) Column(name string) int {
	return lo.IndexOf(t.Header, name)
}

// ReadCSV parses a comma separated table with a header row.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, services.Wrap(services.ErrValidation, "churn", "read", "input has no header row", nil)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	table := &Table{Header: lo.Map(header, func(h string, _ int) string { return strings.TrimSpace(h) })}
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "churn", "read", "malformed csv", err)
	}
	table.Rows = rows
	return table, nil
}

// WriteCSV writes the header and rows.
func WriteCSV(w io.Writer, t *Table) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.Header); err != nil {
		return err
	}
	if err := writer.WriteAll(t.Rows); err != nil {
		return err
	}
	return writer.Error()
}

// ReadFile loads a table from path.
func ReadFile(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, services.Wrap(services.ErrValidation, "churn", "read", fmt.Sprintf("input %s not found", path), err)
		}
		return nil, err
	}
	defer file.Close()
	return ReadCSV(file)
}

// WriteFile writes t to path, replacing any existing file atomically.
func WriteFile(path string, t *Table) error {
	var buf strings.Builder
	if err := WriteCSV(&buf, t); err != nil {
		return err
	}
	if _, err := fileutil.WriteFile(path, strings.NewReader(buf.String())); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
